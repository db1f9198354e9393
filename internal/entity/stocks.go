package entity

import (
	"time"
)

// StockMaster is a catalog entry for a listed stock.
type StockMaster struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Symbol       string       `gorm:"uniqueIndex;not null" json:"symbol"`
	Name         string       `gorm:"not null" json:"name"`
	Sector       string       `json:"sector"`
	MarketCap    string       `json:"market_cap"`
	Style        string       `json:"style"`
	Risk         string       `json:"risk"`
	AvgReturn    float64      `json:"avg_return"`
	Volatility   float64      `json:"volatility"`
	PriceHistory []StockPrice `gorm:"foreignKey:StockMasterID" json:"price_history"`
	CreatedAt    time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (StockMaster) TableName() string {
	return "stock_masters"
}

// LatestPrice returns the last sample of the date ordered price history.
func (s StockMaster) LatestPrice() (StockPrice, bool) {
	if len(s.PriceHistory) == 0 {
		return StockPrice{}, false
	}
	return s.PriceHistory[len(s.PriceHistory)-1], true
}

// StockPrice is one (date, price) sample. Samples are append-only.
type StockPrice struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	StockMasterID uint      `gorm:"not null;uniqueIndex:idx_stock_prices_stock_date" json:"-"`
	Date          time.Time `gorm:"type:date;not null;uniqueIndex:idx_stock_prices_stock_date" json:"date"`
	Price         float64   `gorm:"not null" json:"price"`
}

func (StockPrice) TableName() string {
	return "stock_prices"
}

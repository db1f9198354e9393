package entity

import (
	"fmt"
	"time"
)

// AssetKind tags which catalog an AssetRef points into.
type AssetKind string

const (
	AssetKindStock      AssetKind = "stock"
	AssetKindMutualFund AssetKind = "mutual_fund"
)

// ParseAssetKind validates a client supplied asset type.
func ParseAssetKind(value string) (AssetKind, error) {
	switch AssetKind(value) {
	case AssetKindStock:
		return AssetKindStock, nil
	case AssetKindMutualFund, "mutualFund":
		return AssetKindMutualFund, nil
	}
	return "", fmt.Errorf("unknown asset type %q", value)
}

// AssetRef is a reference to either a StockMaster or a MutualFundMaster row.
type AssetRef struct {
	Kind AssetKind `gorm:"not null" json:"kind"`
	ID   uint      `gorm:"not null" json:"id"`
}

// StockRef builds a reference to a stock catalog entry.
func StockRef(id uint) AssetRef {
	return AssetRef{Kind: AssetKindStock, ID: id}
}

// MutualFundRef builds a reference to a mutual fund catalog entry.
func MutualFundRef(id uint) AssetRef {
	return AssetRef{Kind: AssetKindMutualFund, ID: id}
}

func (a AssetRef) String() string {
	return fmt.Sprintf("%s:%d", a.Kind, a.ID)
}

// Portfolio is a named container of holdings owned by one user.
// Its total value is always derived from the catalog, never stored.
type Portfolio struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Name      string    `gorm:"not null" json:"name"`
	Holdings  []Holding `gorm:"foreignKey:PortfolioID" json:"holdings"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Portfolio) TableName() string {
	return "portfolios"
}

// Holding is a position in one catalog instrument.
type Holding struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PortfolioID   uint      `gorm:"not null;index" json:"portfolio_id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	Asset         AssetRef  `gorm:"embedded;embeddedPrefix:asset_" json:"asset"`
	Quantity      float64   `gorm:"not null" json:"quantity"`
	PurchasePrice float64   `gorm:"not null" json:"purchase_price"`
	PurchaseDate  time.Time `gorm:"type:date;not null" json:"purchase_date"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Holding) TableName() string {
	return "holdings"
}

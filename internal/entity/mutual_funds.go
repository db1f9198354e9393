package entity

import "time"

// MutualFundMaster is a catalog entry for a mutual fund.
type MutualFundMaster struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Symbol      string          `gorm:"index;not null" json:"symbol"`
	ISIN        string          `gorm:"column:isin;uniqueIndex;not null" json:"isin"`
	Name        string          `gorm:"not null" json:"name"`
	Type        string          `json:"type"`
	Risk        string          `json:"risk"`
	Style       string          `json:"style"`
	Return1Y    float64         `gorm:"column:return_1y" json:"return_1y"`
	Return3Y    float64         `gorm:"column:return_3y" json:"return_3y"`
	Return5Y    float64         `gorm:"column:return_5y" json:"return_5y"`
	AUMCr       float64         `gorm:"column:aum_cr" json:"aum_cr"`
	SectorFocus string          `json:"sector_focus"`
	NAVHistory  []MutualFundNAV `gorm:"foreignKey:MutualFundMasterID" json:"nav_history"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (MutualFundMaster) TableName() string {
	return "mutual_fund_masters"
}

// LatestNAV returns the last sample of the date ordered NAV history.
func (m MutualFundMaster) LatestNAV() (MutualFundNAV, bool) {
	if len(m.NAVHistory) == 0 {
		return MutualFundNAV{}, false
	}
	return m.NAVHistory[len(m.NAVHistory)-1], true
}

// MutualFundNAV is one (date, nav) sample. Samples are append-only.
type MutualFundNAV struct {
	ID                 uint      `gorm:"primaryKey" json:"-"`
	MutualFundMasterID uint      `gorm:"not null;uniqueIndex:idx_mutual_fund_navs_fund_date" json:"-"`
	Date               time.Time `gorm:"type:date;not null;uniqueIndex:idx_mutual_fund_navs_fund_date" json:"date"`
	NAV                float64   `gorm:"column:nav;not null" json:"nav"`
}

func (MutualFundNAV) TableName() string {
	return "mutual_fund_navs"
}

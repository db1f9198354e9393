package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Recommendation is one entry in a user's append-only recommendation history.
type Recommendation struct {
	ID                     uint           `gorm:"primaryKey" json:"id"`
	UserID                 uint           `gorm:"not null;index" json:"user_id"`
	Source                 string         `gorm:"not null" json:"source"`
	RecommendedStocks      datatypes.JSON `gorm:"type:jsonb" json:"recommended_stocks"`
	RecommendedMutualFunds datatypes.JSON `gorm:"type:jsonb" json:"recommended_mutual_funds"`
	CreatedAt              time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (Recommendation) TableName() string {
	return "recommendations"
}

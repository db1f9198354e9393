package entity

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Comparison is an immutable snapshot of two catalog items of the same kind
// with the computed verdict.
type Comparison struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Kind      AssetKind      `gorm:"not null" json:"kind"`
	Symbols   pq.StringArray `gorm:"type:text[];not null" json:"symbols"`
	SnapshotA datatypes.JSON `gorm:"column:snapshot_a;type:jsonb" json:"snapshot_a"`
	SnapshotB datatypes.JSON `gorm:"column:snapshot_b;type:jsonb" json:"snapshot_b"`
	Better    string         `json:"better"`
	Summary   string         `json:"summary"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (Comparison) TableName() string {
	return "comparisons"
}

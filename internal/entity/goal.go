package entity

import "time"

// GoalCategory groups goals by purpose.
type GoalCategory string

const (
	GoalCategoryRetirement GoalCategory = "retirement"
	GoalCategoryEducation  GoalCategory = "education"
	GoalCategoryHome       GoalCategory = "home"
	GoalCategoryCustom     GoalCategory = "custom"
)

// Valid reports whether c is a known category.
func (c GoalCategory) Valid() bool {
	switch c {
	case GoalCategoryRetirement, GoalCategoryEducation, GoalCategoryHome, GoalCategoryCustom:
		return true
	}
	return false
}

// Goal is a savings target owned by one user.
type Goal struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	UserID        uint         `gorm:"not null;index" json:"user_id"`
	Name          string       `gorm:"not null" json:"name"`
	TargetAmount  float64      `gorm:"not null" json:"target_amount"`
	CurrentAmount float64      `gorm:"not null;default:0" json:"current_amount"`
	TargetDate    *time.Time   `gorm:"type:date" json:"target_date,omitempty"`
	Category      GoalCategory `gorm:"not null;default:custom" json:"category"`
	Achieved      bool         `gorm:"not null;default:false" json:"achieved"`
	CreatedAt     time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Goal) TableName() string {
	return "goals"
}

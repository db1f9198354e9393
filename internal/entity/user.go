package entity

import "time"

// RiskProfile is the self declared appetite for risk of a user.
type RiskProfile string

const (
	RiskProfileLow      RiskProfile = "low"
	RiskProfileModerate RiskProfile = "moderate"
	RiskProfileHigh     RiskProfile = "high"
)

// Valid reports whether r is one of the known risk profiles.
func (r RiskProfile) Valid() bool {
	switch r {
	case RiskProfileLow, RiskProfileModerate, RiskProfileHigh:
		return true
	}
	return false
}

// User is an account. Goals, portfolios, comparisons and recommendations
// reference it by id.
type User struct {
	ID               uint        `gorm:"primaryKey" json:"id"`
	Email            string      `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash     string      `gorm:"column:password_hash;not null" json:"-"`
	Name             string      `json:"name"`
	Mobile           string      `json:"mobile"`
	Address          string      `json:"address"`
	DateOfBirth      string      `json:"date_of_birth"`
	PANNumber        *string     `gorm:"column:pan_number;uniqueIndex" json:"pan_number,omitempty"`
	PANVerified      bool        `gorm:"column:pan_verified;not null;default:false" json:"pan_verified"`
	PANVerifiedAt    *time.Time  `gorm:"column:pan_verified_at" json:"pan_verified_at,omitempty"`
	DigilockerLinked bool        `gorm:"not null;default:false" json:"digilocker_linked"`
	KYCVerified      bool        `gorm:"column:kyc_verified;not null;default:false" json:"kyc_verified"`
	RiskProfile      RiskProfile `gorm:"not null;default:moderate" json:"risk_profile"`
	CreatedAt        time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

package dto

import "time"

// SignupRequest is the DTO for creating an account.
type SignupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	Mobile      string `json:"mobile"`
	Address     string `json:"address"`
	DateOfBirth string `json:"date_of_birth"`
}

// LoginRequest is the DTO for authenticating.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest is the DTO for profile edits. Nil fields are left unchanged.
type UpdateProfileRequest struct {
	Name        *string `json:"name"`
	Mobile      *string `json:"mobile"`
	Address     *string `json:"address"`
	DateOfBirth *string `json:"date_of_birth"`
	RiskProfile *string `json:"risk_profile"`
}

// UserResponse is the redacted view of a user. It never carries the password hash.
type UserResponse struct {
	ID               uint      `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	Mobile           string    `json:"mobile"`
	Address          string    `json:"address"`
	DateOfBirth      string    `json:"date_of_birth"`
	PANVerified      bool      `json:"pan_verified"`
	DigilockerLinked bool      `json:"digilocker_linked"`
	KYCVerified      bool      `json:"kyc_verified"`
	RiskProfile      string    `json:"risk_profile"`
	CreatedAt        time.Time `json:"created_at"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// AuthResult is what the auth service hands to the transport layer.
type AuthResult struct {
	User      UserResponse
	Token     string
	ExpiresAt time.Time
}

package dto

// CreateGoalRequest is the DTO for creating a goal.
type CreateGoalRequest struct {
	Name          string  `json:"name"`
	TargetAmount  float64 `json:"target_amount"`
	CurrentAmount float64 `json:"current_amount"`
	TargetDate    string  `json:"target_date"` // YYYY-MM-DD
	Category      string  `json:"category"`
}

// UpdateGoalRequest is the DTO for editing a goal. Nil fields are left unchanged.
type UpdateGoalRequest struct {
	Name          *string  `json:"name"`
	TargetAmount  *float64 `json:"target_amount"`
	CurrentAmount *float64 `json:"current_amount"`
	TargetDate    *string  `json:"target_date"`
	Category      *string  `json:"category"`
}

package dto

import "time"

// CreatePortfolioRequest is the DTO for creating a portfolio.
type CreatePortfolioRequest struct {
	Name string `json:"name"`
}

// UpdatePortfolioRequest is the DTO for renaming a portfolio.
type UpdatePortfolioRequest struct {
	Name string `json:"name"`
}

// BuyHoldingRequest records a buy into a portfolio.
type BuyHoldingRequest struct {
	AssetType     string  `json:"asset_type"` // "stock" or "mutual_fund"
	Symbol        string  `json:"symbol"`     // stock symbol, fund symbol or ISIN
	Quantity      float64 `json:"quantity"`
	PurchasePrice float64 `json:"purchase_price"`
	PurchaseDate  string  `json:"purchase_date"` // YYYY-MM-DD, defaults to today
}

// UpdateHoldingRequest changes the quantity or purchase price of a holding.
type UpdateHoldingRequest struct {
	Quantity      *float64 `json:"quantity"`
	PurchasePrice *float64 `json:"purchase_price"`
}

// SellHoldingRequest reduces a holding; selling everything removes it.
type SellHoldingRequest struct {
	Quantity float64 `json:"quantity"`
}

// HoldingResponse is a holding with its resolved catalog data.
type HoldingResponse struct {
	ID             uint      `json:"id"`
	AssetType      string    `json:"asset_type"`
	AssetID        uint      `json:"asset_id"`
	Symbol         string    `json:"symbol,omitempty"`
	Name           string    `json:"name,omitempty"`
	Quantity       float64   `json:"quantity"`
	PurchasePrice  float64   `json:"purchase_price"`
	PurchaseDate   time.Time `json:"purchase_date"`
	CurrentPrice   *float64  `json:"current_price,omitempty"`
	CurrentValue   *float64  `json:"current_value,omitempty"`
	UnrealizedGain *float64  `json:"unrealized_gain,omitempty"`
	Dangling       bool      `json:"dangling,omitempty"`
}

// ValuationWarning flags a holding left out of the valuation.
type ValuationWarning struct {
	HoldingID uint   `json:"holding_id"`
	Asset     string `json:"asset"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// ValuationResponse is the derived value of a portfolio.
type ValuationResponse struct {
	Currency              string             `json:"currency"`
	TotalValue            float64            `json:"total_value"`
	InvestedValue         float64            `json:"invested_value"`
	UnrealizedGain        float64            `json:"unrealized_gain"`
	TotalValueDisplay     string             `json:"total_value_display"`
	InvestedValueDisplay  string             `json:"invested_value_display"`
	UnrealizedGainDisplay string             `json:"unrealized_gain_display"`
	Holdings              []HoldingResponse  `json:"holdings"`
	Warnings              []ValuationWarning `json:"warnings"`
}

// PortfolioResponse is a portfolio with its holdings and valuation.
type PortfolioResponse struct {
	ID        uint               `json:"id"`
	Name      string             `json:"name"`
	Valuation *ValuationResponse `json:"valuation"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

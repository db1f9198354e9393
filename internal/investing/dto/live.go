package dto

// LiveEvent is the envelope of every message pushed on the live channel.
type LiveEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// LiveStock is a perturbed stock quote.
type LiveStock struct {
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	CurrentPrice float64 `json:"currentPrice"`
	Date         string  `json:"date"`
}

// LiveMutualFund is a perturbed fund NAV.
type LiveMutualFund struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Date   string  `json:"date"`
}

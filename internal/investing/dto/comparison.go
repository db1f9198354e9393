package dto

// CreateComparisonRequest compares two catalog items of the same kind.
type CreateComparisonRequest struct {
	Kind    string `json:"kind"` // "stock" or "mutual_fund"
	SymbolA string `json:"symbol_a"`
	SymbolB string `json:"symbol_b"`
}

package dto

// StockImport is one record of a stock seed file.
type StockImport struct {
	Symbol       string             `json:"symbol"`
	Name         string             `json:"name"`
	Sector       string             `json:"sector"`
	MarketCap    string             `json:"marketCap"`
	Style        string             `json:"style"`
	Risk         string             `json:"risk"`
	AvgReturn    float64            `json:"avgReturn"`
	Volatility   float64            `json:"volatility"`
	PriceHistory []PricePointImport `json:"priceHistory"`
}

// PricePointImport is a (date, price) sample. Date is YYYY-MM-DD or RFC 3339.
type PricePointImport struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// FundImport is one record of a mutual fund seed file.
type FundImport struct {
	Symbol      string           `json:"symbol"`
	Name        string           `json:"name"`
	Type        string           `json:"type"`
	Risk        string           `json:"risk"`
	Style       string           `json:"style"`
	Return1Y    float64          `json:"return_1y"`
	Return3Y    float64          `json:"return_3y"`
	Return5Y    float64          `json:"return_5y"`
	AUMCr       float64          `json:"aum_cr"`
	SectorFocus string           `json:"sector_focus"`
	ISIN        string           `json:"isin"`
	NAVHistory  []NAVPointImport `json:"navHistory"`
}

// NAVPointImport is a (date, nav) sample.
type NAVPointImport struct {
	Date string  `json:"date"`
	NAV  float64 `json:"nav"`
}

// ImportSummary reports what an import changed.
type ImportSummary struct {
	Records         int   `json:"records"`
	Skipped         int   `json:"skipped"`
	AppendedSamples int64 `json:"appended_samples"`
}

package common

const (
	RedisKeyCatalogStocks = "catalog:stocks"
	RedisKeyCatalogFunds  = "catalog:funds"

	EventLiveStocks      = "liveStocks"
	EventLiveMutualFunds = "liveMutualFunds"

	ContextKeyUserID = "user_id"

	DefaultCurrency = "INR"
)

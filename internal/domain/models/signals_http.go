package models

// Requests for signal HTTP endpoints. Defined in domain for consistency and reuse.

type SignalRequest struct {
	Symbol   string `param:"symbol" json:"symbol" validate:"required"`
	Lookback int    `query:"lookback" json:"lookback" default:"20" validate:"gte=1,lte=252"`
}

type TodayRequest struct {
	Lookback int `query:"lookback" json:"lookback" default:"20" validate:"gte=1,lte=252"`
}

type TransitionsRequest struct {
	Lookback int `query:"lookback" json:"lookback" default:"20" validate:"gte=1,lte=252"`
	Days     int `query:"days" json:"days" default:"30" validate:"gte=1,lte=365"`
}

type SymbolTransitionsRequest struct {
	Symbol   string `param:"symbol" json:"symbol" validate:"required"`
	Lookback int    `query:"lookback" json:"lookback" default:"20" validate:"gte=1,lte=252"`
	Days     int    `query:"days" json:"days" default:"30" validate:"gte=1,lte=365"`
}

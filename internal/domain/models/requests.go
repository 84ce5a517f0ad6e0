package models

// Requests for the stock HTTP endpoints. Defined in domain for consistency and reuse.

type SearchRequest struct {
	Query string `query:"q" json:"q" validate:"max=64"`
}

type QuoteRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,max=16"`
}

type ChartRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,max=16"`
	Days   int    `query:"days" json:"days" default:"30" validate:"gte=1,lte=365"`
}

type NewsRequest struct {
	Symbol   string `query:"symbol" json:"symbol" validate:"omitempty,max=16"`
	Category string `query:"category" json:"category" default:"general" validate:"oneof=general forex crypto merger"`
}

type ProfileRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,max=16"`
}

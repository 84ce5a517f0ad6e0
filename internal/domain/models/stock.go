package models

// Stock is the normalized quote/search record shared by all providers.
// A record coming from symbol search carries HasQuote=false and zeroed price
// fields; merging a live quote fills them and flips HasQuote. The zero price
// is kept in the wire shape for frontend compatibility, HasQuote is the
// authoritative "is this a real quote" signal.
type Stock struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"` // percent number: 1.23 means +1.23%
	HasQuote      bool    `json:"hasQuote"`
	Sector        string  `json:"sector,omitempty"`
	Region        string  `json:"region,omitempty"`
	Currency      string  `json:"currency,omitempty"`
	High          float64 `json:"high,omitempty"`
	Low           float64 `json:"low,omitempty"`
	Open          float64 `json:"open,omitempty"`
	PrevClose     float64 `json:"prevClose,omitempty"`
}

// MergeQuote copies the price fields of q into s, keeping s's descriptive
// fields (name, region, currency) which quote payloads usually lack.
func (s *Stock) MergeQuote(q *Stock) {
	s.Price = q.Price
	s.Change = q.Change
	s.ChangePercent = q.ChangePercent
	s.High = q.High
	s.Low = q.Low
	s.Open = q.Open
	s.PrevClose = q.PrevClose
	s.HasQuote = true
	if s.Name == "" {
		s.Name = q.Name
	}
	if s.Sector == "" {
		s.Sector = q.Sector
	}
}

// ChartPoint is one trading-session sample. Series are always ordered
// ascending by date, whatever the upstream's native ordering.
type ChartPoint struct {
	Date   string  `json:"date"` // calendar day, YYYY-MM-DD
	Close  float64 `json:"close"`
	Open   float64 `json:"open,omitempty"`
	High   float64 `json:"high,omitempty"`
	Low    float64 `json:"low,omitempty"`
	Volume float64 `json:"volume,omitempty"`
}

// QuoteBatch is the result envelope of a quote fan-out. Failed lists the
// symbols whose quote sub-call was swallowed, so callers can tell "nothing
// failed" from "everything failed but membership was kept".
type QuoteBatch struct {
	Stocks []Stock  `json:"stocks"`
	Failed []string `json:"failed,omitempty"`
}

// CompanyProfile is static company metadata, used to backfill Stock.Name
// and Stock.Sector and exposed on its own endpoint.
type CompanyProfile struct {
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	Exchange          string  `json:"exchange,omitempty"`
	Country           string  `json:"country,omitempty"`
	Currency          string  `json:"currency,omitempty"`
	MarketCap         float64 `json:"marketCap,omitempty"` // dollars
	MarketCapText     string  `json:"marketCapText,omitempty"`
	SharesOutstanding float64 `json:"sharesOutstanding,omitempty"`
	Industry          string  `json:"industry,omitempty"`
	Logo              string  `json:"logo,omitempty"`
	WebURL            string  `json:"weburl,omitempty"`
	IPO               string  `json:"ipo,omitempty"`
}

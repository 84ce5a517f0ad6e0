package models

// NewsArticle is an immutable snapshot of one upstream news item.
type NewsArticle struct {
	ID        int64  `json:"id"`
	Headline  string `json:"headline"`
	Summary   string `json:"summary"`
	Source    string `json:"source"`
	Category  string `json:"category,omitempty"`
	Datetime  int64  `json:"datetime"` // publish time, epoch seconds
	Published string `json:"published,omitempty"`
	URL       string `json:"url"`
	Image     string `json:"image,omitempty"`
	Related   string `json:"related,omitempty"`
}

// NewsCategories are the general-feed categories the frontend offers.
var NewsCategories = []string{"general", "forex", "crypto", "merger"}

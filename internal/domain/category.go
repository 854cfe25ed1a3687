package domain

// CategoryEntity is a category as returned by the shop API
type CategoryEntity struct {
	ID    string    `json:"id"`
	Slug  Localized `json:"link_rewrite"`
	Names Localized `json:"name"`
}

// Category is a resolved category for the configured language
type Category struct {
	ID      string `json:"id"`
	Slug    string `json:"slug"`
	Name    string `json:"name"`
	Ignored bool   `json:"ignored"`
}

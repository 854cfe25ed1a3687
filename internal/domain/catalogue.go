package domain

import "github.com/shopspring/decimal"

// CatalogueItem is one <shopitem> of the exported feed
type CatalogueItem struct {
	ID           string        `json:"id"` // Product or combination reference
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	Manufacturer string        `json:"manufacturer"`
	URL          string        `json:"url"`
	ImageURL     string        `json:"imgurl"`
	Package      Package       `json:"package"`
	Categories   []CategoryRef `json:"categories"`
}

type Package struct {
	ID    string          `json:"id"`
	Count int             `json:"count"`
	Price decimal.Decimal `json:"price"` // VAT excluded, rounded to 3 places
	Vat   decimal.Decimal `json:"vat"`   // Fraction, e.g. 0.21
}

type CategoryRef struct {
	Name string `json:"name"`
}

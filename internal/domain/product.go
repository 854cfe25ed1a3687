package domain

import "github.com/shopspring/decimal"

// Product is the raw product record pulled from the shop API
type Product struct {
	ID                string          `json:"id"`
	Reference         string          `json:"reference"`
	Active            bool            `json:"active"`
	ManufacturerName  string          `json:"manufacturer_name"`
	Names             Localized       `json:"name"`
	Descriptions      Localized       `json:"description"`
	Slugs             Localized       `json:"link_rewrite"`
	DefaultCategoryID string          `json:"id_category_default"`
	DefaultImageID    string          `json:"id_default_image"`
	TaxRulesGroupID   string          `json:"id_tax_rules_group"`
	Price             decimal.Decimal `json:"price"` // VAT included
	CategoryIDs       []string        `json:"category_ids"`
	CombinationIDs    []string        `json:"combination_ids"`
}

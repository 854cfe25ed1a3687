package domain

import "github.com/shopspring/decimal"

// CombinationEntity is a product combination as returned by the shop API
type CombinationEntity struct {
	ID              string          `json:"id"`
	Reference       string          `json:"reference"`
	Price           decimal.Decimal `json:"price"`             // Price delta against the product, VAT excluded
	UnitPriceImpact decimal.Decimal `json:"unit_price_impact"` // Not used for pricing
	Weight          string          `json:"weight"`
	OptionValueIDs  []string        `json:"option_value_ids"`
}

type OptionValueEntity struct {
	ID    string    `json:"id"`
	Names Localized `json:"name"`
}

type OptionValue struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Combination is a resolved product variant
type Combination struct {
	ID              string          `json:"id"`
	Reference       string          `json:"reference"`
	PriceDelta      decimal.Decimal `json:"price_delta"`
	UnitPriceImpact decimal.Decimal `json:"unit_price_impact"`
	Weight          string          `json:"weight"`
	OptionValue     *OptionValue    `json:"option_value,omitempty"`
}

// OptionName returns the option value name, or empty if the combination has none
func (c *Combination) OptionName() string {
	if c.OptionValue == nil {
		return ""
	}
	return c.OptionValue.Name
}

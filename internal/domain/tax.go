package domain

import "github.com/shopspring/decimal"

// TaxRule is one row of the tax rule to tax rules group join table
type TaxRule struct {
	ID              string `json:"id"`
	TaxRulesGroupID string `json:"id_tax_rules_group"`
	TaxID           string `json:"id_tax"`
}

type Tax struct {
	ID   string          `json:"id"`
	Rate decimal.Decimal `json:"rate"` // Percent, e.g. 21
}

type VatRecord struct {
	TaxRulesGroupID string          `json:"tax_rules_group_id"`
	TaxID           string          `json:"tax_id"`
	Rate            decimal.Decimal `json:"rate"`
}

package resolver

import (
	"context"
	"fmt"

	"bbt/exporter/internal/domain"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type TaxFetcher interface {
	GetTaxRules(ctx context.Context) ([]domain.TaxRule, error)
	GetTax(ctx context.Context, id string) (*domain.Tax, error)
}

// VatResolver maps tax rules groups to VAT rates. Setup must complete before
// Rate returns anything.
type VatResolver struct {
	fetcher TaxFetcher
	records map[string]domain.VatRecord
	ready   bool
}

func NewVatResolver(fetcher TaxFetcher) *VatResolver {
	return &VatResolver{
		fetcher: fetcher,
		records: make(map[string]domain.VatRecord),
	}
}

// Setup loads the whole tax rule table and resolves the rate of every
// referenced tax. Only the first tax seen for a group is kept.
func (r *VatResolver) Setup(ctx context.Context) error {
	log.Info("Fetching tax rule groups")
	rules, err := r.fetcher.GetTaxRules(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tax rules: %w", err)
	}

	groupTax := make(map[string]string)
	var groups []string
	for _, rule := range rules {
		if _, ok := groupTax[rule.TaxRulesGroupID]; ok {
			continue
		}
		groupTax[rule.TaxRulesGroupID] = rule.TaxID
		groups = append(groups, rule.TaxRulesGroupID)
		log.Debugf("Tax rules group %s -> tax %s", rule.TaxRulesGroupID, rule.TaxID)
	}

	log.Info("Resolving tax rates")
	rates := make(map[string]decimal.Decimal)
	records := make(map[string]domain.VatRecord, len(groups))
	for _, group := range groups {
		taxID := groupTax[group]
		rate, ok := rates[taxID]
		if !ok {
			tax, err := r.fetcher.GetTax(ctx, taxID)
			if err != nil {
				return fmt.Errorf("failed to resolve tax %s: %w", taxID, err)
			}
			rate = tax.Rate
			rates[taxID] = rate
		}

		records[group] = domain.VatRecord{
			TaxRulesGroupID: group,
			TaxID:           taxID,
			Rate:            rate,
		}
		log.Debugf("Tax id=%s, rate=%s", taxID, rate)
	}

	r.records = records
	r.ready = true
	log.Infof("Resolved %d tax rules groups", len(records))
	return nil
}

// Rate returns the VAT percentage of a tax rules group
func (r *VatResolver) Rate(groupID string) (decimal.Decimal, error) {
	if !r.ready {
		return decimal.Zero, fmt.Errorf("%w: tax rates are not loaded", domain.ErrNotFound)
	}

	record, ok := r.records[groupID]
	if !ok {
		log.Debugf("Tax rules group %s is unknown", groupID)
		return decimal.Zero, fmt.Errorf("%w: tax rules group %s", domain.ErrNotFound, groupID)
	}
	return record.Rate, nil
}

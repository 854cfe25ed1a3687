package resolver

import (
	"context"
	"fmt"

	"bbt/exporter/internal/domain"
)

type fakeShop struct {
	categories   map[string]*domain.CategoryEntity
	taxRules     []domain.TaxRule
	taxes        map[string]*domain.Tax
	combinations map[string]*domain.CombinationEntity
	optionValues map[string]*domain.OptionValueEntity
	err          error

	calls map[string]int
}

func newFakeShop() *fakeShop {
	return &fakeShop{
		categories:   map[string]*domain.CategoryEntity{},
		taxes:        map[string]*domain.Tax{},
		combinations: map[string]*domain.CombinationEntity{},
		optionValues: map[string]*domain.OptionValueEntity{},
		calls:        map[string]int{},
	}
}

func (f *fakeShop) GetCategory(_ context.Context, id string) (*domain.CategoryEntity, error) {
	f.calls["category/"+id]++
	if f.err != nil {
		return nil, f.err
	}
	if c, ok := f.categories[id]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: category %s", domain.ErrNotFound, id)
}

func (f *fakeShop) GetTaxRules(_ context.Context) ([]domain.TaxRule, error) {
	f.calls["tax_rules"]++
	if f.err != nil {
		return nil, f.err
	}
	return f.taxRules, nil
}

func (f *fakeShop) GetTax(_ context.Context, id string) (*domain.Tax, error) {
	f.calls["tax/"+id]++
	if t, ok := f.taxes[id]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: tax %s", domain.ErrNotFound, id)
}

func (f *fakeShop) GetCombination(_ context.Context, id string) (*domain.CombinationEntity, error) {
	f.calls["combination/"+id]++
	if c, ok := f.combinations[id]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: combination %s", domain.ErrNotFound, id)
}

func (f *fakeShop) GetOptionValue(_ context.Context, id string) (*domain.OptionValueEntity, error) {
	f.calls["option_value/"+id]++
	if o, ok := f.optionValues[id]; ok {
		return o, nil
	}
	return nil, fmt.Errorf("%w: option value %s", domain.ErrNotFound, id)
}

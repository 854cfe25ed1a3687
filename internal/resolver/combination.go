package resolver

import (
	"context"

	"bbt/exporter/internal/domain"

	log "github.com/sirupsen/logrus"
)

type CombinationFetcher interface {
	GetCombination(ctx context.Context, id string) (*domain.CombinationEntity, error)
	GetOptionValue(ctx context.Context, id string) (*domain.OptionValueEntity, error)
}

// CombinationResolver resolves product combinations and the option values
// they reference. Both levels are cached separately since option values are
// shared between combinations.
type CombinationResolver struct {
	fetcher      CombinationFetcher
	langID       string
	combinations map[string]*domain.Combination
	optionValues map[string]*domain.OptionValue
}

func NewCombinationResolver(fetcher CombinationFetcher, langID string) *CombinationResolver {
	return &CombinationResolver{
		fetcher:      fetcher,
		langID:       langID,
		combinations: make(map[string]*domain.Combination),
		optionValues: make(map[string]*domain.OptionValue),
	}
}

func (r *CombinationResolver) Combination(ctx context.Context, id string) (*domain.Combination, error) {
	if combination, ok := r.combinations[id]; ok {
		return combination, nil
	}

	log.Debugf("Resolving combination %s", id)
	entity, err := r.fetcher.GetCombination(ctx, id)
	if err != nil {
		return nil, err
	}

	combination := &domain.Combination{
		ID:              id,
		Reference:       entity.Reference,
		PriceDelta:      entity.Price,
		UnitPriceImpact: entity.UnitPriceImpact,
		Weight:          entity.Weight,
	}

	// A combination is treated as having a single option value even when the
	// association lists more; only the first one names the variant.
	if len(entity.OptionValueIDs) > 0 {
		optionValue, err := r.OptionValue(ctx, entity.OptionValueIDs[0])
		if err != nil {
			return nil, err
		}
		combination.OptionValue = optionValue
	}

	r.combinations[id] = combination
	return combination, nil
}

func (r *CombinationResolver) OptionValue(ctx context.Context, id string) (*domain.OptionValue, error) {
	if optionValue, ok := r.optionValues[id]; ok {
		return optionValue, nil
	}

	log.Debugf("Resolving option value %s", id)
	entity, err := r.fetcher.GetOptionValue(ctx, id)
	if err != nil {
		return nil, err
	}

	name, _ := entity.Names.Get(r.langID)
	optionValue := &domain.OptionValue{ID: id, Name: name}
	r.optionValues[id] = optionValue
	return optionValue, nil
}

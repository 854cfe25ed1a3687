package resolver

import (
	"context"
	"fmt"

	"bbt/exporter/internal/domain"

	log "github.com/sirupsen/logrus"
)

type CategoryFetcher interface {
	GetCategory(ctx context.Context, id string) (*domain.CategoryEntity, error)
}

// CategoryResolver resolves category ids to names, slugs and ignore status.
// Resolved categories are cached for the lifetime of the resolver.
type CategoryResolver struct {
	fetcher    CategoryFetcher
	langID     string
	ignored    map[string]struct{}
	categories map[string]*domain.Category
}

// NewCategoryResolver creates a resolver. ignoreSlugs are matched exactly
// against the resolved slug of each category.
func NewCategoryResolver(fetcher CategoryFetcher, langID string, ignoreSlugs []string) *CategoryResolver {
	ignored := make(map[string]struct{}, len(ignoreSlugs))
	for _, slug := range ignoreSlugs {
		ignored[slug] = struct{}{}
	}

	return &CategoryResolver{
		fetcher:    fetcher,
		langID:     langID,
		ignored:    ignored,
		categories: make(map[string]*domain.Category),
	}
}

func (r *CategoryResolver) Name(ctx context.Context, id string) (string, error) {
	category, err := r.resolve(ctx, id)
	if err != nil {
		return "", err
	}
	return category.Name, nil
}

func (r *CategoryResolver) Slug(ctx context.Context, id string) (string, error) {
	category, err := r.resolve(ctx, id)
	if err != nil {
		return "", err
	}
	return category.Slug, nil
}

func (r *CategoryResolver) Ignored(ctx context.Context, id string) (bool, error) {
	category, err := r.resolve(ctx, id)
	if err != nil {
		return false, err
	}
	return category.Ignored, nil
}

func (r *CategoryResolver) resolve(ctx context.Context, id string) (*domain.Category, error) {
	if category, ok := r.categories[id]; ok {
		return category, nil
	}

	log.Debugf("Resolving category %s", id)
	entity, err := r.fetcher.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	// Failed resolutions are not cached, the next lookup fetches again
	slug, ok := entity.Slug.Get(r.langID)
	if !ok || slug == "" {
		return nil, fmt.Errorf("%w: category %s has no slug for language %s", domain.ErrNotFound, id, r.langID)
	}
	name, _ := entity.Names.Get(r.langID)

	_, ignored := r.ignored[slug]
	if ignored {
		log.Debugf("Ignoring category %s (%s)", slug, id)
	}

	category := &domain.Category{
		ID:      id,
		Slug:    slug,
		Name:    name,
		Ignored: ignored,
	}
	r.categories[id] = category

	log.Debugf("Resolved category %s -> %s", id, slug)
	return category, nil
}

package assembler

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"bbt/exporter/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type CategoryResolver interface {
	Name(ctx context.Context, id string) (string, error)
	Slug(ctx context.Context, id string) (string, error)
	Ignored(ctx context.Context, id string) (bool, error)
}

type VatResolver interface {
	Rate(groupID string) (decimal.Decimal, error)
}

type CombinationResolver interface {
	Combination(ctx context.Context, id string) (*domain.Combination, error)
}

type Options struct {
	ShopURL                 string // scheme://host without trailing slash
	LanguageID              string
	ReferenceIgnorePatterns []string
}

var hundred = decimal.NewFromInt(100)

// Assembler turns raw products into catalogue items
type Assembler struct {
	categories   CategoryResolver
	vat          VatResolver
	combinations CombinationResolver

	shopURL        string
	langID         string
	ignorePatterns []*regexp.Regexp
}

func New(
	categories CategoryResolver,
	vat VatResolver,
	combinations CombinationResolver,
	opts Options,
) (*Assembler, error) {
	patterns := make([]*regexp.Regexp, 0, len(opts.ReferenceIgnorePatterns))
	for _, pattern := range opts.ReferenceIgnorePatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid reference ignore pattern %q: %w", pattern, err)
		}
		patterns = append(patterns, re)
	}

	return &Assembler{
		categories:     categories,
		vat:            vat,
		combinations:   combinations,
		shopURL:        strings.TrimRight(opts.ShopURL, "/"),
		langID:         opts.LanguageID,
		ignorePatterns: patterns,
	}, nil
}

// Assemble returns the catalogue items of one product: none when the product
// is filtered out, one per combination when it has any, otherwise exactly one.
func (a *Assembler) Assemble(ctx context.Context, product *domain.Product) ([]domain.CatalogueItem, error) {
	if !product.Active {
		log.Debugf("Product %s is not active", product.ID)
		return nil, nil
	}

	if pattern := a.matchIgnorePattern(product.Reference); pattern != "" {
		log.Infof("Ignoring product %s, because its refcode '%s' matches ignore pattern '%s'",
			product.ID, product.Reference, pattern)
		return nil, nil
	}

	base, err := a.baseItem(ctx, product)
	if err != nil {
		return nil, err
	}

	rate, err := a.vat.Rate(product.TaxRulesGroupID)
	if err != nil {
		return nil, fmt.Errorf("%w: product %s, tax rules group %s: %v",
			domain.ErrUnresolvableTaxRate, product.ID, product.TaxRulesGroupID, err)
	}
	priceExVat := product.Price.Div(decimal.NewFromInt(1).Add(rate.Div(hundred)))

	categories, err := a.categoryRefs(ctx, product.CategoryIDs)
	if err != nil {
		return nil, err
	}

	if len(product.CombinationIDs) == 0 {
		item := a.item(base, product.Reference, base.Name, priceExVat, rate, categories)
		log.Debugf("Added id=%s, name=%s, price=%s, url=%s", product.ID, item.Name, item.Package.Price, item.URL)
		return []domain.CatalogueItem{item}, nil
	}

	log.Debugf("Product %s uses combinations (%d)", product.ID, len(product.CombinationIDs))
	items := make([]domain.CatalogueItem, 0, len(product.CombinationIDs))
	for _, combinationID := range product.CombinationIDs {
		combination, err := a.combinations.Combination(ctx, combinationID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				log.Warnf("Skipping combination %s of product %s: %v", combinationID, product.ID, err)
				continue
			}
			return nil, fmt.Errorf("failed to resolve combination %s of product %s: %w", combinationID, product.ID, err)
		}

		reference := product.Reference
		if combination.Reference != "" {
			reference = combination.Reference
		}

		// Every variant starts from the clean base name
		name := base.Name + ", " + combination.OptionName()
		price := priceExVat.Add(combination.PriceDelta)

		item := a.item(base, reference, name, price, rate, categories)
		log.Debugf("Added id=%s, name=%s, price=%s, url=%s", product.ID, item.Name, item.Package.Price, item.URL)
		items = append(items, item)
	}

	return items, nil
}

func (a *Assembler) matchIgnorePattern(reference string) string {
	for _, re := range a.ignorePatterns {
		if re.MatchString(reference) {
			return re.String()
		}
	}
	return ""
}

// baseItem fills the attributes shared by every variant of the product
func (a *Assembler) baseItem(ctx context.Context, product *domain.Product) (domain.CatalogueItem, error) {
	name, _ := product.Names.Get(a.langID)
	description, _ := product.Descriptions.Get(a.langID)
	slug, _ := product.Slugs.Get(a.langID)

	url, err := a.productURL(ctx, product, slug)
	if err != nil {
		return domain.CatalogueItem{}, err
	}

	return domain.CatalogueItem{
		Name:         name,
		Description:  stripTags(description),
		Manufacturer: product.ManufacturerName,
		URL:          url,
		ImageURL:     a.imageURL(product.DefaultImageID),
	}, nil
}

func (a *Assembler) productURL(ctx context.Context, product *domain.Product, slug string) (string, error) {
	page := product.ID + "-" + slug + ".html"

	categorySlug, err := a.categories.Slug(ctx, product.DefaultCategoryID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("failed to resolve default category %s of product %s: %w",
				product.DefaultCategoryID, product.ID, err)
		}
		log.Warnf("Default category %s of product %s is unresolvable: %v", product.DefaultCategoryID, product.ID, err)
		return a.shopURL + "/" + page, nil
	}

	return a.shopURL + "/" + categorySlug + "/" + page, nil
}

// imageURL follows the shop image storage layout, one directory per digit of
// the image id: 158 -> img/p/1/5/8/158.jpg
func (a *Assembler) imageURL(imageID string) string {
	if imageID == "" {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(a.shopURL)
	sb.WriteString("/img/p/")
	for _, r := range imageID {
		sb.WriteRune(r)
		sb.WriteByte('/')
	}
	sb.WriteString(imageID)
	sb.WriteString(".jpg")
	return sb.String()
}

// categoryRefs lists the resolvable, non-ignored categories in association order
func (a *Assembler) categoryRefs(ctx context.Context, ids []string) ([]domain.CategoryRef, error) {
	refs := make([]domain.CategoryRef, 0, len(ids))
	for _, id := range ids {
		name, err := a.categories.Name(ctx, id)
		if err == nil {
			var ignored bool
			ignored, err = a.categories.Ignored(ctx, id)
			if err == nil && ignored {
				continue
			}
		}
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				log.Debugf("Dropping unresolvable category %s: %v", id, err)
				continue
			}
			return nil, fmt.Errorf("failed to resolve category %s: %w", id, err)
		}

		refs = append(refs, domain.CategoryRef{Name: name})
	}
	return refs, nil
}

func (a *Assembler) item(
	base domain.CatalogueItem,
	reference, name string,
	priceExVat, rate decimal.Decimal,
	categories []domain.CategoryRef,
) domain.CatalogueItem {
	item := base
	item.ID = reference
	item.Name = name
	item.Package = domain.Package{
		ID:    reference,
		Count: 1,
		Price: priceExVat.Round(3),
		Vat:   rate.Div(hundred),
	}
	item.Categories = slices.Clone(categories)
	return item
}

// stripTags reduces an HTML fragment to its text content
func stripTags(html string) string {
	if html == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		log.Warnf("Failed to parse description HTML, using it verbatim: %v", err)
		return html
	}
	return strings.TrimSpace(doc.Text())
}

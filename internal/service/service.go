package service

import (
	"context"
	"errors"
	"fmt"

	"bbt/exporter/internal/domain"

	log "github.com/sirupsen/logrus"
)

type ProductSource interface {
	ListProductIDs(ctx context.Context) ([]string, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

type VatSetup interface {
	Setup(ctx context.Context) error
}

type Assembler interface {
	Assemble(ctx context.Context, product *domain.Product) ([]domain.CatalogueItem, error)
}

type Sink interface {
	Add(items ...domain.CatalogueItem)
	Flush(path string) error
}

// Stats summarises one export run
type Stats struct {
	Products int
	Skipped  int
	Items    int
}

type Service struct {
	products  ProductSource
	vat       VatSetup
	assembler Assembler
	sink      Sink
	output    string
}

func NewService(
	products ProductSource,
	vat VatSetup,
	assembler Assembler,
	sink Sink,
	output string,
) *Service {
	return &Service{
		products:  products,
		vat:       vat,
		assembler: assembler,
		sink:      sink,
		output:    output,
	}
}

// Export processes every product of the shop in order and writes the feed.
// Errors confined to one product skip that product; anything else aborts the
// run before the feed is written.
func (s *Service) Export(ctx context.Context) (*Stats, error) {
	if err := s.vat.Setup(ctx); err != nil {
		return nil, err
	}

	ids, err := s.products.ListProductIDs(ctx)
	if err != nil {
		return nil, err
	}
	log.Infof("🔄 Exporting %d products", len(ids))

	stats := &Stats{}
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("export cancelled: %w", err)
		}

		log.Debugf("Processing product %d/%d (id=%s)", i+1, len(ids), id)
		stats.Products++

		items, err := s.exportProduct(ctx, id)
		if err != nil {
			if isProductError(err) {
				log.Warnf("⚠️ Skipping product %s: %v", id, err)
				stats.Skipped++
				continue
			}
			return nil, err
		}

		s.sink.Add(items...)
		stats.Items += len(items)
	}

	if err := s.sink.Flush(s.output); err != nil {
		return nil, fmt.Errorf("failed to write catalogue: %w", err)
	}

	log.Infof("✅ Exported %d items from %d products (%d skipped)", stats.Items, stats.Products, stats.Skipped)
	return stats, nil
}

func (s *Service) exportProduct(ctx context.Context, id string) ([]domain.CatalogueItem, error) {
	product, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.assembler.Assemble(ctx, product)
}

func isProductError(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrUnresolvableTaxRate) ||
		errors.Is(err, domain.ErrInvalidData)
}

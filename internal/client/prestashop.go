package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"bbt/exporter/internal/config"
	"bbt/exporter/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

type PrestaShopClient interface {
	ListProductIDs(ctx context.Context) ([]string, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	GetCategory(ctx context.Context, id string) (*domain.CategoryEntity, error)
	GetTaxRules(ctx context.Context) ([]domain.TaxRule, error)
	GetTax(ctx context.Context, id string) (*domain.Tax, error)
	GetCombination(ctx context.Context, id string) (*domain.CombinationEntity, error)
	GetOptionValue(ctx context.Context, id string) (*domain.OptionValueEntity, error)
	Close() error
}

type prestaShopClient struct {
	rl         ratelimit.Limiter
	config     config.ShopConfig
	httpClient *resty.Client
	parser     *responseParser
}

func NewPrestaShopClient(cfg config.ShopConfig) PrestaShopClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL()+"/api").
		SetTimeout(time.Duration(cfg.Timeout)*time.Second).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(2*time.Second).
		SetRetryMaxWaitTime(10*time.Second).
		SetHeader("Accept", "application/xml").
		// The web service key is the basic auth user with an empty password
		SetBasicAuth(cfg.AuthKey, "")

	if cfg.Proxy != "" {
		client.SetProxy(cfg.Proxy)
		log.Infof("🔗 Using proxy: %s", cfg.Proxy)
	}

	rl := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	return &prestaShopClient{
		rl:         rl,
		config:     cfg,
		httpClient: client,
		parser:     newResponseParser(),
	}
}

func (c *prestaShopClient) ListProductIDs(ctx context.Context) ([]string, error) {
	body, err := c.fetchXML(ctx, "/products", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	ids, err := c.parser.ParseProductIDs(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse product list: %w", err)
	}

	log.Debugf("Listed %d products", len(ids))
	return ids, nil
}

func (c *prestaShopClient) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	body, err := c.fetchXML(ctx, "/products/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product %s: %w", id, err)
	}

	product, err := c.parser.ParseProduct(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse product %s: %w", id, err)
	}
	return product, nil
}

func (c *prestaShopClient) GetCategory(ctx context.Context, id string) (*domain.CategoryEntity, error) {
	body, err := c.fetchXML(ctx, "/categories/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category %s: %w", id, err)
	}

	category, err := c.parser.ParseCategory(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse category %s: %w", id, err)
	}
	return category, nil
}

func (c *prestaShopClient) GetTaxRules(ctx context.Context) ([]domain.TaxRule, error) {
	body, err := c.fetchXML(ctx, "/tax_rules", map[string]string{"display": "full"})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tax rules: %w", err)
	}

	rules, err := c.parser.ParseTaxRules(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tax rules: %w", err)
	}
	return rules, nil
}

func (c *prestaShopClient) GetTax(ctx context.Context, id string) (*domain.Tax, error) {
	body, err := c.fetchXML(ctx, "/taxes/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tax %s: %w", id, err)
	}

	tax, err := c.parser.ParseTax(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tax %s: %w", id, err)
	}
	return tax, nil
}

func (c *prestaShopClient) GetCombination(ctx context.Context, id string) (*domain.CombinationEntity, error) {
	body, err := c.fetchXML(ctx, "/combinations/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch combination %s: %w", id, err)
	}

	combination, err := c.parser.ParseCombination(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse combination %s: %w", id, err)
	}
	return combination, nil
}

func (c *prestaShopClient) GetOptionValue(ctx context.Context, id string) (*domain.OptionValueEntity, error) {
	body, err := c.fetchXML(ctx, "/product_option_values/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch option value %s: %w", id, err)
	}

	optionValue, err := c.parser.ParseOptionValue(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse option value %s: %w", id, err)
	}
	return optionValue, nil
}

func (c *prestaShopClient) Close() error {
	return c.httpClient.Close()
}

// fetchXML issues a rate limited GET and maps web service failures to domain errors
func (c *prestaShopClient) fetchXML(ctx context.Context, path string, query map[string]string) (string, error) {
	c.rl.Take()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(path)

	if err != nil {
		// Check if this is a context cancellation from the parent context
		if ctx.Err() != nil {
			return "", fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return "", fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}

	switch resp.StatusCode() {
	case http.StatusUnauthorized:
		return "", fmt.Errorf("%w: HTTP %s", domain.ErrBadCredentials, resp.Status())
	case http.StatusNotFound:
		return "", fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}

	if resp.IsError() {
		return "", fmt.Errorf("%w: HTTP error: %d %s", domain.ErrTransport, resp.StatusCode(), resp.Status())
	}

	log.Debugf("GET %s -> %d", path, resp.StatusCode())
	return resp.String(), nil
}

package client

import (
	"fmt"
	"strings"

	"bbt/exporter/internal/domain"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
)

type responseParser struct{}

func newResponseParser() *responseParser {
	return &responseParser{}
}

// document parses a web service response and returns its <prestashop> root
func (p *responseParser) document(body string) (*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(body); err != nil {
		return nil, fmt.Errorf("%w: failed to parse XML: %v", domain.ErrTransport, err)
	}

	root := doc.SelectElement("prestashop")
	if root == nil {
		return nil, fmt.Errorf("%w: response has no prestashop root", domain.ErrTransport)
	}
	return root, nil
}

func (p *responseParser) entity(root *etree.Element, name string) (*etree.Element, error) {
	el := root.SelectElement(name)
	if el == nil {
		return nil, fmt.Errorf("%w: response has no %s element", domain.ErrTransport, name)
	}
	return el, nil
}

func (p *responseParser) ParseProductIDs(body string) ([]string, error) {
	root, err := p.document(body)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, el := range root.FindElements("products/product") {
		if id := el.SelectAttrValue("id", ""); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (p *responseParser) ParseProduct(body string) (*domain.Product, error) {
	root, err := p.document(body)
	if err != nil {
		return nil, err
	}
	el, err := p.entity(root, "product")
	if err != nil {
		return nil, err
	}

	id := text(el, "id")
	price, err := parseDecimal(text(el, "price"))
	if err != nil {
		return nil, fmt.Errorf("%w: product %s price: %v", domain.ErrInvalidData, id, err)
	}

	return &domain.Product{
		ID:                id,
		Reference:         text(el, "reference"),
		Active:            text(el, "active") == "1",
		ManufacturerName:  text(el, "manufacturer_name"),
		Names:             localized(el, "name"),
		Descriptions:      localized(el, "description"),
		Slugs:             localized(el, "link_rewrite"),
		DefaultCategoryID: text(el, "id_category_default"),
		DefaultImageID:    text(el, "id_default_image"),
		TaxRulesGroupID:   text(el, "id_tax_rules_group"),
		Price:             price,
		CategoryIDs:       associatedIDs(el, "associations/categories/category"),
		CombinationIDs:    associatedIDs(el, "associations/combinations/combination"),
	}, nil
}

func (p *responseParser) ParseCategory(body string) (*domain.CategoryEntity, error) {
	root, err := p.document(body)
	if err != nil {
		return nil, err
	}
	el, err := p.entity(root, "category")
	if err != nil {
		return nil, err
	}

	return &domain.CategoryEntity{
		ID:    text(el, "id"),
		Slug:  localized(el, "link_rewrite"),
		Names: localized(el, "name"),
	}, nil
}

func (p *responseParser) ParseTaxRules(body string) ([]domain.TaxRule, error) {
	root, err := p.document(body)
	if err != nil {
		return nil, err
	}

	var rules []domain.TaxRule
	for _, el := range root.FindElements("tax_rules/tax_rule") {
		rules = append(rules, domain.TaxRule{
			ID:              text(el, "id"),
			TaxRulesGroupID: text(el, "id_tax_rules_group"),
			TaxID:           text(el, "id_tax"),
		})
	}
	return rules, nil
}

func (p *responseParser) ParseTax(body string) (*domain.Tax, error) {
	root, err := p.document(body)
	if err != nil {
		return nil, err
	}
	el, err := p.entity(root, "tax")
	if err != nil {
		return nil, err
	}

	id := text(el, "id")
	rate, err := parseDecimal(text(el, "rate"))
	if err != nil {
		return nil, fmt.Errorf("%w: tax %s rate: %v", domain.ErrInvalidData, id, err)
	}

	return &domain.Tax{ID: id, Rate: rate}, nil
}

func (p *responseParser) ParseCombination(body string) (*domain.CombinationEntity, error) {
	root, err := p.document(body)
	if err != nil {
		return nil, err
	}
	el, err := p.entity(root, "combination")
	if err != nil {
		return nil, err
	}

	id := text(el, "id")
	price, err := parseDecimal(text(el, "price"))
	if err != nil {
		return nil, fmt.Errorf("%w: combination %s price: %v", domain.ErrInvalidData, id, err)
	}
	impact, err := parseDecimal(text(el, "unit_price_impact"))
	if err != nil {
		return nil, fmt.Errorf("%w: combination %s unit price impact: %v", domain.ErrInvalidData, id, err)
	}

	return &domain.CombinationEntity{
		ID:              id,
		Reference:       text(el, "reference"),
		Price:           price,
		UnitPriceImpact: impact,
		Weight:          text(el, "weight"),
		OptionValueIDs:  associatedIDs(el, "associations/product_option_values/product_option_value"),
	}, nil
}

func (p *responseParser) ParseOptionValue(body string) (*domain.OptionValueEntity, error) {
	root, err := p.document(body)
	if err != nil {
		return nil, err
	}
	el, err := p.entity(root, "product_option_value")
	if err != nil {
		return nil, err
	}

	return &domain.OptionValueEntity{
		ID:    text(el, "id"),
		Names: localized(el, "name"),
	}, nil
}

func text(el *etree.Element, path string) string {
	found := el.FindElement(path)
	if found == nil {
		return ""
	}
	return strings.TrimSpace(found.Text())
}

// localized collects <language id="N"> children of the element at path
func localized(el *etree.Element, path string) domain.Localized {
	values := domain.Localized{}
	found := el.FindElement(path)
	if found == nil {
		return values
	}
	for _, lang := range found.SelectElements("language") {
		id := lang.SelectAttrValue("id", "")
		if id == "" {
			continue
		}
		values[id] = strings.TrimSpace(lang.Text())
	}
	return values
}

// associatedIDs returns the <id> of every element at path, in document order
func associatedIDs(el *etree.Element, path string) []string {
	var ids []string
	for _, assoc := range el.FindElements(path) {
		if id := text(assoc, "id"); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

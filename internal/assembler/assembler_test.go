package assembler

import (
	"context"
	"fmt"
	"testing"

	"bbt/exporter/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCategories struct {
	categories map[string]domain.Category
	errs       map[string]error
}

func (f *fakeCategories) lookup(id string) (domain.Category, error) {
	if err, ok := f.errs[id]; ok {
		return domain.Category{}, err
	}
	c, ok := f.categories[id]
	if !ok {
		return domain.Category{}, fmt.Errorf("%w: category %s", domain.ErrNotFound, id)
	}
	return c, nil
}

func (f *fakeCategories) Name(_ context.Context, id string) (string, error) {
	c, err := f.lookup(id)
	return c.Name, err
}

func (f *fakeCategories) Slug(_ context.Context, id string) (string, error) {
	c, err := f.lookup(id)
	return c.Slug, err
}

func (f *fakeCategories) Ignored(_ context.Context, id string) (bool, error) {
	c, err := f.lookup(id)
	return c.Ignored, err
}

type fakeVat map[string]decimal.Decimal

func (f fakeVat) Rate(groupID string) (decimal.Decimal, error) {
	rate, ok := f[groupID]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: tax rules group %s", domain.ErrNotFound, groupID)
	}
	return rate, nil
}

type fakeCombinations struct {
	combinations map[string]*domain.Combination
	err          error
}

func (f *fakeCombinations) Combination(_ context.Context, id string) (*domain.Combination, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.combinations[id]
	if !ok {
		return nil, fmt.Errorf("%w: combination %s", domain.ErrNotFound, id)
	}
	return c, nil
}

type fixture struct {
	categories   *fakeCategories
	vat          fakeVat
	combinations *fakeCombinations
}

func newFixture() *fixture {
	return &fixture{
		categories: &fakeCategories{
			categories: map[string]domain.Category{
				"2":  {ID: "2", Slug: "home", Name: "Home", Ignored: true},
				"10": {ID: "10", Slug: "toys", Name: "Toys"},
				"11": {ID: "11", Slug: "puzzles", Name: "Puzzles"},
			},
			errs: map[string]error{},
		},
		vat: fakeVat{"1": decimal.NewFromInt(21), "2": decimal.NewFromInt(15)},
		combinations: &fakeCombinations{
			combinations: map[string]*domain.Combination{
				"100": {ID: "100", Reference: "PZ-S", PriceDelta: decimal.NewFromInt(10), OptionValue: &domain.OptionValue{ID: "1", Name: "S"}},
				"101": {ID: "101", Reference: "PZ-M", PriceDelta: decimal.NewFromInt(20), OptionValue: &domain.OptionValue{ID: "2", Name: "M"}},
				"102": {ID: "102", Reference: "", PriceDelta: decimal.Zero, OptionValue: &domain.OptionValue{ID: "3", Name: "L"}},
			},
		},
	}
}

func (f *fixture) assembler(t *testing.T, patterns ...string) *Assembler {
	t.Helper()
	a, err := New(f.categories, f.vat, f.combinations, Options{
		ShopURL:                 "http://shop.example.com",
		LanguageID:              "2",
		ReferenceIgnorePatterns: patterns,
	})
	require.NoError(t, err)
	return a
}

func testProduct() *domain.Product {
	return &domain.Product{
		ID:                "158",
		Reference:         "PZ-1000",
		Active:            true,
		ManufacturerName:  "Ravensburger",
		Names:             domain.Localized{"1": "Puzzle", "2": "Skládačka"},
		Descriptions:      domain.Localized{"2": "<p>Great <b>puzzle</b> &amp; fun</p>"},
		Slugs:             domain.Localized{"2": "skladacka"},
		DefaultCategoryID: "11",
		DefaultImageID:    "158",
		TaxRulesGroupID:   "1",
		Price:             decimal.NewFromInt(121),
		CategoryIDs:       []string{"2", "10", "11"},
	}
}

func TestAssemble_ProductWithoutCombinations(t *testing.T) {
	f := newFixture()
	items, err := f.assembler(t).Assemble(context.Background(), testProduct())
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "PZ-1000", item.ID)
	assert.Equal(t, "Skládačka", item.Name)
	assert.Equal(t, "Great puzzle & fun", item.Description)
	assert.Equal(t, "Ravensburger", item.Manufacturer)
	assert.Equal(t, "http://shop.example.com/puzzles/158-skladacka.html", item.URL)
	assert.Equal(t, "http://shop.example.com/img/p/1/5/8/158.jpg", item.ImageURL)

	assert.Equal(t, "PZ-1000", item.Package.ID)
	assert.Equal(t, 1, item.Package.Count)
	assert.True(t, decimal.NewFromInt(100).Equal(item.Package.Price), "price %s", item.Package.Price)
	assert.Equal(t, "0.21", item.Package.Vat.String())

	assert.Equal(t, []domain.CategoryRef{{Name: "Toys"}, {Name: "Puzzles"}}, item.Categories)
}

func TestAssemble_PriceIsRoundedToThreeDecimals(t *testing.T) {
	f := newFixture()
	p := testProduct()
	p.Price = decimal.NewFromInt(100)

	items, err := f.assembler(t).Assemble(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "82.645", items[0].Package.Price.String())
}

func TestAssemble_ExpandsCombinations(t *testing.T) {
	f := newFixture()
	p := testProduct()
	p.CombinationIDs = []string{"100", "101", "102"}

	items, err := f.assembler(t).Assemble(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, items, 3)

	tests := []struct {
		id    string
		name  string
		price string
	}{
		{id: "PZ-S", name: "Skládačka, S", price: "110"},
		{id: "PZ-M", name: "Skládačka, M", price: "120"},
		{id: "PZ-1000", name: "Skládačka, L", price: "100"},
	}
	for i, tc := range tests {
		item := items[i]
		assert.Equal(t, tc.id, item.ID)
		assert.Equal(t, tc.id, item.Package.ID)
		assert.Equal(t, tc.name, item.Name)
		assert.True(t, decimal.RequireFromString(tc.price).Equal(item.Package.Price),
			"item %d price %s, want %s", i, item.Package.Price, tc.price)

		assert.Equal(t, "Ravensburger", item.Manufacturer)
		assert.Equal(t, "http://shop.example.com/puzzles/158-skladacka.html", item.URL)
		assert.Equal(t, []domain.CategoryRef{{Name: "Toys"}, {Name: "Puzzles"}}, item.Categories)
	}
}

func TestAssemble_SingleCombinationPrice(t *testing.T) {
	f := newFixture()
	p := testProduct()
	p.CombinationIDs = []string{"100"}

	items, err := f.assembler(t).Assemble(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, decimal.NewFromInt(110).Equal(items[0].Package.Price))
	assert.Equal(t, "0.21", items[0].Package.Vat.String())
}

func TestAssemble_InactiveProduct(t *testing.T) {
	f := newFixture()
	p := testProduct()
	p.Active = false
	p.CombinationIDs = []string{"100"}

	items, err := f.assembler(t).Assemble(context.Background(), p)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAssemble_ReferenceIgnorePatterns(t *testing.T) {
	tests := []struct {
		reference string
		ignored   bool
	}{
		{reference: "SY_100", ignored: true},
		{reference: "NU_7", ignored: true},
		{reference: "PZ-1000", ignored: false},
		{reference: "XSY_100", ignored: false},
		{reference: "A-TMP-1", ignored: true}, // unanchored search
	}

	f := newFixture()
	a := f.assembler(t, "^SY_.*", "^NU_.*", "TMP")
	for _, tc := range tests {
		p := testProduct()
		p.Reference = tc.reference
		p.CombinationIDs = []string{"100", "101"}

		items, err := a.Assemble(context.Background(), p)
		require.NoError(t, err)
		if tc.ignored {
			assert.Empty(t, items, "reference %s", tc.reference)
		} else {
			assert.Len(t, items, 2, "reference %s", tc.reference)
		}
	}
}

func TestAssemble_InvalidPattern(t *testing.T) {
	f := newFixture()
	_, err := New(f.categories, f.vat, f.combinations, Options{ReferenceIgnorePatterns: []string{"("}})
	require.Error(t, err)
}

func TestAssemble_UnresolvableTaxRate(t *testing.T) {
	f := newFixture()
	p := testProduct()
	p.TaxRulesGroupID = "99"

	items, err := f.assembler(t).Assemble(context.Background(), p)
	require.ErrorIs(t, err, domain.ErrUnresolvableTaxRate)
	assert.Nil(t, items)
}

func TestAssemble_DropsUnresolvableCategories(t *testing.T) {
	f := newFixture()
	p := testProduct()
	p.CategoryIDs = []string{"404", "10", "2"}

	items, err := f.assembler(t).Assemble(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, []domain.CategoryRef{{Name: "Toys"}}, items[0].Categories)
}

func TestAssemble_CategoryTransportFailureAborts(t *testing.T) {
	f := newFixture()
	f.categories.errs["10"] = fmt.Errorf("%w: HTTP 401", domain.ErrBadCredentials)

	_, err := f.assembler(t).Assemble(context.Background(), testProduct())
	require.ErrorIs(t, err, domain.ErrBadCredentials)
}

func TestAssemble_UnresolvableDefaultCategory(t *testing.T) {
	f := newFixture()
	p := testProduct()
	p.DefaultCategoryID = "404"

	items, err := f.assembler(t).Assemble(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "http://shop.example.com/158-skladacka.html", items[0].URL)
}

func TestAssemble_SkipsMissingCombination(t *testing.T) {
	f := newFixture()
	p := testProduct()
	p.CombinationIDs = []string{"100", "999", "101"}

	items, err := f.assembler(t).Assemble(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "PZ-S", items[0].ID)
	assert.Equal(t, "PZ-M", items[1].ID)
}

func TestAssemble_CombinationTransportFailureAborts(t *testing.T) {
	f := newFixture()
	f.combinations.err = fmt.Errorf("%w: connection reset", domain.ErrTransport)
	p := testProduct()
	p.CombinationIDs = []string{"100"}

	_, err := f.assembler(t).Assemble(context.Background(), p)
	require.ErrorIs(t, err, domain.ErrTransport)
}

func TestImageURL(t *testing.T) {
	a := newFixture().assembler(t)

	tests := []struct {
		id   string
		want string
	}{
		{id: "158", want: "http://shop.example.com/img/p/1/5/8/158.jpg"},
		{id: "1234", want: "http://shop.example.com/img/p/1/2/3/4/1234.jpg"},
		{id: "7", want: "http://shop.example.com/img/p/7/7.jpg"},
		{id: "", want: ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, a.imageURL(tc.id), "image %q", tc.id)
	}
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "", stripTags(""))
	assert.Equal(t, "plain", stripTags("plain"))
	assert.Equal(t, "Line one Line two", stripTags("<div>Line one <br/>Line two</div>"))
}

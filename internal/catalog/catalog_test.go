package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"shopfront/internal/model"
	"shopfront/internal/source"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAdapter is a configurable in-memory source.Adapter. A non-zero delay
// simulates a slow upstream so ordering guarantees can be exercised.
type stubAdapter struct {
	tag        model.Source
	products   []model.Product
	categories []model.Category
	err        error
	delay      time.Duration
	panics     bool
}

func (s *stubAdapter) Tag() model.Source { return s.tag }

func (s *stubAdapter) settle() error {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.panics {
		panic("adapter exploded")
	}
	return s.err
}

func (s *stubAdapter) FetchAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if err := s.settle(); err != nil {
		return nil, err
	}
	return s.products, nil
}

func (s *stubAdapter) FetchByID(ctx context.Context, id string) (*model.Product, error) {
	if err := s.settle(); err != nil {
		return nil, err
	}
	for _, p := range s.products {
		if p.ID == id {
			product := p
			return &product, nil
		}
	}
	return nil, nil
}

func (s *stubAdapter) FetchByCategory(ctx context.Context, category model.Category) ([]model.Product, error) {
	if err := s.settle(); err != nil {
		return nil, err
	}
	var out []model.Product
	for _, p := range s.products {
		if p.Category == category.Name {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubAdapter) Search(ctx context.Context, query string) ([]model.Product, error) {
	if err := s.settle(); err != nil {
		return nil, err
	}
	return s.products, nil
}

func (s *stubAdapter) FetchCategories(ctx context.Context) ([]model.Category, error) {
	if err := s.settle(); err != nil {
		return nil, err
	}
	return s.categories, nil
}

func product(id string, src model.Source) model.Product {
	return model.Product{ID: id, Title: id, Source: src}
}

func newTestService(a, b, c source.Adapter) Service {
	return New(zerolog.Nop(), a, b, c)
}

func TestAllProducts_MergesInRegistrationOrder(t *testing.T) {
	// The first adapter is the slowest; its products must still come
	// first in the merged output.
	fakeStore := &stubAdapter{
		tag:      model.SourceFakeStore,
		products: []model.Product{product("fakestore-1", model.SourceFakeStore)},
		delay:    30 * time.Millisecond,
	}
	dummyJSON := &stubAdapter{
		tag:      model.SourceDummyJSON,
		products: []model.Product{product("dummyjson-1", model.SourceDummyJSON)},
		delay:    10 * time.Millisecond,
	}
	platzi := &stubAdapter{
		tag:      model.SourcePlatzi,
		products: []model.Product{product("platzi-1", model.SourcePlatzi)},
	}

	products, report := newTestService(fakeStore, dummyJSON, platzi).AllProducts(context.Background(), 0, 0)

	require.Len(t, products, 3)
	assert.Equal(t, "fakestore-1", products[0].ID)
	assert.Equal(t, "dummyjson-1", products[1].ID)
	assert.Equal(t, "platzi-1", products[2].ID)
	assert.False(t, report.Degraded())
}

func TestAllProducts_FailOpen(t *testing.T) {
	fakeStore := &stubAdapter{tag: model.SourceFakeStore, err: errors.New("connection refused")}
	dummyJSON := &stubAdapter{
		tag: model.SourceDummyJSON,
		products: []model.Product{
			product("dummyjson-1", model.SourceDummyJSON),
			product("dummyjson-2", model.SourceDummyJSON),
		},
	}
	platzi := &stubAdapter{
		tag:      model.SourcePlatzi,
		products: []model.Product{product("platzi-1", model.SourcePlatzi)},
	}

	products, report := newTestService(fakeStore, dummyJSON, platzi).AllProducts(context.Background(), 0, 0)

	// One dead source degrades the merge but never aborts it.
	require.Len(t, products, 3)
	for _, p := range products {
		assert.NotEqual(t, model.SourceFakeStore, p.Source)
	}
	assert.True(t, report.Degraded())
	assert.Equal(t, []model.Source{model.SourceFakeStore}, report.Failed())
	assert.Equal(t, "failed", report.Statuses()[model.SourceFakeStore])
	assert.Equal(t, "ok", report.Statuses()[model.SourceDummyJSON])
}

func TestAllProducts_AllSourcesDown(t *testing.T) {
	down := errors.New("down")
	svc := newTestService(
		&stubAdapter{tag: model.SourceFakeStore, err: down},
		&stubAdapter{tag: model.SourceDummyJSON, err: down},
		&stubAdapter{tag: model.SourcePlatzi, err: down},
	)

	products, report := svc.AllProducts(context.Background(), 0, 0)

	// Total failure is an empty result, never a panic or an error.
	assert.NotNil(t, products)
	assert.Empty(t, products)
	assert.True(t, report.AllFailed())
}

func TestAllProducts_PanickingAdapterIsIsolated(t *testing.T) {
	svc := newTestService(
		&stubAdapter{tag: model.SourceFakeStore, panics: true},
		&stubAdapter{tag: model.SourceDummyJSON, products: []model.Product{product("dummyjson-1", model.SourceDummyJSON)}},
		&stubAdapter{tag: model.SourcePlatzi},
	)

	products, report := svc.AllProducts(context.Background(), 0, 0)

	require.Len(t, products, 1)
	assert.Equal(t, "dummyjson-1", products[0].ID)
	assert.Equal(t, []model.Source{model.SourceFakeStore}, report.Failed())
}

func TestProduct_RoutesByPrefix(t *testing.T) {
	fakeStore := &stubAdapter{
		tag:      model.SourceFakeStore,
		products: []model.Product{product("fakestore-1", model.SourceFakeStore)},
	}
	// A sibling that would blow up if the lookup fanned out instead of
	// routing.
	dummyJSON := &stubAdapter{tag: model.SourceDummyJSON, panics: true}
	platzi := &stubAdapter{tag: model.SourcePlatzi, panics: true}

	svc := newTestService(fakeStore, dummyJSON, platzi)

	found := svc.Product(context.Background(), "fakestore-1")
	require.NotNil(t, found)
	assert.Equal(t, model.SourceFakeStore, found.Source)
}

func TestProduct_UnknownPrefixIsAbsent(t *testing.T) {
	svc := newTestService(
		&stubAdapter{tag: model.SourceFakeStore},
		&stubAdapter{tag: model.SourceDummyJSON},
		&stubAdapter{tag: model.SourcePlatzi},
	)

	assert.Nil(t, svc.Product(context.Background(), "ebay-1"))
	assert.Nil(t, svc.Product(context.Background(), ""))
}

func TestProduct_UpstreamMissIsAbsent(t *testing.T) {
	svc := newTestService(
		&stubAdapter{tag: model.SourceFakeStore},
		&stubAdapter{tag: model.SourceDummyJSON},
		&stubAdapter{tag: model.SourcePlatzi},
	)

	assert.Nil(t, svc.Product(context.Background(), "fakestore-999"))
}

func TestProductsBySource(t *testing.T) {
	dummyJSON := &stubAdapter{
		tag:      model.SourceDummyJSON,
		products: []model.Product{product("dummyjson-1", model.SourceDummyJSON)},
	}
	svc := newTestService(
		&stubAdapter{tag: model.SourceFakeStore, panics: true},
		dummyJSON,
		&stubAdapter{tag: model.SourcePlatzi, panics: true},
	)

	products, report := svc.ProductsBySource(context.Background(), model.SourceDummyJSON)

	require.Len(t, products, 1)
	assert.False(t, report.Degraded())
}

func TestProductsBySource_FailedSourceYieldsEmpty(t *testing.T) {
	svc := newTestService(
		&stubAdapter{tag: model.SourceFakeStore, err: errors.New("down")},
		&stubAdapter{tag: model.SourceDummyJSON},
		&stubAdapter{tag: model.SourcePlatzi},
	)

	products, report := svc.ProductsBySource(context.Background(), model.SourceFakeStore)

	assert.Empty(t, products)
	assert.True(t, report.Degraded())
}

func TestSearchProducts_ConcatenatesInRegistrationOrder(t *testing.T) {
	svc := newTestService(
		&stubAdapter{
			tag:      model.SourceFakeStore,
			products: []model.Product{product("fakestore-1", model.SourceFakeStore)},
			delay:    20 * time.Millisecond,
		},
		&stubAdapter{
			tag:      model.SourceDummyJSON,
			products: []model.Product{product("dummyjson-1", model.SourceDummyJSON)},
		},
		&stubAdapter{tag: model.SourcePlatzi},
	)

	products, _ := svc.SearchProducts(context.Background(), "anything")

	require.Len(t, products, 2)
	assert.Equal(t, "fakestore-1", products[0].ID)
	assert.Equal(t, "dummyjson-1", products[1].ID)
}

func TestCategories_DedupIsExactMatch(t *testing.T) {
	svc := newTestService(
		&stubAdapter{
			tag:        model.SourceFakeStore,
			categories: []model.Category{{Name: "electronics"}, {Name: "jewelery"}},
		},
		&stubAdapter{
			tag:        model.SourceDummyJSON,
			categories: []model.Category{{Name: "Electronics", Slug: "electronics"}},
		},
		&stubAdapter{
			tag:        model.SourcePlatzi,
			categories: []model.Category{{ID: 1, Name: "electronics"}},
		},
	)

	names, report := svc.Categories(context.Background())

	// Casing differences survive dedup: "electronics" and "Electronics"
	// are distinct entries, while the exact duplicate collapses.
	assert.Equal(t, []string{"electronics", "jewelery", "Electronics"}, names)
	assert.False(t, report.Degraded())
}

func TestCategories_FailedSourceContributesNothing(t *testing.T) {
	svc := newTestService(
		&stubAdapter{tag: model.SourceFakeStore, err: errors.New("down")},
		&stubAdapter{tag: model.SourceDummyJSON, categories: []model.Category{{Name: "Beauty"}}},
		&stubAdapter{tag: model.SourcePlatzi},
	)

	names, report := svc.Categories(context.Background())

	assert.Equal(t, []string{"Beauty"}, names)
	assert.True(t, report.Degraded())
}

// categoryRecordingAdapter captures what FetchByCategory receives so the
// name-to-ID bridging for numerically keyed sources can be asserted.
type categoryRecordingAdapter struct {
	stubAdapter
	received []model.Category
}

func (c *categoryRecordingAdapter) FetchByCategory(ctx context.Context, category model.Category) ([]model.Product, error) {
	c.received = append(c.received, category)
	return c.products, nil
}

func TestProductsByCategory_BridgesNumericKeying(t *testing.T) {
	platzi := &categoryRecordingAdapter{
		stubAdapter: stubAdapter{
			tag:        model.SourcePlatzi,
			products:   []model.Product{product("platzi-1", model.SourcePlatzi)},
			categories: []model.Category{{ID: 7, Name: "Furniture", Slug: "furniture"}},
		},
	}
	fakeStore := &categoryRecordingAdapter{
		stubAdapter: stubAdapter{tag: model.SourceFakeStore},
	}

	svc := newTestService(fakeStore, &stubAdapter{tag: model.SourceDummyJSON}, platzi)

	// The display name is matched case-insensitively against Platzi's own
	// category list; string-keyed sources get the name straight through.
	products, _ := svc.ProductsByCategory(context.Background(), "furniture")

	require.Len(t, platzi.received, 1)
	assert.Equal(t, 7, platzi.received[0].ID)

	require.Len(t, fakeStore.received, 1)
	assert.Equal(t, model.Category{Name: "furniture"}, fakeStore.received[0])

	require.Len(t, products, 1)
	assert.Equal(t, "platzi-1", products[0].ID)
}

func TestProductsByCategory_BridgesSlugKeying(t *testing.T) {
	dummyJSON := &categoryRecordingAdapter{
		stubAdapter: stubAdapter{
			tag:        model.SourceDummyJSON,
			products:   []model.Product{product("dummyjson-1", model.SourceDummyJSON)},
			categories: []model.Category{{Name: "Mens Shirts", Slug: "mens-shirts"}},
		},
	}

	svc := newTestService(
		&stubAdapter{tag: model.SourceFakeStore},
		dummyJSON,
		&stubAdapter{tag: model.SourcePlatzi},
	)

	// A name advertised by Categories must round-trip: the fetch carries
	// the source's own slug, not the display name.
	names, _ := svc.Categories(context.Background())
	require.Contains(t, names, "Mens Shirts")

	products, report := svc.ProductsByCategory(context.Background(), "Mens Shirts")

	require.Len(t, dummyJSON.received, 1)
	assert.Equal(t, "mens-shirts", dummyJSON.received[0].Slug)

	require.NotEmpty(t, products)
	assert.Equal(t, "dummyjson-1", products[0].ID)
	assert.False(t, report.Degraded())
}

func TestProductsByCategory_SlugKeyedMissContributesNothing(t *testing.T) {
	dummyJSON := &categoryRecordingAdapter{
		stubAdapter: stubAdapter{
			tag:        model.SourceDummyJSON,
			products:   []model.Product{product("dummyjson-1", model.SourceDummyJSON)},
			categories: []model.Category{{Name: "Mens Shirts", Slug: "mens-shirts"}},
		},
	}

	svc := newTestService(
		&stubAdapter{tag: model.SourceFakeStore},
		dummyJSON,
		&stubAdapter{tag: model.SourcePlatzi},
	)

	products, report := svc.ProductsByCategory(context.Background(), "garden")

	assert.Empty(t, dummyJSON.received)
	assert.Empty(t, products)
	assert.False(t, report.Degraded())
}

func TestProductsByCategory_NoNumericMatchContributesNothing(t *testing.T) {
	platzi := &categoryRecordingAdapter{
		stubAdapter: stubAdapter{
			tag:        model.SourcePlatzi,
			products:   []model.Product{product("platzi-1", model.SourcePlatzi)},
			categories: []model.Category{{ID: 7, Name: "Furniture"}},
		},
	}

	svc := newTestService(
		&stubAdapter{tag: model.SourceFakeStore},
		&stubAdapter{tag: model.SourceDummyJSON},
		platzi,
	)

	products, report := svc.ProductsByCategory(context.Background(), "garden")

	assert.Empty(t, platzi.received)
	assert.Empty(t, products)
	assert.False(t, report.Degraded()) // a miss is not a failure
}

package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shopfront/internal/model"

	"github.com/rs/zerolog"
)

// DefaultFakeStoreURL is the public FakeStore API endpoint.
const DefaultFakeStoreURL = "https://fakestoreapi.com"

// fakeStoreProduct is the upstream FakeStore product payload.
type fakeStoreProduct struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      *struct {
		Rate  float64 `json:"rate"`
		Count int     `json:"count"`
	} `json:"rating"`
}

// FakeStore adapts the FakeStore API. The upstream keys categories by bare
// string names and has no native search endpoint, so Search falls back to a
// full fetch with client-side title matching.
type FakeStore struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewFakeStore creates a FakeStore adapter against the given base URL.
func NewFakeStore(baseURL string, timeout time.Duration, logger zerolog.Logger) *FakeStore {
	if baseURL == "" {
		baseURL = DefaultFakeStoreURL
	}
	return &FakeStore{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  newHTTPClient(timeout),
		logger:  logger.With().Str("adapter", "fakestore").Logger(),
	}
}

// Tag returns the source this adapter wraps.
func (a *FakeStore) Tag() model.Source {
	return model.SourceFakeStore
}

// normalise maps an upstream FakeStore product onto the canonical shape.
func (a *FakeStore) normalise(p fakeStoreProduct) model.Product {
	images := []string{}
	if p.Image != "" {
		images = []string{p.Image}
	}

	category := p.Category
	if category == "" {
		category = model.UncategorisedLabel
	}

	product := model.Product{
		ID:          model.CanonicalID(model.SourceFakeStore, p.ID),
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		Category:    category,
		Images:      images,
		Source:      model.SourceFakeStore,
	}
	if p.Rating != nil {
		product.Rating = &model.Rating{Rate: p.Rating.Rate, Count: p.Rating.Count}
	}
	return product
}

func (a *FakeStore) normaliseAll(items []fakeStoreProduct) []model.Product {
	products := make([]model.Product, 0, len(items))
	for _, item := range items {
		products = append(products, a.normalise(item))
	}
	return products
}

// FetchAll retrieves the catalog. FakeStore supports a limit parameter but
// no offset, so offset is ignored.
func (a *FakeStore) FetchAll(ctx context.Context, limit, _ int) ([]model.Product, error) {
	endpoint := a.baseURL + "/products"
	if limit > 0 {
		endpoint = fmt.Sprintf("%s?limit=%d", endpoint, limit)
	}

	var items []fakeStoreProduct
	if err := getJSON(ctx, a.client, endpoint, &items); err != nil {
		a.logger.Error().Err(err).Msg("failed to fetch products")
		return nil, fmt.Errorf("fakestore: %w", err)
	}

	return a.normaliseAll(items), nil
}

// FetchByID retrieves one product by canonical ID.
func (a *FakeStore) FetchByID(ctx context.Context, id string) (*model.Product, error) {
	upstreamID := model.UpstreamID(id, model.SourceFakeStore)
	endpoint := a.baseURL + "/products/" + url.PathEscape(upstreamID)

	var item fakeStoreProduct
	err := getJSON(ctx, a.client, endpoint, &item)
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	if err != nil {
		a.logger.Error().Err(err).Str("product_id", id).Msg("failed to fetch product")
		return nil, fmt.Errorf("fakestore: %w", err)
	}
	// FakeStore answers misses with an empty 200 body, which decodes to a
	// zero-valued product.
	if item.ID == 0 {
		return nil, nil
	}

	product := a.normalise(item)
	return &product, nil
}

// FetchByCategory retrieves the products in one category, keyed by name.
func (a *FakeStore) FetchByCategory(ctx context.Context, category model.Category) ([]model.Product, error) {
	endpoint := a.baseURL + "/products/category/" + url.PathEscape(category.Name)

	var items []fakeStoreProduct
	if err := getJSON(ctx, a.client, endpoint, &items); err != nil {
		a.logger.Error().Err(err).Str("category", category.Name).Msg("failed to fetch category products")
		return nil, fmt.Errorf("fakestore: %w", err)
	}

	return a.normaliseAll(items), nil
}

// Search emulates a search endpoint the upstream does not have: fetch the
// full catalog and match titles case-insensitively.
func (a *FakeStore) Search(ctx context.Context, query string) ([]model.Product, error) {
	products, err := a.FetchAll(ctx, 0, 0)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	matches := make([]model.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), needle) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

// FetchCategories lists the upstream's categories. FakeStore returns bare
// strings, normalised here to the canonical Category shape.
func (a *FakeStore) FetchCategories(ctx context.Context) ([]model.Category, error) {
	var names []string
	if err := getJSON(ctx, a.client, a.baseURL+"/products/categories", &names); err != nil {
		a.logger.Error().Err(err).Msg("failed to fetch categories")
		return nil, fmt.Errorf("fakestore: %w", err)
	}

	categories := make([]model.Category, 0, len(names))
	for _, name := range names {
		categories = append(categories, model.Category{Name: name})
	}
	return categories, nil
}

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

// DefaultDummyJSONURL is the public DummyJSON API endpoint.
const DefaultDummyJSONURL = "https://dummyjson.com"

// defaultDummyJSONLimit matches the upstream's own page size.
const defaultDummyJSONLimit = 30

// dummyJSONProduct is the upstream DummyJSON product payload.
type dummyJSONProduct struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Thumbnail   string   `json:"thumbnail"`
	Images      []string `json:"images"`
	Rating      float64  `json:"rating"`
	Stock       int      `json:"stock"`
	Brand       string   `json:"brand"`
	Reviews     []struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	} `json:"reviews"`
}

// dummyJSONList is the envelope DummyJSON wraps product collections in.
type dummyJSONList struct {
	Products []dummyJSONProduct `json:"products"`
	Total    int                `json:"total"`
	Skip     int                `json:"skip"`
	Limit    int                `json:"limit"`
}

// dummyJSONCategory is the upstream category record.
type dummyJSONCategory struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// DummyJSON adapts the DummyJSON API, the richest of the three upstreams: it
// tracks stock and brand and exposes a native search endpoint.
type DummyJSON struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewDummyJSON creates a DummyJSON adapter against the given base URL.
func NewDummyJSON(baseURL string, timeout time.Duration, logger zerolog.Logger) *DummyJSON {
	if baseURL == "" {
		baseURL = DefaultDummyJSONURL
	}
	return &DummyJSON{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  newHTTPClient(timeout),
		logger:  logger.With().Str("adapter", "dummyjson").Logger(),
	}
}

// Tag returns the source this adapter wraps.
func (a *DummyJSON) Tag() model.Source {
	return model.SourceDummyJSON
}

// normalise maps an upstream DummyJSON product onto the canonical shape.
func (a *DummyJSON) normalise(p dummyJSONProduct) model.Product {
	images := p.Images
	if len(images) == 0 {
		if p.Thumbnail != "" {
			images = []string{p.Thumbnail}
		} else {
			images = []string{}
		}
	}

	category := p.Category
	if category == "" {
		category = model.UncategorisedLabel
	}

	return model.Product{
		ID:          model.CanonicalID(model.SourceDummyJSON, p.ID),
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		Category:    category,
		Images:      images,
		Rating:      &model.Rating{Rate: p.Rating, Count: len(p.Reviews)},
		Source:      model.SourceDummyJSON,
		Stock:       intPtr(p.Stock),
		Brand:       p.Brand,
	}
}

func (a *DummyJSON) normaliseAll(items []dummyJSONProduct) []model.Product {
	products := make([]model.Product, 0, len(items))
	for _, item := range items {
		products = append(products, a.normalise(item))
	}
	return products
}

// FetchAll retrieves one page of the catalog.
func (a *DummyJSON) FetchAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if limit <= 0 {
		limit = defaultDummyJSONLimit
	}
	endpoint := fmt.Sprintf("%s/products?limit=%d", a.baseURL, limit)
	if offset > 0 {
		endpoint = fmt.Sprintf("%s&skip=%d", endpoint, offset)
	}

	var list dummyJSONList
	if err := getJSON(ctx, a.client, endpoint, &list); err != nil {
		a.logger.Error().Err(err).Msg("failed to fetch products")
		return nil, fmt.Errorf("dummyjson: %w", err)
	}

	return a.normaliseAll(list.Products), nil
}

// FetchByID retrieves one product by canonical ID.
func (a *DummyJSON) FetchByID(ctx context.Context, id string) (*model.Product, error) {
	upstreamID := model.UpstreamID(id, model.SourceDummyJSON)
	endpoint := a.baseURL + "/products/" + url.PathEscape(upstreamID)

	var item dummyJSONProduct
	err := getJSON(ctx, a.client, endpoint, &item)
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	if err != nil {
		a.logger.Error().Err(err).Str("product_id", id).Msg("failed to fetch product")
		return nil, fmt.Errorf("dummyjson: %w", err)
	}

	product := a.normalise(item)
	return &product, nil
}

// FetchByCategory retrieves the products in one category, keyed by slug.
func (a *DummyJSON) FetchByCategory(ctx context.Context, category model.Category) ([]model.Product, error) {
	key := category.Slug
	if key == "" {
		key = category.Name
	}
	endpoint := a.baseURL + "/products/category/" + url.PathEscape(key)

	var list dummyJSONList
	if err := getJSON(ctx, a.client, endpoint, &list); err != nil {
		a.logger.Error().Err(err).Str("category", key).Msg("failed to fetch category products")
		return nil, fmt.Errorf("dummyjson: %w", err)
	}

	return a.normaliseAll(list.Products), nil
}

// Search uses the upstream's native search endpoint.
func (a *DummyJSON) Search(ctx context.Context, query string) ([]model.Product, error) {
	endpoint := a.baseURL + "/products/search?q=" + url.QueryEscape(query)

	var list dummyJSONList
	if err := getJSON(ctx, a.client, endpoint, &list); err != nil {
		a.logger.Error().Err(err).Str("query", query).Msg("search failed")
		return nil, fmt.Errorf("dummyjson: %w", err)
	}

	return a.normaliseAll(list.Products), nil
}

// FetchCategories lists the upstream's categories.
func (a *DummyJSON) FetchCategories(ctx context.Context) ([]model.Category, error) {
	var items []dummyJSONCategory
	if err := getJSON(ctx, a.client, a.baseURL+"/products/categories", &items); err != nil {
		a.logger.Error().Err(err).Msg("failed to fetch categories")
		return nil, fmt.Errorf("dummyjson: %w", err)
	}

	categories := make([]model.Category, 0, len(items))
	for _, item := range items {
		categories = append(categories, model.Category{Name: item.Name, Slug: item.Slug})
	}
	return categories, nil
}

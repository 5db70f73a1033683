package source

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shopfront/internal/model"

	"github.com/rs/zerolog"
)

// DefaultPlatziURL is the public Platzi fake store API endpoint.
const DefaultPlatziURL = "https://api.escuelajs.co/api/v1"

// defaultPlatziLimit matches the page size the aggregation layer asks for.
const defaultPlatziLimit = 20

const (
	// Platzi has no rating concept at all, so products get a fixed
	// placeholder rate and a randomised review count. This is intentional
	// filler for display purposes, not real review data: two fetches of
	// the same item will report different counts.
	platziFillerRate     = 4.0
	platziFillerCountMin = 10
	platziFillerCountMax = 110
)

// platziCategory is the upstream category record.
type platziCategory struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Image string `json:"image"`
}

// platziProduct is the upstream Platzi product payload.
type platziProduct struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       float64         `json:"price"`
	Description string          `json:"description"`
	Images      []string        `json:"images"`
	Category    *platziCategory `json:"category"`
}

// Platzi adapts the Platzi fake store API. The upstream keys categories by
// numeric ID and nests a category record inside each product.
type Platzi struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewPlatzi creates a Platzi adapter against the given base URL.
func NewPlatzi(baseURL string, timeout time.Duration, logger zerolog.Logger) *Platzi {
	if baseURL == "" {
		baseURL = DefaultPlatziURL
	}
	return &Platzi{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  newHTTPClient(timeout),
		logger:  logger.With().Str("adapter", "platzi").Logger(),
	}
}

// Tag returns the source this adapter wraps.
func (a *Platzi) Tag() model.Source {
	return model.SourcePlatzi
}

// normalise maps an upstream Platzi product onto the canonical shape.
func (a *Platzi) normalise(p platziProduct) model.Product {
	category := model.UncategorisedLabel
	if p.Category != nil && p.Category.Name != "" {
		category = p.Category.Name
	}

	images := p.Images
	if len(images) == 0 {
		if p.Category != nil && p.Category.Image != "" {
			images = []string{p.Category.Image}
		} else {
			images = []string{}
		}
	}

	return model.Product{
		ID:          model.CanonicalID(model.SourcePlatzi, p.ID),
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		Category:    category,
		Images:      images,
		Rating: &model.Rating{
			Rate:  platziFillerRate,
			Count: platziFillerCountMin + rand.Intn(platziFillerCountMax-platziFillerCountMin),
		},
		Source: model.SourcePlatzi,
	}
}

func (a *Platzi) normaliseAll(items []platziProduct) []model.Product {
	products := make([]model.Product, 0, len(items))
	for _, item := range items {
		products = append(products, a.normalise(item))
	}
	return products
}

// FetchAll retrieves one page of the catalog.
func (a *Platzi) FetchAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if limit <= 0 {
		limit = defaultPlatziLimit
	}
	if offset < 0 {
		offset = 0
	}
	endpoint := fmt.Sprintf("%s/products?offset=%d&limit=%d", a.baseURL, offset, limit)

	var items []platziProduct
	if err := getJSON(ctx, a.client, endpoint, &items); err != nil {
		a.logger.Error().Err(err).Msg("failed to fetch products")
		return nil, fmt.Errorf("platzi: %w", err)
	}

	return a.normaliseAll(items), nil
}

// FetchByID retrieves one product by canonical ID.
func (a *Platzi) FetchByID(ctx context.Context, id string) (*model.Product, error) {
	upstreamID := model.UpstreamID(id, model.SourcePlatzi)
	endpoint := a.baseURL + "/products/" + url.PathEscape(upstreamID)

	var item platziProduct
	err := getJSON(ctx, a.client, endpoint, &item)
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	if err != nil {
		a.logger.Error().Err(err).Str("product_id", id).Msg("failed to fetch product")
		return nil, fmt.Errorf("platzi: %w", err)
	}

	product := a.normalise(item)
	return &product, nil
}

// FetchByCategory retrieves the products in one category, keyed by the
// upstream's numeric category ID.
func (a *Platzi) FetchByCategory(ctx context.Context, category model.Category) ([]model.Product, error) {
	endpoint := fmt.Sprintf("%s/categories/%d/products", a.baseURL, category.ID)

	var items []platziProduct
	if err := getJSON(ctx, a.client, endpoint, &items); err != nil {
		a.logger.Error().Err(err).Int("category_id", category.ID).Msg("failed to fetch category products")
		return nil, fmt.Errorf("platzi: %w", err)
	}

	return a.normaliseAll(items), nil
}

// Search uses the upstream's title filter endpoint.
func (a *Platzi) Search(ctx context.Context, query string) ([]model.Product, error) {
	endpoint := a.baseURL + "/products?title=" + url.QueryEscape(query)

	var items []platziProduct
	if err := getJSON(ctx, a.client, endpoint, &items); err != nil {
		a.logger.Error().Err(err).Str("query", query).Msg("search failed")
		return nil, fmt.Errorf("platzi: %w", err)
	}

	return a.normaliseAll(items), nil
}

// FetchCategories lists the upstream's categories.
func (a *Platzi) FetchCategories(ctx context.Context) ([]model.Category, error) {
	var items []platziCategory
	if err := getJSON(ctx, a.client, a.baseURL+"/categories", &items); err != nil {
		a.logger.Error().Err(err).Msg("failed to fetch categories")
		return nil, fmt.Errorf("platzi: %w", err)
	}

	categories := make([]model.Category, 0, len(items))
	for _, item := range items {
		categories = append(categories, model.Category{
			ID:    item.ID,
			Name:  item.Name,
			Slug:  item.Slug,
			Image: item.Image,
		})
	}
	return categories, nil
}

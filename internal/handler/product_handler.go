package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"shopfront/internal/catalog"
	"shopfront/internal/model"
	"shopfront/internal/query"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// ProductHandler serves the aggregated catalog: browsing, lookup, search and
// category listings, each filtered and sorted by the query pipeline.
type ProductHandler struct {
	catalog  catalog.Service
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service catalog.Service, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		catalog:  service,
		validate: validator.New(),
		logger:   logger.With().Str("handler", "product").Logger(),
	}
}

// productListResponse is the envelope for aggregated product listings. The
// per-source statuses let callers tell an empty catalog apart from a
// degraded one — the product slice alone cannot.
type productListResponse struct {
	Products []model.Product         `json:"products"`
	Count    int                     `json:"count"`
	Sources  map[model.Source]string `json:"sources"`
	Degraded bool                    `json:"degraded"`
}

func listResponse(products []model.Product, report catalog.Report) productListResponse {
	return productListResponse{
		Products: products,
		Count:    len(products),
		Sources:  report.Statuses(),
		Degraded: report.Degraded(),
	}
}

// parseFilter builds the filter/sort specification from query parameters.
func (h *ProductHandler) parseFilter(r *http.Request) (model.Filter, error) {
	q := r.URL.Query()
	var f model.Filter

	for _, raw := range q["category"] {
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				f.Categories = append(f.Categories, c)
			}
		}
	}

	if raw := q.Get("minPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return f, model.NewDomainError(model.ErrCodeInvalidFilter, "invalid minPrice parameter")
		}
		f.MinPrice = &v
	}
	if raw := q.Get("maxPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return f, model.NewDomainError(model.ErrCodeInvalidFilter, "invalid maxPrice parameter")
		}
		f.MaxPrice = &v
	}
	if raw := q.Get("priceRange"); raw != "" {
		parts := strings.Split(raw, ",")
		if len(parts) != 2 {
			return f, model.NewDomainError(model.ErrCodeInvalidFilter, "priceRange must be low,high")
		}
		low, errLow := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		high, errHigh := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errLow != nil || errHigh != nil {
			return f, model.NewDomainError(model.ErrCodeInvalidFilter, "priceRange must be low,high")
		}
		f.PriceRange = &[2]float64{low, high}
	}
	if raw := q.Get("minRating"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return f, model.NewDomainError(model.ErrCodeInvalidFilter, "invalid minRating parameter")
		}
		f.MinRating = v
	}
	if raw := q.Get("inStockOnly"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return f, model.NewDomainError(model.ErrCodeInvalidFilter, "invalid inStockOnly parameter")
		}
		f.InStockOnly = v
	}

	f.Search = strings.TrimSpace(q.Get("search"))
	f.Sort = q.Get("sort")

	if err := h.validate.Struct(f); err != nil {
		return f, model.NewDomainError(model.ErrCodeInvalidFilter, "invalid filter specification")
	}
	return f, nil
}

// List handles GET /api/products: fetch, filter, sort. A source parameter
// narrows the fetch to one upstream; a search parameter fetches via the
// search fan-out instead of the full catalog.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseFilter(r)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	// limit and offset shape only the full-catalog fetch; the source and
	// search branches return the upstream's full result set. Malformed
	// values are rejected on every branch.
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidFilter, "invalid limit parameter", h.logger)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidFilter, "invalid offset parameter", h.logger)
		return
	}

	var (
		products []model.Product
		report   catalog.Report
	)
	switch {
	case r.URL.Query().Get("source") != "":
		src, err := model.ParseSource(r.URL.Query().Get("source"))
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeUnknownSource, err.Error(), h.logger)
			return
		}
		products, report = h.catalog.ProductsBySource(r.Context(), src)
	case filter.Search != "":
		products, report = h.catalog.SearchProducts(r.Context(), filter.Search)
	default:
		products, report = h.catalog.AllProducts(r.Context(), limit, offset)
	}

	writeJSON(w, http.StatusOK, listResponse(query.Apply(products, filter), report))
}

// GetByID handles GET /api/products/{id}.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidFilter, "product ID is required", h.logger)
		return
	}

	product := h.catalog.Product(r.Context(), id)
	if product == nil {
		writeError(w, http.StatusNotFound, model.ErrCodeProductNotFound, "product not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Search handles GET /api/products/search?q=.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidFilter, "query parameter q is required", h.logger)
		return
	}

	filter, err := h.parseFilter(r)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	// q drives the upstream search; the title filter has already been
	// applied by the sources that filter natively, and the pipeline
	// re-applies it uniformly for the one source that cannot.
	filter.Search = q

	products, report := h.catalog.SearchProducts(r.Context(), q)
	writeJSON(w, http.StatusOK, listResponse(query.Apply(products, filter), report))
}

// Categories handles GET /api/categories.
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	names, report := h.catalog.Categories(r.Context())
	writeJSON(w, http.StatusOK, struct {
		Categories []string                `json:"categories"`
		Sources    map[model.Source]string `json:"sources"`
		Degraded   bool                    `json:"degraded"`
	}{Categories: names, Sources: report.Statuses(), Degraded: report.Degraded()})
}

// ByCategory handles GET /api/categories/{name}/products.
func (h *ProductHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	if name == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidFilter, "category name is required", h.logger)
		return
	}

	filter, err := h.parseFilter(r)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	products, report := h.catalog.ProductsByCategory(r.Context(), name)
	writeJSON(w, http.StatusOK, listResponse(query.Apply(products, filter), report))
}

// BySource handles GET /api/sources/{source}/products.
func (h *ProductHandler) BySource(w http.ResponseWriter, r *http.Request) {
	src, err := model.ParseSource(chi.URLParam(r, "source"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeUnknownSource, err.Error(), h.logger)
		return
	}

	filter, err := h.parseFilter(r)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	products, report := h.catalog.ProductsBySource(r.Context(), src)
	writeJSON(w, http.StatusOK, listResponse(query.Apply(products, filter), report))
}

package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"shopfront/internal/model"
	"shopfront/internal/source"

	"github.com/rs/zerolog"
)

// Service presents one interface over all source adapters. Every operation
// is total: a failing source degrades the result instead of failing the
// call, and the accompanying Report says which sources contributed.
type Service interface {
	// AllProducts fans out to every adapter concurrently and concatenates
	// the successful results in source registration order.
	AllProducts(ctx context.Context, limit, offset int) ([]model.Product, Report)

	// ProductsBySource routes to exactly one adapter.
	ProductsBySource(ctx context.Context, src model.Source) ([]model.Product, Report)

	// Product routes by the canonical ID's prefix to exactly one adapter.
	// Returns nil when the prefix is unrecognised or the source has no
	// such item.
	Product(ctx context.Context, id string) *model.Product

	// SearchProducts fans out the query to every adapter and concatenates
	// results in registration order. There is no cross-source relevance
	// ranking.
	SearchProducts(ctx context.Context, query string) ([]model.Product, Report)

	// Categories returns the union of every source's category display
	// names, deduplicated by exact string match. Dedup is deliberately
	// case-sensitive: sources disagree on casing and the upstream data is
	// reproduced as observed.
	Categories(ctx context.Context) ([]string, Report)

	// ProductsByCategory merges each source's products for the named
	// category. Sources whose category endpoint is keyed by slug or
	// numeric ID resolve the name against their own category list first
	// and contribute nothing when it does not match.
	ProductsByCategory(ctx context.Context, name string) ([]model.Product, Report)
}

const maxFetchLimit = 100

// service implements Service over a fixed, ordered set of adapters.
type service struct {
	adapters []source.Adapter
	byTag    map[model.Source]source.Adapter
	logger   zerolog.Logger
}

// New creates a catalog service. Adapter order fixes the concatenation order
// of every fan-out result.
func New(logger zerolog.Logger, adapters ...source.Adapter) Service {
	byTag := make(map[model.Source]source.Adapter, len(adapters))
	for _, a := range adapters {
		byTag[a.Tag()] = a
	}
	return &service{
		adapters: adapters,
		byTag:    byTag,
		logger:   logger.With().Str("service", "catalog").Logger(),
	}
}

// fanOut runs fn against every adapter concurrently and waits for all of
// them to settle, like the all-settled combinator in a promise runtime:
// one slow or failing source never short-circuits its siblings. Results are
// reassembled by adapter index so output order is registration order no
// matter which request finishes first.
func fanOut[T any](ctx context.Context, adapters []source.Adapter, fn func(context.Context, source.Adapter) ([]T, error)) ([][]T, []error) {
	type result struct {
		index int
		items []T
		err   error
	}

	resultChan := make(chan result, len(adapters))
	var wg sync.WaitGroup

	for i, adapter := range adapters {
		wg.Add(1)
		go func(index int, a source.Adapter) {
			defer wg.Done()

			var (
				items []T
				err   error
			)
			func() {
				// A panicking adapter must not take down the
				// whole fan-out.
				defer func() {
					if r := recover(); r != nil {
						err = fmt.Errorf("adapter %s panicked: %v", a.Tag(), r)
					}
				}()
				items, err = fn(ctx, a)
			}()

			resultChan <- result{index: index, items: items, err: err}
		}(i, adapter)
	}

	wg.Wait()
	close(resultChan)

	items := make([][]T, len(adapters))
	errs := make([]error, len(adapters))
	for r := range resultChan {
		items[r.index] = r.items
		errs[r.index] = r.err
	}
	return items, errs
}

// mergeProducts concatenates per-adapter results, logging and recording
// failures so a dead source degrades the merge instead of aborting it.
func (s *service) mergeProducts(op string, perAdapter [][]model.Product, errs []error) ([]model.Product, Report) {
	report := make(Report, len(s.adapters))
	merged := []model.Product{}

	for i, adapter := range s.adapters {
		tag := adapter.Tag()
		if errs[i] != nil {
			s.logger.Warn().
				Err(errs[i]).
				Str("op", op).
				Str("source", string(tag)).
				Msg("source contributed nothing")
			report[tag] = errs[i]
			continue
		}
		report[tag] = nil
		merged = append(merged, perAdapter[i]...)
	}

	return merged, report
}

// AllProducts fans out FetchAll to every adapter.
func (s *service) AllProducts(ctx context.Context, limit, offset int) ([]model.Product, Report) {
	if limit < 0 {
		limit = 0
	}
	if limit > maxFetchLimit {
		limit = maxFetchLimit
	}
	if offset < 0 {
		offset = 0
	}

	perAdapter, errs := fanOut(ctx, s.adapters, func(ctx context.Context, a source.Adapter) ([]model.Product, error) {
		return a.FetchAll(ctx, limit, offset)
	})
	products, report := s.mergeProducts("all_products", perAdapter, errs)

	s.logger.Debug().
		Int("count", len(products)).
		Int("limit", limit).
		Int("offset", offset).
		Int("failed_sources", len(report.Failed())).
		Msg("aggregated products")

	return products, report
}

// ProductsBySource routes to the one adapter for src.
func (s *service) ProductsBySource(ctx context.Context, src model.Source) ([]model.Product, Report) {
	adapter, ok := s.byTag[src]
	if !ok {
		s.logger.Warn().Str("source", string(src)).Msg("no adapter registered for source")
		return []model.Product{}, Report{src: model.ErrUnknownSource}
	}

	products, err := adapter.FetchAll(ctx, 0, 0)
	if err != nil {
		s.logger.Warn().Err(err).Str("source", string(src)).Msg("source fetch failed")
		return []model.Product{}, Report{src: err}
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, Report{src: nil}
}

// Product dispatches on the canonical ID prefix, so a lookup costs exactly
// one upstream call.
func (s *service) Product(ctx context.Context, id string) *model.Product {
	src, err := model.SourceFromID(id)
	if err != nil {
		s.logger.Debug().Str("product_id", id).Msg("unrecognised product ID prefix")
		return nil
	}

	adapter, ok := s.byTag[src]
	if !ok {
		return nil
	}

	product, err := adapter.FetchByID(ctx, id)
	if err != nil {
		s.logger.Warn().Err(err).Str("product_id", id).Msg("product lookup failed")
		return nil
	}
	return product
}

// SearchProducts fans out the query to every adapter.
func (s *service) SearchProducts(ctx context.Context, query string) ([]model.Product, Report) {
	perAdapter, errs := fanOut(ctx, s.adapters, func(ctx context.Context, a source.Adapter) ([]model.Product, error) {
		return a.Search(ctx, query)
	})
	products, report := s.mergeProducts("search", perAdapter, errs)

	s.logger.Debug().
		Str("query", query).
		Int("count", len(products)).
		Msg("searched products")

	return products, report
}

// Categories unions all sources' category display names.
func (s *service) Categories(ctx context.Context) ([]string, Report) {
	perAdapter, errs := fanOut(ctx, s.adapters, func(ctx context.Context, a source.Adapter) ([]model.Category, error) {
		return a.FetchCategories(ctx)
	})

	report := make(Report, len(s.adapters))
	seen := make(map[string]struct{})
	names := []string{}

	for i, adapter := range s.adapters {
		tag := adapter.Tag()
		if errs[i] != nil {
			s.logger.Warn().Err(errs[i]).Str("source", string(tag)).Msg("category listing failed")
			report[tag] = errs[i]
			continue
		}
		report[tag] = nil
		for _, category := range perAdapter[i] {
			// Exact-match dedup: "Electronics" and "electronics"
			// from two sources remain distinct entries.
			if _, dup := seen[category.Name]; dup {
				continue
			}
			seen[category.Name] = struct{}{}
			names = append(names, category.Name)
		}
	}

	return names, report
}

// ProductsByCategory merges each source's view of the named category.
func (s *service) ProductsByCategory(ctx context.Context, name string) ([]model.Product, Report) {
	perAdapter, errs := fanOut(ctx, s.adapters, func(ctx context.Context, a source.Adapter) ([]model.Product, error) {
		// DummyJSON keys its category endpoint by slug and Platzi by
		// numeric ID, so for both the display name is resolved against
		// the adapter's own category list first. Passing the resolved
		// Category keeps the listed names round-trippable even when the
		// slug differs from the name. No match means no contribution,
		// not an error.
		switch a.Tag() {
		case model.SourceDummyJSON, model.SourcePlatzi:
			categories, err := a.FetchCategories(ctx)
			if err != nil {
				return nil, err
			}
			for _, category := range categories {
				if strings.EqualFold(category.Name, name) {
					return a.FetchByCategory(ctx, category)
				}
			}
			return []model.Product{}, nil
		}
		return a.FetchByCategory(ctx, model.Category{Name: name})
	})
	products, report := s.mergeProducts("products_by_category", perAdapter, errs)

	s.logger.Debug().
		Str("category", name).
		Int("count", len(products)).
		Msg("aggregated category products")

	return products, report
}

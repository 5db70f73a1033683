package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"shopfront/internal/model"
)

// Adapter translates one upstream catalog API's native schema into canonical
// products. Adapters are independent of each other and hold no mutable state,
// so a single instance is safe for concurrent use.
//
// Error convention: transport and protocol failures return a non-nil error;
// "the upstream has no such item" is not an error — FetchByID returns
// (nil, nil) and the sequence operations return an empty slice. The catalog
// layer converts errors into empty contributions, so a dead upstream can
// degrade results but never abort a sibling fetch.
type Adapter interface {
	// Tag returns the source this adapter wraps.
	Tag() model.Source

	// FetchAll retrieves up to limit products starting at offset. A limit
	// of zero selects the source-specific default; sources without native
	// pagination ignore offset.
	FetchAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// FetchByID retrieves one product by its canonical ID. The adapter
	// strips its own prefix before calling upstream. A miss or an
	// unparseable payload yields (nil, nil).
	FetchByID(ctx context.Context, id string) (*model.Product, error)

	// FetchByCategory retrieves the products in one category. The category
	// value comes from this adapter's own FetchCategories output; sources
	// keyed by numeric ID use Category.ID, the rest use the name or slug.
	FetchByCategory(ctx context.Context, category model.Category) ([]model.Product, error)

	// Search retrieves products whose title matches the query. Adapters
	// for sources without a native search endpoint emulate it by fetching
	// all products and matching titles case-insensitively.
	Search(ctx context.Context, query string) ([]model.Product, error)

	// FetchCategories lists the source's categories, already normalised to
	// the canonical Category shape.
	FetchCategories(ctx context.Context) ([]model.Category, error)
}

// errNotFound marks an upstream 404. Adapters translate it into an absent
// result rather than surfacing it as a failure.
var errNotFound = errors.New("upstream item not found")

// newHTTPClient builds the HTTP client shared by an adapter's requests.
// Every upstream call carries a hard deadline so a hung source cannot stall
// a fan-out slot indefinitely.
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// getJSON performs a GET against url and decodes the JSON response into out.
func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %s from %s", resp.Status, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}

	return nil
}

// intPtr returns a pointer to v, for optional numeric product fields.
func intPtr(v int) *int {
	return &v
}

package catalog

import "shopfront/internal/model"

// Report records the per-source outcome of one aggregation operation. A nil
// entry means the source contributed normally; a non-nil entry is the error
// that made it contribute nothing. The presentation layer uses this to tell
// "legitimately empty" apart from "everything is down" — the merged product
// slice alone cannot distinguish the two.
type Report map[model.Source]error

// Degraded reports whether at least one source failed.
func (r Report) Degraded() bool {
	for _, err := range r {
		if err != nil {
			return true
		}
	}
	return false
}

// AllFailed reports whether every queried source failed.
func (r Report) AllFailed() bool {
	if len(r) == 0 {
		return false
	}
	for _, err := range r {
		if err == nil {
			return false
		}
	}
	return true
}

// Failed returns the failed sources in registration order.
func (r Report) Failed() []model.Source {
	var failed []model.Source
	for _, src := range model.Sources() {
		if err, ok := r[src]; ok && err != nil {
			failed = append(failed, src)
		}
	}
	return failed
}

// Statuses maps each queried source to "ok" or "failed" for response
// envelopes.
func (r Report) Statuses() map[model.Source]string {
	statuses := make(map[model.Source]string, len(r))
	for src, err := range r {
		if err != nil {
			statuses[src] = "failed"
		} else {
			statuses[src] = "ok"
		}
	}
	return statuses
}

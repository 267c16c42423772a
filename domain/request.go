package domain

import "strings"

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Filter is an exact-match constraint on a single field.
type Filter struct {
	Field string
	Value string
}

// Sort is a secondary ordering applied after relevance.
type Sort struct {
	Field string
	Order SortOrder
}

// Boost is a per-field relevance weight applied during multi-field matching.
type Boost struct {
	Field  string
	Weight float64
}

// SearchRequest is a backend-agnostic search. Filters, sorts and boosts are
// slices rather than maps so the caller's declaration order survives into the
// translated query document. The request is owned by the caller and treated
// as immutable once passed in.
type SearchRequest struct {
	Query   string
	Filters []Filter
	Sorts   []Sort
	Boosts  []Boost

	// Limit bounds the result size when positive. Zero leaves the size
	// unset on the wire so the backend applies its own default.
	Limit int
}

// Validate rejects requests with nothing to match: an empty trimmed query
// and zero filters would be a query the backend cannot answer meaningfully.
func (r SearchRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" && len(r.Filters) == 0 {
		return &InvalidRequestError{Reason: "empty query with no filters"}
	}
	return nil
}

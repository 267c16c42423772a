// Package query translates backend-agnostic search requests into the
// engine's native query DSL.
package query

// NativeQuery is the engine-side query document. It is built fresh per
// call and never cached. From, Size and MinScore stay unset unless the
// executor supplies them, so the backend falls back to its own defaults.
type NativeQuery struct {
	Query       BoolQuery `json:"query"`
	Sort        []any     `json:"sort"`
	TrackScores bool      `json:"track_scores"`
	From        *int      `json:"from,omitempty"`
	Size        *int      `json:"size,omitempty"`
	MinScore    *float64  `json:"min_score,omitempty"`
}

type BoolQuery struct {
	Bool BoolClauses `json:"bool"`
}

// BoolClauses holds the boolean query body. Must clauses are mandatory;
// the optional Should clause only influences scoring, so a record missing
// every boosted field can still match via the must clauses.
type BoolClauses struct {
	Must   []any `json:"must"`
	Should any   `json:"should,omitempty"`
}

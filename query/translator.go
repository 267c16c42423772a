package query

import (
	"strconv"

	"search-adapter/domain"
)

// Translate converts a search request into the engine's native query
// document. The free-text query becomes the leading query_string must
// clause; each equality filter appends one match_phrase must clause in
// declared order; sorts follow a mandatory leading score sort. Pagination
// and the relevance floor are left to the executor.
func Translate(req domain.SearchRequest) (*NativeQuery, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	must := make([]any, 0, len(req.Filters)+1)
	must = append(must, map[string]any{
		"query_string": map[string]any{"query": req.Query},
	})
	for _, f := range req.Filters {
		must = append(must, map[string]any{
			"match_phrase": map[string]any{f.Field: f.Value},
		})
	}

	var should any
	if len(req.Boosts) > 0 {
		fields := make([]string, 0, len(req.Boosts))
		for _, b := range req.Boosts {
			fields = append(fields, b.Field+"^"+strconv.FormatFloat(b.Weight, 'f', -1, 64))
		}
		should = map[string]any{
			"multi_match": map[string]any{
				"query":  req.Query,
				"fields": fields,
			},
		}
	}

	sorts := make([]any, 0, len(req.Sorts)+1)
	sorts = append(sorts, "_score")
	for _, s := range req.Sorts {
		order := s.Order
		if order == "" {
			order = domain.SortAsc
		}
		sorts = append(sorts, map[string]any{
			s.Field: map[string]any{"order": string(order)},
		})
	}

	q := &NativeQuery{
		Query:       BoolQuery{Bool: BoolClauses{Must: must, Should: should}},
		Sort:        sorts,
		TrackScores: true,
	}
	if req.Limit > 0 {
		size := req.Limit
		q.Size = &size
	}
	return q, nil
}

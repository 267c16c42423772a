package domain

// Hit is one matched document returned by the backend, identified by the
// record's primary key and carrying its relevance score.
type Hit struct {
	Key   string
	Score float64
}

// RawResult is the backend's answer to a search call before reconciliation
// with stored records. Total is the scalar total-match count reported by the
// backend, which may exceed len(Hits) when the result is windowed.
type RawResult struct {
	Hits  []Hit
	Total int64
}

// Keys returns the hit keys in relevance order, independent of score or
// sort metadata, for callers who need identity-only results without a
// record-store round trip.
func (r *RawResult) Keys() []string {
	keys := make([]string, len(r.Hits))
	for i, h := range r.Hits {
		keys[i] = h.Key
	}
	return keys
}

// Result is a reconciled search result: stored records in hit order. Hits
// whose key no longer resolves to a stored record are dropped, so
// len(Records) may be smaller than the hit count. PerPage and PageCount are
// zero for non-paginated searches.
type Result struct {
	Records   []*Record
	Total     int64
	PerPage   int
	PageCount int
}

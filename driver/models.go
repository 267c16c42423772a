package driver

import (
	"encoding/json"
)

// SearchResponse is the backend's search response envelope.
type SearchResponse struct {
	Took     int        `json:"took"`
	TimedOut bool       `json:"timed_out"`
	Hits     SearchHits `json:"hits"`
}

type SearchHits struct {
	Total    TotalHits   `json:"total"`
	MaxScore float64     `json:"max_score"`
	Hits     []SearchHit `json:"hits"`
}

// TotalHits carries the scalar total-match count. Older backends report it
// as a bare number, newer ones as an object with value and relation; both
// decode to the same scalar.
type TotalHits struct {
	Value    int64  `json:"value"`
	Relation string `json:"relation"`
}

func (t *TotalHits) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		t.Value = n
		return nil
	}
	type wire TotalHits
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*t = TotalHits(w)
	return nil
}

type SearchHit struct {
	Index  string          `json:"_index"`
	ID     string          `json:"_id"`
	Score  float64         `json:"_score"`
	Source json.RawMessage `json:"_source"`
}

// BulkResponse is the backend's bulk response envelope. Errors is true when
// any item failed, even though the call itself returned 200.
type BulkResponse struct {
	Took   int                       `json:"took"`
	Errors bool                      `json:"errors"`
	Items  []map[string]BulkItemInfo `json:"items"`
}

type BulkItemInfo struct {
	ID     string          `json:"_id"`
	Status int             `json:"status"`
	Error  json.RawMessage `json:"error"`
}

// DriverError represents an error from the driver layer.
type DriverError struct {
	Op  string
	Err string
}

func (e *DriverError) Error() string {
	return e.Op + ": " + e.Err
}

package domain

import "time"

// Searchable is the capability a record must expose to be indexed and
// searched: a primary key, a serialized document body, and the index and
// document-type names it is declared under.
type Searchable interface {
	SearchKey() string
	SearchableDoc() map[string]any
	SearchIndex() string
	SearchDocType() string
}

// Record is the stored record this service indexes and reconciles search
// hits against. The record store is the authority; the search index is a
// derived view of it.
type Record struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Record) SearchKey() string { return r.ID }

func (r *Record) SearchableDoc() map[string]any {
	return map[string]any{
		"id":         r.ID,
		"title":      r.Title,
		"content":    r.Content,
		"tags":       r.Tags,
		"updated_at": r.UpdatedAt,
	}
}

func (r *Record) SearchIndex() string { return "records" }

func (r *Record) SearchDocType() string { return "record" }

// RecordMapping is the backend field-type schema for Record documents.
func RecordMapping() map[string]any {
	return map[string]any{
		"id":    map[string]any{"type": "keyword"},
		"title": map[string]any{
			"type": "text",
			"fields": map[string]any{
				"keyword": map[string]any{"type": "keyword", "ignore_above": 512},
			},
		},
		"content":    map[string]any{"type": "text"},
		"tags":       map[string]any{"type": "keyword"},
		"updated_at": map[string]any{"type": "date"},
	}
}

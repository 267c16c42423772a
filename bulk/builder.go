// Package bulk assembles ordered sequences of upsert and delete operations
// into the backend's paired-line bulk wire payload.
package bulk

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type Action string

const (
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Operation is one logical mutation against the index. Updates carry the
// serialized document; deletes carry only the key.
type Operation struct {
	Action  Action
	Key     string
	Index   string
	DocType string
	Doc     map[string]any
}

// Upsert builds an update operation for a searchable record targeting the
// given physical index.
func Upsert(key, index, docType string, doc map[string]any) Operation {
	return Operation{Action: ActionUpdate, Key: key, Index: index, DocType: docType, Doc: doc}
}

// Delete builds a delete operation for the given key.
func Delete(key, index, docType string) Operation {
	return Operation{Action: ActionDelete, Key: key, Index: index, DocType: docType}
}

// Batch is a fully formed bulk payload. It is built in one pass before any
// network call and is immutable afterwards.
type Batch struct {
	lines []json.RawMessage
}

// Build folds the operations into a batch honoring the backend's paired-line
// convention: one action-metadata line per operation, followed for updates by
// one document line with the upsert flag set. Output order matches input
// order; the backend bulk endpoint is order-sensitive per document key.
func Build(ops []Operation) (Batch, error) {
	lines := make([]json.RawMessage, 0, 2*len(ops))
	for i, op := range ops {
		switch op.Action {
		case ActionUpdate, ActionDelete:
		default:
			return Batch{}, fmt.Errorf("operation %d: unknown action %q", i, op.Action)
		}
		if op.Key == "" {
			return Batch{}, fmt.Errorf("operation %d: empty key", i)
		}

		meta, err := json.Marshal(map[string]any{
			string(op.Action): map[string]any{
				"_id":    op.Key,
				"_index": op.Index,
				"_type":  op.DocType,
			},
		})
		if err != nil {
			return Batch{}, fmt.Errorf("operation %d: marshal action: %w", i, err)
		}
		lines = append(lines, meta)

		if op.Action != ActionUpdate {
			continue
		}
		if op.Doc == nil {
			return Batch{}, fmt.Errorf("operation %d: update without document", i)
		}
		doc, err := json.Marshal(map[string]any{
			"doc":           op.Doc,
			"doc_as_upsert": true,
		})
		if err != nil {
			return Batch{}, fmt.Errorf("operation %d: marshal document: %w", i, err)
		}
		lines = append(lines, doc)
	}
	return Batch{lines: lines}, nil
}

// Len is the number of wire lines in the batch: 2N+M for N updates and M
// deletes.
func (b Batch) Len() int { return len(b.lines) }

func (b Batch) Empty() bool { return len(b.lines) == 0 }

// Lines returns the wire lines in order.
func (b Batch) Lines() []json.RawMessage {
	out := make([]json.RawMessage, len(b.lines))
	copy(out, b.lines)
	return out
}

// NDJSON renders the batch in the backend's newline-delimited wire format,
// including the trailing newline the bulk endpoint requires.
func (b Batch) NDJSON() []byte {
	var buf bytes.Buffer
	for _, line := range b.lines {
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

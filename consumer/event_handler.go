package consumer

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"search-adapter/usecase"
)

const (
	batchFlushSize     = 10
	batchFlushInterval = 2 * time.Second
)

// RecordUpsertedPayload is the payload of a RecordUpserted event.
type RecordUpsertedPayload struct {
	RecordID string `json:"record_id"`
}

// RecordDeletedPayload is the payload of a RecordDeleted event.
type RecordDeletedPayload struct {
	RecordID string `json:"record_id"`
}

// IndexEventHandler turns record mutation events into bulk index writes.
// Upsert keys are buffered and flushed in batches to cut per-event backend
// round trips; deletes flush the pending buffer first so a delete never
// executes ahead of a buffered upsert for the same key.
type IndexEventHandler struct {
	indexUsecase *usecase.IndexRecordsUsecase
	logger       *slog.Logger

	mu      sync.Mutex
	buffer  []string
	timer   *time.Timer
	ctx     context.Context
	cancel  context.CancelFunc
	flushed chan struct{} // signaled on each flush for testing
}

// NewIndexEventHandler creates a new IndexEventHandler.
func NewIndexEventHandler(indexUsecase *usecase.IndexRecordsUsecase, logger *slog.Logger) *IndexEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &IndexEventHandler{
		indexUsecase: indexUsecase,
		logger:       logger,
		buffer:       make([]string, 0, batchFlushSize),
		ctx:          ctx,
		cancel:       cancel,
		flushed:      make(chan struct{}, 1),
	}
}

// Stop cancels the flush timer and flushes whatever is still buffered.
func (h *IndexEventHandler) Stop() {
	h.cancel()
	h.mu.Lock()
	if h.timer != nil {
		h.timer.Stop()
	}
	h.mu.Unlock()
	h.flush()
}

// HandleEvent processes a single event.
func (h *IndexEventHandler) HandleEvent(ctx context.Context, event Event) error {
	switch event.EventType {
	case "RecordUpserted":
		return h.handleUpserted(event)
	case "RecordDeleted":
		return h.handleDeleted(ctx, event)
	default:
		h.logger.Warn("unknown event type, skipping",
			"event_type", event.EventType,
			"event_id", event.EventID,
		)
		return nil
	}
}

func (h *IndexEventHandler) handleUpserted(event Event) error {
	var payload RecordUpsertedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		h.logger.Error("failed to unmarshal RecordUpserted payload",
			"event_id", event.EventID,
			"error", err,
		)
		return err
	}

	h.enqueue(payload.RecordID)
	return nil
}

func (h *IndexEventHandler) handleDeleted(ctx context.Context, event Event) error {
	var payload RecordDeletedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		h.logger.Error("failed to unmarshal RecordDeleted payload",
			"event_id", event.EventID,
			"error", err,
		)
		return err
	}

	// Drain pending upserts before the delete; bulk execution is
	// order-sensitive per key.
	h.flush()

	if err := h.indexUsecase.DeleteKeys(ctx, []string{payload.RecordID}); err != nil {
		h.logger.Error("delete failed", "record_id", payload.RecordID, "error", err)
		return err
	}
	return nil
}

// enqueue buffers an upsert key and triggers a flush once the batch is
// full. A timer started on the first enqueue bounds how long a key waits
// when events arrive slowly.
func (h *IndexEventHandler) enqueue(recordID string) {
	h.mu.Lock()
	h.buffer = append(h.buffer, recordID)
	size := len(h.buffer)

	if size == 1 {
		h.timer = time.AfterFunc(batchFlushInterval, func() {
			h.flush()
		})
	}
	h.mu.Unlock()

	if size >= batchFlushSize {
		h.flush()
	}
}

// flush reindexes all buffered keys in one batch call.
func (h *IndexEventHandler) flush() {
	h.mu.Lock()
	if len(h.buffer) == 0 {
		h.mu.Unlock()
		return
	}
	keys := h.buffer
	h.buffer = make([]string, 0, batchFlushSize)
	if h.timer != nil {
		h.timer.Stop()
		h.timer = nil
	}
	h.mu.Unlock()

	// Deduplicate within the batch
	seen := make(map[string]struct{}, len(keys))
	unique := make([]string, 0, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			unique = append(unique, key)
		}
	}

	indexed, err := h.indexUsecase.UpsertKeys(h.ctx, unique)
	if err != nil {
		h.logger.Error("batch indexing failed", "count", len(unique), "error", err)
		return
	}

	h.logger.Info("batch indexed", "requested", len(unique), "indexed", indexed)

	select {
	case h.flushed <- struct{}{}:
	default:
	}
}

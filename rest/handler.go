// Package rest exposes the search and index-administration HTTP API.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"search-adapter/domain"
	"search-adapter/logger"
	"search-adapter/usecase"
	appOtel "search-adapter/utils/otel"
)

// Pinger reports backend reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler contains all HTTP handlers for the search adapter.
type Handler struct {
	search      *usecase.SearchRecordsUsecase
	searchPaged *usecase.SearchRecordsPaginatedUsecase
	searchKeys  *usecase.SearchKeysUsecase
	index       *usecase.IndexRecordsUsecase
	manage      *usecase.ManageIndexUsecase
	pinger      Pinger
	descriptor  domain.IndexDescriptor
}

func NewHandler(
	search *usecase.SearchRecordsUsecase,
	searchPaged *usecase.SearchRecordsPaginatedUsecase,
	searchKeys *usecase.SearchKeysUsecase,
	index *usecase.IndexRecordsUsecase,
	manage *usecase.ManageIndexUsecase,
	pinger Pinger,
	descriptor domain.IndexDescriptor,
) *Handler {
	return &Handler{
		search:      search,
		searchPaged: searchPaged,
		searchKeys:  searchKeys,
		index:       index,
		manage:      manage,
		pinger:      pinger,
		descriptor:  descriptor,
	}
}

// Register mounts the API routes.
func (h *Handler) Register(e *echo.Echo) {
	v1 := e.Group("/v1")
	v1.POST("/search", h.SearchRecords)
	v1.POST("/search/keys", h.SearchKeys)
	v1.POST("/records", h.UpsertRecords)
	v1.DELETE("/records", h.DeleteRecords)
	v1.POST("/indexes", h.EnsureIndex)
	v1.DELETE("/indexes/:name", h.DeleteIndex)
	v1.PUT("/indexes/mapping", h.UpdateMapping)
	v1.GET("/health", h.Health)
}

type filterPayload struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type sortPayload struct {
	Field string `json:"field"`
	Order string `json:"order"`
}

type boostPayload struct {
	Field  string  `json:"field"`
	Weight float64 `json:"weight"`
}

type searchPayload struct {
	Query   string          `json:"query"`
	Filters []filterPayload `json:"filters"`
	Sorts   []sortPayload   `json:"sorts"`
	Boosts  []boostPayload  `json:"boosts"`
	Limit   int             `json:"limit"`
	Page    *int            `json:"page"`
	PerPage *int            `json:"per_page"`
}

func (p searchPayload) toRequest() domain.SearchRequest {
	req := domain.SearchRequest{Query: p.Query, Limit: p.Limit}
	for _, f := range p.Filters {
		req.Filters = append(req.Filters, domain.Filter{Field: f.Field, Value: f.Value})
	}
	for _, s := range p.Sorts {
		req.Sorts = append(req.Sorts, domain.Sort{Field: s.Field, Order: domain.SortOrder(s.Order)})
	}
	for _, b := range p.Boosts {
		req.Boosts = append(req.Boosts, domain.Boost{Field: b.Field, Weight: b.Weight})
	}
	return req
}

type searchResponse struct {
	Records   []*domain.Record `json:"records"`
	Total     int64            `json:"total"`
	PerPage   int              `json:"per_page,omitempty"`
	PageCount int              `json:"page_count,omitempty"`
}

// SearchRecords runs a search and returns reconciled records. When page
// and per_page are supplied the result is paginated.
func (h *Handler) SearchRecords(c echo.Context) error {
	var payload searchPayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request format"})
	}

	ctx := c.Request().Context()
	started := time.Now()

	var result *domain.Result
	var err error
	if payload.Page != nil || payload.PerPage != nil {
		page, perPage := 1, 0
		if payload.Page != nil {
			page = *payload.Page
		}
		if payload.PerPage != nil {
			perPage = *payload.PerPage
		}
		result, err = h.searchPaged.Execute(ctx, payload.toRequest(), page, perPage)
	} else {
		result, err = h.search.Execute(ctx, payload.toRequest())
	}

	recordSearchMetrics(ctx, started, err)
	if err != nil {
		logger.Logger.Error("search failed", "query", payload.Query, "err", err)
		return respondError(c, err)
	}

	logger.Logger.Info("search ok",
		"query", payload.Query,
		"total", result.Total,
		"count", len(result.Records),
	)
	return c.JSON(http.StatusOK, searchResponse{
		Records:   result.Records,
		Total:     result.Total,
		PerPage:   result.PerPage,
		PageCount: result.PageCount,
	})
}

// SearchKeys returns identity-only results: hit keys in relevance order.
func (h *Handler) SearchKeys(c echo.Context) error {
	var payload searchPayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request format"})
	}

	ctx := c.Request().Context()
	started := time.Now()
	keys, total, err := h.searchKeys.Execute(ctx, payload.toRequest())
	recordSearchMetrics(ctx, started, err)
	if err != nil {
		logger.Logger.Error("key search failed", "query", payload.Query, "err", err)
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"keys": keys, "total": total})
}

type recordPayload struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpsertRecords indexes the posted records in one bulk batch.
func (h *Handler) UpsertRecords(c echo.Context) error {
	var payload struct {
		Records []recordPayload `json:"records"`
	}
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request format"})
	}
	if len(payload.Records) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "no records supplied"})
	}

	records := make([]*domain.Record, len(payload.Records))
	for i, p := range payload.Records {
		records[i] = &domain.Record{
			ID:        p.ID,
			Title:     p.Title,
			Content:   p.Content,
			Tags:      p.Tags,
			UpdatedAt: p.UpdatedAt,
		}
	}

	if err := h.index.Upsert(c.Request().Context(), records); err != nil {
		logger.Logger.Error("upsert failed", "count", len(records), "err", err)
		return respondError(c, err)
	}

	if m := appOtel.Metrics; m != nil {
		m.UpsertedTotal.Add(c.Request().Context(), int64(len(records)))
	}
	logger.Logger.Info("records upserted", "count", len(records))
	return c.JSON(http.StatusOK, map[string]int{"upserted": len(records)})
}

// DeleteRecords removes the given keys from the index in one bulk batch.
func (h *Handler) DeleteRecords(c echo.Context) error {
	var payload struct {
		Keys []string `json:"keys"`
	}
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request format"})
	}
	if len(payload.Keys) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "no keys supplied"})
	}

	if err := h.index.DeleteKeys(c.Request().Context(), payload.Keys); err != nil {
		logger.Logger.Error("delete failed", "count", len(payload.Keys), "err", err)
		return respondError(c, err)
	}

	if m := appOtel.Metrics; m != nil {
		m.DeletedTotal.Add(c.Request().Context(), int64(len(payload.Keys)))
	}
	logger.Logger.Info("records deleted", "count", len(payload.Keys))
	return c.JSON(http.StatusOK, map[string]int{"deleted": len(payload.Keys)})
}

type indexPayload struct {
	Index   string         `json:"index"`
	DocType string         `json:"doc_type"`
	Mapping map[string]any `json:"mapping"`
}

func (p indexPayload) toDescriptor(fallback domain.IndexDescriptor) domain.IndexDescriptor {
	d := fallback
	if p.Index != "" {
		d.Name = p.Index
	}
	if p.DocType != "" {
		d.DocType = p.DocType
	}
	if p.Mapping != nil {
		d.Mapping = p.Mapping
	}
	return d
}

// EnsureIndex creates the index if missing and pushes the mapping.
func (h *Handler) EnsureIndex(c echo.Context) error {
	var payload indexPayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request format"})
	}

	d := payload.toDescriptor(h.descriptor)
	if err := h.manage.Ensure(c.Request().Context(), d); err != nil {
		logger.Logger.Error("ensure index failed", "index", d.Name, "err", err)
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"index": d.Name})
}

// DeleteIndex removes the named index.
func (h *Handler) DeleteIndex(c echo.Context) error {
	name := c.Param("name")
	if name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "index name required"})
	}

	d := domain.IndexDescriptor{Name: name, DocType: h.descriptor.DocType}
	if err := h.manage.Delete(c.Request().Context(), d); err != nil {
		logger.Logger.Error("delete index failed", "index", name, "err", err)
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateMapping replaces the field-type schema for an index and type.
func (h *Handler) UpdateMapping(c echo.Context) error {
	var payload indexPayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request format"})
	}
	if len(payload.Mapping) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "mapping required"})
	}

	d := payload.toDescriptor(h.descriptor)
	if err := h.manage.UpdateMapping(c.Request().Context(), d); err != nil {
		logger.Logger.Error("update mapping failed", "index", d.Name, "err", err)
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"index": d.Name, "doc_type": d.DocType})
}

// Health reports backend reachability.
func (h *Handler) Health(c echo.Context) error {
	if err := h.pinger.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded", "backend": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func respondError(c echo.Context, err error) error {
	var invalid *domain.InvalidRequestError
	var unavailable *domain.BackendUnavailableError
	var admin *domain.IndexAdminError

	switch {
	case errors.As(err, &invalid):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.As(err, &unavailable):
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	case errors.As(err, &admin):
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func recordSearchMetrics(ctx context.Context, started time.Time, err error) {
	m := appOtel.Metrics
	if m == nil {
		return
	}
	m.SearchesTotal.Add(ctx, 1)
	m.SearchDuration.Record(ctx, time.Since(started).Seconds())
	if err != nil {
		m.ErrorsTotal.Add(ctx, 1)
	}
}

package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/rssreader/internal/model"
)

// FeedServiceInterface はフィードハンドラーが必要とするサービスインターフェース。
type FeedServiceInterface interface {
	// Create はフィードのメタデータを補完して登録する。
	Create(ctx context.Context, in model.FeedCreate) (*model.Feed, error)
	List(ctx context.Context, offset, limit int) ([]model.Feed, error)
	Get(ctx context.Context, id int64) (*model.Feed, error)
	Delete(ctx context.Context, id int64) error
}

// FeedHandler はフィード管理のHTTPハンドラー。
type FeedHandler struct {
	service FeedServiceInterface
}

// NewFeedHandler はFeedHandlerを生成する。
func NewFeedHandler(service FeedServiceInterface) *FeedHandler {
	return &FeedHandler{service: service}
}

// CreateFeed はフィードを登録する。
// POST /feeds/
func (h *FeedHandler) CreateFeed(w http.ResponseWriter, r *http.Request) {
	var req model.FeedCreate
	if err := decodeJSON(w, r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}
	if err := model.Validate(req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	feed, err := h.service.Create(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, feed)
}

// ListFeeds はフィード一覧を返す。
// GET /feeds/?offset=&limit=
func (h *FeedHandler) ListFeeds(w http.ResponseWriter, r *http.Request) {
	offset, limit, err := parsePagination(r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	feeds, err := h.service.List(r.Context(), offset, limit)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if feeds == nil {
		feeds = []model.Feed{}
	}

	writeJSON(w, http.StatusOK, feeds)
}

// GetFeed はフィードを返す。
// GET /feeds/{feed_id}
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	id, err := feedIDParam(r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	feed, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, feed)
}

// DeleteFeed はフィードを削除する。
// DELETE /feeds/{feed_id}
func (h *FeedHandler) DeleteFeed(w http.ResponseWriter, r *http.Request) {
	id, err := feedIDParam(r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// feedIDParam はパスパラメータfeed_idを整数として解析する。
func feedIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "feed_id"), 10, 64)
	if err != nil {
		return 0, model.NewValidationError([]string{"path", "feed_id"}, "value is not a valid integer", "type_error.integer")
	}
	return id, nil
}

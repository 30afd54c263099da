package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/rssreader/internal/model"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	Create(ctx context.Context, in model.UserCreate) (*model.User, error)
	List(ctx context.Context, offset, limit int) ([]model.User, error)
	Get(ctx context.Context, username string) (*model.User, error)
	Update(ctx context.Context, username string, update model.UserUpdate) (*model.User, error)
	Delete(ctx context.Context, username string) error
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// CreateUser はユーザーを作成する。
// POST /users/
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req model.UserCreate
	if err := decodeJSON(w, r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}
	if err := model.Validate(req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	user, err := h.service.Create(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// ListUsers はユーザー一覧を返す。
// GET /users/?offset=&limit=
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	offset, limit, err := parsePagination(r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	users, err := h.service.List(r.Context(), offset, limit)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}

	writeJSON(w, http.StatusOK, users)
}

// GetUser はユーザーを返す。
// GET /users/{username}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Get(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UpdateUser はユーザーを部分更新する。
// PATCH /users/{username}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req model.UserUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}
	if err := model.Validate(req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	user, err := h.service.Update(r.Context(), chi.URLParam(r, "username"), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// DeleteUser はユーザーを削除する。
// DELETE /users/{username}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "username")); err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hitoshi/rssreader/internal/middleware"
	"github.com/hitoshi/rssreader/internal/model"
)

// maxRequestBodySize はリクエストボディの上限。
const maxRequestBodySize = 1 << 20

// writeJSON はvをJSONとしてステータスコード付きで書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("レスポンスの書き込みに失敗しました", slog.String("error", err.Error()))
	}
}

// decodeJSON はリクエストボディをdstにデコードする。
// ボディが空、JSONとして不正、型が一致しない場合は*model.ValidationErrorを返す。
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		return model.NewValidationError([]string{"body"}, "field required", "value_error.missing")
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return model.NewValidationError([]string{"body", typeErr.Field},
			typeErr.Value+" is not a valid "+typeErr.Type.String(), "type_error."+typeErr.Type.String())
	case errors.As(err, &maxErr):
		return model.NewValidationError([]string{"body"}, "request body too large", "value_error.body.too_large")
	default:
		return model.NewValidationError([]string{"body"}, "invalid JSON body", "value_error.jsondecode")
	}
}

// parseQueryInt はクエリパラメータを0以上の整数として解析する。未指定の場合はdefを返す。
func parseQueryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.NewValidationError([]string{"query", name}, "value is not a valid integer", "type_error.integer")
	}
	if v < 0 {
		return 0, model.NewValidationError([]string{"query", name}, "ensure this value is greater than or equal to 0", "value_error.number.not_ge")
	}
	return v, nil
}

// ページネーションの既定値と上限
const (
	defaultLimit = 100
	maxLimit     = 100
)

// parsePagination はoffsetとlimitを解析する。limitが上限を超える場合は上限に切り詰める。
func parsePagination(r *http.Request) (offset, limit int, err error) {
	offset, err = parseQueryInt(r, "offset", 0)
	if err != nil {
		return 0, 0, err
	}
	limit, err = parseQueryInt(r, "limit", defaultLimit)
	if err != nil {
		return 0, 0, err
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return offset, limit, nil
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		middleware.WriteErrorResponse(w, http.StatusUnprocessableEntity, verr.Fields)
		return
	}

	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		if statusCode != http.StatusInternalServerError {
			middleware.WriteErrorResponse(w, statusCode, apiErr.Message)
			return
		}
	}

	// 想定外のエラーは内部サーバーエラーとして扱い、詳細はログのみに残す
	slog.Error("internal server error",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("request_id", middleware.RequestIDFromContext(r.Context())),
	)
	middleware.WriteInternalServerError(w)
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeUserAlreadyExists, model.ErrCodeFeedAlreadyExists:
		return http.StatusConflict
	case model.ErrCodeUserNotFound, model.ErrCodeFeedNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponseBody はAPIエラーレスポンスの統一フォーマット。
// Detailは文字列、またはバリデーションエラーの場合はフィールドエラーの配列になる。
type ErrorResponseBody struct {
	Detail any `json:"detail"`
}

// WriteErrorResponse は統一エラーフォーマットでHTTPエラーレスポンスを書き込む。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, detail any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponseBody{Detail: detail}); err != nil {
		slog.Error("エラーレスポンスの書き込みに失敗しました", slog.String("error", err.Error()))
	}
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 詳細はログのみに記録し、利用者には一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

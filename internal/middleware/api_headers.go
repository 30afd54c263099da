package middleware

import "net/http"

// NewAPIHeadersMiddleware はJSON APIのレスポンスに共通ヘッダーを付与するミドルウェアを返す。
func NewAPIHeadersMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("Cache-Control", "no-store")
			next.ServeHTTP(w, r)
		})
	}
}

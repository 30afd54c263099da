package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hitoshi/rssreader/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	Logger *slog.Logger

	// 任意。nilの場合はレート制限を行わない
	RateLimiter *middleware.RateLimiter
	// 任意。nilの場合はメトリクスを記録せず/metricsも公開しない
	Metrics        middleware.HTTPRecorder
	MetricsHandler http.Handler

	DB          Pinger
	UserService UserServiceInterface
	FeedService FeedServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RealIP → RequestID → Logging → Recovery → Metrics → APIHeaders → RateLimit
//
// /health と /metrics はレート制限の対象外。
// /users と /users/ のように末尾スラッシュの有無はどちらでも同じハンドラーに到達する。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewRecoveryMiddleware())
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}
	r.Use(middleware.NewAPIHeadersMiddleware())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteErrorResponse(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteErrorResponse(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	})

	if deps.DB != nil {
		r.Get("/health", NewHealthHandler(deps.DB).Health)
	}
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	userHandler := NewUserHandler(deps.UserService)
	feedHandler := NewFeedHandler(deps.FeedService)

	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Middleware())
		}

		// ユーザー管理
		r.Route("/users", func(r chi.Router) {
			r.Post("/", userHandler.CreateUser)
			r.Get("/", userHandler.ListUsers)

			r.Route("/{username}", func(r chi.Router) {
				r.Get("/", userHandler.GetUser)
				r.Patch("/", userHandler.UpdateUser)
				r.Delete("/", userHandler.DeleteUser)
			})
		})

		// フィード管理
		r.Route("/feeds", func(r chi.Router) {
			r.Post("/", feedHandler.CreateFeed)
			r.Get("/", feedHandler.ListFeeds)

			r.Route("/{feed_id}", func(r chi.Router) {
				r.Get("/", feedHandler.GetFeed)
				r.Delete("/", feedHandler.DeleteFeed)
			})
		})
	})

	return r
}

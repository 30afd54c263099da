package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hitoshi/rssreader/internal/config"
	"github.com/hitoshi/rssreader/internal/database"
	"github.com/hitoshi/rssreader/internal/feed"
	"github.com/hitoshi/rssreader/internal/handler"
	"github.com/hitoshi/rssreader/internal/logger"
	"github.com/hitoshi/rssreader/internal/metrics"
	"github.com/hitoshi/rssreader/internal/middleware"
	"github.com/hitoshi/rssreader/internal/repository"
	"github.com/hitoshi/rssreader/internal/security"
	"github.com/hitoshi/rssreader/internal/user"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、LOG_LEVELに従ってJSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		// 設定が読めなくてもエラーログは出せるようにする
		logger.SetupDefault(w, slog.LevelInfo)
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.SetupDefault(w, logger.ParseLevel(cfg.LogLevel))
	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	opts, err := ParseArgs(args)
	if err != nil {
		return err
	}

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if opts.Command == CommandHealthcheck {
		port, err := config.ServerPort()
		if err != nil {
			return err
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	if opts.DatabaseURL != "" {
		cfg.DatabaseURL = opts.DatabaseURL
	}

	slog.Info("starting application",
		slog.String("command", string(opts.Command)),
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	switch opts.Command {
	case CommandCreateTables:
		return runCreateTables(cfg)
	case CommandDropTables:
		return runDropTables(cfg)
	default:
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, cfg)
	}
}

// buildRouter は設定に従って全依存関係をワイヤリングし、ルーターを構築する。
// 返されるcleanupはレートリミッタなどのバックグラウンド処理を停止する。
func buildRouter(cfg *config.Config, db handler.Pinger, userRepo repository.UserRepository, feedRepo repository.FeedRepository) (http.Handler, func()) {
	cleanup := func() {}

	guard := security.NewFetchGuard(security.FetchPolicy{
		Timeout:              cfg.FetchTimeout,
		AllowPrivateNetworks: cfg.AllowPrivateNetworks,
		AllowedPorts:         cfg.AllowedPorts,
	})

	replenisherOpts := []feed.ReplenisherOption{feed.WithURLChecker(guard)}
	deps := &handler.RouterDeps{
		Logger: slog.Default(),
		DB:     db,
	}

	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		collector := metrics.NewCollector(reg)
		replenisherOpts = append(replenisherOpts, feed.WithRecorder(collector))
		deps.Metrics = collector
		deps.MetricsHandler = metrics.Handler(reg)
	}

	if cfg.RateLimitPerMinute > 0 {
		limiter := middleware.NewRateLimiter(middleware.PerMinute(cfg.RateLimitPerMinute))
		deps.RateLimiter = limiter
		cleanup = limiter.Stop
	}

	replenisher := feed.NewReplenisher(guard.Client(), cfg.FetchMaxSize, replenisherOpts...)
	deps.FeedService = feed.NewService(feedRepo, replenisher)
	deps.UserService = user.NewService(userRepo)

	return handler.NewRouter(deps), cleanup
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// ctxがキャンセルされるとグレースフルシャットダウンを行う。
func runServe(ctx context.Context, cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. リポジトリとルーターの構築
	router, cleanup := buildRouter(cfg, db,
		repository.NewPostgresUserRepo(db),
		repository.NewPostgresFeedRepo(db),
	)
	defer cleanup()

	// 3. HTTPサーバーの起動
	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
		// フィード作成はリモート取得の完了を待つ
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15*time.Second + cfg.FetchTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server listen error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down API server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runCreateTables はすべてのマイグレーションを適用してテーブルを作成する。
func runCreateTables(cfg *config.Config) error {
	if err := database.CreateTables(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("create-tables failed: %w", err)
	}

	slog.Info("tables created successfully")
	return nil
}

// runDropTables はすべてのマイグレーションを巻き戻してテーブルを削除する。
func runDropTables(cfg *config.Config) error {
	if err := database.DropTables(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("drop-tables failed: %w", err)
	}

	slog.Info("tables dropped successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	target := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(target)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLのパスワードをマスクする。
func maskDatabaseURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "***"
	}
	return u.Redacted()
}

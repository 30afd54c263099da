package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/hitoshi/rssreader/internal/model"
)

const (
	// NoTitle はタイトルが取得できなかった場合に設定する値。
	NoTitle = "No title (or not a RSS feed)"
	// NoSubtitle はサブタイトルが取得できなかった場合に設定する値。
	NoSubtitle = "No subtitle"
)

// 補完結果の分類。メトリクスのラベルとして使用する。
const (
	OutcomeOK          = "ok"
	OutcomeBlocked     = "blocked"
	OutcomeFetchError  = "fetch_error"
	OutcomeHTTPStatus  = "http_status"
	OutcomeTooLarge    = "too_large"
	OutcomeParseError  = "parse_error"
	OutcomeMissingMeta = "missing_metadata"
)

// URLChecker は取得前のURL検証のインターフェース。
type URLChecker interface {
	Check(rawURL string) error
}

// ReplenishRecorder は補完結果を記録するインターフェース。
type ReplenishRecorder interface {
	RecordReplenish(outcome string, duration time.Duration)
}

// Replenisher はフィードURLを取得・パースしてメタデータを補完する。
type Replenisher struct {
	client      *http.Client
	checker     URLChecker
	recorder    ReplenishRecorder
	logger      *slog.Logger
	maxBodySize int64
}

// ReplenisherOption はReplenisherの任意設定。
type ReplenisherOption func(*Replenisher)

// WithURLChecker は取得前のURL検証を設定する。
func WithURLChecker(c URLChecker) ReplenisherOption {
	return func(r *Replenisher) { r.checker = c }
}

// WithRecorder はメトリクス記録先を設定する。
func WithRecorder(rec ReplenishRecorder) ReplenisherOption {
	return func(r *Replenisher) { r.recorder = rec }
}

// WithLogger はロガーを設定する。未設定の場合はslog.Default()を使う。
func WithLogger(l *slog.Logger) ReplenisherOption {
	return func(r *Replenisher) { r.logger = l }
}

// NewReplenisher はReplenisherを生成する。
// maxBodySizeを超えるレスポンスはフィードではないものとして扱う。
func NewReplenisher(client *http.Client, maxBodySize int64, opts ...ReplenisherOption) *Replenisher {
	r := &Replenisher{
		client:      client,
		maxBodySize: maxBodySize,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// replenishError は補完失敗の分類付きエラー。
type replenishError struct {
	outcome string
	err     error
}

func (e *replenishError) Error() string { return e.err.Error() }
func (e *replenishError) Unwrap() error { return e.err }

func fail(outcome string, format string, args ...any) error {
	return &replenishError{outcome: outcome, err: fmt.Errorf(format, args...)}
}

// Replenish はfeed.URLを取得し、title・subtitle・updatedを上書きする。
// 取得やパースに失敗した場合は番兵値を設定し、エラーは返さない。
// ストレージへのアクセスは行わない。
func (r *Replenisher) Replenish(ctx context.Context, f *model.Feed) {
	start := time.Now()

	title, subtitle := NoTitle, NoSubtitle
	var updated *time.Time

	parsed, err := r.fetch(ctx, f.URL)
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeFetchError
		var re *replenishError
		if errors.As(err, &re) {
			outcome = re.outcome
		}
		r.logger.Warn("フィードのメタデータを取得できませんでした",
			slog.String("url", f.URL),
			slog.String("outcome", outcome),
			slog.String("error", err.Error()),
		)
	} else {
		if parsed.Title != "" {
			title = parsed.Title
		}
		if parsed.Description != "" {
			subtitle = parsed.Description
		}
		updated = lastUpdated(parsed)

		if parsed.Title == "" {
			outcome = OutcomeMissingMeta
		}
		r.logger.Info("フィードのメタデータを補完しました",
			slog.String("url", f.URL),
			slog.String("feed_type", parsed.FeedType),
			slog.Bool("has_updated", updated != nil),
		)
	}

	f.Title = &title
	f.Subtitle = &subtitle
	f.Updated = updated

	if r.recorder != nil {
		r.recorder.RecordReplenish(outcome, time.Since(start))
	}
}

// fetch はURLを取得してgofeedでパースする。
func (r *Replenisher) fetch(ctx context.Context, rawURL string) (*gofeed.Feed, error) {
	if r.checker != nil {
		if err := r.checker.Check(rawURL); err != nil {
			return nil, fail(OutcomeBlocked, "URL検証に失敗: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fail(OutcomeFetchError, "リクエスト作成に失敗: %w", err)
	}
	req.Header.Set("User-Agent", "rssreader/1.0")
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/feed+json, application/xml, text/xml, */*")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fail(OutcomeFetchError, "HTTPリクエスト失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fail(OutcomeHTTPStatus, "HTTPステータス %d", resp.StatusCode)
	}

	// 上限+1バイトまで読み、上限を超えたかを判定する
	body, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBodySize+1))
	if err != nil {
		return nil, fail(OutcomeFetchError, "レスポンス読み取り失敗: %w", err)
	}
	if int64(len(body)) > r.maxBodySize {
		return nil, fail(OutcomeTooLarge, "レスポンスが上限 %d バイトを超えています", r.maxBodySize)
	}

	parsed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, fail(OutcomeParseError, "フィードのパースに失敗: %w", err)
	}

	return parsed, nil
}

// lastUpdated はフィードの最終更新日時を返す。
// RSSのlastBuildDateやAtomのupdatedを優先し、なければpubDateを使う。
func lastUpdated(parsed *gofeed.Feed) *time.Time {
	var t *time.Time
	switch {
	case parsed.UpdatedParsed != nil:
		t = parsed.UpdatedParsed
	case parsed.PublishedParsed != nil:
		t = parsed.PublishedParsed
	default:
		return nil
	}
	utc := t.UTC()
	return &utc
}

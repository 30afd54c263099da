// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
// HTTPミドルウェアとフィード補完処理から利用する。
type Collector struct {
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	replenishTotal    *prometheus.CounterVec
	replenishDuration prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rssreader_http_requests_total",
			Help: "HTTPリクエストの合計数",
		}, []string{"method", "route", "status_code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rssreader_http_request_duration_seconds",
			Help:    "HTTPリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		replenishTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rssreader_feed_replenish_total",
			Help: "フィードメタデータ補完の結果別の合計数",
		}, []string{"outcome"}),
		replenishDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rssreader_feed_replenish_duration_seconds",
			Help:    "フィードメタデータ補完の所要時間（秒）",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.replenishTotal,
		c.replenishDuration,
	)

	return c
}

// RecordHTTPRequest はHTTPリクエストの結果を記録する。
// routeにはchiのルートパターンを渡し、ラベルの種類が増えすぎないようにする。
func (c *Collector) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordReplenish はフィード補完の結果を記録する。
func (c *Collector) RecordReplenish(outcome string, duration time.Duration) {
	c.replenishTotal.WithLabelValues(outcome).Inc()
	c.replenishDuration.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

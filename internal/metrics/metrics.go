// Package metrics は Prometheus の計測（HTTP と商品ストア操作）をまとめる。
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"inventory/internal/domain/model"
	repo "inventory/internal/repository"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "inventory"

// Metrics はレジストリと計測器の束。プロセスで1つ作って渡す。
type Metrics struct {
	Registry *prometheus.Registry

	RequestTotal    *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	StoreDuration   *prometheus.HistogramVec
	StoreErrors     *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		StoreDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Duration of product store operations in seconds.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .5, 1},
		}, []string{"operation"}),
		StoreErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "errors_total",
			Help:      "Product store operations that failed with a storage error.",
		}, []string{"operation"}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestTotal,
		m.RequestDuration,
		m.StoreDuration,
		m.StoreErrors,
	)
	return m
}

// /metrics 用のハンドラ
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// echo 用ミドルウェア。path はルート定義（/api/products/:id）で集計する。
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			var he *echo.HTTPError
			if err != nil && errors.As(err, &he) {
				status = he.Code
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			labels := []string{c.Request().Method, path, strconv.Itoa(status)}
			m.RequestTotal.WithLabelValues(labels...).Inc()
			m.RequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// InstrumentRepository は操作時間とストレージエラーを記録するラッパーを返す。
func (m *Metrics) InstrumentRepository(next repo.ProductRepository) repo.ProductRepository {
	return &instrumentedRepository{next: next, m: m}
}

type instrumentedRepository struct {
	next repo.ProductRepository
	m    *Metrics
}

func (r *instrumentedRepository) observe(op string, start time.Time, err error) {
	r.m.StoreDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if errors.Is(err, repo.ErrStorage) {
		r.m.StoreErrors.WithLabelValues(op).Inc()
	}
}

func (r *instrumentedRepository) List(ctx context.Context) (items []model.Product, err error) {
	defer func(start time.Time) { r.observe("list", start, err) }(time.Now())
	return r.next.List(ctx)
}

func (r *instrumentedRepository) FindByID(ctx context.Context, id string) (p model.Product, err error) {
	defer func(start time.Time) { r.observe("find", start, err) }(time.Now())
	return r.next.FindByID(ctx, id)
}

func (r *instrumentedRepository) Create(ctx context.Context, c model.ProductCandidate) (p model.Product, err error) {
	defer func(start time.Time) { r.observe("create", start, err) }(time.Now())
	return r.next.Create(ctx, c)
}

func (r *instrumentedRepository) Update(ctx context.Context, id string, c model.ProductCandidate) (p model.Product, err error) {
	defer func(start time.Time) { r.observe("update", start, err) }(time.Now())
	return r.next.Update(ctx, id, c)
}

func (r *instrumentedRepository) Delete(ctx context.Context, id string) (ok bool, err error) {
	defer func(start time.Time) { r.observe("delete", start, err) }(time.Now())
	return r.next.Delete(ctx, id)
}

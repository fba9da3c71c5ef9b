// Package container wires the sigbridge binary's services using go.uber.org/dig.
package container

import (
	"context"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.uber.org/dig"

	"github.com/AnatoleLucet/sigbridge/internal/config"
	"github.com/AnatoleLucet/sigbridge/internal/logging"
	"github.com/AnatoleLucet/sigbridge/internal/metrics"
	"github.com/AnatoleLucet/sigbridge/task"
)

// Container holds the resolved services.
type Container struct {
	cfg      *config.Config
	log      *logrus.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	pool     *task.Pool
	handler  http.Handler
}

func (c *Container) Config() *config.Config         { return c.cfg }
func (c *Container) Logger() *logrus.Logger         { return c.log }
func (c *Container) Registry() *prometheus.Registry { return c.registry }
func (c *Container) Metrics() *metrics.Metrics      { return c.metrics }
func (c *Container) Pool() *task.Pool               { return c.pool }
func (c *Container) Handler() http.Handler          { return c.handler }

// New builds every service from cfg. Tasks spawned on the pool run under ctx.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	d := dig.New()

	if err := d.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}
	if err := d.Provide(func() context.Context { return ctx }); err != nil {
		return nil, err
	}
	if err := d.Provide(newLogger); err != nil {
		return nil, err
	}
	if err := d.Provide(newRegistry); err != nil {
		return nil, err
	}
	if err := d.Provide(newMetrics); err != nil {
		return nil, err
	}
	if err := d.Provide(newPool); err != nil {
		return nil, err
	}
	if err := d.Provide(newHandler); err != nil {
		return nil, err
	}

	var result *Container
	err := d.Invoke(func(
		log *logrus.Logger,
		registry *prometheus.Registry,
		m *metrics.Metrics,
		pool *task.Pool,
		handler http.Handler,
	) {
		result = &Container{
			cfg:      cfg,
			log:      log,
			registry: registry,
			metrics:  m,
			pool:     pool,
			handler:  handler,
		}
	})
	return result, err
}

func newLogger(cfg *config.Config) (*logrus.Logger, error) {
	return logging.New(cfg.LogLevel, os.Stderr)
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func newMetrics(reg *prometheus.Registry) *metrics.Metrics {
	return metrics.New(reg)
}

func newPool(ctx context.Context, log *logrus.Logger) *task.Pool {
	return task.NewPool(ctx, task.WithLogger(logrus.NewEntry(log)))
}

func newHandler(cfg *config.Config, reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()

	path := cfg.Metrics.Path
	if path == "" {
		path = "/metrics"
	}
	r.Handle(path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	return r
}

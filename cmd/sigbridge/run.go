package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AnatoleLucet/sigbridge"
	"github.com/AnatoleLucet/sigbridge/internal/config"
	"github.com/AnatoleLucet/sigbridge/internal/container"
	"github.com/AnatoleLucet/sigbridge/internal/logging"
	"github.com/AnatoleLucet/sigbridge/sig"
	"github.com/AnatoleLucet/sigbridge/stream"
)

type runOptions struct {
	configPath string
	logLevel   string
	metrics    bool
	source     string
	interval   time.Duration
	count      int
	cron       string
	url        string
	initial    int
}

func runCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Bridge a source into a cell and print what the UI goroutine sees",
		Long: `Bridge a source into a reactive cell and print every value the UI
goroutine observes.

Sources:
  counter     1, 2, 3... one every --interval, --count values (0 = forever)
  cron        the activation number, on each activation of --cron
  websocket   every JSON number received from --url

Examples:
  sigbridge run --source counter --interval 100ms --count 20
  sigbridge run --source cron --cron "@every 2s"
  sigbridge run --source websocket --url ws://localhost:8080/feed --metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, cmd.OutOrStdout())
		},
	}

	defaults := config.Default()
	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	flags.StringVar(&opts.logLevel, "log-level", defaults.LogLevel, "Log level")
	flags.BoolVar(&opts.metrics, "metrics", false, "Serve Prometheus metrics")
	flags.StringVarP(&opts.source, "source", "s", defaults.Source.Kind, "Source kind: counter, cron or websocket")
	flags.DurationVar(&opts.interval, "interval", defaults.Source.Interval.Std(), "Counter interval")
	flags.IntVarP(&opts.count, "count", "n", defaults.Source.Count, "Counter values to emit, 0 for no limit")
	flags.StringVar(&opts.cron, "cron", defaults.Source.Cron, "Cron schedule")
	flags.StringVar(&opts.url, "url", "", "Websocket URL")
	flags.IntVar(&opts.initial, "initial", defaults.Source.Initial, "Value of the cell before the first item")

	return cmd
}

// loadConfig reads the config file, then applies the flags set on the command line.
func loadConfig(cmd *cobra.Command, opts runOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("metrics") {
		cfg.Metrics.Enabled = opts.metrics
	}
	if flags.Changed("source") {
		cfg.Source.Kind = opts.source
	}
	if flags.Changed("interval") {
		cfg.Source.Interval = config.Duration(opts.interval)
	}
	if flags.Changed("count") {
		cfg.Source.Count = opts.count
	}
	if flags.Changed("cron") {
		cfg.Source.Cron = opts.cron
	}
	if flags.Changed("url") {
		cfg.Source.URL = opts.url
	}
	if flags.Changed("initial") {
		cfg.Source.Initial = opts.initial
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c, err := container.New(ctx, cfg)
	if err != nil {
		return err
	}
	log := c.Logger()

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Metrics.Enabled {
		srv := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           c.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			log.WithField("addr", srv.Addr).Info("serving metrics")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		// the source ending stops the metrics server too
		defer cancel()
		return runUI(gctx, c, out)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}

// runUI owns the reactive runtime. It returns once the feeder is done or ctx ends.
func runUI(ctx context.Context, c *container.Container, out io.Writer) error {
	cfg := c.Config()

	rt := sig.NewRuntime(sig.WithLogger(logging.Component(c.Logger(), "runtime")))
	defer rt.Close()

	src, err := newSource(ctx, cfg.Source)
	if err != nil {
		return err
	}

	h := sigbridge.NewHost(rt, c.Pool(),
		sigbridge.WithLogger(logging.Component(c.Logger(), "ui")),
		sigbridge.WithMetrics(c.Metrics()),
	)

	value := sigbridge.BridgeWithInitial(h, src, cfg.Source.Initial)
	rt.NewEffect(func() {
		fmt.Fprintln(out, value.Read())
	})

	done := make(chan error, 1)
	go func() { done <- c.Pool().Wait() }()

	for {
		select {
		case <-ctx.Done():
			return c.Pool().Shutdown()
		case <-rt.Ready():
			rt.Tick()
		case err := <-done:
			rt.Tick()
			return err
		}
	}
}

func newSource(ctx context.Context, src config.Source) (stream.Stream[int], error) {
	switch src.Kind {
	case config.SourceCounter:
		return limit(numbered[time.Time](stream.Ticker(src.Interval.Std())), src.Count), nil

	case config.SourceCron:
		s, err := stream.Cron(src.Cron)
		if err != nil {
			return nil, fmt.Errorf("cron %q: %w", src.Cron, err)
		}
		return limit(numbered[time.Time](s), src.Count), nil

	case config.SourceWebSocket:
		s, err := stream.DialWebSocket(ctx, src.URL, decodeInt)
		if err != nil {
			return nil, fmt.Errorf("dial %s: %w", src.URL, err)
		}
		return s, nil

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownSource, src.Kind)
	}
}

// numbered replaces each element of s by its position, starting at 1.
func numbered[T any](s stream.Stream[T]) stream.Stream[int] {
	n := 0
	return stream.Map(s, func(T) int {
		n++
		return n
	})
}

func limit(s stream.Stream[int], count int) stream.Stream[int] {
	if count <= 0 {
		return s
	}
	return stream.Take(s, count)
}

func decodeInt(data []byte) (int, error) {
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return 0, err
	}

	v, err := n.Int64()
	return int(v), err
}

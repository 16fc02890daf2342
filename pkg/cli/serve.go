package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockapi/internal/cliconfig"
	"github.com/getmockd/mockapi/internal/matching"
	"github.com/getmockd/mockapi/pkg/admin"
	"github.com/getmockd/mockapi/pkg/engine"
	"github.com/getmockd/mockapi/pkg/metrics"
)

// serveFlags holds the flags of the serve command.
type serveFlags struct {
	host            string
	port            int
	adminPassword   string
	jwtSecret       string
	readTimeout     int
	writeTimeout    int
	shutdownTimeout int
	metrics         bool
}

func (a *app) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the mock server (default command)",
		Long: `Start the mock server in the foreground.

Mock traffic, the admin API under /api/admin, the console and /metrics are all
served from one listener. The server stops gracefully on SIGINT or SIGTERM,
letting in-flight (including delayed) responses finish.`,
		Example: `  # Start with in-memory storage on the default port
  mockapi serve

  # Persist endpoints and protect the admin API
  mockapi serve --kv-path ./data/mockapi.db --admin-password s3cret --jwt-secret $JWT_SECRET

  # Structured logs at debug level
  mockapi serve --log-format json --log-level debug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd)
		},
	}
	a.addServeFlags(cmd)
	return cmd
}

func (a *app) addServeFlags(cmd *cobra.Command) {
	f := &a.serve
	fs := cmd.Flags()
	fs.StringVar(&f.host, "host", cliconfig.DefaultHost, "Interface to listen on (empty = all)")
	fs.IntVarP(&f.port, "port", "p", cliconfig.DefaultPort, "HTTP server port")
	fs.StringVar(&f.adminPassword, "admin-password", "", "Admin API password (empty = open admin API)")
	fs.StringVar(&f.jwtSecret, "jwt-secret", "", "HMAC key for admin tokens (empty = random per process)")
	fs.IntVar(&f.readTimeout, "read-timeout", cliconfig.DefaultReadTimeout, "Read timeout in seconds")
	fs.IntVar(&f.writeTimeout, "write-timeout", cliconfig.DefaultWriteTimeout, "Write timeout in seconds (0 = none)")
	fs.IntVar(&f.shutdownTimeout, "shutdown-timeout", cliconfig.DefaultShutdownTimeout, "Graceful shutdown timeout in seconds")
	fs.BoolVar(&f.metrics, "metrics", cliconfig.DefaultMetrics, "Expose Prometheus metrics on /metrics")
}

func (a *app) runServe(cmd *cobra.Command) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg, a.stderr)
	if err != nil {
		return err
	}
	log.Debug("configuration loaded", "config", cfg.Redacted(), "sources", cfg.Sources)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, cleanup, err := buildServer(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("mock server: %w", err)
	}
	log.Info("mock server stopped")
	return nil
}

// buildServer wires storage, metrics and the admin API into a server. The
// returned cleanup closes the backend.
func buildServer(ctx context.Context, cfg *cliconfig.Config, log *slog.Logger) (*engine.Server, func(), error) {
	var m *metrics.Metrics
	if cfg.Metrics {
		m = metrics.New()
	}
	compiler := matching.NewCompiler()

	backend, err := openStore(ctx, cfg, storeDeps{log: log, metrics: m, compiler: compiler})
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := backend.Close(); err != nil {
			log.Error("failed to close store", "error", err)
		}
	}

	adminAPI, err := admin.New(backend,
		admin.WithLogger(log.With("component", "admin")),
		admin.WithMetrics(m),
		admin.WithPassword(cfg.AdminPassword),
		admin.WithJWTSecret(cfg.JWTSecret),
		admin.WithCompiler(compiler),
	)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	srv := engine.NewServer(engine.ServerConfig{
		Host:            cfg.Host,
		Port:            cfg.Port,
		ReadTimeout:     seconds(cfg.ReadTimeout),
		WriteTimeout:    seconds(cfg.WriteTimeout),
		ShutdownTimeout: seconds(cfg.ShutdownTimeout),
	}, backend,
		engine.WithLogger(log),
		engine.WithMetrics(m),
		engine.WithAdmin(adminAPI),
	)
	return srv, cleanup, nil
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/getmockd/mockapi/internal/cliconfig"
	"github.com/getmockd/mockapi/internal/matching"
	"github.com/getmockd/mockapi/pkg/logging"
	"github.com/getmockd/mockapi/pkg/metrics"
	"github.com/getmockd/mockapi/pkg/model"
	"github.com/getmockd/mockapi/pkg/store"
	"github.com/getmockd/mockapi/pkg/store/kv"
	"github.com/getmockd/mockapi/pkg/store/memory"
)

// newLogger builds the process logger from cfg, writing to w.
func newLogger(cfg *cliconfig.Config, w io.Writer) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Config{Level: level, Format: format, Output: w}), nil
}

// storeDeps are the shared collaborators wired into a backend.
type storeDeps struct {
	log      *slog.Logger
	metrics  *metrics.Metrics
	compiler *matching.Compiler
}

// openStore opens the backend cfg selects and initializes it: the bbolt file
// when a KV path is configured, otherwise volatile memory.
func openStore(ctx context.Context, cfg *cliconfig.Config, deps storeDeps) (store.Backend, error) {
	log := deps.log
	if log == nil {
		log = logging.Nop()
	}
	opts := []store.Option{
		store.WithLogger(log.With("component", "store")),
		store.WithCompiler(deps.compiler),
		store.WithSkipHook(func(*model.Endpoint, error) {
			deps.metrics.MalformedPattern()
		}),
	}

	var backend store.Backend
	scfg := store.Config{KVPath: cfg.KVPath}
	switch scfg.Kind() {
	case store.KindKV:
		kvStore, err := kv.Open(scfg, opts...)
		if err != nil {
			return nil, fmt.Errorf("open kv store %s: %w", cfg.KVPath, err)
		}
		log.Info("using durable kv storage", "path", kvStore.Path())
		backend = kvStore
	default:
		log.Warn("no kv path configured, using in-memory storage (data is lost on restart)")
		backend = memory.New(opts...)
	}

	if err := backend.Initialize(ctx); err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("initialize %s store: %w", backend.Kind(), err)
	}
	return backend, nil
}

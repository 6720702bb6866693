package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/internal/settings"
	"github.com/aretw0/lattice/pkg/adapters/file"
	"github.com/aretw0/lattice/pkg/adapters/memory"
	"github.com/aretw0/lattice/pkg/adapters/redis"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/observability"
	"github.com/aretw0/lattice/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// EngineOptions controls how the CLI assembles an engine.
type EngineOptions struct {
	Settings *settings.Settings

	// Backend overrides Settings.Store.Backend when set.
	Backend string

	Logger  *slog.Logger
	Metrics *observability.Metrics
	Output  io.Writer

	// Events receives run and step events as JSON lines.
	Events io.Writer
}

// Storage bundles the run store with the locker sharing its connection.
type Storage struct {
	Store  ports.RunStore
	Locker ports.DistributedLocker
	close  func() error
}

// Close releases the backend connection, if any.
func (s *Storage) Close() error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close()
}

// OpenStorage builds the run store named by backend (or the settings default).
func OpenStorage(s *settings.Settings, backendName string) (*Storage, error) {
	if backendName == "" {
		backendName = s.Store.Backend
	}
	switch backendName {
	case settings.BackendMemory:
		return &Storage{Store: memory.NewStore()}, nil
	case settings.BackendFile:
		return &Storage{Store: file.New(s.Store.Dir)}, nil
	case settings.BackendRedis:
		client := backend.NewClient(&backend.Options{
			Addr:     s.Store.Redis.Addr,
			Password: s.Store.Redis.Password,
			DB:       s.Store.Redis.DB,
		})
		st := &Storage{
			Store: redis.NewFromClient(client,
				redis.WithPrefix(s.Store.Redis.Prefix),
				redis.WithTTL(s.Store.Redis.TTL),
			),
			close: client.Close,
		}
		if s.Lock.Enabled {
			st.Locker = redis.NewLocker(client, "")
		}
		return st, nil
	default:
		return nil, fmt.Errorf("%w: unknown store backend %q", domain.ErrInvalidConfig, backendName)
	}
}

// NewEngine loads the latticefile named in the settings and wires storage,
// logging and metrics into the engine.
func NewEngine(opts EngineOptions) (*lattice.Engine, *Storage, error) {
	logger := opts.Logger
	if logger == nil {
		var err error
		if logger, err = NewLogger(opts.Settings.LogLevel); err != nil {
			return nil, nil, err
		}
	}

	storage, err := OpenStorage(opts.Settings, opts.Backend)
	if err != nil {
		return nil, nil, err
	}

	var hooks []domain.LifecycleHooks
	if opts.Events != nil {
		hooks = append(hooks, observability.LoggingHooks(slog.New(slog.NewJSONHandler(opts.Events, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}
	if opts.Metrics != nil {
		hooks = append(hooks, opts.Metrics.Hooks())
	}

	engineOpts := []lattice.Option{
		lattice.WithLogger(logger),
		lattice.WithLifecycleHooks(domain.ComposeHooks(hooks...)),
		lattice.WithRunStore(storage.Store),
		lattice.WithCommandTimeout(opts.Settings.CommandTimeout),
	}
	if storage.Locker != nil {
		engineOpts = append(engineOpts, lattice.WithLocker(storage.Locker, opts.Settings.Lock.TTL))
	}
	if opts.Output != nil {
		engineOpts = append(engineOpts, lattice.WithOutput(opts.Output))
	}

	eng, err := lattice.New(opts.Settings.File, engineOpts...)
	if err != nil {
		_ = storage.Close()
		return nil, nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return eng, storage, nil
}

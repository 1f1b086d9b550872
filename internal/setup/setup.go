package setup

import (
	"context"
	"path/filepath"

	"github.com/femtrack/forum/internal/config"
	"github.com/femtrack/forum/internal/handler"
	"github.com/femtrack/forum/internal/kv"
	"github.com/femtrack/forum/internal/logger"
	"github.com/femtrack/forum/internal/store"
)

// Dependencies holds everything the server needs wired together.
type Dependencies struct {
	Config  *config.Config
	Store   *store.Store
	Handler *handler.Handler
	Cleanup func()
}

// SetupDependencies picks the KV backend (Redis when configured, the local
// file replica otherwise) and builds the store and handlers on top of it.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	var backend kv.KV
	cleanup := func() {}

	if cfg.Redis.Addr != "" {
		r := kv.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := r.Ping(ctx); err != nil {
			return nil, err
		}
		logger.Log.Info("using redis backend", "addr", cfg.Redis.Addr)
		backend = r
		cleanup = func() { r.Close() }
	} else {
		f, err := kv.NewFile(filepath.Join(cfg.DataDir, "forum-data.json"))
		if err != nil {
			return nil, err
		}
		logger.Log.Info("using file backend", "dir", cfg.DataDir)
		backend = f
	}

	st := store.New(backend)

	return &Dependencies{
		Config:  cfg,
		Store:   st,
		Handler: handler.New(st),
		Cleanup: cleanup,
	}, nil
}

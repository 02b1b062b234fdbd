package platform

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/stitch/pkg/adapters/fs"
	changes "github.com/aretw0/stitch/pkg/adapters/lifecycle"
	"github.com/aretw0/stitch/pkg/core"
)

// Site wires a Builder to its storage adapter for one invocation.
type Site struct {
	builder *core.Builder
	store   core.Store
	logger  *slog.Logger
}

// New assembles a Site from functional options.
//
//	site, err := stitch.New(stitch.WithOutputDir("dist"), stitch.WithReload(false))
func New(opts ...Option) (*Site, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if err := validate(o.config); err != nil {
		return nil, err
	}

	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	store := o.store
	if store == nil {
		store = fs.NewStore(fs.Config{
			Logger: logger,
			Ignore: o.ignore,
			Buffer: o.eventBuffer,
		})
	}

	return &Site{
		builder: core.NewBuilder(o.config, store, logger, o.recorder),
		store:   store,
		logger:  logger,
	}, nil
}

func validate(cfg core.Config) error {
	switch {
	case cfg.InputDir == "":
		return &core.ConfigError{Key: "input_dir", Err: errors.New("must not be empty")}
	case cfg.PartialsDir == "":
		return &core.ConfigError{Key: "partials_dir", Err: errors.New("must not be empty")}
	case cfg.OutputDir == "":
		return &core.ConfigError{Key: "output_dir", Err: errors.New("must not be empty")}
	}
	return nil
}

// Builder returns the underlying build orchestrator.
func (s *Site) Builder() *core.Builder {
	return s.builder
}

// Config returns the effective build configuration.
func (s *Site) Config() core.Config {
	return s.builder.Config()
}

// Build runs one build pass.
func (s *Site) Build(ctx context.Context) (core.Report, error) {
	return s.builder.Build(ctx)
}

// Watch rebuilds on every change until ctx is cancelled. The store must be
// able to deliver change notifications.
func (s *Site) Watch(ctx context.Context) error {
	w, err := s.watcher()
	if err != nil {
		return err
	}
	return s.builder.Watch(ctx, w)
}

// Events subscribes to the input and partials roots and exposes the change
// stream as a lifecycle.Source, for hosts that drive their own loop instead
// of Watch. Each event is an adapters/lifecycle Change tagged with its
// root. The source closes when ctx ends.
func (s *Site) Events(ctx context.Context) (lifecycle.Source, error) {
	w, err := s.watcher()
	if err != nil {
		return nil, err
	}
	cfg := s.Config()
	events, err := w.Watch(ctx, cfg.InputDir, cfg.PartialsDir)
	if err != nil {
		return nil, err
	}
	return changes.NewSource(events, cfg.InputDir, cfg.PartialsDir), nil
}

func (s *Site) watcher() (core.Watcher, error) {
	w, ok := s.store.(core.Watcher)
	if !ok {
		return nil, &core.MissingWatchToolError{Err: errors.New("storage adapter does not support watching")}
	}
	return w, nil
}

// State exposes the builder and store state for diagnostics.
func (s *Site) State() any {
	return s.builder.State()
}

package stitch

import (
	"context"
	"log/slog"

	"github.com/aretw0/stitch/internal/platform"
	"github.com/aretw0/stitch/pkg/core"
	"github.com/aretw0/stitch/pkg/metrics"
)

// --- Types ---

// Site is a configured builder bound to its storage adapter.
type Site = platform.Site

// Report summarizes one build pass.
type Report = core.Report

// FileConfig is the on-disk configuration (stitch.yaml).
type FileConfig = platform.FileConfig

// --- Configuration ---

// Option defines a functional option for configuring Stitch.
type Option = platform.Option

// WithInputDir sets the directory holding content fragments and assets.
func WithInputDir(dir string) Option {
	return platform.WithInputDir(dir)
}

// WithPartialsDir sets the directory holding the head, header and footer partials.
func WithPartialsDir(dir string) Option {
	return platform.WithPartialsDir(dir)
}

// WithOutputDir sets the directory the site is written to.
func WithOutputDir(dir string) Option {
	return platform.WithOutputDir(dir)
}

// WithClean removes the output directory before the initial build. Rebuilds
// triggered while watching never clean.
func WithClean(clean bool) Option {
	return platform.WithClean(clean)
}

// WithDryRun logs every mutation instead of performing it.
func WithDryRun(dryRun bool) Option {
	return platform.WithDryRun(dryRun)
}

// WithReload enables or disables live-reload injection.
func WithReload(enabled bool) Option {
	return platform.WithReload(enabled)
}

// WithPlaceholder sets the title token in the head partial.
func WithPlaceholder(token string) Option {
	return platform.WithPlaceholder(token)
}

// WithMarker sets the reload marker file name.
func WithMarker(name string) Option {
	return platform.WithMarker(name)
}

// WithPartialsInvalidate makes a partial edit mark every page stale.
func WithPartialsInvalidate(enabled bool) Option {
	return platform.WithPartialsInvalidate(enabled)
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRecorder sets the metrics recorder.
func WithRecorder(recorder metrics.Recorder) Option {
	return platform.WithRecorder(recorder)
}

// WithIgnore adds glob patterns skipped while walking and watching.
func WithIgnore(patterns ...string) Option {
	return platform.WithIgnore(patterns...)
}

// WithEventBuffer sets the size of the watcher event buffer.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithStore allows injecting a custom storage adapter.
func WithStore(store core.Store) Option {
	return platform.WithStore(store)
}

// LoadConfig reads stitch.yaml (or the given path), .env and STITCH_* variables.
func LoadConfig(path string) (*FileConfig, error) {
	return platform.LoadConfig(path)
}

// --- Factory ---

// New creates a new Site.
func New(opts ...Option) (*Site, error) {
	return platform.New(opts...)
}

// --- Operations ---

// Build runs a single build pass.
func Build(ctx context.Context, opts ...Option) (Report, error) {
	return platform.Build(ctx, opts...)
}

// BuildAndWatch builds once and then rebuilds on every change until ctx is cancelled.
func BuildAndWatch(ctx context.Context, opts ...Option) error {
	return platform.BuildAndWatch(ctx, opts...)
}

// FindConfig looks upwards from startDir for stitch.yaml.
func FindConfig(startDir string) (string, error) {
	return platform.FindConfig(startDir)
}

package platform

import (
	"log/slog"

	"github.com/aretw0/stitch/pkg/core"
	"github.com/aretw0/stitch/pkg/metrics"
)

// Default roots, relative to the working directory.
const (
	DefaultInputDir    = "content"
	DefaultPartialsDir = "partials"
	DefaultOutputDir   = "public"
)

// options holds the internal configuration for a Stitch site.
type options struct {
	config      core.Config
	logger      *slog.Logger
	recorder    metrics.Recorder
	store       core.Store
	ignore      []string
	eventBuffer int
}

// Option defines a functional option for configuring Stitch.
type Option func(*options)

// defaultOptions returns the default configuration. Reload injection is on
// unless explicitly disabled.
func defaultOptions() *options {
	return &options{
		config: core.Config{
			InputDir:    DefaultInputDir,
			PartialsDir: DefaultPartialsDir,
			OutputDir:   DefaultOutputDir,
			Reload:      true,
		},
	}
}

// WithInputDir sets the directory holding content fragments and assets.
func WithInputDir(dir string) Option {
	return func(o *options) {
		o.config.InputDir = dir
	}
}

// WithPartialsDir sets the directory holding head.html, header.html and footer.html.
func WithPartialsDir(dir string) Option {
	return func(o *options) {
		o.config.PartialsDir = dir
	}
}

// WithOutputDir sets the directory the site is written to.
func WithOutputDir(dir string) Option {
	return func(o *options) {
		o.config.OutputDir = dir
	}
}

// WithClean removes the output directory before the initial build. Rebuilds
// triggered while watching never clean.
func WithClean(clean bool) Option {
	return func(o *options) {
		o.config.Clean = clean
	}
}

// WithDryRun replaces every filesystem mutation with a log line.
func WithDryRun(dryRun bool) Option {
	return func(o *options) {
		o.config.DryRun = dryRun
	}
}

// WithReload enables or disables the live-reload snippet and marker file.
// Enabled by default.
func WithReload(enabled bool) Option {
	return func(o *options) {
		o.config.Reload = enabled
	}
}

// WithPlaceholder sets the token in head.html replaced by the page title.
// Empty means "{{title}}".
func WithPlaceholder(token string) Option {
	return func(o *options) {
		o.config.Placeholder = token
	}
}

// WithMarker sets the reload marker file name at the output root.
// Empty means "reload.txt".
func WithMarker(name string) Option {
	return func(o *options) {
		o.config.Marker = name
	}
}

// WithPartialsInvalidate makes a partial edit mark every page stale.
func WithPartialsInvalidate(enabled bool) Option {
	return func(o *options) {
		o.config.PartialsInvalidate = enabled
	}
}

// WithLogger sets the logger for the builder and the filesystem adapter.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRecorder sets the metrics recorder. Nil disables metrics.
func WithRecorder(recorder metrics.Recorder) Option {
	return func(o *options) {
		o.recorder = recorder
	}
}

// WithIgnore adds glob patterns skipped while walking and watching, on top
// of fs.DefaultIgnore. Patterns are matched against slash-separated paths
// relative to a root.
func WithIgnore(patterns ...string) Option {
	return func(o *options) {
		o.ignore = patterns
	}
}

// WithEventBuffer sets the size of the watcher event buffer.
// Zero means default (64).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.eventBuffer = size
	}
}

// WithStore allows injecting a custom storage adapter (e.g. in-memory).
// If provided, the default filesystem adapter will be skipped. Watching
// requires the store to also implement core.Watcher.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

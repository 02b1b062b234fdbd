package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/stitch/pkg/metrics"
)

// Config is the immutable configuration of a Builder, constructed once per
// invocation.
type Config struct {
	InputDir    string
	PartialsDir string
	OutputDir   string

	Clean  bool // remove OutputDir before Build; rebuilds inside Watch never clean
	DryRun bool
	Reload bool

	Placeholder string // defaults to DefaultPlaceholder
	Marker      string // defaults to DefaultMarker

	// PartialsInvalidate treats the newest partial as a freshness floor for pages.
	PartialsInvalidate bool
}

func (c Config) withDefaults() Config {
	if c.Placeholder == "" {
		c.Placeholder = DefaultPlaceholder
	}
	if c.Marker == "" {
		c.Marker = DefaultMarker
	}
	return c
}

// Builder runs build passes over the input tree.
type Builder struct {
	cfg      Config
	store    Store
	logger   *slog.Logger
	recorder metrics.Recorder

	mu         sync.RWMutex
	lastReport *Report
	builds     int
	watching   bool
}

// NewBuilder creates a Builder. A nil logger means slog.Default(); a nil
// recorder disables metrics.
func NewBuilder(cfg Config, store Store, logger *slog.Logger, recorder metrics.Recorder) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Builder{
		cfg:      cfg.withDefaults(),
		store:    store,
		logger:   logger,
		recorder: recorder,
	}
}

// Config returns the builder's configuration.
func (b *Builder) Config() Config {
	return b.cfg
}

// Build runs one full pass: load partials, optionally clean, then compose or
// copy every stale input file and finally refresh the reload marker.
//
// The first error aborts the pass. Partials are loaded before anything else
// so a missing partial never leaves a half-written output tree.
func (b *Builder) Build(ctx context.Context) (Report, error) {
	return b.run(ctx, b.cfg.Clean)
}

// rebuild is the pass triggered by a change notification. It never cleans:
// staleness alone decides what is rewritten, so served files stay in place.
func (b *Builder) rebuild(ctx context.Context) (Report, error) {
	return b.run(ctx, false)
}

func (b *Builder) run(ctx context.Context, clean bool) (Report, error) {
	start := time.Now()
	report := Report{
		BuildID: uuid.NewString(),
		Actions: make(map[Action]int),
	}
	log := b.logger.With("build", report.BuildID)

	err := b.build(ctx, log, &report, clean)
	report.Duration = time.Since(start)

	b.recorder.ObserveBuildDuration(report.Duration)
	if err != nil {
		b.recorder.IncBuildOutcome(metrics.OutcomeFailed)
		return report, err
	}
	b.recorder.IncBuildOutcome(metrics.OutcomeSuccess)
	b.recorder.SetLastBuild(time.Now())

	b.mu.Lock()
	b.lastReport = &report
	b.builds++
	b.mu.Unlock()

	log.Info("build complete",
		"composed", report.Count(ActionCompose)+report.Count(ActionWouldCompose),
		"copied", report.Count(ActionCopy)+report.Count(ActionWouldCopy),
		"fresh", report.Count(ActionFresh),
		"dry_run", b.cfg.DryRun,
		"duration", report.Duration)
	return report, nil
}

func (b *Builder) build(ctx context.Context, log *slog.Logger, report *Report, clean bool) error {
	partials, err := b.LoadPartials(ctx)
	if err != nil {
		return err
	}

	if clean {
		if b.cfg.DryRun {
			log.Info("would delete", "path", b.cfg.OutputDir)
		} else {
			log.Info("delete", "path", b.cfg.OutputDir)
			if err := b.store.RemoveAll(ctx, b.cfg.OutputDir); err != nil {
				return &IOError{Op: "delete", Path: b.cfg.OutputDir, Err: err}
			}
		}
	}

	var floor time.Time
	if b.cfg.PartialsInvalidate {
		floor = partials.Newest
	}

	err = b.store.Walk(ctx, b.cfg.InputDir, func(in InputFile) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		action, err := b.process(ctx, in, partials, floor)
		if err != nil {
			return err
		}
		report.Actions[action]++
		b.recorder.IncFileAction(string(action))
		log.Info(string(action), "path", in.RelPath)
		return nil
	})
	if err != nil {
		var ioErr *IOError
		if errors.As(err, &ioErr) || errors.Is(err, context.Canceled) {
			return err
		}
		return &IOError{Op: "walk", Path: b.cfg.InputDir, Err: err}
	}

	if b.cfg.Reload && !b.cfg.DryRun {
		marker := strconv.FormatInt(time.Now().UnixNano(), 10)
		target := filepath.Join(b.cfg.OutputDir, b.cfg.Marker)
		if err := b.store.WriteFile(ctx, target, []byte(marker)); err != nil {
			return &IOError{Op: "write", Path: target, Err: err}
		}
		report.Marker = marker
		log.Debug("marker", "path", b.cfg.Marker, "value", marker)
	}
	return nil
}

// process handles one input file and returns the action taken.
func (b *Builder) process(ctx context.Context, in InputFile, partials Partials, floor time.Time) (Action, error) {
	out := b.OutputPath(in.RelPath)

	info, err := b.store.Stat(ctx, out)
	if err != nil {
		return "", &IOError{Op: "stat", Path: out, Err: err}
	}
	if in.Kind != KindPage {
		floor = time.Time{}
	}
	if !IsStale(in.ModTime, info.ModTime, info.Exists, floor) {
		return ActionFresh, nil
	}

	if in.Kind == KindAsset {
		if b.cfg.DryRun {
			return ActionWouldCopy, nil
		}
		if err := b.store.Copy(ctx, in.Path, out); err != nil {
			return "", &IOError{Op: "copy", Path: in.RelPath, Err: err}
		}
		return ActionCopy, nil
	}

	content, err := b.store.ReadFile(ctx, in.Path)
	if err != nil {
		return "", &IOError{Op: "read", Path: in.RelPath, Err: err}
	}
	if b.cfg.DryRun {
		return ActionWouldCompose, nil
	}

	page := Page{
		Content:     string(content),
		Title:       ResolveTitle(in.Path, string(content)),
		Placeholder: b.cfg.Placeholder,
	}
	if b.cfg.Reload {
		page.Reload = ReloadSnippet(MarkerURL(in.RelPath, b.cfg.Marker))
	}
	if err := b.store.WriteFile(ctx, out, []byte(Compose(page, partials))); err != nil {
		return "", &IOError{Op: "write", Path: in.RelPath, Err: err}
	}
	return ActionCompose, nil
}

// LoadPartials reads the head, header and footer partials. The first one
// missing yields a *MissingPartialError.
func (b *Builder) LoadPartials(ctx context.Context) (Partials, error) {
	var p Partials
	for _, kind := range RequiredPartials {
		full := filepath.Join(b.cfg.PartialsDir, kind.FileName())
		info, err := b.store.Stat(ctx, full)
		if err != nil {
			return Partials{}, &IOError{Op: "stat", Path: full, Err: err}
		}
		if !info.Exists {
			return Partials{}, &MissingPartialError{Kind: kind, Path: full, Err: fmt.Errorf("file does not exist")}
		}
		data, err := b.store.ReadFile(ctx, full)
		if err != nil {
			return Partials{}, &MissingPartialError{Kind: kind, Path: full, Err: err}
		}
		switch kind {
		case PartialHead:
			p.Head = string(data)
		case PartialHeader:
			p.Header = string(data)
		case PartialFooter:
			p.Footer = string(data)
		}
		if info.ModTime.After(p.Newest) {
			p.Newest = info.ModTime
		}
	}
	return p, nil
}

// OutputPath returns where the output for an input relative path is written.
func (b *Builder) OutputPath(relPath string) string {
	return filepath.Join(b.cfg.OutputDir, filepath.FromSlash(path.Clean(relPath)))
}

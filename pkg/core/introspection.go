package core

import (
	"github.com/aretw0/introspection"
)

// BuilderState exposes internal state for observability.
type BuilderState struct {
	InputDir    string  `json:"input_dir"`
	PartialsDir string  `json:"partials_dir"`
	OutputDir   string  `json:"output_dir"`
	DryRun      bool    `json:"dry_run"`
	Reload      bool    `json:"reload"`
	Builds      int     `json:"builds"`
	Watching    bool    `json:"watching"`
	LastReport  *Report `json:"last_report,omitempty"`
	StoreType   string  `json:"store_type"`
}

// State implements introspection.Introspectable.
func (b *Builder) State() any {
	b.mu.RLock()
	defer b.mu.RUnlock()

	storeType := "unknown"
	if comp, ok := b.store.(introspection.Component); ok {
		storeType = comp.ComponentType()
	}

	var last *Report
	if b.lastReport != nil {
		r := *b.lastReport
		last = &r
	}

	return BuilderState{
		InputDir:    b.cfg.InputDir,
		PartialsDir: b.cfg.PartialsDir,
		OutputDir:   b.cfg.OutputDir,
		DryRun:      b.cfg.DryRun,
		Reload:      b.cfg.Reload,
		Builds:      b.builds,
		Watching:    b.watching,
		LastReport:  last,
		StoreType:   storeType,
	}
}

// ComponentType implements introspection.Component.
func (b *Builder) ComponentType() string {
	return "builder"
}

var _ introspection.Introspectable = (*Builder)(nil)
var _ introspection.Component = (*Builder)(nil)

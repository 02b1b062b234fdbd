package platform

import (
	"context"

	"github.com/aretw0/stitch/pkg/core"
)

// Build assembles a site from opts and runs a single build pass.
func Build(ctx context.Context, opts ...Option) (core.Report, error) {
	site, err := New(opts...)
	if err != nil {
		return core.Report{}, err
	}
	return site.Build(ctx)
}

// BuildAndWatch runs an initial build and then rebuilds on every change
// until ctx is cancelled. A failing initial build is returned before any
// watching starts; later failures are only logged.
func BuildAndWatch(ctx context.Context, opts ...Option) error {
	site, err := New(opts...)
	if err != nil {
		return err
	}
	if _, err := site.Build(ctx); err != nil {
		return err
	}
	return site.Watch(ctx)
}

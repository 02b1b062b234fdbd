// Package lifecycle exposes Stitch change notifications to the lifecycle runtime.
package lifecycle

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/stitch/pkg/core"
)

// Change is the lifecycle.Event emitted for one change under a watched root.
type Change struct {
	core.Event
	Root    string // watched root holding the path, empty if none matched
	RelPath string // slash-separated path below Root
}

func (c Change) String() string {
	return string(c.Type) + " " + c.RelPath
}

type changeSource struct {
	events <-chan core.Event
	roots  []string
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source over a change channel such as the one
// returned by fs.Store.Watch. Each event is tagged with the root it falls
// under. The output closes when the input closes or the context passed to
// Start ends.
func NewSource(events <-chan core.Event, roots ...string) lifecycle.Source {
	return &changeSource{
		events: events,
		roots:  roots,
		out:    make(chan lifecycle.Event),
	}
}

func (s *changeSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *changeSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, s.forward)
	return nil
}

func (s *changeSource) forward(ctx context.Context) error {
	defer close(s.out)
	for {
		var e core.Event
		select {
		case <-ctx.Done():
			return nil
		case next, ok := <-s.events:
			if !ok {
				return nil
			}
			e = next
		}

		select {
		case s.out <- s.classify(e):
		case <-ctx.Done():
			return nil
		}
	}
}

// classify finds the root e.Path falls under.
func (s *changeSource) classify(e core.Event) Change {
	for _, root := range s.roots {
		rel, err := filepath.Rel(root, e.Path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		return Change{Event: e, Root: root, RelPath: filepath.ToSlash(rel)}
	}
	return Change{Event: e, RelPath: filepath.ToSlash(e.Path)}
}

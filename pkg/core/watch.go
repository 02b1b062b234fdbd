package core

import (
	"context"
	"errors"
)

// Watch blocks, rebuilding on every batch of change notifications from w
// until ctx is cancelled.
//
// A batch is the first pending event plus everything already queued behind
// it. Rebuilds run synchronously on the calling goroutine, so events that
// arrive mid-build wait in the channel for the next batch. A failed rebuild
// is logged and the loop keeps waiting. Rebuilds skip Config.Clean, which
// applies to the initial Build only; staleness checks decide what actually
// gets rewritten.
func (b *Builder) Watch(ctx context.Context, w Watcher) error {
	events, err := w.Watch(ctx, b.cfg.InputDir, b.cfg.PartialsDir)
	if err != nil {
		var missing *MissingWatchToolError
		if errors.As(err, &missing) {
			return err
		}
		return &MissingWatchToolError{Err: err}
	}

	b.setWatching(true)
	defer b.setWatching(false)

	b.logger.Info("watching for changes", "input", b.cfg.InputDir, "partials", b.cfg.PartialsDir)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("watcher events channel closed")
			}
			batch := 1 + drain(events)
			b.logger.Info("change detected", "event", event.String(), "batch", batch)

			if _, err := b.rebuild(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				b.logger.Error("rebuild failed", "error", err)
			}
		}
	}
}

// drain discards events that are already queued and returns how many it took.
func drain(events <-chan Event) int {
	n := 0
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return n
			}
			n++
		default:
			return n
		}
	}
}

func (b *Builder) setWatching(active bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.watching = active
}

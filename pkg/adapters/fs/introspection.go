package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Ignore        []string   `json:"ignore"`
	EventBuffer   int        `json:"event_buffer"`
	WatcherActive bool       `json:"watcher_active"`
	LastWalk      *time.Time `json:"last_walk,omitempty"`
	FilesWritten  int        `json:"files_written"`
	FilesCopied   int        `json:"files_copied"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ignore := make([]string, len(s.config.Ignore))
	copy(ignore, s.config.Ignore)

	return StoreState{
		Ignore:        ignore,
		EventBuffer:   s.config.Buffer,
		WatcherActive: s.watcherActive,
		LastWalk:      s.lastWalk,
		FilesWritten:  s.written,
		FilesCopied:   s.copied,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "fs-store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)

func (s *Store) setWatcherActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcherActive = active
}

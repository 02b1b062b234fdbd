package core

import (
	"context"
	"time"
)

// FileInfo is the subset of file metadata the pipeline relies on.
type FileInfo struct {
	ModTime time.Time
	Exists  bool
}

// Store defines the filesystem operations the build orchestrator needs.
// Adhering to this interface keeps the pipeline independent of the disk so
// it can be exercised with in-memory doubles.
type Store interface {
	// Walk calls fn for every regular file under root, in lexical order.
	// Ignored paths are not reported.
	Walk(ctx context.Context, root string, fn func(InputFile) error) error

	// Stat returns the modification time of path, or Exists=false.
	Stat(ctx context.Context, path string) (FileInfo, error)

	// ReadFile returns the whole content of path.
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// WriteFile replaces path with data, creating parent directories.
	WriteFile(ctx context.Context, path string, data []byte) error

	// Copy duplicates src to dst byte for byte, creating parent directories.
	Copy(ctx context.Context, src, dst string) error

	// RemoveAll deletes path and everything beneath it.
	RemoveAll(ctx context.Context, path string) error
}

// Watcher produces change notifications for a set of roots.
type Watcher interface {
	// Watch subscribes to recursive changes under roots. The returned channel
	// is closed when ctx ends or the subscription fails.
	Watch(ctx context.Context, roots ...string) (<-chan Event, error)
}

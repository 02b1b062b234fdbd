package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/stitch/pkg/core"
)

// Store implements core.Store and core.Watcher on the local filesystem.
type Store struct {
	config Config

	mu            sync.RWMutex
	watcherActive bool
	lastWalk      *time.Time
	written       int
	copied        int
}

// Config holds the configuration for the filesystem store.
type Config struct {
	Logger *slog.Logger
	Ignore []string // extra doublestar patterns, matched against slash paths relative to a root
	Buffer int      // capacity of the watch event channel, zero means DefaultEventBuffer
}

// DefaultEventBuffer is the capacity of the channel returned by Watch.
const DefaultEventBuffer = 64

// DefaultIgnore skips editor droppings and hidden files.
var DefaultIgnore = []string{"**/.*", "**/*~", "**/*.swp", "**/" + TempFilePrefix + "*"}

// NewStore creates a new filesystem-backed store.
func NewStore(config Config) *Store {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	// Configured patterns extend the defaults; hidden and temp files stay skipped.
	config.Ignore = append(append([]string{}, DefaultIgnore...), config.Ignore...)
	if config.Buffer <= 0 {
		config.Buffer = DefaultEventBuffer
	}
	return &Store{config: config}
}

// Walk reports every regular file under root in lexical order, skipping
// ignored files and directories.
func (s *Store) Walk(ctx context.Context, root string, fn func(core.InputFile) error) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("error accessing path '%s' during walk: %w", path, walkErr)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path for %s: %w", path, err)
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if s.ignored(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}
		return fn(core.InputFile{
			RelPath: rel,
			Path:    path,
			Kind:    core.ClassifyKind(d.Name()),
			ModTime: info.ModTime(),
		})
	})

	now := time.Now()
	s.mu.Lock()
	s.lastWalk = &now
	s.mu.Unlock()
	return err
}

// Stat returns the modification time of path. A missing file is not an error.
func (s *Store) Stat(ctx context.Context, path string) (core.FileInfo, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return core.FileInfo{}, nil
	}
	if err != nil {
		return core.FileInfo{}, err
	}
	return core.FileInfo{ModTime: info.ModTime(), Exists: true}, nil
}

// ReadFile reads path in full.
func (s *Store) ReadFile(ctx context.Context, path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to path atomically, creating parent directories.
func (s *Store) WriteFile(ctx context.Context, path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}
	if err := writeFileAtomic(path, data, 0644); err != nil {
		return err
	}
	s.mu.Lock()
	s.written++
	s.mu.Unlock()
	return nil
}

// Copy duplicates src to dst byte for byte, keeping the source permissions.
func (s *Store) Copy(ctx context.Context, src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create destination directory %s: %w", filepath.Dir(dst), err)
	}
	if err := copyFileAtomic(src, dst); err != nil {
		return err
	}
	s.mu.Lock()
	s.copied++
	s.mu.Unlock()
	return nil
}

// RemoveAll deletes path recursively. A missing path is not an error.
func (s *Store) RemoveAll(ctx context.Context, path string) error {
	return os.RemoveAll(path)
}

var _ core.Store = (*Store)(nil)
var _ core.Watcher = (*Store)(nil)

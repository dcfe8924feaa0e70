// Package output persists finished export documents: to a local file, an
// S3-compatible bucket, a Postgres table, or several of them at once.
package output

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned by savers that can read back when nothing was saved
// under the requested key.
var ErrNotFound = errors.New("export not found")

// Saver stores one encoded export document. It returns a human-readable
// location of the stored document.
type Saver interface {
	Save(ctx context.Context, runID, filename string, content []byte) (string, error)
}

// NewRunID returns a fresh identifier for an export run.
func NewRunID() string {
	return uuid.NewString()
}

func checkKey(runID, filename string) (string, string, error) {
	runID = strings.TrimSpace(runID)
	filename = strings.TrimSpace(filename)
	if runID == "" {
		return "", "", fmt.Errorf("run_id is required")
	}
	if filename == "" {
		return "", "", fmt.Errorf("filename is required")
	}
	return runID, filename, nil
}

// FileSaver writes the document to a local path. The run ID is not part of
// the path: every run overwrites the previous file.
type FileSaver struct {
	// Path is the target file. When it names an existing directory, or ends
	// with a path separator, the document's filename is appended.
	Path string
}

// NewFileSaver returns a FileSaver for path.
func NewFileSaver(path string) *FileSaver {
	return &FileSaver{Path: strings.TrimSpace(path)}
}

func (s *FileSaver) target(filename string) string {
	p := s.Path
	if p == "" {
		return filename
	}
	if strings.HasSuffix(p, "/") || strings.HasSuffix(p, string(filepath.Separator)) {
		return filepath.Join(p, filename)
	}
	if info, err := os.Stat(p); err == nil && info.IsDir() {
		return filepath.Join(p, filename)
	}
	return p
}

// Save writes content, creating parent directories as needed.
func (s *FileSaver) Save(_ context.Context, runID, filename string, content []byte) (string, error) {
	if _, _, err := checkKey(runID, filename); err != nil {
		return "", err
	}
	target := s.target(strings.TrimSpace(filename))
	if dir := filepath.Dir(target); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create output directory %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(target, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write output file %q: %w", target, err)
	}
	return target, nil
}

// MemorySaver keeps documents in memory, keyed by run ID and filename.
type MemorySaver struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemorySaver returns an empty MemorySaver.
func NewMemorySaver() *MemorySaver {
	return &MemorySaver{data: make(map[string][]byte)}
}

// Save stores a copy of content.
func (s *MemorySaver) Save(_ context.Context, runID, filename string, content []byte) (string, error) {
	runID, filename, err := checkKey(runID, filename)
	if err != nil {
		return "", err
	}
	key := objectKey(runID, filename)
	s.mu.Lock()
	s.data[key] = append([]byte(nil), content...)
	s.mu.Unlock()
	return "memory://" + key, nil
}

// Get returns the document saved under runID and filename.
func (s *MemorySaver) Get(runID, filename string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.data[objectKey(strings.TrimSpace(runID), strings.TrimSpace(filename))]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), content...), nil
}

// Len returns the number of stored documents.
func (s *MemorySaver) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// MultiSaver saves to every saver in order. All savers are tried; the errors
// of the failing ones are joined.
type MultiSaver []Saver

// Save calls Save on every saver and returns their locations, comma separated.
func (m MultiSaver) Save(ctx context.Context, runID, filename string, content []byte) (string, error) {
	locations, err := m.SaveAll(ctx, runID, filename, content)
	return strings.Join(locations, ", "), err
}

// SaveAll is Save returning the location of every successful save.
func (m MultiSaver) SaveAll(ctx context.Context, runID, filename string, content []byte) ([]string, error) {
	var (
		locations []string
		errs      []error
	)
	for _, s := range m {
		if s == nil {
			continue
		}
		loc, err := s.Save(ctx, runID, filename, content)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		locations = append(locations, loc)
	}
	return locations, errors.Join(errs...)
}

// setup runs an initialization step until it succeeds once. A failed attempt
// is not remembered; the next call tries again.
type setup struct {
	mu   sync.Mutex
	done bool
}

func (s *setup) Do(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return nil
	}
	if err := fn(); err != nil {
		return err
	}
	s.done = true
	return nil
}

func objectKey(runID, filename string) string {
	normalized := strings.TrimLeft(strings.TrimSpace(filename), "/")
	return strings.TrimSpace(runID) + "/" + normalized
}

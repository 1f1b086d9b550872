package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/femtrack/forum/internal/logger"
)

// File is the local-replica KV backend: one JSON document holding every key,
// rewritten whole on each Set. This mirrors the browser local-storage model
// the offline fallback replicates, with the same whole-collection
// last-write-wins semantics.
type File struct {
	path string
	mu   sync.Mutex
}

var _ KV = (*File)(nil)

func NewFile(path string) (*File, error) {
	p := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory for %s: %w", p, err)
	}
	return &File{path: p}, nil
}

// load reads the backing document. Missing or corrupt files read as empty;
// the store reseeds on top rather than failing reads.
func (f *File) load() map[string]json.RawMessage {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Log.Warn("failed to read kv file, treating as empty", "path", f.path, "error", err)
		}
		return map[string]json.RawMessage{}
	}
	var data map[string]json.RawMessage
	if err := json.Unmarshal(raw, &data); err != nil || data == nil {
		logger.Log.Warn("corrupt kv file, treating as empty", "path", f.path)
		return map[string]json.RawMessage{}
	}
	return data
}

func (f *File) Get(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	val, ok := f.load()[key]
	if !ok {
		return nil, false, nil
	}
	return val, true, nil
}

func (f *File) Set(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data := f.load()
	data[key] = json.RawMessage(value)

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal kv file: %w", err)
	}

	// Write-then-rename so a crash mid-write never leaves a torn document.
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".kv-*")
	if err != nil {
		return fmt.Errorf("failed to create temp kv file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write kv file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close kv file: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace kv file: %w", err)
	}
	return nil
}

package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileKV keeps every key in one JSON object on disk. The file is re-read on
// each Get so writes from another process are picked up; writes replace the
// file through a rename.
type FileKV struct {
	path string
}

func NewFileKV(path string) (*FileKV, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("storage: empty file path")
	}
	return &FileKV{path: trimmed}, nil
}

func (f *FileKV) Path() string { return f.path }

func (f *FileKV) Close() error { return nil }

func (f *FileKV) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	values, err := f.readAll()
	if err != nil {
		return "", err
	}
	v, ok := values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (f *FileKV) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	values, err := f.readAll()
	if err != nil {
		return err
	}
	values[key] = value
	return f.writeAll(values)
}

func (f *FileKV) readAll() (map[string]string, error) {
	out := make(map[string]string)
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode store file %s: %w", f.path, err)
	}
	return out, nil
}

func (f *FileKV) writeAll(values map[string]string) error {
	dir := filepath.Dir(f.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	payload, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

type MemoryKV struct {
	values map[string]string
	writes int
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (m *MemoryKV) Close() error { return nil }

func (m *MemoryKV) Get(_ context.Context, key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.values[key] = value
	m.writes++
	return nil
}

// Writes counts Set calls; tests use it to assert that nothing was persisted.
func (m *MemoryKV) Writes() int { return m.writes }

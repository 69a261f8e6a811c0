package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TasksKey is the slot key holding the serialized task list.
const TasksKey = "taskflow-todos"

// Slot is a durable key-value store holding whole serialized values under string keys.
type Slot interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendFile   Backend = "file"
	BackendMemory Backend = "memory"
)

// ParseBackend normalizes a backend name. Empty input returns "" (auto-detect).
func ParseBackend(s string) (Backend, error) {
	switch v := Backend(strings.ToLower(strings.TrimSpace(s))); v {
	case "", BackendSQLite, BackendFile, BackendMemory:
		return v, nil
	default:
		return "", fmt.Errorf("unknown backend %q (expected sqlite|file|memory)", s)
	}
}

// DetectBackend picks a backend for dir when none was configured.
// A dir that only holds a JSON slot file keeps using files; everything else uses SQLite.
func DetectBackend(dir string) Backend {
	if _, err := os.Stat(filepath.Join(dir, sqliteSlotFileName)); err == nil {
		return BackendSQLite
	}
	if _, err := os.Stat(fileSlotPath(dir, TasksKey)); err == nil {
		return BackendFile
	}
	return BackendSQLite
}

// OpenSlot opens the slot backend b rooted at dir, auto-detecting when b is empty.
func OpenSlot(ctx context.Context, dir string, b Backend) (Slot, error) {
	if b == BackendMemory {
		return NewMemorySlot(), nil
	}
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("open slot: data dir is empty")
	}
	if b == "" {
		b = DetectBackend(dir)
	}
	switch b {
	case BackendSQLite:
		return OpenSQLiteSlot(ctx, dir)
	case BackendFile:
		return OpenFileSlot(dir)
	default:
		return nil, fmt.Errorf("open slot: unknown backend %q", b)
	}
}

// MemorySlot keeps values in process memory. Nothing survives a restart.
type MemorySlot struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{m: map[string]string{}}
}

func (s *MemorySlot) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *MemorySlot) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *MemorySlot) Close() error { return nil }

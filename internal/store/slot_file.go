package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSlot stores each key as <dir>/<key>.json.
type FileSlot struct {
	dir string
}

func OpenFileSlot(dir string) (*FileSlot, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileSlot{dir: dir}, nil
}

func fileSlotPath(dir, key string) string {
	return filepath.Join(dir, key+".json")
}

func validSlotKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("slot key is empty")
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("invalid slot key %q", key)
	}
	return nil
}

func (s *FileSlot) Get(_ context.Context, key string) (string, bool, error) {
	if err := validSlotKey(key); err != nil {
		return "", false, err
	}
	b, err := os.ReadFile(fileSlotPath(s.dir, key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(b), true, nil
}

func (s *FileSlot) Set(_ context.Context, key, value string) error {
	if err := validSlotKey(key); err != nil {
		return err
	}
	return atomicWriteFile(s.dir, key+".json.*.tmp", fileSlotPath(s.dir, key), []byte(value), 0o644)
}

func (s *FileSlot) Close() error { return nil }

package persistence

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/akbar-farajov/booking-system/shared/models"
)

// FileStorage writes one JSON file per session under a directory
type FileStorage struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStorage creates the directory if needed
func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileStorage{dir: dir}, nil
}

func (f *FileStorage) path(sessionID string) (string, error) {
	if sessionID == "" || strings.ContainsAny(sessionID, `/\.`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, sessionID)
	}
	return filepath.Join(f.dir, StorageKey+"-"+sessionID+".json"), nil
}

func (f *FileStorage) Load(ctx context.Context, sessionID string) (models.BookingConfiguration, error) {
	path, err := f.path(sessionID)
	if err != nil {
		return models.BookingConfiguration{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.BookingConfiguration{}, err
	}

	f.mu.RLock()
	data, err := os.ReadFile(path)
	f.mu.RUnlock()
	if errors.Is(err, os.ErrNotExist) {
		return models.BookingConfiguration{}, ErrNotFound
	}
	if err != nil {
		return models.BookingConfiguration{}, fmt.Errorf("failed to read booking snapshot: %w", err)
	}
	return Decode(data)
}

func (f *FileStorage) Persist(ctx context.Context, sessionID string, b models.BookingConfiguration) error {
	path, err := f.path(sessionID)
	if err != nil {
		return err
	}
	data, err := Encode(b)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	// write then rename so readers never see a partial file
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write booking snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace booking snapshot: %w", err)
	}
	return nil
}

func (f *FileStorage) Clear(_ context.Context, sessionID string) error {
	path, err := f.path(sessionID)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove booking snapshot: %w", err)
	}
	return nil
}

package persistence

import (
	"context"
	"errors"
	"sync"

	"github.com/akbar-farajov/booking-system/shared/booking"
	"github.com/akbar-farajov/booking-system/shared/models"
)

// StorageKey prefixes every persisted session snapshot
const StorageKey = "booking-storage"

var (
	ErrNotFound   = errors.New("booking snapshot not found")
	ErrInvalidKey = errors.New("invalid session key")
)

// Storage keeps one encoded booking per session
type Storage interface {
	Load(ctx context.Context, sessionID string) (models.BookingConfiguration, error)
	Persist(ctx context.Context, sessionID string, b models.BookingConfiguration) error
	Clear(ctx context.Context, sessionID string) error
}

// ForSession binds a storage to one session so it can back a booking store
func ForSession(s Storage, sessionID string) booking.Persister {
	return booking.PersisterFunc(func(ctx context.Context, b models.BookingConfiguration) error {
		return s.Persist(ctx, sessionID, b)
	})
}

// MemoryStorage keeps encoded snapshots in process memory
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStorage creates an empty in-memory storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

func (m *MemoryStorage) Load(_ context.Context, sessionID string) (models.BookingConfiguration, error) {
	m.mu.RLock()
	data, ok := m.data[sessionID]
	m.mu.RUnlock()
	if !ok {
		return models.BookingConfiguration{}, ErrNotFound
	}
	return Decode(data)
}

func (m *MemoryStorage) Persist(_ context.Context, sessionID string, b models.BookingConfiguration) error {
	data, err := Encode(b)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[sessionID] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) Clear(_ context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.data, sessionID)
	m.mu.Unlock()
	return nil
}

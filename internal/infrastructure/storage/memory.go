// Package storage implementa el almacenamiento durable del cliente (equivalente al
// localStorage del navegador) con un espacio de claves por sesión.
package storage

import (
	"context"
	"sync"

	"github.com/bakano/bakano-web/internal/application/ports"
)

var _ ports.StorageBackend = (*MemoryBackend)(nil)

// MemoryBackend backend en memoria del proceso; se pierde al reiniciar.
type MemoryBackend struct {
	mu     sync.RWMutex
	spaces map[string]map[string]string
}

// NewMemoryBackend crea un backend vacío.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{spaces: make(map[string]map[string]string)}
}

// Namespace devuelve el almacenamiento de una sesión.
func (b *MemoryBackend) Namespace(sessionID string) ports.ClientStorage {
	return &memoryStorage{backend: b, sid: sessionID}
}

// NewMemory almacenamiento suelto, sin sesión; útil en tests.
func NewMemory() ports.ClientStorage {
	return NewMemoryBackend().Namespace("local")
}

type memoryStorage struct {
	backend *MemoryBackend
	sid     string
}

func (s *memoryStorage) GetItem(_ context.Context, key string) (string, bool, error) {
	s.backend.mu.RLock()
	defer s.backend.mu.RUnlock()
	v, ok := s.backend.spaces[s.sid][key]
	return v, ok, nil
}

func (s *memoryStorage) SetItem(_ context.Context, key, value string) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	space, ok := s.backend.spaces[s.sid]
	if !ok {
		space = make(map[string]string)
		s.backend.spaces[s.sid] = space
	}
	space[key] = value
	return nil
}

func (s *memoryStorage) RemoveItem(_ context.Context, key string) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	delete(s.backend.spaces[s.sid], key)
	if len(s.backend.spaces[s.sid]) == 0 {
		delete(s.backend.spaces, s.sid)
	}
	return nil
}

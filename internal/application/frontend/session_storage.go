package frontend

import (
	"context"
	"fmt"
	"sync"

	"github.com/bakano/bakano-web/internal/application/ports"
)

var durableKeys = []string{ports.KeyAccessToken, ports.KeyUser}

// sessionStorage espacio de claves del navegador. Los servicios lo reciben una vez;
// move lo traslada al espacio de otro id de sesión sin reconstruirlos.
type sessionStorage struct {
	mu sync.RWMutex
	ns ports.ClientStorage
}

func (s *sessionStorage) current() ports.ClientStorage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ns
}

func (s *sessionStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	return s.current().GetItem(ctx, key)
}

func (s *sessionStorage) SetItem(ctx context.Context, key, value string) error {
	return s.current().SetItem(ctx, key, value)
}

func (s *sessionStorage) RemoveItem(ctx context.Context, key string) error {
	return s.current().RemoveItem(ctx, key)
}

// move copia las claves durables a dst y las borra del espacio anterior.
func (s *sessionStorage) move(ctx context.Context, dst ports.ClientStorage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range durableKeys {
		v, ok, err := s.ns.GetItem(ctx, key)
		if err != nil {
			return fmt.Errorf("storage: leer %s: %w", key, err)
		}
		if !ok {
			continue
		}
		if err := dst.SetItem(ctx, key, v); err != nil {
			return fmt.Errorf("storage: copiar %s: %w", key, err)
		}
	}
	old := s.ns
	s.ns = dst
	for _, key := range durableKeys {
		if err := old.RemoveItem(ctx, key); err != nil {
			return fmt.Errorf("storage: borrar %s: %w", key, err)
		}
	}
	return nil
}

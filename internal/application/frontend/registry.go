package frontend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bakano/bakano-web/internal/application/ports"
	"github.com/bakano/bakano-web/internal/infrastructure/apiclient"
	"github.com/bakano/bakano-web/pkg/logger"
)

// DefaultIdleTTL inactividad tras la cual se descarta un cliente.
const DefaultIdleTTL = 12 * time.Hour

// Registry clientes vivos por id de sesión. El almacenamiento durable sobrevive al
// cliente: uno nuevo con el mismo id restaura la sesión al inicializarse.
type Registry struct {
	backend ports.StorageBackend
	mock    ports.DocumentGateway
	metrics *apiclient.Metrics
	opts    Options
	idleTTL time.Duration
	log     *logger.Logger
	now     func() time.Time

	mu      sync.Mutex
	clients map[string]*Client
}

func NewRegistry(backend ports.StorageBackend, mock ports.DocumentGateway, metrics *apiclient.Metrics, opts Options, idleTTL time.Duration, log *logger.Logger) *Registry {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &Registry{
		backend: backend,
		mock:    mock,
		metrics: metrics,
		opts:    opts,
		idleTTL: idleTTL,
		log:     log.Named("registry"),
		now:     time.Now,
		clients: map[string]*Client{},
	}
}

// NewSessionID id opaco para la cookie de sesión.
func NewSessionID() string { return uuid.NewString() }

// Get cliente del id; lo crea si no existe.
func (r *Registry) Get(id string) *Client {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[id]
	if !ok {
		c = NewClient(id, r.backend.Namespace(id), r.mock, r.metrics, r.opts, r.log)
		r.clients[id] = c
		r.log.Debug().Str("sid", id).Int("clients", len(r.clients)).Msg("cliente creado")
	}
	c.Touch(now)
	return c
}

// Resume cliente de un id ya emitido. Un id que el registro no conoce solo se acepta
// si su almacenamiento durable guarda un token (sesión anterior a un reinicio).
func (r *Registry) Resume(ctx context.Context, id string) (*Client, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}
	if _, ok := r.Lookup(id); !ok {
		_, found, err := r.backend.Namespace(id).GetItem(ctx, ports.KeyAccessToken)
		if err != nil {
			r.log.Warn().Err(err).Msg("no se pudo consultar la sesión")
			return nil, false
		}
		if !found {
			return nil, false
		}
	}
	return r.Get(id), true
}

// Rotate mueve el cliente y su almacenamiento a un id nuevo y devuelve ese id.
// El id anterior deja de resolver a este cliente.
func (r *Registry) Rotate(ctx context.Context, c *Client) (string, error) {
	newID := NewSessionID()
	if err := c.storage.move(ctx, r.backend.Namespace(newID)); err != nil {
		return "", fmt.Errorf("rotar sesión: %w", err)
	}
	oldID := c.ID()
	r.mu.Lock()
	if cur, ok := r.clients[oldID]; ok && cur == c {
		delete(r.clients, oldID)
	}
	r.clients[newID] = c
	r.mu.Unlock()

	c.mu.Lock()
	c.id = newID
	c.mu.Unlock()
	r.log.Debug().Msg("id de sesión rotado")
	return newID, nil
}

// Lookup cliente existente sin crearlo.
func (r *Registry) Lookup(id string) (*Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[id]
	return c, ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// Sweep descarta los clientes sin uso desde antes de now-idleTTL; devuelve cuántos.
func (r *Registry) Sweep(now time.Time) int {
	cutoff := now.Add(-r.idleTTL)
	var stale []*Client
	r.mu.Lock()
	for id, c := range r.clients {
		if c.LastSeen().Before(cutoff) {
			stale = append(stale, c)
			delete(r.clients, id)
		}
	}
	r.mu.Unlock()

	for _, c := range stale {
		c.Close()
	}
	if len(stale) > 0 {
		r.log.Info().Int("removed", len(stale)).Msg("clientes inactivos descartados")
	}
	return len(stale)
}

// Run barre periódicamente hasta que ctx termine.
func (r *Registry) Run(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			r.Sweep(now)
		}
	}
}

// Close cierra todos los clientes.
func (r *Registry) Close() {
	r.mu.Lock()
	clients := r.clients
	r.clients = map[string]*Client{}
	r.mu.Unlock()
	for _, c := range clients {
		c.Close()
	}
}

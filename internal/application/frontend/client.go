// Package frontend arma el conjunto de stores, servicios y estado de interfaz de cada
// navegador y los mantiene vivos mientras la sesión se use.
package frontend

import (
	"context"
	"sync"
	"time"

	"github.com/bakano/bakano-web/internal/application/ports"
	"github.com/bakano/bakano-web/internal/application/store"
	"github.com/bakano/bakano-web/internal/application/ui"
	"github.com/bakano/bakano-web/internal/infrastructure/apiclient"
	"github.com/bakano/bakano-web/internal/infrastructure/bakano"
	"github.com/bakano/bakano-web/pkg/logger"
)

// Options configuración común a todos los navegadores.
type Options struct {
	APIBaseURL        string
	APITimeout        time.Duration
	Debug             bool
	UseMockData       bool
	AllowMockFallback bool
	ToastDuration     time.Duration
}

// Navigator guarda la última ruta empujada hasta que el handler la consume.
type Navigator struct {
	mu   sync.Mutex
	last string
}

func (n *Navigator) Push(_ context.Context, route string) {
	n.mu.Lock()
	n.last = route
	n.mu.Unlock()
}

// Take devuelve la última ruta y la olvida.
func (n *Navigator) Take() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	r := n.last
	n.last = ""
	return r
}

// Client estado completo de un navegador.
type Client struct {
	Storage   ports.ClientStorage
	Toast     *ui.Toast
	Dialog    *ui.ConfirmationDialog
	Navigator *Navigator

	Auth      *store.AuthStore
	Workspace *store.WorkspaceStore
	Documents *store.DocumentStore
	Analysis  *store.AnalysisStore
	Agent     *store.AgentStore

	storage *sessionStorage

	mu       sync.Mutex
	id       string
	lastSeen time.Time
}

// NewClient conecta los servicios de la API con los stores del navegador id.
// mock es la fuente simulada de documentos compartida; puede ser nil.
func NewClient(id string, ns ports.ClientStorage, mock ports.DocumentGateway, metrics *apiclient.Metrics, opts Options, log *logger.Logger) *Client {
	log = log.Named("client")
	st := &sessionStorage{ns: ns}
	api := apiclient.New(apiclient.Config{
		BaseURL: opts.APIBaseURL,
		Timeout: opts.APITimeout,
		Debug:   opts.Debug,
	}, log, metrics).WithTokenSource(st)

	toast := ui.NewToast(opts.ToastDuration)
	nav := &Navigator{}

	c := &Client{
		Storage:   st,
		storage:   st,
		id:        id,
		Toast:     toast,
		Dialog:    ui.NewConfirmationDialog(),
		Navigator: nav,
		lastSeen:  time.Now(),
	}

	c.Auth = store.NewAuthStore(bakano.NewAuthService(api, st, log), toast, nav, log)
	c.Workspace = store.NewWorkspaceStore(bakano.NewWorkspaceService(api, log), toast, log)
	c.Documents = store.NewDocumentStore(bakano.NewDocumentService(api, mock, bakano.DocumentOptions{
		UseMockData:       opts.UseMockData,
		AllowMockFallback: opts.AllowMockFallback,
	}, log), toast, log)
	c.Analysis = store.NewAnalysisStore(bakano.NewAnalysisService(api, log), c.Workspace.ApplyAnalysisWorkspace, log)
	c.Agent = store.NewAgentStore(bakano.NewAgentService(api, log), store.AgentOptions{
		AllowMockFallback: opts.AllowMockFallback,
		NewConversationID: bakano.NewConversationID,
		ValidateMessage:   bakano.ValidateMessage,
	}, log)

	// al cerrar sesión no queda nada del usuario anterior
	c.Auth.OnLogout(func() {
		c.Workspace.Reset()
		c.Documents.Reset()
		c.Analysis.Reset()
		c.Agent.Reset()
	})
	return c
}

// ID id de sesión actual; cambia al rotar.
func (c *Client) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

// Touch marca el cliente como usado en now.
func (c *Client) Touch(now time.Time) {
	c.mu.Lock()
	c.lastSeen = now
	c.mu.Unlock()
}

func (c *Client) LastSeen() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeen
}

// Close detiene los temporizadores y libera un diálogo pendiente.
func (c *Client) Close() {
	c.Toast.Stop()
	c.Dialog.Cancel()
}

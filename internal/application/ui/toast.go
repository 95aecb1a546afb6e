// Package ui estado efímero de la interfaz de un navegador: el toast y el diálogo de
// confirmación. No se persiste.
package ui

import (
	"sync"
	"time"

	"github.com/bakano/bakano-web/internal/application/ports"
)

// DefaultToastDuration tiempo visible de un toast.
const DefaultToastDuration = 3 * time.Second

var _ ports.Notifier = (*Toast)(nil)

// ToastState lo que la vista debe mostrar.
type ToastState struct {
	Visible bool   `json:"isVisible"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Toast notificación de un solo lugar. Un nuevo Trigger detiene el temporizador pendiente
// y programa otro; nunca hay más de uno vivo.
type Toast struct {
	mu       sync.Mutex
	state    ToastState
	timer    *time.Timer
	gen      uint64
	duration time.Duration
}

// NewToast d <= 0 usa DefaultToastDuration.
func NewToast(d time.Duration) *Toast {
	if d <= 0 {
		d = DefaultToastDuration
	}
	return &Toast{duration: d, state: ToastState{Type: ports.NotifyInfo}}
}

// Trigger muestra message con la duración por defecto. kind vacío equivale a success.
func (t *Toast) Trigger(message, kind string) {
	t.TriggerFor(message, kind, t.duration)
}

// TriggerFor muestra message durante d.
func (t *Toast) TriggerFor(message, kind string, d time.Duration) {
	if kind == "" {
		kind = ports.NotifySuccess
	}
	if d <= 0 {
		d = t.duration
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.state = ToastState{Visible: true, Message: message, Type: kind}
	t.timer = time.AfterFunc(d, func() { t.hide(gen) })
}

// hide solo oculta si no hubo otro Trigger después (el callback puede correr tarde).
func (t *Toast) hide(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen {
		return
	}
	t.state.Visible = false
	t.timer = nil
}

func (t *Toast) State() ToastState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Stop cancela el temporizador pendiente y oculta el toast.
func (t *Toast) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
	t.state.Visible = false
}

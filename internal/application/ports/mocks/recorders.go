package mocks

import (
	"context"
	"sync"
)

// Notification toast registrado por RecordingNotifier.
type Notification struct {
	Message string
	Kind    string
}

// RecordingNotifier guarda cada toast en orden.
type RecordingNotifier struct {
	mu  sync.Mutex
	All []Notification
}

func (n *RecordingNotifier) Trigger(message, kind string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.All = append(n.All, Notification{Message: message, Kind: kind})
}

// Last último toast; cero si no hubo ninguno.
func (n *RecordingNotifier) Last() Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.All) == 0 {
		return Notification{}
	}
	return n.All[len(n.All)-1]
}

// Count cantidad de toasts registrados.
func (n *RecordingNotifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.All)
}

// RecordingNavigator guarda las rutas empujadas.
type RecordingNavigator struct {
	mu     sync.Mutex
	Routes []string
}

func (n *RecordingNavigator) Push(_ context.Context, route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Routes = append(n.Routes, route)
}

// Last última ruta; "" si no hubo navegación.
func (n *RecordingNavigator) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.Routes) == 0 {
		return ""
	}
	return n.Routes[len(n.Routes)-1]
}

package ports

import "context"

// Tipos de notificación.
const (
	NotifySuccess = "success"
	NotifyError   = "error"
	NotifyInfo    = "info"
	NotifyWarning = "warning"
)

// Notifier muestra un mensaje transitorio (toast).
type Notifier interface {
	Trigger(message, kind string)
}

// Navigator cambia la ruta activa del navegador.
type Navigator interface {
	Push(ctx context.Context, route string)
}

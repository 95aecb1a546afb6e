package ports

import "context"

// Claves del almacenamiento durable del cliente.
const (
	KeyAccessToken = "access_token"
	KeyUser        = "user"
)

// ClientStorage almacenamiento clave/valor durable de un navegador.
// GetItem devuelve ok=false si la clave no existe.
type ClientStorage interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// StorageBackend entrega el espacio de claves de cada sesión de navegador.
type StorageBackend interface {
	Namespace(sessionID string) ClientStorage
}

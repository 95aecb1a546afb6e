package domain

import (
	"errors"
	"net/http"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrDocumentNotFound  = errors.New("Documento no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrInvalidResponse   = errors.New("respuesta inválida del servidor")
	ErrTokenExpired      = errors.New("Token expirado")
	ErrNoWorkspace       = errors.New("no hay workspace cargado")
	ErrDialogCancelled   = errors.New("acción cancelada por el usuario")
	ErrConversationEmpty = errors.New("conversación no encontrada")
)

// UnknownErrorMessage mensaje de un fallo de transporte (sin respuesta del servidor).
const UnknownErrorMessage = "Unknown error"

// APIError error normalizado de una llamada a la API remota.
// Transport=true cuando no hubo respuesta (red caída, DNS, timeout); en ese caso
// Status es 500 y Message "Unknown error".
type APIError struct {
	Status    int
	Message   string
	Transport bool
	Err       error // causa original, si existe
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewTransportError construye el error de transporte a partir de la causa.
func NewTransportError(cause error) *APIError {
	return &APIError{
		Status:    http.StatusInternalServerError,
		Message:   UnknownErrorMessage,
		Transport: true,
		Err:       cause,
	}
}

// WithMessage devuelve una copia con un mensaje amigable; la causa queda envuelta.
func (e *APIError) WithMessage(msg string) *APIError {
	return &APIError{Status: e.Status, Message: msg, Transport: e.Transport, Err: e}
}

// IsNetworkError indica si err es un fallo de transporte (sin respuesta del servidor).
func IsNetworkError(err error) bool {
	var apiErr *APIError
	for errors.As(err, &apiErr) {
		if apiErr.Transport {
			return true
		}
		if apiErr.Err == nil {
			return false
		}
		err = apiErr.Err
		apiErr = nil
	}
	return false
}

// StatusOf devuelve el status HTTP asociado al error (0 si no proviene de la API).
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// ValidationError error de validación local; nunca provoca llamada de red ni fallback.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation indica si err es un error de validación local.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

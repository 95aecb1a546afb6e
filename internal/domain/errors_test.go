package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNetworkError(t *testing.T) {
	transport := NewTransportError(errors.New("dial tcp: connection refused"))
	assert.True(t, IsNetworkError(transport))
	assert.Equal(t, http.StatusInternalServerError, transport.Status)
	assert.Equal(t, "Unknown error", transport.Message)

	friendly := transport.WithMessage("Error al cargar documentos")
	assert.True(t, IsNetworkError(friendly), "el mensaje amigable conserva el tipo de fallo")
	assert.True(t, IsNetworkError(fmt.Errorf("listar: %w", friendly)))

	app := &APIError{Status: http.StatusInternalServerError, Message: "Unknown error"}
	assert.False(t, IsNetworkError(app), "un 500 con respuesta no es un error de red")
	assert.False(t, IsNetworkError(errors.New("otro")))
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, 404, StatusOf(fmt.Errorf("x: %w", &APIError{Status: 404, Message: "no"})))
	assert.Equal(t, 0, StatusOf(ErrNotFound))
}

func TestValidationError(t *testing.T) {
	err := fmt.Errorf("enviar: %w", &ValidationError{Field: "message", Message: "El mensaje debe tener entre 1 y 4000 caracteres"})
	assert.True(t, IsValidation(err))
	assert.False(t, IsValidation(NewTransportError(nil)))
}

// Package bakano contiene los adaptadores hacia la API remota de Bakano:
// autenticación, workspace, documentos, análisis y agente.
package bakano

import (
	"errors"
	"net/http"

	"github.com/bakano/bakano-web/internal/domain"
	"github.com/bakano/bakano-web/pkg/logger"
)

// upstream conserva el {status, message} de la API; usa def si el mensaje viene vacío.
// Es la política de auth y workspace.
func upstream(err error, def string) error {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr
		}
		return &domain.APIError{Status: apiErr.Status, Message: def, Transport: apiErr.Transport, Err: apiErr}
	}
	return &domain.APIError{Status: http.StatusInternalServerError, Message: def, Err: err}
}

// friendly reemplaza el mensaje por uno fijo y legible; la causa queda envuelta y se registra.
// Es la política de documentos, análisis y agente.
func friendly(log *logger.Logger, err error, msg string) error {
	if domain.IsValidation(err) {
		return err
	}
	log.Error().Err(err).Int("status", domain.StatusOf(err)).Msg(msg)
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return apiErr.WithMessage(msg)
	}
	return &domain.APIError{Status: http.StatusInternalServerError, Message: msg, Err: err}
}

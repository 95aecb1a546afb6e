// Package store contiene el estado de la aplicación de un navegador: sesión, workspace,
// documentos, análisis y agente. Cada store protege sus campos con un mutex que nunca se
// mantiene durante una llamada remota; las mutaciones se aplican al volver la llamada.
package store

import (
	"net/http"
	"time"

	"github.com/bakano/bakano-web/internal/domain"
)

// rejected respuesta 2xx con success=false.
func rejected(msg, def string) error {
	if msg == "" {
		msg = def
	}
	return &domain.APIError{Status: http.StatusBadRequest, Message: msg}
}

// messageOf texto del error para mostrar; def si viene vacío.
func messageOf(err error, def string) string {
	if err == nil || err.Error() == "" {
		return def
	}
	return err.Error()
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

type clock func() time.Time

package bakano

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bakano/bakano-web/internal/application/ports"
	"github.com/bakano/bakano-web/internal/infrastructure/apiclient"
	"github.com/bakano/bakano-web/internal/infrastructure/bakano/bakanotest"
	"github.com/bakano/bakano-web/internal/infrastructure/storage"
	"github.com/bakano/bakano-web/pkg/logger"
)

type env struct {
	srv     *bakanotest.Server
	storage ports.ClientStorage
	api     *apiclient.Client
}

func newEnv(t *testing.T) env {
	t.Helper()
	srv := bakanotest.New(t)
	st := storage.NewMemory()
	api := apiclient.New(apiclient.Config{BaseURL: srv.BaseURL(), Timeout: 5 * time.Second}, logger.Nop(), nil).
		WithTokenSource(st)
	return env{srv: srv, storage: st, api: api}
}

// authorized guarda un token válido en el almacenamiento del entorno.
func (e env) authorized(t *testing.T) env {
	t.Helper()
	if err := e.storage.SetItem(t.Context(), ports.KeyAccessToken, e.srv.Token(time.Hour)); err != nil {
		t.Fatal(err)
	}
	return e
}

// offlineClient cliente contra un servidor ya cerrado: toda llamada es error de transporte.
func offlineClient(t *testing.T) *apiclient.Client {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()
	return apiclient.New(apiclient.Config{BaseURL: base, Timeout: time.Second}, logger.Nop(), nil)
}

// bufferLogger logger JSON sobre un buffer para inspeccionar advertencias.
func bufferLogger() (*logger.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logger.New(logger.Config{Env: "test", Level: "debug", Output: &buf}), &buf
}

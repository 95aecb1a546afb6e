package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakano/bakano-web/internal/application/dto"
	"github.com/bakano/bakano-web/internal/application/frontend"
	"github.com/bakano/bakano-web/internal/domain/entity"
	"github.com/bakano/bakano-web/internal/infrastructure/bakano/bakanotest"
	"github.com/bakano/bakano-web/internal/infrastructure/storage"
	apphttp "github.com/bakano/bakano-web/internal/interfaces/http"
	"github.com/bakano/bakano-web/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testCookie = "bakano_sid"

type testEnv struct {
	api      *bakanotest.Server
	app      *fiber.App
	registry *frontend.Registry
	gatherer *prometheus.Registry
}

// buildTestApp arma el BFF completo contra la API falsa.
func buildTestApp(t *testing.T) *testEnv {
	t.Helper()
	return buildTestAppWithConfirm(t, 5*time.Second)
}

func buildTestAppWithConfirm(t *testing.T, confirmTimeout time.Duration) *testEnv {
	t.Helper()
	api := bakanotest.New(t)
	reg := frontend.NewRegistry(storage.NewMemoryBackend(), nil, nil, frontend.Options{
		APIBaseURL:    api.BaseURL(),
		APITimeout:    5 * time.Second,
		ToastDuration: time.Minute,
	}, time.Hour, logger.Nop())
	t.Cleanup(reg.Close)

	promReg := prometheus.NewRegistry()
	metrics, err := apphttp.NewHTTPMetrics(promReg)
	require.NoError(t, err)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Registry:       reg,
		Session:        apphttp.SessionConfig{CookieName: testCookie},
		Metrics:        metrics,
		Gatherer:       promReg,
		Log:            logger.Nop(),
		ConfirmTimeout: confirmTimeout,
	})
	return &testEnv{api: api, app: app, registry: reg, gatherer: promReg}
}

// browser guarda la cookie de sesión entre peticiones, como un navegador.
type browser struct {
	t   *testing.T
	env *testEnv
	sid string
}

func (e *testEnv) browser(t *testing.T) *browser {
	return &browser{t: t, env: e}
}

func (b *browser) send(req *http.Request) *http.Response {
	b.t.Helper()
	if b.sid != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: b.sid})
	}
	resp, err := b.env.app.Test(req, -1)
	require.NoError(b.t, err)
	for _, ck := range resp.Cookies() {
		if ck.Name == testCookie {
			b.sid = ck.Value
		}
	}
	return resp
}

func (b *browser) do(method, path string, body any) *http.Response {
	b.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(b.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return b.send(req)
}

func (b *browser) upload(path, field, name string, content []byte, fields map[string]string) *http.Response {
	b.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, name)
	require.NoError(b.t, err)
	_, err = part.Write(content)
	require.NoError(b.t, err)
	for k, v := range fields {
		require.NoError(b.t, w.WriteField(k, v))
	}
	require.NoError(b.t, w.Close())
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return b.send(req)
}

func (b *browser) login() {
	b.t.Helper()
	resp := b.do(http.MethodPost, "/app/auth/login", dto.LoginRequest{
		Email: bakanotest.SeedEmail, Password: bakanotest.SeedPassword,
	})
	require.Equal(b.t, http.StatusOK, resp.StatusCode)
}

func (b *browser) client() *frontend.Client {
	b.t.Helper()
	c, ok := b.env.registry.Lookup(b.sid)
	require.True(b.t, ok, "el navegador debe tener cliente")
	return c
}

type actionBody struct {
	Data     json.RawMessage `json:"data"`
	Redirect string          `json:"redirect"`
	Toast    *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"toast"`
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Guarda de navegación
// ──────────────────────────────────────────────────────────────────────────────

func TestPages_DashboardSinSesionRedirigeALogin(t *testing.T) {
	env := buildTestApp(t)
	b := env.browser(t)

	resp := b.do(http.MethodGet, "/dashboard", nil)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.NotEmpty(t, b.sid, "la primera visita emite la cookie de sesión")
}

func TestPages_RutaPublicaSinSesion(t *testing.T) {
	env := buildTestApp(t)
	b := env.browser(t)

	resp := b.do(http.MethodGet, "/login", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	view := decode[apphttp.PageView](t, resp)
	assert.Equal(t, "login", view.Route)
	assert.False(t, view.Session.IsAuthenticated)
	assert.Nil(t, view.Workspace)
}

func TestPages_FlujoDeConfiguracion(t *testing.T) {
	env := buildTestApp(t)
	b := env.browser(t)
	b.login()

	// sesión iniciada: las rutas públicas llevan a la configuración pendiente
	resp := b.do(http.MethodGet, "/login", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/workspace-setup", resp.Header.Get("Location"))

	// workspace sin configurar ni país
	resp = b.do(http.MethodGet, "/dashboard", nil)
	assert.Equal(t, "/workspace-setup", resp.Header.Get("Location"))
	resp = b.do(http.MethodGet, "/documents", nil)
	assert.Equal(t, "/workspace-setup", resp.Header.Get("Location"))

	resp = b.do(http.MethodGet, "/workspace-setup", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// con país elegido, documents se permite aunque falte configurar
	resp = b.do(http.MethodPut, "/app/workspace/country", dto.UpdateCountryRequest{Country: "EC"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[actionBody](t, resp)
	require.NotNil(t, body.Toast)
	assert.Equal(t, "País actualizado correctamente", body.Toast.Message)

	resp = b.do(http.MethodGet, "/documents", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = b.do(http.MethodGet, "/dashboard", nil)
	assert.Equal(t, "/workspace-setup", resp.Header.Get("Location"))

	resp = b.do(http.MethodPut, "/app/workspace/complete-setup", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = b.do(http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view := decode[apphttp.PageView](t, resp)
	assert.Equal(t, "dashboard", view.Route)
	require.NotNil(t, view.Workspace)
	assert.True(t, view.Workspace.IsConfigured)
	assert.Equal(t, 1, env.api.Calls("GET workspace/my-workspace"), "el workspace se inicializa una sola vez")

	// configurado: las rutas públicas llevan a documentos
	resp = b.do(http.MethodGet, "/", nil)
	assert.Equal(t, "/documents", resp.Header.Get("Location"))
}

func TestPages_VerifyDisparaLaVerificacion(t *testing.T) {
	env := buildTestApp(t)
	b := env.browser(t)

	resp := b.do(http.MethodGet, "/verify/tok-123", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	type verifyPage struct {
		Route string `json:"route"`
		Data  struct {
			Verified bool `json:"verified"`
		} `json:"data"`
	}
	view := decode[verifyPage](t, resp)
	assert.Equal(t, "verify", view.Route)
	assert.True(t, view.Data.Verified)
	assert.Equal(t, 1, env.api.Calls("POST auth/verify-email"))
}

func TestPages_RutaDesconocida(t *testing.T) {
	env := buildTestApp(t)
	resp := env.browser(t).do(http.MethodGet, "/nada", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Acciones
// ──────────────────────────────────────────────────────────────────────────────

func TestActions_LoginDevuelveRedirectYToast(t *testing.T) {
	env := buildTestApp(t)
	b := env.browser(t)

	resp := b.do(http.MethodPost, "/app/auth/login", dto.LoginRequest{
		Email: bakanotest.SeedEmail, Password: bakanotest.SeedPassword,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[actionBody](t, resp)
	assert.Equal(t, "/dashboard", body.Redirect)
	require.NotNil(t, body.Toast)
	assert.Equal(t, "¡Bienvenido "+bakanotest.SeedName+"!", body.Toast.Message)
}

func TestSesion_LoginEmiteUnaCookieNueva(t *testing.T) {
	env := buildTestApp(t)
	victim := env.browser(t)
	require.Equal(t, http.StatusOK, victim.do(http.MethodGet, "/login", nil).StatusCode)
	before := victim.sid
	require.NotEmpty(t, before)

	victim.login()

	assert.NotEqual(t, before, victim.sid)
	_, ok := env.registry.Lookup(before)
	assert.False(t, ok, "el id anterior ya no resuelve al cliente")

	// otro navegador con la cookie anterior no hereda la sesión
	other := env.browser(t)
	other.sid = before
	resp := other.do(http.MethodGet, "/dashboard", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.NotEqual(t, before, other.sid)

	resp = victim.do(http.MethodGet, "/dashboard", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/workspace-setup", resp.Header.Get("Location"))
}

func TestSesion_CookieNoEmitidaSeReemplaza(t *testing.T) {
	env := buildTestApp(t)
	b := env.browser(t)
	invented := frontend.NewSessionID()
	b.sid = invented

	require.Equal(t, http.StatusOK, b.do(http.MethodGet, "/login", nil).StatusCode)

	assert.NotEqual(t, invented, b.sid)
	_, ok := env.registry.Lookup(invented)
	assert.False(t, ok)
}

func TestActions_LoginValidaCampos(t *testing.T) {
	env := buildTestApp(t)
	resp := env.browser(t).do(http.MethodPost, "/app/auth/login", dto.LoginRequest{Email: "ana@constructora.ec"})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)
	assert.Zero(t, env.api.Calls("POST auth/login"))
}

func TestActions_LoginCredencialesInvalidasConservaStatus(t *testing.T) {
	env := buildTestApp(t)
	resp := env.browser(t).do(http.MethodPost, "/app/auth/login", dto.LoginRequest{
		Email: bakanotest.SeedEmail, Password: "otra",
	})

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	e := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "UPSTREAM_ERROR", e.Code)
	assert.Equal(t, "Credenciales inválidas", e.Message)
}

func TestActions_ProtegidasSinSesion(t *testing.T) {
	env := buildTestApp(t)
	b := env.browser(t)

	for _, path := range []string{"/app/workspace", "/app/documents", "/app/agent/conversations"} {
		resp := b.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		assert.Equal(t, "UNAUTHENTICATED", decode[dto.ErrorResponse](t, resp).Code, path)
	}
}

func TestActions_ErrorDeLaAPIConservaStatus(t *testing.T) {
	env := buildTestApp(t)
	b := env.browser(t)
	b.login()
	env.api.Fail("GET workspace/my-workspace", http.StatusServiceUnavailable, "En mantenimiento")

	resp := b.do(http.MethodGet, "/app/workspace", nil)

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "En mantenimiento", decode[dto.ErrorResponse](t, resp).Message)
}

func TestActions_LogoutLimpiaElWorkspace(t *testing.T) {
	env := buildTestApp(t)
	b := env.browser(t)
	b.login()
	require.Equal(t, http.StatusOK, b.do(http.MethodGet, "/app/workspace", nil).StatusCode)

	resp := b.do(http.MethodPost, "/app/auth/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[actionBody](t, resp)
	assert.Equal(t, "/login", body.Redirect)

	assert.False(t, b.client().Workspace.HasWorkspace())
	assert.Equal(t, http.StatusUnauthorized, b.do(http.MethodGet, "/app/workspace", nil).StatusCode)
}

func TestActions_SubirYDescargarDocumento(t *testing.T) {
	env := buildTestApp(t)
	b := env.browser(t)
	b.login()

	resp := b.upload("/app/documents", "file", "contrato.pdf", []byte("%PDF-1.4"), map[string]string{
		"type": "contract", "title": "Contrato marco",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var doc entity.Document
	require.NoError(t, json.Unmarshal(decode[actionBody](t, resp).Data, &doc))
	assert.Equal(t, "Contrato marco", doc.Name)

	resp = b.do(http.MethodGet, "/app/documents/"+doc.Key()+"/download", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "contrato.pdf")
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "contenido:Contrato marco", string(raw))
}

// ──────────────────────────────────────────────────────────────────────────────
// Eliminación masiva con diálogo de confirmación
// ──────────────────────────────────────────────────────────────────────────────

func seedDocuments(env *testEnv, ids ...string) {
	env.api.Lock()
	defer env.api.Unlock()
	for _, id := range ids {
		env.api.Documents = append(env.api.Documents, entity.Document{ID: id, Name: "Documento " + id, Type: entity.DocumentContract})
	}
}

func bulkDelete(b *browser, answer string) *http.Response {
	b.t.Helper()
	require.Equal(b.t, http.StatusOK, b.do(http.MethodGet, "/app/documents", nil).StatusCode)
	require.Equal(b.t, http.StatusOK, b.do(http.MethodPost, "/app/documents/selection", map[string]string{"action": "all"}).StatusCode)

	done := make(chan *http.Response, 1)
	go func() {
		req := httptest.NewRequest(http.MethodDelete, "/app/documents/selection", nil)
		req.AddCookie(&http.Cookie{Name: testCookie, Value: b.sid})
		resp, err := b.env.app.Test(req, -1)
		if err != nil {
			resp = &http.Response{StatusCode: http.StatusInternalServerError, Body: io.NopCloser(strings.NewReader("{}"))}
		}
		done <- resp
	}()

	dialog := b.client().Dialog
	require.Eventually(b.t, func() bool { return dialog.State().Visible }, 2*time.Second, 5*time.Millisecond)
	require.Equal(b.t, http.StatusOK, b.do(http.MethodPost, "/app/ui/dialog/"+answer, nil).StatusCode)

	select {
	case resp := <-done:
		return resp
	case <-time.After(3 * time.Second):
		b.t.Fatal("la eliminación masiva no respondió")
		return nil
	}
}

func TestBulkDelete_ConfirmadoEliminaTodo(t *testing.T) {
	env := buildTestApp(t)
	seedDocuments(env, "a", "b", "c")
	b := env.browser(t)
	b.login()

	resp := bulkDelete(b, "confirm")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[actionBody](t, resp)
	require.NotNil(t, body.Toast)
	assert.Equal(t, "Se eliminaron 3 documentos correctamente", body.Toast.Message)
	assert.Empty(t, b.client().Documents.Documents())
	assert.Empty(t, b.client().Documents.Selected())
	assert.Equal(t, 3, env.api.Calls("DELETE document/{id}"))
}

func TestBulkDelete_CanceladoNoLlamaALaAPI(t *testing.T) {
	env := buildTestApp(t)
	seedDocuments(env, "a", "b")
	b := env.browser(t)
	b.login()

	resp := bulkDelete(b, "cancel")

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CANCELLED", decode[dto.ErrorResponse](t, resp).Code)
	assert.Len(t, b.client().Documents.Documents(), 2)
	assert.Zero(t, env.api.Calls("DELETE document/{id}"))
}

func TestBulkDelete_SinRespuestaVenceYLiberaElDialogo(t *testing.T) {
	env := buildTestAppWithConfirm(t, 50*time.Millisecond)
	seedDocuments(env, "a", "b")
	b := env.browser(t)
	b.login()
	require.Equal(t, http.StatusOK, b.do(http.MethodGet, "/app/documents", nil).StatusCode)
	require.Equal(t, http.StatusOK, b.do(http.MethodPost, "/app/documents/selection", map[string]string{"action": "all"}).StatusCode)

	resp := b.do(http.MethodDelete, "/app/documents/selection", nil)

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CANCELLED", decode[dto.ErrorResponse](t, resp).Code)
	assert.False(t, b.client().Dialog.State().Visible)
	assert.Zero(t, env.api.Calls("DELETE document/{id}"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Agente
// ──────────────────────────────────────────────────────────────────────────────

func TestAgent_MensajeInvalidoNoLlamaAlServicio(t *testing.T) {
	env := buildTestApp(t)
	b := env.browser(t)
	b.login()

	resp := b.do(http.MethodPost, "/app/agent/chat", map[string]string{"message": "   "})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, env.api.Calls("POST agent/chat"))
}

func TestAgent_ConversacionYChat(t *testing.T) {
	env := buildTestApp(t)
	b := env.browser(t)
	b.login()

	resp := b.do(http.MethodPost, "/app/agent/conversations", map[string]string{"title": "Dudas"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var conv entity.Conversation
	require.NoError(t, json.Unmarshal(decode[actionBody](t, resp).Data, &conv))

	resp = b.do(http.MethodPost, "/app/agent/chat", map[string]string{
		"message": "¿Qué plazos aplica el pliego?", "conversationId": conv.ID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Reply        entity.ChatMessage  `json:"reply"`
		Conversation entity.Conversation `json:"conversation"`
	}
	require.NoError(t, json.Unmarshal(decode[actionBody](t, resp).Data, &out))
	assert.Equal(t, entity.RoleAssistant, out.Reply.Role)
	assert.Len(t, out.Conversation.Messages, 2)

	resp = b.do(http.MethodGet, "/app/agent/conversations/desconocida", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Operación
// ──────────────────────────────────────────────────────────────────────────────

func TestOps_RequestIDYMetricas(t *testing.T) {
	env := buildTestApp(t)
	b := env.browser(t)

	resp := b.do(http.MethodGet, "/login", nil)
	assert.NotEmpty(t, resp.Header.Get(apphttp.HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.Header.Set(apphttp.HeaderRequestID, "req-fijo")
	resp = b.send(req)
	assert.Equal(t, "req-fijo", resp.Header.Get(apphttp.HeaderRequestID))

	resp = b.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `http_requests_total{method="GET",path="/login",status="200"} 2`)
}

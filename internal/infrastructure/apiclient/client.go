package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/bakano/bakano-web/internal/application/dto"
	"github.com/bakano/bakano-web/internal/application/ports"
	"github.com/bakano/bakano-web/internal/domain"
	"github.com/bakano/bakano-web/pkg/logger"
)

// maxBody límite de lectura de respuestas (las descargas pueden ser PDFs grandes).
const maxBody = 64 << 20

// Config parámetros del cliente; vienen del snapshot de configuración.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Debug   bool
}

// Client cliente HTTP de la API de Bakano. No guarda estado propio salvo la
// configuración; el token se lee en cada llamada del almacenamiento del navegador.
type Client struct {
	baseURL    string
	httpClient *http.Client
	storage    ports.ClientStorage
	metrics    *Metrics
	log        *logger.Logger
	debug      bool
}

// New construye el cliente. metrics puede ser nil.
func New(cfg Config, log *logger.Logger, metrics *Metrics) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		metrics: metrics,
		log:     log.Named("apiclient"),
		debug:   cfg.Debug,
	}
}

// WithTokenSource devuelve una copia ligada al almacenamiento de un navegador;
// el header Authorization sale de su clave access_token.
func (c *Client) WithTokenSource(st ports.ClientStorage) *Client {
	cp := *c
	cp.storage = st
	return &cp
}

// FormFile archivo de un formulario multipart.
type FormFile struct {
	Field string
	File  dto.File
}

// Get GET con query opcional; decodifica el JSON en out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

// Post POST con cuerpo JSON.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

// Put PUT con cuerpo JSON.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, body, out)
}

// Patch PATCH con cuerpo JSON.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPatch, path, body, out)
}

// Delete DELETE sin cuerpo.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, out)
}

// GetBytes GET de contenido binario (descargas).
func (c *Client) GetBytes(ctx context.Context, path string) (*dto.Blob, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	raw, header, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return &dto.Blob{ContentType: header.Get("Content-Type"), Content: raw}, nil
}

// PostMultipart POST multipart/form-data con campos de texto y N archivos.
// El boundary lo fija mime/multipart; no se fuerza Content-Type JSON.
func (c *Client) PostMultipart(ctx context.Context, path string, fields map[string]string, files []FormFile, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, fields[k]); err != nil {
			return fmt.Errorf("apiclient: campo %s: %w", k, err)
		}
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, f.Field, escapeQuotes(f.File.Name)))
		ct := f.File.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return fmt.Errorf("apiclient: archivo %s: %w", f.File.Name, err)
		}
		if _, err := part.Write(f.File.Content); err != nil {
			return fmt.Errorf("apiclient: archivo %s: %w", f.File.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("apiclient: cerrar multipart: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	raw, _, err := c.do(req)
	if err != nil {
		return err
	}
	return decode(raw, out)
}

// UploadFile sube un único archivo en el campo "file" más campos opcionales.
func (c *Client) UploadFile(ctx context.Context, path string, file dto.File, fields map[string]string, out any) error {
	return c.PostMultipart(ctx, path, fields, []FormFile{{Field: "file", File: file}}, out)
}

// ── internos ──────────────────────────────────────────────────────────────────

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("apiclient: serializar request: %w", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := c.newRequest(ctx, method, path, r)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	raw, _, err := c.do(req)
	if err != nil {
		return err
	}
	return decode(raw, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("apiclient: crear request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	token := c.token(ctx)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if c.debug {
		c.log.Debug().
			Str("method", method).
			Str("url", endpoint).
			Bool("auth", token != "").
			Msg("API request")
	}
	return req, nil
}

func (c *Client) token(ctx context.Context) string {
	if c.storage == nil {
		return ""
	}
	tok, ok, err := c.storage.GetItem(ctx, ports.KeyAccessToken)
	if err != nil {
		c.log.Warn().Err(err).Msg("no se pudo leer el token del almacenamiento")
		return ""
	}
	if !ok {
		return ""
	}
	return tok
}

// do ejecuta la request y normaliza los errores:
// sin respuesta -> APIError de transporte; status fuera de 2xx -> APIError{status, message}.
func (c *Client) do(req *http.Request) ([]byte, http.Header, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observe(req.Method, OutcomeTransport)
		c.log.Debug().Err(err).Str("url", req.URL.String()).Msg("API sin respuesta")
		return nil, nil, domain.NewTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		c.metrics.observe(req.Method, OutcomeTransport)
		return nil, nil, domain.NewTransportError(fmt.Errorf("leer respuesta: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.observe(req.Method, OutcomeHTTPError)
		apiErr := &domain.APIError{Status: resp.StatusCode, Message: errorMessage(raw, resp.StatusCode)}
		c.log.Debug().Int("status", resp.StatusCode).Str("url", req.URL.String()).Str("message", apiErr.Message).Msg("API error")
		return nil, nil, apiErr
	}
	c.metrics.observe(req.Method, OutcomeOK)
	return raw, resp.Header, nil
}

// errorMessage prefiere el campo message del cuerpo.
func errorMessage(raw []byte, status int) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return fmt.Sprintf("Request failed with status code %d", status)
}

func decode(raw []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }

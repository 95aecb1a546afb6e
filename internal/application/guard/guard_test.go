package guard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakano/bakano-web/internal/domain/entity"
	"github.com/bakano/bakano-web/pkg/logger"
)

type fakeSession struct {
	authenticated bool
	inits         int
}

func (s *fakeSession) Initialize(context.Context) { s.inits++ }
func (s *fakeSession) IsAuthenticated() bool      { return s.authenticated }

type fakeWorkspace struct {
	initialized bool
	configured  bool
	country     string
	initErr     error
	inits       int
}

func (w *fakeWorkspace) IsInitialized() bool { return w.initialized }
func (w *fakeWorkspace) Initialize(context.Context) error {
	w.inits++
	w.initialized = true
	return w.initErr
}
func (w *fakeWorkspace) IsConfigured() bool { return w.configured }
func (w *fakeWorkspace) SelectedCountry() entity.CountryRef {
	return entity.CountryRef{Code: w.country}
}

func route(t *testing.T, path string) Route {
	t.Helper()
	r, ok := Resolve(path)
	require.True(t, ok, path)
	return r
}

func TestResolve(t *testing.T) {
	cases := map[string]string{
		"/":                RouteHome,
		"/login":           RouteLogin,
		"/verify/abc123":   RouteVerify,
		"/verify-email":    RouteVerifyEmail,
		"/documents/":      RouteDocuments,
		"/workspace-setup": RouteWorkspaceSetup,
	}
	for path, name := range cases {
		assert.Equal(t, name, route(t, path).Name, path)
	}
	for _, path := range []string{"/verify", "/verify/", "/nada", "/login/extra"} {
		_, ok := Resolve(path)
		assert.False(t, ok, path)
	}
}

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name     string
		path     string
		session  fakeSession
		ws       fakeWorkspace
		redirect string
	}{
		{name: "dashboard sin sesión va a login", path: "/dashboard", redirect: RouteLogin},
		{name: "setup sin sesión va a login", path: "/workspace-setup", redirect: RouteLogin},
		{name: "pública sin sesión", path: "/register"},
		{name: "verify sin sesión", path: "/verify/tok"},
		{
			name:    "documents sin configurar con país",
			path:    "/documents",
			session: fakeSession{authenticated: true},
			ws:      fakeWorkspace{initialized: true, country: "EC"},
		},
		{
			name:     "documents sin configurar ni país",
			path:     "/documents",
			session:  fakeSession{authenticated: true},
			ws:       fakeWorkspace{initialized: true},
			redirect: RouteWorkspaceSetup,
		},
		{
			name:     "dashboard sin configurar aunque haya país",
			path:     "/dashboard",
			session:  fakeSession{authenticated: true},
			ws:       fakeWorkspace{initialized: true, country: "EC"},
			redirect: RouteWorkspaceSetup,
		},
		{
			name:    "setup sin configurar",
			path:    "/workspace-setup",
			session: fakeSession{authenticated: true},
			ws:      fakeWorkspace{initialized: true},
		},
		{
			name:    "dashboard configurado",
			path:    "/dashboard",
			session: fakeSession{authenticated: true},
			ws:      fakeWorkspace{initialized: true, configured: true},
		},
		{
			name:     "login con sesión y configurado",
			path:     "/login",
			session:  fakeSession{authenticated: true},
			ws:       fakeWorkspace{initialized: true, configured: true},
			redirect: RouteDocuments,
		},
		{
			name:     "home con sesión sin configurar",
			path:     "/",
			session:  fakeSession{authenticated: true},
			ws:       fakeWorkspace{initialized: true},
			redirect: RouteWorkspaceSetup,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			session, ws := tc.session, tc.ws
			d := Evaluate(t.Context(), route(t, tc.path), &session, &ws, logger.Nop())
			assert.Equal(t, tc.redirect, d.Redirect)
			assert.Equal(t, tc.redirect == "", d.Allowed())
			assert.Equal(t, 1, session.inits)
		})
	}
}

func TestEvaluate_DashboardSinSesionRedirigeALogin(t *testing.T) {
	d := Evaluate(t.Context(), route(t, "/dashboard"), &fakeSession{}, &fakeWorkspace{}, logger.Nop())

	assert.Equal(t, RouteLogin, d.Redirect)
	assert.Equal(t, "/login", d.RedirectPath())
}

func TestEvaluate_InicializaWorkspaceSoloConSesion(t *testing.T) {
	ws := &fakeWorkspace{}
	Evaluate(t.Context(), route(t, "/"), &fakeSession{}, ws, logger.Nop())
	assert.Zero(t, ws.inits)

	Evaluate(t.Context(), route(t, "/workspace-setup"), &fakeSession{authenticated: true}, ws, logger.Nop())
	assert.Equal(t, 1, ws.inits)

	Evaluate(t.Context(), route(t, "/workspace-setup"), &fakeSession{authenticated: true}, ws, logger.Nop())
	assert.Equal(t, 1, ws.inits)
}

func TestEvaluate_ErrorDeWorkspaceNoDetieneLaNavegacion(t *testing.T) {
	ws := &fakeWorkspace{initErr: errors.New("Error al obtener el workspace"), country: "EC"}

	d := Evaluate(t.Context(), route(t, "/documents"), &fakeSession{authenticated: true}, ws, logger.Nop())

	assert.True(t, d.Allowed())
	assert.Equal(t, 1, ws.inits)
}

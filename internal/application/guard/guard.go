// Package guard decide cada navegación a partir del estado de la sesión y del workspace.
package guard

import (
	"context"
	"strings"

	"github.com/bakano/bakano-web/internal/domain/entity"
	"github.com/bakano/bakano-web/pkg/logger"
)

// Nombres de ruta.
const (
	RouteHome           = "home"
	RouteLogin          = "login"
	RouteRegister       = "register"
	RouteVerify         = "verify"
	RouteVerifyEmail    = "verify-email"
	RouteWorkspaceSetup = "workspace-setup"
	RouteDashboard      = "dashboard"
	RouteDocuments      = "documents"
)

// Route ruta de la aplicación con sus requisitos.
type Route struct {
	Name                   string
	Path                   string // los segmentos ":param" aceptan cualquier valor
	Public                 bool
	RequiresAuth           bool
	RequiresWorkspaceSetup bool
}

// Routes tabla de rutas en orden de resolución.
var Routes = []Route{
	{Name: RouteHome, Path: "/", Public: true},
	{Name: RouteLogin, Path: "/login", Public: true},
	{Name: RouteRegister, Path: "/register", Public: true},
	{Name: RouteVerify, Path: "/verify/:token", Public: true},
	{Name: RouteVerifyEmail, Path: "/verify-email", Public: true},
	{Name: RouteWorkspaceSetup, Path: "/workspace-setup", RequiresAuth: true},
	{Name: RouteDashboard, Path: "/dashboard", RequiresAuth: true, RequiresWorkspaceSetup: true},
	{Name: RouteDocuments, Path: "/documents", RequiresAuth: true, RequiresWorkspaceSetup: true},
}

// Lookup ruta por nombre.
func Lookup(name string) (Route, bool) {
	for _, r := range Routes {
		if r.Name == name {
			return r, true
		}
	}
	return Route{}, false
}

// Resolve ruta que corresponde a path; ok=false si ninguna coincide.
func Resolve(path string) (Route, bool) {
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	for _, r := range Routes {
		if match(r.Path, path) {
			return r, true
		}
	}
	return Route{}, false
}

func match(pattern, path string) bool {
	ps := strings.Split(pattern, "/")
	xs := strings.Split(path, "/")
	if len(ps) != len(xs) {
		return false
	}
	for i := range ps {
		if strings.HasPrefix(ps[i], ":") {
			if xs[i] == "" {
				return false
			}
			continue
		}
		if ps[i] != xs[i] {
			return false
		}
	}
	return true
}

// Session lo que la guarda necesita del store de sesión.
type Session interface {
	Initialize(ctx context.Context)
	IsAuthenticated() bool
}

// Workspace lo que la guarda necesita del store de workspace.
type Workspace interface {
	IsInitialized() bool
	Initialize(ctx context.Context) error
	IsConfigured() bool
	SelectedCountry() entity.CountryRef
}

// Decision resultado de evaluar una navegación. Redirect vacío permite la navegación.
type Decision struct {
	Route    Route
	Redirect string
}

// Allowed indica que no hay redirección.
func (d Decision) Allowed() bool { return d.Redirect == "" }

// RedirectPath path de la ruta de destino.
func (d Decision) RedirectPath() string {
	r, _ := Lookup(d.Redirect)
	return r.Path
}

// Evaluate aplica, en este orden: inicializar la sesión; exigir autenticación;
// inicializar el workspace (un error se registra y se ignora); exigir configuración
// del workspace, salvo documents con país elegido; y, ya autenticado, sacar al usuario
// de las rutas públicas.
func Evaluate(ctx context.Context, to Route, session Session, ws Workspace, log *logger.Logger) Decision {
	allow := Decision{Route: to}
	redirect := func(name string) Decision { return Decision{Route: to, Redirect: name} }

	session.Initialize(ctx)
	authenticated := session.IsAuthenticated()

	if to.RequiresAuth && !authenticated {
		return redirect(RouteLogin)
	}

	if authenticated && !ws.IsInitialized() {
		if err := ws.Initialize(ctx); err != nil {
			log.Error().Err(err).Str("route", to.Name).Msg("error inicializando workspace en la guarda")
		}
	}

	if to.RequiresWorkspaceSetup && !ws.IsConfigured() {
		if to.Name == RouteDocuments && ws.SelectedCountry().Code != "" {
			return allow
		}
		if to.Name != RouteWorkspaceSetup {
			return redirect(RouteWorkspaceSetup)
		}
	}

	if to.Public && authenticated {
		if ws.IsConfigured() {
			return redirect(RouteDocuments)
		}
		return redirect(RouteWorkspaceSetup)
	}

	return allow
}

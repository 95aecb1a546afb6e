package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/bakano/bakano-web/internal/application/dto"
	"github.com/bakano/bakano-web/internal/application/ports"
	"github.com/bakano/bakano-web/internal/domain"
	"github.com/bakano/bakano-web/internal/domain/entity"
	pkgjwt "github.com/bakano/bakano-web/pkg/jwt"
	"github.com/bakano/bakano-web/pkg/logger"
)

// Estados de la sesión.
const (
	StateUninitialized   = "uninitialized"
	StateInitializing    = "initializing"
	StateUnauthenticated = "unauthenticated"
	StateAuthenticated   = "authenticated"
)

// Rutas a las que navegan las acciones de sesión.
const (
	RouteDashboard = "/dashboard"
	RouteLogin     = "/login"
)

// Rutas que un visitante sin sesión puede abrir según CanAccessRoute.
var publicRouteNames = []string{"login", "register", "verify", "forgot-password"}

// UserUpdate cambios locales del usuario; nil deja el campo como está.
type UserUpdate struct {
	Name        *string `json:"name,omitempty"`
	CompanyName *string `json:"companyName,omitempty"`
	Country     *string `json:"country,omitempty"`
}

// AuthStore máquina de estados de la sesión. Token y usuario se asignan y se limpian
// siempre juntos.
type AuthStore struct {
	auth   ports.AuthGateway
	notify ports.Notifier
	nav    ports.Navigator
	log    *logger.Logger
	now    clock

	initMu sync.Mutex

	mu          sync.RWMutex
	state       string
	token       string
	user        *entity.User
	loading     bool
	initialized bool
	lastLogin   *time.Time
	lastErr     error
	onLogout    []func()
}

func NewAuthStore(auth ports.AuthGateway, notify ports.Notifier, nav ports.Navigator, log *logger.Logger) *AuthStore {
	return &AuthStore{
		auth:   auth,
		notify: notify,
		nav:    nav,
		log:    log.Named("auth_store"),
		now:    time.Now,
		state:  StateUninitialized,
	}
}

// OnLogout registra fn para que corra (sin locks tomados) cada vez que se cierra la sesión.
func (s *AuthStore) OnLogout(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLogout = append(s.onLogout, fn)
}

// Initialize restaura la sesión persistida. Es idempotente: llamadas concurrentes o
// repetidas verifican el token una sola vez.
func (s *AuthStore) Initialize(ctx context.Context) {
	if s.IsInitialized() {
		return
	}
	s.initMu.Lock()
	defer s.initMu.Unlock()
	if s.IsInitialized() {
		return
	}

	s.mu.Lock()
	s.state = StateInitializing
	s.loading = true
	s.mu.Unlock()

	token := s.auth.StoredToken(ctx)
	user := s.auth.StoredUser(ctx)

	switch {
	case token != "" && user != nil:
		if s.verify(ctx, token) {
			now := s.now()
			s.mu.Lock()
			s.token, s.user, s.lastLogin = token, user, &now
			s.state = StateAuthenticated
			s.mu.Unlock()
		} else {
			s.Logout(ctx)
		}
	case token != "" || user != nil:
		// solo una de las dos mitades: se trata como sesión cerrada
		s.log.Warn().Bool("token", token != "").Bool("user", user != nil).Msg("sesión persistida incompleta, se limpia")
		s.clearSession(ctx)
	}

	s.mu.Lock()
	if s.state != StateAuthenticated {
		s.state = StateUnauthenticated
	}
	s.loading = false
	s.initialized = true
	s.mu.Unlock()
}

// verify evita la llamada remota si el JWT ya venció.
func (s *AuthStore) verify(ctx context.Context, token string) bool {
	if pkgjwt.Expired(token, s.now()) {
		s.log.Info().Msg("token vencido, se omite la verificación remota")
		return false
	}
	return s.auth.VerifyToken(ctx)
}

func (s *AuthStore) Register(ctx context.Context, req dto.RegisterRequest) error {
	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.auth.Register(ctx, req)
	if err == nil {
		err = s.accept(resp, "Error en el registro")
	}
	if err != nil {
		s.log.Error().Err(err).Msg("error en registro")
		s.fail(err)
		s.notify.Trigger(messageOf(err, "Error al registrar usuario"), ports.NotifyError)
		return err
	}
	s.notify.Trigger("Cuenta creada exitosamente. Por favor revisa tu correo electrónico para verificar tu cuenta.", ports.NotifySuccess)
	s.nav.Push(ctx, RouteLogin)
	return nil
}

func (s *AuthStore) Login(ctx context.Context, req dto.LoginRequest) error {
	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.auth.Login(ctx, req)
	if err == nil {
		err = s.accept(resp, "Error en el login")
	}
	if err != nil {
		s.log.Error().Err(err).Msg("error en login")
		s.fail(err)
		s.notify.Trigger(messageOf(err, "Error al iniciar sesión"), ports.NotifyError)
		return err
	}
	// el email sin verificar no bloquea el acceso
	s.notify.Trigger("¡Bienvenido "+resp.Data.User.Name+"!", ports.NotifySuccess)
	s.nav.Push(ctx, RouteDashboard)
	return nil
}

// accept aplica una respuesta de login/registro; sin token o sin usuario es un rechazo.
func (s *AuthStore) accept(resp *dto.AuthResponse, def string) error {
	if resp == nil || !resp.Success || resp.Data == nil || resp.Data.Token == "" || resp.Data.User == nil {
		msg := ""
		if resp != nil {
			msg = resp.Message
		}
		return rejected(msg, def)
	}
	now := s.now()
	user := *resp.Data.User
	s.mu.Lock()
	s.token, s.user, s.lastLogin = resp.Data.Token, &user, &now
	s.state = StateAuthenticated
	s.lastErr = nil
	s.mu.Unlock()
	return nil
}

// Logout limpia almacenamiento y estado, avisa y navega a /login.
func (s *AuthStore) Logout(ctx context.Context) {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.clearSession(ctx); err != nil {
		s.log.Error().Err(err).Msg("error en logout")
		s.notify.Trigger("Error al cerrar sesión", ports.NotifyError)
	}
	s.notify.Trigger("Sesión cerrada correctamente", ports.NotifyInfo)
	s.nav.Push(ctx, RouteLogin)
}

// clearSession borra el almacenamiento, deja la sesión cerrada y corre los hooks.
// El estado local se limpia aunque falle el almacenamiento.
func (s *AuthStore) clearSession(ctx context.Context) error {
	err := s.auth.Logout(ctx)

	s.mu.Lock()
	s.token, s.user, s.lastLogin = "", nil, nil
	if s.state != StateInitializing {
		s.state = StateUnauthenticated
	}
	hooks := slices.Clone(s.onLogout)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	return err
}

// VerifyEmail confirma el correo; marca al usuario actual como verificado.
func (s *AuthStore) VerifyEmail(ctx context.Context, token string) bool {
	s.setLoading(true)
	defer s.setLoading(false)

	resp, err := s.auth.VerifyEmail(ctx, token)
	if err != nil {
		s.log.Error().Err(err).Msg("error verificando email")
		s.fail(err)
		s.notify.Trigger("Error al verificar email", ports.NotifyError)
		return false
	}
	if !resp.Success {
		s.fail(rejected(resp.Message, "Error al verificar email"))
		s.notify.Trigger(messageOf(s.Err(), "Error al verificar email"), ports.NotifyError)
		return false
	}

	s.mu.Lock()
	var updated *entity.User
	if s.user != nil {
		u := *s.user
		u.IsVerified = true
		s.user = &u
		updated = &u
	}
	s.mu.Unlock()
	if updated != nil {
		if err := s.auth.PersistUser(ctx, updated); err != nil {
			s.log.Error().Err(err).Msg("no se pudo persistir el usuario verificado")
		}
	}
	s.notify.Trigger("Email verificado correctamente", ports.NotifySuccess)
	return true
}

// UpdateUserData aplica cambios locales al usuario y los persiste. Sin usuario no hace nada.
func (s *AuthStore) UpdateUserData(ctx context.Context, upd UserUpdate) error {
	s.setLoading(true)
	defer s.setLoading(false)

	s.mu.RLock()
	if s.user == nil {
		s.mu.RUnlock()
		return nil
	}
	u := *s.user
	s.mu.RUnlock()

	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.CompanyName != nil {
		u.CompanyName = *upd.CompanyName
	}
	if upd.Country != nil {
		u.Country = *upd.Country
	}
	if err := s.auth.PersistUser(ctx, &u); err != nil {
		s.log.Error().Err(err).Msg("error actualizando datos")
		s.fail(err)
		s.notify.Trigger("Error al actualizar datos", ports.NotifyError)
		return err
	}
	s.mu.Lock()
	if s.user != nil {
		s.user = &u
	}
	s.mu.Unlock()
	s.notify.Trigger("Datos actualizados correctamente", ports.NotifySuccess)
	return nil
}

// RefreshToken verifica el token actual; si ya no es válido cierra la sesión y devuelve
// domain.ErrTokenExpired.
func (s *AuthStore) RefreshToken(ctx context.Context) error {
	if s.verify(ctx, s.Token()) {
		return nil
	}
	s.log.Warn().Msg("token expirado, cerrando sesión")
	s.Logout(ctx)
	s.fail(domain.ErrTokenExpired)
	return domain.ErrTokenExpired
}

// CanAccessRoute sin sesión solo se permiten las rutas públicas; con sesión, todas.
func (s *AuthStore) CanAccessRoute(name string) bool {
	if !s.IsAuthenticated() {
		return slices.Contains(publicRouteNames, name)
	}
	return true
}

func (s *AuthStore) SessionInfo() dto.SessionInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info := dto.SessionInfo{
		IsAuthenticated: s.authenticated(),
		State:           s.state,
		Initials:        s.user.Initials(),
		DisplayName:     s.user.DisplayName(),
	}
	if s.user != nil {
		u := *s.user
		info.User = &u
	}
	if s.lastLogin != nil {
		at := s.lastLogin.Format(time.RFC3339)
		info.LastLoginTime = &at
		info.SessionDuration = s.now().Sub(*s.lastLogin).Milliseconds()
	}
	return info
}

// Reset vuelve al estado inicial sin tocar el almacenamiento.
func (s *AuthStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateUninitialized
	s.token, s.user, s.lastLogin = "", nil, nil
	s.loading, s.initialized = false, false
	s.lastErr = nil
}

// ── estado ────────────────────────────────────────────────────────────────────

func (s *AuthStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *AuthStore) fail(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

func (s *AuthStore) authenticated() bool { return s.token != "" && s.user != nil }

func (s *AuthStore) State() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *AuthStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated()
}

func (s *AuthStore) IsInitialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

func (s *AuthStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *AuthStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User copia del usuario actual o nil.
func (s *AuthStore) User() *entity.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *AuthStore) IsEmailVerified() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.IsVerified
}

func (s *AuthStore) UserInitials() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Initials()
}

func (s *AuthStore) UserDisplayName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.DisplayName()
}

func (s *AuthStore) UserCompany() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.CompanyName
}

func (s *AuthStore) UserCountry() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.Country
}

// Err último error registrado.
func (s *AuthStore) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *AuthStore) ErrorMessage() string { return errString(s.Err()) }

package bakano

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bakano/bakano-web/internal/application/dto"
	"github.com/bakano/bakano-web/internal/application/ports"
	"github.com/bakano/bakano-web/internal/domain/entity"
	"github.com/bakano/bakano-web/internal/infrastructure/apiclient"
	"github.com/bakano/bakano-web/pkg/logger"
)

var _ ports.AuthGateway = (*AuthService)(nil)

// AuthService registro, login y verificación de sesión.
// Además de devolver la respuesta, persiste token y usuario en el almacenamiento del
// navegador: esa copia sobrevive reinicios, la del store es la que está viva.
type AuthService struct {
	api     *apiclient.Client
	storage ports.ClientStorage
	log     *logger.Logger
}

// NewAuthService api debe estar ligado al mismo almacenamiento (WithTokenSource).
func NewAuthService(api *apiclient.Client, storage ports.ClientStorage, log *logger.Logger) *AuthService {
	return &AuthService{api: api, storage: storage, log: log.Named("auth_service")}
}

// Register crea la cuenta y persiste la sesión si la API devuelve token.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	if err := s.api.Post(ctx, "auth/register", req, &out); err != nil {
		s.log.Error().Err(err).Msg("error en registro")
		return nil, upstream(err, "Error al registrar usuario")
	}
	if err := s.persistSession(ctx, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login inicia sesión y persiste token y usuario.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	if err := s.api.Post(ctx, "auth/login", req, &out); err != nil {
		s.log.Error().Err(err).Msg("error en login")
		return nil, upstream(err, "Error al iniciar sesión")
	}
	if err := s.persistSession(ctx, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AuthService) persistSession(ctx context.Context, out *dto.AuthResponse) error {
	if !out.Success || out.Data == nil || out.Data.Token == "" {
		return nil
	}
	if err := s.storage.SetItem(ctx, ports.KeyAccessToken, out.Data.Token); err != nil {
		return fmt.Errorf("auth: guardar token: %w", err)
	}
	if err := s.PersistUser(ctx, out.Data.User); err != nil {
		_ = s.storage.RemoveItem(ctx, ports.KeyAccessToken)
		return err
	}
	return nil
}

// Logout limpia el almacenamiento local; no llama a la API.
func (s *AuthService) Logout(ctx context.Context) error {
	errTok := s.storage.RemoveItem(ctx, ports.KeyAccessToken)
	errUser := s.storage.RemoveItem(ctx, ports.KeyUser)
	if errTok != nil {
		return fmt.Errorf("auth: limpiar token: %w", errTok)
	}
	if errUser != nil {
		return fmt.Errorf("auth: limpiar usuario: %w", errUser)
	}
	return nil
}

// VerifyToken consulta auth/verify. Ante un error limpia el almacenamiento y devuelve false.
func (s *AuthService) VerifyToken(ctx context.Context) bool {
	var out struct {
		Success bool `json:"success"`
	}
	if err := s.api.Get(ctx, "auth/verify", nil, &out); err != nil {
		s.log.Warn().Err(err).Msg("token inválido, limpiando sesión persistida")
		if lerr := s.Logout(ctx); lerr != nil {
			s.log.Error().Err(lerr).Msg("no se pudo limpiar la sesión")
		}
		return false
	}
	return out.Success
}

// VerifyEmail confirma el correo con el token recibido.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*dto.StatusResponse, error) {
	var out dto.StatusResponse
	if err := s.api.Post(ctx, "auth/verify-email", dto.VerifyEmailRequest{Token: token}, &out); err != nil {
		return nil, upstream(err, "Error al verificar el email")
	}
	return &out, nil
}

// StoredToken token persistido o "".
func (s *AuthService) StoredToken(ctx context.Context) string {
	tok, ok, err := s.storage.GetItem(ctx, ports.KeyAccessToken)
	if err != nil {
		s.log.Error().Err(err).Msg("leer token")
		return ""
	}
	if !ok {
		return ""
	}
	return tok
}

// StoredUser usuario persistido; nil si no existe o el JSON está corrupto.
func (s *AuthService) StoredUser(ctx context.Context) *entity.User {
	raw, ok, err := s.storage.GetItem(ctx, ports.KeyUser)
	if err != nil {
		s.log.Error().Err(err).Msg("leer usuario")
		return nil
	}
	if !ok || raw == "" {
		return nil
	}
	var u entity.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		s.log.Warn().Err(err).Msg("usuario persistido corrupto")
		return nil
	}
	return &u
}

// PersistUser guarda el usuario serializado.
func (s *AuthService) PersistUser(ctx context.Context, user *entity.User) error {
	if user == nil {
		return fmt.Errorf("auth: usuario vacío")
	}
	b, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("auth: serializar usuario: %w", err)
	}
	if err := s.storage.SetItem(ctx, ports.KeyUser, string(b)); err != nil {
		return fmt.Errorf("auth: guardar usuario: %w", err)
	}
	return nil
}

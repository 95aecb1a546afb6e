package dto

import "github.com/bakano/bakano-web/internal/domain/entity"

// RegisterRequest datos de registro.
type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	CompanyName string `json:"companyName"`
	Country     string `json:"country"`
}

// LoginRequest credenciales.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthWorkspace resumen del workspace que devuelve el registro.
type AuthWorkspace struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	IsFullyConfigured bool              `json:"isFullyConfigured"`
	Status            string            `json:"status"`
	Country           entity.CountryRef `json:"country"`
}

// AuthData payload de login/registro.
type AuthData struct {
	User      *entity.User   `json:"user"`
	Workspace *AuthWorkspace `json:"workspace,omitempty"`
	Token     string         `json:"token"`
}

// AuthResponse respuesta de auth/register y auth/login.
type AuthResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Data    *AuthData `json:"data"`
}

// VerifyEmailRequest token recibido por correo.
type VerifyEmailRequest struct {
	Token string `json:"token"`
}

// SessionInfo resumen de la sesión para la interfaz.
type SessionInfo struct {
	IsAuthenticated bool         `json:"isAuthenticated"`
	State           string       `json:"state"`
	User            *entity.User `json:"user"`
	Initials        string       `json:"initials"`
	DisplayName     string       `json:"displayName"`
	LastLoginTime   *string      `json:"lastLoginTime"`
	SessionDuration int64        `json:"sessionDuration"` // milisegundos
}

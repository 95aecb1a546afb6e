package entity

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// User representa el usuario autenticado tal como lo devuelve la API.
type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	CompanyName string    `json:"companyName"`
	Country     string    `json:"country"`
	IsVerified  bool      `json:"isVerified"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Initials iniciales de las dos primeras palabras del nombre, en mayúsculas.
func (u *User) Initials() string {
	if u == nil {
		return ""
	}
	words := strings.Fields(u.Name)
	var b strings.Builder
	for i, w := range words {
		if i == 2 {
			break
		}
		r, _ := utf8.DecodeRuneInString(w)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// DisplayName nombre para mostrar; "Usuario" si no hay nombre.
func (u *User) DisplayName() string {
	if u == nil || strings.TrimSpace(u.Name) == "" {
		return "Usuario"
	}
	return u.Name
}

package models

import "time"

// Credentials representa uma requisição de login
type Credentials struct {
    Email    string `json:"email"`
    Password string `json:"password"`
}

// RegisterRequest representa uma requisição de cadastro
type RegisterRequest struct {
    Name     string `json:"name"`
    Email    string `json:"email"`
    Password string `json:"password"`
}

// AuthUser representa o perfil do usuário autenticado
type AuthUser struct {
    ID    string `json:"id"`
    Name  string `json:"name"`
    Email string `json:"email"`
}

// AuthResponse representa a resposta de autenticação do upstream
type AuthResponse struct {
    Token     string    `json:"token"`
    ExpiresAt time.Time `json:"expires_at,omitempty"`
    User      AuthUser  `json:"user"`
}

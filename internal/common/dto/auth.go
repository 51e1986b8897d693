package dto

import "github.com/amoylab/tenantly/internal/apiserver/database"

// RegisterRequest represents a self-service sign-up
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthUser is the public projection of a user returned by the auth endpoints
type AuthUser struct {
	ID    string        `json:"id"`
	Email string        `json:"email"`
	Name  string        `json:"name"`
	Role  database.Role `json:"role"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	User  AuthUser `json:"user"`
	Token string   `json:"token"`
}

// MeResponse is returned by the current-user endpoint
type MeResponse struct {
	User AuthUser `json:"user"`
}

// NewAuthUser projects u without its password hash or tenant id
func NewAuthUser(u *database.User) AuthUser {
	return AuthUser{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

package auth

import (
	"time"

	"github.com/havenfurnitures/storefront-api/pkg/enums"
)

// LoginRequest captures the admin credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AdminDTO describes the signed-in administrator.
type AdminDTO struct {
	Email string     `json:"email"`
	Role  enums.Role `json:"role"`
}

// LoginResponse carries the bearer token produced by a successful login.
type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Admin       AdminDTO  `json:"admin"`
}

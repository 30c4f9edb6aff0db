package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/havenfurnitures/storefront-api/pkg/enums"
)

// AccessTokenPayload is the input to MintAccessToken. JTI doubles as the
// Redis session id.
type AccessTokenPayload struct {
	Email string
	Role  enums.Role
	JTI   string
}

// AccessTokenClaims is the decoded back-office token.
type AccessTokenClaims struct {
	Email string     `json:"email"`
	Role  enums.Role `json:"role"`
	jwt.RegisteredClaims
}

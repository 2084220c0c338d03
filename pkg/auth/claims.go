package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/merchdrop/storefront-gateway/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID string
	Email  string
	Role   enums.AccountRole
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to storefront clients.
type AccessTokenClaims struct {
	UserID string            `json:"user_id"`
	Email  string            `json:"email,omitempty"`
	Role   enums.AccountRole `json:"role"`
	jwt.RegisteredClaims
}

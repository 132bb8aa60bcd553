package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenTypeAccess is the only session token type the service issues.
const TokenTypeAccess = "access"

// JWTService issues and checks the stateless session tokens handed out at
// login. Tokens are never stored; logging out is left to the client.
type JWTService interface {
	// GenerateToken signs a session token for userID.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken checks signature, type and lifetime and returns the
	// claims of a usable session token.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is what a validated session token says about its holder.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// TokenType indicates the purpose of the token.
	TokenType string `json:"type,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}

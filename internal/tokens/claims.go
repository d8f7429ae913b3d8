package tokens

import (
	"github.com/Skotchmaster/docs_gateway/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

type AccessClaims struct {
	UserID string      `json:"id"`
	Role   domain.Role `json:"role"`
	Email  string      `json:"email"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	UserID    string `json:"id"`
	RefreshID string `json:"refresh_id"`
	jwt.RegisteredClaims
}

package service

import (
	"fmt"
	"time"

	"github.com/Skotchmaster/docs_gateway/internal/models"
	"github.com/Skotchmaster/docs_gateway/internal/tokens"
	"github.com/google/uuid"
)

type tokenPair struct {
	access    string
	refresh   string
	accessExp time.Time
}

// issuePair signs a fresh access/refresh pair for user, binding the refresh
// token to refreshID.
func (s *AuthService) issuePair(user *models.User, refreshID uuid.UUID) (tokenPair, error) {
	id := user.ID.String()

	access, err := s.Tokens.IssueAccess(tokens.AccessClaims{
		UserID: id,
		Role:   user.Role,
		Email:  user.Email,
	}, s.Tokens.AccessTTL)
	if err != nil {
		return tokenPair{}, fmt.Errorf("issue access token: %w", err)
	}

	refresh, err := s.Tokens.IssueRefresh(tokens.RefreshClaims{
		UserID:    id,
		RefreshID: refreshID.String(),
	}, s.Tokens.RefreshTTL)
	if err != nil {
		return tokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}

	return tokenPair{
		access:    access,
		refresh:   refresh,
		accessExp: s.now().Add(s.Tokens.AccessTTL),
	}, nil
}

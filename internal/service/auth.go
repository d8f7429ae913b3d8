package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/docs_gateway/internal/domain"
	"github.com/Skotchmaster/docs_gateway/internal/events"
	"github.com/Skotchmaster/docs_gateway/internal/hash"
	"github.com/Skotchmaster/docs_gateway/internal/logging"
	"github.com/Skotchmaster/docs_gateway/internal/models"
	"github.com/Skotchmaster/docs_gateway/internal/repo"
	"github.com/Skotchmaster/docs_gateway/internal/tokens"
	"github.com/google/uuid"
)

type AuthService struct {
	Users    UserStore
	Sessions SessionStore
	Tokens   *tokens.Issuer
	Events   events.Publisher

	SessionAge time.Duration
	Now        func() time.Time
}

type LoginResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	SessionID    uuid.UUID
	SessionExp   time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.Users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("login_failed", "status", 400, "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user.Credential == nil || !hash.CheckPassword(user.Credential.Credential, password) {
		l.Warn("login_failed", "status", 400, "reason", "password mismatch", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	refreshID := uuid.New()
	pair, err := s.issuePair(user, refreshID)
	if err != nil {
		return nil, err
	}

	expiresAt := s.now().Add(s.SessionAge)
	session, err := s.Sessions.CreateSession(ctx, user.ID, refreshID, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	emit(ctx, s.Events, events.TopicUser, events.Event{
		Type:      events.TypeUserLoggedIn,
		UserID:    user.ID.String(),
		SessionID: session.ID.String(),
	})
	l.Info("login_succeeded", "user_id", user.ID, "session_id", session.ID)

	return &LoginResult{
		User:         user,
		AccessToken:  pair.access,
		RefreshToken: pair.refresh,
		AccessExp:    pair.accessExp,
		SessionID:    session.ID,
		SessionExp:   session.ExpiresAt,
	}, nil
}

// Refresh rotates the session's refresh_id. Every successful call spends the
// presented refresh token; presenting it again fails with ErrTokenReplay.
func (s *AuthService) Refresh(ctx context.Context, refreshToken, sessionID string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	if refreshToken == "" || sessionID == "" {
		return nil, fmt.Errorf("%w: refresh_token and session_id are required", ErrValidation)
	}

	claims, err := s.Tokens.VerifyRefresh(refreshToken)
	if err != nil {
		l.Warn("refresh_failed", "status", 401, "reason", "refresh token rejected", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	sid, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	session, err := s.Sessions.GetSession(ctx, sid)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("refresh_failed", "status", 404, "reason", "session not found")
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	if claims.UserID != session.UserID.String() {
		l.Warn("refresh_failed", "status", 401, "reason", "token issued for another user", "session_id", sid)
		return nil, ErrInvalidToken
	}

	now := s.now()
	if !session.ExpiresAt.After(now) {
		l.Info("refresh_failed", "status", 401, "reason", "session expired", "session_id", sid)
		return nil, ErrSessionExpired
	}

	if claims.RefreshID != session.RefreshID.String() {
		s.replayed(ctx, session)
		return nil, ErrTokenReplay
	}

	newRefreshID := uuid.New()
	pair, err := s.issuePair(&session.User, newRefreshID)
	if err != nil {
		return nil, err
	}

	expiresAt := now.Add(s.SessionAge)
	if err := s.Sessions.RotateSession(ctx, sid, session.RefreshID, newRefreshID, expiresAt, now); err != nil {
		if errors.Is(err, repo.ErrStaleSession) {
			s.replayed(ctx, session)
			return nil, ErrTokenReplay
		}
		return nil, fmt.Errorf("rotate session: %w", err)
	}

	emit(ctx, s.Events, events.TopicUser, events.Event{
		Type:      events.TypeSessionRefreshed,
		UserID:    session.UserID.String(),
		SessionID: sid.String(),
	})

	return &LoginResult{
		User:         &session.User,
		AccessToken:  pair.access,
		RefreshToken: pair.refresh,
		AccessExp:    pair.accessExp,
		SessionID:    sid,
		SessionExp:   expiresAt,
	}, nil
}

func (s *AuthService) replayed(ctx context.Context, session *models.Session) {
	logging.FromContext(ctx).Warn("refresh_token_replayed",
		"status", 400, "user_id", session.UserID, "session_id", session.ID)
	emit(ctx, s.Events, events.TopicSecurity, events.Event{
		Type:      events.TypeRefreshTokenReplayed,
		UserID:    session.UserID.String(),
		SessionID: session.ID.String(),
	})
}

// Authorize checks an Authorization header of the form "Bearer <token>".
func (s *AuthService) Authorize(ctx context.Context, header string) (*domain.Identity, error) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return nil, fmt.Errorf("%w: missing bearer token", ErrUnauthorized)
	}

	claims, err := s.Tokens.VerifyAccess(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	if !claims.Role.IsAccountRole() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrUnauthorized, claims.Role)
	}

	return &domain.Identity{
		UserID: claims.UserID,
		Role:   claims.Role,
		Email:  claims.Email,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

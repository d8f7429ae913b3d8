package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/docs_gateway/internal/models"
	"github.com/google/uuid"
)

// UserStore is the part of the repository the services need for accounts.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUserWithCredential(ctx context.Context, u *models.User, hashed string) error
}

type SessionStore interface {
	CreateSession(ctx context.Context, userID, refreshID uuid.UUID, expiresAt time.Time) (*models.Session, error)
	GetSession(ctx context.Context, id uuid.UUID) (*models.Session, error)
	RotateSession(ctx context.Context, id, oldRefreshID, newRefreshID uuid.UUID, expiresAt, now time.Time) error
}

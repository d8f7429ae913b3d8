package repo

import (
	"context"
	"errors"
	"time"

	"github.com/Skotchmaster/docs_gateway/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrStaleSession = errors.New("session rotated or expired")

func (r *GormRepo) CreateSession(ctx context.Context, userID, refreshID uuid.UUID, expiresAt time.Time) (*models.Session, error) {
	s := models.Session{
		ID:        uuid.New(),
		UserID:    userID,
		RefreshID: refreshID,
		ExpiresAt: expiresAt.UTC(),
	}
	if err := r.DB.WithContext(ctx).Omit("User").Create(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// GetSession returns the session with its owner preloaded.
func (r *GormRepo) GetSession(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	var s models.Session
	if err := r.DB.WithContext(ctx).Preload("User").Where("id = ?", id).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// RotateSession swaps oldRefreshID for newRefreshID in a single conditional
// update. ErrStaleSession means another request rotated the session first or
// the session is already expired.
func (r *GormRepo) RotateSession(ctx context.Context, id, oldRefreshID, newRefreshID uuid.UUID, expiresAt, now time.Time) error {
	res := r.DB.WithContext(ctx).Model(&models.Session{}).
		Where("id = ? AND refresh_id = ? AND expires_at > ?", id, oldRefreshID, now.UTC()).
		Updates(map[string]any{"refresh_id": newRefreshID, "expires_at": expiresAt.UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return ErrStaleSession
	}
	return nil
}

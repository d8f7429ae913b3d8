package repo

import (
	"context"
	"errors"

	"github.com/Skotchmaster/docs_gateway/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")
var ErrUserAlreadyExist = errors.New("user already exist")

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if err := r.DB.WithContext(ctx).Omit("Credential").Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserAlreadyExist
		}
		return err
	}
	return nil
}

func (r *GormRepo) CreateCredential(ctx context.Context, userID uuid.UUID, hashed string) (*models.Credential, error) {
	cred := models.Credential{UserID: userID, Credential: hashed}
	if err := r.DB.WithContext(ctx).Create(&cred).Error; err != nil {
		return nil, err
	}
	return &cred, nil
}

// CreateUserWithCredential stores the user and its credential in one
// transaction, so a failed credential insert leaves no user behind.
func (r *GormRepo) CreateUserWithCredential(ctx context.Context, u *models.User, hashed string) error {
	return r.WithinTx(ctx, func(tx *GormRepo) error {
		if err := tx.CreateUser(ctx, u); err != nil {
			return err
		}
		cred, err := tx.CreateCredential(ctx, u.ID, hashed)
		if err != nil {
			return err
		}
		u.Credential = cred
		return nil
	})
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Preload("Credential").Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}

package models

import (
	"time"

	"github.com/Skotchmaster/docs_gateway/internal/domain"
	"github.com/google/uuid"
)

type User struct {
	ID         uuid.UUID   `gorm:"type:uuid;primaryKey"     json:"id"`
	FirstName  string      `gorm:"not null"                 json:"first_name"`
	LastName   string      `gorm:"not null"                 json:"last_name"`
	Email      string      `gorm:"uniqueIndex;not null"     json:"email"`
	Role       domain.Role `gorm:"not null"                 json:"role"`
	CreatedAt  time.Time   `gorm:"not null;autoCreateTime"  json:"created_at"`
	Credential *Credential `gorm:"foreignKey:UserID"        json:"-"`
}

type Credential struct {
	UserID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	Credential string    `gorm:"not null"             json:"-"`
}

type Session struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"   json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	RefreshID uuid.UUID `gorm:"type:uuid;not null"     json:"-"`
	ExpiresAt time.Time `gorm:"not null"               json:"expires_at"`
	User      User      `gorm:"foreignKey:UserID"      json:"-"`
}

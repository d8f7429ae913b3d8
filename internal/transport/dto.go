package transport

import (
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/docs_gateway/internal/domain"
	"github.com/Skotchmaster/docs_gateway/internal/filesapi"
	"github.com/Skotchmaster/docs_gateway/internal/models"
	"github.com/Skotchmaster/docs_gateway/internal/service"
	validation "github.com/go-ozzo/ozzo-validation"
)

type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (r RegisterRequest) Input() service.RegisterInput {
	return service.RegisterInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Password:  r.Password,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type UserResponse struct {
	ID        string      `json:"id"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

type LoginResponse struct {
	ID           string      `json:"id"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	Email        string      `json:"email"`
	Role         domain.Role `json:"role"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	SessionID    string      `json:"session_id"`
}

func NewLoginResponse(res *service.LoginResult) LoginResponse {
	return LoginResponse{
		ID:           res.User.ID.String(),
		FirstName:    res.User.FirstName,
		LastName:     res.User.LastName,
		Email:        res.User.Email,
		Role:         res.User.Role,
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		SessionID:    res.SessionID.String(),
	}
}

var (
	ErrCategoryRequired     = errors.New("category is required")
	ErrCategoryNameRequired = errors.New("category name is required")
	ErrCategoryIDRequired   = errors.New("category id and name are required")
)

type CategoryRequest struct {
	Category filesapi.Category `json:"category"`
}

func (r CategoryRequest) ValidateCreate() error {
	if r.Category == nil {
		return ErrCategoryRequired
	}
	if !present(r.Category["name"]) {
		return ErrCategoryNameRequired
	}
	return nil
}

func (r CategoryRequest) ValidateUpdate() error {
	if r.Category == nil {
		return ErrCategoryRequired
	}
	if !present(r.Category["id"]) || !present(r.Category["name"]) {
		return ErrCategoryIDRequired
	}
	return nil
}

// present mirrors a JSON truthiness check: null, "", false and 0 are absent.
func present(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case float64:
		return x != 0
	default:
		return true
	}
}

type FileForm struct {
	Description string `json:"description" form:"description"`
	CategoryID  string `json:"category_id" form:"category_id"`
}

func (f FileForm) ValidateUpload() error {
	if err := validation.Validate(f.CategoryID, validation.Required); err != nil {
		return errors.New("category_id is required")
	}
	return nil
}

type FileQuery struct {
	FileID string `query:"file_id"`
	Role   string `query:"role"`
}

// FilesRole validates the role query parameter the Files API lists by.
func (q FileQuery) FilesRole() (domain.Role, error) {
	if q.Role == "" {
		return "", errors.New("role parameter is required")
	}
	role, ok := domain.ParseFilesRole(q.Role)
	if !ok {
		return "", fmt.Errorf("role must be %s or %s", domain.RoleAdministrator, domain.RoleProfessor)
	}
	return role, nil
}

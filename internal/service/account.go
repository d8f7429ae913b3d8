package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/docs_gateway/internal/domain"
	"github.com/Skotchmaster/docs_gateway/internal/events"
	"github.com/Skotchmaster/docs_gateway/internal/hash"
	"github.com/Skotchmaster/docs_gateway/internal/logging"
	"github.com/Skotchmaster/docs_gateway/internal/models"
	"github.com/Skotchmaster/docs_gateway/internal/repo"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type AccountService struct {
	Users  UserStore
	Events events.Publisher
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

func (in RegisterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.FirstName, validation.Required),
		validation.Field(&in.LastName, validation.Required),
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.Password, validation.Required),
	)
}

// Register creates a user with the given role together with its credential.
// The role always comes from the route, never from the request body.
func (s *AccountService) Register(ctx context.Context, in RegisterInput, role domain.Role) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "account.register", "role", role)

	if !role.IsAccountRole() {
		return nil, fmt.Errorf("unsupported account role %q", role)
	}

	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = normalizeEmail(in.Email)
	if err := in.Validate(); err != nil {
		l.Info("register_rejected", "status", 400, "reason", err.Error())
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	hashed, err := hash.HashPassword(in.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Role:      role,
	}
	if err := s.Users.CreateUserWithCredential(ctx, user, hashed); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			l.Info("register_rejected", "status", 409, "reason", "email taken")
			return nil, ErrConflict
		}
		l.Error("register_error", "status", 500, "reason", "cannot store user", "error", err)
		return nil, fmt.Errorf("create user: %w", err)
	}

	emit(ctx, s.Events, events.TopicUser, events.Event{
		Type:   events.TypeUserCreated,
		UserID: user.ID.String(),
		Email:  user.Email,
		Role:   string(user.Role),
	})
	l.Info("user_created", "user_id", user.ID)

	return user, nil
}

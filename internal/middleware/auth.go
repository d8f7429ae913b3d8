package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/Skotchmaster/docs_gateway/internal/domain"
	"github.com/Skotchmaster/docs_gateway/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	CtxUserID   = "user_id"
	CtxRole     = "role"
	CtxIdentity = "identity"
)

type Authorizer interface {
	Authorize(ctx context.Context, header string) (*domain.Identity, error)
}

// Authorize requires a valid "Authorization: Bearer <access_token>" header
// and stores the caller's identity on the echo context.
func Authorize(auth Authorizer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized. Authorization header is required.")
			}

			ctx := c.Request().Context()
			id, err := auth.Authorize(ctx, header)
			if err != nil {
				logging.FromContext(ctx).Info("auth_rejected", "status", 401, "error", err)
				if errors.Is(err, jwt.ErrTokenExpired) {
					return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized. Access token expired.")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized. Bearer access token is required in headers.")
			}

			c.Set(CtxUserID, id.UserID)
			c.Set(CtxRole, id.Role)
			c.Set(CtxIdentity, id)

			l := logging.FromContext(ctx).With("user_id", id.UserID)
			c.SetRequest(c.Request().WithContext(logging.IntoContext(ctx, l)))

			return next(c)
		}
	}
}

func Identity(c echo.Context) *domain.Identity {
	id, _ := c.Get(CtxIdentity).(*domain.Identity)
	return id
}

// Can reports whether the authenticated caller holds p.
func Can(c echo.Context, p domain.Permission) bool {
	id := Identity(c)
	return id != nil && id.Role.Can(p)
}

func RequirePermission(p domain.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if Identity(c) == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing role")
			}
			if !Can(c, p) {
				return echo.NewHTTPError(http.StatusForbidden, "you don't have enough rights for this operation")
			}
			return next(c)
		}
	}
}

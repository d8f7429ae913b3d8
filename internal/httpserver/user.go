package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Skotchmaster/docs_gateway/internal/domain"
	"github.com/Skotchmaster/docs_gateway/internal/logging"
	"github.com/Skotchmaster/docs_gateway/internal/service"
	"github.com/Skotchmaster/docs_gateway/internal/transport"
	"github.com/labstack/echo/v4"
)

type UserHTTP struct {
	Auth     *service.AuthService
	Accounts *service.AccountService

	SessionAge   time.Duration
	CookieSecure bool
}

func (h *UserHTTP) Create(c echo.Context) error {
	return h.register(c, domain.RoleUser)
}

func (h *UserHTTP) RegisterAdmin(c echo.Context) error {
	return h.register(c, domain.RoleAdmin)
}

func (h *UserHTTP) RegisterAuditor(c echo.Context) error {
	return h.register(c, domain.RoleAuditor)
}

func (h *UserHTTP) register(c echo.Context, role domain.Role) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_register", "role", role)

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}

	user, err := h.Accounts.Register(ctx, req.Input(), role)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest,
			"Invalid request body. First name, last name, a valid email and password are required. ("+detail(err)+")")
	case errors.Is(err, service.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, "A user with this email already exists.")
	default:
		return err
	}

	return c.JSON(http.StatusCreated, okResponse{
		Successful: true,
		Message:    "User created successfully",
		Data:       transport.NewUserResponse(user),
	})
}

func (h *UserHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_login")

	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body type. It must be a JSON.")
	}

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}
	if err := req.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body. An email and password are required.")
	}

	res, err := h.Auth.Login(ctx, req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body. An email and password are required.")
	case errors.Is(err, service.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusBadRequest, "Email or password are wrong.")
	default:
		return err
	}

	h.setSessionCookies(c, res)
	return c.JSON(http.StatusOK, okResponse{Successful: true, Data: transport.NewLoginResponse(res)})
}

func (h *UserHTTP) RefreshToken(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_refresh")

	refresh, errR := c.Cookie(CookieRefreshToken)
	session, errS := c.Cookie(CookieSessionID)
	if errR != nil || errS != nil || refresh.Value == "" || session.Value == "" {
		l.Info("refresh_rejected", "status", 400, "reason", "missing cookies")
		return echo.NewHTTPError(http.StatusBadRequest,
			"Invalid request body. Refresh token and session id are required in cookies.")
	}

	res, err := h.Auth.Refresh(ctx, refresh.Value, session.Value)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest,
			"Invalid request body. Refresh token and session id are required in cookies.")
	case errors.Is(err, service.ErrInvalidToken):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid refresh token.")
	case errors.Is(err, service.ErrSessionNotFound):
		h.clearSessionCookies(c)
		return echo.NewHTTPError(http.StatusNotFound, "Session not found.")
	case errors.Is(err, service.ErrSessionExpired):
		h.clearSessionCookies(c)
		return echo.NewHTTPError(http.StatusUnauthorized, "Session expired.")
	case errors.Is(err, service.ErrTokenReplay):
		h.clearSessionCookies(c)
		return echo.NewHTTPError(http.StatusBadRequest, "Refresh token invalid.")
	default:
		return err
	}

	h.setSessionCookies(c, res)
	return c.JSON(http.StatusOK, okResponse{Successful: true, Data: transport.NewLoginResponse(res)})
}

func (h *UserHTTP) setSessionCookies(c echo.Context, res *service.LoginResult) {
	c.SetCookie(createCookie(CookieRefreshToken, res.RefreshToken, h.SessionAge, h.CookieSecure))
	c.SetCookie(createCookie(CookieSessionID, res.SessionID.String(), h.SessionAge, h.CookieSecure))
}

func (h *UserHTTP) clearSessionCookies(c echo.Context) {
	c.SetCookie(deleteCookie(CookieRefreshToken, h.CookieSecure))
	c.SetCookie(deleteCookie(CookieSessionID, h.CookieSecure))
}

// detail strips the sentinel prefix from a wrapped validation error.
func detail(err error) string {
	return strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+": ")
}

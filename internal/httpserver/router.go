package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/Skotchmaster/docs_gateway/internal/domain"
	"github.com/Skotchmaster/docs_gateway/internal/middleware"
	"github.com/labstack/echo/v4"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	UserHandler     *UserHTTP
	CategoryHandler *CategoryHTTP
	FilesHandler    *FilesHTTP
	Authorizer      middleware.Authorizer
	DB              Pinger
}

func Register(e *echo.Echo, d *Deps) {
	e.HTTPErrorHandler = ErrorHandler

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := d.DB.Ping(ctx); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
		}
		return c.NoContent(http.StatusOK)
	})

	auth := middleware.Authorize(d.Authorizer)

	user := e.Group("/user")
	user.POST("/create", d.UserHandler.Create)
	user.POST("/register-admin", d.UserHandler.RegisterAdmin)
	user.POST("/register-auditor", d.UserHandler.RegisterAuditor)
	user.POST("/login", d.UserHandler.Login)
	user.POST("/refresh-token", d.UserHandler.RefreshToken)

	// role checks for categories run inside the handlers, after body validation
	category := e.Group("/category")
	category.GET("/get-all", d.CategoryHandler.GetAll)
	category.POST("/create", d.CategoryHandler.Create, auth)
	category.PUT("/update", d.CategoryHandler.Update, auth)
	category.DELETE("/delete", d.CategoryHandler.Delete, auth)

	files := e.Group("/files", auth)
	files.POST("/upload", d.FilesHandler.Upload, middleware.RequirePermission(domain.PermFileUpload))
	files.PUT("/update", d.FilesHandler.Update, middleware.RequirePermission(domain.PermFileUpdate))
	files.DELETE("/delete", d.FilesHandler.Delete, middleware.RequirePermission(domain.PermFileDelete))
	files.GET("/get", d.FilesHandler.Get, middleware.RequirePermission(domain.PermFileRead))
	files.GET("/get-all", d.FilesHandler.GetAll, middleware.RequirePermission(domain.PermFileList))
	files.GET("/get-user-id", d.FilesHandler.GetByUserID, middleware.RequirePermission(domain.PermFileOwn))
}

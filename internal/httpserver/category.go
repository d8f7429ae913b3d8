package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/docs_gateway/internal/domain"
	"github.com/Skotchmaster/docs_gateway/internal/filesapi"
	"github.com/Skotchmaster/docs_gateway/internal/middleware"
	"github.com/Skotchmaster/docs_gateway/internal/transport"
	"github.com/labstack/echo/v4"
)

type CategoryHTTP struct {
	Files *filesapi.Client
}

func (h *CategoryHTTP) GetAll(c echo.Context) error {
	res, err := h.Files.ListCategories(c.Request().Context())
	return forward(c, res, err, "Categories retrieved successfully", "Failed to retrieve categories")
}

func (h *CategoryHTTP) Create(c echo.Context) error {
	var req transport.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return proxyFail(c, http.StatusBadRequest, "invalid body")
	}
	if err := req.ValidateCreate(); err != nil {
		return proxyFail(c, http.StatusBadRequest, err.Error())
	}
	if !middleware.Can(c, domain.PermCategoryCreate) {
		return proxyFail(c, http.StatusForbidden, "Only ADMIN role can create categories")
	}

	res, err := h.Files.CreateCategory(c.Request().Context(), req.Category, upstreamRole(c))
	return forward(c, res, err, "Category created successfully", "Failed to create category")
}

func (h *CategoryHTTP) Update(c echo.Context) error {
	var req transport.CategoryRequest
	if err := c.Bind(&req); err != nil {
		return proxyFail(c, http.StatusBadRequest, "invalid body")
	}
	if err := req.ValidateUpdate(); err != nil {
		return proxyFail(c, http.StatusBadRequest, err.Error())
	}
	if !middleware.Can(c, domain.PermCategoryUpdate) {
		return proxyFail(c, http.StatusForbidden, "Only ADMIN role can update categories")
	}

	res, err := h.Files.UpdateCategory(c.Request().Context(), req.Category, upstreamRole(c))
	return forward(c, res, err, "Category updated successfully", "Failed to update category")
}

func (h *CategoryHTTP) Delete(c echo.Context) error {
	id := c.QueryParam("id")
	if id == "" {
		return proxyFail(c, http.StatusBadRequest, "id parameter is required")
	}
	if !middleware.Can(c, domain.PermCategoryDelete) {
		return proxyFail(c, http.StatusForbidden, "Only ADMIN role can delete categories")
	}

	res, err := h.Files.DeleteCategory(c.Request().Context(), id, upstreamRole(c))
	return forward(c, res, err, "Category deleted successfully", "Failed to delete category")
}

func upstreamRole(c echo.Context) domain.Role {
	return domain.UpstreamRole(middleware.Identity(c).Role)
}

package handler

import (
	"net/http"
	"strconv"

	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /roles と /categories。どちらも小さいカタログなので1ファイルにまとめる。
type CatalogHandler struct {
	roles      *usecase.RoleUsecase
	categories *usecase.CategoryUsecase
}

func NewCatalogHandler(roles *usecase.RoleUsecase, categories *usecase.CategoryUsecase) *CatalogHandler {
	return &CatalogHandler{roles: roles, categories: categories}
}

func (h *CatalogHandler) RegisterRoutes(g *echo.Group) {
	roles := g.Group("/roles")
	roles.GET("", h.listRoles)
	roles.POST("", h.createRole, middleware.RoleGuard(model.RoleManager))
	roles.PUT("/:id", h.updateRole, middleware.RoleGuard(model.RoleManager))
	roles.DELETE("/:id", h.deleteRole, middleware.RoleGuard(model.RoleManager))

	cats := g.Group("/categories")
	cats.GET("", h.listCategories)
	cats.POST("", h.createCategory, middleware.RoleGuard(model.RoleManager))
	cats.PUT("/:id", h.updateCategory, middleware.RoleGuard(model.RoleManager))
	cats.DELETE("/:id", h.deleteCategory, middleware.RoleGuard(model.RoleManager))
}

func (h *CatalogHandler) listRoles(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	roles, err := h.roles.ListRoles(c.Request().Context(), actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": roles})
}

func (h *CatalogHandler) createRole(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.SaveRoleInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	role, err := h.roles.CreateRole(c.Request().Context(), actor, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, role)
}

func (h *CatalogHandler) updateRole(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req usecase.SaveRoleInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.roles.UpdateRole(c.Request().Context(), actor, id, req); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "updated"})
}

func (h *CatalogHandler) deleteRole(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.roles.DeleteRole(c.Request().Context(), actor, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type categoryRequest struct {
	Name string `json:"name"`
}

func (h *CatalogHandler) listCategories(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	cats, err := h.categories.ListCategories(c.Request().Context(), actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": cats})
}

func (h *CatalogHandler) createCategory(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	cat, err := h.categories.CreateCategory(c.Request().Context(), actor, req.Name)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, cat)
}

func (h *CatalogHandler) updateCategory(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.categories.UpdateCategory(c.Request().Context(), actor, id, req.Name); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "updated"})
}

func (h *CatalogHandler) deleteCategory(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.categories.DeleteCategory(c.Request().Context(), actor, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

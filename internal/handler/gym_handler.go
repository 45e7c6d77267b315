package handler

import (
	"net/http"

	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type GymHandler struct {
	uc *usecase.GymUsecase
}

func NewGymHandler(uc *usecase.GymUsecase) *GymHandler {
	return &GymHandler{uc: uc}
}

func (h *GymHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/gym", h.detail)
	g.PUT("/gym", h.update, middleware.RoleGuard(model.RoleManager))
}

func (h *GymHandler) detail(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	gym, err := h.uc.GetMyGym(c.Request().Context(), actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, gym)
}

func (h *GymHandler) update(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.UpdateGymInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.UpdateMyGym(c.Request().Context(), actor, req); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "updated"})
}

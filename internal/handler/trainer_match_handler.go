package handler

import (
	"net/http"
	"strconv"

	"app/internal/domain/model"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type TrainerMatchHandler struct {
	uc *usecase.TrainerMatchUsecase
}

func NewTrainerMatchHandler(uc *usecase.TrainerMatchUsecase) *TrainerMatchHandler {
	return &TrainerMatchHandler{uc: uc}
}

func (h *TrainerMatchHandler) RegisterRoutes(g *echo.Group) {
	matches := g.Group("/trainer-matches")

	matches.POST("", h.request)
	matches.GET("", h.list)
	matches.PATCH("/:id", h.updateStatus)
}

func (h *TrainerMatchHandler) request(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.RequestMatchInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	m, err := h.uc.RequestMatch(c.Request().Context(), actor, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *TrainerMatchHandler) list(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	matches, err := h.uc.ListMyMatches(c.Request().Context(), actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": matches})
}

type matchStatusRequest struct {
	Status string `json:"status"`
}

func (h *TrainerMatchHandler) updateStatus(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req matchStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.UpdateMatchStatus(c.Request().Context(), actor, id, model.TrainerMatchStatus(req.Status)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "updated"})
}

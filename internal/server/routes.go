package server

import (
	"app/internal/config"
	"app/internal/handler"
	"app/internal/middleware"
	"app/internal/repository"

	"github.com/labstack/echo/v4"
)

// Handlersはルート登録に必要なhandler一式。
type Handlers struct {
	Auth         *handler.AuthHandler
	Gym          *handler.GymHandler
	User         *handler.UserHandler
	Catalog      *handler.CatalogHandler
	Equipment    *handler.EquipmentHandler
	Exercise     *handler.ExerciseHandler
	Product      *handler.ProductHandler
	Program      *handler.ProgramHandler
	Order        *handler.OrderHandler
	WorkoutLog   *handler.WorkoutLogHandler
	TrainerMatch *handler.TrainerMatchHandler
	Analytics    *handler.AnalyticsHandler
}

// RegisterRoutesは全ルートを登録する。
// /auth以外はAuthJWT + TokenVersionGuardの下に置く。
func RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository, h Handlers) {
	h.Auth.RegisterRoutes(e, cfg, userRepo)

	api := e.Group("")
	api.Use(middleware.AuthJWT(cfg))
	api.Use(middleware.TokenVersionGuard(userRepo))

	h.Gym.RegisterRoutes(api)
	h.User.RegisterRoutes(api)
	h.Catalog.RegisterRoutes(api)
	h.Equipment.RegisterRoutes(api)
	h.Exercise.RegisterRoutes(api)
	h.Product.RegisterRoutes(api)
	h.Program.RegisterRoutes(api)
	h.Order.RegisterRoutes(api)
	h.WorkoutLog.RegisterRoutes(api)
	h.TrainerMatch.RegisterRoutes(api)
	h.Analytics.RegisterRoutes(api)
}

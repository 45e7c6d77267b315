package server

import (
	"strings"

	"app/internal/config"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	appmw "app/internal/middleware"
)

// Newはechoエンジンを作って共通ミドルウェアを載せる。
func New(cfg config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	rl := appmw.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	e.Use(rl.Middleware())

	return e
}

// Startはサーバーを起動する。
func Start(e *echo.Echo, cfg config.Config) error {
	addr := cfg.Port
	if !strings.HasPrefix(addr, ":") {
		addr = ":" + addr
	}
	return e.Start(addr)
}

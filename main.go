package main

import (
	"log"

	"founder-hub/app/catalog"
	"founder-hub/app/config"
	"founder-hub/app/handlers"
	"founder-hub/app/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg := config.Load()

	lg, err := logger.New(cfg.Log.Mode)
	if err != nil {
		log.Fatal("Error building logger:", err)
	}
	defer lg.Sync()

	registry := catalog.Default()
	lg.Info("catalogs loaded", "count", len(registry.List()))

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			kv := []interface{}{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				lg.Error("request", append(kv, "error", v.Error)...)
				return nil
			}
			lg.Info("request", kv...)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Static("/static", "static")

	h := handlers.NewBaseHandler(cfg, lg, registry)
	h.Register(e)

	lg.Info("server starting", "port", cfg.Server.Port, "env", cfg.Env)
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		lg.Fatal("server stopped", "error", err)
	}
}

package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Register mounts every route on e.
func (h *BaseHandler) Register(e *echo.Echo) {
	e.HTTPErrorHandler = h.HTTPErrorHandler
	// Plain HTML forms tunnel DELETE through a _method field.
	e.Pre(middleware.MethodOverrideWithConfig(middleware.MethodOverrideConfig{
		Getter: middleware.MethodFromForm("_method"),
	}))

	// Public routes
	public := e.Group("")
	public.GET("/", h.Home)
	public.GET("/healthz", h.Healthz)

	// Catalog routes
	catalogs := e.Group("/c/:slug")
	catalogs.GET("", h.CatalogPage)
	catalogs.GET("/items/:id", h.ItemView)
	catalogs.GET("/items/:id/go", h.ItemGo)
	catalogs.POST("/items/:id/toggle/:tracker", h.ToggleTracker)
	catalogs.POST("/items/:id/enroll", h.Enroll)

	// Planner routes
	planner := e.Group("/planner")
	planner.GET("", h.PlannerPage)
	planner.POST("/posts", h.CreatePost)
	planner.POST("/posts/:id/publish", h.PublishPost)
	planner.POST("/posts/:id/status", h.TogglePostStatus)
	planner.DELETE("/posts/:id", h.DeletePost)
	planner.POST("/ideas", h.CreateIdea)
	planner.POST("/ideas/:id/toggle", h.ToggleIdea)
	planner.DELETE("/ideas/:id", h.DeleteIdea)

	// JSON API
	api := e.Group("/api")
	api.GET("/catalogs", h.APICatalogs)
	api.GET("/catalogs/:slug/items", h.APICatalogItems)
}

// Package router defines how HTTP routes are registered for the site.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/fyyur/internal/handler"
	"github.com/iliyamo/fyyur/internal/web"
)

// RegisterRoutes registers the home page, the health check and the static
// assets.
func RegisterRoutes(e *echo.Echo, home *handler.HomeHandler, db handler.Pinger, logger logrus.FieldLogger) {
	e.GET("/", home.Index)
	e.GET("/healthz", handler.Health(db, logger))
	e.StaticFS("/static", web.Static())
}

// SearchPaths are the form targets that do not need a form token: searches
// only read.
var SearchPaths = map[string]bool{
	"/venues/search":  true,
	"/artists/search": true,
}

package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/handler"
)

// RegisterVenues registers the venue pages.  DELETE is also reachable from
// an HTML form through the _method override.
func RegisterVenues(e *echo.Echo, h *handler.VenueHandler) {
	g := e.Group("/venues")
	g.GET("", h.List)
	g.POST("/search", h.Search)
	g.GET("/create", h.CreateForm)
	g.POST("/create", h.Create)
	g.GET("/:id", h.Show)
	g.DELETE("/:id", h.Delete)
	g.GET("/:id/edit", h.EditForm)
	g.POST("/:id/edit", h.Update)
}

// RegisterArtists registers the artist pages.
func RegisterArtists(e *echo.Echo, h *handler.ArtistHandler) {
	g := e.Group("/artists")
	g.GET("", h.List)
	g.POST("/search", h.Search)
	g.GET("/create", h.CreateForm)
	g.POST("/create", h.Create)
	g.GET("/:id", h.Show)
	g.GET("/:id/edit", h.EditForm)
	g.POST("/:id/edit", h.Update)
}

// RegisterShows registers the show listing and booking form.
func RegisterShows(e *echo.Echo, h *handler.ShowHandler) {
	e.GET("/shows", h.List)
	e.GET("/shows/create", h.CreateForm)
	e.POST("/shows/create", h.Create)
}

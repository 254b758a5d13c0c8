package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/fyyur/internal/model"
)

// recentLimit is how many venues and artists the home page lists.
const recentLimit = 10

// HomeHandler serves the landing page.
type HomeHandler struct {
	base
	Venues  VenueStore
	Artists ArtistStore
}

// NewHomeHandler constructs a HomeHandler and panics if any dependency is nil.
func NewHomeHandler(venues VenueStore, artists ArtistStore, logger logrus.FieldLogger) *HomeHandler {
	if venues == nil || artists == nil || logger == nil {
		panic("nil dependency passed to NewHomeHandler")
	}
	return &HomeHandler{base: newBase(nil, logger), Venues: venues, Artists: artists}
}

type homeView struct {
	Venues  []model.VenueSummary
	Artists []model.ArtistSummary
}

// Index renders the most recently listed venues and artists.
func (h *HomeHandler) Index(c echo.Context) error {
	ctx := c.Request().Context()
	venues, err := h.Venues.ListRecent(ctx, recentLimit)
	if err != nil {
		return serverError(err)
	}
	artists, err := h.Artists.ListRecent(ctx, recentLimit)
	if err != nil {
		return serverError(err)
	}
	return h.render(c, http.StatusOK, "pages/home.html", "", homeView{Venues: venues, Artists: artists})
}

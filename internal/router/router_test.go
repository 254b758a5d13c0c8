package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/fyyur/internal/handler"
	"github.com/iliyamo/fyyur/internal/repository"
	"github.com/iliyamo/fyyur/internal/service"
)

func TestRoutes(t *testing.T) {
	raw, _, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()
	db := sqlx.NewDb(raw, "mysql")
	logger, _ := test.NewNullLogger()
	pub := service.NopPublisher{}

	venues, artists, shows := repository.NewVenueRepo(db), repository.NewArtistRepo(db), repository.NewShowRepo(db)

	e := echo.New()
	RegisterRoutes(e, handler.NewHomeHandler(venues, artists, logger), db, logger)
	RegisterVenues(e, handler.NewVenueHandler(venues, shows, pub, logger))
	RegisterArtists(e, handler.NewArtistHandler(artists, shows, pub, logger))
	RegisterShows(e, handler.NewShowHandler(shows, pub, logger))

	got := map[string]bool{}
	for _, r := range e.Routes() {
		got[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /", "GET /healthz",
		"GET /venues", "POST /venues/search", "GET /venues/create", "POST /venues/create",
		"GET /venues/:id", "DELETE /venues/:id", "GET /venues/:id/edit", "POST /venues/:id/edit",
		"GET /artists", "POST /artists/search", "GET /artists/create", "POST /artists/create",
		"GET /artists/:id", "GET /artists/:id/edit", "POST /artists/:id/edit",
		"GET /shows", "GET /shows/create", "POST /shows/create",
	} {
		assert.True(t, got[want], want)
	}
}

func TestStaticAssets(t *testing.T) {
	raw, _, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()
	db := sqlx.NewDb(raw, "mysql")
	logger, _ := test.NewNullLogger()

	e := echo.New()
	RegisterRoutes(e, handler.NewHomeHandler(repository.NewVenueRepo(db), repository.NewArtistRepo(db), logger), db, logger)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/css/main.css", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".navbar")
}

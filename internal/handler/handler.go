// Package handler exposes the HTTP handlers of the site.  Pages are rendered
// server side; every mutation ends in a 303 redirect carrying a flash
// notice.
package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/fyyur/internal/model"
	"github.com/iliyamo/fyyur/internal/queue"
	"github.com/iliyamo/fyyur/internal/repository"
	"github.com/iliyamo/fyyur/internal/web"
)

// VenueStore is the subset of repository.VenueRepo the handlers use.
type VenueStore interface {
	ListRecent(ctx context.Context, limit int) ([]model.VenueSummary, error)
	ListAreas(ctx context.Context, now time.Time) ([]model.Area, error)
	Search(ctx context.Context, term string, now time.Time) (repository.SearchResult[model.VenueSummary], error)
	GetByID(ctx context.Context, id uint64) (*model.Venue, error)
	Create(ctx context.Context, v *model.Venue) error
	Update(ctx context.Context, v *model.Venue) error
	Delete(ctx context.Context, id uint64) (string, error)
}

// ArtistStore is the subset of repository.ArtistRepo the handlers use.
type ArtistStore interface {
	ListRecent(ctx context.Context, limit int) ([]model.ArtistSummary, error)
	ListSummaries(ctx context.Context) ([]model.ArtistSummary, error)
	Search(ctx context.Context, term string) (repository.SearchResult[model.ArtistSummary], error)
	GetByID(ctx context.Context, id uint64) (*model.Artist, error)
	Create(ctx context.Context, a *model.Artist) error
	Update(ctx context.Context, a *model.Artist) error
}

// ShowStore is the subset of repository.ShowRepo the handlers use.
type ShowStore interface {
	ListAll(ctx context.Context) ([]model.ShowListing, error)
	ListByVenue(ctx context.Context, venueID uint64) ([]model.ShowCounterpart, error)
	ListByArtist(ctx context.Context, artistID uint64) ([]model.ShowCounterpart, error)
	Create(ctx context.Context, s *model.Show) error
}

// Publisher delivers activity events.
type Publisher interface {
	Publish(ctx context.Context, ev queue.ActivityEvent) error
}

// base bundles what every handler needs besides its stores.
type base struct {
	Publisher Publisher
	Logger    logrus.FieldLogger
	Now       func() time.Time
}

func newBase(pub Publisher, logger logrus.FieldLogger) base {
	return base{Publisher: pub, Logger: logger, Now: func() time.Time { return time.Now().UTC() }}
}

// render wraps data into the layout page model.
func (b base) render(c echo.Context, status int, name, title string, data any) error {
	return c.Render(status, name, web.NewPage(c, title, data))
}

// redirect queues msg as the next page's notice and sends the browser to
// location with 303 See Other.
func (b base) redirect(c echo.Context, location, msg string) error {
	web.SetFlash(c, msg)
	return c.Redirect(http.StatusSeeOther, location)
}

// publish emits an activity event.  Failures are logged by the publisher
// and never surface to the user.
func (b base) publish(c echo.Context, typ string, id uint64, name string) {
	ev := queue.NewActivityEvent(typ, id, name, b.Now())
	if err := b.Publisher.Publish(c.Request().Context(), ev); err != nil {
		b.log(c).WithError(err).WithField("event", typ).Warn("activity event not published")
	}
}

// log returns the request scoped logger.
func (b base) log(c echo.Context) logrus.FieldLogger {
	return b.Logger.WithFields(logrus.Fields{
		"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
		"path":       c.Request().URL.Path,
	})
}

// parseID reads the :id path parameter.  A malformed id is reported as a
// missing record.
func parseID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.ErrNotFound
	}
	return id, nil
}

// notFound wraps a repository miss for the error handler.
func notFound(err error) error {
	return &echo.HTTPError{Code: http.StatusNotFound, Message: http.StatusText(http.StatusNotFound), Internal: err}
}

// serverError wraps an unexpected failure; the cause is logged, never shown.
func serverError(err error) error {
	return &echo.HTTPError{Code: http.StatusInternalServerError, Message: http.StatusText(http.StatusInternalServerError), Internal: err}
}

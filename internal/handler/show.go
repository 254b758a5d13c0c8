package handler

import (
	"errors"
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/fyyur/internal/model"
	"github.com/iliyamo/fyyur/internal/queue"
	"github.com/iliyamo/fyyur/internal/repository"
)

// ShowHandler serves the show listing and booking form.
type ShowHandler struct {
	base
	Shows ShowStore
}

// NewShowHandler constructs a ShowHandler and panics if any dependency is nil.
func NewShowHandler(shows ShowStore, pub Publisher, logger logrus.FieldLogger) *ShowHandler {
	if shows == nil || pub == nil || logger == nil {
		panic("nil dependency passed to NewShowHandler")
	}
	return &ShowHandler{base: newBase(pub, logger), Shows: shows}
}

// List renders every show with its venue and artist.
func (h *ShowHandler) List(c echo.Context) error {
	shows, err := h.Shows.ListAll(c.Request().Context())
	if err != nil {
		return serverError(err)
	}
	return h.render(c, http.StatusOK, "pages/shows.html", "Shows", shows)
}

// CreateForm renders the booking form, defaulting the start time to now.
func (h *ShowHandler) CreateForm(c echo.Context) error {
	form := ShowForm{StartTime: h.Now().Format(model.ShowTimeLayout)}
	return h.renderForm(c, http.StatusOK, form, nil)
}

// Create books a show.  A dangling artist or venue id is reported like any
// other persistence failure.
func (h *ShowHandler) Create(c echo.Context) error {
	form := bindShowForm(c)
	if err := validation.Validate(form); err != nil {
		return h.renderForm(c, http.StatusUnprocessableEntity, form, err)
	}
	s, err := form.show()
	if err != nil {
		return h.renderForm(c, http.StatusUnprocessableEntity, form, err)
	}

	if err := h.Shows.Create(c.Request().Context(), s); err != nil {
		entry := h.log(c).WithError(err).WithFields(logrus.Fields{"artist_id": s.ArtistID, "venue_id": s.VenueID})
		if errors.Is(err, repository.ErrArtistNotFound) || errors.Is(err, repository.ErrVenueNotFound) {
			entry.Warn("show references a missing record")
		} else {
			entry.Error("show create failed")
		}
		return h.redirect(c, "/", "An error occurred. Show could not be listed.")
	}
	h.publish(c, queue.ShowCreated, s.ID, fmt.Sprintf("artist %d at venue %d", s.ArtistID, s.VenueID))
	return h.redirect(c, "/", "Show was successfully listed!")
}

func (h *ShowHandler) renderForm(c echo.Context, status int, form ShowForm, err error) error {
	view := formView{Heading: "List a new show", Action: "/shows/create", Submit: "Create Show", Form: form, Errors: fieldErrors(err)}
	return h.render(c, status, "forms/show.html", view.Heading, view)
}

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

// VenueHandler serves the venue pages.
type VenueHandler struct {
	base
	Venues VenueStore
	Shows  ShowStore
}

// NewVenueHandler constructs a VenueHandler and panics if any dependency is nil.
func NewVenueHandler(venues VenueStore, shows ShowStore, pub Publisher, logger logrus.FieldLogger) *VenueHandler {
	if venues == nil || shows == nil || pub == nil || logger == nil {
		panic("nil dependency passed to NewVenueHandler")
	}
	return &VenueHandler{base: newBase(pub, logger), Venues: venues, Shows: shows}
}

// venueDetail is the venue page: the record plus its shows split around now.
type venueDetail struct {
	*model.Venue
	PastShows          []model.ShowCounterpart
	UpcomingShows      []model.ShowCounterpart
	PastShowsCount     int
	UpcomingShowsCount int
}

type venueSearch struct {
	Term   string
	Result repository.SearchResult[model.VenueSummary]
}

// List renders every venue grouped by (state, city).
func (h *VenueHandler) List(c echo.Context) error {
	areas, err := h.Venues.ListAreas(c.Request().Context(), h.Now())
	if err != nil {
		return serverError(err)
	}
	return h.render(c, http.StatusOK, "pages/venues.html", "Venues", areas)
}

// Search renders venues whose name contains search_term, ignoring case.
func (h *VenueHandler) Search(c echo.Context) error {
	term := c.FormValue("search_term")
	res, err := h.Venues.Search(c.Request().Context(), term, h.Now())
	if err != nil {
		return serverError(err)
	}
	return h.render(c, http.StatusOK, "pages/search_venues.html", "Venues", venueSearch{Term: term, Result: res})
}

// Show renders one venue with its past and upcoming shows.
func (h *VenueHandler) Show(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	v, err := h.Venues.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return notFound(err)
		}
		return serverError(err)
	}
	shows, err := h.Shows.ListByVenue(ctx, id)
	if err != nil {
		return serverError(err)
	}
	past, upcoming := model.PartitionShows(shows, h.Now())
	return h.render(c, http.StatusOK, "pages/show_venue.html", v.Name, venueDetail{
		Venue:              v,
		PastShows:          past,
		UpcomingShows:      upcoming,
		PastShowsCount:     len(past),
		UpcomingShowsCount: len(upcoming),
	})
}

// CreateForm renders an empty venue form.
func (h *VenueHandler) CreateForm(c echo.Context) error {
	return h.renderForm(c, http.StatusOK, newVenueView(VenueForm{}, nil))
}

// Create lists a new venue.
func (h *VenueHandler) Create(c echo.Context) error {
	form, err := bindVenueForm(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest).SetInternal(err)
	}
	if err := validation.Validate(form); err != nil {
		return h.renderForm(c, http.StatusUnprocessableEntity, newVenueView(form, err))
	}

	v := &model.Venue{}
	form.applyTo(v)
	if err := h.Venues.Create(c.Request().Context(), v); err != nil {
		h.log(c).WithError(err).WithField("venue", v.Name).Error("venue create failed")
		return h.redirect(c, "/", fmt.Sprintf("An error occurred. Venue %s could not be listed.", form.Name))
	}
	h.publish(c, queue.VenueCreated, v.ID, v.Name)
	return h.redirect(c, "/", fmt.Sprintf("Venue %s was successfully listed!", v.Name))
}

// EditForm renders the venue form pre-populated from storage.
func (h *VenueHandler) EditForm(c echo.Context) error {
	v, err := h.load(c)
	if err != nil {
		return err
	}
	return h.renderForm(c, http.StatusOK, editVenueView(v.ID, venueFormFrom(v), nil))
}

// Update overwrites every editable field of a venue.  created_at is kept.
func (h *VenueHandler) Update(c echo.Context) error {
	v, err := h.load(c)
	if err != nil {
		return err
	}
	form, err := bindVenueForm(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest).SetInternal(err)
	}
	if err := validation.Validate(form); err != nil {
		return h.renderForm(c, http.StatusUnprocessableEntity, editVenueView(v.ID, form, err))
	}

	form.applyTo(v)
	detail := fmt.Sprintf("/venues/%d", v.ID)
	if err := h.Venues.Update(c.Request().Context(), v); err != nil {
		h.log(c).WithError(err).WithField("venue_id", v.ID).Error("venue update failed")
		return h.redirect(c, detail, fmt.Sprintf("An error occurred. Venue %s could not be updated.", form.Name))
	}
	h.publish(c, queue.VenueUpdated, v.ID, v.Name)
	return h.redirect(c, detail, fmt.Sprintf("Venue %s was successfully updated!", v.Name))
}

// Delete removes a venue that has no shows.  Every outcome redirects home
// with a notice.
func (h *VenueHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return h.redirect(c, "/", "Venue couldn't be deleted")
	}
	name, err := h.Venues.Delete(c.Request().Context(), id)
	if err != nil {
		entry := h.log(c).WithError(err).WithField("venue_id", id)
		if errors.Is(err, repository.ErrVenueNotFound) || errors.Is(err, repository.ErrConflict) {
			entry.Warn("venue delete refused")
		} else {
			entry.Error("venue delete failed")
		}
		return h.redirect(c, "/", "Venue couldn't be deleted")
	}
	h.publish(c, queue.VenueDeleted, id, name)
	return h.redirect(c, "/", fmt.Sprintf("Venue %s was successfully deleted!", name))
}

func (h *VenueHandler) load(c echo.Context) (*model.Venue, error) {
	id, err := parseID(c)
	if err != nil {
		return nil, err
	}
	v, err := h.Venues.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrVenueNotFound) {
			return nil, notFound(err)
		}
		return nil, serverError(err)
	}
	return v, nil
}

func (h *VenueHandler) renderForm(c echo.Context, status int, view formView) error {
	return h.render(c, status, "forms/venue.html", view.Heading, view)
}

func newVenueView(form VenueForm, err error) formView {
	return formView{Heading: "List a new venue", Action: "/venues/create", Submit: "Create Venue", Form: form, Errors: fieldErrors(err)}
}

func editVenueView(id uint64, form VenueForm, err error) formView {
	return formView{
		Heading: "Edit venue " + form.Name,
		Action:  fmt.Sprintf("/venues/%d/edit", id),
		Submit:  "Save Venue",
		Form:    form,
		Errors:  fieldErrors(err),
	}
}

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

// ArtistHandler serves the artist pages.
type ArtistHandler struct {
	base
	Artists ArtistStore
	Shows   ShowStore
}

// NewArtistHandler constructs an ArtistHandler and panics if any dependency is nil.
func NewArtistHandler(artists ArtistStore, shows ShowStore, pub Publisher, logger logrus.FieldLogger) *ArtistHandler {
	if artists == nil || shows == nil || pub == nil || logger == nil {
		panic("nil dependency passed to NewArtistHandler")
	}
	return &ArtistHandler{base: newBase(pub, logger), Artists: artists, Shows: shows}
}

type artistDetail struct {
	*model.Artist
	PastShows          []model.ShowCounterpart
	UpcomingShows      []model.ShowCounterpart
	PastShowsCount     int
	UpcomingShowsCount int
}

type artistSearch struct {
	Term   string
	Result repository.SearchResult[model.ArtistSummary]
}

// List renders id and name of every artist.
func (h *ArtistHandler) List(c echo.Context) error {
	artists, err := h.Artists.ListSummaries(c.Request().Context())
	if err != nil {
		return serverError(err)
	}
	return h.render(c, http.StatusOK, "pages/artists.html", "Artists", artists)
}

// Search renders artists whose name contains search_term, ignoring case.
func (h *ArtistHandler) Search(c echo.Context) error {
	term := c.FormValue("search_term")
	res, err := h.Artists.Search(c.Request().Context(), term)
	if err != nil {
		return serverError(err)
	}
	return h.render(c, http.StatusOK, "pages/search_artists.html", "Artists", artistSearch{Term: term, Result: res})
}

// Show renders one artist with past and upcoming shows.
func (h *ArtistHandler) Show(c echo.Context) error {
	a, err := h.load(c)
	if err != nil {
		return err
	}
	shows, err := h.Shows.ListByArtist(c.Request().Context(), a.ID)
	if err != nil {
		return serverError(err)
	}
	past, upcoming := model.PartitionShows(shows, h.Now())
	return h.render(c, http.StatusOK, "pages/show_artist.html", a.Name, artistDetail{
		Artist:             a,
		PastShows:          past,
		UpcomingShows:      upcoming,
		PastShowsCount:     len(past),
		UpcomingShowsCount: len(upcoming),
	})
}

// CreateForm renders an empty artist form.
func (h *ArtistHandler) CreateForm(c echo.Context) error {
	return h.renderForm(c, http.StatusOK, newArtistView(ArtistForm{}, nil))
}

// Create lists a new artist.
func (h *ArtistHandler) Create(c echo.Context) error {
	form, err := bindArtistForm(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest).SetInternal(err)
	}
	if err := validation.Validate(form); err != nil {
		return h.renderForm(c, http.StatusUnprocessableEntity, newArtistView(form, err))
	}

	a := &model.Artist{}
	form.applyTo(a)
	if err := h.Artists.Create(c.Request().Context(), a); err != nil {
		h.log(c).WithError(err).WithField("artist", a.Name).Error("artist create failed")
		return h.redirect(c, "/", fmt.Sprintf("An error occurred. Artist %s could not be listed.", form.Name))
	}
	h.publish(c, queue.ArtistCreated, a.ID, a.Name)
	return h.redirect(c, "/", fmt.Sprintf("Artist %s was successfully listed!", a.Name))
}

// EditForm renders the artist form pre-populated from storage.
func (h *ArtistHandler) EditForm(c echo.Context) error {
	a, err := h.load(c)
	if err != nil {
		return err
	}
	return h.renderForm(c, http.StatusOK, editArtistView(a.ID, artistFormFrom(a), nil))
}

// Update overwrites every editable field of an artist.
func (h *ArtistHandler) Update(c echo.Context) error {
	a, err := h.load(c)
	if err != nil {
		return err
	}
	form, err := bindArtistForm(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest).SetInternal(err)
	}
	if err := validation.Validate(form); err != nil {
		return h.renderForm(c, http.StatusUnprocessableEntity, editArtistView(a.ID, form, err))
	}

	form.applyTo(a)
	detail := fmt.Sprintf("/artists/%d", a.ID)
	if err := h.Artists.Update(c.Request().Context(), a); err != nil {
		h.log(c).WithError(err).WithField("artist_id", a.ID).Error("artist update failed")
		return h.redirect(c, detail, fmt.Sprintf("An error occurred. Artist %s could not be updated.", form.Name))
	}
	h.publish(c, queue.ArtistUpdated, a.ID, a.Name)
	return h.redirect(c, detail, fmt.Sprintf("Artist %s was successfully updated!", a.Name))
}

func (h *ArtistHandler) load(c echo.Context) (*model.Artist, error) {
	id, err := parseID(c)
	if err != nil {
		return nil, err
	}
	a, err := h.Artists.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrArtistNotFound) {
			return nil, notFound(err)
		}
		return nil, serverError(err)
	}
	return a, nil
}

func (h *ArtistHandler) renderForm(c echo.Context, status int, view formView) error {
	return h.render(c, status, "forms/artist.html", view.Heading, view)
}

func newArtistView(form ArtistForm, err error) formView {
	return formView{Heading: "List a new artist", Action: "/artists/create", Submit: "Create Artist", Form: form, Errors: fieldErrors(err)}
}

func editArtistView(id uint64, form ArtistForm, err error) formView {
	return formView{
		Heading: "Edit artist " + form.Name,
		Action:  fmt.Sprintf("/artists/%d/edit", id),
		Submit:  "Save Artist",
		Form:    form,
		Errors:  fieldErrors(err),
	}
}

package handler

import (
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fyyur/internal/model"
)

var (
	phonePattern = regexp.MustCompile(`^[0-9+() .-]{7,20}$`)
	stateChoices = toAny(model.States)
)

// startTimeLayouts are the accepted spellings of a show's start time.
var startTimeLayouts = []string{
	model.ShowTimeLayout,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

func toAny(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// formBool decodes a checkbox: the forms post "y" when ticked, so "y" means
// true and absence or anything else means false.
func formBool(values url.Values, key string) bool {
	return values.Get(key) == "y"
}

// fieldErrors flattens ozzo validation errors for the templates.
func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	var ve validation.Errors
	if errors.As(err, &ve) {
		for field, e := range ve {
			out[field] = e.Error()
		}
	}
	return out
}

// formView is what the form templates render.
type formView struct {
	Heading string
	Action  string
	Submit  string
	Form    any
	Errors  map[string]string
}

func profileRules(name, city, state, phone string, genres model.Genres, website, facebook, image, description string) validation.Errors {
	return validation.Errors{
		"name":                validation.Validate(name, validation.Required, validation.Length(1, 120)),
		"city":                validation.Validate(city, validation.Required, validation.Length(1, 120)),
		"state":               validation.Validate(state, validation.Required, validation.In(stateChoices...)),
		"phone":               validation.Validate(phone, validation.Length(0, 120), validation.Match(phonePattern).Error("must be a valid phone number")),
		"genres":              validation.Validate([]string(genres), validation.Required.Error("choose at least one genre")),
		"website_link":        validation.Validate(website, validation.Length(0, 120), is.URL),
		"facebook_link":       validation.Validate(facebook, validation.Length(0, 120), is.URL),
		"image_link":          validation.Validate(image, validation.Length(0, 500), is.URL),
		"seeking_description": validation.Validate(description, validation.Length(0, 500)),
	}
}

// VenueForm is the venue create/edit form.
type VenueForm struct {
	Name               string
	Genres             model.Genres
	Address            string
	City               string
	State              string
	Phone              string
	WebsiteLink        string
	FacebookLink       string
	ImageLink          string
	SeekingTalent      bool
	SeekingDescription string
}

func bindVenueForm(c echo.Context) (VenueForm, error) {
	values, err := c.FormParams()
	if err != nil {
		return VenueForm{}, err
	}
	return VenueForm{
		Name:               strings.TrimSpace(values.Get("name")),
		Genres:             model.GenresFromValues(values["genres"]),
		Address:            strings.TrimSpace(values.Get("address")),
		City:               strings.TrimSpace(values.Get("city")),
		State:              strings.TrimSpace(values.Get("state")),
		Phone:              strings.TrimSpace(values.Get("phone")),
		WebsiteLink:        strings.TrimSpace(values.Get("website_link")),
		FacebookLink:       strings.TrimSpace(values.Get("facebook_link")),
		ImageLink:          strings.TrimSpace(values.Get("image_link")),
		SeekingTalent:      formBool(values, "seeking_talent"),
		SeekingDescription: strings.TrimSpace(values.Get("seeking_description")),
	}, nil
}

func venueFormFrom(v *model.Venue) VenueForm {
	return VenueForm{
		Name:               v.Name,
		Genres:             v.Genres,
		Address:            v.Address,
		City:               v.City,
		State:              v.State,
		Phone:              v.Phone,
		WebsiteLink:        v.Website,
		FacebookLink:       v.FacebookLink,
		ImageLink:          v.ImageLink,
		SeekingTalent:      v.SeekingTalent,
		SeekingDescription: v.SeekingDescription,
	}
}

// Validate implements validation.Validatable.
func (f VenueForm) Validate() error {
	errs := profileRules(f.Name, f.City, f.State, f.Phone, f.Genres, f.WebsiteLink, f.FacebookLink, f.ImageLink, f.SeekingDescription)
	errs["address"] = validation.Validate(f.Address, validation.Length(0, 120))
	return errs.Filter()
}

// applyTo overwrites every editable field of v.
func (f VenueForm) applyTo(v *model.Venue) {
	v.Name = f.Name
	v.Genres = f.Genres
	v.Address = f.Address
	v.City = f.City
	v.State = f.State
	v.Phone = f.Phone
	v.Website = f.WebsiteLink
	v.FacebookLink = f.FacebookLink
	v.ImageLink = f.ImageLink
	v.SeekingTalent = f.SeekingTalent
	v.SeekingDescription = f.SeekingDescription
}

// ArtistForm is the artist create/edit form.
type ArtistForm struct {
	Name               string
	Genres             model.Genres
	City               string
	State              string
	Phone              string
	WebsiteLink        string
	FacebookLink       string
	ImageLink          string
	SeekingVenue       bool
	SeekingDescription string
}

func bindArtistForm(c echo.Context) (ArtistForm, error) {
	values, err := c.FormParams()
	if err != nil {
		return ArtistForm{}, err
	}
	return ArtistForm{
		Name:               strings.TrimSpace(values.Get("name")),
		Genres:             model.GenresFromValues(values["genres"]),
		City:               strings.TrimSpace(values.Get("city")),
		State:              strings.TrimSpace(values.Get("state")),
		Phone:              strings.TrimSpace(values.Get("phone")),
		WebsiteLink:        strings.TrimSpace(values.Get("website_link")),
		FacebookLink:       strings.TrimSpace(values.Get("facebook_link")),
		ImageLink:          strings.TrimSpace(values.Get("image_link")),
		SeekingVenue:       formBool(values, "seeking_venue"),
		SeekingDescription: strings.TrimSpace(values.Get("seeking_description")),
	}, nil
}

func artistFormFrom(a *model.Artist) ArtistForm {
	return ArtistForm{
		Name:               a.Name,
		Genres:             a.Genres,
		City:               a.City,
		State:              a.State,
		Phone:              a.Phone,
		WebsiteLink:        a.Website,
		FacebookLink:       a.FacebookLink,
		ImageLink:          a.ImageLink,
		SeekingVenue:       a.SeekingVenue,
		SeekingDescription: a.SeekingDescription,
	}
}

// Validate implements validation.Validatable.
func (f ArtistForm) Validate() error {
	return profileRules(f.Name, f.City, f.State, f.Phone, f.Genres, f.WebsiteLink, f.FacebookLink, f.ImageLink, f.SeekingDescription).Filter()
}

func (f ArtistForm) applyTo(a *model.Artist) {
	a.Name = f.Name
	a.Genres = f.Genres
	a.City = f.City
	a.State = f.State
	a.Phone = f.Phone
	a.Website = f.WebsiteLink
	a.FacebookLink = f.FacebookLink
	a.ImageLink = f.ImageLink
	a.SeekingVenue = f.SeekingVenue
	a.SeekingDescription = f.SeekingDescription
}

// ShowForm is the show booking form.  Values are kept as typed so a
// rejected form can be shown back unchanged.
type ShowForm struct {
	ArtistID  string
	VenueID   string
	StartTime string
}

func bindShowForm(c echo.Context) ShowForm {
	return ShowForm{
		ArtistID:  strings.TrimSpace(c.FormValue("artist_id")),
		VenueID:   strings.TrimSpace(c.FormValue("venue_id")),
		StartTime: strings.TrimSpace(c.FormValue("start_time")),
	}
}

// Validate implements validation.Validatable.
func (f ShowForm) Validate() error {
	return validation.Errors{
		"artist_id":  validation.Validate(f.ArtistID, validation.Required, validation.By(checkID)),
		"venue_id":   validation.Validate(f.VenueID, validation.Required, validation.By(checkID)),
		"start_time": validation.Validate(f.StartTime, validation.Required, validation.By(checkStartTime)),
	}.Filter()
}

var errID = errors.New("must be a valid id")

// parseFormID accepts a positive decimal id that fits in uint64.
func parseFormID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, errID
	}
	return id, nil
}

func checkID(value interface{}) error {
	s, _ := value.(string)
	_, err := parseFormID(s)
	return err
}

func checkStartTime(value interface{}) error {
	s, _ := value.(string)
	_, err := parseStartTime(s)
	return err
}

var errStartTime = errors.New("must be a date and time like 2026-05-21 21:30:00")

// parseStartTime accepts any of startTimeLayouts, interpreted as UTC.
func parseStartTime(s string) (time.Time, error) {
	for _, layout := range startTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errStartTime
}

// show converts a validated form.  Errors are keyed by field so they render
// next to the offending input.
func (f ShowForm) show() (*model.Show, error) {
	artistID, err := parseFormID(f.ArtistID)
	if err != nil {
		return nil, validation.Errors{"artist_id": err}
	}
	venueID, err := parseFormID(f.VenueID)
	if err != nil {
		return nil, validation.Errors{"venue_id": err}
	}
	start, err := parseStartTime(f.StartTime)
	if err != nil {
		return nil, validation.Errors{"start_time": err}
	}
	return &model.Show{ArtistID: artistID, VenueID: venueID, StartTime: start}, nil
}

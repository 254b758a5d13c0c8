package model

import "time"

// ShowTimeLayout is how start times are rendered in listings and detail
// pages and the primary layout accepted by the show form.
const ShowTimeLayout = "2006-01-02 15:04:05"

// Show is a scheduled booking linking one artist to one venue.
type Show struct {
	ID        uint64    `db:"id"`
	ArtistID  uint64    `db:"artist_id"`
	VenueID   uint64    `db:"venue_id"`
	StartTime time.Time `db:"start_time"`
}

// ShowListing is a show joined with both counterparts, as rendered on the
// /shows page.
type ShowListing struct {
	ID              uint64    `db:"id"`
	VenueID         uint64    `db:"venue_id"`
	VenueName       string    `db:"venue_name"`
	ArtistID        uint64    `db:"artist_id"`
	ArtistName      string    `db:"artist_name"`
	ArtistImageLink string    `db:"artist_image_link"`
	StartTime       time.Time `db:"start_time"`
}

// FormattedStart renders the start time with ShowTimeLayout.
func (s ShowListing) FormattedStart() string { return s.StartTime.Format(ShowTimeLayout) }

// ShowCounterpart is a show seen from one side: on a venue page the
// counterpart is the artist, on an artist page it is the venue.
type ShowCounterpart struct {
	ShowID    uint64    `db:"show_id"`
	ID        uint64    `db:"counterpart_id"`
	Name      string    `db:"counterpart_name"`
	ImageLink string    `db:"counterpart_image_link"`
	StartTime time.Time `db:"start_time"`
}

// FormattedStart renders the start time with ShowTimeLayout.
func (s ShowCounterpart) FormattedStart() string { return s.StartTime.Format(ShowTimeLayout) }

// IsUpcoming reports whether a show starting at start is still ahead at now.
// A show starting exactly at now counts as upcoming.
func IsUpcoming(start, now time.Time) bool {
	return !start.Before(now)
}

// PartitionShows splits shows into past and upcoming relative to now,
// preserving input order within each bucket.  Both results are non-nil.
func PartitionShows(shows []ShowCounterpart, now time.Time) (past, upcoming []ShowCounterpart) {
	past = make([]ShowCounterpart, 0)
	upcoming = make([]ShowCounterpart, 0)
	for _, s := range shows {
		if IsUpcoming(s.StartTime, now) {
			upcoming = append(upcoming, s)
		} else {
			past = append(past, s)
		}
	}
	return past, upcoming
}

package model

import "time"

// Venue represents a location that can host shows.  It corresponds to a row
// in the `venues` table.
//
// Fields:
//
//	ID                 - primary key identifier.
//	Name               - display name of the venue.
//	Genres             - genres the venue books, stored comma-joined.
//	Address, City, State - location; (State, City) is the listing area.
//	SeekingTalent      - whether the venue is looking for artists.
//	CreatedAt          - when the venue was listed; never changed by edits.
type Venue struct {
	ID                 uint64    `db:"id"`
	Name               string    `db:"name"`
	Genres             Genres    `db:"genres"`
	Address            string    `db:"address"`
	City               string    `db:"city"`
	State              string    `db:"state"`
	Phone              string    `db:"phone"`
	Website            string    `db:"website"`
	FacebookLink       string    `db:"facebook_link"`
	ImageLink          string    `db:"image_link"`
	SeekingTalent      bool      `db:"seeking_talent"`
	SeekingDescription string    `db:"seeking_description"`
	CreatedAt          time.Time `db:"created_at"`
}

// VenueSummary is a venue in the grouped listing, carrying the number of
// shows still ahead at that venue.
type VenueSummary struct {
	ID               uint64 `db:"id"`
	Name             string `db:"name"`
	City             string `db:"city"`
	State            string `db:"state"`
	NumUpcomingShows int    `db:"num_upcoming_shows"`
}

// Area is one (state, city) bucket of the venue listing.
type Area struct {
	State  string
	City   string
	Venues []VenueSummary
}

// GroupByArea folds venue summaries into areas.  Every venue lands in
// exactly one area; areas keep the order in which they first appear, so
// input sorted by (state, city) yields sorted areas.
func GroupByArea(venues []VenueSummary) []Area {
	type key struct{ state, city string }
	index := make(map[key]int)
	areas := make([]Area, 0)
	for _, v := range venues {
		k := key{v.State, v.City}
		i, ok := index[k]
		if !ok {
			i = len(areas)
			index[k] = i
			areas = append(areas, Area{State: v.State, City: v.City})
		}
		areas[i].Venues = append(areas[i].Venues, v)
	}
	return areas
}

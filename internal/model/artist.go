package model

import "time"

// Artist represents a performer that can be booked for shows.  It
// corresponds to a row in the `artists` table.
type Artist struct {
	ID                 uint64    `db:"id"`
	Name               string    `db:"name"`
	Genres             Genres    `db:"genres"`
	City               string    `db:"city"`
	State              string    `db:"state"`
	Phone              string    `db:"phone"`
	Website            string    `db:"website"`
	FacebookLink       string    `db:"facebook_link"`
	ImageLink          string    `db:"image_link"`
	SeekingVenue       bool      `db:"seeking_venue"`
	SeekingDescription string    `db:"seeking_description"`
	CreatedAt          time.Time `db:"created_at"`
}

// ArtistSummary is the id/name pair shown in the artist listing.
type ArtistSummary struct {
	ID   uint64 `db:"id"`
	Name string `db:"name"`
}

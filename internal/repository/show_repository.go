package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/fyyur/internal/model"
)

// ShowRepo encapsulates all database queries related to shows.
type ShowRepo struct {
	db *sqlx.DB
}

// NewShowRepo constructs a ShowRepo with the provided DB handle.
func NewShowRepo(db *sqlx.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// ListAll returns every show joined with its venue and artist, earliest
// first.
func (r *ShowRepo) ListAll(ctx context.Context) ([]model.ShowListing, error) {
	const q = `SELECT s.id, s.venue_id, v.name AS venue_name, s.artist_id,
		a.name AS artist_name, a.image_link AS artist_image_link, s.start_time
		FROM shows s
		JOIN venues v  ON v.id = s.venue_id
		JOIN artists a ON a.id = s.artist_id
		ORDER BY s.start_time, s.id`
	out := []model.ShowListing{}
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByVenue returns the shows at a venue; the counterpart is the artist.
func (r *ShowRepo) ListByVenue(ctx context.Context, venueID uint64) ([]model.ShowCounterpart, error) {
	const q = `SELECT s.id AS show_id, a.id AS counterpart_id, a.name AS counterpart_name,
		a.image_link AS counterpart_image_link, s.start_time
		FROM shows s
		JOIN artists a ON a.id = s.artist_id
		WHERE s.venue_id = ?
		ORDER BY s.start_time, s.id`
	out := []model.ShowCounterpart{}
	if err := r.db.SelectContext(ctx, &out, q, venueID); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByArtist returns the shows of an artist; the counterpart is the venue.
func (r *ShowRepo) ListByArtist(ctx context.Context, artistID uint64) ([]model.ShowCounterpart, error) {
	const q = `SELECT s.id AS show_id, v.id AS counterpart_id, v.name AS counterpart_name,
		v.image_link AS counterpart_image_link, s.start_time
		FROM shows s
		JOIN venues v ON v.id = s.venue_id
		WHERE s.artist_id = ?
		ORDER BY s.start_time, s.id`
	out := []model.ShowCounterpart{}
	if err := r.db.SelectContext(ctx, &out, q, artistID); err != nil {
		return nil, err
	}
	return out, nil
}

// Create books a show.  Both the artist and the venue must exist; they are
// share-locked for the duration of the insert so neither can disappear
// underneath it.  ErrArtistNotFound or ErrVenueNotFound is returned when a
// reference is dangling and nothing is written.
func (r *ShowRepo) Create(ctx context.Context, s *model.Show) error {
	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := lockExisting(ctx, tx, `SELECT id FROM artists WHERE id = ? LOCK IN SHARE MODE`, s.ArtistID, ErrArtistNotFound); err != nil {
			return err
		}
		if err := lockExisting(ctx, tx, `SELECT id FROM venues WHERE id = ? LOCK IN SHARE MODE`, s.VenueID, ErrVenueNotFound); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO shows (artist_id, venue_id, start_time) VALUES (?, ?, ?)`,
			s.ArtistID, s.VenueID, s.StartTime)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		s.ID = uint64(id)
		return nil
	})
}

func lockExisting(ctx context.Context, tx *sqlx.Tx, q string, id uint64, notFound error) error {
	var got uint64
	if err := tx.GetContext(ctx, &got, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound
		}
		return err
	}
	return nil
}

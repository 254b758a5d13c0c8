package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/fyyur/internal/model"
)

const venueColumns = `id, name, genres, address, city, state, phone, website,
	facebook_link, image_link, seeking_talent, seeking_description, created_at`

// venueSummarySelect selects venues together with their own upcoming show
// count.  The count is joined per venue; the start_time bound lives in the
// join condition so venues without upcoming shows still appear with 0.
const venueSummarySelect = `SELECT v.id, v.name, v.city, v.state, COUNT(s.id) AS num_upcoming_shows
	FROM venues v
	LEFT JOIN shows s ON s.venue_id = v.id AND s.start_time >= ?`

// VenueRepo encapsulates all database queries related to venues.  It
// depends on a sqlx.DB handle that is opened and closed by main.
type VenueRepo struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewVenueRepo constructs a VenueRepo with the provided DB handle.
func NewVenueRepo(db *sqlx.DB) *VenueRepo {
	return &VenueRepo{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// ListRecent returns the most recently listed venues, newest first.
func (r *VenueRepo) ListRecent(ctx context.Context, limit int) ([]model.VenueSummary, error) {
	const q = `SELECT id, name, city, state FROM venues ORDER BY created_at DESC, id DESC LIMIT ?`
	out := []model.VenueSummary{}
	if err := r.db.SelectContext(ctx, &out, q, limit); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAreas returns every venue grouped by (state, city).  Each venue
// carries the number of its shows starting at or after now.
func (r *VenueRepo) ListAreas(ctx context.Context, now time.Time) ([]model.Area, error) {
	const q = venueSummarySelect + `
	GROUP BY v.id, v.name, v.city, v.state
	ORDER BY v.state, v.city, v.id`
	var rows []model.VenueSummary
	if err := r.db.SelectContext(ctx, &rows, q, now); err != nil {
		return nil, err
	}
	return model.GroupByArea(rows), nil
}

// Search returns venues whose name contains term, ignoring case.
func (r *VenueRepo) Search(ctx context.Context, term string, now time.Time) (SearchResult[model.VenueSummary], error) {
	const q = venueSummarySelect + `
	WHERE LOWER(v.name) LIKE ?
	GROUP BY v.id, v.name, v.city, v.state
	ORDER BY v.id`
	var rows []model.VenueSummary
	if err := r.db.SelectContext(ctx, &rows, q, now, containsPattern(term)); err != nil {
		return SearchResult[model.VenueSummary]{}, err
	}
	return newSearchResult(rows), nil
}

// GetByID fetches a venue by its ID.  It returns ErrVenueNotFound if no row
// is found.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
	const q = `SELECT ` + venueColumns + ` FROM venues WHERE id = ?`
	var v model.Venue
	if err := r.db.GetContext(ctx, &v, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return &v, nil
}

// Create inserts a new venue.  On success ID and CreatedAt are populated.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
	const q = `INSERT INTO venues
		(name, genres, address, city, state, phone, website, facebook_link,
		 image_link, seeking_talent, seeking_description, created_at)
		VALUES
		(:name, :genres, :address, :city, :state, :phone, :website, :facebook_link,
		 :image_link, :seeking_talent, :seeking_description, :created_at)`
	v.CreatedAt = r.now().Truncate(time.Second)
	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.NamedExecContext(ctx, q, v)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		v.ID = uint64(id)
		return nil
	})
}

// Update overwrites every editable field of the venue identified by v.ID.
// created_at is left as it was when the venue was listed.  It returns
// ErrVenueNotFound when the venue does not exist.
func (r *VenueRepo) Update(ctx context.Context, v *model.Venue) error {
	const q = `UPDATE venues SET
		name = :name, genres = :genres, address = :address, city = :city,
		state = :state, phone = :phone, website = :website,
		facebook_link = :facebook_link, image_link = :image_link,
		seeking_talent = :seeking_talent, seeking_description = :seeking_description
		WHERE id = :id`
	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var id uint64
		if err := tx.GetContext(ctx, &id, `SELECT id FROM venues WHERE id = ? FOR UPDATE`, v.ID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrVenueNotFound
			}
			return err
		}
		_, err := tx.NamedExecContext(ctx, q, v)
		return err
	})
}

// Delete removes a venue and returns its name.  Venues that still have
// shows are never deleted: ErrConflict is returned and nothing changes.  A
// missing venue yields ErrVenueNotFound.
func (r *VenueRepo) Delete(ctx context.Context, id uint64) (string, error) {
	var name string
	err := inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &name, `SELECT name FROM venues WHERE id = ? FOR UPDATE`, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrVenueNotFound
			}
			return err
		}
		var shows int
		if err := tx.GetContext(ctx, &shows, `SELECT COUNT(*) FROM shows WHERE venue_id = ?`, id); err != nil {
			return err
		}
		if shows > 0 {
			return ErrConflict
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM venues WHERE id = ?`, id)
		return err
	})
	if err != nil {
		return "", err
	}
	return name, nil
}

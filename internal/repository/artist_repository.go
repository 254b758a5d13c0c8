package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/fyyur/internal/model"
)

const artistColumns = `id, name, genres, city, state, phone, website,
	facebook_link, image_link, seeking_venue, seeking_description, created_at`

// ArtistRepo encapsulates all database queries related to artists.
type ArtistRepo struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewArtistRepo constructs an ArtistRepo with the provided DB handle.
func NewArtistRepo(db *sqlx.DB) *ArtistRepo {
	return &ArtistRepo{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// ListRecent returns the most recently listed artists, newest first.
func (r *ArtistRepo) ListRecent(ctx context.Context, limit int) ([]model.ArtistSummary, error) {
	const q = `SELECT id, name FROM artists ORDER BY created_at DESC, id DESC LIMIT ?`
	out := []model.ArtistSummary{}
	if err := r.db.SelectContext(ctx, &out, q, limit); err != nil {
		return nil, err
	}
	return out, nil
}

// ListSummaries returns id and name of every artist in storage order.
func (r *ArtistRepo) ListSummaries(ctx context.Context) ([]model.ArtistSummary, error) {
	out := []model.ArtistSummary{}
	if err := r.db.SelectContext(ctx, &out, `SELECT id, name FROM artists`); err != nil {
		return nil, err
	}
	return out, nil
}

// Search returns artists whose name contains term, ignoring case.
func (r *ArtistRepo) Search(ctx context.Context, term string) (SearchResult[model.ArtistSummary], error) {
	const q = `SELECT id, name FROM artists WHERE LOWER(name) LIKE ? ORDER BY id`
	var rows []model.ArtistSummary
	if err := r.db.SelectContext(ctx, &rows, q, containsPattern(term)); err != nil {
		return SearchResult[model.ArtistSummary]{}, err
	}
	return newSearchResult(rows), nil
}

// GetByID fetches an artist by its ID, or ErrArtistNotFound.
func (r *ArtistRepo) GetByID(ctx context.Context, id uint64) (*model.Artist, error) {
	const q = `SELECT ` + artistColumns + ` FROM artists WHERE id = ?`
	var a model.Artist
	if err := r.db.GetContext(ctx, &a, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrArtistNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Create inserts a new artist.  On success ID and CreatedAt are populated.
func (r *ArtistRepo) Create(ctx context.Context, a *model.Artist) error {
	const q = `INSERT INTO artists
		(name, genres, city, state, phone, website, facebook_link,
		 image_link, seeking_venue, seeking_description, created_at)
		VALUES
		(:name, :genres, :city, :state, :phone, :website, :facebook_link,
		 :image_link, :seeking_venue, :seeking_description, :created_at)`
	a.CreatedAt = r.now().Truncate(time.Second)
	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.NamedExecContext(ctx, q, a)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		a.ID = uint64(id)
		return nil
	})
}

// Update overwrites every editable field of the artist identified by a.ID.
func (r *ArtistRepo) Update(ctx context.Context, a *model.Artist) error {
	const q = `UPDATE artists SET
		name = :name, genres = :genres, city = :city, state = :state,
		phone = :phone, website = :website, facebook_link = :facebook_link,
		image_link = :image_link, seeking_venue = :seeking_venue,
		seeking_description = :seeking_description
		WHERE id = :id`
	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var id uint64
		if err := tx.GetContext(ctx, &id, `SELECT id FROM artists WHERE id = ? FOR UPDATE`, a.ID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrArtistNotFound
			}
			return err
		}
		_, err := tx.NamedExecContext(ctx, q, a)
		return err
	})
}

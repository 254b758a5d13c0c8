package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/fyyur/internal/model"
)

func TestArtistRepo_ListSummaries(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewArtistRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM artists")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(4, "Guns N Petals").
			AddRow(5, "Matt Quevado").
			AddRow(6, "The Wild Sax Band"))

	out, err := repo.ListSummaries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.ArtistSummary{
		{ID: 4, Name: "Guns N Petals"},
		{ID: 5, Name: "Matt Quevado"},
		{ID: 6, Name: "The Wild Sax Band"},
	}, out)
}

func TestArtistRepo_Search(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewArtistRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE LOWER(name) LIKE ?")).
		WithArgs("%band%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(6, "The Wild Sax Band"))

	res, err := repo.Search(context.Background(), "BAND")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, "The Wild Sax Band", res.Items[0].Name)
}

func TestArtistRepo_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewArtistRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM artists WHERE id = ?")).
		WithArgs(uint64(4)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "genres", "city", "state", "phone", "website", "facebook_link",
			"image_link", "seeking_venue", "seeking_description", "created_at",
		}).AddRow(4, "Guns N Petals", "Rock n Roll", "San Francisco", "CA", "326-123-5000",
			"https://www.gunsnpetalsband.com", "https://www.facebook.com/GunsNPetals",
			"https://images.example/gnp.jpg", true, "Looking for shows", fixedNow))

	a, err := repo.GetByID(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, model.Genres{"Rock n Roll"}, a.Genres)
	assert.True(t, a.SeekingVenue)
}

func TestArtistRepo_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewArtistRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM artists WHERE id = ?")).
		WithArgs(uint64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 8)
	assert.ErrorIs(t, err, ErrArtistNotFound)
}

func TestArtistRepo_Create_SetsCreatedAt(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewArtistRepo(db)
	repo.now = func() time.Time { return fixedNow }

	a := &model.Artist{Name: "Matt Quevado", Genres: model.Genres{"Jazz", "Blues"}, City: "New York", State: "NY"}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO artists")).
		WithArgs("Matt Quevado", "Jazz,Blues", "New York", "NY", "", "", "", "", false, "", fixedNow).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), a))
	assert.Equal(t, uint64(5), a.ID)
	assert.Equal(t, fixedNow, a.CreatedAt)
}

func TestArtistRepo_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewArtistRepo(db)

	a := &model.Artist{ID: 5, Name: "Matt Quevado", Genres: model.Genres{"Jazz"}, City: "New York", State: "NY", SeekingVenue: true}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM artists WHERE id = ? FOR UPDATE")).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectExec(`UPDATE artists SET[^;]*WHERE id = \?`).
		WithArgs("Matt Quevado", "Jazz", "New York", "NY", "", "", "", "", true, "", uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Update(context.Background(), a))
}

func TestArtistRepo_Update_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewArtistRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM artists WHERE id = ? FOR UPDATE")).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	assert.ErrorIs(t, repo.Update(context.Background(), &model.Artist{ID: 5}), ErrArtistNotFound)
}

package handler

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/fyyur/internal/model"
	"github.com/iliyamo/fyyur/internal/queue"
	"github.com/iliyamo/fyyur/internal/repository"
)

// memDB is an in-memory stand-in for the three tables.  When fail is set
// every write returns it.
type memDB struct {
	mu      sync.Mutex
	venues  []*model.Venue
	artists []*model.Artist
	shows   []model.Show
	nextID  uint64
	fail    error
}

func (db *memDB) id() uint64 { db.nextID++; return db.nextID }

func (db *memDB) venue(id uint64) *model.Venue {
	for _, v := range db.venues {
		if v.ID == id {
			return v
		}
	}
	return nil
}

func (db *memDB) artist(id uint64) *model.Artist {
	for _, a := range db.artists {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func matches(name, term string) bool {
	return strings.Contains(strings.ToLower(name), strings.ToLower(term))
}

type fakeVenues struct{ *memDB }

func (f fakeVenues) summaries(now time.Time, keep func(*model.Venue) bool) []model.VenueSummary {
	out := []model.VenueSummary{}
	for _, v := range f.venues {
		if !keep(v) {
			continue
		}
		s := model.VenueSummary{ID: v.ID, Name: v.Name, City: v.City, State: v.State}
		for _, sh := range f.shows {
			if sh.VenueID == v.ID && model.IsUpcoming(sh.StartTime, now) {
				s.NumUpcomingShows++
			}
		}
		out = append(out, s)
	}
	return out
}

func (f fakeVenues) ListRecent(_ context.Context, limit int) ([]model.VenueSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.VenueSummary{}
	for i := len(f.venues) - 1; i >= 0 && len(out) < limit; i-- {
		v := f.venues[i]
		out = append(out, model.VenueSummary{ID: v.ID, Name: v.Name, City: v.City, State: v.State})
	}
	return out, nil
}

func (f fakeVenues) ListAreas(_ context.Context, now time.Time) ([]model.Area, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := f.summaries(now, func(*model.Venue) bool { return true })
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].State != rows[j].State {
			return rows[i].State < rows[j].State
		}
		if rows[i].City != rows[j].City {
			return rows[i].City < rows[j].City
		}
		return rows[i].ID < rows[j].ID
	})
	return model.GroupByArea(rows), nil
}

func (f fakeVenues) Search(_ context.Context, term string, now time.Time) (repository.SearchResult[model.VenueSummary], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := f.summaries(now, func(v *model.Venue) bool { return matches(v.Name, term) })
	return repository.SearchResult[model.VenueSummary]{Count: len(items), Items: items}, nil
}

func (f fakeVenues) GetByID(_ context.Context, id uint64) (*model.Venue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.venue(id)
	if v == nil {
		return nil, repository.ErrVenueNotFound
	}
	cp := *v
	return &cp, nil
}

func (f fakeVenues) Create(_ context.Context, v *model.Venue) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	v.ID = f.id()
	v.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cp := *v
	f.venues = append(f.venues, &cp)
	return nil
}

func (f fakeVenues) Update(_ context.Context, v *model.Venue) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	cur := f.venue(v.ID)
	if cur == nil {
		return repository.ErrVenueNotFound
	}
	created := cur.CreatedAt
	*cur = *v
	cur.CreatedAt = created
	return nil
}

func (f fakeVenues) Delete(_ context.Context, id uint64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return "", f.fail
	}
	for i, v := range f.venues {
		if v.ID != id {
			continue
		}
		for _, s := range f.shows {
			if s.VenueID == id {
				return "", repository.ErrConflict
			}
		}
		f.venues = append(f.venues[:i], f.venues[i+1:]...)
		return v.Name, nil
	}
	return "", repository.ErrVenueNotFound
}

type fakeArtists struct{ *memDB }

func (f fakeArtists) list(keep func(*model.Artist) bool) []model.ArtistSummary {
	out := []model.ArtistSummary{}
	for _, a := range f.artists {
		if keep(a) {
			out = append(out, model.ArtistSummary{ID: a.ID, Name: a.Name})
		}
	}
	return out
}

func (f fakeArtists) ListRecent(_ context.Context, limit int) ([]model.ArtistSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.ArtistSummary{}
	for i := len(f.artists) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, model.ArtistSummary{ID: f.artists[i].ID, Name: f.artists[i].Name})
	}
	return out, nil
}

func (f fakeArtists) ListSummaries(context.Context) ([]model.ArtistSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.list(func(*model.Artist) bool { return true }), nil
}

func (f fakeArtists) Search(_ context.Context, term string) (repository.SearchResult[model.ArtistSummary], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := f.list(func(a *model.Artist) bool { return matches(a.Name, term) })
	return repository.SearchResult[model.ArtistSummary]{Count: len(items), Items: items}, nil
}

func (f fakeArtists) GetByID(_ context.Context, id uint64) (*model.Artist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := f.artist(id)
	if a == nil {
		return nil, repository.ErrArtistNotFound
	}
	cp := *a
	return &cp, nil
}

func (f fakeArtists) Create(_ context.Context, a *model.Artist) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	a.ID = f.id()
	cp := *a
	f.artists = append(f.artists, &cp)
	return nil
}

func (f fakeArtists) Update(_ context.Context, a *model.Artist) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	cur := f.artist(a.ID)
	if cur == nil {
		return repository.ErrArtistNotFound
	}
	*cur = *a
	return nil
}

type fakeShows struct{ *memDB }

func (f fakeShows) ListAll(context.Context) ([]model.ShowListing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.ShowListing{}
	for _, s := range f.shows {
		v, a := f.venue(s.VenueID), f.artist(s.ArtistID)
		out = append(out, model.ShowListing{
			ID: s.ID, VenueID: v.ID, VenueName: v.Name,
			ArtistID: a.ID, ArtistName: a.Name, ArtistImageLink: a.ImageLink,
			StartTime: s.StartTime,
		})
	}
	return out, nil
}

func (f fakeShows) ListByVenue(_ context.Context, venueID uint64) ([]model.ShowCounterpart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.ShowCounterpart{}
	for _, s := range f.shows {
		if s.VenueID == venueID {
			a := f.artist(s.ArtistID)
			out = append(out, model.ShowCounterpart{ShowID: s.ID, ID: a.ID, Name: a.Name, ImageLink: a.ImageLink, StartTime: s.StartTime})
		}
	}
	return out, nil
}

func (f fakeShows) ListByArtist(_ context.Context, artistID uint64) ([]model.ShowCounterpart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.ShowCounterpart{}
	for _, s := range f.shows {
		if s.ArtistID == artistID {
			v := f.venue(s.VenueID)
			out = append(out, model.ShowCounterpart{ShowID: s.ID, ID: v.ID, Name: v.Name, ImageLink: v.ImageLink, StartTime: s.StartTime})
		}
	}
	return out, nil
}

func (f fakeShows) Create(_ context.Context, s *model.Show) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	if f.artist(s.ArtistID) == nil {
		return repository.ErrArtistNotFound
	}
	if f.venue(s.VenueID) == nil {
		return repository.ErrVenueNotFound
	}
	s.ID = f.id()
	f.shows = append(f.shows, *s)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []queue.ActivityEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, ev queue.ActivityEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

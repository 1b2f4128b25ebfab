package ratings

import (
	"fmt"
	"sort"
	"time"

	"github.com/yourusername/pitch-edge/internal/models"
)

// Entry records a team's rating immediately after a match on a given date.
type Entry struct {
	Date   time.Time
	Rating float64
}

// Book is an explicit, passed-in rating store built by replaying a match
// history in strict chronological order. It is not shared between writers;
// the pipeline builds one per run.
type Book struct {
	current  map[string]float64
	history  map[string][]Entry
	lastDate time.Time
}

// NewBook returns an empty rating book.
func NewBook() *Book {
	return &Book{
		current: make(map[string]float64),
		history: make(map[string][]Entry),
	}
}

// BuildBook replays matches and returns the resulting book. The input is
// sorted by date (stable, so same-date matches between disjoint team pairs
// keep their relative order) before application; unplayed matches are skipped.
func BuildBook(matches []models.Match) (*Book, error) {
	sorted := make([]models.Match, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	book := NewBook()
	for i := range sorted {
		if !sorted[i].Played() {
			continue
		}
		if err := book.Apply(&sorted[i]); err != nil {
			return nil, err
		}
	}
	return book, nil
}

// Apply updates the book with one played match. Matches must be applied in
// non-decreasing date order; applying out of order would silently produce
// different ratings, so it is rejected instead.
func (b *Book) Apply(m *models.Match) error {
	if !m.Played() {
		return models.ErrUnplayedMatch
	}
	if m.Date.Before(b.lastDate) {
		return fmt.Errorf("%w: match on %s applied after %s",
			models.ErrInvalidHistory, m.Date.Format("2006-01-02"), b.lastDate.Format("2006-01-02"))
	}
	b.lastDate = m.Date

	home := b.Current(m.HomeTeam)
	away := b.Current(m.AwayTeam)
	newHome, newAway := Update(home, away, *m.HomeGoals, *m.AwayGoals)

	b.current[m.HomeTeam] = newHome
	b.current[m.AwayTeam] = newAway
	b.history[m.HomeTeam] = append(b.history[m.HomeTeam], Entry{Date: m.Date, Rating: newHome})
	b.history[m.AwayTeam] = append(b.history[m.AwayTeam], Entry{Date: m.Date, Rating: newAway})
	return nil
}

// Current returns the team's latest rating, or the default for an unseen team.
func (b *Book) Current(team string) float64 {
	if r, ok := b.current[team]; ok {
		return r
	}
	return DefaultRating
}

// Rating returns the team's rating as of the given date: the rating produced
// by the most recent match strictly before asOf, or the default when the team
// has no prior match. A match on asOf itself is never reflected.
func (b *Book) Rating(team string, asOf time.Time) float64 {
	entries := b.history[team]
	// First entry with Date >= asOf; the one before it is the answer.
	idx := sort.Search(len(entries), func(i int) bool {
		return !entries[i].Date.Before(asOf)
	})
	if idx == 0 {
		return DefaultRating
	}
	return entries[idx-1].Rating
}

// Teams returns the number of teams the book has seen.
func (b *Book) Teams() int {
	return len(b.current)
}

package ratings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pitch-edge/internal/models"
)

func day(n int) time.Time {
	return time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n-1)
}

func playedMatch(date time.Time, home, away string, hg, ag int) models.Match {
	return models.Match{
		Date:      date,
		HomeTeam:  home,
		AwayTeam:  away,
		HomeGoals: &hg,
		AwayGoals: &ag,
	}
}

func TestBookDefaultsForUnseenTeam(t *testing.T) {
	book := NewBook()
	assert.Equal(t, DefaultRating, book.Current("arsenal"))
	assert.Equal(t, DefaultRating, book.Rating("arsenal", day(10)))
}

func TestBookAppliesMatchSequence(t *testing.T) {
	book, err := BuildBook([]models.Match{
		playedMatch(day(1), "team a", "team b", 3, 0),
	})
	require.NoError(t, err)

	expHome := ExpectedScore(DefaultRating+HomeAdvantage, DefaultRating)
	delta := KFactor * (1 - expHome)

	assert.InDelta(t, DefaultRating+delta, book.Rating("team a", day(2)), 1e-9)
	assert.InDelta(t, DefaultRating-delta, book.Rating("team b", day(2)), 1e-9)
	assert.Greater(t, book.Rating("team a", day(2)), DefaultRating)
	assert.Less(t, book.Rating("team b", day(2)), DefaultRating)
}

func TestRatingExcludesMatchOnAsOfDate(t *testing.T) {
	book, err := BuildBook([]models.Match{
		playedMatch(day(1), "team a", "team b", 2, 0),
		playedMatch(day(5), "team a", "team c", 0, 1),
	})
	require.NoError(t, err)

	// As of day 5 the day-5 match must not be reflected yet.
	afterDay1 := book.Rating("team a", day(2))
	assert.Equal(t, afterDay1, book.Rating("team a", day(5)))
	assert.NotEqual(t, afterDay1, book.Rating("team a", day(6)))
}

func TestRatingCutDateConsistency(t *testing.T) {
	history := []models.Match{
		playedMatch(day(1), "team a", "team b", 1, 0),
		playedMatch(day(3), "team c", "team a", 2, 2),
		playedMatch(day(6), "team b", "team c", 0, 3),
		playedMatch(day(9), "team a", "team c", 1, 2),
		playedMatch(day(12), "team b", "team a", 0, 0),
	}

	full, err := BuildBook(history)
	require.NoError(t, err)

	// Rebuilding from only matches strictly before the cut must agree with
	// the as-of query on the full book, for every cut date.
	for cut := 1; cut <= 13; cut++ {
		var truncated []models.Match
		for _, m := range history {
			if m.Date.Before(day(cut)) {
				truncated = append(truncated, m)
			}
		}
		partial, err := BuildBook(truncated)
		require.NoError(t, err)

		for _, team := range []string{"team a", "team b", "team c"} {
			assert.InDelta(t, partial.Current(team), full.Rating(team, day(cut)), 1e-9,
				"team %s diverges at cut day %d", team, cut)
		}
	}
}

func TestBuildBookSortsUnorderedInput(t *testing.T) {
	ordered := []models.Match{
		playedMatch(day(1), "team a", "team b", 1, 0),
		playedMatch(day(2), "team b", "team a", 2, 1),
	}
	shuffled := []models.Match{ordered[1], ordered[0]}

	fromOrdered, err := BuildBook(ordered)
	require.NoError(t, err)
	fromShuffled, err := BuildBook(shuffled)
	require.NoError(t, err)

	assert.InDelta(t, fromOrdered.Current("team a"), fromShuffled.Current("team a"), 1e-9)
	assert.InDelta(t, fromOrdered.Current("team b"), fromShuffled.Current("team b"), 1e-9)
}

func TestApplyRejectsOutOfOrder(t *testing.T) {
	book := NewBook()
	m1 := playedMatch(day(5), "team a", "team b", 1, 1)
	m2 := playedMatch(day(2), "team a", "team c", 1, 0)

	require.NoError(t, book.Apply(&m1))
	err := book.Apply(&m2)
	assert.ErrorIs(t, err, models.ErrInvalidHistory)
}

func TestApplyRejectsUnplayed(t *testing.T) {
	book := NewBook()
	m := models.Match{Date: day(1), HomeTeam: "team a", AwayTeam: "team b"}
	assert.ErrorIs(t, book.Apply(&m), models.ErrUnplayedMatch)
}

func TestBuildBookSkipsUnplayed(t *testing.T) {
	book, err := BuildBook([]models.Match{
		playedMatch(day(1), "team a", "team b", 2, 1),
		{Date: day(2), HomeTeam: "team a", AwayTeam: "team c"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, book.Teams())
	assert.Equal(t, DefaultRating, book.Current("team c"))
}

package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pitch-edge/internal/datasource"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestNormalizeTeamName(t *testing.T) {
	normalizer := NewDataNormalizer(testLogger())

	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "lowercases", raw: "Arsenal", expected: "arsenal"},
		{name: "strips punctuation", raw: "Nott'm Forest", expected: "nottingham forest"},
		{name: "collapses whitespace", raw: "  Real   Madrid  ", expected: "real madrid"},
		{name: "hyphen becomes space", raw: "Saint-Etienne", expected: "saint etienne"},
		{name: "alias folds", raw: "Man Utd", expected: "manchester united"},
		{name: "alias after folding", raw: "MAN-UTD", expected: "manchester united"},
		{name: "suffix alias", raw: "Tottenham Hotspur", expected: "tottenham"},
		{name: "diacritics dropped", raw: "Atlético de Madrid", expected: "atletico madrid"},
		{name: "unknown name passes through", raw: "Wrexham", expected: "wrexham"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizer.NormalizeTeamName(tt.raw))
		})
	}
}

func TestNormalizeMatch(t *testing.T) {
	normalizer := NewDataNormalizer(testLogger())

	homeGoals, awayGoals := 2, 1
	source := &datasource.MatchData{
		FixtureID: 1001,
		Date:      time.Date(2024, 9, 14, 14, 0, 0, 0, time.FixedZone("CET", 3600)),
		HomeTeam:  "Man City",
		AwayTeam:  "Spurs",
		HomeGoals: &homeGoals,
		AwayGoals: &awayGoals,
		Odds: &datasource.OddsData{
			Home: decimalPtr("1.50"),
			Draw: decimalPtr("4.20"),
			Away: decimalPtr("6.00"),
		},
	}

	match, err := normalizer.NormalizeMatch(source)
	require.NoError(t, err)

	assert.Equal(t, "manchester city", match.HomeTeam)
	assert.Equal(t, "tottenham", match.AwayTeam)
	assert.Equal(t, time.UTC, match.Date.Location())
	assert.Equal(t, "2024/2025", match.Season)
	require.NotNil(t, match.OddsHome)
	assert.InDelta(t, 1.50, *match.OddsHome, 1e-9)
	assert.True(t, match.Played())
}

func TestNormalizeMatchDerivesSeasonFromDate(t *testing.T) {
	normalizer := NewDataNormalizer(testLogger())

	tests := []struct {
		name     string
		date     time.Time
		expected string
	}{
		{name: "spring belongs to prior season", date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), expected: "2023/2024"},
		{name: "july starts the new season", date: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), expected: "2024/2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, err := normalizer.NormalizeMatch(&datasource.MatchData{
				FixtureID: 1,
				Date:      tt.date,
				HomeTeam:  "A",
				AwayTeam:  "B",
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, match.Season)
		})
	}
}

func TestNormalizeMatchPrefersProviderSeason(t *testing.T) {
	normalizer := NewDataNormalizer(testLogger())

	match, err := normalizer.NormalizeMatch(&datasource.MatchData{
		FixtureID: 1,
		Date:      time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Season:    "2023/2024",
		HomeTeam:  "A",
		AwayTeam:  "B",
	})
	require.NoError(t, err)
	assert.Equal(t, "2023/2024", match.Season)
}

func TestNormalizeOdds(t *testing.T) {
	normalizer := NewDataNormalizer(testLogger())

	tests := []struct {
		name string
		odds *datasource.OddsData
		ok   bool
	}{
		{
			name: "fully priced",
			odds: &datasource.OddsData{Home: decimalPtr("2.0"), Draw: decimalPtr("3.3"), Away: decimalPtr("3.8")},
			ok:   true,
		},
		{
			name: "missing draw price",
			odds: &datasource.OddsData{Home: decimalPtr("2.0"), Away: decimalPtr("3.8")},
			ok:   false,
		},
		{
			name: "price at evens boundary",
			odds: &datasource.OddsData{Home: decimalPtr("1.0"), Draw: decimalPtr("3.3"), Away: decimalPtr("3.8")},
			ok:   false,
		},
		{name: "nil odds", odds: nil, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			triple, ok := normalizer.NormalizeOdds(tt.odds)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				require.NotNil(t, triple)
				assert.True(t, triple.Valid())
			} else {
				assert.Nil(t, triple)
			}
		})
	}
}

func TestNormalizeFixtureDropsPartialOdds(t *testing.T) {
	normalizer := NewDataNormalizer(testLogger())

	fixture, err := normalizer.NormalizeFixture(&datasource.MatchData{
		FixtureID: 2002,
		Date:      time.Date(2024, 9, 21, 15, 0, 0, 0, time.UTC),
		HomeTeam:  "Wolves",
		AwayTeam:  "Leeds United",
		Odds:      &datasource.OddsData{Home: decimalPtr("2.1")},
	})
	require.NoError(t, err)

	assert.Equal(t, "wolverhampton", fixture.HomeTeam)
	assert.Equal(t, "leeds", fixture.AwayTeam)
	assert.Nil(t, fixture.Odds)
	assert.False(t, fixture.HasOdds())
}

package service

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/yourusername/pitch-edge/internal/datasource"
	"github.com/yourusername/pitch-edge/internal/models"
)

// diacriticFolder strips combining marks so accented feed spellings fold to
// their ASCII forms.
var diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// DataNormalizer converts raw provider records to canonical internal models.
// Team identifiers are lowercased with punctuation stripped so the same club
// maps to one key across feeds; known feed spellings are folded through an
// alias table.
type DataNormalizer struct {
	teamAliasMap map[string]string // maps normalized provider spellings to canonical names
	logger       *logrus.Logger
}

// NewDataNormalizer creates a new data normalizer
func NewDataNormalizer(logger *logrus.Logger) *DataNormalizer {
	return &DataNormalizer{
		teamAliasMap: buildTeamAliasMap(),
		logger:       logger,
	}
}

// NormalizeMatch converts MatchData from any source to the internal Match model
func (n *DataNormalizer) NormalizeMatch(source *datasource.MatchData) (*models.Match, error) {
	if source == nil {
		return nil, fmt.Errorf("source match is nil")
	}

	match := &models.Match{
		ID:        uuid.New(),
		FixtureID: source.FixtureID,
		Date:      source.Date.UTC(),
		Season:    n.normalizeSeason(source),
		HomeTeam:  n.NormalizeTeamName(source.HomeTeam),
		AwayTeam:  n.NormalizeTeamName(source.AwayTeam),
		HomeGoals: source.HomeGoals,
		AwayGoals: source.AwayGoals,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if source.Odds != nil {
		match.OddsHome = decimalToFloat(source.Odds.Home)
		match.OddsDraw = decimalToFloat(source.Odds.Draw)
		match.OddsAway = decimalToFloat(source.Odds.Away)
	}

	return match, nil
}

// NormalizeFixture converts an unplayed MatchData record to the internal
// Fixture model used by the prediction pipeline.
func (n *DataNormalizer) NormalizeFixture(source *datasource.MatchData) (*models.Fixture, error) {
	if source == nil {
		return nil, fmt.Errorf("source fixture is nil")
	}

	fixture := &models.Fixture{
		ID:        uuid.New(),
		FixtureID: source.FixtureID,
		Date:      source.Date.UTC(),
		HomeTeam:  n.NormalizeTeamName(source.HomeTeam),
		AwayTeam:  n.NormalizeTeamName(source.AwayTeam),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if triple, ok := n.NormalizeOdds(source.Odds); ok {
		fixture.Odds = triple
	}

	return fixture, nil
}

// NormalizeOdds converts provider odds to an OddsTriple, rejecting markets
// that are not fully priced with decimal odds above 1.0.
func (n *DataNormalizer) NormalizeOdds(odds *datasource.OddsData) (*models.OddsTriple, bool) {
	if odds == nil {
		return nil, false
	}

	home := decimalToFloat(odds.Home)
	draw := decimalToFloat(odds.Draw)
	away := decimalToFloat(odds.Away)
	if home == nil || draw == nil || away == nil {
		return nil, false
	}

	triple := &models.OddsTriple{Home: *home, Draw: *draw, Away: *away}
	if !triple.Valid() {
		return nil, false
	}
	return triple, true
}

// NormalizeTeamName maps a raw provider team name to its canonical
// identifier: lowercase, punctuation stripped, whitespace collapsed, alias
// spellings folded.
func (n *DataNormalizer) NormalizeTeamName(raw string) string {
	normalized := foldTeamName(raw)
	if canonical, ok := n.teamAliasMap[normalized]; ok {
		return canonical
	}
	return normalized
}

// normalizeSeason prefers the provider's season label and derives one from
// the match date when the feed omits it.
func (n *DataNormalizer) normalizeSeason(source *datasource.MatchData) string {
	if source.Season != "" {
		return source.Season
	}
	return models.SeasonLabel(source.Date)
}

// foldTeamName lowercases a name, folds diacritics, strips punctuation and
// collapses runs of whitespace to single spaces.
func foldTeamName(raw string) string {
	if folded, _, err := transform.String(diacriticFolder, raw); err == nil {
		raw = folded
	}

	var b strings.Builder
	b.Grow(len(raw))

	lastSpace := true
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		case r == ' ' || r == '-' || r == '_':
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
		// Any other rune (periods, apostrophes, diacritics) is dropped
	}

	return strings.TrimRight(b.String(), " ")
}

// decimalToFloat converts an optional decimal quote to *float64
func decimalToFloat(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f, _ := d.Float64()
	return &f
}

// buildTeamAliasMap returns the mapping of folded feed spellings to canonical
// team identifiers. Keys and values are both in folded form.
func buildTeamAliasMap() map[string]string {
	return map[string]string{
		"man united":        "manchester united",
		"man utd":           "manchester united",
		"manchester utd":    "manchester united",
		"man city":          "manchester city",
		"manchester c":      "manchester city",
		"spurs":             "tottenham",
		"tottenham hotspur": "tottenham",
		"wolves":            "wolverhampton",
		"wolverhampton wanderers": "wolverhampton",
		"newcastle utd":     "newcastle",
		"newcastle united":  "newcastle",
		"nottm forest":      "nottingham forest",
		"nott m forest":     "nottingham forest",
		"sheffield utd":     "sheffield united",
		"sheff utd":         "sheffield united",
		"west brom":         "west bromwich albion",
		"west bromwich":     "west bromwich albion",
		"west ham united":   "west ham",
		"brighton and hove albion": "brighton",
		"brighton hove albion":     "brighton",
		"leicester city":    "leicester",
		"leeds united":      "leeds",
		"arsenal fc":        "arsenal",
		"chelsea fc":        "chelsea",
		"liverpool fc":      "liverpool",
		"everton fc":        "everton",
		"athletic club":     "athletic bilbao",
		"atletico de madrid": "atletico madrid",
		"atl madrid":        "atletico madrid",
		"real sociedad de futbol": "real sociedad",
		"fc barcelona":      "barcelona",
		"real madrid cf":    "real madrid",
		"inter milan":       "inter",
		"internazionale":    "inter",
		"ac milan":          "milan",
		"juventus fc":       "juventus",
		"as roma":           "roma",
		"ssc napoli":        "napoli",
		"bayern munchen":    "bayern munich",
		"fc bayern munich":  "bayern munich",
		"borussia dortmund": "dortmund",
		"bor dortmund":      "dortmund",
		"borussia monchengladbach": "monchengladbach",
		"b monchengladbach":        "monchengladbach",
		"paris saint germain":      "paris sg",
		"psg":                      "paris sg",
	}
}

package datasource

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const csvSourceName = "csv_files"

// columnAliases maps canonical column names to the raw header spellings seen
// across historical result exports. Aliases are resolved once per file when
// the header row is read, never re-guessed downstream.
var columnAliases = map[string][]string{
	"date":       {"Date", "date", "match_date", "MatchDate"},
	"home_team":  {"HomeTeam", "home_team", "Home", "HT"},
	"away_team":  {"AwayTeam", "away_team", "Away", "AT"},
	"home_goals": {"FTHG", "home_goals", "HG"},
	"away_goals": {"FTAG", "away_goals", "AG"},
	"season":     {"Season", "season"},
}

// oddsColumnAliases lists the bookmaker 1X2 columns per outcome. Every
// present column contributes to the mean quote.
var oddsColumnAliases = map[string][]string{
	"home": {"B365H", "BWH", "IWH", "PSH", "WHH", "AvgH", "odds_home"},
	"draw": {"B365D", "BWD", "IWD", "PSD", "WHD", "AvgD", "odds_draw"},
	"away": {"B365A", "BWA", "IWA", "PSA", "WHA", "AvgA", "odds_away"},
}

// csvDateLayouts are the kickoff date formats accepted in result files
var csvDateLayouts = []string{"02/01/2006", "02/01/06", "2006-01-02"}

// CSVSource implements DataSource for local historical result files
type CSVSource struct {
	dir     string
	enabled bool
	logger  *logrus.Logger
}

// NewCSVSource creates a data source reading result CSV files from a directory
func NewCSVSource(dir string, enabled bool, logger *logrus.Logger) *CSVSource {
	return &CSVSource{dir: dir, enabled: enabled, logger: logger}
}

// FetchResults reads every CSV file in the source directory and returns the
// finished matches dated within [startDate, endDate].
func (s *CSVSource) FetchResults(ctx context.Context, startDate, endDate time.Time) ([]MatchData, error) {
	if !s.enabled {
		return nil, NewDataSourceError(csvSourceName, ErrCodeNetworkError, "source disabled", ErrSourceDisabled)
	}

	files, err := filepath.Glob(filepath.Join(s.dir, "*.csv"))
	if err != nil {
		return nil, NewDataSourceError(csvSourceName, ErrCodeInvalidData, "bad source directory", err)
	}

	var matches []MatchData
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fileMatches, err := s.readFile(file)
		if err != nil {
			return nil, err
		}

		for i := range fileMatches {
			d := fileMatches[i].Date
			if !d.Before(startDate) && !d.After(endDate) {
				matches = append(matches, fileMatches[i])
			}
		}
	}

	return matches, nil
}

// FetchUpcoming is not supported for file sources; result files only contain
// played matches.
func (s *CSVSource) FetchUpcoming(ctx context.Context, from time.Time, days int) ([]MatchData, error) {
	return nil, nil
}

// FetchOdds is not supported for file sources; historical odds arrive inline
// with the result rows.
func (s *CSVSource) FetchOdds(ctx context.Context, fixtureIDs []int64) (map[int64]OddsData, error) {
	return map[int64]OddsData{}, nil
}

// Name returns the data source name
func (s *CSVSource) Name() string {
	return csvSourceName
}

// IsEnabled returns whether this data source is enabled
func (s *CSVSource) IsEnabled() bool {
	return s.enabled
}

func (s *CSVSource) readFile(path string) ([]MatchData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewDataSourceError(csvSourceName, ErrCodeNotFound, "failed to open file", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, NewDataSourceError(csvSourceName, ErrCodeInvalidData, "failed to read header", err)
	}

	columns, err := resolveColumns(header)
	if err != nil {
		return nil, NewDataSourceError(csvSourceName, ErrCodeInvalidData, fmt.Sprintf("file %s", filepath.Base(path)), err)
	}

	var matches []MatchData
	line := 1
	for {
		record, err := reader.Read()
		if err != nil {
			break
		}
		line++

		match, err := columns.parseRow(record, path, line)
		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"file": filepath.Base(path),
				"line": line,
			}).Warn("Skipping unparseable result row")
			continue
		}
		matches = append(matches, *match)
	}

	return matches, nil
}

// resolvedColumns holds the per-file header positions after alias resolution
type resolvedColumns struct {
	indices     map[string]int // canonical name -> column index
	oddsIndices map[string][]int
}

// resolveColumns maps the raw header to canonical column positions. The
// identity columns are required; odds columns are optional.
func resolveColumns(header []string) (*resolvedColumns, error) {
	position := make(map[string]int, len(header))
	for i, name := range header {
		position[strings.TrimSpace(name)] = i
	}

	indices := make(map[string]int, len(columnAliases))
	for canonical, aliases := range columnAliases {
		for _, alias := range aliases {
			if idx, ok := position[alias]; ok {
				indices[canonical] = idx
				break
			}
		}
	}

	for _, required := range []string{"date", "home_team", "away_team", "home_goals", "away_goals"} {
		if _, ok := indices[required]; !ok {
			return nil, fmt.Errorf("%w: no column matches %q", ErrInvalidData, required)
		}
	}

	oddsIndices := make(map[string][]int, len(oddsColumnAliases))
	for outcome, aliases := range oddsColumnAliases {
		for _, alias := range aliases {
			if idx, ok := position[alias]; ok {
				oddsIndices[outcome] = append(oddsIndices[outcome], idx)
			}
		}
	}

	return &resolvedColumns{indices: indices, oddsIndices: oddsIndices}, nil
}

func (rc *resolvedColumns) parseRow(record []string, path string, line int) (*MatchData, error) {
	field := func(canonical string) string {
		idx, ok := rc.indices[canonical]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	date, err := parseCSVDate(field("date"))
	if err != nil {
		return nil, err
	}

	homeGoals, err := strconv.Atoi(field("home_goals"))
	if err != nil {
		return nil, fmt.Errorf("bad home goals %q: %w", field("home_goals"), err)
	}
	awayGoals, err := strconv.Atoi(field("away_goals"))
	if err != nil {
		return nil, fmt.Errorf("bad away goals %q: %w", field("away_goals"), err)
	}

	match := &MatchData{
		SourceID:  fmt.Sprintf("%s:%d", filepath.Base(path), line),
		Date:      date,
		Season:    field("season"),
		HomeTeam:  field("home_team"),
		AwayTeam:  field("away_team"),
		HomeGoals: &homeGoals,
		AwayGoals: &awayGoals,
		CreatedAt: time.Now(),
	}

	if odds, ok := rc.meanRowOdds(record); ok {
		match.Odds = &odds
	}

	return match, nil
}

// meanRowOdds averages whatever bookmaker 1X2 columns the row carries
func (rc *resolvedColumns) meanRowOdds(record []string) (OddsData, bool) {
	mean := func(indices []int) (*decimal.Decimal, int) {
		var sum decimal.Decimal
		count := 0
		for _, idx := range indices {
			if idx >= len(record) {
				continue
			}
			odd, err := decimal.NewFromString(strings.TrimSpace(record[idx]))
			if err != nil || odd.LessThanOrEqual(decimal.NewFromInt(1)) {
				continue
			}
			sum = sum.Add(odd)
			count++
		}
		if count == 0 {
			return nil, 0
		}
		m := sum.Div(decimal.NewFromInt(int64(count)))
		return &m, count
	}

	home, nh := mean(rc.oddsIndices["home"])
	draw, nd := mean(rc.oddsIndices["draw"])
	away, na := mean(rc.oddsIndices["away"])
	if home == nil || draw == nil || away == nil {
		return OddsData{}, false
	}

	quotes := nh
	if nd < quotes {
		quotes = nd
	}
	if na < quotes {
		quotes = na
	}

	return OddsData{
		Home:       home,
		Draw:       draw,
		Away:       away,
		Bookmakers: quotes,
		UpdatedAt:  time.Now(),
	}, true
}

func parseCSVDate(raw string) (time.Time, error) {
	for _, layout := range csvDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized date %q", ErrInvalidData, raw)
}

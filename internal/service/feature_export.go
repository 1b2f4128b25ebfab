package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitch-edge/internal/models"
)

// RebuildFeatures replays the full played history in chronological order and
// writes one feature row per match, labeled with its outcome. This is the
// training-table export; each row sees only matches dated strictly before it.
// Returns the number of rows written and the number skipped for schema gaps.
func (p *PipelineService) RebuildFeatures(ctx context.Context, w io.Writer) (written, skipped int, err error) {
	start := time.Now()

	book, history, err := p.RebuildRatingBook(ctx)
	if err != nil {
		return 0, 0, err
	}

	columns := p.assembler.Columns()
	header := append([]string{"fixture_id", "match_date", "season", "home_team", "away_team"}, columns...)
	header = append(header, "outcome")

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return 0, 0, fmt.Errorf("failed to write feature header: %w", err)
	}

	for i := range history {
		match := &history[i]

		vector, err := p.assembler.Assemble(asFixture(match), history, book)
		if err != nil {
			if errors.Is(err, models.ErrSchemaMismatch) {
				skipped++
				p.runLog.LogSchemaFailure(match.FixtureID, err.Error())
				continue
			}
			return written, skipped, fmt.Errorf("failed to assemble features for fixture %d: %w", match.FixtureID, err)
		}

		row := make([]string, 0, len(header))
		row = append(row,
			strconv.FormatInt(match.FixtureID, 10),
			match.Date.Format("2006-01-02"),
			match.Season,
			match.HomeTeam,
			match.AwayTeam,
		)
		for _, col := range columns {
			row = append(row, strconv.FormatFloat(vector[col], 'g', -1, 64))
		}
		row = append(row, match.Outcome())

		if err := cw.Write(row); err != nil {
			return written, skipped, fmt.Errorf("failed to write feature row: %w", err)
		}
		written++
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return written, skipped, fmt.Errorf("failed to flush feature table: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"rows_written": written,
		"rows_skipped": skipped,
		"duration_ms":  time.Since(start).Milliseconds(),
	}).Info("Feature table rebuilt")
	return written, skipped, nil
}

// asFixture views a historical match as a scoreable fixture so the assembler
// can compute its pre-match features.
func asFixture(m *models.Match) *models.Fixture {
	fixture := &models.Fixture{
		ID:        m.ID,
		FixtureID: m.FixtureID,
		Date:      m.Date,
		HomeTeam:  m.HomeTeam,
		AwayTeam:  m.AwayTeam,
	}
	if m.OddsHome != nil && m.OddsDraw != nil && m.OddsAway != nil {
		fixture.Odds = &models.OddsTriple{Home: *m.OddsHome, Draw: *m.OddsDraw, Away: *m.OddsAway}
	}
	return fixture
}

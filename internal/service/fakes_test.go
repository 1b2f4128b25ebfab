package service

import (
	"context"
	"sort"
	"time"

	"github.com/yourusername/pitch-edge/internal/datasource"
	"github.com/yourusername/pitch-edge/internal/models"
)

// fakeSource is an in-memory DataSource for ingestion tests.
type fakeSource struct {
	name     string
	enabled  bool
	results  []datasource.MatchData
	upcoming []datasource.MatchData
	odds     map[int64]datasource.OddsData
	err      error
}

func (f *fakeSource) FetchResults(ctx context.Context, start, end time.Time) ([]datasource.MatchData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func (f *fakeSource) FetchUpcoming(ctx context.Context, from time.Time, days int) ([]datasource.MatchData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.upcoming, nil
}

func (f *fakeSource) FetchOdds(ctx context.Context, fixtureIDs []int64) (map[int64]datasource.OddsData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.odds, nil
}

func (f *fakeSource) Name() string    { return f.name }
func (f *fakeSource) IsEnabled() bool { return f.enabled }

// memMatchRepo is an in-memory MatchRepository.
type memMatchRepo struct {
	matches map[int64]models.Match
}

func newMemMatchRepo() *memMatchRepo {
	return &memMatchRepo{matches: make(map[int64]models.Match)}
}

func (r *memMatchRepo) Create(ctx context.Context, match *models.Match) error {
	if _, ok := r.matches[match.FixtureID]; ok {
		return models.ErrDuplicateKey
	}
	r.matches[match.FixtureID] = *match
	return nil
}

func (r *memMatchRepo) CreateBatch(ctx context.Context, matches []*models.Match) error {
	for _, m := range matches {
		// Duplicates are silently skipped, matching the conflict clause
		if _, ok := r.matches[m.FixtureID]; ok {
			continue
		}
		r.matches[m.FixtureID] = *m
	}
	return nil
}

func (r *memMatchRepo) GetByFixtureID(ctx context.Context, fixtureID int64) (*models.Match, error) {
	m, ok := r.matches[fixtureID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &m, nil
}

func (r *memMatchRepo) GetByDateRange(ctx context.Context, start, end time.Time) ([]models.Match, error) {
	var out []models.Match
	for _, m := range r.matches {
		if !m.Date.Before(start) && !m.Date.After(end) {
			out = append(out, m)
		}
	}
	sortByDate(out)
	return out, nil
}

func (r *memMatchRepo) GetAllPlayed(ctx context.Context) ([]models.Match, error) {
	var out []models.Match
	for _, m := range r.matches {
		if m.Played() {
			out = append(out, m)
		}
	}
	sortByDate(out)
	return out, nil
}

func (r *memMatchRepo) GetBySeason(ctx context.Context, season string) ([]models.Match, error) {
	var out []models.Match
	for _, m := range r.matches {
		if m.Season == season {
			out = append(out, m)
		}
	}
	sortByDate(out)
	return out, nil
}

func (r *memMatchRepo) Update(ctx context.Context, match *models.Match) error {
	if _, ok := r.matches[match.FixtureID]; !ok {
		return models.ErrNotFound
	}
	r.matches[match.FixtureID] = *match
	return nil
}

func sortByDate(matches []models.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Date.Before(matches[j].Date)
	})
}

// memFixtureRepo is an in-memory FixtureRepository.
type memFixtureRepo struct {
	fixtures map[int64]models.Fixture
}

func newMemFixtureRepo() *memFixtureRepo {
	return &memFixtureRepo{fixtures: make(map[int64]models.Fixture)}
}

func (r *memFixtureRepo) Upsert(ctx context.Context, fixture *models.Fixture) error {
	r.fixtures[fixture.FixtureID] = *fixture
	return nil
}

func (r *memFixtureRepo) GetByFixtureID(ctx context.Context, fixtureID int64) (*models.Fixture, error) {
	f, ok := r.fixtures[fixtureID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &f, nil
}

func (r *memFixtureRepo) GetUpcoming(ctx context.Context, from time.Time, days int) ([]models.Fixture, error) {
	horizon := from.AddDate(0, 0, days)
	var out []models.Fixture
	for _, f := range r.fixtures {
		if !f.Date.Before(from) && f.Date.Before(horizon) {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func (r *memFixtureRepo) UpdateOdds(ctx context.Context, fixtureID int64, odds *models.OddsTriple) error {
	f, ok := r.fixtures[fixtureID]
	if !ok {
		return models.ErrNotFound
	}
	f.Odds = odds
	r.fixtures[fixtureID] = f
	return nil
}

func (r *memFixtureRepo) Delete(ctx context.Context, fixtureID int64) error {
	if _, ok := r.fixtures[fixtureID]; !ok {
		return models.ErrNotFound
	}
	delete(r.fixtures, fixtureID)
	return nil
}

// memPredictionRepo is an in-memory PredictionRepository.
type memPredictionRepo struct {
	predictions []models.Prediction
}

func (r *memPredictionRepo) Create(ctx context.Context, prediction *models.Prediction) error {
	r.predictions = append(r.predictions, *prediction)
	return nil
}

func (r *memPredictionRepo) CreateBatch(ctx context.Context, predictions []*models.Prediction) error {
	for _, p := range predictions {
		r.predictions = append(r.predictions, *p)
	}
	return nil
}

func (r *memPredictionRepo) GetLatestByFixtureID(ctx context.Context, fixtureID int64) (*models.Prediction, error) {
	for i := len(r.predictions) - 1; i >= 0; i-- {
		if r.predictions[i].FixtureID == fixtureID {
			return &r.predictions[i], nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *memPredictionRepo) GetByModelVersion(ctx context.Context, modelVersion string, limit int) ([]models.Prediction, error) {
	var out []models.Prediction
	for i := range r.predictions {
		if r.predictions[i].ModelVersion == modelVersion {
			out = append(out, r.predictions[i])
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// memRecommendationRepo is an in-memory RecommendationRepository.
type memRecommendationRepo struct {
	byDate map[time.Time][]models.Recommendation
}

func newMemRecommendationRepo() *memRecommendationRepo {
	return &memRecommendationRepo{byDate: make(map[time.Time][]models.Recommendation)}
}

func (r *memRecommendationRepo) ReplaceForDate(ctx context.Context, date time.Time, recommendations []models.Recommendation) error {
	r.byDate[date.Truncate(24*time.Hour)] = append([]models.Recommendation(nil), recommendations...)
	return nil
}

func (r *memRecommendationRepo) GetRanked(ctx context.Context, date time.Time, minEV float64, limit int) ([]models.Recommendation, error) {
	var out []models.Recommendation
	for _, rec := range r.byDate[date.Truncate(24*time.Hour)] {
		if rec.BestEV >= minEV {
			out = append(out, rec)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

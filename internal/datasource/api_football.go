package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	apiFootballSourceName = "api_football"
	matchWinnerBetName    = "Match Winner"
)

// APIFootballClient implements DataSource for an API-Football style provider
type APIFootballClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	leagues    []int
	enabled    bool
	cache      *gocache.Cache
	logger     *logrus.Logger
}

// apiFixtureEnvelope is the provider's fixtures response wrapper
type apiFixtureEnvelope struct {
	Response []apiFixtureEntry `json:"response"`
}

type apiFixtureEntry struct {
	Fixture apiFixture `json:"fixture"`
	League  apiLeague  `json:"league"`
	Teams   apiTeams   `json:"teams"`
	Goals   apiGoals   `json:"goals"`
}

type apiFixture struct {
	ID     int64  `json:"id"`
	Date   string `json:"date"`
	Status struct {
		Short string `json:"short"`
	} `json:"status"`
}

type apiLeague struct {
	ID     int `json:"id"`
	Season int `json:"season"`
}

type apiTeams struct {
	Home apiTeam `json:"home"`
	Away apiTeam `json:"away"`
}

type apiTeam struct {
	Name string `json:"name"`
}

type apiGoals struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// apiOddsEnvelope is the provider's odds response wrapper
type apiOddsEnvelope struct {
	Response []apiOddsEntry `json:"response"`
}

type apiOddsEntry struct {
	Fixture    apiFixture     `json:"fixture"`
	Bookmakers []apiBookmaker `json:"bookmakers"`
}

type apiBookmaker struct {
	Name string   `json:"name"`
	Bets []apiBet `json:"bets"`
}

type apiBet struct {
	Name   string         `json:"name"`
	Values []apiOddsValue `json:"values"`
}

type apiOddsValue struct {
	Value string `json:"value"`
	Odd   string `json:"odd"`
}

// NewAPIFootballClient creates a new API-Football client
func NewAPIFootballClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, leagues []int, cacheTTL time.Duration, enabled bool, logger *logrus.Logger) *APIFootballClient {
	return &APIFootballClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		leagues:    leagues,
		enabled:    enabled,
		cache:      gocache.New(cacheTTL, 2*cacheTTL),
		logger:     logger,
	}
}

// FetchResults retrieves finished matches within the specified date range
func (c *APIFootballClient) FetchResults(ctx context.Context, startDate, endDate time.Time) ([]MatchData, error) {
	return c.fetchFixtures(ctx, startDate, endDate, "FT")
}

// FetchUpcoming retrieves scheduled fixtures from the given date forward
func (c *APIFootballClient) FetchUpcoming(ctx context.Context, from time.Time, days int) ([]MatchData, error) {
	return c.fetchFixtures(ctx, from, from.AddDate(0, 0, days), "NS")
}

func (c *APIFootballClient) fetchFixtures(ctx context.Context, startDate, endDate time.Time, status string) ([]MatchData, error) {
	if !c.enabled {
		return nil, NewDataSourceError(apiFootballSourceName, ErrCodeNetworkError, "source disabled", ErrSourceDisabled)
	}

	var matches []MatchData
	for _, league := range c.leagues {
		url := fmt.Sprintf("%s/fixtures?league=%d&from=%s&to=%s&status=%s",
			c.baseURL, league, startDate.Format("2006-01-02"), endDate.Format("2006-01-02"), status)

		body, err := c.get(ctx, url)
		if err != nil {
			return nil, err
		}

		var envelope apiFixtureEnvelope
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, NewDataSourceError(apiFootballSourceName, ErrCodeInvalidData, "failed to parse fixtures response", err)
		}

		for i := range envelope.Response {
			match, err := c.convertFixture(&envelope.Response[i])
			if err != nil {
				c.logger.WithError(err).WithField("source_fixture_id", envelope.Response[i].Fixture.ID).
					Warn("Skipping unparseable fixture")
				continue
			}
			matches = append(matches, *match)
		}
	}

	return matches, nil
}

// FetchOdds retrieves current mean 1X2 odds for the given fixtures
func (c *APIFootballClient) FetchOdds(ctx context.Context, fixtureIDs []int64) (map[int64]OddsData, error) {
	if !c.enabled {
		return nil, NewDataSourceError(apiFootballSourceName, ErrCodeNetworkError, "source disabled", ErrSourceDisabled)
	}

	odds := make(map[int64]OddsData, len(fixtureIDs))
	for _, fixtureID := range fixtureIDs {
		url := fmt.Sprintf("%s/odds?fixture=%d", c.baseURL, fixtureID)

		body, err := c.get(ctx, url)
		if err != nil {
			return nil, err
		}

		var envelope apiOddsEnvelope
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, NewDataSourceError(apiFootballSourceName, ErrCodeInvalidData, "failed to parse odds response", err)
		}

		for i := range envelope.Response {
			if quote, ok := meanMatchWinnerOdds(envelope.Response[i].Bookmakers); ok {
				odds[envelope.Response[i].Fixture.ID] = quote
			}
		}
	}

	return odds, nil
}

// Name returns the data source name
func (c *APIFootballClient) Name() string {
	return apiFootballSourceName
}

// IsEnabled returns whether this data source is enabled
func (c *APIFootballClient) IsEnabled() bool {
	return c.enabled
}

// get performs a cached, authenticated GET against the provider
func (c *APIFootballClient) get(ctx context.Context, url string) ([]byte, error) {
	if cached, found := c.cache.Get(url); found {
		return cached.([]byte), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewDataSourceError(apiFootballSourceName, ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("x-apisports-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewDataSourceError(apiFootballSourceName, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, NewDataSourceError(apiFootballSourceName, ErrCodeAuthenticationFailed, "invalid API key", ErrAuthenticationFailed)
	case http.StatusTooManyRequests:
		return nil, NewDataSourceError(apiFootballSourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", ErrRateLimitExceeded)
	case http.StatusNotFound:
		return nil, NewDataSourceError(apiFootballSourceName, ErrCodeNotFound, "resource not found", ErrNotFound)
	default:
		return nil, NewDataSourceError(apiFootballSourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewDataSourceError(apiFootballSourceName, ErrCodeNetworkError, "failed to read response body", err)
	}

	c.cache.SetDefault(url, body)
	return body, nil
}

// convertFixture converts a provider fixture entry to MatchData
func (c *APIFootballClient) convertFixture(entry *apiFixtureEntry) (*MatchData, error) {
	kickoff, err := time.Parse(time.RFC3339, entry.Fixture.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid kickoff time %q: %w", entry.Fixture.Date, err)
	}

	match := &MatchData{
		SourceID:  fmt.Sprintf("%d", entry.Fixture.ID),
		FixtureID: entry.Fixture.ID,
		Date:      kickoff.UTC(),
		HomeTeam:  entry.Teams.Home.Name,
		AwayTeam:  entry.Teams.Away.Name,
		CreatedAt: time.Now(),
	}

	// The provider labels a season by its starting year
	if entry.League.Season > 0 {
		match.Season = fmt.Sprintf("%d/%d", entry.League.Season, entry.League.Season+1)
	}

	if entry.Fixture.Status.Short == "FT" {
		match.HomeGoals = entry.Goals.Home
		match.AwayGoals = entry.Goals.Away
	}

	return match, nil
}

// meanMatchWinnerOdds averages 1X2 quotes across all bookmakers carrying the
// match-winner market.
func meanMatchWinnerOdds(bookmakers []apiBookmaker) (OddsData, bool) {
	var sumHome, sumDraw, sumAway decimal.Decimal
	count := 0

	for _, bookmaker := range bookmakers {
		for _, bet := range bookmaker.Bets {
			if bet.Name != matchWinnerBetName {
				continue
			}

			home, draw, away, ok := parseMatchWinnerValues(bet.Values)
			if !ok {
				continue
			}

			sumHome = sumHome.Add(home)
			sumDraw = sumDraw.Add(draw)
			sumAway = sumAway.Add(away)
			count++
		}
	}

	if count == 0 {
		return OddsData{}, false
	}

	n := decimal.NewFromInt(int64(count))
	meanHome := sumHome.Div(n)
	meanDraw := sumDraw.Div(n)
	meanAway := sumAway.Div(n)

	return OddsData{
		Home:       &meanHome,
		Draw:       &meanDraw,
		Away:       &meanAway,
		Bookmakers: count,
		UpdatedAt:  time.Now(),
	}, true
}

// parseMatchWinnerValues extracts the Home/Draw/Away quotes from one
// bookmaker's match-winner bet values.
func parseMatchWinnerValues(values []apiOddsValue) (home, draw, away decimal.Decimal, ok bool) {
	seen := 0
	for _, value := range values {
		odd, err := decimal.NewFromString(value.Odd)
		if err != nil || odd.LessThanOrEqual(decimal.NewFromInt(1)) {
			continue
		}

		switch value.Value {
		case "Home", "1":
			home = odd
			seen++
		case "Draw", "X":
			draw = odd
			seen++
		case "Away", "2":
			away = odd
			seen++
		}
	}
	return home, draw, away, seen == 3
}

package datasource

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// DataSource defines the interface for fetching football match data from
// external providers.
type DataSource interface {
	// FetchResults retrieves finished matches within the specified date range
	FetchResults(ctx context.Context, startDate, endDate time.Time) ([]MatchData, error)

	// FetchUpcoming retrieves scheduled fixtures from the given date forward
	FetchUpcoming(ctx context.Context, from time.Time, days int) ([]MatchData, error)

	// FetchOdds retrieves current mean bookmaker odds for the given fixtures
	FetchOdds(ctx context.Context, fixtureIDs []int64) (map[int64]OddsData, error)

	// Name returns the name of the data source
	Name() string

	// IsEnabled returns whether this data source is currently enabled
	IsEnabled() bool
}

// MatchData represents one match record from any data source. Finished
// matches carry goals; scheduled fixtures leave them nil.
type MatchData struct {
	SourceID  string    `json:"source_id"`  // Provider's unique match ID
	FixtureID int64     `json:"fixture_id"` // Numeric fixture identifier
	Date      time.Time `json:"date"`       // Kickoff time UTC
	Season    string    `json:"season"`     // Season label if the provider supplies one
	HomeTeam  string    `json:"home_team"`  // Raw provider team name
	AwayTeam  string    `json:"away_team"`  // Raw provider team name
	HomeGoals *int      `json:"home_goals"` // Full-time goals, nil until played
	AwayGoals *int      `json:"away_goals"` // Full-time goals, nil until played
	Odds      *OddsData `json:"odds"`       // 1X2 odds if the provider includes them
	CreatedAt time.Time `json:"created_at"` // When data was fetched
}

// OddsData represents 1X2 decimal odds from a data source, averaged across
// bookmakers when more than one is quoted.
type OddsData struct {
	Home       *decimal.Decimal `json:"home"`
	Draw       *decimal.Decimal `json:"draw"`
	Away       *decimal.Decimal `json:"away"`
	Bookmakers int              `json:"bookmakers"` // How many quotes went into the mean
	UpdatedAt  time.Time        `json:"updated_at"`
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeUnknown              = "unknown"
)

// Sentinel errors
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrSourceDisabled       = errors.New("data source disabled")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

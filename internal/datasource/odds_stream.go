package datasource

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// OddsUpdate is one live odds change pushed by the provider stream
type OddsUpdate struct {
	FixtureID int64     `json:"fixture_id"`
	Odds      OddsData  `json:"odds"`
	Received  time.Time `json:"received"`
}

// OddsHandler is called for every odds update received from the stream
type OddsHandler func(update OddsUpdate) error

// ReconnectConfig controls reconnection behavior
type ReconnectConfig struct {
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// DefaultReconnectConfig returns default reconnection configuration
func DefaultReconnectConfig() ReconnectConfig {
	return ReconnectConfig{
		MaxRetries:        10,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 1.5,
	}
}

// oddsStreamMessage is the provider's wire format for stream frames
type oddsStreamMessage struct {
	Op        string `json:"op"`
	FixtureID int64  `json:"fixture_id,omitempty"`
	Home      string `json:"home,omitempty"`
	Draw      string `json:"draw,omitempty"`
	Away      string `json:"away,omitempty"`
	Heartbeat bool   `json:"heartbeat,omitempty"`
}

// OddsStreamClient handles the WebSocket connection to the provider's live
// odds stream.
type OddsStreamClient struct {
	conn            *websocket.Conn
	apiKey          string
	streamURL       string
	mu              sync.RWMutex
	isConnected     bool
	handlers        []OddsHandler
	reconnectConfig ReconnectConfig
	lastMessageTime time.Time
	logger          *logrus.Logger
}

// NewOddsStreamClient creates a new odds stream client
func NewOddsStreamClient(streamURL, apiKey string, logger *logrus.Logger) *OddsStreamClient {
	return &OddsStreamClient{
		apiKey:          apiKey,
		streamURL:       streamURL,
		handlers:        make([]OddsHandler, 0),
		reconnectConfig: DefaultReconnectConfig(),
		logger:          logger,
	}
}

// Connect establishes the WebSocket connection and starts the read loop
func (s *OddsStreamClient) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isConnected {
		return fmt.Errorf("already connected")
	}

	s.logger.WithField("url", s.streamURL).Info("Connecting to odds stream")

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, s.streamURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to odds stream: %w", err)
	}

	s.conn = conn
	s.isConnected = true
	s.lastMessageTime = time.Now()

	go s.readMessages()

	return nil
}

// Authenticate sends the authentication frame
func (s *OddsStreamClient) Authenticate(ctx context.Context) error {
	return s.sendMessage(map[string]interface{}{
		"op":      "auth",
		"api_key": s.apiKey,
	})
}

// SubscribeToFixtures subscribes to live odds for the given fixtures
func (s *OddsStreamClient) SubscribeToFixtures(ctx context.Context, fixtureIDs []int64) error {
	s.logger.WithField("fixtures", len(fixtureIDs)).Info("Subscribing to fixture odds")
	return s.sendMessage(map[string]interface{}{
		"op":          "subscribe",
		"api_key":     s.apiKey,
		"fixture_ids": fixtureIDs,
		"heartbeat":   true,
	})
}

// AddHandler registers an odds update handler
func (s *OddsStreamClient) AddHandler(handler OddsHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, handler)
}

// readMessages reads frames from the WebSocket connection
func (s *OddsStreamClient) readMessages() {
	defer s.Close()

	for {
		var msg oddsStreamMessage
		err := s.conn.ReadJSON(&msg)
		if err != nil {
			s.logger.WithError(err).Warn("Odds stream read failed")
			s.mu.Lock()
			s.isConnected = false
			s.mu.Unlock()
			return
		}

		s.mu.Lock()
		s.lastMessageTime = time.Now()
		s.mu.Unlock()

		if msg.Op != "odds" || msg.Heartbeat {
			continue
		}

		update, err := convertStreamMessage(&msg)
		if err != nil {
			s.logger.WithError(err).WithField("fixture_id", msg.FixtureID).
				Warn("Dropping malformed odds frame")
			continue
		}

		s.mu.RLock()
		handlers := s.handlers
		s.mu.RUnlock()

		for _, handler := range handlers {
			if err := handler(update); err != nil {
				s.logger.WithError(err).Warn("Odds handler failed")
			}
		}
	}
}

// convertStreamMessage parses a raw odds frame into an OddsUpdate
func convertStreamMessage(msg *oddsStreamMessage) (OddsUpdate, error) {
	parse := func(raw string) (*decimal.Decimal, error) {
		odd, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("bad odds value %q: %w", raw, err)
		}
		if odd.LessThanOrEqual(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("%w: odds %s not above 1.0", ErrInvalidData, raw)
		}
		return &odd, nil
	}

	home, err := parse(msg.Home)
	if err != nil {
		return OddsUpdate{}, err
	}
	draw, err := parse(msg.Draw)
	if err != nil {
		return OddsUpdate{}, err
	}
	away, err := parse(msg.Away)
	if err != nil {
		return OddsUpdate{}, err
	}

	return OddsUpdate{
		FixtureID: msg.FixtureID,
		Odds: OddsData{
			Home:       home,
			Draw:       draw,
			Away:       away,
			Bookmakers: 1,
			UpdatedAt:  time.Now(),
		},
		Received: time.Now(),
	}, nil
}

// sendMessage sends a JSON frame over the stream
func (s *OddsStreamClient) sendMessage(msg interface{}) error {
	s.mu.RLock()
	if !s.isConnected || s.conn == nil {
		s.mu.RUnlock()
		return fmt.Errorf("not connected")
	}
	conn := s.conn
	s.mu.RUnlock()

	return conn.WriteJSON(msg)
}

// IsConnected returns whether the stream is connected
func (s *OddsStreamClient) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isConnected
}

// LastMessageTime returns the time of the last received frame
func (s *OddsStreamClient) LastMessageTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastMessageTime
}

// Close closes the stream connection
func (s *OddsStreamClient) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}

	s.isConnected = false
	return s.conn.Close()
}

// Ping sends a keep-alive frame
func (s *OddsStreamClient) Ping() error {
	return s.sendMessage(map[string]interface{}{"op": "ping"})
}

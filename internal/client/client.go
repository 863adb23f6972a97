package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/holdemtable/internal/game"
	"github.com/lox/holdemtable/internal/server" // Reuse message types
)

// ErrGameDiscarded ends a watch stream whose game was removed
var ErrGameDiscarded = fmt.Errorf("game discarded: %w", game.ErrGameNotFound)

// Client talks to a holdemtable server over HTTP and WebSocket
type Client struct {
	baseURL *url.URL
	http    *http.Client
	dialer  *websocket.Dialer
	logger  *log.Logger
}

// NewClient creates a client for serverURL, e.g. http://localhost:8080
func NewClient(serverURL string, timeout time.Duration, logger *log.Logger) (*Client, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server URL %q: scheme must be http or https", serverURL)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")

	return &Client{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
		dialer:  &websocket.Dialer{HandshakeTimeout: timeout},
		logger:  logger.WithPrefix("client"),
	}, nil
}

func (c *Client) endpoint(segments ...string) string {
	return c.baseURL.JoinPath(segments...).String()
}

// do sends a JSON request and decodes a JSON response into out. Error
// responses are returned as *server.ErrorData.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("Request", "method", method, "url", endpoint)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr server.ErrorData
		if err := json.Unmarshal(data, &apiErr); err != nil || apiErr.Code == "" {
			return fmt.Errorf("%s %s: unexpected status %d", method, endpoint, resp.StatusCode)
		}
		return &apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Health checks that the server is up
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, c.endpoint("health"), nil, nil)
}

// Create creates a game. An empty id lets the server generate one.
func (c *Client) Create(ctx context.Context, id string, players []string) (string, error) {
	endpoint := c.endpoint("games")
	if id != "" {
		endpoint = c.endpoint("games", id)
	}

	var resp server.MessageResponse
	err := c.do(ctx, http.MethodPost, endpoint, server.CreateGameRequest{Players: players}, &resp)
	return resp.GameID, err
}

// List returns all games on the server
func (c *Client) List(ctx context.Context) ([]server.GameSummary, error) {
	var resp server.ListGamesResponse
	err := c.do(ctx, http.MethodGet, c.endpoint("games"), nil, &resp)
	return resp.Games, err
}

// State fetches a snapshot as seen by player, who may be empty
func (c *Client) State(ctx context.Context, id, player string) (game.Snapshot, error) {
	endpoint := c.endpoint("games", id)
	if player != "" {
		endpoint += "?" + url.Values{"player": {player}}.Encode()
	}

	var snap game.Snapshot
	err := c.do(ctx, http.MethodGet, endpoint, nil, &snap)
	return snap, err
}

// Join seats player at seat
func (c *Client) Join(ctx context.Context, id, player string, seat int) (string, error) {
	var resp server.MessageResponse
	err := c.do(ctx, http.MethodPost, c.endpoint("games", id, "join"),
		server.JoinRequest{PlayerName: player, SeatIndex: &seat}, &resp)
	return resp.Message, err
}

// Leave vacates player's seat
func (c *Client) Leave(ctx context.Context, id, player string) (string, error) {
	var resp server.MessageResponse
	err := c.do(ctx, http.MethodPost, c.endpoint("games", id, "leave"),
		server.LeaveRequest{PlayerName: player}, &resp)
	return resp.Message, err
}

// Deal advances the game one phase and returns the new phase
func (c *Client) Deal(ctx context.Context, id string) (game.Phase, error) {
	var resp server.MessageResponse
	if err := c.do(ctx, http.MethodPost, c.endpoint("games", id, "deal"), nil, &resp); err != nil {
		return game.Waiting, err
	}
	return game.ParsePhase(resp.Phase)
}

// Reset returns the game to WAITING
func (c *Client) Reset(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, c.endpoint("games", id, "reset"), nil, nil)
}

// Discard removes a game from the server
func (c *Client) Discard(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.endpoint("games", id), nil, nil)
}

// Stream delivers the snapshots of a watched game
type Stream struct {
	C <-chan game.Snapshot

	conn      *websocket.Conn
	logger    *log.Logger
	mu        sync.Mutex
	err       error
	closed    atomic.Bool
	closeOnce sync.Once
}

// Watch opens a WebSocket stream of snapshots as seen by player. The first
// snapshot is the current state.
func (c *Client) Watch(ctx context.Context, id, player string) (*Stream, error) {
	u := c.baseURL.JoinPath("games", id, "ws")
	// Convert http/https to ws/wss
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	if player != "" {
		u.RawQuery = url.Values{"player": {player}}.Encode()
	}

	conn, resp, err := c.dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		if resp != nil {
			defer resp.Body.Close()
			var apiErr server.ErrorData
			if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Code != "" {
				return nil, &apiErr
			}
		}
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	ch := make(chan game.Snapshot, 16)
	s := &Stream{C: ch, conn: conn, logger: c.logger.With("game", id)}
	go s.readPump(ctx, ch)
	return s, nil
}

// Err returns why the stream ended, nil for a clean close
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close ends the stream
func (s *Stream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		err = s.conn.Close()
	})
	return err
}

func (s *Stream) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

// readPump decodes frames until the connection ends
func (s *Stream) readPump(ctx context.Context, ch chan<- game.Snapshot) {
	defer close(ch)
	defer func() { _ = s.Close() }()

	stop := context.AfterFunc(ctx, func() { _ = s.Close() })
	defer stop()

	for {
		var msg server.Message
		if err := s.conn.ReadJSON(&msg); err != nil {
			// Closing our own end or a normal close from the server is a clean end
			if !s.closed.Load() && !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.setErr(err)
			}
			return
		}

		switch msg.Type {
		case server.MessageTypeState:
			snap, err := msg.Snapshot()
			if err != nil {
				s.setErr(fmt.Errorf("decode snapshot: %w", err))
				return
			}
			select {
			case ch <- snap:
			case <-ctx.Done():
				return
			}

		case server.MessageTypeDiscarded:
			s.setErr(ErrGameDiscarded)
			return

		case server.MessageTypeError:
			var apiErr server.ErrorData
			if err := json.Unmarshal(msg.Data, &apiErr); err != nil {
				s.setErr(err)
			} else {
				s.setErr(&apiErr)
			}
			return

		default:
			s.logger.Debug("Ignoring message", "type", msg.Type)
		}
	}
}

package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lox/holdemtable/internal/game"
)

// MessageType identifies a WebSocket frame
type MessageType string

const (
	MessageTypeState     MessageType = "state"
	MessageTypeDiscarded MessageType = "game_discarded"
	MessageTypeError     MessageType = "error"
)

func (t MessageType) String() string { return string(t) }

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message stamped with now
func NewMessage(messageType MessageType, data any, now time.Time) (*Message, error) {
	msg := &Message{Type: messageType, Timestamp: now}
	if data != nil {
		dataBytes, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		msg.Data = dataBytes
	}
	return msg, nil
}

// Snapshot decodes the data of a state message
func (m *Message) Snapshot() (game.Snapshot, error) {
	var snap game.Snapshot
	if m.Type != MessageTypeState {
		return snap, fmt.Errorf("message type %s carries no snapshot", m.Type)
	}
	err := json.Unmarshal(m.Data, &snap)
	return snap, err
}

// Requests

// CreateGameRequest is the body of POST /games and POST /games/{id}. A bare
// JSON array is accepted as the player list.
type CreateGameRequest struct {
	GameID  string   `json:"game_id,omitempty"`
	Players []string `json:"players,omitempty"`
}

func (r *CreateGameRequest) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		*r = CreateGameRequest{}
		return json.Unmarshal(trimmed, &r.Players)
	}

	type plain CreateGameRequest
	var p plain
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return err
	}
	*r = CreateGameRequest(p)
	return nil
}

type JoinRequest struct {
	PlayerName string `json:"player_name"`
	SeatIndex  *int   `json:"seat_index"`
}

type LeaveRequest struct {
	PlayerName string `json:"player_name"`
}

// Responses

type MessageResponse struct {
	Message string `json:"message"`
	GameID  string `json:"game_id,omitempty"`
	Phase   string `json:"phase,omitempty"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ErrorData) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// GameSummary is one row of GET /games
type GameSummary struct {
	GameID  string     `json:"game_id"`
	Phase   game.Phase `json:"phase"`
	Round   int        `json:"round"`
	Players []string   `json:"players"`
}

type ListGamesResponse struct {
	Games []GameSummary `json:"games"`
}

// Unwrap lets errors.Is match the sentinel behind the code
func (e *ErrorData) Unwrap() error {
	return ErrorForCode(e.Code)
}

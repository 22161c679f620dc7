package ws

import (
	"encoding/json"

	"github.com/offchess/chessroom-backend/internal/engine"
	"github.com/offchess/chessroom-backend/internal/model"
)

// MessageType enumerates the messages crossing the relay channel.
type MessageType string

const (
	// client -> server
	MessageTypeMove        MessageType = "move"
	MessageTypeChat        MessageType = "chat"
	MessageTypeResign      MessageType = "resign"
	MessageTypeDrawOffer   MessageType = "draw_offer"
	MessageTypeDrawAccept  MessageType = "draw_accept"
	MessageTypeDrawDecline MessageType = "draw_decline"
	MessageTypeRestart     MessageType = "restart"
	MessageTypeSyncRequest MessageType = "sync_request"

	// server -> client
	MessageTypeConnected          MessageType = "connected"
	MessageTypePlayerConnected    MessageType = "player_connected"
	MessageTypePlayerDisconnected MessageType = "player_disconnected"
	MessageTypeGameStart          MessageType = "game_start"
	MessageTypeGameOver           MessageType = "game_over"
	MessageTypeDrawDeclined       MessageType = "draw_declined"
	MessageTypeSyncResponse       MessageType = "sync_response"
	MessageTypeError              MessageType = "error"
)

// Message is the envelope for every WebSocket frame in the system.
type Message struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

func NewMessage(t MessageType, payload any) Message {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{Type: MessageTypeError, Data: json.RawMessage(`{"message":"encode failure"}`)}
	}
	return Message{Type: t, Data: raw}
}

// MovePayload carries one ply in algebraic squares ("e2" -> "e4").
type MovePayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// MoveBroadcast is the server's authoritative echo of an accepted move.
type MoveBroadcast struct {
	From     string         `json:"from"`
	To       string         `json:"to"`
	Player   engine.Color   `json:"player"`
	FEN      string         `json:"fen"`
	Check    bool           `json:"check"`
	Captured []engine.Piece `json:"captured"`
}

type ChatPayload struct {
	From    engine.Color `json:"from,omitempty"`
	Message string       `json:"message"`
}

type ConnectedPayload struct {
	PlayerID  string              `json:"player_id"`
	Color     engine.Color        `json:"color"`
	RoomID    string              `json:"room_id"`
	GameState *model.GameSnapshot `json:"game_state"`
}

type PlayerEventPayload struct {
	PlayerID string       `json:"player_id"`
	Color    engine.Color `json:"color"`
}

type GameStatePayload struct {
	GameState *model.GameSnapshot `json:"game_state"`
}

type GameOverPayload struct {
	Winner string `json:"winner,omitempty"`
	Reason string `json:"reason"`
}

type DrawEventPayload struct {
	From engine.Color `json:"from"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

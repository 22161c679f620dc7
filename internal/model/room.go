package model

import (
	"time"

	"github.com/offchess/chessroom-backend/internal/engine"
)

type RoomStatus string

const (
	StatusWaiting  RoomStatus = "waiting"
	StatusActive   RoomStatus = "active"
	StatusFinished RoomStatus = "finished"
)

type Player struct {
	ID        string       `json:"id"`
	Color     engine.Color `json:"color"`
	Connected bool         `json:"connected"`
}

// GameSnapshot is the serialized view of a match: enough for a client to
// redraw the board and for the service to rebuild the authoritative engine
// state by replaying MoveHistory.
type GameSnapshot struct {
	FEN         string         `json:"fen"`
	CurrentTurn engine.Color   `json:"current_turn"`
	MoveHistory []string       `json:"move_history"`
	Captured    []engine.Piece `json:"captured"`
	Check       bool           `json:"check"`
	Winner      string         `json:"winner,omitempty"`
	EndReason   string         `json:"end_reason,omitempty"`
}

// Room is the persisted match container, stored as a JSON blob keyed by its
// short code. The first player to arrive plays white.
type Room struct {
	Code      string        `json:"room_id"`
	Players   []Player      `json:"players"`
	Status    RoomStatus    `json:"status"`
	Game      *GameSnapshot `json:"game_state,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func (r *Room) PlayerByID(id string) *Player {
	for i := range r.Players {
		if r.Players[i].ID == id {
			return &r.Players[i]
		}
	}
	return nil
}

func (r *Room) ColorOf(id string) engine.Color {
	if p := r.PlayerByID(id); p != nil {
		return p.Color
	}
	return ""
}

func (r *Room) IsFull() bool {
	return len(r.Players) >= 2
}

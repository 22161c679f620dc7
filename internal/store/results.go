package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/offchess/chessroom-backend/internal/model"
)

// ResultRepository archives finished games in postgres. It is optional;
// rooms work without it and results are simply not kept past the redis TTL.
type ResultRepository struct {
	db *sql.DB
}

func NewResultRepository(databaseURL string) (*ResultRepository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("database url is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &ResultRepository{db: db}, nil
}

func (r *ResultRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// SaveResult upserts the final state of a finished room.
func (r *ResultRepository) SaveResult(ctx context.Context, room *model.Room) error {
	if r == nil || r.db == nil || room == nil || room.Game == nil {
		return nil
	}
	var whiteID, blackID string
	for _, p := range room.Players {
		switch p.Color {
		case "white":
			whiteID = p.ID
		case "black":
			blackID = p.ID
		}
	}
	movesRaw, _ := json.Marshal(room.Game.MoveHistory)
	duration := room.UpdatedAt.Sub(room.CreatedAt).Milliseconds()
	if duration < 0 {
		duration = 0
	}

	q := `INSERT INTO finished_games (
	    room_code, white_id, black_id,
	    winner, end_reason, final_fen, moves,
	    started_at, ended_at, duration_ms
	  ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	  ON CONFLICT (room_code) DO UPDATE SET
	    winner=EXCLUDED.winner,
	    end_reason=EXCLUDED.end_reason,
	    final_fen=EXCLUDED.final_fen,
	    moves=EXCLUDED.moves,
	    ended_at=EXCLUDED.ended_at,
	    duration_ms=EXCLUDED.duration_ms`

	_, err := r.db.ExecContext(ctx, q,
		room.Code, whiteID, blackID,
		room.Game.Winner, room.Game.EndReason, room.Game.FEN, string(movesRaw),
		room.CreatedAt, room.UpdatedAt, duration,
	)
	return err
}

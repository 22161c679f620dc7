package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/offchess/chessroom-backend/internal/engine"
	"github.com/offchess/chessroom-backend/internal/model"
	"github.com/offchess/chessroom-backend/internal/obslog"
	"github.com/offchess/chessroom-backend/internal/store"
	"github.com/offchess/chessroom-backend/internal/ws"
)

type staticErr string

func (e staticErr) Error() string { return string(e) }

const (
	ErrRoomNotFound  = staticErr("room not found")
	ErrRoomFull      = staticErr("room is full")
	ErrNotInRoom     = staticErr("player not in room")
	ErrGameNotActive = staticErr("game is not active")
	ErrNotYourTurn   = staticErr("not your turn")
	ErrIllegalMove   = staticErr("illegal move")
	ErrBadSquare     = staticErr("malformed square")
)

// ResultSink receives finished games for archival.
type ResultSink interface {
	SaveResult(ctx context.Context, room *model.Room) error
}

// RoomManager owns every live room: persisted metadata in the RoomStore,
// the authoritative engine state per active room, and the websocket
// connections used for relaying. All engine access is serialized under mu,
// one applied move at a time per room.
type RoomManager struct {
	mu      sync.Mutex
	store   *store.RoomStore
	engines map[string]*engine.GameState
	results ResultSink

	connMu      sync.RWMutex
	connections map[string]map[string]*Conn // room code -> playerID -> conn
}

func NewRoomManager(st *store.RoomStore) *RoomManager {
	return &RoomManager{
		store:       st,
		engines:     make(map[string]*engine.GameState),
		connections: make(map[string]map[string]*Conn),
	}
}

// AttachResults wires an archival sink for finished games.
func (rm *RoomManager) AttachResults(sink ResultSink) {
	rm.results = sink
}

// newRoomCode mints an unused 4-digit code.
func (rm *RoomManager) newRoomCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 100; attempt++ {
		b := make([]byte, 4)
		if _, err := rand.Read(b); err != nil {
			return "", err
		}
		code := fmt.Sprintf("%d%d%d%d", b[0]%10, b[1]%10, b[2]%10, b[3]%10)
		taken, err := rm.store.Exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("room code space exhausted")
}

// CreateRoom opens a new room with the creator seated as white.
func (rm *RoomManager) CreateRoom(ctx context.Context, playerID string) (*model.Room, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	code, err := rm.newRoomCode(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	room := &model.Room{
		Code:      code,
		Players:   []model.Player{{ID: playerID, Color: engine.White, Connected: false}},
		Status:    model.StatusWaiting,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := rm.store.Save(ctx, room); err != nil {
		return nil, err
	}
	obslog.L().Info("room_create", zap.String("room", code), zap.String("player", playerID))
	return room, nil
}

// JoinRoom seats a second player as black and starts the game once both
// players are present. Joining a room you already sit in is a no-op.
func (rm *RoomManager) JoinRoom(ctx context.Context, code, playerID string) (*model.Room, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	room, err := rm.store.Load(ctx, code)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	if room.PlayerByID(playerID) != nil {
		return room, nil
	}
	if room.IsFull() {
		return nil, ErrRoomFull
	}

	room.Players = append(room.Players, model.Player{ID: playerID, Color: engine.Black})
	if room.IsFull() {
		game := engine.NewGame()
		rm.engines[room.Code] = game
		room.Status = model.StatusActive
		room.Game = snapshotOf(game, nil)
	}
	room.UpdatedAt = time.Now()
	if err := rm.store.Save(ctx, room); err != nil {
		return nil, err
	}
	obslog.L().Info("room_join",
		zap.String("room", code),
		zap.String("player", playerID),
		zap.String("status", string(room.Status)),
	)
	return room, nil
}

func (rm *RoomManager) GetRoom(ctx context.Context, code string) (*model.Room, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	room, err := rm.store.Load(ctx, code)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

func (rm *RoomManager) DeleteRoom(ctx context.Context, code string) error {
	rm.mu.Lock()
	delete(rm.engines, code)
	err := rm.store.Delete(ctx, code)
	rm.mu.Unlock()

	rm.connMu.Lock()
	for _, conn := range rm.connections[code] {
		_ = conn.Close()
	}
	delete(rm.connections, code)
	rm.connMu.Unlock()

	if err == nil {
		obslog.L().Info("room_delete", zap.String("room", code))
	}
	return err
}

func (rm *RoomManager) RoomCount(ctx context.Context) (int64, error) {
	if err := rm.store.Prune(ctx); err != nil {
		return 0, err
	}
	return rm.store.Count(ctx)
}

// MakeMove validates and applies one ply for playerID. The engine is the
// authority: an illegal move mutates nothing and surfaces ErrIllegalMove so
// the relay can bounce it back to the sender only.
func (rm *RoomManager) MakeMove(ctx context.Context, code, playerID, fromSq, toSq string) (*model.Room, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	room, err := rm.store.Load(ctx, code)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	player := room.PlayerByID(playerID)
	if player == nil {
		return nil, ErrNotInRoom
	}
	if room.Status != model.StatusActive || room.Game == nil {
		return nil, ErrGameNotActive
	}

	game, err := rm.engineFor(room)
	if err != nil {
		return nil, err
	}
	if game.ToMove != player.Color {
		return nil, ErrNotYourTurn
	}
	from, okFrom := engine.ParseSquare(fromSq)
	to, okTo := engine.ParseSquare(toSq)
	if !okFrom || !okTo {
		return nil, ErrBadSquare
	}
	if !game.ApplyMove(from, to) {
		return nil, ErrIllegalMove
	}

	history := append(room.Game.MoveHistory, fromSq+toSq)
	room.Game = snapshotOf(game, history)
	if game.Outcome != engine.InProgress {
		room.Status = model.StatusFinished
		delete(rm.engines, code)
		rm.archive(ctx, room)
	}
	room.UpdatedAt = time.Now()
	if err := rm.store.Save(ctx, room); err != nil {
		return nil, err
	}
	obslog.L().Info("room_move",
		zap.String("room", code),
		zap.String("player", playerID),
		zap.String("move", fromSq+toSq),
		zap.String("outcome", string(game.Outcome)),
	)
	return room, nil
}

// Resign finishes the game in favor of the opponent.
func (rm *RoomManager) Resign(ctx context.Context, code, playerID string) (*model.Room, error) {
	return rm.finish(ctx, code, playerID, "resignation", func(room *model.Room, mover *model.Player) string {
		return string(mover.Color.Opponent())
	})
}

// AcceptDraw ends the game as a draw by agreement.
func (rm *RoomManager) AcceptDraw(ctx context.Context, code, playerID string) (*model.Room, error) {
	return rm.finish(ctx, code, playerID, "draw_agreement", func(*model.Room, *model.Player) string {
		return ""
	})
}

func (rm *RoomManager) finish(ctx context.Context, code, playerID, reason string, winner func(*model.Room, *model.Player) string) (*model.Room, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	room, err := rm.store.Load(ctx, code)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	player := room.PlayerByID(playerID)
	if player == nil {
		return nil, ErrNotInRoom
	}
	if room.Status != model.StatusActive || room.Game == nil {
		return nil, ErrGameNotActive
	}

	room.Status = model.StatusFinished
	room.Game.Winner = winner(room, player)
	room.Game.EndReason = reason
	room.UpdatedAt = time.Now()
	delete(rm.engines, code)
	rm.archive(ctx, room)
	if err := rm.store.Save(ctx, room); err != nil {
		return nil, err
	}
	obslog.L().Info("room_finish",
		zap.String("room", code),
		zap.String("reason", reason),
		zap.String("winner", room.Game.Winner),
	)
	return room, nil
}

// Restart resets a full room to a fresh game.
func (rm *RoomManager) Restart(ctx context.Context, code, playerID string) (*model.Room, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	room, err := rm.store.Load(ctx, code)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	if room.PlayerByID(playerID) == nil {
		return nil, ErrNotInRoom
	}
	if !room.IsFull() {
		return nil, ErrGameNotActive
	}

	game := engine.NewGame()
	rm.engines[code] = game
	room.Status = model.StatusActive
	room.Game = snapshotOf(game, nil)
	room.UpdatedAt = time.Now()
	if err := rm.store.Save(ctx, room); err != nil {
		return nil, err
	}
	obslog.L().Info("room_restart", zap.String("room", code), zap.String("player", playerID))
	return room, nil
}

// MarkConnected flips a player's connected flag in the persisted room.
func (rm *RoomManager) MarkConnected(ctx context.Context, code, playerID string, connected bool) (*model.Room, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	room, err := rm.store.Load(ctx, code)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	player := room.PlayerByID(playerID)
	if player == nil {
		return nil, ErrNotInRoom
	}
	player.Connected = connected
	room.UpdatedAt = time.Now()
	if err := rm.store.Save(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// engineFor returns the cached engine state for an active room, rebuilding
// it from the persisted move history after a restart. Replay goes through
// ApplyMove, so a rebuilt state obeys the same invariants as the original.
func (rm *RoomManager) engineFor(room *model.Room) (*engine.GameState, error) {
	if game, ok := rm.engines[room.Code]; ok {
		return game, nil
	}
	game := engine.NewGame()
	for _, mv := range room.Game.MoveHistory {
		if len(mv) != 4 {
			return nil, fmt.Errorf("corrupt move %q in room %s", mv, room.Code)
		}
		from, okFrom := engine.ParseSquare(mv[:2])
		to, okTo := engine.ParseSquare(mv[2:])
		if !okFrom || !okTo || !game.ApplyMove(from, to) {
			return nil, fmt.Errorf("replay failed at %q in room %s", mv, room.Code)
		}
	}
	rm.engines[room.Code] = game
	return game, nil
}

func (rm *RoomManager) archive(ctx context.Context, room *model.Room) {
	if rm.results == nil {
		return
	}
	if err := rm.results.SaveResult(ctx, room); err != nil {
		obslog.L().Error("result_archive_error", zap.String("room", room.Code), zap.Error(err))
	}
}

func snapshotOf(game *engine.GameState, history []string) *model.GameSnapshot {
	if history == nil {
		history = []string{}
	}
	snap := &model.GameSnapshot{
		FEN:         game.FEN(),
		CurrentTurn: game.ToMove,
		MoveHistory: history,
		Captured:    append([]engine.Piece{}, game.Captured...),
		Check:       engine.IsInCheck(game.ToMove, &game.Board),
	}
	switch game.Outcome {
	case engine.WhiteWins:
		snap.Winner = string(engine.White)
		snap.EndReason = "checkmate"
	case engine.BlackWins:
		snap.Winner = string(engine.Black)
		snap.EndReason = "checkmate"
	case engine.Draw:
		snap.EndReason = "stalemate"
	}
	return snap
}

// RegisterConnection attaches a live websocket for relaying, wrapped so that
// all writes to it are serialized. A second connection for the same player
// replaces the first. The returned Conn is what the caller must write through
// and hand back to UnregisterConnection.
func (rm *RoomManager) RegisterConnection(code, playerID string, sock Socket) *Conn {
	conn := newConn(sock)
	rm.connMu.Lock()
	defer rm.connMu.Unlock()
	if rm.connections[code] == nil {
		rm.connections[code] = make(map[string]*Conn)
	}
	if old, ok := rm.connections[code][playerID]; ok {
		_ = old.Close()
	}
	rm.connections[code][playerID] = conn
	return conn
}

// UnregisterConnection detaches the player's websocket. It only removes the
// registration when it still points at conn, so a replaced connection's
// deferred cleanup cannot evict its successor.
func (rm *RoomManager) UnregisterConnection(code, playerID string, conn *Conn) {
	rm.connMu.Lock()
	defer rm.connMu.Unlock()
	if cur, ok := rm.connections[code][playerID]; ok && cur == conn {
		delete(rm.connections[code], playerID)
		if len(rm.connections[code]) == 0 {
			delete(rm.connections, code)
		}
	}
}

func (rm *RoomManager) ConnectedCount(code string) int {
	rm.connMu.RLock()
	defer rm.connMu.RUnlock()
	return len(rm.connections[code])
}

// Broadcast sends msg to every connection in the room except excludePlayer
// (pass "" to reach everyone).
func (rm *RoomManager) Broadcast(code string, msg ws.Message, excludePlayer string) {
	rm.connMu.RLock()
	targets := make(map[string]*Conn, len(rm.connections[code]))
	for id, conn := range rm.connections[code] {
		if id != excludePlayer {
			targets[id] = conn
		}
	}
	rm.connMu.RUnlock()

	for id, conn := range targets {
		if err := conn.WriteJSON(msg); err != nil {
			obslog.L().Warn("broadcast_write_error",
				zap.String("room", code),
				zap.String("player", id),
				zap.Error(err),
			)
		}
	}
}

// SendTo sends msg to a single player in the room, if connected.
func (rm *RoomManager) SendTo(code, playerID string, msg ws.Message) {
	rm.connMu.RLock()
	conn := rm.connections[code][playerID]
	rm.connMu.RUnlock()
	if conn != nil {
		if err := conn.WriteJSON(msg); err != nil {
			obslog.L().Warn("send_write_error",
				zap.String("room", code),
				zap.String("player", playerID),
				zap.Error(err),
			)
		}
	}
}

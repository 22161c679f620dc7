package service

import (
	"context"

	"github.com/offchess/chessroom-backend/internal/model"
	"github.com/offchess/chessroom-backend/internal/ws"
)

// RoomService is the thin facade the controllers talk to.
type RoomService struct {
	rooms *RoomManager
}

func NewRoomService(rooms *RoomManager) *RoomService {
	return &RoomService{rooms: rooms}
}

func (s *RoomService) CreateRoom(ctx context.Context, playerID string) (*model.Room, error) {
	return s.rooms.CreateRoom(ctx, playerID)
}

func (s *RoomService) JoinRoom(ctx context.Context, code, playerID string) (*model.Room, error) {
	return s.rooms.JoinRoom(ctx, code, playerID)
}

func (s *RoomService) GetRoom(ctx context.Context, code string) (*model.Room, error) {
	return s.rooms.GetRoom(ctx, code)
}

func (s *RoomService) DeleteRoom(ctx context.Context, code string) error {
	return s.rooms.DeleteRoom(ctx, code)
}

func (s *RoomService) RoomCount(ctx context.Context) (int64, error) {
	return s.rooms.RoomCount(ctx)
}

func (s *RoomService) MakeMove(ctx context.Context, code, playerID, from, to string) (*model.Room, error) {
	return s.rooms.MakeMove(ctx, code, playerID, from, to)
}

func (s *RoomService) Resign(ctx context.Context, code, playerID string) (*model.Room, error) {
	return s.rooms.Resign(ctx, code, playerID)
}

func (s *RoomService) AcceptDraw(ctx context.Context, code, playerID string) (*model.Room, error) {
	return s.rooms.AcceptDraw(ctx, code, playerID)
}

func (s *RoomService) Restart(ctx context.Context, code, playerID string) (*model.Room, error) {
	return s.rooms.Restart(ctx, code, playerID)
}

func (s *RoomService) MarkConnected(ctx context.Context, code, playerID string, connected bool) (*model.Room, error) {
	return s.rooms.MarkConnected(ctx, code, playerID, connected)
}

func (s *RoomService) RegisterConnection(code, playerID string, sock Socket) *Conn {
	return s.rooms.RegisterConnection(code, playerID, sock)
}

func (s *RoomService) UnregisterConnection(code, playerID string, conn *Conn) {
	s.rooms.UnregisterConnection(code, playerID, conn)
}

func (s *RoomService) ConnectedCount(code string) int {
	return s.rooms.ConnectedCount(code)
}

func (s *RoomService) Broadcast(code string, msg ws.Message, excludePlayer string) {
	s.rooms.Broadcast(code, msg, excludePlayer)
}

func (s *RoomService) SendTo(code, playerID string, msg ws.Message) {
	s.rooms.SendTo(code, playerID, msg)
}

package controller

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/offchess/chessroom-backend/internal/engine"
	"github.com/offchess/chessroom-backend/internal/model"
	"github.com/offchess/chessroom-backend/internal/obslog"
	"github.com/offchess/chessroom-backend/internal/service"
	"github.com/offchess/chessroom-backend/internal/ws"
)

const (
	closeRoomNotFound    = 4004
	closePlayerNotInRoom = 4003
)

// clientErr marks an error whose text is safe to relay to the sender.
type clientErr string

func (e clientErr) Error() string { return string(e) }

// clientMessage maps a handling error to the text answered to the sender.
// Game rejections pass through verbatim; store and replay failures collapse
// to a generic message, with the detail kept for the log. The second return
// reports whether the detail was withheld.
func clientMessage(err error) (string, bool) {
	var ce clientErr
	if errors.As(err, &ce) {
		return ce.Error(), false
	}
	switch {
	case errors.Is(err, service.ErrRoomNotFound),
		errors.Is(err, service.ErrNotInRoom),
		errors.Is(err, service.ErrGameNotActive),
		errors.Is(err, service.ErrNotYourTurn),
		errors.Is(err, service.ErrIllegalMove),
		errors.Is(err, service.ErrBadSquare):
		return err.Error(), false
	}
	return "internal error", true
}

type WebSocketController struct {
	roomService *service.RoomService
}

func NewWebSocketController(roomService *service.RoomService) *WebSocketController {
	return &WebSocketController{roomService: roomService}
}

// HandleConnection runs the relay loop for one player's connection: announce
// arrival, forward messages until the socket drops, announce departure.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	roomID := c.Params("roomId")
	playerID, _ := c.Locals("wsPlayerID").(string)
	ctx := context.Background()

	room, err := wsc.roomService.GetRoom(ctx, roomID)
	if err != nil {
		wsc.closeWith(c, closeRoomNotFound, "Room not found")
		return
	}
	if room.PlayerByID(playerID) == nil {
		wsc.closeWith(c, closePlayerNotInRoom, "Player not in room")
		return
	}
	color := room.ColorOf(playerID)

	if room, err = wsc.roomService.MarkConnected(ctx, roomID, playerID, true); err != nil {
		obslog.L().Error("ws_mark_connected_error", zap.String("room", roomID), zap.Error(err))
		c.Close()
		return
	}
	conn := wsc.roomService.RegisterConnection(roomID, playerID, c)

	if err := conn.WriteJSON(ws.NewMessage(ws.MessageTypeConnected, ws.ConnectedPayload{
		PlayerID:  playerID,
		Color:     color,
		RoomID:    roomID,
		GameState: room.Game,
	})); err != nil {
		wsc.roomService.UnregisterConnection(roomID, playerID, conn)
		return
	}
	wsc.roomService.Broadcast(roomID, ws.NewMessage(ws.MessageTypePlayerConnected, ws.PlayerEventPayload{
		PlayerID: playerID,
		Color:    color,
	}), playerID)

	// both seats connected: tell everyone to start rendering the game
	if room.Status == model.StatusActive && wsc.roomService.ConnectedCount(roomID) == 2 {
		wsc.roomService.Broadcast(roomID, ws.NewMessage(ws.MessageTypeGameStart, ws.GameStatePayload{
			GameState: room.Game,
		}), "")
	}

	obslog.L().Info("ws_connect", zap.String("room", roomID), zap.String("player", playerID))

	for {
		msgType, raw, err := c.ReadMessage()
		if err != nil {
			break
		}
		if msgType != websocket.TextMessage {
			continue
		}
		var msg ws.Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			wsc.sendError(roomID, playerID, "malformed message")
			continue
		}
		if err := wsc.handleMessage(ctx, roomID, playerID, color, msg); err != nil {
			wsc.relayError(roomID, playerID, err)
		}
	}

	wsc.roomService.UnregisterConnection(roomID, playerID, conn)
	if _, err := wsc.roomService.MarkConnected(ctx, roomID, playerID, false); err != nil && !errors.Is(err, service.ErrRoomNotFound) {
		obslog.L().Warn("ws_mark_disconnected_error", zap.String("room", roomID), zap.Error(err))
	}
	wsc.roomService.Broadcast(roomID, ws.NewMessage(ws.MessageTypePlayerDisconnected, ws.PlayerEventPayload{
		PlayerID: playerID,
		Color:    color,
	}), playerID)
	obslog.L().Info("ws_disconnect", zap.String("room", roomID), zap.String("player", playerID))
}

func (wsc *WebSocketController) handleMessage(ctx context.Context, roomID, playerID string, color engine.Color, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move ws.MovePayload
		if err := json.Unmarshal(msg.Data, &move); err != nil {
			return clientErr("malformed move payload")
		}
		return wsc.handleMove(ctx, roomID, playerID, color, move)

	case ws.MessageTypeChat:
		var chat ws.ChatPayload
		if err := json.Unmarshal(msg.Data, &chat); err != nil {
			return clientErr("malformed chat payload")
		}
		chat.From = color
		wsc.roomService.Broadcast(roomID, ws.NewMessage(ws.MessageTypeChat, chat), playerID)
		return nil

	case ws.MessageTypeResign:
		room, err := wsc.roomService.Resign(ctx, roomID, playerID)
		if err != nil {
			return err
		}
		wsc.roomService.Broadcast(roomID, ws.NewMessage(ws.MessageTypeGameOver, ws.GameOverPayload{
			Winner: room.Game.Winner,
			Reason: room.Game.EndReason,
		}), "")
		return nil

	case ws.MessageTypeDrawOffer:
		wsc.roomService.Broadcast(roomID, ws.NewMessage(ws.MessageTypeDrawOffer, ws.DrawEventPayload{
			From: color,
		}), playerID)
		return nil

	case ws.MessageTypeDrawAccept:
		room, err := wsc.roomService.AcceptDraw(ctx, roomID, playerID)
		if err != nil {
			return err
		}
		wsc.roomService.Broadcast(roomID, ws.NewMessage(ws.MessageTypeGameOver, ws.GameOverPayload{
			Winner: room.Game.Winner,
			Reason: room.Game.EndReason,
		}), "")
		return nil

	case ws.MessageTypeDrawDecline:
		wsc.roomService.Broadcast(roomID, ws.NewMessage(ws.MessageTypeDrawDeclined, ws.DrawEventPayload{
			From: color,
		}), playerID)
		return nil

	case ws.MessageTypeRestart:
		room, err := wsc.roomService.Restart(ctx, roomID, playerID)
		if err != nil {
			return err
		}
		wsc.roomService.Broadcast(roomID, ws.NewMessage(ws.MessageTypeRestart, ws.GameStatePayload{
			GameState: room.Game,
		}), "")
		return nil

	case ws.MessageTypeSyncRequest:
		room, err := wsc.roomService.GetRoom(ctx, roomID)
		if err != nil {
			return err
		}
		wsc.roomService.SendTo(roomID, playerID, ws.NewMessage(ws.MessageTypeSyncResponse, ws.GameStatePayload{
			GameState: room.Game,
		}))
		return nil

	default:
		return clientErr("unknown message type: " + string(msg.Type))
	}
}

// handleMove asks the engine to validate and apply the ply. A rejection is
// answered to the sender only; nothing reaches the opponent.
func (wsc *WebSocketController) handleMove(ctx context.Context, roomID, playerID string, color engine.Color, move ws.MovePayload) error {
	room, err := wsc.roomService.MakeMove(ctx, roomID, playerID, move.From, move.To)
	if err != nil {
		return err // relayed to sender as an error message, state untouched
	}

	wsc.roomService.Broadcast(roomID, ws.NewMessage(ws.MessageTypeMove, ws.MoveBroadcast{
		From:     move.From,
		To:       move.To,
		Player:   color,
		FEN:      room.Game.FEN,
		Check:    room.Game.Check,
		Captured: room.Game.Captured,
	}), "")

	if room.Status == model.StatusFinished {
		wsc.roomService.Broadcast(roomID, ws.NewMessage(ws.MessageTypeGameOver, ws.GameOverPayload{
			Winner: room.Game.Winner,
			Reason: room.Game.EndReason,
		}), "")
	}
	return nil
}

func (wsc *WebSocketController) relayError(roomID, playerID string, err error) {
	msg, withheld := clientMessage(err)
	if withheld {
		obslog.L().Error("ws_handle_error",
			zap.String("room", roomID),
			zap.String("player", playerID),
			zap.Error(err),
		)
	}
	wsc.sendError(roomID, playerID, msg)
}

func (wsc *WebSocketController) sendError(roomID, playerID, message string) {
	wsc.roomService.SendTo(roomID, playerID, ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{
		Message: message,
	}))
}

func (wsc *WebSocketController) closeWith(c *websocket.Conn, code int, reason string) {
	_ = c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason))
	_ = c.Close()
}

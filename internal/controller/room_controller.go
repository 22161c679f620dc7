package controller

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/offchess/chessroom-backend/internal/service"
)

type RoomController struct {
	roomService *service.RoomService
}

func NewRoomController(roomService *service.RoomService) *RoomController {
	return &RoomController{roomService: roomService}
}

func (rc *RoomController) Health(c *fiber.Ctx) error {
	count, err := rc.roomService.RoomCount(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "degraded",
			"error":  err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"status":       "healthy",
		"active_rooms": count,
	})
}

func (rc *RoomController) CreateRoom(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	room, err := rc.roomService.CreateRoom(c.Context(), playerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"room_id":   room.Code,
		"player_id": playerID,
		"message":   fmt.Sprintf("Room created. Share code %s with your opponent.", room.Code),
	})
}

func (rc *RoomController) JoinRoom(c *fiber.Ctx) error {
	roomID := c.Params("roomId")
	playerID := c.Locals("playerID").(string)

	room, err := rc.roomService.JoinRoom(c.Context(), roomID, playerID)
	if err != nil {
		return roomError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"room_id":   room.Code,
		"player_id": playerID,
		"color":     room.ColorOf(playerID),
		"status":    room.Status,
	})
}

func (rc *RoomController) GetRoom(c *fiber.Ctx) error {
	roomID := c.Params("roomId")

	room, err := rc.roomService.GetRoom(c.Context(), roomID)
	if err != nil {
		return roomError(c, err)
	}
	return c.JSON(fiber.Map{
		"room_id":      room.Code,
		"player_count": len(room.Players),
		"status":       room.Status,
		"game_state":   room.Game,
	})
}

func (rc *RoomController) DeleteRoom(c *fiber.Ctx) error {
	roomID := c.Params("roomId")

	if _, err := rc.roomService.GetRoom(c.Context(), roomID); err != nil {
		return roomError(c, err)
	}
	if err := rc.roomService.DeleteRoom(c.Context(), roomID); err != nil {
		return roomError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Room deleted successfully",
	})
}

func roomError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrRoomNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, service.ErrRoomFull),
		errors.Is(err, service.ErrGameNotActive),
		errors.Is(err, service.ErrNotInRoom):
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/offchess/chessroom-backend/internal/config"
	"github.com/offchess/chessroom-backend/internal/controller"
	"github.com/offchess/chessroom-backend/internal/middleware"
	"github.com/offchess/chessroom-backend/internal/obslog"
	"github.com/offchess/chessroom-backend/internal/service"
	"github.com/offchess/chessroom-backend/internal/store"
)

func main() {
	obslog.InitFromEnv()
	log := obslog.L()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config error", zap.Error(err))
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal("redis url error", zap.Error(err))
	}
	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		cancel()
		log.Fatal("redis ping error", zap.Error(err))
	}
	cancel()

	roomStore := store.NewRoomStore(rdb, cfg.RoomTTL())
	roomManager := service.NewRoomManager(roomStore)

	if cfg.DatabaseURL != "" {
		results, err := store.NewResultRepository(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("result repository error", zap.Error(err))
		}
		defer results.Close()
		roomManager.AttachResults(results)
		log.Info("result archival enabled")
	}

	roomService := service.NewRoomService(roomManager)
	roomController := controller.NewRoomController(roomService)
	wsController := controller.NewWebSocketController(roomService)

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowOrigins, ", "),
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "online",
			"message": "Chess server is running",
		})
	})
	app.Get("/health", roomController.Health)

	api := app.Group("/api", middleware.EnsurePlayerID())
	roomRoutes := api.Group("/room")
	roomRoutes.Post("/create", roomController.CreateRoom)
	roomRoutes.Post("/join/:roomId", roomController.JoinRoom)
	roomRoutes.Get("/:roomId", roomController.GetRoom)
	roomRoutes.Delete("/:roomId", roomController.DeleteRoom)

	app.Get("/ws/:roomId", middleware.EnsurePlayerID(), middleware.WebSocketUpgrade(),
		websocket.New(wsController.HandleConnection, websocket.Config{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		}))

	go func() {
		if err := app.Listen(cfg.Addr); err != nil {
			log.Fatal("listen error", zap.Error(err))
		}
	}()
	log.Info("server started", zap.String("addr", cfg.Addr))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info("shutting down")
	if err := app.Shutdown(); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
	_ = rdb.Close()
}

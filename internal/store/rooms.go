package store

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/offchess/chessroom-backend/internal/model"
)

// RoomStore persists rooms in redis as JSON blobs with a TTL, plus a
// player -> room index and a global room set for counting. Live websocket
// connections and engine states stay in process; this store is what
// survives a server restart.
type RoomStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRoomStore(rdb *redis.Client, ttl time.Duration) *RoomStore {
	return &RoomStore{rdb: rdb, ttl: ttl}
}

func (s *RoomStore) keyRoom(code string) string { return "room:" + strings.TrimSpace(code) }
func (s *RoomStore) keyPlayer(id string) string { return "room:index:player:" + strings.TrimSpace(id) }
func (s *RoomStore) keyAllRooms() string        { return "room:index:all" }

// Save writes the blob, the room set and the player index in one MULTI/EXEC
// so a failure mid-save cannot leave a dangling index entry.
func (s *RoomStore) Save(ctx context.Context, room *model.Room) error {
	raw, err := json.Marshal(room)
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, s.keyRoom(room.Code), raw, s.ttl)
	pipe.SAdd(ctx, s.keyAllRooms(), room.Code)
	for _, p := range room.Players {
		pipe.Set(ctx, s.keyPlayer(p.ID), room.Code, s.ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// Load returns nil, nil when the room does not exist or has expired.
func (s *RoomStore) Load(ctx context.Context, code string) (*model.Room, error) {
	raw, err := s.rdb.Get(ctx, s.keyRoom(code)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var room model.Room
	if err := json.Unmarshal(raw, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *RoomStore) Exists(ctx context.Context, code string) (bool, error) {
	n, err := s.rdb.Exists(ctx, s.keyRoom(code)).Result()
	return n > 0, err
}

func (s *RoomStore) Delete(ctx context.Context, code string) error {
	room, err := s.Load(ctx, code)
	if err != nil {
		return err
	}
	if room != nil {
		for _, p := range room.Players {
			_ = s.rdb.Del(ctx, s.keyPlayer(p.ID)).Err()
		}
	}
	if err := s.rdb.SRem(ctx, s.keyAllRooms(), code).Err(); err != nil {
		return err
	}
	return s.rdb.Del(ctx, s.keyRoom(code)).Err()
}

// RoomByPlayer returns the code of the room the player belongs to, or ""
// when the player is not indexed.
func (s *RoomStore) RoomByPlayer(ctx context.Context, playerID string) (string, error) {
	code, err := s.rdb.Get(ctx, s.keyPlayer(playerID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return code, err
}

// Count reports the number of known room codes. Expired rooms linger in the
// set until pruned, so this is an upper bound used for health reporting.
func (s *RoomStore) Count(ctx context.Context) (int64, error) {
	return s.rdb.SCard(ctx, s.keyAllRooms()).Result()
}

// Prune drops index entries whose room blob has expired.
func (s *RoomStore) Prune(ctx context.Context) error {
	codes, err := s.rdb.SMembers(ctx, s.keyAllRooms()).Result()
	if err != nil {
		return err
	}
	for _, code := range codes {
		ok, err := s.Exists(ctx, code)
		if err != nil {
			return err
		}
		if !ok {
			_ = s.rdb.SRem(ctx, s.keyAllRooms(), code).Err()
		}
	}
	return nil
}

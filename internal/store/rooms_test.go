package store

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/offchess/chessroom-backend/internal/model"
)

func newTestStore(t *testing.T) (*RoomStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRoomStore(rdb, time.Hour), mr
}

func sampleRoom(code string) *model.Room {
	now := time.Now().UTC().Truncate(time.Second)
	return &model.Room{
		Code: code,
		Players: []model.Player{
			{ID: "p1", Color: "white"},
			{ID: "p2", Color: "black"},
		},
		Status:    model.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, sampleRoom("1234")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	room, err := s.Load(ctx, "1234")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if room == nil || room.Code != "1234" || len(room.Players) != 2 {
		t.Fatalf("loaded room = %+v", room)
	}
	if room.Players[0].Color != "white" || room.Players[1].Color != "black" {
		t.Fatalf("player colors lost: %+v", room.Players)
	}

	missing, err := s.Load(ctx, "0000")
	if err != nil || missing != nil {
		t.Fatalf("Load missing = %+v, %v; want nil, nil", missing, err)
	}
}

func TestPlayerIndex(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, sampleRoom("4321")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	code, err := s.RoomByPlayer(ctx, "p2")
	if err != nil || code != "4321" {
		t.Fatalf("RoomByPlayer = %q, %v; want 4321", code, err)
	}
	if code, _ := s.RoomByPlayer(ctx, "stranger"); code != "" {
		t.Fatalf("unexpected room %q for unknown player", code)
	}

	if err := s.Delete(ctx, "4321"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if code, _ := s.RoomByPlayer(ctx, "p2"); code != "" {
		t.Fatalf("player index survived delete: %q", code)
	}
	if room, _ := s.Load(ctx, "4321"); room != nil {
		t.Fatalf("room survived delete")
	}
}

// One Save lands the blob, the room set and every player index key, with the
// TTL applied to the expiring keys.
func TestSaveWritesAllKeys(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, sampleRoom("7777")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !mr.Exists("room:7777") {
		t.Fatalf("room blob missing")
	}
	if got := mr.TTL("room:7777"); got != time.Hour {
		t.Fatalf("room ttl = %v; want 1h", got)
	}
	for _, id := range []string{"p1", "p2"} {
		if v, err := mr.Get("room:index:player:" + id); err != nil || v != "7777" {
			t.Fatalf("player index for %s = %q, %v", id, v, err)
		}
	}
	if n, err := s.Count(ctx); err != nil || n != 1 {
		t.Fatalf("Count = %d, %v; want 1", n, err)
	}
}

func TestCountPrunesExpiredRooms(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, sampleRoom("1111")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(ctx, sampleRoom("2222")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if n, err := s.Count(ctx); err != nil || n != 2 {
		t.Fatalf("Count = %d, %v; want 2", n, err)
	}

	mr.FastForward(2 * time.Hour)
	if err := s.Prune(ctx); err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n, err := s.Count(ctx); err != nil || n != 0 {
		t.Fatalf("Count after expiry = %d, %v; want 0", n, err)
	}
}

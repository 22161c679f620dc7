package service

import "sync"

// Socket is the write surface of a relay websocket connection.
type Socket interface {
	WriteJSON(v any) error
	Close() error
}

// Conn serializes writes to one player's socket. The underlying websocket
// permits at most one writer at a time, and any reader goroutine in the room
// may address any connection through Broadcast or SendTo.
type Conn struct {
	mu   sync.Mutex
	sock Socket
}

func newConn(sock Socket) *Conn {
	return &Conn{sock: sock}
}

func (c *Conn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sock.WriteJSON(v)
}

func (c *Conn) Close() error {
	return c.sock.Close()
}

package websocket

import (
	"bufio"
	"encoding/json"
	"fmt"
	"sync"
)

// client is one accepted WebSocket connection together with its session
// binding. The binding fields are written only by the connection's own
// reader goroutine (via the create/join/resume handlers).
type client struct {
	bufrw *bufio.ReadWriter
	mu    sync.Mutex // serializes frame writes; broadcasts and replies must not interleave

	playerID string
	gameID   string
}

func (that *client) send(v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	return that.sendRaw(payload)
}

func (that *client) sendRaw(payload []byte) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	return writeFrame(that.bufrw, frame{
		isFin:   true,
		opCode:  opText,
		length:  uint64(len(payload)),
		payload: payload,
	})
}

func (that *client) sendPong(payload []byte) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	return writeFrame(that.bufrw, frame{
		isFin:   true,
		opCode:  opPong,
		length:  uint64(len(payload)),
		payload: payload,
	})
}

// registry maps a participant id to its live connection. A participant
// has at most one bound connection; rebinding replaces the old one.
type registry struct {
	mu    sync.RWMutex
	conns map[string]*client
}

func newRegistry() *registry {
	return &registry{
		conns: make(map[string]*client),
	}
}

func (that *registry) register(playerID string, c *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.conns[playerID] = c
}

func (that *registry) lookup(playerID string) (*client, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	c, ok := that.conns[playerID]

	return c, ok
}

// unregister - removes the binding only while it still points at the
// given connection, so a connection superseded by a resume cannot evict
// its successor. Reports whether the entry was removed.
func (that *registry) unregister(playerID string, c *client) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if current, ok := that.conns[playerID]; !ok || current != c {
		return false
	}

	delete(that.conns, playerID)

	return true
}

package usecase

import (
	"sync"

	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

// lobby is the ordered list of games waiting for a second player.
// Invariant: a game is listed iff it has exactly one player.
type lobby struct {
	mu      sync.Mutex
	entries []entity.LobbyEntry
}

func newLobby() *lobby {
	return &lobby{
		entries: []entity.LobbyEntry{},
	}
}

// List - returns a snapshot safe to marshal while the lobby mutates.
func (that *lobby) List() []entity.LobbyEntry {
	that.mu.Lock()
	defer that.mu.Unlock()

	entries := make([]entity.LobbyEntry, len(that.entries))
	copy(entries, that.entries)

	return entries
}

func (that *lobby) Add(entry entity.LobbyEntry) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.entries = append(that.entries, entry)
}

// Remove - withdraws the entry for the given game; removing an absent
// entry is a no-op. Reports whether the lobby changed.
func (that *lobby) Remove(gameID string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	for i, entry := range that.entries {
		if entry.GameID == gameID {
			that.entries = append(that.entries[:i], that.entries[i+1:]...)
			return true
		}
	}

	return false
}

package entity

import (
	"encoding/json"
	"fmt"
)

// Score is one leaderboard standing. On the wire it is the ["name", wins]
// pair the game client expects.
type Score struct {
	PlayerID string
	Wins     int
}

func (that Score) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{that.PlayerID, that.Wins})
}

func (that *Score) UnmarshalJSON(data []byte) error {
	var pair []any
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("failed to unmarshal score pair: %w", err)
	}

	if len(pair) != 2 {
		return fmt.Errorf("score pair must have 2 elements, got %d", len(pair))
	}

	playerID, ok := pair[0].(string)
	if !ok {
		return fmt.Errorf("score pair player id must be a string, got %T", pair[0])
	}

	wins, ok := pair[1].(float64)
	if !ok {
		return fmt.Errorf("score pair wins must be a number, got %T", pair[1])
	}

	that.PlayerID = playerID
	that.Wins = int(wins)

	return nil
}

// LobbyEntry is one joinable game awaiting a second player.
type LobbyEntry struct {
	Host   string `json:"host"`
	GameID string `json:"gameId"`
}

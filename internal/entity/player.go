package entity

// Player is a participant identified by a caller-supplied opaque string.
// The mark and game binding exist only while the player is in a game.
type Player struct {
	ID     string `json:"id"`
	Mark   string `json:"mark,omitempty"`
	GameID string `json:"game_id,omitempty"`
}

package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGame(t *testing.T) {
	// Given: a host player
	host := &Player{ID: "alice", Mark: PlayerX, GameID: "123"}

	// When: creating a new game
	game := NewGame("123", host)

	// Then: the game waits for an opponent and the host opens the round
	expectedGame := &Game{
		ID:        "123",
		Board:     [9]string{"", "", "", "", "", "", "", "", ""},
		Status:    StatusWaiting,
		Turn:      "alice",
		FirstTurn: "alice",
		Players:   []*Player{host},
	}

	require.Equal(t, expectedGame, game)
}

func TestGame_AddPlayer(t *testing.T) {
	t.Run("Game starts once the second player joins", func(t *testing.T) {
		// Given: a waiting game with a host
		host := &Player{ID: "alice", Mark: PlayerX}
		game := NewGame("123", host)

		// When: a second player is added
		game.AddPlayer(&Player{ID: "bob", Mark: PlayerO})

		// Then: the game becomes ongoing and the host keeps the turn
		assert.Equal(t, StatusOngoing, game.Status)
		assert.Equal(t, "alice", game.Turn)
		assert.Len(t, game.Players, 2)
	})
}

func TestGameStatusMethods(t *testing.T) {
	t.Run("IsFinished returns true when game status is finished", func(t *testing.T) {
		game := &Game{Status: StatusFinished}
		assert.True(t, game.IsFinished())
	})

	t.Run("IsOngoing returns true when game status is ongoing", func(t *testing.T) {
		game := &Game{Status: StatusOngoing}
		assert.True(t, game.IsOngoing())
	})

	t.Run("IsWaiting returns true when game status is waiting", func(t *testing.T) {
		game := &Game{Status: StatusWaiting}
		assert.True(t, game.IsWaiting())
	})

	t.Run("IsDraw returns true for a finished game without a winner", func(t *testing.T) {
		game := &Game{Status: StatusFinished, Winner: EmptyCell}
		assert.True(t, game.IsDraw())
	})

	t.Run("IsDraw returns false for a won game", func(t *testing.T) {
		game := &Game{Status: StatusFinished, Winner: PlayerX}
		assert.False(t, game.IsDraw())
	})

	t.Run("IsDraw returns false while the game is ongoing", func(t *testing.T) {
		game := &Game{Status: StatusOngoing, Winner: EmptyCell}
		assert.False(t, game.IsDraw())
	})
}

func TestGame_DetermineGameResult(t *testing.T) {
	t.Run("Returns PlayerX when Player X wins", func(t *testing.T) {
		// Given: a game where Player X has a winning combination
		game := &Game{
			Board: [9]string{
				PlayerX, PlayerX, PlayerX,
				EmptyCell, EmptyCell, EmptyCell,
				EmptyCell, EmptyCell, EmptyCell,
			},
		}

		// When: determining the game result
		result := game.DetermineGameResult()

		// Then: it should return PlayerX as the winner
		assert.Equal(t, PlayerX, result)
	})

	t.Run("Returns PlayerO when Player O wins", func(t *testing.T) {
		// Given: a game where Player O has a winning combination
		game := &Game{
			Board: [9]string{
				PlayerO, EmptyCell, EmptyCell,
				PlayerO, EmptyCell, EmptyCell,
				PlayerO, EmptyCell, EmptyCell,
			},
		}

		// When: determining the game result
		result := game.DetermineGameResult()

		// Then: it should return PlayerO as the winner
		assert.Equal(t, PlayerO, result)
	})

	t.Run("Returns PlayerTie when the board is full with no winner", func(t *testing.T) {
		// Given: a game that ended in a tie
		game := &Game{
			Board: [9]string{
				PlayerX, PlayerO, PlayerX,
				PlayerX, PlayerO, PlayerO,
				PlayerO, PlayerX, PlayerX,
			},
		}

		// When: determining the game result
		result := game.DetermineGameResult()

		// Then: it should return PlayerTie
		assert.Equal(t, PlayerTie, result)
	})

	t.Run("Returns EmptyCell while the game is ongoing", func(t *testing.T) {
		// Given: a game that is still ongoing
		game := &Game{
			Board: [9]string{
				PlayerX, PlayerO, EmptyCell,
				EmptyCell, PlayerX, EmptyCell,
				EmptyCell, EmptyCell, PlayerO,
			},
		}

		// When: determining the game result
		result := game.DetermineGameResult()

		// Then: it should return EmptyCell (game continues)
		assert.Equal(t, EmptyCell, result)
	})
}

func TestGame_Opponent(t *testing.T) {
	host := &Player{ID: "alice", Mark: PlayerX}
	guest := &Player{ID: "bob", Mark: PlayerO}

	t.Run("Returns the other player", func(t *testing.T) {
		// Given: a game with two players
		game := NewGame("123", host)
		game.AddPlayer(guest)

		// Then: each player's opponent is the other
		assert.Equal(t, guest, game.Opponent("alice"))
		assert.Equal(t, host, game.Opponent("bob"))
	})

	t.Run("Returns nil when the host has no opponent yet", func(t *testing.T) {
		// Given: a waiting game
		game := NewGame("123", host)

		// Then: there is no opponent
		assert.Nil(t, game.Opponent("alice"))
	})
}

func TestGame_HasPlayer(t *testing.T) {
	// Given: a game with a single player
	game := NewGame("123", &Player{ID: "alice", Mark: PlayerX})

	// Then: membership reflects the player list
	assert.True(t, game.HasPlayer("alice"))
	assert.False(t, game.HasPlayer("bob"))
}

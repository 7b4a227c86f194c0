package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/internal/repository"
	"github.com/rocketscienceinc/tictactoe-arena/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-arena/testing/suite"
)

func newGameManager(st *suite.Suite) *usecase.GameManager {
	playerRepo := repository.NewPlayerRepository(st.Storage)
	gameRepo := repository.NewGameRepository(st.Storage)
	scoreRepo := repository.NewScoreRepository(st.Storage)

	return usecase.NewGameManager(st.Logger, playerRepo, gameRepo, scoreRepo)
}

// playWinningGame drives alice (X) to a top row win over bob (O).
func playWinningGame(ctx context.Context, t *testing.T, manager *usecase.GameManager) *entity.Game {
	t.Helper()

	game, err := manager.CreateGame(ctx, "alice")
	require.NoError(t, err)

	_, err = manager.JoinGame(ctx, game.ID, "bob")
	require.NoError(t, err)

	for _, turn := range []struct {
		playerID string
		cell     int
	}{
		{"alice", 0}, {"bob", 3}, {"alice", 1}, {"bob", 4}, {"alice", 2},
	} {
		game, _, err = manager.MakeTurn(ctx, turn.playerID, turn.cell)
		require.NoError(t, err)
	}

	return game
}

func TestGameManager_CreateGame(t *testing.T) {
	ctx, st := suite.New(t)
	manager := newGameManager(st)

	// When: alice opens a game
	game, err := manager.CreateGame(ctx, "alice")

	// Then: the game waits for an opponent with alice as X
	require.NoError(t, err)
	assert.True(t, game.IsWaiting())
	assert.Equal(t, "alice", game.Turn)
	require.Len(t, game.Players, 1)
	assert.Equal(t, entity.PlayerX, game.Players[0].Mark)

	// and the lobby lists it
	assert.Equal(t, []entity.LobbyEntry{{Host: "alice", GameID: game.ID}}, manager.Lobby())
}

func TestGameManager_JoinGame(t *testing.T) {
	ctx, st := suite.New(t)
	manager := newGameManager(st)

	game, err := manager.CreateGame(ctx, "alice")
	require.NoError(t, err)

	t.Run("Second player starts the game and empties the lobby", func(t *testing.T) {
		// When: bob joins
		joined, joinErr := manager.JoinGame(ctx, game.ID, "bob")

		// Then: the game starts, bob plays O and the lobby entry is gone
		require.NoError(t, joinErr)
		assert.True(t, joined.IsOngoing())
		assert.Equal(t, "alice", joined.Turn)
		assert.Equal(t, entity.PlayerO, joined.PlayerByID("bob").Mark)
		assert.Empty(t, manager.Lobby())
	})

	t.Run("Rejoining is idempotent", func(t *testing.T) {
		joined, joinErr := manager.JoinGame(ctx, game.ID, "bob")

		require.NoError(t, joinErr)
		assert.Len(t, joined.Players, 2)
	})

	t.Run("A third player is rejected", func(t *testing.T) {
		_, joinErr := manager.JoinGame(ctx, game.ID, "carol")

		require.ErrorIs(t, joinErr, apperror.ErrGameFull)
	})

	t.Run("Joining a missing game is rejected", func(t *testing.T) {
		_, joinErr := manager.JoinGame(ctx, "missing", "carol")

		require.ErrorIs(t, joinErr, apperror.ErrGameNotFound)
	})
}

func TestGameManager_MakeTurn(t *testing.T) {
	t.Run("A win credits the scoreboard and keeps the session", func(t *testing.T) {
		ctx, st := suite.New(t)
		manager := newGameManager(st)

		// When: alice wins a full game
		game := playWinningGame(ctx, t, manager)

		// Then: the game is finished with X as the winner
		assert.True(t, game.IsFinished())
		assert.Equal(t, entity.PlayerX, game.Winner)

		// and the scoreboard credits alice once
		standings, logs, err := manager.Leaderboard(ctx)
		require.NoError(t, err)
		assert.Equal(t, []entity.Score{{PlayerID: "alice", Wins: 1}}, standings)
		require.Len(t, logs, 1)
		assert.Contains(t, logs[0], "alice won against bob")

		// and the finished session is still loadable for a rematch
		stored, err := manager.GameByID(ctx, game.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsFinished())
	})

	t.Run("A draw credits nobody", func(t *testing.T) {
		ctx, st := suite.New(t)
		manager := newGameManager(st)

		game, err := manager.CreateGame(ctx, "alice")
		require.NoError(t, err)
		_, err = manager.JoinGame(ctx, game.ID, "bob")
		require.NoError(t, err)

		// When: the players fill the board without a line
		for _, turn := range []struct {
			playerID string
			cell     int
		}{
			{"alice", 0}, {"bob", 1}, {"alice", 2}, {"bob", 4}, {"alice", 3},
			{"bob", 5}, {"alice", 7}, {"bob", 6}, {"alice", 8},
		} {
			game, _, err = manager.MakeTurn(ctx, turn.playerID, turn.cell)
			require.NoError(t, err)
		}

		// Then: the game is a draw and the scoreboard stays empty
		assert.True(t, game.IsDraw())

		standings, logs, err := manager.Leaderboard(ctx)
		require.NoError(t, err)
		assert.Empty(t, standings)
		assert.Empty(t, logs)
	})

	t.Run("A player outside a game cannot move", func(t *testing.T) {
		ctx, st := suite.New(t)
		manager := newGameManager(st)

		_, _, err := manager.MakeTurn(ctx, "nobody", 0)

		require.Error(t, err)
	})
}

func TestGameManager_ResetGame(t *testing.T) {
	ctx, st := suite.New(t)
	manager := newGameManager(st)

	game := playWinningGame(ctx, t, manager)

	t.Run("Rematch clears the board and the loser opens", func(t *testing.T) {
		// When: bob requests a rematch
		reset, err := manager.ResetGame(ctx, game.ID, "bob")

		// Then: the board is empty, the game runs and bob opens
		require.NoError(t, err)
		assert.Equal(t, [9]string{}, reset.Board)
		assert.True(t, reset.IsOngoing())
		assert.Equal(t, "bob", reset.Turn)
	})

	t.Run("An ongoing game cannot be reset", func(t *testing.T) {
		_, err := manager.ResetGame(ctx, game.ID, "alice")

		require.ErrorIs(t, err, apperror.ErrGameNotFinished)
	})

	t.Run("An outsider cannot reset the game", func(t *testing.T) {
		_, err := manager.ResetGame(ctx, game.ID, "mallory")

		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})
}

func TestGameManager_Resume(t *testing.T) {
	ctx, st := suite.New(t)
	manager := newGameManager(st)

	game, err := manager.CreateGame(ctx, "alice")
	require.NoError(t, err)
	_, err = manager.JoinGame(ctx, game.ID, "bob")
	require.NoError(t, err)

	t.Run("Returns the current game for a member", func(t *testing.T) {
		// When: bob resumes on a fresh connection
		resumed, player, resumeErr := manager.Resume(ctx, "bob")

		// Then: the snapshot matches bob's game and mark
		require.NoError(t, resumeErr)
		assert.Equal(t, game.ID, resumed.ID)
		assert.Equal(t, entity.PlayerO, player.Mark)
	})

	t.Run("Rejects an unknown player", func(t *testing.T) {
		_, _, resumeErr := manager.Resume(ctx, "nobody")

		require.ErrorIs(t, resumeErr, apperror.ErrGameNotFound)
	})
}

func TestGameManager_Disconnect(t *testing.T) {
	t.Run("Leaving an ongoing game credits the remaining player", func(t *testing.T) {
		ctx, st := suite.New(t)
		manager := newGameManager(st)

		game, err := manager.CreateGame(ctx, "alice")
		require.NoError(t, err)
		_, err = manager.JoinGame(ctx, game.ID, "bob")
		require.NoError(t, err)

		// When: alice disconnects mid game
		remainingID, lobbyChanged, err := manager.Disconnect(ctx, "alice", game.ID)

		// Then: bob is credited and the lobby is untouched
		require.NoError(t, err)
		assert.Equal(t, "bob", remainingID)
		assert.False(t, lobbyChanged)

		standings, logs, err := manager.Leaderboard(ctx)
		require.NoError(t, err)
		assert.Equal(t, []entity.Score{{PlayerID: "bob", Wins: 1}}, standings)
		require.Len(t, logs, 1)
		assert.Contains(t, logs[0], "bob won against alice")

		// and the session is gone with both bindings cleared
		_, err = manager.GameByID(ctx, game.ID)
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
		assert.False(t, manager.InActiveGame(ctx, "alice"))
		assert.False(t, manager.InActiveGame(ctx, "bob"))
	})

	t.Run("Leaving a waiting game credits nobody and clears the lobby", func(t *testing.T) {
		ctx, st := suite.New(t)
		manager := newGameManager(st)

		game, err := manager.CreateGame(ctx, "alice")
		require.NoError(t, err)

		// When: the host disconnects before an opponent joins
		remainingID, lobbyChanged, err := manager.Disconnect(ctx, "alice", game.ID)

		// Then: there is no winner and the lobby entry is withdrawn
		require.NoError(t, err)
		assert.Empty(t, remainingID)
		assert.True(t, lobbyChanged)
		assert.Empty(t, manager.Lobby())

		standings, _, err := manager.Leaderboard(ctx)
		require.NoError(t, err)
		assert.Empty(t, standings)
	})

	t.Run("Blank identifiers are a silent no-op", func(t *testing.T) {
		ctx, st := suite.New(t)
		manager := newGameManager(st)

		remainingID, lobbyChanged, err := manager.Disconnect(ctx, "", "")

		require.NoError(t, err)
		assert.Empty(t, remainingID)
		assert.False(t, lobbyChanged)
	})

	t.Run("A missing game is a silent no-op", func(t *testing.T) {
		ctx, st := suite.New(t)
		manager := newGameManager(st)

		_, _, err := manager.Disconnect(ctx, "alice", "missing")

		require.NoError(t, err)
	})
}

func TestGameManager_InActiveGame(t *testing.T) {
	ctx, st := suite.New(t)
	manager := newGameManager(st)

	t.Run("Unknown player is not in a game", func(t *testing.T) {
		assert.False(t, manager.InActiveGame(ctx, "nobody"))
	})

	t.Run("A host of a waiting game counts as active", func(t *testing.T) {
		_, err := manager.CreateGame(ctx, "alice")
		require.NoError(t, err)

		assert.True(t, manager.InActiveGame(ctx, "alice"))
	})
}

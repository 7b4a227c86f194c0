package websocket

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

func (that *Server) handleCreateGame(ctx context.Context, msg *Message, c *client) error {
	log := that.logger.With("method", "handleCreateGame")

	if msg.Name == "" {
		return that.sendErrorResponse(c, "name is required")
	}

	if that.activeElsewhere(ctx, msg.Name) {
		return that.sendErrorResponse(c, fmt.Sprintf("The player with id: %q already exists and is currently playing a game", msg.Name))
	}

	game, err := that.manager.CreateGame(ctx, msg.Name)
	if err != nil {
		log.Error("failed to create game", "playerID", msg.Name, "error", err)
		return that.sendErrorResponse(c, "failed to create a new game")
	}

	c.playerID = msg.Name
	c.gameID = game.ID
	that.registry.register(msg.Name, c)

	if err = c.send(gameCreatedMessage{
		Type:       msgGameCreated,
		GameID:     game.ID,
		PlayerID:   msg.Name,
		Symbol:     entity.PlayerX,
		IsYourTurn: true,
	}); err != nil {
		return fmt.Errorf("failed to send game created message: %w", err)
	}

	that.broadcastLobby()

	log.Info("game created", "gameID", game.ID, "playerID", msg.Name)

	return nil
}

func (that *Server) handleJoinGame(ctx context.Context, msg *Message, c *client) error {
	log := that.logger.With("method", "handleJoinGame")

	if msg.Name == "" || msg.GameID == "" {
		return that.sendErrorResponse(c, "name and gameId are required")
	}

	if that.activeElsewhere(ctx, msg.Name) {
		return that.sendErrorResponse(c, fmt.Sprintf("The player with id: %q already exists and is currently playing a game", msg.Name))
	}

	game, err := that.manager.JoinGame(ctx, msg.GameID, msg.Name)

	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		return that.sendErrorResponse(c, "Game not found")
	case errors.Is(err, apperror.ErrGameFull):
		return that.sendErrorResponse(c, "Game is full")
	case err != nil:
		log.Error("failed to join game", "gameID", msg.GameID, "error", err)
		return that.sendErrorResponse(c, "failed to join the game")
	}

	c.playerID = msg.Name
	c.gameID = game.ID
	that.registry.register(msg.Name, c)

	host := game.Players[0]

	if err = c.send(gameJoinedMessage{
		Type:       msgGameJoined,
		GameID:     game.ID,
		PlayerID:   msg.Name,
		Symbol:     entity.PlayerO,
		IsYourTurn: game.Turn == msg.Name,
		Board:      game.Board,
		OpponentID: host.ID,
	}); err != nil {
		return fmt.Errorf("failed to send game joined message: %w", err)
	}

	if hostConn, ok := that.registry.lookup(host.ID); ok {
		if err = hostConn.send(opponentJoinedMessage{Type: msgOpponentJoined, OpponentID: msg.Name}); err != nil {
			log.Error("failed to notify host", "playerID", host.ID, "error", err)
		}
	}

	that.broadcastLobby()

	log.Info("player joined game", "gameID", game.ID, "playerID", msg.Name)

	return nil
}

// handleMoveMade - invalid moves (wrong turn, bad cell, occupied slot,
// finished game) are dropped without a reply or any state change.
func (that *Server) handleMoveMade(ctx context.Context, msg *Message, c *client) error {
	log := that.logger.With("method", "handleMoveMade")

	if c.playerID == "" || c.gameID == "" || msg.Name == "" || msg.Position == nil {
		return nil
	}

	game, player, err := that.manager.MakeTurn(ctx, msg.Name, *msg.Position)
	if err != nil {
		log.Debug("move rejected", "playerID", msg.Name, "error", err)
		return nil
	}

	for _, member := range game.Players {
		conn, ok := that.registry.lookup(member.ID)
		if !ok {
			continue
		}

		opponent := game.Opponent(member.ID)

		if err = conn.send(moveMadeMessage{
			Type:       msgMoveMade,
			Position:   *msg.Position,
			Symbol:     player.Mark,
			Board:      game.Board,
			IsYourTurn: game.IsOngoing() && game.Turn == member.ID,
			GameOver:   game.IsFinished(),
			Winner:     game.Winner,
			OpponentID: opponent.ID,
		}); err != nil {
			log.Error("failed to send game update", "playerID", member.ID, "error", err)
		}
	}

	return nil
}

func (that *Server) handleResetGame(ctx context.Context, msg *Message, c *client) error {
	log := that.logger.With("method", "handleResetGame")

	if msg.GameID == "" || msg.Name == "" {
		return nil
	}

	game, err := that.manager.ResetGame(ctx, msg.GameID, msg.Name)

	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		return that.sendErrorResponse(c, "Game not found")
	case errors.Is(err, apperror.ErrGameNotFinished):
		return that.sendErrorResponse(c, "Game is not finished")
	case err != nil:
		log.Error("failed to reset game", "gameID", msg.GameID, "error", err)
		return that.sendErrorResponse(c, "failed to reset the game")
	}

	for _, member := range game.Players {
		conn, ok := that.registry.lookup(member.ID)
		if !ok {
			continue
		}

		opponent := game.Opponent(member.ID)

		if err = conn.send(resetGameMessage{
			Type:       msgResetGame,
			Board:      game.Board,
			IsYourTurn: game.Turn == member.ID,
			OpponentID: opponent.ID,
		}); err != nil {
			log.Error("failed to send reset update", "playerID", member.ID, "error", err)
		}
	}

	log.Info("game reset", "gameID", game.ID, "turn", game.Turn)

	return nil
}

func (that *Server) handleLeaderboard(ctx context.Context, _ *Message, c *client) error {
	log := that.logger.With("method", "handleLeaderboard")

	standings, logs, err := that.manager.Leaderboard(ctx)
	if err != nil {
		log.Error("failed to load leaderboard", "error", err)
		return that.sendErrorResponse(c, "failed to load leaderboard")
	}

	if err = c.send(leaderboardMessage{
		Type:        msgLeaderboard,
		LeaderBoard: standings,
		GameLogs:    logs,
	}); err != nil {
		return fmt.Errorf("failed to send leaderboard: %w", err)
	}

	return nil
}

func (that *Server) handleGameLobby(_ context.Context, _ *Message, c *client) error {
	if err := c.send(gameLobbyMessage{
		Type:      msgGameLobby,
		GameLobby: that.manager.Lobby(),
	}); err != nil {
		return fmt.Errorf("failed to send lobby: %w", err)
	}

	return nil
}

// handleGameRef - rebinds a fresh connection to the game the player is
// still a member of and replies with a full state snapshot. A player
// without a game gets no reply.
func (that *Server) handleGameRef(ctx context.Context, msg *Message, c *client) error {
	log := that.logger.With("method", "handleGameRef")

	if msg.PlayerID == "" {
		return nil
	}

	game, player, err := that.manager.Resume(ctx, msg.PlayerID)
	if err != nil {
		log.Debug("nothing to resume", "playerID", msg.PlayerID, "error", err)
		return nil
	}

	c.playerID = player.ID
	c.gameID = game.ID
	that.registry.register(player.ID, c)

	var opponentID string
	if opponent := game.Opponent(player.ID); opponent != nil {
		opponentID = opponent.ID
	}

	if err = c.send(gameRefMessage{
		Type:       msgGameRef,
		GameID:     game.ID,
		Board:      game.Board,
		IsYourTurn: game.IsOngoing() && game.Turn == player.ID,
		GameOver:   game.IsFinished(),
		Winner:     game.Winner,
		Symbol:     player.Mark,
		OpponentID: opponentID,
	}); err != nil {
		return fmt.Errorf("failed to send game snapshot: %w", err)
	}

	log.Info("player resumed game", "gameID", game.ID, "playerID", player.ID)

	return nil
}

// handleGameChat - relays the chat line to the members of the named
// game only, unlike the lobby broadcast.
func (that *Server) handleGameChat(ctx context.Context, msg *Message, c *client) error {
	log := that.logger.With("method", "handleGameChat")

	game, err := that.manager.GameByID(ctx, msg.GameID)
	if errors.Is(err, apperror.ErrGameNotFound) {
		return that.sendErrorResponse(c, "Game not found")
	}

	if err != nil {
		log.Error("failed to get game", "gameID", msg.GameID, "error", err)
		return that.sendErrorResponse(c, "Game not found")
	}

	for _, member := range game.Players {
		conn, ok := that.registry.lookup(member.ID)
		if !ok {
			continue
		}

		if err = conn.send(gameChatMessage{
			Type:   msgGameChat,
			GameID: game.ID,
			Sender: msg.Sender,
			Text:   msg.Text,
		}); err != nil {
			log.Error("failed to relay chat", "playerID", member.ID, "error", err)
		}
	}

	return nil
}

// handleEndGame - explicit forced disconnect; same transition as a
// transport close, but the socket stays open.
func (that *Server) handleEndGame(ctx context.Context, msg *Message, _ *client) error {
	log := that.logger.With("method", "handleEndGame")

	if msg.PlayerID == "" || msg.GameID == "" {
		return nil
	}

	remainingID, lobbyChanged, err := that.manager.Disconnect(ctx, msg.PlayerID, msg.GameID)
	if err != nil {
		return fmt.Errorf("failed to end game: %w", err)
	}

	that.notifyOpponentDisconnected(remainingID)

	if lobbyChanged {
		that.broadcastLobby()
	}

	log.Info("game ended", "gameID", msg.GameID, "playerID", msg.PlayerID)

	return nil
}

// activeElsewhere - identity conflict check: the name must have both a
// live connection and current membership in a game. Membership comes
// from the game records, so a stale registry entry left by a dropped
// connection never blocks a legitimate rebind.
func (that *Server) activeElsewhere(ctx context.Context, playerID string) bool {
	if _, ok := that.registry.lookup(playerID); !ok {
		return false
	}

	return that.manager.InActiveGame(ctx, playerID)
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-arena/internal/repository"
	"github.com/rocketscienceinc/tictactoe-arena/internal/tictactoe"
)

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type scoreRepo interface {
	RecordWin(ctx context.Context, winnerID, loserID string) error
	Standings(ctx context.Context) ([]entity.Score, error)
	Logs(ctx context.Context) ([]string, error)
}

// GameManager serializes every mutation of games, players, the lobby and
// the scoreboard under one mutex: two connections of the same game may
// race a move against a disconnect, and win credit must happen exactly
// once.
type GameManager struct {
	logger *slog.Logger
	mu     sync.Mutex

	playerRepo playerRepo
	gameRepo   gameRepo
	scoreRepo  scoreRepo
	lobby      *lobby
}

func NewGameManager(logger *slog.Logger, playerRepo playerRepo, gameRepo gameRepo, scoreRepo scoreRepo) *GameManager {
	return &GameManager{
		logger: logger,

		playerRepo: playerRepo,
		gameRepo:   gameRepo,
		scoreRepo:  scoreRepo,
		lobby:      newLobby(),
	}
}

// CreateGame - opens a new waiting game hosted by the given player and
// lists it in the lobby. The host always plays X and opens the round.
func (that *GameManager) CreateGame(ctx context.Context, playerID string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	gameID := pkg.GenerateGameID()

	player := &entity.Player{
		ID:     playerID,
		Mark:   entity.PlayerX,
		GameID: gameID,
	}

	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	game := entity.NewGame(gameID, player)
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.lobby.Add(entity.LobbyEntry{Host: playerID, GameID: gameID})

	return game, nil
}

// JoinGame - adds a second player to a waiting game and withdraws it
// from the lobby. The joiner always plays O; the host keeps the turn.
func (that *GameManager) JoinGame(ctx context.Context, gameID, playerID string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, err := that.getGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if game.HasPlayer(playerID) {
		return game, nil
	}

	if len(game.Players) >= 2 {
		return nil, fmt.Errorf("%w: game id %s", apperror.ErrGameFull, gameID)
	}

	player := &entity.Player{
		ID:     playerID,
		Mark:   entity.PlayerO,
		GameID: game.ID,
	}

	if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	game.AddPlayer(player)
	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	that.lobby.Remove(game.ID)

	return game, nil
}

// MakeTurn - applies one move for the player in their current game. A
// win credits the mover on the scoreboard; a draw credits nobody. The
// finished game stays in the store until a reset or a disconnect.
func (that *GameManager) MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, *entity.Player, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	player, err := that.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if player.GameID == "" {
		return nil, nil, fmt.Errorf("%w: player %s is not in a game", apperror.ErrGameNotFound, playerID)
	}

	game, err := that.getGameByID(ctx, player.GameID)
	if err != nil {
		return nil, nil, err
	}

	if err = tictactoe.MakeTurn(game, playerID, cell); err != nil {
		return game, player, fmt.Errorf("failed to make turn: %w", err)
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, nil, fmt.Errorf("failed to update game: %w", err)
	}

	if game.IsFinished() && game.Winner == player.Mark {
		opponent := game.Opponent(playerID)
		if err = that.scoreRepo.RecordWin(ctx, playerID, opponent.ID); err != nil {
			return nil, nil, fmt.Errorf("failed to record win: %w", err)
		}
	}

	return game, player, nil
}

// ResetGame - starts a rematch on a finished game; the opening move
// alternates between the players round after round.
func (that *GameManager) ResetGame(ctx context.Context, gameID, playerID string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, err := that.getGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if !game.HasPlayer(playerID) {
		return nil, fmt.Errorf("%w: player %s is not in game %s", apperror.ErrGameNotFound, playerID, gameID)
	}

	if err = tictactoe.ResetGame(game); err != nil {
		return nil, fmt.Errorf("failed to reset game: %w", err)
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return game, nil
}

// Resume - returns the game a player is still a member of, for
// rebinding a fresh connection. Session state is not altered.
func (that *GameManager) Resume(ctx context.Context, playerID string) (*entity.Game, *entity.Player, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	player, err := that.playerRepo.GetByID(ctx, playerID)
	if errors.Is(err, repository.ErrPlayerNotFound) {
		return nil, nil, fmt.Errorf("%w: no game for player %s", apperror.ErrGameNotFound, playerID)
	}

	if err != nil {
		return nil, nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if player.GameID == "" {
		return nil, nil, fmt.Errorf("%w: player %s is not in a game", apperror.ErrGameNotFound, playerID)
	}

	game, err := that.getGameByID(ctx, player.GameID)
	if err != nil {
		return nil, nil, err
	}

	if !game.HasPlayer(playerID) {
		return nil, nil, fmt.Errorf("%w: player %s is not in game %s", apperror.ErrGameNotFound, playerID, game.ID)
	}

	return game, player, nil
}

// Disconnect - closes the player's game. The remaining player, if any,
// is credited one win against the leaver. Returns the remaining player's
// id and whether the lobby changed.
func (that *GameManager) Disconnect(ctx context.Context, playerID, gameID string) (string, bool, error) {
	log := that.logger.With("method", "Disconnect", "gameID", gameID)

	that.mu.Lock()
	defer that.mu.Unlock()

	if playerID == "" || gameID == "" {
		return "", false, nil
	}

	game, err := that.gameRepo.GetByID(ctx, gameID)
	if errors.Is(err, repository.ErrGameNotFound) {
		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("failed to get game by id: %w", err)
	}

	var remainingID string
	if remaining := game.Opponent(playerID); remaining != nil {
		remainingID = remaining.ID

		if err = that.scoreRepo.RecordWin(ctx, remainingID, playerID); err != nil {
			return "", false, fmt.Errorf("failed to record win: %w", err)
		}
	}

	lobbyChanged := that.lobby.Remove(game.ID)

	if err = that.gameRepo.DeleteByID(ctx, game.ID); err != nil && !errors.Is(err, repository.ErrGameNotFound) {
		log.Error("failed to delete game", "error", err)
	}

	for _, player := range game.Players {
		player.GameID = ""
		player.Mark = ""

		if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
			log.Error("failed to update player", "playerID", player.ID, "error", err)
		}
	}

	log.Info("game closed", "leaverID", playerID)

	return remainingID, lobbyChanged, nil
}

// InActiveGame - reports whether the player is currently a member of an
// existing game. Membership comes from the game record itself, so stale
// bindings left by old connections never count.
func (that *GameManager) InActiveGame(ctx context.Context, playerID string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	player, err := that.playerRepo.GetByID(ctx, playerID)
	if err != nil || player.GameID == "" {
		return false
	}

	game, err := that.gameRepo.GetByID(ctx, player.GameID)
	if err != nil {
		return false
	}

	return game.HasPlayer(playerID)
}

func (that *GameManager) GameByID(ctx context.Context, gameID string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.getGameByID(ctx, gameID)
}

// Leaderboard - returns the standings ordered by win count descending
// and the win log newest first.
func (that *GameManager) Leaderboard(ctx context.Context) ([]entity.Score, []string, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	standings, err := that.scoreRepo.Standings(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get standings: %w", err)
	}

	logs, err := that.scoreRepo.Logs(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get game logs: %w", err)
	}

	return standings, logs, nil
}

func (that *GameManager) Lobby() []entity.LobbyEntry {
	return that.lobby.List()
}

func (that *GameManager) getGameByID(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrGameNotFound) {
		return nil, fmt.Errorf("%w: id %s", apperror.ErrGameNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return game, nil
}

package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-arena/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
)

// ApplyMove - places a mark on a copy of the board and reports the
// resulting winner mark (EmptyCell for none) and whether the game is
// complete. The board is not mutated on a rejected move.
func ApplyMove(board [9]string, cell int, mark string) ([9]string, string, bool, error) {
	if cell < 0 || cell >= len(board) {
		return board, entity.EmptyCell, false, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if board[cell] != entity.EmptyCell {
		return board, entity.EmptyCell, false, apperror.ErrCellOccupied
	}

	board[cell] = mark
	winner, complete := CheckStatus(board)

	return board, winner, complete, nil
}

// CheckStatus - returns the winning mark and whether the game is
// complete. A draw completes the game with an empty winner mark.
func CheckStatus(board [9]string) (string, bool) {
	result := (&entity.Game{Board: board}).DetermineGameResult()

	switch result {
	case entity.EmptyCell:
		return entity.EmptyCell, false
	case entity.PlayerTie:
		return entity.EmptyCell, true
	default:
		return result, true
	}
}

// MakeTurn - applies one move for the given player to an ongoing game.
// On success the turn passes to the opponent, or the game finishes with
// the winner recorded on it.
func MakeTurn(gameInstance *entity.Game, playerID string, cell int) error {
	switch {
	case gameInstance.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case gameInstance.IsFinished():
		return apperror.ErrGameFinished
	}

	if gameInstance.Turn != playerID {
		return apperror.ErrNotYourTurn
	}

	player := gameInstance.PlayerByID(playerID)
	if player == nil {
		return fmt.Errorf("%w: player %s is not in game %s", apperror.ErrNotYourTurn, playerID, gameInstance.ID)
	}

	board, winner, complete, err := ApplyMove(gameInstance.Board, cell, player.Mark)
	if err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	gameInstance.Board = board

	if complete {
		gameInstance.Status = entity.StatusFinished
		gameInstance.Winner = winner
		gameInstance.Turn = ""
		return nil
	}

	gameInstance.Turn = gameInstance.Opponent(playerID).ID

	return nil
}

// ResetGame - clears a finished board for a rematch. The opening move
// goes to the player who did not open the previous round.
func ResetGame(gameInstance *entity.Game) error {
	if !gameInstance.IsFinished() {
		return apperror.ErrGameNotFinished
	}

	opener := gameInstance.Opponent(gameInstance.FirstTurn)
	if opener == nil {
		return fmt.Errorf("%w: game %s has no opponent to open the rematch", apperror.ErrGameIsNotStarted, gameInstance.ID)
	}

	gameInstance.Board = [9]string{}
	gameInstance.Winner = entity.EmptyCell
	gameInstance.Status = entity.StatusOngoing
	gameInstance.Turn = opener.ID
	gameInstance.FirstTurn = opener.ID

	return nil
}

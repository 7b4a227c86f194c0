package entity

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"

	PlayerX   = "X"
	PlayerO   = "O"
	PlayerTie = "-"

	EmptyCell = ""
)

// Game is one tic-tac-toe session shared by up to two players.
// Turn and FirstTurn hold participant IDs, not marks; Winner holds the
// winning mark, or EmptyCell for a draw or an unfinished game.
type Game struct {
	ID        string    `json:"id"`
	Board     [9]string `json:"board"`
	Winner    string    `json:"winner,omitempty"`
	Status    string    `json:"status"`
	Turn      string    `json:"turn,omitempty"`
	FirstTurn string    `json:"first_turn,omitempty"`
	Players   []*Player `json:"players,omitempty"`
}

// NewGame - creates a waiting game hosted by the given player, who opens
// the first round.
func NewGame(id string, host *Player) *Game {
	return &Game{
		ID:        id,
		Board:     [9]string{EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell},
		Status:    StatusWaiting,
		Turn:      host.ID,
		FirstTurn: host.ID,
		Players:   []*Player{host},
	}
}

// AddPlayer - appends a player; with two players the game starts.
func (that *Game) AddPlayer(player *Player) {
	that.Players = append(that.Players, player)

	if len(that.Players) == 2 {
		that.Status = StatusOngoing
	}
}

// DetermineGameResult - returns the winning mark, PlayerTie for a full
// board with no winner, or EmptyCell while the game continues.
func (that *Game) DetermineGameResult() string {
	for _, combo := range WinCombos {
		a, b, c := that.Board[combo[0]], that.Board[combo[1]], that.Board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return a
		}
	}

	// the game continues until all the squares are full
	for _, cell := range that.Board {
		if cell == EmptyCell {
			return EmptyCell
		}
	}

	return PlayerTie
}

var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

// IsDraw reports a finished game without a winning mark.
func (that *Game) IsDraw() bool {
	return that.IsFinished() && that.Winner == EmptyCell
}

func (that *Game) HasPlayer(id string) bool {
	return that.PlayerByID(id) != nil
}

func (that *Game) PlayerByID(id string) *Player {
	for _, player := range that.Players {
		if player.ID == id {
			return player
		}
	}

	return nil
}

// Opponent - returns the other player of the game, or nil if the given
// player has no opponent yet.
func (that *Game) Opponent(id string) *Player {
	for _, player := range that.Players {
		if player.ID != id {
			return player
		}
	}

	return nil
}

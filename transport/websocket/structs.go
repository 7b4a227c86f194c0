package websocket

import "github.com/rocketscienceinc/tictactoe-arena/internal/entity"

// Inbound message types.
const (
	msgCreateGame  = "CREATE_GAME"
	msgJoinGame    = "JOIN_GAME"
	msgMoveMade    = "MOVE_MADE"
	msgResetGame   = "RESET_GAME"
	msgLeaderboard = "LEADERBOARD"
	msgGameLobby   = "GAME_LOBBY"
	msgGameRef     = "GAME_REF"
	msgGameChat    = "GAME_CHAT"
	msgEndGame     = "END_GAME"
)

// Outbound-only message types.
const (
	msgError                = "ERROR"
	msgGameCreated          = "GAME_CREATED"
	msgGameJoined           = "GAME_JOINED"
	msgOpponentJoined       = "OPPONENT_JOINED"
	msgOpponentDisconnected = "OPPONENT_DISCONNECTED"
)

// Literal keepalive payloads the reverse proxy sends to hold the tunnel
// open; they are echoed back verbatim and never parsed as protocol.
const (
	healthCheckPayload = "health_check"
	initTunnelPayload  = "init_tunnel"
)

// Message is one inbound protocol message; Type selects the handler and
// the remaining fields are type-specific.
type Message struct {
	Type     string `json:"type"`
	Name     string `json:"name,omitempty"`
	GameID   string `json:"gameId,omitempty"`
	Position *int   `json:"position,omitempty"`
	PlayerID string `json:"playerId,omitempty"`
	Sender   string `json:"sender,omitempty"`
	Text     string `json:"text,omitempty"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type gameCreatedMessage struct {
	Type       string `json:"type"`
	GameID     string `json:"gameId"`
	PlayerID   string `json:"playerId"`
	Symbol     string `json:"symbol"`
	IsYourTurn bool   `json:"isYourTurn"`
}

type gameJoinedMessage struct {
	Type       string    `json:"type"`
	GameID     string    `json:"gameId"`
	PlayerID   string    `json:"playerId"`
	Symbol     string    `json:"symbol"`
	IsYourTurn bool      `json:"isYourTurn"`
	Board      [9]string `json:"board"`
	OpponentID string    `json:"opponentId"`
}

type opponentJoinedMessage struct {
	Type       string `json:"type"`
	OpponentID string `json:"opponentId"`
}

type moveMadeMessage struct {
	Type       string    `json:"type"`
	Position   int       `json:"position"`
	Symbol     string    `json:"symbol"`
	Board      [9]string `json:"board"`
	IsYourTurn bool      `json:"isYourTurn"`
	GameOver   bool      `json:"gameOver"`
	Winner     string    `json:"winner"`
	OpponentID string    `json:"opponentId"`
}

type resetGameMessage struct {
	Type       string    `json:"type"`
	Board      [9]string `json:"board"`
	IsYourTurn bool      `json:"isYourTurn"`
	OpponentID string    `json:"opponentId"`
}

type opponentDisconnectedMessage struct {
	Type string `json:"type"`
}

type gameLobbyMessage struct {
	Type      string              `json:"type"`
	GameLobby []entity.LobbyEntry `json:"gameLobby"`
}

type leaderboardMessage struct {
	Type        string         `json:"type"`
	LeaderBoard []entity.Score `json:"leaderBoard"`
	GameLogs    []string       `json:"gameLogs"`
}

type gameRefMessage struct {
	Type       string    `json:"type"`
	GameID     string    `json:"gameId"`
	Board      [9]string `json:"board"`
	IsYourTurn bool      `json:"isYourTurn"`
	GameOver   bool      `json:"gameOver"`
	Winner     string    `json:"winner"`
	Symbol     string    `json:"symbol"`
	OpponentID string    `json:"opponentId"`
}

type gameChatMessage struct {
	Type   string `json:"type"`
	GameID string `json:"gameId"`
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/internal/pkg"
)

type gameManager interface {
	CreateGame(ctx context.Context, playerID string) (*entity.Game, error)
	JoinGame(ctx context.Context, gameID, playerID string) (*entity.Game, error)
	MakeTurn(ctx context.Context, playerID string, cell int) (*entity.Game, *entity.Player, error)
	ResetGame(ctx context.Context, gameID, playerID string) (*entity.Game, error)
	Resume(ctx context.Context, playerID string) (*entity.Game, *entity.Player, error)
	Disconnect(ctx context.Context, playerID, gameID string) (string, bool, error)
	InActiveGame(ctx context.Context, playerID string) bool
	GameByID(ctx context.Context, gameID string) (*entity.Game, error)
	Leaderboard(ctx context.Context) ([]entity.Score, []string, error)
	Lobby() []entity.LobbyEntry
}

type Server struct {
	logger  *slog.Logger
	manager gameManager

	registry *registry

	clientsMutex sync.RWMutex
	clients      map[*client]struct{}

	handlers map[string]func(ctx context.Context, msg *Message, c *client) error
}

func New(logger *slog.Logger, manager gameManager) *Server {
	server := &Server{
		logger:   logger,
		manager:  manager,
		registry: newRegistry(),
		clients:  make(map[*client]struct{}),

		handlers: make(map[string]func(context.Context, *Message, *client) error),
	}

	server.handlers[msgCreateGame] = server.handleCreateGame
	server.handlers[msgJoinGame] = server.handleJoinGame
	server.handlers[msgMoveMade] = server.handleMoveMade
	server.handlers[msgResetGame] = server.handleResetGame
	server.handlers[msgLeaderboard] = server.handleLeaderboard
	server.handlers[msgGameLobby] = server.handleGameLobby
	server.handlers[msgGameRef] = server.handleGameRef
	server.handlers[msgGameChat] = server.handleGameChat
	server.handlers[msgEndGame] = server.handleEndGame

	return server
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket and serves
// it until the transport closes.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	if req.Header.Get("Upgrade") != "websocket" {
		http.Error(writer, "not a websocket upgrade", http.StatusBadRequest)
		return
	}

	key := req.Header.Get("Sec-WebSocket-Key")
	acceptKey := pkg.GenerateAcceptKey(key)

	writer.Header().Set("Upgrade", "websocket")
	writer.Header().Set("Connection", "Upgrade")
	writer.Header().Set("Sec-WebSocket-Accept", acceptKey)
	writer.WriteHeader(http.StatusSwitchingProtocols)

	hijacker, ok := writer.(http.Hijacker)
	if !ok {
		log.Error("web server does not support hijacking")
		return
	}

	conn, bufrw, err := hijacker.Hijack()
	if err != nil {
		log.Error("failed to hijack connection", "error", err)
		return
	}

	defer conn.Close()

	log.Info("WebSocket connection established")

	c := &client{bufrw: bufrw}

	that.clientsMutex.Lock()
	that.clients[c] = struct{}{}
	that.clientsMutex.Unlock()

	that.handleMessages(ctx, c)
	that.dropClient(ctx, c)
}

// handleMessages - processes messages from the client until the
// transport closes. Keepalive payloads are echoed before any protocol
// parsing; malformed payloads are logged and the connection stays open.
func (that *Server) handleMessages(ctx context.Context, c *client) {
	log := that.logger.With("method", "handleMessages")

	for {
		payload, opCode, err := readMessage(c.bufrw)
		if err != nil {
			log.Info("connection closed", "error", err)
			return
		}

		switch opCode {
		case opClose:
			return
		case opPing:
			if err = c.sendPong(payload); err != nil {
				log.Error("failed to send pong", "error", err)
			}
			continue
		}

		if len(payload) == 0 {
			continue
		}

		if raw := string(payload); raw == healthCheckPayload || raw == initTunnelPayload {
			if err = c.sendRaw(payload); err != nil {
				log.Error("failed to echo keepalive", "error", err)
			}
			continue
		}

		var message Message
		if err = json.Unmarshal(payload, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Type]
		if !ok {
			log.Error("unknown message type", "type", message.Type)
			continue
		}

		if err = handler(ctx, &message, c); err != nil {
			log.Error("error processing message", "type", message.Type, "error", err)
		}
	}
}

// dropClient - runs the disconnect transition for a closed transport. A
// connection whose player id was rebound to a newer connection is stale
// and must not tear the session down.
func (that *Server) dropClient(ctx context.Context, c *client) {
	log := that.logger.With("method", "dropClient")

	that.clientsMutex.Lock()
	delete(that.clients, c)
	that.clientsMutex.Unlock()

	if c.playerID == "" {
		return
	}

	if !that.registry.unregister(c.playerID, c) {
		log.Info("skipping disconnect for superseded connection", "playerID", c.playerID)
		return
	}

	remainingID, lobbyChanged, err := that.manager.Disconnect(ctx, c.playerID, c.gameID)
	if err != nil {
		log.Error("failed to close game on disconnect", "playerID", c.playerID, "error", err)
		return
	}

	that.notifyOpponentDisconnected(remainingID)

	if lobbyChanged {
		that.broadcastLobby()
	}

	log.Info("player disconnected", "playerID", c.playerID)
}

func (that *Server) notifyOpponentDisconnected(remainingID string) {
	if remainingID == "" {
		return
	}

	conn, ok := that.registry.lookup(remainingID)
	if !ok {
		return
	}

	if err := conn.send(opponentDisconnectedMessage{Type: msgOpponentDisconnected}); err != nil {
		that.logger.Error("failed to notify remaining player", "playerID", remainingID, "error", err)
	}
}

// broadcastLobby - pushes the full lobby list to every connected
// transport, bound to a game or not, so idle clients stay current.
func (that *Server) broadcastLobby() {
	log := that.logger.With("method", "broadcastLobby")

	message := gameLobbyMessage{
		Type:      msgGameLobby,
		GameLobby: that.manager.Lobby(),
	}

	that.clientsMutex.RLock()
	clients := make([]*client, 0, len(that.clients))
	for c := range that.clients {
		clients = append(clients, c)
	}
	that.clientsMutex.RUnlock()

	for _, c := range clients {
		if err := c.send(message); err != nil {
			log.Info("failed to send lobby update", "error", err)
		}
	}
}

func (that *Server) sendErrorResponse(c *client, errorMsg string) error {
	if err := c.send(errorMessage{Type: msgError, Message: errorMsg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}

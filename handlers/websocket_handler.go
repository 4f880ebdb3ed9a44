package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/gorilla/websocket"
)

// Viewers are read-only, so any origin may watch.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub               *brackets.Hub
	tournamentService TournamentService
	logger            *slog.Logger
}

func NewWebSocketHandler(hub *brackets.Hub, ts TournamentService, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketHandler{
		hub:               hub,
		tournamentService: ts,
		logger:            logger,
	}
}

// ServeWs подключает зрителя к комнате турнира: /ws/tournaments/{tournamentID}.
// The viewer joins the room before the board is read, so a change committed
// while connecting arrives either in the snapshot or as a later update.
// Viewers order messages by the board version.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	// 404 must be answered before the upgrade.
	if _, err := h.tournamentService.GetBoard(r.Context(), tournamentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.logger.Warn("websocket upgrade failed", slog.String("tournament_id", tournamentID), slog.Any("error", err))
		return
	}

	client := &brackets.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: brackets.RoomFor(tournamentID),
	}
	h.hub.Join(client)

	go client.WritePump()
	go client.ReadPump()

	board, err := h.tournamentService.GetBoard(r.Context(), tournamentID)
	if err != nil {
		h.logger.Warn("board snapshot unavailable", slog.String("tournament_id", tournamentID), slog.Any("error", err))
		return
	}
	snapshot, err := brackets.EncodeMessage(brackets.WebSocketMessage{
		Type:    brackets.EventBoardSnapshot,
		Payload: board,
		RoomID:  client.Room,
	})
	if err != nil {
		h.logger.Error("failed to encode board snapshot", slog.String("tournament_id", tournamentID), slog.Any("error", err))
		return
	}
	if !client.Queue(snapshot) {
		h.logger.Warn("viewer left before the board snapshot", slog.String("tournament_id", tournamentID))
		return
	}

	h.logger.Debug("viewer connected", slog.String("tournament_id", tournamentID))
}

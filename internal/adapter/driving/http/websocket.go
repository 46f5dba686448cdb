package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/Wyydra/duet/internal/adapter/driven/gateway/ws"
	"github.com/Wyydra/duet/internal/core/domain"
	"github.com/Wyydra/duet/internal/core/service"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// HTTP handler
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Error while upgrading ws")
		return
	}

	client := ws.NewClient(conn, h.cfg.SendBuffer)
	go client.WritePump()

	clientID, err := h.Signaling.Connect(client)
	if err != nil {
		log.Error().Err(err).Msg("Rejecting connection")
		client.Close()
		return
	}

	l := log.With().Str("client_id", clientID.String()).Logger()
	l.Info().Str("remote_addr", conn.RemoteAddr().String()).Msg("New client connected")

	defer func() {
		l.Info().Msg("Client disconnected")
		h.Signaling.Disconnect(clientID)
		client.Close()
	}()

	conn.SetReadLimit(h.cfg.MaxMessageBytes)
	conn.SetReadDeadline(time.Now().Add(ws.PongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(ws.PongWait))
		return nil
	})

	var limiter *rate.Limiter
	if n := h.cfg.MaxMessagesPerSecond; n > 0 {
		limiter = rate.NewLimiter(rate.Limit(n), n)
	}

	// listening for browser
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				l.Error().Err(err).Msg("Unexpected close error")
			}
			break
		}

		if limiter != nil && !limiter.Allow() {
			l.Warn().Msg("Rate limit exceeded, dropping message")
			continue
		}

		msg, name, err := ws.Decode(data)
		if err != nil {
			l.Warn().Err(err).Msg("Dropping malformed message")
			continue
		}

		switch {
		case msg.Type == domain.TypeSender:
			err = h.Signaling.Join(clientID, name)
		case msg.Type.IsRelayed():
			err = h.Signaling.Relay(clientID, msg)
		default:
			l.Debug().Str("type", string(msg.Type)).Msg("Ignoring unknown message type")
		}
		if errors.Is(err, service.ErrStopped) {
			return
		}
	}
}

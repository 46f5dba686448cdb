package http

import (
	"encoding/json"
	"net/http"
	"slices"

	"github.com/Wyydra/duet/internal/config"
	"github.com/Wyydra/duet/internal/core/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	Signaling *service.SignalingService
	cfg       config.Config
	upgrader  websocket.Upgrader
}

func NewHandler(signaling *service.SignalingService, cfg config.Config) *Handler {
	h := &Handler{
		Signaling: signaling,
		cfg:       cfg,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Handler) NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/ws", h.ServeWS)
	r.Get("/healthz", h.Health)
	r.Get("/stats", h.Stats)
	r.Get("/ice-servers", h.ICEServers)

	fs := http.FileServer(http.Dir(h.cfg.StaticDir))
	r.Handle("/*", fs)

	return r
}

// checkOrigin allows every origin when no allow list is configured.
func (h *Handler) checkOrigin(r *http.Request) bool {
	if len(h.cfg.AllowedOrigins) == 0 {
		return true
	}
	return slices.Contains(h.cfg.AllowedOrigins, r.Header.Get("Origin"))
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.Signaling.Stats()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, st)
}

func (h *Handler) ICEServers(w http.ResponseWriter, r *http.Request) {
	type iceServersDTO struct {
		ICEServers []webrtc.ICEServer `json:"iceServers"`
	}
	servers := h.cfg.ICEServers
	if servers == nil {
		servers = []webrtc.ICEServer{}
	}
	writeJSON(w, iceServersDTO{ICEServers: servers})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Error writing response")
	}
}

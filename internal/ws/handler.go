package ws

import (
	"log"
	"net/http"

	"skill-swap/internal/delivery/http/middleware"
	"skill-swap/internal/pkg/jwt"

	"github.com/gorilla/websocket"
)

type TokenValidator interface {
	ValidateAccessToken(token string) (jwt.Claims, error)
}

// Handler upgrades authenticated requests. The access token comes from the
// token query parameter, or the Authorization header for non-browser clients.
type Handler struct {
	hub    *Hub
	tokens TokenValidator
	logger *log.Logger
}

func NewHandler(hub *Hub, tokens TokenValidator, logger *log.Logger) *Handler {
	return &Handler{hub: hub, tokens: tokens, logger: logger}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.hub == nil || h.tokens == nil {
		http.Error(w, "websocket unavailable", http.StatusServiceUnavailable)
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		token, _ = middleware.BearerToken(r.Header.Get("Authorization"))
	}
	if token == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	claims, err := h.tokens.ValidateAccessToken(token)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		if h.logger != nil {
			h.logger.Printf("WS upgrade error | user_id=%s error=%v", claims.UserID, err)
		}
		return
	}

	client := NewClient(h.hub, conn, claims.UserID)
	h.hub.Register(client)
	go client.WritePump()
	go client.ReadPump()
}

// NewServeMux mounts the handler at /ws.
func NewServeMux(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	return mux
}

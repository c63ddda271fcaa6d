package handler

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sweetconnect/messaging-system/internal/api/middleware"
	"github.com/sweetconnect/messaging-system/internal/core/domain"
	"github.com/sweetconnect/messaging-system/internal/infrastructure/realtime"
)

// PushHub accepts upgraded connections.
type PushHub interface {
	Serve(conn *websocket.Conn, id realtime.Identity, addr string) error
}

// WSHandler authenticates and upgrades push-channel connections.
type WSHandler struct {
	hub       PushHub
	jwtSecret string
	upgrader  websocket.Upgrader
	log       zerolog.Logger
}

func NewWSHandler(hub PushHub, jwtSecret string, checkOrigin func(*http.Request) bool, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		hub:       hub,
		jwtSecret: jwtSecret,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		log: log,
	}
}

// Connect handles GET /ws. Browsers cannot set headers on a WebSocket
// handshake, so the token may also arrive as ?token=.
//
// @Summary      Open the push channel
// @Tags         realtime
// @Param        token  query  string  true  "Access token"
// @Success      101
// @Failure      401  {object}  errorResponse
// @Router       /ws [get]
func (h *WSHandler) Connect(c echo.Context) error {
	raw := c.QueryParam("token")
	if raw == "" {
		if parts := strings.SplitN(c.Request().Header.Get("Authorization"), " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			raw = parts[1]
		}
	}
	if raw == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}
	claims, err := middleware.ParseToken(raw, h.jwtSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.log.Debug().Err(err).Str("addr", c.RealIP()).Msg("websocket upgrade failed")
		return nil
	}

	id := realtime.Identity{ID: claims.UserID, Role: domain.Role(claims.Role)}
	if err := h.hub.Serve(conn, id, c.RealIP()); err != nil {
		h.log.Warn().Err(err).Str("actor_id", id.ID).Msg("push connection refused")
	}
	return nil
}

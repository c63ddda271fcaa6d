package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/sweetconnect/messaging-system/internal/core/domain"
	"github.com/sweetconnect/messaging-system/internal/core/ports"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	sendBufferSize = 64
	submitTimeout  = 15 * time.Second
)

// ClientConfig bounds what one connection may send.
type ClientConfig struct {
	MaxMessageSize int64
	RateBurst      int
	RateInterval   time.Duration
}

func (c ClientConfig) withDefaults() ClientConfig {
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = 4096
	}
	if c.RateBurst <= 0 {
		c.RateBurst = 5
	}
	if c.RateInterval <= 0 {
		c.RateInterval = time.Second
	}
	return c
}

// Client is one live push connection. actorID, role and closed are guarded
// by the hub's mutex.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	addr     string
	identity Identity
	limiter  *rate.Limiter

	actorID string
	role    domain.Role
	closed  bool
}

func newClient(h *Hub, conn *websocket.Conn, id Identity, addr string) *Client {
	return &Client{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		addr:     addr,
		identity: id,
		limiter:  rate.NewLimiter(rate.Every(h.cfg.RateInterval), h.cfg.RateBurst),
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Leave(c)
		if err := c.conn.Close(); err != nil && !isExpectedCloseError(err) {
			c.hub.log.Warn().Err(err).Str("addr", c.addr).Msg("close connection in read pump")
		}
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			c.logReadError(err)
			return
		}
		if !c.limiter.Allow() {
			c.reply(EventError, ErrorPayload{Error: "rate limit exceeded"})
			continue
		}
		c.handle(raw)
	}
}

func (c *Client) logReadError(err error) {
	log := c.hub.log.With().Str("addr", c.addr).Str("identity", c.identity.ID).Logger()
	switch {
	case errors.Is(err, websocket.ErrReadLimit):
		log.Warn().Int64("limit", c.hub.cfg.MaxMessageSize).Msg("frame exceeded maximum size")
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived):
		log.Debug().Msg("client disconnected")
	case errors.Is(err, io.EOF) || isExpectedCloseError(err):
		log.Debug().Err(err).Msg("connection closed")
	default:
		log.Warn().Err(err).Msg("websocket read error")
	}
}

func (c *Client) handle(raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.reply(EventError, ErrorPayload{Error: "invalid frame"})
		return
	}
	switch env.Event {
	case EventJoin:
		var p JoinPayload
		if err := json.Unmarshal(env.Data, &p); err != nil || strings.TrimSpace(p.UserID) == "" {
			c.reply(EventError, ErrorPayload{Error: "userId is required"})
			return
		}
		if p.UserID != c.identity.ID {
			c.reply(EventError, ErrorPayload{Error: "cannot join another user's room"})
			return
		}
		c.hub.Join(c, p.UserID, c.identity.Role)
	case EventSendMessage:
		var p SendMessagePayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			c.reply(EventError, ErrorPayload{Error: "invalid payload"})
			return
		}
		c.submit(p)
	default:
		c.reply(EventError, ErrorPayload{Error: "unknown event"})
	}
}

// submit routes the message exactly as the REST endpoint does; the push
// back to this connection comes from Publish, not from an echo here.
func (c *Client) submit(p SendMessagePayload) {
	c.hub.mu.RLock()
	submitter := c.hub.submitter
	c.hub.mu.RUnlock()
	if submitter == nil {
		c.reply(EventError, ErrorPayload{Error: "messaging unavailable"})
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
	defer cancel()

	_, err := submitter.Submit(ctx, ports.SubmitMessageInput{
		SenderID: c.identity.ID,
		Content:  p.Content,
		Kind:     p.Type,
	})
	if err != nil {
		c.reply(EventError, ErrorPayload{Error: clientMessage(err)})
	}
}

func clientMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyContent):
		return domain.ErrEmptyContent.Error()
	case errors.Is(err, domain.ErrUnauthenticatedSender):
		return domain.ErrUnauthenticatedSender.Error()
	case errors.Is(err, domain.ErrNoCounterparty):
		return domain.ErrNoCounterparty.Error()
	case errors.Is(err, domain.ErrPersistence):
		return domain.ErrPersistence.Error()
	default:
		return "internal error"
	}
}

// reply queues a frame for this connection only. Dropped if the buffer is
// full or the connection is already leaving.
func (c *Client) reply(event string, data any) {
	payload, err := encode(event, data)
	if err != nil {
		return
	}
	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if c.closed {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.conn.Close(); err != nil && !isExpectedCloseError(err) {
			c.hub.log.Warn().Err(err).Str("addr", c.addr).Msg("close connection in write pump")
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				if !isExpectedCloseError(err) {
					c.hub.log.Warn().Err(err).Str("addr", c.addr).Msg("write message")
				}
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func isExpectedCloseError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, net.ErrClosed) || errors.Is(err, websocket.ErrCloseSent) {
		return true
	}
	return strings.Contains(err.Error(), "use of closed network connection")
}

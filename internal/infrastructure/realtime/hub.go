// Package realtime tracks live push connections grouped by actor id and fans
// new messages out to them over WebSocket.
package realtime

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/sweetconnect/messaging-system/internal/pkg/metrics"
	"github.com/sweetconnect/messaging-system/internal/core/domain"
	"github.com/sweetconnect/messaging-system/internal/core/ports"
)

// ErrHubClosed is returned by Serve once Shutdown has started.
var ErrHubClosed = errors.New("realtime: hub closed")

// Submitter routes messages sent over a push connection.
type Submitter interface {
	Submit(ctx context.Context, in ports.SubmitMessageInput) (*ports.SubmitMessageResult, error)
}

// Hub holds the room mapping. All mutations happen under mu; Publish holds the
// read lock while it hands payloads to client buffers so a concurrent leave
// cannot close a channel mid-send.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}
	closing bool

	submitter Submitter
	cfg       ClientConfig
	log       zerolog.Logger
	wg        sync.WaitGroup
}

func NewHub(submitter Submitter, cfg ClientConfig, log zerolog.Logger) *Hub {
	return &Hub{
		clients:   make(map[*Client]struct{}),
		rooms:     make(map[string]map[*Client]struct{}),
		submitter: submitter,
		cfg:       cfg.withDefaults(),
		log:       log,
	}
}

// SetSubmitter wires the message router. Call before the first Serve; the
// router itself publishes through this hub, so it cannot be passed to NewHub.
func (h *Hub) SetSubmitter(s Submitter) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.submitter = s
}

// Serve takes ownership of conn and runs its pumps until the peer goes away.
func (h *Hub) Serve(conn *websocket.Conn, id Identity, addr string) error {
	c := newClient(h, conn, id, addr)
	if !h.attach(c, 2) {
		_ = conn.Close()
		return ErrHubClosed
	}
	conn.SetReadLimit(h.cfg.MaxMessageSize)

	go func() {
		defer h.wg.Done()
		c.writePump()
	}()
	go func() {
		defer h.wg.Done()
		c.readPump()
	}()
	return nil
}

// attach registers c and reserves pumps goroutines on wg. Both happen under
// mu after the closing check, so Shutdown's Wait never races an Add.
func (h *Hub) attach(c *Client, pumps int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closing {
		return false
	}
	h.wg.Add(pumps)
	h.clients[c] = struct{}{}
	metrics.LiveConnections.Inc()
	h.log.Debug().Str("addr", c.addr).Str("identity", c.identity.ID).Int("connections", len(h.clients)).Msg("connection attached")
	return true
}

// Join binds c to the room of actorID. Re-joining moves the connection.
func (h *Hub) Join(c *Client, actorID string, role domain.Role) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	h.unbindLocked(c)
	room, ok := h.rooms[actorID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[actorID] = room
	}
	room[c] = struct{}{}
	c.actorID = actorID
	c.role = role
	h.log.Debug().Str("actor_id", actorID).Str("role", string(role)).Int("room_size", len(room)).Msg("connection joined")
}

// Leave removes c from its room and closes its outbound buffer. Safe to call
// more than once.
func (h *Hub) Leave(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	h.unbindLocked(c)
	delete(h.clients, c)
	c.closed = true
	close(c.send)
	metrics.LiveConnections.Dec()
}

func (h *Hub) unbindLocked(c *Client) {
	if c.actorID == "" {
		return
	}
	if room, ok := h.rooms[c.actorID]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, c.actorID)
		}
	}
	c.actorID = ""
	c.role = ""
}

// Publish pushes ev to every bound connection allowed to see it: the
// sender's own room plus every connection bound to a role that receives live
// pushes. It never blocks; a connection whose buffer is full is dropped and
// must resync from history after reconnecting.
func (h *Hub) Publish(ev ports.MessageEvent) {
	payload, err := encode(EventNewMessage, ev)
	if err != nil {
		h.log.Error().Err(err).Str("message_id", ev.ID).Msg("encode push event")
		return
	}

	var slow []*Client
	delivered := 0
	h.mu.RLock()
	for c := range h.clients {
		if c.actorID == "" {
			continue
		}
		if c.actorID != ev.SenderID && !c.role.ReceivesLivePushes() {
			metrics.PublishDeliveriesTotal.WithLabelValues("filtered").Inc()
			continue
		}
		select {
		case c.send <- payload:
			delivered++
			metrics.PublishDeliveriesTotal.WithLabelValues("delivered").Inc()
		default:
			slow = append(slow, c)
			metrics.PublishDeliveriesTotal.WithLabelValues("dropped").Inc()
		}
	}
	h.mu.RUnlock()

	if len(slow) > 0 {
		h.mu.Lock()
		for _, c := range slow {
			h.log.Warn().Str("addr", c.addr).Str("actor_id", c.actorID).Msg("send buffer full, dropping connection")
			h.removeLocked(c)
		}
		h.mu.Unlock()
	}
	h.log.Debug().Str("message_id", ev.ID).Int("delivered", delivered).Msg("message published")
}

// RoomSize reports how many connections are bound to actorID.
func (h *Hub) RoomSize(actorID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[actorID])
}

// ConnectionCount reports all attached connections, bound or not.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown refuses new connections, closes live ones and waits for their
// pumps to exit or for timeout.
func (h *Hub) Shutdown(timeout time.Duration) error {
	h.mu.Lock()
	h.closing = true
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		if c.conn != nil {
			conns = append(conns, c.conn)
		}
	}
	h.mu.Unlock()

	for _, conn := range conns {
		if err := conn.Close(); err != nil && !isExpectedCloseError(err) {
			h.log.Warn().Err(err).Msg("close push connection")
		}
	}
	h.log.Info().Int("connections", len(conns)).Msg("closing push connections")

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return context.DeadlineExceeded
	}
}

package realtime

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/voyago/travelplanner/internal/pkg/logger"
	"github.com/voyago/travelplanner/internal/pkg/models"
)

// LocationHistoryCap bounds the number of samples retained per trip
const LocationHistoryCap = 1000

// Conn abstracts the underlying WebSocket connection; *websocket.Conn from
// gorilla satisfies it
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// ConnState tracks the lifecycle of a connection
type ConnState int

const (
	StateConnecting ConnState = iota
	StateOpen
	StateClosed
)

// Connection is a live client connection. Once closed it is never reused; a
// reconnecting client gets a fresh Connection.
type Connection struct {
	ID     string
	UserID uuid.UUID

	mu    sync.Mutex // serializes writes and guards state
	conn  Conn
	state ConnState
}

// NewConnection wraps a transport connection for hub registration
func NewConnection(conn Conn, userID uuid.UUID) *Connection {
	return &Connection{
		ID:     uuid.New().String(),
		UserID: userID,
		conn:   conn,
		state:  StateConnecting,
	}
}

// State returns the connection's current lifecycle state
func (c *Connection) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Send marshals data into a typed message and writes it. A write failure
// transitions the connection to Closed.
func (c *Connection) Send(event string, data interface{}) error {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("error marshaling message data: %w", err)
		}
		raw = b
	}
	return c.SendMessage(models.WSMessage{Type: event, Data: raw})
}

// SendMessage writes a prepared message to the connection
func (c *Connection) SendMessage(msg models.WSMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateClosed {
		return fmt.Errorf("connection closed")
	}

	if err := c.conn.WriteJSON(msg); err != nil {
		c.state = StateClosed
		_ = c.conn.Close()
		return fmt.Errorf("write failed: %w", err)
	}
	return nil
}

func (c *Connection) markClosed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateClosed {
		c.state = StateClosed
		_ = c.conn.Close()
	}
}

// TripChannel returns the broadcast channel name for a trip
func TripChannel(tripID string) string {
	return "trip:" + tripID
}

// UserChannel returns the broadcast channel name for a user
func UserChannel(userID uuid.UUID) string {
	return "user:" + userID.String()
}

// Hub is the process-wide connection registry. It maps channel names to sets
// of live connections and retains a bounded location history per trip.
type Hub struct {
	mu       sync.RWMutex
	channels map[string]map[*Connection]struct{}

	historyMu  sync.Mutex
	histories  map[string][]models.LocationSample
	historyCap int
}

// NewHub creates an empty connection registry
func NewHub() *Hub {
	return &Hub{
		channels:   make(map[string]map[*Connection]struct{}),
		histories:  make(map[string][]models.LocationSample),
		historyCap: LocationHistoryCap,
	}
}

// Connect registers a connection on a channel. Registering the same
// connection twice is a no-op since membership is a set.
func (h *Hub) Connect(c *Connection, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.channels[channel]
	if !ok {
		members = make(map[*Connection]struct{})
		h.channels[channel] = members
	}
	members[c] = struct{}{}

	c.mu.Lock()
	if c.state == StateConnecting {
		c.state = StateOpen
	}
	c.mu.Unlock()
}

// Disconnect removes a connection from a channel, dropping the channel entry
// once its member set is empty
func (h *Hub) Disconnect(c *Connection, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c, channel)
}

func (h *Hub) removeLocked(c *Connection, channel string) {
	members, ok := h.channels[channel]
	if !ok {
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(h.channels, channel)
	}
}

// Close marks a connection closed and removes it from every channel
func (h *Hub) Close(c *Connection) {
	c.markClosed()

	h.mu.Lock()
	defer h.mu.Unlock()
	for channel := range h.channels {
		h.removeLocked(c, channel)
	}
}

// ChannelSize returns the number of connections on a channel
func (h *Hub) ChannelSize(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}

// Broadcast sends a message to every connection on a channel. A failed send
// marks that connection dead; dead connections are pruned after the pass so
// one bad peer never blocks delivery to the rest. Unknown channels have empty
// membership and are not an error.
func (h *Hub) Broadcast(channel string, msg models.WSMessage) {
	h.mu.RLock()
	members := make([]*Connection, 0, len(h.channels[channel]))
	for c := range h.channels[channel] {
		members = append(members, c)
	}
	h.mu.RUnlock()

	var failed []*Connection
	for _, c := range members {
		if err := c.SendMessage(msg); err != nil {
			logger.Warn("Dropping dead connection from channel",
				logger.String("channel", channel),
				logger.String("connection_id", c.ID),
				logger.Err(err))
			failed = append(failed, c)
		}
	}

	if len(failed) > 0 {
		h.mu.Lock()
		for _, c := range failed {
			h.removeLocked(c, channel)
		}
		h.mu.Unlock()
	}
}

// BroadcastEvent marshals data and broadcasts it as a typed message
func (h *Hub) BroadcastEvent(channel, event string, data interface{}) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			logger.Error("Error marshaling broadcast data",
				logger.String("channel", channel),
				logger.String("event", event),
				logger.Err(err))
			return
		}
		raw = b
	}
	h.Broadcast(channel, models.WSMessage{Type: event, Data: raw})
}

// Unicast sends a message to a single connection with no membership side
// effects beyond marking the connection dead on failure
func (h *Hub) Unicast(c *Connection, event string, data interface{}) error {
	return c.Send(event, data)
}

// PushToUser delivers an event to every connection on a user's channel,
// stamping the message with the delivery time. Delivery is best-effort.
func (h *Hub) PushToUser(userID uuid.UUID, event string, data interface{}) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			logger.Error("Error marshaling push data",
				logger.String("user_id", userID.String()),
				logger.Err(err))
			return
		}
		raw = b
	}

	now := time.Now()
	h.Broadcast(UserChannel(userID), models.WSMessage{
		Type:      event,
		Data:      raw,
		Timestamp: &now,
	})
}

// StoreLocation appends a sample to a trip's history, assigning the server
// time when the client did not supply a timestamp. History is trimmed to the
// cap, evicting oldest first.
func (h *Hub) StoreLocation(tripID string, sample models.LocationSample) models.LocationSample {
	if sample.Timestamp.IsZero() {
		sample.Timestamp = time.Now()
	}

	h.historyMu.Lock()
	defer h.historyMu.Unlock()

	history := append(h.histories[tripID], sample)
	if len(history) > h.historyCap {
		history = history[len(history)-h.historyCap:]
	}
	h.histories[tripID] = history

	return sample
}

// LocationHistory returns up to limit of the most recent samples for a trip,
// newest-last. Unknown trips have empty history. A non-positive limit returns
// the full retained history.
func (h *Hub) LocationHistory(tripID string, limit int) []models.LocationSample {
	h.historyMu.Lock()
	defer h.historyMu.Unlock()

	history := h.histories[tripID]
	if limit <= 0 || limit > len(history) {
		limit = len(history)
	}

	out := make([]models.LocationSample, limit)
	copy(out, history[len(history)-limit:])
	return out
}

package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voyago/travelplanner/internal/pkg/models"
)

// fakeConn records written messages and can be told to fail
type fakeConn struct {
	mu       sync.Mutex
	messages []models.WSMessage
	failNext bool
	closed   bool
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		return errors.New("broken pipe")
	}
	msg, ok := v.(models.WSMessage)
	if !ok {
		return errors.New("unexpected message type")
	}
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) received() []models.WSMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.WSMessage, len(f.messages))
	copy(out, f.messages)
	return out
}

func TestConnectIsIdempotent(t *testing.T) {
	hub := NewHub()
	conn := NewConnection(&fakeConn{}, uuid.New())

	hub.Connect(conn, "trip:42")
	hub.Connect(conn, "trip:42")

	assert.Equal(t, 1, hub.ChannelSize("trip:42"))
	assert.Equal(t, StateOpen, conn.State())
}

func TestDisconnectRemovesEmptyChannel(t *testing.T) {
	hub := NewHub()
	conn := NewConnection(&fakeConn{}, uuid.New())

	hub.Connect(conn, "trip:42")
	hub.Disconnect(conn, "trip:42")

	assert.Equal(t, 0, hub.ChannelSize("trip:42"))

	hub.mu.RLock()
	_, exists := hub.channels["trip:42"]
	hub.mu.RUnlock()
	assert.False(t, exists, "empty channel entry should be removed")
}

func TestBroadcastReachesAllMembers(t *testing.T) {
	hub := NewHub()
	fc1 := &fakeConn{}
	fc2 := &fakeConn{}
	c1 := NewConnection(fc1, uuid.New())
	c2 := NewConnection(fc2, uuid.New())

	hub.Connect(c1, "trip:42")
	hub.Connect(c2, "trip:42")

	hub.BroadcastEvent("trip:42", "location_update", map[string]float64{"latitude": 1, "longitude": 2})

	require.Len(t, fc1.received(), 1)
	require.Len(t, fc2.received(), 1)
	assert.Equal(t, "location_update", fc1.received()[0].Type)
}

func TestBroadcastIsolatesFailedSend(t *testing.T) {
	hub := NewHub()
	healthy := &fakeConn{}
	broken := &fakeConn{failNext: true}
	c1 := NewConnection(healthy, uuid.New())
	c2 := NewConnection(broken, uuid.New())

	hub.Connect(c1, "trip:42")
	hub.Connect(c2, "trip:42")

	hub.BroadcastEvent("trip:42", "location_update", map[string]int{"x": 1})

	// The healthy peer still got the message
	require.Len(t, healthy.received(), 1)

	// The failing connection was pruned and closed
	assert.Equal(t, 1, hub.ChannelSize("trip:42"))
	assert.Equal(t, StateClosed, c2.State())
	assert.True(t, broken.closed)
}

func TestClosedConnectionRejectsSend(t *testing.T) {
	conn := NewConnection(&fakeConn{failNext: true}, uuid.New())

	err := conn.Send("ping", nil)
	require.Error(t, err)
	assert.Equal(t, StateClosed, conn.State())

	// Once closed, further sends fail without touching the transport
	err = conn.Send("ping", nil)
	assert.Error(t, err)
}

func TestUnknownChannelBroadcastIsNoop(t *testing.T) {
	hub := NewHub()
	// Must not panic or error
	hub.BroadcastEvent("trip:missing", "ping", nil)
	assert.Equal(t, 0, hub.ChannelSize("trip:missing"))
}

func TestStoreLocationEvictsOldestBeyondCap(t *testing.T) {
	hub := NewHub()

	for i := 0; i < LocationHistoryCap+1; i++ {
		hub.StoreLocation("trip-1", models.LocationSample{
			Latitude:  float64(i),
			Longitude: float64(i),
			Timestamp: time.Unix(int64(i), 0),
		})
	}

	history := hub.LocationHistory("trip-1", 0)
	require.Len(t, history, LocationHistoryCap)

	// The very first sample was evicted; the sequence is newest-last
	assert.Equal(t, float64(1), history[0].Latitude)
	assert.Equal(t, float64(LocationHistoryCap), history[len(history)-1].Latitude)
}

func TestStoreLocationAssignsServerTimestamp(t *testing.T) {
	hub := NewHub()

	stored := hub.StoreLocation("trip-1", models.LocationSample{Latitude: 1, Longitude: 2})
	assert.False(t, stored.Timestamp.IsZero())
}

func TestLocationHistoryLimit(t *testing.T) {
	hub := NewHub()
	for i := 0; i < 10; i++ {
		hub.StoreLocation("trip-1", models.LocationSample{
			Latitude:  float64(i),
			Timestamp: time.Unix(int64(i), 0),
		})
	}

	history := hub.LocationHistory("trip-1", 3)
	require.Len(t, history, 3)
	assert.Equal(t, float64(7), history[0].Latitude)
	assert.Equal(t, float64(9), history[2].Latitude)
}

func TestLocationHistoryUnknownTripIsEmpty(t *testing.T) {
	hub := NewHub()
	assert.Empty(t, hub.LocationHistory("trip-unknown", 10))
}

func TestPushToUserStampsTimestamp(t *testing.T) {
	hub := NewHub()
	fc := &fakeConn{}
	userID := uuid.New()
	conn := NewConnection(fc, userID)

	hub.Connect(conn, UserChannel(userID))
	hub.PushToUser(userID, "price_alert", map[string]float64{"new_price": 4000})

	msgs := fc.received()
	require.Len(t, msgs, 1)
	assert.Equal(t, "price_alert", msgs[0].Type)
	require.NotNil(t, msgs[0].Timestamp)

	var data map[string]float64
	require.NoError(t, json.Unmarshal(msgs[0].Data, &data))
	assert.Equal(t, 4000.0, data["new_price"])
}

func TestCloseRemovesFromAllChannels(t *testing.T) {
	hub := NewHub()
	conn := NewConnection(&fakeConn{}, uuid.New())

	hub.Connect(conn, "trip:42")
	hub.Connect(conn, UserChannel(conn.UserID))

	hub.Close(conn)

	assert.Equal(t, 0, hub.ChannelSize("trip:42"))
	assert.Equal(t, 0, hub.ChannelSize(UserChannel(conn.UserID)))
	assert.Equal(t, StateClosed, conn.State())
}

func TestConcurrentStoreLocation(t *testing.T) {
	hub := NewHub()
	var wg sync.WaitGroup

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				hub.StoreLocation(fmt.Sprintf("trip-%d", g%2), models.LocationSample{Latitude: float64(i)})
			}
		}(g)
	}
	wg.Wait()

	assert.Len(t, hub.LocationHistory("trip-0", 0), 200)
	assert.Len(t, hub.LocationHistory("trip-1", 0), 200)
}

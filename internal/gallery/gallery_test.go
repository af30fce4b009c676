package gallery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/fractalscape/internal/engine"
	"github.com/inamate/fractalscape/internal/scene"
	"github.com/inamate/fractalscape/internal/typeid"
)

func testConfig() scene.Config {
	cfg := scene.DefaultConfig()
	cfg.MountainEnd = 455
	cfg.ForegroundStart = 740
	cfg.SecondaryForegroundStart = 745
	cfg.ForegroundEnd = 760
	return cfg
}

func startServer(t *testing.T, fixedSeed uint64) (*Hub, string) {
	t.Helper()
	hub := NewHub(testConfig(), fixedSeed)
	go hub.Run()

	r := mux.NewRouter()
	r.HandleFunc("/ws/gallery/{roomId}", hub.ServeWS(nil))
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		hub.Stop()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	conn.SetReadLimit(64 << 20)
	t.Cleanup(func() { conn.CloseNow() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func writeMessage(t *testing.T, conn *websocket.Conn, msg Message) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	require.NoError(t, conn.Write(ctx, websocket.MessageText, data))
}

func decodeFrame(t *testing.T, msg Message) engine.Frame {
	t.Helper()
	require.Equal(t, TypeSceneFrame, msg.Type)
	var f engine.Frame
	require.NoError(t, json.Unmarshal(msg.Payload, &f))
	return f
}

func TestValidateRoomID(t *testing.T) {
	require.NoError(t, ValidateRoomID(LobbyRoom))
	require.NoError(t, ValidateRoomID(typeid.NewRoomID()))
	require.Error(t, ValidateRoomID(typeid.NewSceneID()))
	require.Error(t, ValidateRoomID("my room"))
}

func TestRejectsBadRoom(t *testing.T) {
	_, base := startServer(t, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, resp, err := websocket.Dial(ctx, base+"/ws/gallery/nope", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRoomSharesScene(t *testing.T) {
	hub, base := startServer(t, 42)
	url := base + "/ws/gallery/" + LobbyRoom

	a := dial(t, url)
	first := decodeFrame(t, readMessage(t, a))
	assert.Equal(t, uint64(42), first.Seed)
	assert.Equal(t, scene.KindScene, first.Kind)
	assert.NotEmpty(t, first.Commands)

	b := dial(t, url)
	second := decodeFrame(t, readMessage(t, b))
	assert.Equal(t, first.ID, second.ID)

	join := readMessage(t, a)
	require.Equal(t, TypeViewerJoin, join.Type)
	var viewer ViewerPayload
	require.NoError(t, json.Unmarshal(join.Payload, &viewer))
	assert.Equal(t, 2, viewer.Viewers)
	assert.Equal(t, 2, hub.Viewers(LobbyRoom))

	writeMessage(t, a, Message{Type: TypeSceneRegenerate, Payload: json.RawMessage(`{"seed":"7","kind":"showcase"}`)})
	for _, conn := range []*websocket.Conn{a, b} {
		f := decodeFrame(t, readMessage(t, conn))
		assert.Equal(t, uint64(7), f.Seed)
		assert.Equal(t, scene.KindShowcase, f.Kind)
		assert.NotEqual(t, first.ID, f.ID)
	}

	require.NoError(t, b.Close(websocket.StatusNormalClosure, ""))
	leave := readMessage(t, a)
	require.Equal(t, TypeViewerLeave, leave.Type)
	require.NoError(t, json.Unmarshal(leave.Payload, &viewer))
	assert.Equal(t, 1, viewer.Viewers)
}

func TestRegenerateErrorsGoToSender(t *testing.T) {
	_, base := startServer(t, 3)
	a := dial(t, base+"/ws/gallery/"+LobbyRoom)
	before := decodeFrame(t, readMessage(t, a))

	writeMessage(t, a, Message{Type: TypeSceneRegenerate, Payload: json.RawMessage(`{"kind":"forest"}`)})
	msg := readMessage(t, a)
	require.Equal(t, TypeError, msg.Type)
	var e ErrorPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &e))
	assert.Contains(t, e.Message, "forest")

	writeMessage(t, a, Message{Type: "scene.delete"})
	assert.Equal(t, TypeError, readMessage(t, a).Type)

	// Without a payload the fixed seed is reused.
	writeMessage(t, a, Message{Type: TypeSceneRegenerate})
	after := decodeFrame(t, readMessage(t, a))
	assert.Equal(t, before.Seed, after.Seed)
	assert.Equal(t, len(before.Commands), len(after.Commands))
}

func TestRoomsAreIndependent(t *testing.T) {
	_, base := startServer(t, 9)
	a := dial(t, base+"/ws/gallery/"+LobbyRoom)
	decodeFrame(t, readMessage(t, a))

	b := dial(t, base+"/ws/gallery/"+typeid.NewRoomID())
	decodeFrame(t, readMessage(t, b))

	writeMessage(t, b, Message{Type: TypeSceneRegenerate, Payload: json.RawMessage(`{"seed":"11"}`)})
	assert.Equal(t, uint64(11), decodeFrame(t, readMessage(t, b)).Seed)

	// a hears nothing from b's room; its next message is its own regeneration.
	writeMessage(t, a, Message{Type: TypeSceneRegenerate, Payload: json.RawMessage(`{"seed":"12"}`)})
	assert.Equal(t, uint64(12), decodeFrame(t, readMessage(t, a)).Seed)
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case data := <-c.send:
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(5 * time.Second):
		t.Fatalf("viewer %s received nothing", c.ViewerID)
		return Message{}
	}
}

func TestSlowFirstSceneDoesNotStallHub(t *testing.T) {
	hub := NewHub(testConfig(), 5)
	go hub.Run()
	defer hub.Stop()

	a := NewClient(hub, nil, typeid.NewViewerID(), LobbyRoom)
	hub.Register(a)
	decodeFrame(t, receive(t, a))

	hub.mu.RLock()
	lobby := hub.rooms[LobbyRoom]
	hub.mu.RUnlock()
	require.NotNil(t, lobby)

	// Hold the lobby engine so b's first scene cannot be produced yet.
	lobby.mu.Lock()
	b := NewClient(hub, nil, typeid.NewViewerID(), LobbyRoom)
	hub.Register(b)

	other := NewClient(hub, nil, typeid.NewViewerID(), typeid.NewRoomID())
	go hub.Register(other)
	assert.Equal(t, uint64(5), decodeFrame(t, receive(t, other)).Seed)
	hub.Unregister(other)
	assert.Eventually(t, func() bool { return hub.Viewers(other.RoomID) == 0 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 2, hub.Viewers(LobbyRoom))

	lobby.mu.Unlock()
	decodeFrame(t, receive(t, b))
	assert.Equal(t, TypeViewerJoin, receive(t, a).Type)

	hub.Unregister(a)
	hub.Unregister(b)
}

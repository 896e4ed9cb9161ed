package network

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"quizduel/internal/config"
)

type recordingHandler struct {
	connects    chan *Client
	disconnects chan string
	messages    chan Message
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{
		connects:    make(chan *Client, 16),
		disconnects: make(chan string, 16),
		messages:    make(chan Message, 16),
	}
}

func (h *recordingHandler) OnConnect(c *Client)              { h.connects <- c }
func (h *recordingHandler) OnDisconnect(c *Client)           { h.disconnects <- c.ID() }
func (h *recordingHandler) OnMessage(_ *Client, msg Message) { h.messages <- msg }

type testServer struct {
	hub     *Hub
	handler *recordingHandler
	http    *httptest.Server
	cancel  context.CancelFunc
	done    chan struct{}
}

func testServerConfig() config.ServerConfig {
	return config.ServerConfig{
		AllowedOrigins:  []string{"https://quiz.example.com"},
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		SendBuffer:      16,
		MaxMessageSize:  4096,
		WriteWait:       time.Second,
		PongWait:        time.Minute,
	}
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()
	log := zaptest.NewLogger(t).Sugar()

	ctx, cancel := context.WithCancel(context.Background())
	ts := &testServer{
		hub:     NewHub(log),
		handler: newRecordingHandler(),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go func() {
		defer close(ts.done)
		ts.hub.Run(ctx, ts.handler)
	}()

	srv := NewServer(testServerConfig(), ts.hub, log)
	srv.Router().HandleFunc("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	ts.http = httptest.NewServer(srv.Handler())

	t.Cleanup(func() {
		ts.http.Close()
		cancel()
		<-ts.done
	})
	return ts
}

func (ts *testServer) dial(t *testing.T) (*websocket.Conn, *Client) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.http.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	select {
	case c := <-ts.handler.connects:
		return conn, c
	case <-time.After(2 * time.Second):
		t.Fatal("OnConnect was not called")
		return nil, nil
	}
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestEmitReachesClient(t *testing.T) {
	ts := startTestServer(t)
	conn, client := ts.dial(t)
	require.NotEmpty(t, client.ID())
	assert.Equal(t, 1, ts.hub.Count())

	ts.hub.Emit(client.ID(), "pool-size-update", map[string]any{"tier": "novice", "count": 1})

	msg := readMessage(t, conn)
	assert.Equal(t, "pool-size-update", msg.Type)
	assert.JSONEq(t, `{"tier":"novice","count":1}`, string(msg.Payload))

	// conexão desconhecida é ignorada
	ts.hub.Emit("nobody", "pool-size-update", nil)
}

func TestClientMessagesReachHandler(t *testing.T) {
	ts := startTestServer(t)
	conn, _ := ts.dial(t)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"join-pool","payload":{"userId":"u1","tier":"advanced"}}`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`not json`)))

	select {
	case msg := <-ts.handler.messages:
		assert.Equal(t, "join-pool", msg.Type)
		var req struct {
			UserID string `json:"userId"`
			Tier   string `json:"tier"`
		}
		require.NoError(t, msg.Decode(&req))
		assert.Equal(t, "u1", req.UserID)
		assert.Equal(t, "advanced", req.Tier)
	case <-time.After(2 * time.Second):
		t.Fatal("message not dispatched")
	}

	select {
	case msg := <-ts.handler.messages:
		assert.Empty(t, msg.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("malformed frame not dispatched")
	}
}

func TestGroups(t *testing.T) {
	ts := startTestServer(t)
	connA, a := ts.dial(t)
	connB, b := ts.dial(t)

	ts.hub.JoinGroup("room-1", a.ID(), b.ID(), "gone")
	assert.ElementsMatch(t, []string{a.ID(), b.ID()}, ts.hub.Members("room-1"))

	ts.hub.EmitGroup("room-1", "state-sync", map[string]int{"x": 1})
	assert.Equal(t, "state-sync", readMessage(t, connA).Type)
	assert.Equal(t, "state-sync", readMessage(t, connB).Type)

	ts.hub.DropGroup("room-1")
	assert.Empty(t, ts.hub.Members("room-1"))
	ts.hub.EmitGroup("room-1", "state-sync", nil)

	// depois do drop, só o Emit direto chega
	ts.hub.Emit(a.ID(), "opponent-left", nil)
	assert.Equal(t, "opponent-left", readMessage(t, connA).Type)
}

func TestDisconnectUnregisters(t *testing.T) {
	ts := startTestServer(t)
	conn, client := ts.dial(t)
	ts.hub.JoinGroup("room-1", client.ID())

	require.NoError(t, conn.Close())

	select {
	case id := <-ts.handler.disconnects:
		assert.Equal(t, client.ID(), id)
	case <-time.After(2 * time.Second):
		t.Fatal("OnDisconnect was not called")
	}
	assert.Zero(t, ts.hub.Count())
	assert.Empty(t, ts.hub.Members("room-1"))

	// emitir para quem saiu não pode entrar em pânico
	ts.hub.Emit(client.ID(), "state-sync", nil)
	ts.hub.EmitGroup("room-1", "state-sync", nil)
}

func TestHubShutdownClosesClients(t *testing.T) {
	ts := startTestServer(t)
	conn, _ := ts.dial(t)

	ts.cancel()
	<-ts.done

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestOriginCheck(t *testing.T) {
	ts := startTestServer(t)
	url := "ws" + strings.TrimPrefix(ts.http.URL, "http") + "/ws"

	header := http.Header{"Origin": []string{"https://evil.example.com"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	header = http.Header{"Origin": []string{"https://quiz.example.com"}}
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	conn.Close()
}

func TestExtraRoutes(t *testing.T) {
	ts := startTestServer(t)

	resp, err := http.Get(ts.http.URL + "/ping")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/r3d91ll/scriptpdf/pkg/export"
)

func dialHub(t *testing.T) (*Hub, *websocket.Conn) {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	router := NewRouter()
	NewWebSocketHandler(hub).RegisterRoutes(router)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("Client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return hub, conn
}

func readMessage(t *testing.T, conn *websocket.Conn) WSMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Failed to decode message: %v", err)
	}
	return msg
}

func TestHub_RunAndStop(t *testing.T) {
	hub := NewHub()
	done := make(chan struct{})
	go func() {
		hub.Run()
		close(done)
	}()

	hub.Stop()
	hub.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("Hub.Run did not stop after Stop was called")
	}
}

func TestClient_Subscriptions(t *testing.T) {
	client := NewClient(NewHub(), nil)
	if !client.IsSubscribed(ChannelExports) {
		t.Error("Expected new clients to receive export events")
	}
	client.Unsubscribe(ChannelExports)
	if client.IsSubscribed(ChannelExports) {
		t.Error("Expected unsubscribe to take effect")
	}
}

func TestHub_PublishExportEvent(t *testing.T) {
	hub, conn := dialHub(t)

	hub.Publish(export.Event{
		Type:      export.EventCompleted,
		ProjectID: "p1",
		Backend:   "pdf",
		Pages:     4,
		Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	msg := readMessage(t, conn)
	if msg.Type != export.EventCompleted {
		t.Errorf("Expected %s, got %s", export.EventCompleted, msg.Type)
	}
	if msg.Timestamp != "2024-01-01T00:00:00Z" {
		t.Errorf("Unexpected timestamp %s", msg.Timestamp)
	}
	data, _ := msg.Data.(map[string]interface{})
	if data["projectId"] != "p1" || data["pages"] != float64(4) {
		t.Errorf("Unexpected event data %v", msg.Data)
	}
}

func TestClient_PingAndErrors(t *testing.T) {
	_, conn := dialHub(t)

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)); err != nil {
		t.Fatal(err)
	}
	if msg := readMessage(t, conn); msg.Type != MessagePong {
		t.Errorf("Expected pong, got %s", msg.Type)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`not json`)); err != nil {
		t.Fatal(err)
	}
	if msg := readMessage(t, conn); msg.Type != MessageError {
		t.Errorf("Expected error, got %s", msg.Type)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"subscribe"}`)); err != nil {
		t.Fatal(err)
	}
	if msg := readMessage(t, conn); msg.Type != MessageError {
		t.Errorf("Expected error for empty subscribe, got %s", msg.Type)
	}
}

func TestMakeOriginChecker(t *testing.T) {
	check := makeOriginChecker([]string{"http://app.example"})

	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://app.example", true},
		{"http://evil.example", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/api/ws", nil)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		if got := check(req); got != tt.want {
			t.Errorf("origin %q: expected %v, got %v", tt.origin, tt.want, got)
		}
	}

	if !makeOriginChecker([]string{"*"})(httptest.NewRequest(http.MethodGet, "/", nil)) {
		t.Error("Expected wildcard to allow everything")
	}
}

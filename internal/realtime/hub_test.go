package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestHubBroadcastsToConnectedClient(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := hub.ServeWS(w, r); err != nil {
			t.Errorf("serve ws failed: %v", err)
		}
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("client was not registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.Broadcast(Message{Type: "order.created", Data: map[string]interface{}{"order_number": "ORD0000000001"}})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read message failed: %v", err)
	}
	var msg struct {
		Type string                 `json:"type"`
		Data map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(payload, &msg); err != nil {
		t.Fatalf("decode message failed: %v", err)
	}
	if msg.Type != "order.created" || msg.Data["order_number"] != "ORD0000000001" {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://admin.example.com"})
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	if check(req) {
		t.Fatalf("unexpected origin should be rejected")
	}
	req.Header.Set("Origin", "https://admin.example.com")
	if !check(req) {
		t.Fatalf("allowed origin should pass")
	}
	if !originChecker([]string{"*"})(req) {
		t.Fatalf("wildcard should allow every origin")
	}
}

func TestBroadcastOnNilHubIsNoop(t *testing.T) {
	var hub *Hub
	hub.Broadcast(Message{Type: "noop"})
}

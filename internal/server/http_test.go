package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"tute/internal/config"
)

func newTestServer(t *testing.T) (*httptest.Server, *fixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := newFixture(t, config.Default())
	srv := httptest.NewServer(NewServer(f.reg, zap.NewNop()).Router())
	t.Cleanup(srv.Close)
	return srv, f
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// await reads messages until one of type typ arrives.
func await(t *testing.T, conn *websocket.Conn, typ string) ServerMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var msg ServerMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for %s: %v", typ, err)
		}
		if msg.Type == typ {
			return msg
		}
	}
}

func send(t *testing.T, conn *websocket.Conn, msg ClientMessage) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("unexpected health response %d %q", resp.StatusCode, body)
	}
}

func TestWebsocketCreateAndList(t *testing.T) {
	srv, _ := newTestServer(t)
	alice := dial(t, srv)
	send(t, alice, ClientMessage{Type: "register", Name: "alice"})
	await(t, alice, "registered")
	send(t, alice, ClientMessage{Type: "create_table", RequestID: "r1"})
	created := await(t, alice, "table_created")
	if created.Table != "alice" || created.RequestID != "r1" {
		t.Fatalf("unexpected table_created %+v", created)
	}

	resp, err := http.Get(srv.URL + "/tables")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	var tables []TableSummary
	if err := json.NewDecoder(resp.Body).Decode(&tables); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tables) != 1 || tables[0].ID != "alice" || tables[0].Status != "Queued" {
		t.Fatalf("unexpected listing %+v", tables)
	}

	resp2, err := http.Get(srv.URL + "/tables/nobody")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp2.StatusCode)
	}

	bob := dial(t, srv)
	send(t, bob, ClientMessage{Type: "register", Name: "bob"})
	await(t, bob, "registered")
	send(t, bob, ClientMessage{Type: "join_table", Table: "alice"})
	lobby := await(t, alice, "lobby")
	for len(lobby.Lobby.Players) != 2 {
		lobby = await(t, alice, "lobby")
	}
	if lobby.Lobby.Players[1] != "bob" {
		t.Fatalf("unexpected lobby %+v", lobby.Lobby)
	}
}

func TestWebsocketBadJSON(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dial(t, srv)
	if err := conn.WriteMessage(websocket.TextMessage, []byte("{")); err != nil {
		t.Fatalf("write: %v", err)
	}
	msg := await(t, conn, "error")
	if msg.Error.Code != "bad_request" {
		t.Fatalf("expected bad_request, got %+v", msg.Error)
	}
}

func TestCreateTableOverHTTP(t *testing.T) {
	srv, f := newTestServer(t)
	post := func(body string) *http.Response {
		resp, err := http.Post(srv.URL+"/tables", "application/json", bytes.NewBufferString(body))
		if err != nil {
			t.Fatalf("post: %v", err)
		}
		resp.Body.Close()
		return resp
	}
	if resp := post(`{}`); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if resp := post(`{"host":"dora"}`); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for an unregistered host, got %d", resp.StatusCode)
	}
	if err := f.reg.Players().Register("dora", &recorder{}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp := post(`{"host":"dora"}`); resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if resp := post(`{"host":"dora"}`); resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

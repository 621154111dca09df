package hostbridge

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		want    Message
		wantErr bool
	}{
		{name: "next", payload: `{"type":"FLIP_NEXT"}`, want: Message{Type: FlipNext}},
		{name: "prev", payload: `{"type":"FLIP_PREV"}`, want: Message{Type: FlipPrev}},
		{name: "jump", payload: `{"type":"JUMP_TO_SECTION","label":"Drinks"}`, want: Message{Type: JumpToSection, Label: "Drinks"}},
		{name: "jump without label", payload: `{"type":"JUMP_TO_SECTION"}`, wantErr: true},
		{name: "outbound type", payload: `{"type":"TOGGLE_CLOSE_BUTTON","show":true}`, wantErr: true},
		{name: "garbage", payload: `not json`, wantErr: true},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := Decode([]byte(tc.payload))
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got.Type != tc.want.Type || got.Label != tc.want.Label {
				t.Fatalf("Decode() = %+v, want %+v", got, tc.want)
			}
		})
	}

	if _, err := Decode([]byte(`{"type":"RELOAD"}`)); !errors.Is(err, ErrUnknownMessage) {
		t.Fatalf("expected ErrUnknownMessage, got %v", err)
	}
}

func TestCloseButtonEncodesShowFalse(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(CloseButton(false))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"type":"TOGGLE_CLOSE_BUTTON","show":false}` {
		t.Fatalf("unexpected payload %s", data)
	}
}

func TestHubPostWithoutClients(t *testing.T) {
	t.Parallel()

	hub := NewHub(nil)
	for i := 0; i < broadcastQueue*2; i++ {
		hub.Post(CloseButton(i%2 == 0))
	}
	if hub.Clients() != 0 {
		t.Fatalf("expected no clients")
	}
	hub.Close()
	hub.Close()
	hub.Post(CloseButton(true))
	if hub.Clients() != 0 {
		t.Fatalf("expected closed hub to report zero clients")
	}
}

func newTestServer(t *testing.T, origins []string) (*Hub, *httptest.Server, chan Message) {
	t.Helper()
	hub := NewHub(nil)
	commands := make(chan Message, 4)
	srv := New(Config{AllowedOrigins: origins}, hub,
		func() []Section { return []Section{{Label: "Drinks", Page: 2}, {Label: "Food", Page: 3}} },
		func(msg Message) { commands <- msg },
	)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		hub.Close()
	})
	return hub, ts, commands
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.Clients() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d clients, got %d", want, hub.Clients())
}

func TestHealthAndSections(t *testing.T) {
	t.Parallel()

	_, ts, _ := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/api/sections")
	if err != nil {
		t.Fatalf("GET /api/sections error = %v", err)
	}
	defer resp.Body.Close()
	var sections []Section
	if err := json.NewDecoder(resp.Body).Decode(&sections); err != nil {
		t.Fatalf("decoding sections: %v", err)
	}
	if len(sections) != 2 || sections[1] != (Section{Label: "Food", Page: 3}) {
		t.Fatalf("unexpected sections %#v", sections)
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	t.Parallel()

	_, ts, _ := newTestServer(t, []string{"https://harbour.example.com"})

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/sections", nil)
	req.Header.Set("Origin", "https://harbour.example.com")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request error = %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://harbour.example.com" {
		t.Fatalf("expected CORS header for allowed origin, got %q", got)
	}

	req, _ = http.NewRequest(http.MethodGet, ts.URL+"/api/sections", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request error = %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no CORS header for other origin, got %q", got)
	}
}

func dial(t *testing.T, ts *httptest.Server, origin string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	return websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", header)
}

func TestWebSocketBroadcastAndCommands(t *testing.T) {
	t.Parallel()

	hub, ts, commands := newTestServer(t, []string{"https://harbour.example.com"})

	conn, _, err := dial(t, ts, "https://harbour.example.com")
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()
	waitForClients(t, hub, 1)

	hub.Post(CloseButton(false))
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Message
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if got.Type != ToggleCloseButton || got.Show == nil || *got.Show {
		t.Fatalf("unexpected broadcast %+v", got)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"BOGUS"}`)); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}
	if err := conn.WriteJSON(Message{Type: JumpToSection, Label: "Drinks"}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	select {
	case cmd := <-commands:
		if cmd.Type != JumpToSection || cmd.Label != "Drinks" {
			t.Fatalf("unexpected command %+v", cmd)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected the jump command to be forwarded")
	}

	conn.Close()
	waitForClients(t, hub, 0)
}

func TestWebSocketRejectsForeignOrigin(t *testing.T) {
	t.Parallel()

	hub, ts, _ := newTestServer(t, []string{"https://harbour.example.com"})

	_, resp, err := dial(t, ts, "https://evil.example.com")
	if err == nil {
		t.Fatalf("expected handshake to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %+v", resp)
	}
	if hub.Clients() != 0 {
		t.Fatalf("expected no registered clients")
	}
}

func TestOriginAllowed(t *testing.T) {
	t.Parallel()

	if !originAllowed(nil, "https://a.example.com") {
		t.Fatalf("expected empty allow list to accept")
	}
	if !originAllowed([]string{"https://a.example.com"}, "") {
		t.Fatalf("expected missing origin to be accepted")
	}
	if originAllowed([]string{"https://a.example.com"}, "https://b.example.com") {
		t.Fatalf("expected foreign origin to be rejected")
	}
	if !originAllowed([]string{"*"}, "https://b.example.com") {
		t.Fatalf("expected wildcard to accept")
	}
}

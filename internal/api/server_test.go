package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Platopotato/TRIBES-sub000/internal/catalog"
	"github.com/Platopotato/TRIBES-sub000/internal/economy"
	"github.com/Platopotato/TRIBES-sub000/internal/engine"
	"github.com/Platopotato/TRIBES-sub000/internal/entropy"
	"github.com/Platopotato/TRIBES-sub000/internal/persistence"
)

const testKey = "secret"

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	cat := catalog.Default()
	opts := engine.DefaultGameOptions()
	opts.Seed = 11
	opts.Radius = 8
	opts.Tribes = 2
	opts.AITribes = 0
	state, err := engine.NewGame(opts, cat)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	s := &Server{
		Runner:      engine.NewRunner(engine.NewProcessor(cat, entropy.NewSource(1)), state),
		SnapshotDir: t.TempDir(),
		AdminKey:    testKey,
		Limiter:     NewRateLimiter(100, 100),
		Hub:         NewHub(),
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func post(t *testing.T, url, key, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestSubmitQueuesOrders(t *testing.T) {
	s, ts := newTestServer(t)
	body := `{"actions":[{"action_type":"SetRations","action_data":{"ration_level":"Hard"}}]}`

	resp := post(t, ts.URL+"/api/v1/tribe/tribe-1/actions", "", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var queued int
	var submitted bool
	s.Runner.View(func(g *engine.GameState) {
		tr := g.Tribe("tribe-1")
		queued = len(tr.Actions)
		submitted = tr.TurnSubmitted
		if queued == 1 && tr.Actions[0].ID == "" {
			t.Errorf("expected queued action to get an id")
		}
	})
	if queued != 1 || !submitted {
		t.Fatalf("expected 1 queued action and submitted flag, got %d, %v", queued, submitted)
	}
}

func TestSubmitErrors(t *testing.T) {
	_, ts := newTestServer(t)
	cases := []struct {
		name  string
		tribe string
		body  string
		want  int
	}{
		{"invalid batch", "tribe-1", `{"actions":[{"action_type":"Teleport","action_data":{}}]}`, http.StatusBadRequest},
		{"unknown tribe", "tribe-99", `{"actions":[]}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := post(t, ts.URL+"/api/v1/tribe/"+tc.tribe+"/actions", "", tc.body)
			if resp.StatusCode != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.StatusCode)
			}
		})
	}
}

func TestSubmitRateLimited(t *testing.T) {
	s, _ := newTestServer(t)
	s.Limiter = NewRateLimiter(0.001, 1)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := ts.URL + "/api/v1/tribe/tribe-1/actions"
	if resp := post(t, url, "", `{"actions":[]}`); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected first request 200, got %d", resp.StatusCode)
	}
	resp := post(t, url, "", `{"actions":[]}`)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
}

func TestAdminTurnRequiresKey(t *testing.T) {
	s, ts := newTestServer(t)

	if resp := post(t, ts.URL+"/api/v1/turn", "", ""); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", resp.StatusCode)
	}
	if resp := post(t, ts.URL+"/api/v1/turn", "wrong", ""); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong key, got %d", resp.StatusCode)
	}

	resp := post(t, ts.URL+"/api/v1/turn", testKey, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var st engine.Stats
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if st.Turn != 2 || s.Runner.Stats().Turn != 2 {
		t.Fatalf("expected turn 2, got %d", st.Turn)
	}
}

func TestAdminDisabledWithoutKey(t *testing.T) {
	s, ts := newTestServer(t)
	s.AdminKey = ""
	if resp := post(t, ts.URL+"/api/v1/snapshot", "", ""); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestSnapshotWritesFile(t *testing.T) {
	s, ts := newTestServer(t)
	resp := post(t, ts.URL+"/api/v1/snapshot", testKey, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		File string `json:"file"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	h, err := persistence.ReadSnapshotHeader(body.File)
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	if h.Turn != s.Runner.Stats().Turn || h.Tribes != 2 {
		t.Fatalf("unexpected header %+v", h)
	}
}

func TestObservationEndpoints(t *testing.T) {
	_, ts := newTestServer(t)
	for _, path := range []string{"/api/v1/status", "/api/v1/tribes", "/api/v1/tribe/tribe-2", "/api/v1/journeys", "/api/v1/history", "/api/v1/map", "/api/v1/map?tribe=tribe-1"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.StatusCode)
		}
	}

	resp, err := http.Get(ts.URL + "/api/v1/tribe/nobody")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestTribeReportsRationChange(t *testing.T) {
	s, ts := newTestServer(t)
	body := `{"actions":[{"action_type":"SetRations","action_data":{"ration_level":"Generous"}}]}`
	post(t, ts.URL+"/api/v1/tribe/tribe-1/actions", "", body)
	if _, err := s.Runner.Advance(context.Background()); err != nil {
		t.Fatalf("advance: %v", err)
	}

	resp, err := http.Get(ts.URL + "/api/v1/tribe/tribe-1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var tr struct {
		RationLevel economy.RationLevel `json:"ration_level"`
		Results     []json.RawMessage   `json:"last_turn_results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		t.Fatal(err)
	}
	if tr.RationLevel != economy.RationGenerous {
		t.Fatalf("expected Generous rations, got %q", tr.RationLevel)
	}
	if len(tr.Results) == 0 {
		t.Fatalf("expected turn results")
	}
}

func TestStreamBroadcastsTurns(t *testing.T) {
	s, ts := newTestServer(t)
	s.Runner.OnTurn(func(_ context.Context, g *engine.GameState) {
		s.Hub.Broadcast(TurnEvent{Type: "turn", Turn: g.Turn, Stats: g.Summarize()})
	})

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for s.Hub.Watchers() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("watcher never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if _, err := s.Runner.Advance(context.Background()); err != nil {
		t.Fatalf("advance: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev TurnEvent
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if ev.Type != "turn" || ev.Turn != 2 {
		t.Fatalf("expected turn event for turn 2, got %+v", ev)
	}
}

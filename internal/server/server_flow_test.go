package server

import (
	"net/http"
	"testing"
)

func TestCreateAndJoinRoom(t *testing.T) {
	ts := newTestServer(t)

	code := createRoom(t, ts, "host-1", "Ada")
	if len(code) != 6 {
		t.Fatalf("expected 6-character room code, got %q", code)
	}
	joinPlayer(t, ts, code, "player-2", "Ben")
	joinPlayer(t, ts, code, "player-3", "Cleo")

	snapshot := fetchSnapshot(t, ts, code)
	if status := roomStatus(t, snapshot); status != "waiting" {
		t.Fatalf("expected waiting status, got %s", status)
	}
	players := snapshot["players"].([]any)
	if len(players) != 3 {
		t.Fatalf("expected 3 players, got %d", len(players))
	}
}

func TestJoinRejectsBlankName(t *testing.T) {
	ts := newTestServer(t)

	code := createRoom(t, ts, "host-1", "Ada")
	resp := doRequest(t, ts, http.MethodPost, "/api/rooms/"+code+"/join", map[string]string{
		"player_id": "player-2",
		"name":      "   ",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestArrangeRequiresHost(t *testing.T) {
	ts := newTestServer(t)

	code := createRoom(t, ts, "host-1", "Ada")
	joinPlayer(t, ts, code, "player-2", "Ben")

	resp := doRequest(t, ts, http.MethodPost, "/api/rooms/"+code+"/arrange", map[string]string{
		"player_id": "player-2",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected status %d, got %d", http.StatusForbidden, resp.StatusCode)
	}
	snapshot := fetchSnapshot(t, ts, code)
	if status := roomStatus(t, snapshot); status != "waiting" {
		t.Fatalf("rejected command must not change status, got %s", status)
	}
}

func TestFullGameFlow(t *testing.T) {
	ts := newTestServer(t)

	code := createRoom(t, ts, "host-1", "Ada")
	joinPlayer(t, ts, code, "player-2", "Ben")
	joinPlayer(t, ts, code, "player-3", "Cleo")

	resp := doRequest(t, ts, http.MethodPost, "/api/rooms/"+code+"/arrange", map[string]string{
		"player_id": "host-1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("arrange: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	resp = doRequest(t, ts, http.MethodPost, "/api/rooms/"+code+"/selection", map[string]any{
		"player_id":  "host-1",
		"player_ids": []string{"host-1", "player-2", "player-3"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("selection: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	resp = doRequest(t, ts, http.MethodPost, "/api/rooms/"+code+"/start", map[string]any{
		"player_id":    "host-1",
		"word_mode":    "custom",
		"word":         "Lighthouse",
		"spy_count":    1,
		"total_rounds": 2,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	snapshot := fetchSnapshot(t, ts, code)
	if status := roomStatus(t, snapshot); status != "started" {
		t.Fatalf("expected started status, got %s", status)
	}
	info := snapshot["info"].(map[string]any)
	turnOrder := make([]string, 0, 3)
	for _, id := range info["turn_order"].([]any) {
		turnOrder = append(turnOrder, id.(string))
	}
	if len(turnOrder) != 3 {
		t.Fatalf("expected 3 players in turn order, got %d", len(turnOrder))
	}

	spyID := ""
	for _, raw := range snapshot["players"].([]any) {
		player := raw.(map[string]any)
		if player["role"] == "spy" {
			spyID = player["id"].(string)
		}
	}
	if spyID == "" {
		t.Fatalf("expected one spy to be assigned")
	}
	if spyID == "host-1" {
		t.Fatalf("custom word mode must not make the host a spy")
	}

	for round := 1; round <= 2; round++ {
		for _, playerID := range turnOrder {
			resp = doRequest(t, ts, http.MethodPost, "/api/rooms/"+code+"/clues", map[string]string{
				"player_id": playerID,
				"word":      "clue",
			})
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("clue round %d player %s: expected status %d, got %d", round, playerID, http.StatusOK, resp.StatusCode)
			}
		}
	}

	snapshot = fetchSnapshot(t, ts, code)
	if status := roomStatus(t, snapshot); status != "guess-ready" {
		t.Fatalf("expected guess-ready after final clue, got %s", status)
	}

	for _, playerID := range turnOrder {
		resp = doRequest(t, ts, http.MethodPost, "/api/rooms/"+code+"/votes", map[string]any{
			"player_id": playerID,
			"votes":     []string{spyID},
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("votes player %s: expected status %d, got %d", playerID, http.StatusOK, resp.StatusCode)
		}
	}

	resp = doRequest(t, ts, http.MethodPost, "/api/rooms/"+code+"/finish-voting", map[string]any{
		"player_id": "host-1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("finish-voting: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	snapshot = fetchSnapshot(t, ts, code)
	if status := roomStatus(t, snapshot); status != "result" {
		t.Fatalf("expected result status, got %s", status)
	}
	info = snapshot["info"].(map[string]any)
	guessed := info["guessed_spy_ids"].([]any)
	if len(guessed) != 1 || guessed[0].(string) != spyID {
		t.Fatalf("expected guessed spy %s, got %v", spyID, guessed)
	}

	view := fetchView(t, ts, code, spyID)
	if _, ok := view["word"]; ok {
		t.Fatalf("spy must not see the word before reveal")
	}

	resp = doRequest(t, ts, http.MethodPost, "/api/rooms/"+code+"/reveal", map[string]string{
		"player_id": "host-1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reveal: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	view = fetchView(t, ts, code, spyID)
	if view["word"] != "Lighthouse" {
		t.Fatalf("expected revealed word for spy, got %v", view["word"])
	}

	resp = doRequest(t, ts, http.MethodPost, "/api/rooms/"+code+"/end", map[string]string{
		"player_id": "host-1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("end: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	snapshot = fetchSnapshot(t, ts, code)
	if status := roomStatus(t, snapshot); status != "waiting" {
		t.Fatalf("expected waiting after end, got %s", status)
	}
	info = snapshot["info"].(map[string]any)
	if word, ok := info["word"].(string); ok && word != "" {
		t.Fatalf("expected word cleared after end, got %q", word)
	}
}

func TestClueOutOfTurn(t *testing.T) {
	ts := newTestServer(t)

	code := createRoom(t, ts, "host-1", "Ada")
	joinPlayer(t, ts, code, "player-2", "Ben")
	doRequest(t, ts, http.MethodPost, "/api/rooms/"+code+"/arrange", map[string]string{
		"player_id": "host-1",
	})
	doRequest(t, ts, http.MethodPost, "/api/rooms/"+code+"/selection", map[string]any{
		"player_id":  "host-1",
		"player_ids": []string{"host-1", "player-2"},
	})
	doRequest(t, ts, http.MethodPost, "/api/rooms/"+code+"/start", map[string]any{
		"player_id": "host-1",
		"word_mode": "custom",
		"word":      "Glacier",
	})

	snapshot := fetchSnapshot(t, ts, code)
	info := snapshot["info"].(map[string]any)
	turnOrder := info["turn_order"].([]any)
	notMyTurn := turnOrder[1].(string)

	resp := doRequest(t, ts, http.MethodPost, "/api/rooms/"+code+"/clues", map[string]string{
		"player_id": notMyTurn,
		"word":      "early",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, resp.StatusCode)
	}
}

func TestKickDuringGameRejected(t *testing.T) {
	ts := newTestServer(t)

	code := createRoom(t, ts, "host-1", "Ada")
	joinPlayer(t, ts, code, "player-2", "Ben")
	doRequest(t, ts, http.MethodPost, "/api/rooms/"+code+"/arrange", map[string]string{
		"player_id": "host-1",
	})
	doRequest(t, ts, http.MethodPost, "/api/rooms/"+code+"/selection", map[string]any{
		"player_id":  "host-1",
		"player_ids": []string{"host-1", "player-2"},
	})
	doRequest(t, ts, http.MethodPost, "/api/rooms/"+code+"/start", map[string]any{
		"player_id": "host-1",
		"word_mode": "custom",
		"word":      "Glacier",
	})

	resp := doRequest(t, ts, http.MethodPost, "/api/rooms/"+code+"/kick", map[string]string{
		"player_id": "host-1",
		"target_id": "player-2",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, resp.StatusCode)
	}
}

func TestUnknownRoomReturnsNotFound(t *testing.T) {
	ts := newTestServer(t)

	resp := doRequest(t, ts, http.MethodGet, "/api/rooms/ZZZZZZ", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chessline/chessline-backend/internal/middleware"
	"github.com/chessline/chessline-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func newTestApp() *fiber.App {
	gameManager := service.NewGameManager(time.Minute)
	gameService := service.NewGameService(gameManager)
	gameController := NewGameController(gameService)

	app := fiber.New()
	api := app.Group("/api", middleware.EnsurePlayerID())
	gameRoutes := api.Group("/game")
	gameRoutes.Post("/matchmaking/join", gameController.JoinMatchmaking)
	gameRoutes.Get("/matchmaking/events", gameController.MatchmakingEvents)
	gameRoutes.Post("/create", gameController.CreateGame)
	gameRoutes.Post("/join/:gameId", gameController.JoinGame)
	gameRoutes.Get("/:gameId", gameController.GetGameState)
	gameRoutes.Get("/:gameId/moves/:square", gameController.GetLegalMoves)
	gameRoutes.Post("/:gameId/move", gameController.MakeMove)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, playerID string, body any, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if playerID != "" {
		req.Header.Set("X-Player-ID", playerID)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response of %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func createGame(t *testing.T, app *fiber.App) string {
	t.Helper()
	var created struct {
		GameID string `json:"game_id"`
	}
	if code := doJSON(t, app, http.MethodPost, "/api/game/create", "alice", nil, &created); code != http.StatusOK {
		t.Fatalf("create game: status %d", code)
	}
	if created.GameID == "" {
		t.Fatal("create game returned no ID")
	}
	return created.GameID
}

func TestMissingPlayerIDIsUnauthorized(t *testing.T) {
	app := newTestApp()
	if code := doJSON(t, app, http.MethodPost, "/api/game/create", "", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", code)
	}
}

func TestGameLifecycleOverREST(t *testing.T) {
	app := newTestApp()
	gameID := createGame(t, app)

	var joined struct {
		Color string `json:"color"`
	}
	if code := doJSON(t, app, http.MethodPost, "/api/game/join/"+gameID, "alice", nil, &joined); code != http.StatusOK {
		t.Fatalf("join as alice: status %d", code)
	}
	if joined.Color != "white" {
		t.Fatalf("alice color = %q, want white", joined.Color)
	}
	if code := doJSON(t, app, http.MethodPost, "/api/game/join/"+gameID, "bob", nil, &joined); code != http.StatusOK {
		t.Fatalf("join as bob: status %d", code)
	}
	if joined.Color != "black" {
		t.Fatalf("bob color = %q, want black", joined.Color)
	}
	if code := doJSON(t, app, http.MethodPost, "/api/game/join/"+gameID, "carol", nil, nil); code != http.StatusConflict {
		t.Fatalf("join full game: status %d, want 409", code)
	}

	var state struct {
		FEN    string `json:"fen"`
		ToMove string `json:"toMove"`
	}
	if code := doJSON(t, app, http.MethodGet, "/api/game/"+gameID, "alice", nil, &state); code != http.StatusOK {
		t.Fatalf("get state: status %d", code)
	}
	if want := "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"; state.FEN != want {
		t.Fatalf("initial FEN = %q, want %q", state.FEN, want)
	}

	var moves struct {
		Moves []string `json:"moves"`
	}
	if code := doJSON(t, app, http.MethodGet, "/api/game/"+gameID+"/moves/e2", "alice", nil, &moves); code != http.StatusOK {
		t.Fatalf("get moves: status %d", code)
	}
	sorted := cmpopts.SortSlices(func(a, b string) bool { return a < b })
	if diff := cmp.Diff([]string{"e3", "e4"}, moves.Moves, sorted); diff != "" {
		t.Fatalf("e2 moves mismatch (-want +got):\n%s", diff)
	}

	move := map[string]string{"from": "e2", "to": "e4"}
	if code := doJSON(t, app, http.MethodPost, "/api/game/"+gameID+"/move", "alice", move, nil); code != http.StatusOK {
		t.Fatalf("legal move: status %d", code)
	}

	if code := doJSON(t, app, http.MethodGet, "/api/game/"+gameID, "alice", nil, &state); code != http.StatusOK {
		t.Fatalf("get state after move: status %d", code)
	}
	if state.ToMove != "black" {
		t.Fatalf("toMove = %q, want black", state.ToMove)
	}
}

func TestMoveRejections(t *testing.T) {
	app := newTestApp()
	gameID := createGame(t, app)
	doJSON(t, app, http.MethodPost, "/api/game/join/"+gameID, "alice", nil, nil)
	doJSON(t, app, http.MethodPost, "/api/game/join/"+gameID, "bob", nil, nil)

	tests := []struct {
		name     string
		playerID string
		move     map[string]string
		want     int
	}{
		{
			name:     "illegal destination",
			playerID: "alice",
			move:     map[string]string{"from": "e2", "to": "e5"},
			want:     http.StatusUnprocessableEntity,
		},
		{
			name:     "out of turn",
			playerID: "bob",
			move:     map[string]string{"from": "e7", "to": "e5"},
			want:     http.StatusUnprocessableEntity,
		},
		{
			name:     "not seated",
			playerID: "carol",
			move:     map[string]string{"from": "e2", "to": "e4"},
			want:     http.StatusForbidden,
		},
		{
			name:     "malformed square",
			playerID: "alice",
			move:     map[string]string{"from": "e9", "to": "e4"},
			want:     http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := doJSON(t, app, http.MethodPost, "/api/game/"+gameID+"/move", tt.playerID, tt.move, nil); code != tt.want {
				t.Fatalf("status = %d, want %d", code, tt.want)
			}
		})
	}

	// None of the rejections may have advanced the game, and the seats must
	// still carry the original IDs: a seat that aliased a recycled request
	// buffer would have been rewritten by the later requests above.
	var state struct {
		FEN     string `json:"fen"`
		Players struct {
			White struct {
				Name string `json:"name"`
			} `json:"white"`
			Black struct {
				Name string `json:"name"`
			} `json:"black"`
		} `json:"players"`
	}
	doJSON(t, app, http.MethodGet, "/api/game/"+gameID, "alice", nil, &state)
	if want := "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"; state.FEN != want {
		t.Fatalf("FEN after rejections = %q, want starting position", state.FEN)
	}
	if state.Players.White.Name != "alice" || state.Players.Black.Name != "bob" {
		t.Fatalf("seats corrupted: white=%q black=%q, want alice/bob",
			state.Players.White.Name, state.Players.Black.Name)
	}
}

func TestMatchmakingDeliversOverEvents(t *testing.T) {
	app := newTestApp()

	type matchEvent struct {
		GameID string `json:"gameId"`
		Color  string `json:"color"`
	}
	type pollResult struct {
		playerID string
		status   int
		event    matchEvent
		err      error
	}
	results := make(chan pollResult, 2)
	for _, playerID := range []string{"alice", "bob"} {
		playerID := playerID
		go func() {
			req := httptest.NewRequest(http.MethodGet, "/api/game/matchmaking/events", nil)
			req.Header.Set("X-Player-ID", playerID)
			resp, err := app.Test(req, 10000)
			if err != nil {
				results <- pollResult{playerID: playerID, err: err}
				return
			}
			defer resp.Body.Close()
			r := pollResult{playerID: playerID, status: resp.StatusCode}
			if err := json.NewDecoder(resp.Body).Decode(&r.event); err != nil {
				r.err = err
			}
			results <- r
		}()
	}

	// Both listeners must be registered before the queue can pair them.
	time.Sleep(100 * time.Millisecond)
	for _, playerID := range []string{"alice", "bob"} {
		if code := doJSON(t, app, http.MethodPost, "/api/game/matchmaking/join", playerID, nil, nil); code != http.StatusOK {
			t.Fatalf("join matchmaking as %s: status %d", playerID, code)
		}
	}

	events := make(map[string]matchEvent, 2)
	for i := 0; i < 2; i++ {
		r := <-results
		if r.err != nil {
			t.Fatalf("events poll for %s: %v", r.playerID, r.err)
		}
		if r.status != http.StatusOK {
			t.Fatalf("events poll for %s: status %d", r.playerID, r.status)
		}
		events[r.playerID] = r.event
	}

	alice, bob := events["alice"], events["bob"]
	if alice.GameID == "" || alice.GameID != bob.GameID {
		t.Fatalf("game IDs diverge: %q vs %q", alice.GameID, bob.GameID)
	}
	if alice.Color == bob.Color {
		t.Fatalf("both players assigned %s", alice.Color)
	}

	var state struct {
		ToMove string `json:"toMove"`
	}
	if code := doJSON(t, app, http.MethodGet, "/api/game/"+alice.GameID, "alice", nil, &state); code != http.StatusOK {
		t.Fatalf("paired game not reachable: status %d", code)
	}
	if state.ToMove != "white" {
		t.Fatalf("paired game toMove = %q, want white", state.ToMove)
	}
}

func TestUnknownGameIsNotFound(t *testing.T) {
	app := newTestApp()
	if code := doJSON(t, app, http.MethodGet, "/api/game/no-such-game", "alice", nil, nil); code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", code)
	}
	if code := doJSON(t, app, http.MethodPost, "/api/game/join/no-such-game", "alice", nil, nil); code != http.StatusNotFound {
		t.Fatalf("join status = %d, want 404", code)
	}
}

package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/chessline/chessline-backend/internal/model"
)

func waitForMatch(t *testing.T, ch chan string) model.MatchFoundEvent {
	t.Helper()
	select {
	case payload, ok := <-ch:
		if !ok {
			t.Fatal("match channel closed without an event")
		}
		var event model.MatchFoundEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			t.Fatalf("decode match event: %v", err)
		}
		return event
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a match event")
	}
	return model.MatchFoundEvent{}
}

func TestMatchmakingPairsAndNotifies(t *testing.T) {
	gm := NewGameManager(time.Minute)

	ch1 := make(chan string, 1)
	ch2 := make(chan string, 1)
	if err := gm.RegisterMatchmakingChannel("p1", ch1); err != nil {
		t.Fatalf("register p1: %v", err)
	}
	if err := gm.RegisterMatchmakingChannel("p2", ch2); err != nil {
		t.Fatalf("register p2: %v", err)
	}
	if err := gm.JoinMatchmaking("p1"); err != nil {
		t.Fatalf("queue p1: %v", err)
	}
	if err := gm.JoinMatchmaking("p2"); err != nil {
		t.Fatalf("queue p2: %v", err)
	}

	event1 := waitForMatch(t, ch1)
	event2 := waitForMatch(t, ch2)

	if event1.GameID == "" || event1.GameID != event2.GameID {
		t.Fatalf("game IDs diverge: %q vs %q", event1.GameID, event2.GameID)
	}
	if event1.Color == event2.Color {
		t.Fatalf("both players seated as %s", event1.Color)
	}

	game, err := gm.GetGame(event1.GameID)
	if err != nil {
		t.Fatalf("paired game not registered: %v", err)
	}
	if !game.IsPlayerInGame("p1") || !game.IsPlayerInGame("p2") {
		t.Fatal("paired players are not seated in the game")
	}
}

func TestRegisterMatchmakingChannelReplacesListener(t *testing.T) {
	gm := NewGameManager(time.Minute)

	old := make(chan string, 1)
	if err := gm.RegisterMatchmakingChannel("p1", old); err != nil {
		t.Fatalf("register: %v", err)
	}
	replacement := make(chan string, 1)
	if err := gm.RegisterMatchmakingChannel("p1", replacement); err != nil {
		t.Fatalf("re-register: %v", err)
	}

	select {
	case _, ok := <-old:
		if ok {
			t.Fatal("old channel received an event instead of being closed")
		}
	default:
		t.Fatal("old channel was not closed on replacement")
	}

	// A stale listener cleaning up must not evict the replacement.
	gm.UnregisterMatchmakingChannel("p1", old)
	gm.mu.Lock()
	current := gm.matchingChannels["p1"]
	gm.mu.Unlock()
	if current != replacement {
		t.Fatal("replacement channel evicted by a stale unregister")
	}

	gm.UnregisterMatchmakingChannel("p1", replacement)
	gm.mu.Lock()
	_, still := gm.matchingChannels["p1"]
	gm.mu.Unlock()
	if still {
		t.Fatal("matching unregister left the channel registered")
	}
}

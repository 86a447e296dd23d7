package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func newTestLeaderboard(t *testing.T) (*Leaderboard, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewLeaderboard(client, "trivia:leaderboard"), srv
}

func TestLeaderboardAccumulatesScores(t *testing.T) {
	lb, srv := newTestLeaderboard(t)
	ctx := context.Background()

	for _, add := range []struct {
		id    int64
		name  string
		score int
	}{
		{1, "@alice", 3},
		{2, "@bob", 4},
		{1, "@alice", 2},
		{3, "", 1},
	} {
		if err := lb.Add(ctx, add.id, add.name, add.score); err != nil {
			t.Fatalf("add %d: %v", add.id, err)
		}
	}

	if score, err := srv.ZScore("trivia:leaderboard", "1"); err != nil || score != 5 {
		t.Fatalf("expected total 5 for user 1, got %v (%v)", score, err)
	}
	if name := srv.HGet("trivia:leaderboard:names", "2"); name != "@bob" {
		t.Fatalf("expected name @bob, got %q", name)
	}

	top, err := lb.Top(ctx, 2)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 entries, got %+v", top)
	}
	if top[0].UserID != 1 || top[0].TotalScore != 5 || top[0].DisplayName != "@alice" {
		t.Fatalf("unexpected first entry %+v", top[0])
	}
	if top[1].UserID != 2 || top[1].TotalScore != 4 {
		t.Fatalf("unexpected second entry %+v", top[1])
	}

	all, err := lb.Top(ctx, 10)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(all) != 3 || all[2].UserID != 3 || all[2].DisplayName != "" {
		t.Fatalf("expected nameless user last, got %+v", all)
	}
}

func TestLeaderboardRemove(t *testing.T) {
	lb, srv := newTestLeaderboard(t)
	ctx := context.Background()

	if err := lb.Add(ctx, 1, "@alice", 3); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := lb.Add(ctx, 2, "@bob", 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := lb.Remove(ctx, 1); err != nil {
		t.Fatalf("remove: %v", err)
	}

	top, err := lb.Top(ctx, 10)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 1 || top[0].UserID != 2 {
		t.Fatalf("expected only user 2 left, got %+v", top)
	}
	if name := srv.HGet("trivia:leaderboard:names", "1"); name != "" {
		t.Fatalf("expected name of user 1 to be dropped, got %q", name)
	}
}

func TestLeaderboardEmptyAndFailure(t *testing.T) {
	lb, srv := newTestLeaderboard(t)
	ctx := context.Background()

	top, err := lb.Top(ctx, 5)
	if err != nil || len(top) != 0 {
		t.Fatalf("expected empty board, got %+v (%v)", top, err)
	}
	if top, err := lb.Top(ctx, 0); err != nil || top != nil {
		t.Fatalf("expected nil for n=0, got %+v (%v)", top, err)
	}

	srv.SetError("LOADING server is loading")
	if err := lb.Add(ctx, 1, "@alice", 1); err == nil {
		t.Fatalf("expected add to fail")
	}
}

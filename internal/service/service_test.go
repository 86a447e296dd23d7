package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-bot/internal/infra/postgres/repository"
)

var errBoom = errors.New("boom")

type fakeUsers struct {
	saved   []*entities.User
	exists  bool
	err     error
	byID    *entities.User
	findErr error
}

func (f *fakeUsers) Save(_ context.Context, u *entities.User) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.saved = append(f.saved, u)
	return !f.exists, nil
}

func (f *fakeUsers) GetByID(_ context.Context, _ int64) (*entities.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.byID == nil {
		return nil, repository.ErrUserNotFound
	}
	return f.byID, nil
}

type fakeResults struct {
	stats  *entities.QuizStats
	recent int
	err    error
}

func (f *fakeResults) GetStats(_ context.Context, _ int64, recent int) (*entities.QuizStats, error) {
	f.recent = recent
	return f.stats, f.err
}

type fakeBoard struct {
	added   map[int64]int
	names   map[int64]string
	removed []int64
	err     error
}

func newFakeBoard() *fakeBoard {
	return &fakeBoard{added: map[int64]int{}, names: map[int64]string{}}
}

func (f *fakeBoard) Add(_ context.Context, userID int64, name string, score int) error {
	if f.err != nil {
		return f.err
	}
	f.added[userID] += score
	f.names[userID] = name
	return nil
}

func (f *fakeBoard) Top(_ context.Context, n int) ([]entities.LeaderboardEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []entities.LeaderboardEntry
	for id, score := range f.added {
		out = append(out, entities.LeaderboardEntry{UserID: id, DisplayName: f.names[id], TotalScore: score})
	}
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (f *fakeBoard) Remove(_ context.Context, userID int64) error {
	f.removed = append(f.removed, userID)
	return f.err
}

// fakeTx reports err without running fn, standing in for a committed or
// rolled back transaction.
type fakeTx struct {
	err   error
	calls int
}

func (f *fakeTx) WithinTx(_ context.Context, _ func(ctx context.Context, tx pgx.Tx) error) error {
	f.calls++
	return f.err
}

func TestEnsureUserReportsNewUsers(t *testing.T) {
	repo := &fakeUsers{}
	svc := NewUserService(repo)

	created, err := svc.EnsureUser(context.Background(), 7, 70, "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatalf("expected a new user")
	}
	if len(repo.saved) != 1 || repo.saved[0].ChatID != 70 || repo.saved[0].Username != "alice" {
		t.Fatalf("unexpected saved users: %+v", repo.saved)
	}

	repo.exists = true
	created, err = svc.EnsureUser(context.Background(), 7, 70, "alice")
	if err != nil || created {
		t.Fatalf("expected existing user, got created=%v err=%v", created, err)
	}
}

func TestEnsureUserPropagatesErrors(t *testing.T) {
	svc := NewUserService(&fakeUsers{err: errBoom})

	if _, err := svc.EnsureUser(context.Background(), 1, 1, ""); !errors.Is(err, errBoom) {
		t.Fatalf("expected errBoom, got %v", err)
	}
}

func TestRecordAddsScoreToLeaderboard(t *testing.T) {
	board := newFakeBoard()
	tx := &fakeTx{}
	svc := NewResultService(tx, &fakeUsers{}, &fakeResults{}, board, zap.NewNop())

	user := entities.NewUser(7, 70, "alice")
	if err := svc.Record(context.Background(), user, entities.NewQuizResult(7, 0, 3, 5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tx.calls != 1 {
		t.Fatalf("expected one transaction, got %d", tx.calls)
	}
	if board.added[7] != 3 || board.names[7] != "@alice" {
		t.Fatalf("unexpected leaderboard: %v %v", board.added, board.names)
	}
}

func TestRecordSkipsLeaderboardWhenStoreFails(t *testing.T) {
	board := newFakeBoard()
	svc := NewResultService(&fakeTx{err: errBoom}, &fakeUsers{}, &fakeResults{}, board, zap.NewNop())

	err := svc.Record(context.Background(), entities.NewUser(7, 70, ""), entities.NewQuizResult(7, 0, 3, 5))
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected errBoom, got %v", err)
	}
	if len(board.added) != 0 {
		t.Fatalf("leaderboard must not change when the result is not stored")
	}
}

func TestRecordIgnoresLeaderboardFailure(t *testing.T) {
	board := newFakeBoard()
	board.err = errBoom
	svc := NewResultService(&fakeTx{}, &fakeUsers{}, &fakeResults{}, board, zap.NewNop())

	if err := svc.Record(context.Background(), entities.NewUser(7, 70, ""), entities.NewQuizResult(7, 0, 1, 5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRecordWithoutLeaderboard(t *testing.T) {
	svc := NewResultService(&fakeTx{}, &fakeUsers{}, &fakeResults{}, nil, zap.NewNop())

	if err := svc.Record(context.Background(), entities.NewUser(7, 70, ""), entities.NewQuizResult(7, 0, 1, 5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Top(context.Background(), 10); !errors.Is(err, ErrLeaderboardDisabled) {
		t.Fatalf("expected ErrLeaderboardDisabled, got %v", err)
	}
}

func TestStatsRequestsRecentResults(t *testing.T) {
	results := &fakeResults{stats: &entities.QuizStats{Played: 2, TotalScore: 6, TotalAsked: 10}}
	svc := NewResultService(&fakeTx{}, &fakeUsers{}, results, nil, zap.NewNop())

	stats, err := svc.Stats(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results.recent != RecentResults {
		t.Fatalf("expected %d recent results requested, got %d", RecentResults, results.recent)
	}
	if stats.Accuracy() != 60 {
		t.Fatalf("expected 60%% accuracy, got %v", stats.Accuracy())
	}

	if stats.Player != nil {
		t.Fatalf("expected no player for an unknown user, got %+v", stats.Player)
	}

	results.err = errBoom
	if _, err := svc.Stats(context.Background(), 7); !errors.Is(err, errBoom) {
		t.Fatalf("expected errBoom, got %v", err)
	}
}

func TestStatsAttachesPlayer(t *testing.T) {
	player := &entities.User{ID: 7, Username: "alice", CreatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)}
	users := &fakeUsers{byID: player}
	results := &fakeResults{stats: &entities.QuizStats{Played: 1, TotalScore: 3, TotalAsked: 5}}
	svc := NewResultService(&fakeTx{}, users, results, nil, zap.NewNop())

	stats, err := svc.Stats(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Player != player {
		t.Fatalf("expected player to be attached, got %+v", stats.Player)
	}

	users.findErr = errBoom
	results.stats = &entities.QuizStats{Played: 1, TotalScore: 3, TotalAsked: 5}
	stats, err = svc.Stats(context.Background(), 7)
	if err != nil {
		t.Fatalf("a player lookup failure must not fail stats: %v", err)
	}
	if stats.Player != nil {
		t.Fatalf("expected no player after lookup failure")
	}
}

func TestDisplayName(t *testing.T) {
	if got := displayName(entities.NewUser(5, 5, "bob")); got != "@bob" {
		t.Fatalf("got %q", got)
	}
	if got := displayName(entities.NewUser(5, 5, "")); got != "player 5" {
		t.Fatalf("got %q", got)
	}
}

func TestResetUserClearsLeaderboard(t *testing.T) {
	board := newFakeBoard()
	svc := NewResetService(&fakeTx{}, board)

	if _, err := svc.ResetUser(context.Background(), 9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(board.removed) != 1 || board.removed[0] != 9 {
		t.Fatalf("expected user 9 removed, got %v", board.removed)
	}

	failing := NewResetService(&fakeTx{err: errBoom}, board)
	if _, err := failing.ResetUser(context.Background(), 9); !errors.Is(err, errBoom) {
		t.Fatalf("expected errBoom, got %v", err)
	}
	if len(board.removed) != 1 {
		t.Fatalf("leaderboard must not change when reset fails")
	}
}

type countingSweeper struct {
	idle  time.Duration
	calls atomic.Int32
}

func (c *countingSweeper) Sweep(idle time.Duration) int {
	c.idle = idle
	c.calls.Add(1)
	return 2
}

func TestSweeperSweepUsesIdleTimeout(t *testing.T) {
	store := &countingSweeper{}
	s := NewSweeperService(store, 30*time.Minute, "@every 5m", zap.NewNop())

	s.sweep()

	if store.calls.Load() != 1 || store.idle != 30*time.Minute {
		t.Fatalf("unexpected sweep: calls=%d idle=%v", store.calls.Load(), store.idle)
	}
}

func TestSweeperRejectsBadSpec(t *testing.T) {
	s := NewSweeperService(&countingSweeper{}, time.Minute, "not a spec", zap.NewNop())

	if err := s.Start(context.Background()); err == nil {
		t.Fatalf("expected an error for an invalid cron spec")
	}
}

func TestSweeperStopsWithContext(t *testing.T) {
	s := NewSweeperService(&countingSweeper{}, time.Minute, "@every 1h", zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("sweeper did not stop")
	}
}

package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
)

// Leaderboard keeps cumulative quiz scores in a sorted set keyed by user id.
// Display names live in a companion hash "<key>:names".
type Leaderboard struct {
	client *redis.Client
	key    string
}

func NewLeaderboard(client *redis.Client, key string) *Leaderboard {
	return &Leaderboard{client: client, key: key}
}

func (l *Leaderboard) namesKey() string {
	return l.key + ":names"
}

// Add increments the user's total by score and remembers their display name.
func (l *Leaderboard) Add(ctx context.Context, userID int64, name string, score int) error {
	member := strconv.FormatInt(userID, 10)

	pipe := l.client.TxPipeline()
	pipe.ZIncrBy(ctx, l.key, float64(score), member)
	if name != "" {
		pipe.HSet(ctx, l.namesKey(), member, name)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("leaderboard add: %w", err)
	}
	return nil
}

// Top returns up to n entries with the highest totals first.
func (l *Leaderboard) Top(ctx context.Context, n int) ([]entities.LeaderboardEntry, error) {
	if n <= 0 {
		return nil, nil
	}

	results, err := l.client.ZRevRangeWithScores(ctx, l.key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("leaderboard top: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	members := make([]string, len(results))
	for i, z := range results {
		members[i] = z.Member.(string)
	}

	names, err := l.client.HMGet(ctx, l.namesKey(), members...).Result()
	if err != nil {
		return nil, fmt.Errorf("leaderboard names: %w", err)
	}

	entries := make([]entities.LeaderboardEntry, len(results))
	for i, z := range results {
		id, err := strconv.ParseInt(members[i], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("leaderboard member %q: %w", members[i], err)
		}

		entry := entities.LeaderboardEntry{
			UserID:     id,
			TotalScore: int(z.Score),
		}
		if name, ok := names[i].(string); ok {
			entry.DisplayName = name
		}
		entries[i] = entry
	}

	return entries, nil
}

// Remove drops the user from the board.
func (l *Leaderboard) Remove(ctx context.Context, userID int64) error {
	member := strconv.FormatInt(userID, 10)

	pipe := l.client.TxPipeline()
	pipe.ZRem(ctx, l.key, member)
	pipe.HDel(ctx, l.namesKey(), member)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("leaderboard remove: %w", err)
	}
	return nil
}

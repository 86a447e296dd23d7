package repository

import (
	"context"
	"fmt"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-bot/internal/infra/postgres"
)

// ResultRepository stores finished quiz sessions.
type ResultRepository struct {
	db postgres.DBTX
}

func NewResultRepository(db postgres.DBTX) *ResultRepository {
	return &ResultRepository{db: db}
}

// Create inserts a finished quiz result and returns its id.
func (r *ResultRepository) Create(ctx context.Context, res *entities.QuizResult) (int64, error) {
	query := `
		INSERT INTO quiz_results (user_id, category_id, score, rounds, finished_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query, res.UserID, res.CategoryID, res.Score, res.Rounds, res.FinishedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create quiz result: %w", err)
	}

	return id, nil
}

// GetStats aggregates all results of a user and attaches the most recent ones.
func (r *ResultRepository) GetStats(ctx context.Context, userID int64, recent int) (*entities.QuizStats, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(score), 0), COALESCE(SUM(rounds), 0)
		FROM quiz_results
		WHERE user_id = $1
	`

	var stats entities.QuizStats
	err := r.db.QueryRow(ctx, query, userID).Scan(&stats.Played, &stats.TotalScore, &stats.TotalAsked)
	if err != nil {
		return nil, fmt.Errorf("get quiz stats: %w", err)
	}

	if recent <= 0 || stats.Played == 0 {
		return &stats, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, category_id, score, rounds, finished_at
		FROM quiz_results
		WHERE user_id = $1
		ORDER BY finished_at DESC
		LIMIT $2
	`, userID, recent)
	if err != nil {
		return nil, fmt.Errorf("query recent results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var res entities.QuizResult
		if err := rows.Scan(
			&res.ID,
			&res.UserID,
			&res.CategoryID,
			&res.Score,
			&res.Rounds,
			&res.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan quiz result: %w", err)
		}
		stats.Recent = append(stats.Recent, &res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quiz results: %w", err)
	}

	return &stats, nil
}

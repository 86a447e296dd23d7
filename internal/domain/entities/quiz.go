package entities

import "time"

// QuizResult is a finished quiz session as stored for stats.
type QuizResult struct {
	ID         int64     // unique result ID
	UserID     int64     // user who played
	CategoryID int       // 0 means all categories
	Score      int       // correct answers
	Rounds     int       // questions asked
	FinishedAt time.Time // when the session reached Finished
}

// NewQuizResult creates a result stamped with the current time.
func NewQuizResult(userID int64, categoryID, score, rounds int) *QuizResult {
	return &QuizResult{
		UserID:     userID,
		CategoryID: categoryID,
		Score:      score,
		Rounds:     rounds,
		FinishedAt: time.Now(),
	}
}

// Accuracy returns the share of correct answers in percent.
func (r *QuizResult) Accuracy() float64 {
	if r.Rounds == 0 {
		return 0
	}
	return float64(r.Score) / float64(r.Rounds) * 100
}

// QuizStats summarizes a user's finished quizzes.
type QuizStats struct {
	Player     *User // nil when the user row is missing
	Played     int
	TotalScore int
	TotalAsked int
	Recent     []*QuizResult
}

// Accuracy returns the share of correct answers across all quizzes in percent.
func (s *QuizStats) Accuracy() float64 {
	if s.TotalAsked == 0 {
		return 0
	}
	return float64(s.TotalScore) / float64(s.TotalAsked) * 100
}

// LeaderboardEntry is one line of the cumulative score table.
type LeaderboardEntry struct {
	UserID      int64
	DisplayName string
	TotalScore  int
}

package service

import (
	"context"

	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
)

type UserService struct {
	repository UserRepository
}

func NewUserService(repository UserRepository) *UserService {
	return &UserService{repository: repository}
}

// EnsureUser registers the user on first contact and refreshes chat and
// username afterwards. It reports whether the user is new.
func (s *UserService) EnsureUser(ctx context.Context, userID, chatID int64, username string) (bool, error) {
	user := entities.NewUser(userID, chatID, username)

	created, err := s.repository.Save(ctx, user)
	if err != nil {
		return false, err
	}

	return created, nil
}

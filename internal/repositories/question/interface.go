package question

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/quizroom/internal/repositories/question Repository

import (
	"context"

	"github.com/KirkDiggler/quizroom/internal/models"
)

// Repository is the question bank a room draws its questions from
type Repository interface {
	// GetQuestion returns the question at an index of a game
	GetQuestion(ctx context.Context, input *GetQuestionInput) (*models.Question, error)

	// CountQuestions returns how many questions a game has
	CountQuestions(ctx context.Context, input *CountQuestionsInput) (*CountQuestionsOutput, error)

	// SaveQuestions replaces the question set of a game
	SaveQuestions(ctx context.Context, input *SaveQuestionsInput) error
}

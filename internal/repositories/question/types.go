package question

import (
	"github.com/KirkDiggler/quizroom/internal/models"
)

type GetQuestionInput struct {
	GameID string
	Index  int
}

type CountQuestionsInput struct {
	GameID string
}

type CountQuestionsOutput struct {
	Count int
}

type SaveQuestionsInput struct {
	GameID string

	// Questions are stored in slice order; Index and GameID are overwritten
	Questions []*models.Question
}

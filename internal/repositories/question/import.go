package question

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/KirkDiggler/quizroom/internal/models"
	"github.com/go-playground/validator/v10"
)

// BankFile is the on-disk shape of a question bank
type BankFile struct {
	Games []BankGame `json:"games" validate:"required,min=1,dive"`
}

// BankGame is one question set
type BankGame struct {
	ID        string         `json:"id" validate:"required"`
	Questions []BankQuestion `json:"questions" validate:"required,min=1,dive"`
}

// BankQuestion carries the answer key, unlike models.Question which hides it from JSON
type BankQuestion struct {
	ID               string          `json:"id" validate:"required"`
	Text             string          `json:"text" validate:"required"`
	Options          []models.Option `json:"options" validate:"required,min=2,dive"`
	Answer           string          `json:"answer" validate:"required"`
	TimeLimitSeconds int             `json:"timeLimitSeconds" validate:"gte=0"`
	BasePoints       int             `json:"basePoints" validate:"gte=0"`
}

// ImportFile loads a question bank from disk and saves every game in it.
// It returns the number of games imported.
func ImportFile(ctx context.Context, repo Repository, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read question bank: %w", err)
	}

	var bank BankFile
	if err := json.Unmarshal(raw, &bank); err != nil {
		return 0, fmt.Errorf("failed to parse question bank: %w", err)
	}

	return Import(ctx, repo, &bank)
}

// Import validates a bank and saves each game
func Import(ctx context.Context, repo Repository, bank *BankFile) (int, error) {
	if err := validator.New().Struct(bank); err != nil {
		return 0, fmt.Errorf("invalid question bank: %w", err)
	}

	for _, game := range bank.Games {
		questions := make([]*models.Question, 0, len(game.Questions))
		for _, q := range game.Questions {
			if !hasOption(q.Options, q.Answer) {
				return 0, fmt.Errorf("question %s in game %s: answer %q is not an option", q.ID, game.ID, q.Answer)
			}
			questions = append(questions, &models.Question{
				PublicQuestion: models.PublicQuestion{
					ID:         q.ID,
					Text:       q.Text,
					Options:    q.Options,
					TimeLimit:  time.Duration(q.TimeLimitSeconds) * time.Second,
					BasePoints: q.BasePoints,
				},
				CorrectOptionID: q.Answer,
			})
		}

		if err := repo.SaveQuestions(ctx, &SaveQuestionsInput{
			GameID:    game.ID,
			Questions: questions,
		}); err != nil {
			return 0, fmt.Errorf("failed to save game %s: %w", game.ID, err)
		}
	}

	return len(bank.Games), nil
}

func hasOption(options []models.Option, id string) bool {
	for _, o := range options {
		if o.ID == id {
			return true
		}
	}
	return false
}

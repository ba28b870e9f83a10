package question

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/KirkDiggler/quizroom/internal/models"
	"github.com/stretchr/testify/suite"
)

type SQLiteRepositoryTestSuite struct {
	suite.Suite
	repo *sqliteRepository
	ctx  context.Context
}

func (s *SQLiteRepositoryTestSuite) SetupTest() {
	repo, err := NewSQLite(&Config{
		Path: filepath.Join(s.T().TempDir(), "questions.db"),
	})
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *SQLiteRepositoryTestSuite) TearDownTest() {
	s.repo.Close()
}

func TestSQLiteRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(SQLiteRepositoryTestSuite))
}

func (s *SQLiteRepositoryTestSuite) sampleQuestions() []*models.Question {
	return []*models.Question{
		{
			PublicQuestion: models.PublicQuestion{
				ID:   "q-1",
				Text: "Capital of France?",
				Options: []models.Option{
					{ID: "a", Text: "Paris"},
					{ID: "b", Text: "Lyon"},
				},
				TimeLimit:  10 * time.Second,
				BasePoints: 100,
			},
			CorrectOptionID: "a",
		},
		{
			PublicQuestion: models.PublicQuestion{
				ID:   "q-2",
				Text: "2 + 2?",
				Options: []models.Option{
					{ID: "a", Text: "3"},
					{ID: "b", Text: "4"},
				},
			},
			CorrectOptionID: "b",
		},
	}
}

func (s *SQLiteRepositoryTestSuite) TestSaveAndGetQuestion() {
	s.Require().NoError(s.repo.SaveQuestions(s.ctx, &SaveQuestionsInput{
		GameID:    "game-1",
		Questions: s.sampleQuestions(),
	}))

	q, err := s.repo.GetQuestion(s.ctx, &GetQuestionInput{GameID: "game-1", Index: 0})
	s.Require().NoError(err)
	s.Equal("q-1", q.ID)
	s.Equal("game-1", q.GameID)
	s.Equal(0, q.Index)
	s.Equal("a", q.CorrectOptionID)
	s.Equal(10*time.Second, q.TimeLimit)
	s.Equal(100, q.BasePoints)
	s.Len(q.Options, 2)

	q, err = s.repo.GetQuestion(s.ctx, &GetQuestionInput{GameID: "game-1", Index: 1})
	s.Require().NoError(err)
	s.Equal("q-2", q.ID)
	s.Equal(time.Duration(0), q.TimeLimit)
}

func (s *SQLiteRepositoryTestSuite) TestGetQuestion_PastEnd() {
	s.Require().NoError(s.repo.SaveQuestions(s.ctx, &SaveQuestionsInput{
		GameID:    "game-1",
		Questions: s.sampleQuestions(),
	}))

	_, err := s.repo.GetQuestion(s.ctx, &GetQuestionInput{GameID: "game-1", Index: 2})
	s.ErrorIs(err, ErrQuestionNotFound)

	_, err = s.repo.GetQuestion(s.ctx, &GetQuestionInput{GameID: "game-1", Index: -1})
	s.ErrorIs(err, ErrQuestionNotFound)
}

func (s *SQLiteRepositoryTestSuite) TestSaveQuestions_Replaces() {
	s.Require().NoError(s.repo.SaveQuestions(s.ctx, &SaveQuestionsInput{
		GameID:    "game-1",
		Questions: s.sampleQuestions(),
	}))
	s.Require().NoError(s.repo.SaveQuestions(s.ctx, &SaveQuestionsInput{
		GameID:    "game-1",
		Questions: s.sampleQuestions()[:1],
	}))

	out, err := s.repo.CountQuestions(s.ctx, &CountQuestionsInput{GameID: "game-1"})
	s.Require().NoError(err)
	s.Equal(1, out.Count)
}

func (s *SQLiteRepositoryTestSuite) TestSaveQuestions_RejectsMissingAnswer() {
	questions := s.sampleQuestions()
	questions[1].CorrectOptionID = ""

	err := s.repo.SaveQuestions(s.ctx, &SaveQuestionsInput{
		GameID:    "game-1",
		Questions: questions,
	})
	s.Error(err)

	out, err := s.repo.CountQuestions(s.ctx, &CountQuestionsInput{GameID: "game-1"})
	s.Require().NoError(err)
	s.Equal(0, out.Count)
}

package question

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KirkDiggler/quizroom/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// ErrQuestionNotFound is returned when a game has no question at the requested index
var ErrQuestionNotFound = errors.New("question not found")

// Config holds configuration for the SQLite question bank
type Config struct {
	// Path is the database file; ":memory:" keeps everything in process
	Path string
}

type sqliteRepository struct {
	db *sql.DB
}

// NewSQLite opens the database and makes sure the schema exists
func NewSQLite(cfg *Config) (*sqliteRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("sqlite path cannot be empty")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open question bank: %w", err)
	}

	// One connection serializes writers and keeps ":memory:" a single database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure question bank: %w", err)
	}

	repo := &sqliteRepository{db: db}
	if err := repo.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize question bank schema: %w", err)
	}

	return repo, nil
}

// Close releases the database handle
func (r *sqliteRepository) Close() error {
	return r.db.Close()
}

func (r *sqliteRepository) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS questions (
			game_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			question_id TEXT NOT NULL,
			prompt TEXT NOT NULL,
			options_json TEXT NOT NULL,
			correct_option_id TEXT NOT NULL,
			time_limit_ms INTEGER NOT NULL DEFAULT 0,
			base_points INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (game_id, position)
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_questions_game_question ON questions(game_id, question_id);`,
	}

	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// GetQuestion loads one question by game and position
func (r *sqliteRepository) GetQuestion(ctx context.Context, input *GetQuestionInput) (*models.Question, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}
	if input.Index < 0 {
		return nil, ErrQuestionNotFound
	}

	var (
		q           models.Question
		optionsJSON string
		timeLimitMs int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT question_id, prompt, options_json, correct_option_id, time_limit_ms, base_points
		 FROM questions WHERE game_id = ? AND position = ?`,
		input.GameID, input.Index,
	).Scan(&q.ID, &q.Text, &optionsJSON, &q.CorrectOptionID, &timeLimitMs, &q.BasePoints)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	if err := json.Unmarshal([]byte(optionsJSON), &q.Options); err != nil {
		return nil, fmt.Errorf("failed to unmarshal question options: %w", err)
	}

	q.GameID = input.GameID
	q.Index = input.Index
	q.TimeLimit = time.Duration(timeLimitMs) * time.Millisecond

	return &q, nil
}

// CountQuestions counts the questions of a game
func (r *sqliteRepository) CountQuestions(ctx context.Context, input *CountQuestionsInput) (*CountQuestionsOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}

	var count int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM questions WHERE game_id = ?`, input.GameID,
	).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}

	return &CountQuestionsOutput{
		Count: count,
	}, nil
}

// SaveQuestions replaces every question of a game in one transaction
func (r *sqliteRepository) SaveQuestions(ctx context.Context, input *SaveQuestionsInput) error {
	if input == nil || input.GameID == "" {
		return errors.New("input and game ID cannot be empty")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE game_id = ?`, input.GameID); err != nil {
		return fmt.Errorf("failed to clear questions: %w", err)
	}

	for idx, q := range input.Questions {
		if q == nil || q.ID == "" {
			return fmt.Errorf("question %d has no ID", idx)
		}
		if q.CorrectOptionID == "" {
			return fmt.Errorf("question %s has no correct option", q.ID)
		}

		optionsJSON, err := json.Marshal(q.Options)
		if err != nil {
			return fmt.Errorf("failed to marshal options for question %s: %w", q.ID, err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO questions (game_id, position, question_id, prompt, options_json, correct_option_id, time_limit_ms, base_points)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			input.GameID,
			idx,
			q.ID,
			q.Text,
			string(optionsJSON),
			q.CorrectOptionID,
			q.TimeLimit.Milliseconds(),
			q.BasePoints,
		)
		if err != nil {
			return fmt.Errorf("failed to insert question %s: %w", q.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit questions: %w", err)
	}

	return nil
}

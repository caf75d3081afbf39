package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"trainee-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuizLoader loads quiz JSONB plus its shuffle settings from Postgres.
type QuizLoader struct {
	pool *pgxpool.Pool
}

func NewQuizLoader(pool *pgxpool.Pool) *QuizLoader {
	return &QuizLoader{pool: pool}
}

func (l *QuizLoader) LoadQuiz(ctx context.Context, quizID string) (domain.QuizRecord, error) {
	var data, rawSettings []byte
	err := l.pool.QueryRow(ctx, `SELECT data, settings FROM quizzes WHERE id=$1`, quizID).Scan(&data, &rawSettings)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.QuizRecord{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.QuizRecord{}, fmt.Errorf("load quiz: %w", err)
	}

	var record domain.QuizRecord
	if err := json.Unmarshal(data, &record.Quiz); err != nil {
		return domain.QuizRecord{}, fmt.Errorf("unmarshal quiz: %w", err)
	}
	// ShuffleSettings.UnmarshalJSON normalizes both flag spellings stored by
	// older template exports.
	if len(rawSettings) > 0 && string(rawSettings) != "null" {
		var settings domain.ShuffleSettings
		if err := json.Unmarshal(rawSettings, &settings); err != nil {
			return domain.QuizRecord{}, fmt.Errorf("unmarshal settings: %w", err)
		}
		record.Settings = &settings
	}
	return record, nil
}

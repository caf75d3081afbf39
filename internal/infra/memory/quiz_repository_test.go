package memory

import (
	"context"
	"testing"
	"time"

	"trainee-quiz-service/internal/domain"
)

func TestQuizRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		QuizLoader: NewStaticQuizLoader(map[string]domain.QuizRecord{
			"quiz-1": sampleRecord(),
		}),
	}
	repo := NewQuizRepository(loader, time.Minute)

	record, err := repo.GetQuiz(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}
	if record.Settings == nil || !record.Settings.Questions {
		t.Fatalf("settings lost through cache: %+v", record.Settings)
	}

	if _, err := repo.GetQuiz(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("get quiz 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestQuizRepositoryUnknownQuiz(t *testing.T) {
	repo := NewQuizRepository(NewStaticQuizLoader(nil), time.Minute)
	if _, err := repo.GetQuiz(context.Background(), "missing"); err != domain.ErrQuizNotFound {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

type countingLoader struct {
	QuizLoader
	calls int
}

func (l *countingLoader) LoadQuiz(ctx context.Context, quizID string) (domain.QuizRecord, error) {
	l.calls++
	return l.QuizLoader.LoadQuiz(ctx, quizID)
}

func sampleRecord() domain.QuizRecord {
	return domain.QuizRecord{
		Quiz: domain.Quiz{
			ID: "quiz-1",
			Questions: []domain.Question{
				{
					ID:            "q1",
					Type:          domain.MultipleChoice,
					Prompt:        "What is 2 + 2?",
					Options:       []string{"3", "4"},
					CorrectAnswer: "1",
					Points:        1,
				},
			},
		},
		Settings: &domain.ShuffleSettings{Questions: true, Options: true},
	}
}

package app_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"trainee-quiz-service/internal/app"
	"trainee-quiz-service/internal/domain"
	"trainee-quiz-service/internal/infra/memory"
)

var testClock = func() time.Time {
	return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
}

func TestJoinAndScoring(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t)

	if _, err := service.Join(ctx, "quiz-1", 1, "Alice"); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if _, err := service.Join(ctx, "quiz-1", 2, "Bob"); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	lb, total, awarded, correct, err := service.SubmitAnswer(ctx, "quiz-1", 2, domain.AnswerSubmission{
		QuestionID: "q1",
		Answer:     correctIndexFor(t, service, "quiz-1", 2, "q1"),
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if !correct || awarded != 1 || total != 1 {
		t.Fatalf("expected correct answer worth 1, got correct=%v awarded=%d total=%d", correct, awarded, total)
	}
	if len(lb.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(lb.Entries))
	}
	if lb.Entries[0].UserID != 2 || lb.Entries[0].Score != 1 {
		t.Fatalf("expected Bob to lead with 1 point, got %+v", lb.Entries[0])
	}
}

func TestGradingFollowsPersonalizedOrder(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t)

	// The answer index the service accepts for a user must match that user's
	// shuffled view, not the stored option order.
	for userID := int64(10); userID < 20; userID++ {
		if _, err := service.Join(ctx, "quiz-1", userID, "user"); err != nil {
			t.Fatalf("join: %v", err)
		}
		_, _, _, correct, err := service.SubmitAnswer(ctx, "quiz-1", userID, domain.AnswerSubmission{
			QuestionID: "q1",
			Answer:     correctIndexFor(t, service, "quiz-1", userID, "q1"),
		})
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		if !correct {
			t.Fatalf("user %d: personalized correct index rejected", userID)
		}
	}
}

func TestTextAnswerGrading(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t)

	if _, err := service.Join(ctx, "quiz-1", 1, "Alice"); err != nil {
		t.Fatalf("join: %v", err)
	}

	_, _, _, correct, err := service.SubmitAnswer(ctx, "quiz-1", 1, domain.AnswerSubmission{
		QuestionID: "q2",
		Answer:     "  Paris ",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !correct {
		t.Fatalf("expected trimmed case-insensitive text match to grade correct")
	}

	_, _, _, correct, err = service.SubmitAnswer(ctx, "quiz-1", 1, domain.AnswerSubmission{
		QuestionID: "q2",
		Answer:     "London",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if correct {
		t.Fatalf("wrong text answer graded correct")
	}
}

func TestSubscribeReceivesUpdates(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t)

	if _, err := service.Join(ctx, "quiz-1", 1, "Alice"); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	ch, cancel, err := service.Subscribe(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer cancel()

	<-ch // initial snapshot

	_, _, _, _, err = service.SubmitAnswer(ctx, "quiz-1", 1, domain.AnswerSubmission{
		QuestionID: "q1",
		Answer:     correctIndexFor(t, service, "quiz-1", 1, "q1"),
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	update := <-ch
	if len(update.Entries) != 1 || update.Entries[0].Score != 1 {
		t.Fatalf("expected updated score 1, got %+v", update.Entries)
	}
}

func TestSubmitRequiresParticipant(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t)

	_, _, _, _, err := service.SubmitAnswer(ctx, "quiz-unknown", 1, domain.AnswerSubmission{QuestionID: "q1", Answer: "0"})
	if err != domain.ErrSessionNotFound {
		t.Fatalf("expected session error, got %v", err)
	}

	_, _ = service.Join(ctx, "quiz-1", 1, "Alice")
	_, _, _, _, err = service.SubmitAnswer(ctx, "quiz-1", 2, domain.AnswerSubmission{QuestionID: "q1", Answer: "0"})
	if err != domain.ErrParticipantNotFound {
		t.Fatalf("expected participant error, got %v", err)
	}
}

func TestDefaultSettingsApplyWhenRecordHasNone(t *testing.T) {
	ctx := context.Background()
	loader := memory.NewStaticQuizLoader(map[string]domain.QuizRecord{
		"quiz-1": {Quiz: testQuiz()}, // no settings on the record
	})
	service := app.NewQuizService(
		memory.NewSessionStore(),
		memory.NewQuizRepository(loader, 5*time.Minute),
		app.WithClock(testClock),
		app.WithDefaultSettings(domain.ShuffleSettings{Questions: true, Options: true}),
	)

	foundShuffled := false
	for userID := int64(1); userID <= 20 && !foundShuffled; userID++ {
		quiz, err := service.PersonalizedQuiz(ctx, "quiz-1", userID)
		if err != nil {
			t.Fatalf("personalized quiz: %v", err)
		}
		for i := range quiz.Questions {
			if quiz.Questions[i].ID == "q1" && quiz.Questions[i].Options[0] != "3" {
				foundShuffled = true
			}
		}
	}
	if !foundShuffled {
		t.Fatalf("default shuffle settings never took effect across 20 users")
	}
}

// correctIndexFor recomputes the submitter's personalized view and returns
// the accepted answer index; determinism makes this exact.
func correctIndexFor(t *testing.T, service *app.QuizService, quizID string, userID int64, questionID string) string {
	t.Helper()
	quiz, err := service.PersonalizedQuiz(context.Background(), quizID, userID)
	if err != nil {
		t.Fatalf("personalized quiz: %v", err)
	}
	for _, q := range quiz.Questions {
		if q.ID == questionID {
			if _, err := strconv.Atoi(q.CorrectAnswer); err != nil {
				t.Fatalf("question %s has non-index key %q", questionID, q.CorrectAnswer)
			}
			return q.CorrectAnswer
		}
	}
	t.Fatalf("question %s not found", questionID)
	return ""
}

func testQuiz() domain.Quiz {
	return domain.Quiz{
		ID: "quiz-1",
		Questions: []domain.Question{
			{
				ID:            "q1",
				Type:          domain.MultipleChoice,
				Prompt:        "What is 2 + 2?",
				Options:       []string{"3", "4", "5"},
				CorrectAnswer: "1",
				Points:        1,
			},
			{
				ID:            "q2",
				Type:          domain.ShortAnswer,
				Prompt:        "Capital of France?",
				CorrectAnswer: "paris",
			},
		},
	}
}

func newTestService(t *testing.T) *app.QuizService {
	t.Helper()
	settings := &domain.ShuffleSettings{Questions: true, Options: true}
	loader := memory.NewStaticQuizLoader(map[string]domain.QuizRecord{
		"quiz-1": {Quiz: testQuiz(), Settings: settings},
	})
	sessionStore := memory.NewSessionStore()
	quizRepo := memory.NewQuizRepository(loader, 5*time.Minute)
	return app.NewQuizService(sessionStore, quizRepo, app.WithClock(testClock))
}

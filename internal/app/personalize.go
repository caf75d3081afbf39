package app

import (
	"fmt"
	"strconv"
	"time"

	"trainee-quiz-service/internal/domain"
	"trainee-quiz-service/internal/shuffle"
)

const seedDateLayout = "2006-01-02"

// baseSeed identifies a (user, quiz, day) triple. Day granularity means a
// trainee keeps the same order across reloads within one sitting but sees a
// fresh order the next day.
func baseSeed(userID int64, quizID string, day time.Time) string {
	return fmt.Sprintf("user-%d-quiz-%s-date-%s", userID, quizID, day.Format(seedDateLayout))
}

// Personalize returns a per-trainee copy of the quiz with question and/or
// option order shuffled according to settings. The input quiz is never
// mutated. A quiz with no questions is returned as an unmodified copy.
func Personalize(quiz domain.Quiz, settings domain.ShuffleSettings, userID int64, day time.Time) domain.Quiz {
	out := quiz.Clone()
	if len(out.Questions) == 0 {
		return out
	}

	seed := baseSeed(userID, quiz.ID, day)
	if settings.Questions {
		out.Questions = shuffle.Shuffle(out.Questions, seed)
	}

	if settings.Options {
		for i := range out.Questions {
			q := &out.Questions[i]
			if q.Type != domain.MultipleChoice || len(q.Options) < 2 {
				continue
			}
			// The per-question seed folds in the post-shuffle position so
			// option order stays stable even when question order changes.
			questionSeed := fmt.Sprintf("%s-question-%s-%d", seed, q.ID, i)
			shuffled := shuffle.Shuffle(q.Options, questionSeed)
			q.CorrectAnswer = remapAnswerKey(q.CorrectAnswer, q.Options, shuffled)
			q.Options = shuffled
		}
	}
	return out
}

// remapAnswerKey rewrites an index-form answer key to the option's position
// after shuffling. Text-form keys stay valid across reordering and pass
// through untouched. With duplicate option texts the first matching position
// wins; it always holds the same text as the original answer.
func remapAnswerKey(raw string, before, after []string) string {
	key := domain.ParseAnswerKey(raw, len(before))
	if key.Kind != domain.KeyIndex {
		return raw
	}
	want := before[key.Index]
	for i, opt := range after {
		if opt == want {
			return strconv.Itoa(i)
		}
	}
	return raw
}

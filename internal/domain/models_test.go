package domain

import (
	"reflect"
	"testing"
)

func TestQuizCloneIsDeep(t *testing.T) {
	original := Quiz{
		ID: "quiz-1",
		Questions: []Question{
			{ID: "q1", Type: MultipleChoice, Options: []string{"a", "b"}, CorrectAnswer: "0"},
		},
	}

	clone := original.Clone()
	if !reflect.DeepEqual(clone, original) {
		t.Fatalf("clone differs from original:\n%+v\n%+v", clone, original)
	}

	clone.Questions[0].Options[0] = "mutated"
	clone.Questions[0].CorrectAnswer = "1"
	if original.Questions[0].Options[0] != "a" || original.Questions[0].CorrectAnswer != "0" {
		t.Fatalf("mutating the clone reached the original: %+v", original.Questions[0])
	}
}

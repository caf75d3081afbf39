package domain

import "time"

// QuestionType is the closed set of supported question kinds.
type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	ShortAnswer    QuestionType = "short_answer"
	TrueFalse      QuestionType = "true_false"
)

// Question models a single quiz question. Options and CorrectAnswer are only
// meaningful for multiple-choice questions; CorrectAnswer may hold either a
// stringified option index or the expected answer text (see AnswerKey).
type Question struct {
	ID            string       `json:"id"`
	Type          QuestionType `json:"type"`
	Prompt        string       `json:"prompt"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correctAnswer,omitempty"`
	Points        int          `json:"points,omitempty"` // defaults to 1 if zero
}

// Quiz is an ordered collection of questions.
type Quiz struct {
	ID        string     `json:"id"`
	Title     string     `json:"title,omitempty"`
	Questions []Question `json:"questions"`
}

// Clone returns a deep copy of the quiz. Personalization works on clones so
// cached quiz documents are never observed in a shuffled state.
func (q Quiz) Clone() Quiz {
	out := q
	if q.Questions != nil {
		out.Questions = make([]Question, len(q.Questions))
		copy(out.Questions, q.Questions)
		for i := range out.Questions {
			if opts := out.Questions[i].Options; opts != nil {
				out.Questions[i].Options = append([]string(nil), opts...)
			}
		}
	}
	return out
}

// QuizRecord pairs quiz content with the delivery settings stored alongside
// it. Settings is nil when the authoring side never configured shuffling.
type QuizRecord struct {
	Quiz     Quiz             `json:"quiz"`
	Settings *ShuffleSettings `json:"settings,omitempty"`
}

// Participant represents a quiz participant and their accumulated score.
type Participant struct {
	UserID      int64
	DisplayName string
	Score       int
	LastUpdated time.Time
}

// LeaderboardEntry is a snapshot-friendly view of a participant.
type LeaderboardEntry struct {
	UserID      int64  `json:"userId"`
	DisplayName string `json:"displayName"`
	Score       int    `json:"score"`
}

// Leaderboard captures the ordered scoreboard for a quiz session.
type Leaderboard struct {
	QuizID    string             `json:"quizId"`
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// AnswerSubmission models the scoring signal from clients. Answer is the
// option index (as rendered to that trainee) for multiple choice, or free
// text for other question types.
type AnswerSubmission struct {
	QuestionID string
	Answer     string
}

// AnswerResult summarizes the outcome of a submission for a single user.
type AnswerResult struct {
	QuestionID string `json:"questionId"`
	Correct    bool   `json:"correct"`
	Awarded    int    `json:"awarded"`
	TotalScore int    `json:"totalScore"`
}

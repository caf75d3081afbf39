package app

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"trainee-quiz-service/internal/domain"
)

// SessionRepository abstracts how quiz sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	GetOrCreate(quizID string) *Session
	Get(quizID string) (*Session, bool)
	DeleteIfEmpty(quizID string)
}

// QuizRepository loads quiz content plus its delivery settings (from
// cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.QuizRecord, error)
}

// QuizService contains the core quiz use cases.
type QuizService struct {
	sessions SessionRepository
	quizzes  QuizRepository
	defaults domain.ShuffleSettings
	now      func() time.Time
}

// Option configures a QuizService.
type Option func(*QuizService)

// WithDefaultSettings sets the shuffle settings applied to quizzes whose
// stored record carries none.
func WithDefaultSettings(settings domain.ShuffleSettings) Option {
	return func(s *QuizService) { s.defaults = settings }
}

// WithClock is test-only; the clock drives the day component of the shuffle seed.
func WithClock(now func() time.Time) Option {
	return func(s *QuizService) { s.now = now }
}

func NewQuizService(store SessionRepository, quizzes QuizRepository, opts ...Option) *QuizService {
	s := &QuizService{sessions: store, quizzes: quizzes, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(id string) *Session {
	return newSession(id)
}

// NewSessionWithClock is test-only for deterministic timestamps.
func NewSessionWithClock(id string, now func() time.Time) *Session {
	return newSessionWithClock(id, now)
}

// PersonalizedQuiz loads the quiz and returns the trainee-specific copy for
// today. Recomputing it is exact: the permutation depends only on
// (user, quiz, day), never on stored per-request state.
func (s *QuizService) PersonalizedQuiz(ctx context.Context, quizID string, userID int64) (domain.Quiz, error) {
	record, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	settings := s.defaults
	if record.Settings != nil {
		settings = *record.Settings
	}
	return Personalize(record.Quiz, settings, userID, s.now()), nil
}

// Join registers or refreshes a participant in a quiz session.
func (s *QuizService) Join(ctx context.Context, quizID string, userID int64, displayName string) (domain.Leaderboard, error) {
	// Preload quiz into cache; users cannot join unknown quizzes.
	if _, err := s.quizzes.GetQuiz(ctx, quizID); err != nil {
		return domain.Leaderboard{}, err
	}

	session := s.sessions.GetOrCreate(quizID)
	return session.join(userID, displayName), nil
}

// SubmitAnswer grades an answer against the submitter's own personalized view
// of the quiz and updates the leaderboard. Returns the leaderboard, the
// participant's total, the awarded points, and whether the answer was correct.
func (s *QuizService) SubmitAnswer(ctx context.Context, quizID string, userID int64, submission domain.AnswerSubmission) (domain.Leaderboard, int, int, bool, error) {
	session, ok := s.sessions.Get(quizID)
	if !ok {
		return domain.Leaderboard{}, 0, 0, false, domain.ErrSessionNotFound
	}

	personalized, err := s.PersonalizedQuiz(ctx, quizID, userID)
	if err != nil {
		return domain.Leaderboard{}, 0, 0, false, err
	}

	correct, points, err := gradeSubmission(personalized, submission)
	if err != nil {
		return domain.Leaderboard{}, 0, 0, false, err
	}

	lb, total, err := session.applyScore(userID, correct, points)
	awarded := 0
	if correct {
		awarded = points
	}
	return lb, total, awarded, correct, err
}

// Subscribe returns a channel that receives leaderboard updates for a quiz.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(_ context.Context, quizID string) (<-chan domain.Leaderboard, func(), error) {
	session, ok := s.sessions.Get(quizID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// Leave removes a participant from the session and drops the session if empty.
func (s *QuizService) Leave(_ context.Context, quizID string, userID int64) {
	session, ok := s.sessions.Get(quizID)
	if !ok {
		return
	}
	session.leave(userID)
	if session.isEmpty() {
		s.sessions.DeleteIfEmpty(quizID)
	}
}

// gradeSubmission checks the answer against the personalized quiz. Index keys
// compare against the submitted option position (already remapped by
// Personalize); text keys compare case-insensitively against the trimmed
// submission.
func gradeSubmission(quiz domain.Quiz, submission domain.AnswerSubmission) (bool, int, error) {
	var question *domain.Question
	for i := range quiz.Questions {
		if quiz.Questions[i].ID == submission.QuestionID {
			question = &quiz.Questions[i]
			break
		}
	}
	if question == nil {
		return false, 0, domain.ErrQuestionNotFound
	}

	points := question.Points
	if points == 0 {
		points = 1
	}

	key := domain.ParseAnswerKey(question.CorrectAnswer, len(question.Options))
	switch key.Kind {
	case domain.KeyIndex:
		return strings.TrimSpace(submission.Answer) == strconv.Itoa(key.Index), points, nil
	case domain.KeyText:
		return strings.EqualFold(strings.TrimSpace(submission.Answer), key.Text), points, nil
	default:
		return false, 0, domain.ErrQuestionNotGradable
	}
}

// Session is an in-memory representation of a quiz.
type Session struct {
	id           string
	createdAt    time.Time
	now          func() time.Time
	mu           sync.RWMutex
	participants map[int64]*domain.Participant
	subscribers  map[chan domain.Leaderboard]struct{}
}

func newSession(id string) *Session {
	return newSessionWithClock(id, time.Now)
}

// newSessionWithClock allows deterministic timestamps in tests.
func newSessionWithClock(id string, now func() time.Time) *Session {
	return &Session{
		id:           id,
		createdAt:    now(),
		now:          now,
		participants: make(map[int64]*domain.Participant),
		subscribers:  make(map[chan domain.Leaderboard]struct{}),
	}
}

func (s *Session) join(userID int64, displayName string) domain.Leaderboard {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if participant, ok := s.participants[userID]; ok {
		participant.DisplayName = displayName
		participant.LastUpdated = now
	} else {
		s.participants[userID] = &domain.Participant{
			UserID:      userID,
			DisplayName: displayName,
			Score:       0,
			LastUpdated: now,
		}
	}
	return s.broadcastLocked()
}

func (s *Session) applyScore(userID int64, correct bool, points int) (domain.Leaderboard, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	participant, ok := s.participants[userID]
	if !ok {
		return domain.Leaderboard{}, 0, domain.ErrParticipantNotFound
	}

	if correct {
		if points > 0 {
			participant.Score += points
		} else {
			participant.Score++
		}
	}
	participant.LastUpdated = now

	return s.broadcastLocked(), participant.Score, nil
}

func (s *Session) leave(userID int64) domain.Leaderboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.participants, userID)
	return s.broadcastLocked()
}

func (s *Session) isEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.participants) == 0
}

// IsEmpty reports whether the session has no participants.
func (s *Session) IsEmpty() bool {
	return s.isEmpty()
}

func (s *Session) subscribe() (<-chan domain.Leaderboard, func()) {
	ch := make(chan domain.Leaderboard, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.snapshotLocked()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked() domain.Leaderboard {
	lb := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- lb:
		default:
			// Drop the stale update so a slow subscriber cannot block the broadcast.
			select {
			case <-ch:
			default:
			}
			ch <- lb
		}
	}
	return lb
}

func (s *Session) snapshotLocked() domain.Leaderboard {
	entries := make([]domain.LeaderboardEntry, 0, len(s.participants))
	for _, participant := range s.participants {
		entries = append(entries, domain.LeaderboardEntry{
			UserID:      participant.UserID,
			DisplayName: participant.DisplayName,
			Score:       participant.Score,
		})
	}

	// Score desc, then whoever reached the score earlier, then name.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		pi := s.participants[entries[i].UserID]
		pj := s.participants[entries[j].UserID]
		if pi != nil && pj != nil && !pi.LastUpdated.Equal(pj.LastUpdated) {
			return pi.LastUpdated.Before(pj.LastUpdated)
		}
		return entries[i].DisplayName < entries[j].DisplayName
	})

	return domain.Leaderboard{
		QuizID:    s.id,
		Entries:   entries,
		UpdatedAt: s.now(),
	}
}

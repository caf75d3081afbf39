package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"trainee-quiz-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// QuizLoader fetches quiz records from a backing store (e.g., Postgres).
type QuizLoader interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.QuizRecord, error)
}

// QuizRepository caches quiz records with TTL to avoid repeated DB hits.
// Cached records hold the canonical (unshuffled) quiz; personalization always
// happens on a clone downstream of the cache.
type QuizRepository struct {
	loader QuizLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedRecord
}

type cachedRecord struct {
	record    domain.QuizRecord
	expiresAt time.Time
}

func NewQuizRepository(loader QuizLoader, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedRecord),
	}
}

func (r *QuizRepository) GetQuiz(ctx context.Context, quizID string) (domain.QuizRecord, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[quizID]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.record, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(quizID, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[quizID]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.record, nil
		}
		r.mu.RUnlock()

		record, err := r.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			return domain.QuizRecord{}, err
		}

		r.mu.Lock()
		r.cache[quizID] = cachedRecord{
			record:    record,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return record, nil
	})
	if err != nil {
		return domain.QuizRecord{}, err
	}
	return result.(domain.QuizRecord), nil
}

// StaticQuizLoader is a simple loader backed by an in-memory map (useful for tests/demos).
type StaticQuizLoader struct {
	records map[string]domain.QuizRecord
}

func NewStaticQuizLoader(records map[string]domain.QuizRecord) *StaticQuizLoader {
	return &StaticQuizLoader{records: records}
}

func (l *StaticQuizLoader) LoadQuiz(_ context.Context, quizID string) (domain.QuizRecord, error) {
	if record, ok := l.records[quizID]; ok {
		return record, nil
	}
	return domain.QuizRecord{}, domain.ErrQuizNotFound
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

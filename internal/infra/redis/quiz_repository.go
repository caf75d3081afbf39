package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"trainee-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuizLoader fetches quiz records from a backing store (e.g., Postgres).
type QuizLoader interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.QuizRecord, error)
}

// QuizRepository caches whole quiz records in Redis and falls back to a
// loader on cache miss. The full document (prompts, option order, settings)
// is cached because the personalizer needs the canonical order to derive
// per-user permutations; cached bytes are never mutated, every reader
// personalizes its own clone.
//
// Stored as: SET quiz:{quizID}:doc {record JSON} with TTL.
type QuizRepository struct {
	client *redis.Client
	loader QuizLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuizRepository(client *redis.Client, loader QuizLoader, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuizRepository) GetQuiz(ctx context.Context, quizID string) (domain.QuizRecord, error) {
	key := r.docKey(quizID)

	if record, ok := r.fromCache(ctx, key); ok {
		return record, nil
	}

	result, err, _ := r.sf.Do(quizID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if record, ok := r.fromCache(ctx, key); ok {
			return record, nil
		}

		record, err := r.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			return domain.QuizRecord{}, err
		}

		if data, err := json.Marshal(record); err == nil {
			// best-effort write; a failed cache fill is not a load failure
			_ = r.client.Set(ctx, key, data, r.ttlWithJitter()).Err()
		}
		return record, nil
	})
	if err != nil {
		return domain.QuizRecord{}, err
	}
	return result.(domain.QuizRecord), nil
}

func (r *QuizRepository) fromCache(ctx context.Context, key string) (domain.QuizRecord, bool) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil || len(data) == 0 {
		return domain.QuizRecord{}, false
	}
	var record domain.QuizRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return domain.QuizRecord{}, false
	}
	return record, true
}

func (r *QuizRepository) docKey(quizID string) string {
	return "quiz:" + quizID + ":doc"
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

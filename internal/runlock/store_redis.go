package runlock

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	id "houscan/pkg/domain"
)

const (
	lockKeyPrefix     = "eligibility:lock:"
	progressKeyPrefix = "eligibility:progress:"

	// Progress keys outlive their run briefly so a caller polling just after
	// completion still sees the final counts.
	progressTTL = 10 * time.Minute
)

// RedisStore is the distributed lock and progress store. SET NX EX gives the
// atomic test-and-set with expiry the run protocol requires.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Acquire(ctx context.Context, subjectID id.SubjectID) (bool, error) {
	ok, err := s.client.SetNX(ctx, lockKeyPrefix+subjectID.String(), "1", s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire run lock: %w", err)
	}
	return ok, nil
}

func (s *RedisStore) Release(ctx context.Context, subjectID id.SubjectID) error {
	if err := s.client.Del(ctx, lockKeyPrefix+subjectID.String()).Err(); err != nil {
		return fmt.Errorf("release run lock: %w", err)
	}
	return nil
}

func (s *RedisStore) SetProgress(ctx context.Context, subjectID id.SubjectID, done, total int) error {
	value := strconv.Itoa(done) + "/" + strconv.Itoa(total)
	if err := s.client.Set(ctx, progressKeyPrefix+subjectID.String(), value, progressTTL).Err(); err != nil {
		return fmt.Errorf("set run progress: %w", err)
	}
	return nil
}

func (s *RedisStore) Progress(ctx context.Context, subjectID id.SubjectID) (int, int, error) {
	raw, err := s.client.Get(ctx, progressKeyPrefix+subjectID.String()).Result()
	if errors.Is(err, redis.Nil) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, fmt.Errorf("get run progress: %w", err)
	}

	doneStr, totalStr, found := strings.Cut(raw, "/")
	if !found {
		return 0, 0, nil
	}
	done, _ := strconv.Atoi(doneStr)
	total, _ := strconv.Atoi(totalStr)
	return done, total, nil
}

func (s *RedisStore) ClearProgress(ctx context.Context, subjectID id.SubjectID) error {
	if err := s.client.Del(ctx, progressKeyPrefix+subjectID.String()).Err(); err != nil {
		return fmt.Errorf("clear run progress: %w", err)
	}
	return nil
}

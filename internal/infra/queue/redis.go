package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ChaiyasitZ/nlp-project/internal/domain"
)

// RedisAnalysisQueue implements the analysis job queue over a Redis list.
type RedisAnalysisQueue struct {
	client *redis.Client
	key    string
}

var _ domain.AnalysisQueue = (*RedisAnalysisQueue)(nil)

// NewRedisAnalysisQueue builds a queue on the given list key.
func NewRedisAnalysisQueue(client *redis.Client, key string) *RedisAnalysisQueue {
	return &RedisAnalysisQueue{client: client, key: key}
}

// Enqueue publishes a job.
func (q *RedisAnalysisQueue) Enqueue(ctx context.Context, job domain.AnalysisJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("push job: %w", err)
	}
	return nil
}

// Pop blocks until a job is available or ctx is done.
func (q *RedisAnalysisQueue) Pop(ctx context.Context) (domain.AnalysisJob, error) {
	for {
		if err := ctx.Err(); err != nil {
			return domain.AnalysisJob{}, err
		}

		res, err := q.client.BRPop(ctx, time.Second, q.key).Result()
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				if ctx.Err() != nil {
					return domain.AnalysisJob{}, ctx.Err()
				}
				continue
			}
			if errors.Is(err, redis.Nil) {
				continue
			}
			return domain.AnalysisJob{}, err
		}
		if len(res) != 2 {
			return domain.AnalysisJob{}, errors.New("redis queue: unexpected response")
		}
		var job domain.AnalysisJob
		if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
			return domain.AnalysisJob{}, fmt.Errorf("decode job: %w", err)
		}
		return job, nil
	}
}

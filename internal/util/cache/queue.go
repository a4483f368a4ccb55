package cache_utils

import (
	"context"
	"time"

	"github.com/valkey-io/valkey-go"
)

const DefaultQueueTimeout = 5 * time.Second

// ValkeyQueueService is a list-backed queue: producers LPUSH, consumers
// RPOP, so the list tail is always the oldest item.
type ValkeyQueueService struct {
	client  valkey.Client
	timeout time.Duration
}

func NewValkeyQueueService(client valkey.Client) *ValkeyQueueService {
	return &ValkeyQueueService{
		client:  client,
		timeout: DefaultQueueTimeout,
	}
}

func (q *ValkeyQueueService) EnqueueBatch(ctx context.Context, queueKey string, items [][]byte) error {
	if len(items) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	// Use pipeline for batch operations to handle high throughput
	cmds := make([]valkey.Completed, 0, len(items))

	for _, item := range items {
		cmd := q.client.B().Lpush().Key(queueKey).Element(string(item)).Build()
		cmds = append(cmds, cmd)
	}

	results := q.client.DoMulti(ctx, cmds...)

	for _, result := range results {
		if result.Error() != nil {
			return result.Error()
		}
	}

	return nil
}

// QueueLength returns how many items wait in queueKey. It also fails when the
// key holds something other than a list.
func (q *ValkeyQueueService) QueueLength(ctx context.Context, queueKey string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	cmd := q.client.B().Llen().Key(queueKey).Build()
	result := q.client.Do(ctx, cmd)

	if result.Error() != nil {
		return 0, result.Error()
	}

	return result.AsInt64()
}

func (q *ValkeyQueueService) Close() {
	q.client.Close()
}

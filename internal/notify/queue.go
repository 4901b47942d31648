// Package notify enqueues out-of-band notification payloads. Delivery is a
// separate subsystem's concern; this package only guarantees the enqueue
// contract: best effort, never inside a caller's commit boundary.
package notify

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Notification is the payload pushed per recipient.
type Notification struct {
	Type      string `json:"type"`
	SkillID   string `json:"skillId"`
	CadetID   string `json:"cadetId"`
	RequestID string `json:"requestId"`
	SkillName string `json:"skillName"`
}

// Enqueuer is the outbound queue abstraction. Injected so handlers can be
// tested with a fake.
type Enqueuer interface {
	Enqueue(ctx context.Context, recipientID string, n Notification) error
}

// RedisQueue enqueues onto a Redis Stream consumed by the dispatcher group.
type RedisQueue struct {
	client *redis.Client
	stream string
	group  string
}

func NewRedisQueue(client *redis.Client, stream, group string) *RedisQueue {
	return &RedisQueue{client: client, stream: stream, group: group}
}

// EnsureGroup creates the stream and consumer group if missing. Safe to call
// repeatedly; an existing group is not an error.
func (q *RedisQueue) EnsureGroup(ctx context.Context) error {
	err := q.client.XGroupCreateMkStream(ctx, q.stream, q.group, "0").Err()
	if err != nil && !isBusyGroup(err) {
		return err
	}
	return nil
}

// Enqueue appends one payload for one recipient. If the stream or group is
// missing it is provisioned and the append retried once; a second failure is
// returned to the caller, who logs and moves on.
func (q *RedisQueue) Enqueue(ctx context.Context, recipientID string, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	args := &redis.XAddArgs{
		Stream: q.stream,
		Values: map[string]interface{}{
			"recipient": recipientID,
			"payload":   string(payload),
		},
	}
	if err := q.client.XAdd(ctx, args).Err(); err != nil {
		if ensureErr := q.EnsureGroup(ctx); ensureErr != nil {
			return ensureErr
		}
		return q.client.XAdd(ctx, args).Err()
	}
	return nil
}

func isBusyGroup(err error) bool {
	return err != nil && strings.Contains(err.Error(), "BUSYGROUP")
}

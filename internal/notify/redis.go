package notify

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"
)

const eventChannel = "collab:events"

// RedisNotifier publishes events to a Redis pub/sub channel so sibling
// processes (notification service, UI gateways) can react.
type RedisNotifier struct {
	client *redis.Client
}

func NewRedisNotifier(addr string) *RedisNotifier {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "", // No password set
		DB:       0,  // Use default DB
	})

	return &RedisNotifier{client: client}
}

func (r *RedisNotifier) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return r.client.Publish(ctx, eventChannel, payload).Err()
}

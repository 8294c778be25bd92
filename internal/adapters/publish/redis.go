// Package publish hands finished plans to downstream consumers.
package publish

import (
	"context"
	"dispatch-planner/internal/domain"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPublishTimeout = 2 * time.Second

// ChannelName is the pub/sub channel carrying plans for one dispatch day.
func ChannelName(date string) string { return "plans:" + date }

// RedisPlanPublisher implements PlanPublisher over Redis Pub/Sub.
// Plans are fire-and-forget: nothing is written to the keyspace.
type RedisPlanPublisher struct {
	rdb     *redis.Client
	timeout time.Duration
}

// NewRedisPlanPublisher connects to a redis:// URL.
func NewRedisPlanPublisher(url string) (*RedisPlanPublisher, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis publisher: parse url: %w", err)
	}
	return NewRedisPlanPublisherFromClient(redis.NewClient(opt)), nil
}

func NewRedisPlanPublisherFromClient(rdb *redis.Client) *RedisPlanPublisher {
	return &RedisPlanPublisher{rdb: rdb, timeout: defaultPublishTimeout}
}

func (p *RedisPlanPublisher) Publish(ctx context.Context, plan domain.Plan) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("publish plan: encode run_id=%s: %w", plan.RunID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.rdb.Publish(ctx, ChannelName(plan.Date), data).Err(); err != nil {
		return fmt.Errorf("publish plan: channel=%s: %w", ChannelName(plan.Date), err)
	}
	return nil
}

func (p *RedisPlanPublisher) Ping(ctx context.Context) error {
	if err := p.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis publisher: ping: %w", err)
	}
	return nil
}

func (p *RedisPlanPublisher) Close() error {
	return p.rdb.Close()
}

// NoopPublisher discards plans. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, domain.Plan) error { return nil }

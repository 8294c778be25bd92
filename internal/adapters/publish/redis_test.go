package publish

import (
	"context"
	"dispatch-planner/internal/domain"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"
)

func TestRedisPlanPublisherPublish(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	sub := rdb.Subscribe(ctx, ChannelName("2026-03-02"))
	t.Cleanup(func() { _ = sub.Close() })
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	plan := domain.Plan{
		RunID:     "run-1",
		Date:      "2026-03-02",
		Algorithm: "nearest",
		Routes: []domain.Route{{
			Vehicle:         domain.Vehicle{ID: 1, Name: "Daily", Capacity: 100},
			Stops:           []domain.Stop{{ID: 4, Name: "WH/OUT/0004", Weight: 10}},
			TotalWeight:     10,
			TotalDistanceKm: 3.5,
			Zone:            "Zurigo",
		}},
		UnassignedStopIDs: []int{9},
		CreatedAt:         time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC),
	}

	pub := NewRedisPlanPublisherFromClient(rdb)
	if err := pub.Publish(ctx, plan); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case msg := <-sub.Channel():
		if msg.Channel != "plans:2026-03-02" {
			t.Fatalf("channel = %q, want plans:2026-03-02", msg.Channel)
		}
		var got domain.Plan
		if err := json.Unmarshal([]byte(msg.Payload), &got); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if diff := cmp.Diff(plan, got); diff != "" {
			t.Fatalf("plan mismatch (-want +got):\n%s", diff)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for published plan")
	}

	if keys := mr.Keys(); len(keys) != 0 {
		t.Fatalf("publisher wrote keys %v, want none", keys)
	}
}

func TestRedisPlanPublisherUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	pub, err := NewRedisPlanPublisher("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("NewRedisPlanPublisher: %v", err)
	}
	t.Cleanup(func() { _ = pub.Close() })

	if err := pub.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	mr.Close()
	if err := pub.Publish(context.Background(), domain.Plan{Date: "2026-03-02"}); err == nil {
		t.Fatalf("expected error after server shutdown")
	}
}

func TestNewRedisPlanPublisherBadURL(t *testing.T) {
	if _, err := NewRedisPlanPublisher("http://nope"); err == nil {
		t.Fatalf("expected error for non-redis url")
	}
}

func TestNoopPublisher(t *testing.T) {
	if err := (NoopPublisher{}).Publish(context.Background(), domain.Plan{}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
}

//go:build integration
// +build integration

package auth

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisSessionStore, *redis.Client) {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("failed to reach redis at %s: %v", addr, err)
	}
	return NewRedisSessionStore(rdb, ttl), rdb
}

func TestRedisSessionStore_Integration(t *testing.T) {
	ctx := context.Background()
	store, rdb := newRedisStore(t, time.Hour)
	member := uuid.New()
	bystander := uuid.New()

	first, err := store.Create(ctx, member)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	second, _ := store.Create(ctx, member)
	other, _ := store.Create(ctx, bystander)
	t.Cleanup(func() { _ = store.RevokeAllForMember(ctx, bystander) })

	sess, err := store.Get(ctx, first)
	if err != nil || sess.MemberID != member {
		t.Fatalf("expected session for member, got %+v / %v", sess, err)
	}
	if ttl := rdb.TTL(ctx, sessionKey(first)).Val(); ttl <= 0 || ttl > time.Hour {
		t.Errorf("expected session key to expire within an hour, got %v", ttl)
	}

	if err := store.Delete(ctx, first); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := store.Get(ctx, first); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected deleted session to be gone, got %v", err)
	}
	if ids := rdb.SMembers(ctx, memberSetKey(member)).Val(); len(ids) != 1 || ids[0] != second {
		t.Errorf("expected only %s left in the member set, got %v", second, ids)
	}
	if err := store.Delete(ctx, first); err != nil {
		t.Errorf("deleting a missing session should be a no-op, got %v", err)
	}

	if err := store.RevokeAllForMember(ctx, member); err != nil {
		t.Fatalf("RevokeAllForMember returned error: %v", err)
	}
	if _, err := store.Get(ctx, second); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected revoked session to be gone, got %v", err)
	}
	if n := rdb.Exists(ctx, memberSetKey(member)).Val(); n != 0 {
		t.Errorf("expected member set to be removed, got %d", n)
	}
	if _, err := store.Get(ctx, other); err != nil {
		t.Errorf("expected other member's session to survive, got %v", err)
	}
}

func TestRedisSessionStore_Expiry_Integration(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t, time.Second)

	id, err := store.Create(ctx, uuid.New())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	time.Sleep(1500 * time.Millisecond)

	if _, err := store.Get(ctx, id); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected expired session to be gone, got %v", err)
	}
}

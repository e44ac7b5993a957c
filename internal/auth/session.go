package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const SessionCookie = "sessionid"

var ErrSessionNotFound = errors.New("session not found")

type Session struct {
	MemberID  uuid.UUID `json:"mid"`
	IssuedAt  int64     `json:"iat"`
	ExpiresAt int64     `json:"exp"`
}

type SessionStore interface {
	Create(ctx context.Context, memberID uuid.UUID) (string, error)
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	RevokeAllForMember(ctx context.Context, memberID uuid.UUID) error
	TTL() time.Duration
}

// RedisSessionStore keeps each session as JSON under its own key and
// tracks every member's session ids in a set so they can be revoked together.
type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

func sessionKey(id string) string {
	return fmt.Sprintf("library:sess:%s", id)
}

func memberSetKey(memberID uuid.UUID) string {
	return fmt.Sprintf("library:member_sessions:%s", memberID)
}

func (s *RedisSessionStore) TTL() time.Duration { return s.ttl }

func (s *RedisSessionStore) Create(ctx context.Context, memberID uuid.UUID) (string, error) {
	id := uuid.NewString()
	now := time.Now()

	b, err := json.Marshal(Session{
		MemberID:  memberID,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.ttl).Unix(),
	})
	if err != nil {
		return "", err
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, sessionKey(id), b, s.ttl)
	pipe.SAdd(ctx, memberSetKey(memberID), id)
	pipe.Expire(ctx, memberSetKey(memberID), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}
	return id, nil
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	b, err := s.rdb.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	sess, err := s.Get(ctx, id)
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}

	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, sessionKey(id))
	if sess != nil {
		pipe.SRem(ctx, memberSetKey(sess.MemberID), id)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// RevokeAllForMember ends every session of a member, used when the member
// is deleted.
func (s *RedisSessionStore) RevokeAllForMember(ctx context.Context, memberID uuid.UUID) error {
	ids, err := s.rdb.SMembers(ctx, memberSetKey(memberID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	pipe := s.rdb.TxPipeline()
	for _, id := range ids {
		pipe.Del(ctx, sessionKey(id))
	}
	pipe.Del(ctx, memberSetKey(memberID))
	_, err = pipe.Exec(ctx)
	return err
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"main/model"

	"github.com/redis/go-redis/v9"
)

const clientProfileKey = "clientProfile"

// ProfileStore persists the client-profile session between process runs.
// It holds at most one serialized record under a single key.
type ProfileStore interface {
	Load(ctx context.Context) (*model.ClientProfileSession, error)
	Save(ctx context.Context, session *model.ClientProfileSession) error
	Clear(ctx context.Context) error
}

// RedisProfileStore is the Redis-backed ProfileStore.
type RedisProfileStore struct {
	client *redis.Client
}

func NewRedisProfileStore(redisURL string) (*RedisProfileStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}
	return &RedisProfileStore{client: redis.NewClient(opts)}, nil
}

// Load returns the stored client-profile session, (nil, nil) when none is
// stored, and an error when the stored value cannot be parsed. The caller
// decides whether a parse failure clears the entry.
func (s *RedisProfileStore) Load(ctx context.Context) (*model.ClientProfileSession, error) {
	data, err := s.client.Get(ctx, clientProfileKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read client profile session: %v", err)
	}

	var session model.ClientProfileSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("malformed client profile session: %v", err)
	}
	if session.ID == "" {
		return nil, fmt.Errorf("malformed client profile session: missing id")
	}

	return &session, nil
}

func (s *RedisProfileStore) Save(ctx context.Context, session *model.ClientProfileSession) error {
	if session == nil {
		return fmt.Errorf("cannot store nil session")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal client profile session: %v", err)
	}

	if err := s.client.Set(ctx, clientProfileKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store client profile session: %v", err)
	}

	return nil
}

func (s *RedisProfileStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, clientProfileKey).Err(); err != nil {
		log.Printf("Error clearing client profile session: %v", err)
		return err
	}
	return nil
}

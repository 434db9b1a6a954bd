package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ErrMalformedSelection is returned when the persisted value is not a JSON list of names
var ErrMalformedSelection = errors.New("malformed persisted selection")

// SelectionStore persists a visitor's selected product names
type SelectionStore interface {
	LoadSelection(ctx context.Context, visitorID string) ([]string, error)
	SaveSelection(ctx context.Context, visitorID string, names []string) error
}

type redisSelectionStore struct {
	redisClient *redis.Client
	keyPrefix   string
}

func NewRedisSelectionStore(redisClient *redis.Client) SelectionStore {
	return &redisSelectionStore{
		redisClient: redisClient,
		keyPrefix:   "routine:selection:",
	}
}

func (s *redisSelectionStore) LoadSelection(ctx context.Context, visitorID string) ([]string, error) {
	key := s.keyPrefix + visitorID
	val, err := s.redisClient.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Nothing saved yet
		}
		return nil, fmt.Errorf("failed to get selection for visitor %s: %w", visitorID, err)
	}

	return decodeNames([]byte(val))
}

func (s *redisSelectionStore) SaveSelection(ctx context.Context, visitorID string, names []string) error {
	key := s.keyPrefix + visitorID
	raw, err := encodeNames(names)
	if err != nil {
		return err
	}
	if err := s.redisClient.Set(ctx, key, raw, 0).Err(); err != nil { // No expiration
		return fmt.Errorf("failed to set selection for visitor %s: %w", visitorID, err)
	}
	return nil
}

func encodeNames(names []string) ([]byte, error) {
	if names == nil {
		names = []string{}
	}
	raw, err := json.Marshal(names)
	if err != nil {
		return nil, fmt.Errorf("failed to encode selection: %w", err)
	}
	return raw, nil
}

func decodeNames(raw []byte) ([]string, error) {
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSelection, err)
	}
	return names, nil
}

package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/oauth2"
)

// TokenStore caches the service token between requests. Load returns
// (nil, nil) when nothing is cached.
type TokenStore interface {
	Load(ctx context.Context) (*oauth2.Token, error)
	Save(ctx context.Context, tok *oauth2.Token) error
	Clear(ctx context.Context) error
}

// MemoryStore keeps the token in process memory.
type MemoryStore struct {
	mu  sync.Mutex
	tok *oauth2.Token
}

func (s *MemoryStore) Load(context.Context) (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tok, nil
}

func (s *MemoryStore) Save(_ context.Context, tok *oauth2.Token) error {
	s.mu.Lock()
	s.tok = tok
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	s.tok = nil
	s.mu.Unlock()
	return nil
}

// DefaultRedisKey is where RedisStore keeps the service token.
const DefaultRedisKey = "moodify:spotify:service_token"

// RedisStore shares the service token between replicas. Entries expire
// together with the token so a stale value is never served.
type RedisStore struct {
	Client *redis.Client
	Key    string
}

// NewRedisStore returns a store using the default key.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{Client: client, Key: DefaultRedisKey}
}

func (s *RedisStore) Load(ctx context.Context) (*oauth2.Token, error) {
	data, err := s.Client.Get(ctx, s.Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

func (s *RedisStore) Save(ctx context.Context, tok *oauth2.Token) error {
	var ttl time.Duration
	if !tok.Expiry.IsZero() {
		ttl = time.Until(tok.Expiry)
		if ttl <= 0 {
			return nil
		}
	}
	data, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, s.Key, data, ttl).Err()
}

func (s *RedisStore) Clear(ctx context.Context) error {
	return s.Client.Del(ctx, s.Key).Err()
}

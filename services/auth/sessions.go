package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/voyago/travelplanner/internal/pkg/constants"
	"github.com/voyago/travelplanner/internal/pkg/database"
	"github.com/voyago/travelplanner/internal/pkg/models"
)

// ErrSessionNotFound is returned when a token does not map to a live session
var ErrSessionNotFound = errors.New("session not found or expired")

// SessionStore issues and resolves opaque bearer tokens backed by Redis.
// Tokens expire server-side; the client never decodes them.
type SessionStore struct {
	redis *database.RedisClient
	ttl   time.Duration
}

// NewSessionStore creates a session store with the configured TTL
func NewSessionStore(redisClient *database.RedisClient, cfg models.SessionConfig) *SessionStore {
	return &SessionStore{
		redis: redisClient,
		ttl:   time.Duration(cfg.TTLHours) * time.Hour,
	}
}

// Create issues a fresh token for the user
func (s *SessionStore) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(buf)

	key := fmt.Sprintf(constants.KeySession, token)
	if err := s.redis.Set(ctx, key, userID.String(), s.ttl); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

// Resolve maps a token back to its user ID. Implements the auth middleware's
// token resolver.
func (s *SessionStore) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	key := fmt.Sprintf(constants.KeySession, token)
	val, err := s.redis.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, ErrSessionNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to resolve session: %w", err)
	}

	userID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, fmt.Errorf("corrupt session value: %w", err)
	}
	return userID, nil
}

// Delete invalidates a token. Deleting an unknown token is a no-op.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	key := fmt.Sprintf(constants.KeySession, token)
	return s.redis.Delete(ctx, key)
}

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"groceryMarket/domain"

	"github.com/redis/go-redis/v9"
)

// SessionData is stored per issued token so logout can revoke it before expiry.
type SessionData struct {
	UserID    string    `json:"user_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SessionRepository struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{
		client: client,
	}
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:token:%s", token)
}

func (r *SessionRepository) StoreSession(ctx context.Context, token, userID string, ttl time.Duration) error {
	now := time.Now().UTC()
	data := SessionData{
		UserID:    userID,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	if err := r.client.Set(ctx, sessionKey(token), jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session in Redis: %w", err)
	}

	return nil
}

// ValidateSession returns the user ID bound to token.
func (r *SessionRepository) ValidateSession(ctx context.Context, token string) (string, error) {
	val, err := r.client.Get(ctx, sessionKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("session %w", domain.ErrNotFound)
		}
		return "", fmt.Errorf("failed to validate session: %w", err)
	}

	var data SessionData
	if err := json.Unmarshal([]byte(val), &data); err != nil {
		return "", fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	return data.UserID, nil
}

func (r *SessionRepository) RevokeSession(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

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

// CartTTL is refreshed on every save; abandoned carts expire after a week.
const CartTTL = 7 * 24 * time.Hour

// maxCartRetries bounds optimistic retries when another writer touches the
// same cart between WATCH and EXEC.
const maxCartRetries = 10

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

type CartRepository struct {
	client *redis.Client
}

func NewCartRepository(client *redis.Client) *CartRepository {
	return &CartRepository{
		client: client,
	}
}

func cartKey(userID string) string {
	return fmt.Sprintf("cart:user:%s", userID)
}

// GetCart returns an empty cart when none is stored.
func (r *CartRepository) GetCart(ctx context.Context, userID string) (domain.Cart, error) {
	return readCart(ctx, r.client, userID)
}

func readCart(ctx context.Context, g getter, userID string) (domain.Cart, error) {
	val, err := g.Get(ctx, cartKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Cart{UserID: userID, Items: []domain.CartItem{}}, nil
		}
		return domain.Cart{}, fmt.Errorf("failed to get cart from Redis: %w", err)
	}

	var items []domain.CartItem
	if err := json.Unmarshal(val, &items); err != nil {
		return domain.Cart{}, fmt.Errorf("failed to unmarshal cart: %w", err)
	}

	return domain.Cart{UserID: userID, Items: items}, nil
}

// UpdateCart applies apply to the stored cart inside a WATCH transaction and
// retries when a concurrent write invalidates it.
func (r *CartRepository) UpdateCart(ctx context.Context, userID string, apply func(domain.Cart) (domain.Cart, error)) (domain.Cart, error) {
	key := cartKey(userID)
	var updated domain.Cart

	txf := func(tx *redis.Tx) error {
		current, err := readCart(ctx, tx, userID)
		if err != nil {
			return err
		}

		next, err := apply(current)
		if err != nil {
			return err
		}
		next.UserID = userID

		var payload []byte
		if len(next.Items) > 0 {
			payload, err = json.Marshal(next.Items)
			if err != nil {
				return fmt.Errorf("failed to marshal cart: %w", err)
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if payload == nil {
				pipe.Del(ctx, key)
				return nil
			}
			pipe.Set(ctx, key, payload, CartTTL)
			return nil
		})
		if err != nil {
			return err
		}

		updated = next
		return nil
	}

	for i := 0; i < maxCartRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return domain.Cart{}, err
	}

	return domain.Cart{}, fmt.Errorf("cart update %w: too many concurrent writes", domain.ErrConflict)
}

func (r *CartRepository) DeleteCart(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// redeemScript decrements the balance only when it covers the request, so two
// concurrent redemptions cannot overdraw it.
var redeemScript = redis.NewScript(`
local balance = tonumber(redis.call("GET", KEYS[1]) or "0")
local amount = tonumber(ARGV[1])
if amount > balance then
	return {0, balance}
end
return {1, redis.call("DECRBY", KEYS[1], amount)}
`)

type PointsRepository struct {
	client *redis.Client
}

func NewPointsRepository(client *redis.Client) *PointsRepository {
	return &PointsRepository{
		client: client,
	}
}

func pointsKey(userID string) string {
	return fmt.Sprintf("loyalty:points:%s", userID)
}

func (r *PointsRepository) Balance(ctx context.Context, userID string) (int64, error) {
	balance, err := r.client.Get(ctx, pointsKey(userID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get points: %w", err)
	}
	return balance, nil
}

func (r *PointsRepository) Add(ctx context.Context, userID string, points int64) (int64, error) {
	balance, err := r.client.IncrBy(ctx, pointsKey(userID), points).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to add points: %w", err)
	}
	return balance, nil
}

func (r *PointsRepository) Redeem(ctx context.Context, userID string, points int64) (bool, int64, error) {
	res, err := redeemScript.Run(ctx, r.client, []string{pointsKey(userID)}, points).Int64Slice()
	if err != nil {
		return false, 0, fmt.Errorf("failed to redeem points: %w", err)
	}
	if len(res) != 2 {
		return false, 0, fmt.Errorf("unexpected redeem reply %v", res)
	}

	return res[0] == 1, res[1], nil
}

package loyalty

import (
	"context"
	"testing"

	"groceryMarket/domain"
	"groceryMarket/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEarn_FixedAmounts(t *testing.T) {
	ctx := context.Background()
	svc := NewLoyaltyService(memory.NewPointsRepository())

	balance, err := svc.Earn(ctx, "u1", EventOrderPlaced)
	require.NoError(t, err)
	assert.Equal(t, int64(50), balance)

	balance, err = svc.Earn(ctx, "u1", EventDailyCheckIn)
	require.NoError(t, err)
	assert.Equal(t, int64(55), balance)

	_, err = svc.Earn(ctx, "u1", "birthday")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRedeem_MoreThanBalanceIsRejected(t *testing.T) {
	ctx := context.Background()
	svc := NewLoyaltyService(memory.NewPointsRepository())
	_, err := svc.Earn(ctx, "u1", EventReviewPosted)
	require.NoError(t, err)

	ok, balance, err := svc.Redeem(ctx, "u1", 25)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(10), balance)

	ok, balance, err = svc.Redeem(ctx, "u1", 10)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, balance)

	_, _, err = svc.Redeem(ctx, "u1", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

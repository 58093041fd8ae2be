package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"groceryMarket/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewCartRepository()

	require.NoError(t, r.SaveCart(ctx, domain.Cart{UserID: "u1", Items: []domain.CartItem{{VendorID: "v1", ItemID: "i1", Quantity: 1}}}))

	cart, err := r.GetCart(ctx, "u1")
	require.NoError(t, err)
	cart.Items[0].Quantity = 99

	again, err := r.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Items[0].Quantity)

	require.NoError(t, r.DeleteCart(ctx, "u1"))
	empty, err := r.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
}

func TestPointsRepository_ConcurrentRedeemNeverOverdraws(t *testing.T) {
	ctx := context.Background()
	r := NewPointsRepository()
	_, err := r.Add(ctx, "u1", 100)
	require.NoError(t, err)

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		won int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, _, err := r.Redeem(ctx, "u1", 30)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				won++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	balance, err := r.Balance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, won)
	assert.Equal(t, int64(10), balance)
}

func TestSessionRepository_Expiry(t *testing.T) {
	ctx := context.Background()
	r := NewSessionRepository()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	require.NoError(t, r.StoreSession(ctx, "tok", "u1", time.Minute))
	userID, err := r.ValidateSession(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	now = now.Add(2 * time.Minute)
	_, err = r.ValidateSession(ctx, "tok")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, r.StoreSession(ctx, "tok2", "u1", time.Hour))
	require.NoError(t, r.RevokeSession(ctx, "tok2"))
	_, err = r.ValidateSession(ctx, "tok2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCartRepository_ConcurrentUpdatesKeepEveryIncrement(t *testing.T) {
	ctx := context.Background()
	r := NewCartRepository()

	addOne := func(c domain.Cart) (domain.Cart, error) {
		// widen the window between read and write
		time.Sleep(time.Millisecond)
		if len(c.Items) == 0 {
			c.Items = []domain.CartItem{{VendorID: "v1", ItemID: "apple", Quantity: 1}}
			return c, nil
		}
		c.Items[0].Quantity++
		return c, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.UpdateCart(ctx, "u1", addOne)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	cart, err := r.GetCart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 50, cart.Items[0].Quantity)
}

func TestCartRepository_UpdateErrorLeavesCartUntouched(t *testing.T) {
	ctx := context.Background()
	r := NewCartRepository()
	require.NoError(t, r.SaveCart(ctx, domain.Cart{UserID: "u1", Items: []domain.CartItem{{VendorID: "v1", ItemID: "i1", Quantity: 2}}}))

	_, err := r.UpdateCart(ctx, "u1", func(c domain.Cart) (domain.Cart, error) {
		c.Items = nil
		return c, domain.ErrInvalidInput
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	cart, err := r.GetCart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestSessionRepository_StoreSweepsExpired(t *testing.T) {
	ctx := context.Background()
	r := NewSessionRepository()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	for _, tok := range []string{"a", "b", "c"} {
		require.NoError(t, r.StoreSession(ctx, tok, "u1", time.Minute))
	}
	require.Equal(t, 3, r.Len())

	now = now.Add(2 * time.Minute)
	require.NoError(t, r.StoreSession(ctx, "d", "u1", time.Minute))
	assert.Equal(t, 1, r.Len())
}

// Package memory holds cart, loyalty and session state in process. It backs a
// single instance when no redis is configured.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"groceryMarket/domain"
)

type CartRepository struct {
	mu    sync.RWMutex
	carts map[string][]domain.CartItem
	locks map[string]*sync.Mutex
}

func NewCartRepository() *CartRepository {
	return &CartRepository{
		carts: make(map[string][]domain.CartItem),
		locks: make(map[string]*sync.Mutex),
	}
}

func (r *CartRepository) userLock(userID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[userID] = l
	}
	return l
}

// UpdateCart runs apply against the stored cart and saves its result while
// holding the user's lock, so concurrent updates for one user serialize.
func (r *CartRepository) UpdateCart(ctx context.Context, userID string, apply func(domain.Cart) (domain.Cart, error)) (domain.Cart, error) {
	l := r.userLock(userID)
	l.Lock()
	defer l.Unlock()

	current, err := r.GetCart(ctx, userID)
	if err != nil {
		return domain.Cart{}, err
	}

	next, err := apply(current)
	if err != nil {
		return domain.Cart{}, err
	}
	next.UserID = userID

	if err := r.SaveCart(ctx, next); err != nil {
		return domain.Cart{}, err
	}
	return next, nil
}

func (r *CartRepository) GetCart(_ context.Context, userID string) (domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]domain.CartItem, len(r.carts[userID]))
	copy(items, r.carts[userID])
	return domain.Cart{UserID: userID, Items: items}, nil
}

func (r *CartRepository) SaveCart(_ context.Context, cart domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(cart.Items) == 0 {
		delete(r.carts, cart.UserID)
		return nil
	}
	items := make([]domain.CartItem, len(cart.Items))
	copy(items, cart.Items)
	r.carts[cart.UserID] = items
	return nil
}

func (r *CartRepository) DeleteCart(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, userID)
	return nil
}

type PointsRepository struct {
	mu       sync.Mutex
	balances map[string]int64
}

func NewPointsRepository() *PointsRepository {
	return &PointsRepository{balances: make(map[string]int64)}
}

func (r *PointsRepository) Balance(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.balances[userID], nil
}

func (r *PointsRepository) Add(_ context.Context, userID string, points int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances[userID] += points
	return r.balances[userID], nil
}

func (r *PointsRepository) Redeem(_ context.Context, userID string, points int64) (bool, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	balance := r.balances[userID]
	if points > balance {
		return false, balance, nil
	}
	r.balances[userID] = balance - points
	return true, r.balances[userID], nil
}

type session struct {
	userID    string
	expiresAt time.Time
}

type SessionRepository struct {
	mu       sync.Mutex
	sessions map[string]session
	now      func() time.Time
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]session),
		now:      time.Now,
	}
}

// StoreSession also drops every expired session it finds.
func (r *SessionRepository) StoreSession(_ context.Context, token, userID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for t, s := range r.sessions {
		if now.After(s.expiresAt) {
			delete(r.sessions, t)
		}
	}
	r.sessions[token] = session{userID: userID, expiresAt: now.Add(ttl)}
	return nil
}

// Len reports how many sessions are held.
func (r *SessionRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *SessionRepository) ValidateSession(_ context.Context, token string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[token]
	if !ok {
		return "", fmt.Errorf("session %w", domain.ErrNotFound)
	}
	if r.now().After(s.expiresAt) {
		delete(r.sessions, token)
		return "", fmt.Errorf("session %w", domain.ErrNotFound)
	}
	return s.userID, nil
}

func (r *SessionRepository) RevokeSession(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}

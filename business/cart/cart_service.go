package cart

import (
	"context"
	"errors"
	"fmt"

	"groceryMarket/domain"
	"groceryMarket/pkg/logger"
	"groceryMarket/pkg/metrics"

	"github.com/go-playground/validator/v10"
)

const (
	ActionAddItem    = "ADD_ITEM"
	ActionRemoveItem = "REMOVE_ITEM"
	ActionClear      = "CLEAR"
)

type Action struct {
	Type string          `json:"type"`
	Item domain.CartItem `json:"item"`
}

// Reduce applies action to c and returns the new cart. c is not modified.
// Lines from several vendors may coexist.
func Reduce(c domain.Cart, action Action) (domain.Cart, error) {
	next := domain.Cart{UserID: c.UserID, Items: make([]domain.CartItem, len(c.Items))}
	copy(next.Items, c.Items)

	switch action.Type {
	case ActionAddItem:
		item := action.Item
		if item.Quantity <= 0 {
			item.Quantity = 1
		}
		for i := range next.Items {
			if next.Items[i].VendorID == item.VendorID && next.Items[i].ItemID == item.ItemID {
				next.Items[i].Quantity += item.Quantity
				return next, nil
			}
		}
		next.Items = append(next.Items, item)
	case ActionRemoveItem:
		kept := next.Items[:0]
		for _, it := range next.Items {
			if it.VendorID == action.Item.VendorID && it.ItemID == action.Item.ItemID {
				continue
			}
			kept = append(kept, it)
		}
		next.Items = kept
	case ActionClear:
		next.Items = []domain.CartItem{}
	default:
		return c, fmt.Errorf("%w: unknown cart action %q", domain.ErrInvalidInput, action.Type)
	}

	return next, nil
}

// CartRepository stores one cart per user. UpdateCart must run apply and
// persist its result atomically with respect to other updates of that cart.
type CartRepository interface {
	GetCart(ctx context.Context, userID string) (domain.Cart, error)
	UpdateCart(ctx context.Context, userID string, apply func(domain.Cart) (domain.Cart, error)) (domain.Cart, error)
	DeleteCart(ctx context.Context, userID string) error
}

type cartService struct {
	cartRepo CartRepository
	validate *validator.Validate
}

func NewCartService(cartRepo CartRepository, validate *validator.Validate) *cartService {
	return &cartService{
		cartRepo: cartRepo,
		validate: validate,
	}
}

func (s *cartService) GetCart(ctx context.Context, userID string) (domain.Cart, error) {
	c, err := s.cartRepo.GetCart(ctx, userID)
	if err != nil {
		logger.Error("Failed to load cart", err, "user_id", userID)
		return domain.Cart{}, err
	}
	return c, nil
}

func (s *cartService) Dispatch(ctx context.Context, userID string, action Action) (domain.Cart, error) {
	if action.Type == ActionAddItem || action.Type == ActionRemoveItem {
		if err := s.validate.Struct(action.Item); err != nil {
			return domain.Cart{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
	}

	next, err := s.cartRepo.UpdateCart(ctx, userID, func(current domain.Cart) (domain.Cart, error) {
		return Reduce(current, action)
	})
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidInput) {
			logger.Error("Failed to save cart", err, "user_id", userID)
		}
		return domain.Cart{}, err
	}

	metrics.CartActions.WithLabelValues(action.Type).Inc()
	return next, nil
}

func (s *cartService) ClearCart(ctx context.Context, userID string) error {
	if err := s.cartRepo.DeleteCart(ctx, userID); err != nil {
		logger.Error("Failed to clear cart", err, "user_id", userID)
		return err
	}
	metrics.CartActions.WithLabelValues(ActionClear).Inc()
	return nil
}

package orders

import (
	"context"
	"fmt"

	"groceryMarket/domain"
	"groceryMarket/pkg/logger"

	"github.com/google/uuid"
)

type OrdersRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindAll(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	FindByID(ctx context.Context, id string) (domain.Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type ProductsRepository interface {
	FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
}

type VendorLookup interface {
	FindByUserID(ctx context.Context, userID string) (domain.Vendor, error)
}

// DeliveryLookup lists the deliveries a rider holds.
type DeliveryLookup interface {
	FindByRider(ctx context.Context, riderID string) ([]domain.Delivery, error)
}

type OrdersService struct {
	orderRepo    OrdersRepository
	productsRepo ProductsRepository
	vendors      VendorLookup
	deliveries   DeliveryLookup
}

func NewOrdersService(orderRepo OrdersRepository, productsRepo ProductsRepository, vendors VendorLookup, deliveries DeliveryLookup) *OrdersService {
	return &OrdersService{
		orderRepo:    orderRepo,
		productsRepo: productsRepo,
		vendors:      vendors,
		deliveries:   deliveries,
	}
}

type OrderItemInput struct {
	ProductID string
	Quantity  int
}

type CreateOrderInput struct {
	VendorID        string
	DeliveryAddress string
	Notes           string
	Items           []OrderItemInput
}

// Actor is the authenticated caller an order operation runs for.
type Actor struct {
	UserID string
	Role   string
}

// CreateOrder prices every line from the current product row. Stock is not
// reserved or decremented.
func (s *OrdersService) CreateOrder(ctx context.Context, customerID string, in CreateOrderInput) (domain.Order, error) {
	if in.VendorID == "" {
		return domain.Order{}, fmt.Errorf("%w: vendor id is required", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return domain.Order{}, fmt.Errorf("%w: order has no items", domain.ErrInvalidInput)
	}

	ids := make([]string, 0, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return domain.Order{}, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
		}
		ids = append(ids, it.ProductID)
	}

	products, err := s.productsRepo.FindByIDs(ctx, ids)
	if err != nil {
		logger.Error("Failed to load order products", err)
		return domain.Order{}, err
	}
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	order := domain.Order{
		ID:              uuid.NewString(),
		CustomerID:      customerID,
		VendorID:        in.VendorID,
		Status:          domain.OrderPending,
		DeliveryAddress: in.DeliveryAddress,
		Notes:           in.Notes,
	}

	for _, it := range in.Items {
		p, ok := byID[it.ProductID]
		if !ok {
			return domain.Order{}, fmt.Errorf("product %s %w", it.ProductID, domain.ErrNotFound)
		}
		if p.VendorID != in.VendorID {
			return domain.Order{}, fmt.Errorf("%w: product %s belongs to another vendor", domain.ErrInvalidInput, p.ID)
		}

		item := domain.OrderItem{
			ID:        uuid.NewString(),
			OrderID:   order.ID,
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  it.Quantity,
			UnitPrice: p.Price,
		}
		order.TotalAmount += item.Subtotal()
		order.Items = append(order.Items, item)
	}

	if err := s.orderRepo.Create(ctx, &order); err != nil {
		logger.Error("Failed to create order", err)
		return domain.Order{}, err
	}

	return order, nil
}

// GetAllOrders narrows filter to what actor may see. Customers see their own
// orders, vendors their store's. Riders see the ready-for-pickup queue plus
// the orders they hold a delivery for; their customer and vendor filters are
// ignored.
func (s *OrdersService) GetAllOrders(ctx context.Context, actor Actor, filter domain.OrderFilter) ([]domain.Order, error) {
	if filter.Status != "" && !domain.ValidOrderStatus(filter.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, filter.Status)
	}

	switch actor.Role {
	case domain.RoleCustomer:
		filter.CustomerID = actor.UserID
	case domain.RoleVendor:
		vendor, err := s.vendors.FindByUserID(ctx, actor.UserID)
		if err != nil {
			logger.Error("Failed to resolve vendor for orders", err)
			return nil, err
		}
		filter.VendorID = vendor.ID
	case domain.RoleRider:
		return s.riderOrders(ctx, actor.UserID, filter.Status)
	case domain.RoleAdmin:
	default:
		return nil, fmt.Errorf("%w: unknown role", domain.ErrForbidden)
	}

	orders, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		logger.Error("Failed to find orders", err)
		return nil, err
	}

	return orders, nil
}

func (s *OrdersService) riderOrders(ctx context.Context, riderID, status string) ([]domain.Order, error) {
	var out []domain.Order
	seen := make(map[string]bool)

	if status == "" || status == domain.OrderReady {
		queue, err := s.orderRepo.FindAll(ctx, domain.OrderFilter{Status: domain.OrderReady})
		if err != nil {
			logger.Error("Failed to find ready orders", err)
			return nil, err
		}
		for _, o := range queue {
			seen[o.ID] = true
			out = append(out, o)
		}
	}

	held, err := s.heldOrderIDs(ctx, riderID)
	if err != nil {
		return nil, err
	}
	if len(held) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(held))
	for id := range held {
		ids = append(ids, id)
	}
	mine, err := s.orderRepo.FindAll(ctx, domain.OrderFilter{IDs: ids, Status: status})
	if err != nil {
		logger.Error("Failed to find rider orders", err)
		return nil, err
	}
	for _, o := range mine {
		if !seen[o.ID] {
			seen[o.ID] = true
			out = append(out, o)
		}
	}

	return out, nil
}

func (s *OrdersService) heldOrderIDs(ctx context.Context, riderID string) (map[string]bool, error) {
	deliveries, err := s.deliveries.FindByRider(ctx, riderID)
	if err != nil {
		logger.Error("Failed to find rider deliveries", err)
		return nil, err
	}
	ids := make(map[string]bool, len(deliveries))
	for _, d := range deliveries {
		ids[d.OrderID] = true
	}
	return ids, nil
}

func (s *OrdersService) GetOrderByID(ctx context.Context, actor Actor, id string) (domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to find order", err)
		return domain.Order{}, err
	}

	if err := s.authorize(ctx, actor, order); err != nil {
		return domain.Order{}, err
	}

	return order, nil
}

// UpdateOrderStatus accepts any known status regardless of the current one.
// Customers may only cancel.
func (s *OrdersService) UpdateOrderStatus(ctx context.Context, actor Actor, id, status string) (domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return domain.Order{}, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to find order", err)
		return domain.Order{}, err
	}

	if err := s.authorize(ctx, actor, order); err != nil {
		return domain.Order{}, err
	}
	if actor.Role == domain.RoleRider && order.Status == domain.OrderReady {
		// the pickup queue is readable; only held orders are writable
		held, err := s.heldOrderIDs(ctx, actor.UserID)
		if err != nil {
			return domain.Order{}, err
		}
		if !held[order.ID] {
			return domain.Order{}, fmt.Errorf("%w: order is not assigned to this rider", domain.ErrForbidden)
		}
	}
	if actor.Role == domain.RoleCustomer && status != domain.OrderCancelled {
		return domain.Order{}, fmt.Errorf("%w: customers can only cancel orders", domain.ErrForbidden)
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		logger.Error("Failed to update order status", err)
		return domain.Order{}, err
	}

	order.Status = status
	return order, nil
}

func (s *OrdersService) authorize(ctx context.Context, actor Actor, order domain.Order) error {
	switch actor.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleRider:
		if order.Status == domain.OrderReady {
			return nil
		}
		held, err := s.heldOrderIDs(ctx, actor.UserID)
		if err != nil {
			return err
		}
		if held[order.ID] {
			return nil
		}
	case domain.RoleCustomer:
		if order.CustomerID == actor.UserID {
			return nil
		}
	case domain.RoleVendor:
		vendor, err := s.vendors.FindByUserID(ctx, actor.UserID)
		if err != nil {
			return err
		}
		if order.VendorID == vendor.ID {
			return nil
		}
	}
	return fmt.Errorf("%w: order belongs to someone else", domain.ErrForbidden)
}

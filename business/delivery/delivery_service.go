package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"groceryMarket/domain"
	"groceryMarket/pkg/logger"

	"github.com/google/uuid"
)

const (
	defaultETA = 30 * time.Minute
	maxETA     = 4 * time.Hour
)

type DeliveryRepository interface {
	Create(ctx context.Context, delivery *domain.Delivery) error
	FindByID(ctx context.Context, id string) (domain.Delivery, error)
	FindByOrderID(ctx context.Context, orderID string) (domain.Delivery, error)
	FindByRider(ctx context.Context, riderID string) ([]domain.Delivery, error)
	UpdateStatus(ctx context.Context, id, status string, deliveredAt *time.Time) error
}

type OrderRepository interface {
	FindByID(ctx context.Context, id string) (domain.Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// Viewer is the authenticated caller reading a delivery.
type Viewer struct {
	UserID string
	Role   string
}

type deliveryService struct {
	deliveryRepo DeliveryRepository
	orderRepo    OrderRepository
	tracker      *Tracker
	now          func() time.Time
}

func NewDeliveryService(deliveryRepo DeliveryRepository, orderRepo OrderRepository, tracker *Tracker) *deliveryService {
	return &deliveryService{
		deliveryRepo: deliveryRepo,
		orderRepo:    orderRepo,
		tracker:      tracker,
		now:          time.Now,
	}
}

// AcceptDelivery assigns the order to the rider and marks it picked up.
func (s *deliveryService) AcceptDelivery(ctx context.Context, riderID, orderID string, etaMinutes int) (domain.Delivery, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		logger.Error("Failed to find order for delivery", err)
		return domain.Delivery{}, err
	}

	if order.Status == domain.OrderDelivered || order.Status == domain.OrderCancelled {
		return domain.Delivery{}, fmt.Errorf("%w: order is %s", domain.ErrConflict, order.Status)
	}

	existing, err := s.deliveryRepo.FindByOrderID(ctx, order.ID)
	switch {
	case err == nil:
		return domain.Delivery{}, fmt.Errorf("%w: order already accepted by rider %s", domain.ErrConflict, existing.RiderID)
	case !errors.Is(err, domain.ErrNotFound):
		logger.Error("Failed to check existing delivery", err, "order_id", order.ID)
		return domain.Delivery{}, err
	}

	// Clamp in minutes so huge inputs cannot overflow the Duration.
	eta := defaultETA
	if etaMinutes > 0 {
		eta = time.Duration(min(etaMinutes, int(maxETA/time.Minute))) * time.Minute
	}

	now := s.now().UTC()
	delivery := domain.Delivery{
		ID:             uuid.NewString(),
		OrderID:        order.ID,
		RiderID:        riderID,
		Status:         domain.DeliveryPickedUp,
		DropoffAddress: order.DeliveryAddress,
		StartedAt:      now,
		EstimatedAt:    now.Add(eta),
	}
	if order.Vendor != nil {
		delivery.PickupAddress = order.Vendor.Address
	}

	if err := s.deliveryRepo.Create(ctx, &delivery); err != nil {
		logger.Error("Failed to create delivery", err)
		return domain.Delivery{}, err
	}

	if err := s.orderRepo.UpdateStatus(ctx, order.ID, domain.OrderPickedUp); err != nil {
		logger.Warn("Failed to mark order picked up", err, "order_id", order.ID)
	}

	return delivery, nil
}

// GetDelivery is visible to the assigned rider, the order's customer and
// vendor, and admins.
func (s *deliveryService) GetDelivery(ctx context.Context, viewer Viewer, id string) (domain.Delivery, error) {
	delivery, err := s.deliveryRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to find delivery", err)
		return domain.Delivery{}, err
	}
	if err := s.canView(ctx, viewer, delivery); err != nil {
		return domain.Delivery{}, err
	}
	return delivery, nil
}

func (s *deliveryService) canView(ctx context.Context, viewer Viewer, delivery domain.Delivery) error {
	if viewer.Role == domain.RoleAdmin || delivery.RiderID == viewer.UserID {
		return nil
	}

	order, err := s.orderRepo.FindByID(ctx, delivery.OrderID)
	if err != nil {
		logger.Error("Failed to find order for delivery", err, "delivery_id", delivery.ID)
		return err
	}
	if order.CustomerID == viewer.UserID {
		return nil
	}
	if order.Vendor != nil && order.Vendor.UserID == viewer.UserID {
		return nil
	}
	return fmt.Errorf("%w: delivery belongs to another account", domain.ErrForbidden)
}

func (s *deliveryService) ListForRider(ctx context.Context, riderID string) ([]domain.Delivery, error) {
	deliveries, err := s.deliveryRepo.FindByRider(ctx, riderID)
	if err != nil {
		logger.Error("Failed to list deliveries", err)
		return nil, err
	}
	return deliveries, nil
}

// UpdateStatus accepts any known delivery status from the assigned rider.
// Delivered stamps the delivery time and the order.
func (s *deliveryService) UpdateStatus(ctx context.Context, riderID, id, status string) (domain.Delivery, error) {
	if !domain.ValidDeliveryStatus(status) {
		return domain.Delivery{}, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}

	delivery, err := s.deliveryRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to find delivery", err)
		return domain.Delivery{}, err
	}
	if delivery.RiderID != riderID {
		return domain.Delivery{}, fmt.Errorf("%w: delivery assigned to another rider", domain.ErrForbidden)
	}

	var deliveredAt *time.Time
	if status == domain.DeliveryDelivered {
		now := s.now().UTC()
		deliveredAt = &now
	}

	if err := s.deliveryRepo.UpdateStatus(ctx, id, status, deliveredAt); err != nil {
		logger.Error("Failed to update delivery", err)
		return domain.Delivery{}, err
	}

	if status == domain.DeliveryDelivered {
		if err := s.orderRepo.UpdateStatus(ctx, delivery.OrderID, domain.OrderDelivered); err != nil {
			logger.Warn("Failed to mark order delivered", err, "order_id", delivery.OrderID)
		}
	}

	delivery.Status = status
	delivery.DeliveredAt = deliveredAt
	return delivery, nil
}

func (s *deliveryService) Progress(ctx context.Context, viewer Viewer, id string) (Snapshot, error) {
	delivery, err := s.GetDelivery(ctx, viewer, id)
	if err != nil {
		return Snapshot{}, err
	}
	return s.tracker.snapshot(delivery), nil
}

func (s *deliveryService) Track(ctx context.Context, viewer Viewer, id string, interval time.Duration) (<-chan Snapshot, error) {
	delivery, err := s.GetDelivery(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	return s.tracker.Watch(ctx, delivery, interval), nil
}

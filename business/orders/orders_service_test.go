package orders

import (
	"context"
	"fmt"
	"testing"

	"groceryMarket/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrders struct {
	rows       map[string]domain.Order
	lastFilter domain.OrderFilter
}

func (f *fakeOrders) Create(_ context.Context, o *domain.Order) error {
	f.rows[o.ID] = *o
	return nil
}

func (f *fakeOrders) FindAll(_ context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	f.lastFilter = filter
	ids := make(map[string]bool, len(filter.IDs))
	for _, id := range filter.IDs {
		ids[id] = true
	}

	var out []domain.Order
	for _, o := range f.rows {
		switch {
		case len(ids) > 0 && !ids[o.ID]:
		case filter.CustomerID != "" && o.CustomerID != filter.CustomerID:
		case filter.VendorID != "" && o.VendorID != filter.VendorID:
		case filter.Status != "" && o.Status != filter.Status:
		default:
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrders) FindByID(_ context.Context, id string) (domain.Order, error) {
	o, ok := f.rows[id]
	if !ok {
		return domain.Order{}, fmt.Errorf("order %w", domain.ErrNotFound)
	}
	return o, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id, status string) error {
	o := f.rows[id]
	o.Status = status
	f.rows[id] = o
	return nil
}

type fakeProducts map[string]domain.Product

func (f fakeProducts) FindByIDs(_ context.Context, ids []string) ([]domain.Product, error) {
	var out []domain.Product
	for _, id := range ids {
		if p, ok := f[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeVendors map[string]domain.Vendor

func (f fakeVendors) FindByUserID(_ context.Context, userID string) (domain.Vendor, error) {
	v, ok := f[userID]
	if !ok {
		return domain.Vendor{}, fmt.Errorf("vendor %w", domain.ErrNotFound)
	}
	return v, nil
}

type fakeDeliveries map[string][]domain.Delivery

func (f fakeDeliveries) FindByRider(_ context.Context, riderID string) ([]domain.Delivery, error) {
	return f[riderID], nil
}

func newService() (*OrdersService, *fakeOrders) {
	repo := &fakeOrders{rows: make(map[string]domain.Order)}
	products := fakeProducts{
		"apple": {ID: "apple", VendorID: "v1", Name: "Apple", Price: 2.5, StockQuantity: 1},
		"bread": {ID: "bread", VendorID: "v1", Name: "Bread", Price: 4},
		"fish":  {ID: "fish", VendorID: "v2", Name: "Fish", Price: 9},
	}
	vendors := fakeVendors{"vendor-user": {ID: "v1", UserID: "vendor-user"}}
	deliveries := fakeDeliveries{"r1": {{ID: "d1", OrderID: "held", RiderID: "r1"}}}
	return NewOrdersService(repo, products, vendors, deliveries), repo
}

func TestCreateOrder_PricesFromProducts(t *testing.T) {
	svc, repo := newService()

	order, err := svc.CreateOrder(context.Background(), "c1", CreateOrderInput{
		VendorID: "v1",
		Items: []OrderItemInput{
			{ProductID: "apple", Quantity: 4},
			{ProductID: "bread", Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.OrderPending, order.Status)
	assert.InDelta(t, 14.0, order.TotalAmount, 0.0001)
	require.Len(t, order.Items, 2)
	assert.Equal(t, order.ID, order.Items[0].OrderID)
	assert.Contains(t, repo.rows, order.ID)
}

func TestCreateOrder_Rejections(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, "c1", CreateOrderInput{VendorID: "v1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.CreateOrder(ctx, "c1", CreateOrderInput{VendorID: "v1", Items: []OrderItemInput{{ProductID: "apple", Quantity: 0}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.CreateOrder(ctx, "c1", CreateOrderInput{VendorID: "v1", Items: []OrderItemInput{{ProductID: "fish", Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.CreateOrder(ctx, "c1", CreateOrderInput{VendorID: "v1", Items: []OrderItemInput{{ProductID: "ghost", Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetAllOrders_ScopesByRole(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	_, err := svc.GetAllOrders(ctx, Actor{UserID: "c1", Role: domain.RoleCustomer}, domain.OrderFilter{CustomerID: "someone-else"})
	require.NoError(t, err)
	assert.Equal(t, "c1", repo.lastFilter.CustomerID)

	_, err = svc.GetAllOrders(ctx, Actor{UserID: "vendor-user", Role: domain.RoleVendor}, domain.OrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, "v1", repo.lastFilter.VendorID)

	_, err = svc.GetAllOrders(ctx, Actor{UserID: "a1", Role: domain.RoleAdmin}, domain.OrderFilter{Status: "lost"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateOrderStatus_AnyKnownStatusAllowed(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()
	repo.rows["o1"] = domain.Order{ID: "o1", CustomerID: "c1", VendorID: "v1", Status: domain.OrderDelivered}

	vendor := Actor{UserID: "vendor-user", Role: domain.RoleVendor}
	order, err := svc.UpdateOrderStatus(ctx, vendor, "o1", domain.OrderPending)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPending, order.Status)

	_, err = svc.UpdateOrderStatus(ctx, vendor, "o1", "teleported")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateOrderStatus_Ownership(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()
	repo.rows["o1"] = domain.Order{ID: "o1", CustomerID: "c1", VendorID: "v2", Status: domain.OrderPending}

	_, err := svc.UpdateOrderStatus(ctx, Actor{UserID: "vendor-user", Role: domain.RoleVendor}, "o1", domain.OrderConfirmed)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.UpdateOrderStatus(ctx, Actor{UserID: "c1", Role: domain.RoleCustomer}, "o1", domain.OrderConfirmed)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	order, err := svc.UpdateOrderStatus(ctx, Actor{UserID: "c1", Role: domain.RoleCustomer}, "o1", domain.OrderCancelled)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCancelled, order.Status)

	_, err = svc.GetOrderByID(ctx, Actor{UserID: "c2", Role: domain.RoleCustomer}, "o1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func orderIDs(list []domain.Order) []string {
	var ids []string
	for _, o := range list {
		ids = append(ids, o.ID)
	}
	return ids
}

func seedRiderOrders(repo *fakeOrders) {
	repo.rows["queued"] = domain.Order{ID: "queued", CustomerID: "c1", VendorID: "v1", Status: domain.OrderReady}
	repo.rows["held"] = domain.Order{ID: "held", CustomerID: "c2", VendorID: "v1", Status: domain.OrderPickedUp}
	repo.rows["other"] = domain.Order{ID: "other", CustomerID: "c3", VendorID: "v2", Status: domain.OrderPickedUp}
	repo.rows["fresh"] = domain.Order{ID: "fresh", CustomerID: "c3", VendorID: "v2", Status: domain.OrderPending}
}

func TestGetAllOrders_RiderSeesQueueAndHeldOrdersOnly(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()
	seedRiderOrders(repo)
	rider := Actor{UserID: "r1", Role: domain.RoleRider}

	list, err := svc.GetAllOrders(ctx, rider, domain.OrderFilter{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"queued", "held"}, orderIDs(list))

	// customer and vendor filters cannot widen the view
	list, err = svc.GetAllOrders(ctx, rider, domain.OrderFilter{CustomerID: "c3", VendorID: "v2"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"queued", "held"}, orderIDs(list))

	list, err = svc.GetAllOrders(ctx, rider, domain.OrderFilter{Status: domain.OrderPickedUp})
	require.NoError(t, err)
	assert.Equal(t, []string{"held"}, orderIDs(list))

	list, err = svc.GetAllOrders(ctx, Actor{UserID: "r2", Role: domain.RoleRider}, domain.OrderFilter{Status: domain.OrderPending})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestOrderAccess_Rider(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()
	seedRiderOrders(repo)
	rider := Actor{UserID: "r1", Role: domain.RoleRider}

	_, err := svc.GetOrderByID(ctx, rider, "queued")
	require.NoError(t, err)
	_, err = svc.GetOrderByID(ctx, rider, "held")
	require.NoError(t, err)
	_, err = svc.GetOrderByID(ctx, rider, "other")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.UpdateOrderStatus(ctx, rider, "queued", domain.OrderCancelled)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.UpdateOrderStatus(ctx, rider, "other", domain.OrderDelivered)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	order, err := svc.UpdateOrderStatus(ctx, rider, "held", domain.OrderDelivered)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderDelivered, order.Status)
}

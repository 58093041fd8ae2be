package product

import (
	"context"
	"fmt"
	"testing"

	"groceryMarket/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProducts struct {
	rows map[string]domain.Product
}

func (f *fakeProducts) Create(_ context.Context, p *domain.Product) error {
	f.rows[p.ID] = *p
	return nil
}

func (f *fakeProducts) FindByID(_ context.Context, id string) (domain.Product, error) {
	p, ok := f.rows[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("product %w", domain.ErrNotFound)
	}
	return p, nil
}

func (f *fakeProducts) FindAll(_ context.Context, _ domain.ProductFilter) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range f.rows {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProducts) Update(_ context.Context, p *domain.Product) error {
	cur, ok := f.rows[p.ID]
	if !ok || cur.VendorID != p.VendorID {
		return fmt.Errorf("product %w", domain.ErrNotFound)
	}
	f.rows[p.ID] = *p
	return nil
}

func (f *fakeProducts) Delete(_ context.Context, id, vendorID string) error {
	cur, ok := f.rows[id]
	if !ok || cur.VendorID != vendorID {
		return fmt.Errorf("product %w", domain.ErrNotFound)
	}
	delete(f.rows, id)
	return nil
}

type fakeVendors map[string]domain.Vendor

func (f fakeVendors) FindByUserID(_ context.Context, userID string) (domain.Vendor, error) {
	v, ok := f[userID]
	if !ok {
		return domain.Vendor{}, fmt.Errorf("vendor %w", domain.ErrNotFound)
	}
	return v, nil
}

func TestProductService_VendorInventory(t *testing.T) {
	ctx := context.Background()
	repo := &fakeProducts{rows: make(map[string]domain.Product)}
	svc := NewProductService(repo, fakeVendors{
		"owner": {ID: "v1", UserID: "owner"},
		"rival": {ID: "v2", UserID: "rival"},
	})

	created, err := svc.CreateProduct(ctx, "owner", ProductInput{Name: "  Kale ", Price: 2, StockQuantity: 5})
	require.NoError(t, err)
	assert.Equal(t, "v1", created.VendorID)
	assert.Equal(t, "Kale", created.Name)

	_, err = svc.UpdateProduct(ctx, "rival", created.ID, ProductInput{Name: "Kale", Price: 0.1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	updated, err := svc.UpdateProduct(ctx, "owner", created.ID, ProductInput{Name: "Kale", Price: 2.2, IsOrganic: true})
	require.NoError(t, err)
	assert.True(t, updated.IsOrganic)

	assert.ErrorIs(t, svc.DeleteProduct(ctx, "rival", created.ID), domain.ErrNotFound)
	require.NoError(t, svc.DeleteProduct(ctx, "owner", created.ID))

	_, err = svc.CreateProduct(ctx, "customer", ProductInput{Name: "Kale"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductService_ValidatesInput(t *testing.T) {
	svc := NewProductService(&fakeProducts{rows: map[string]domain.Product{}}, fakeVendors{"owner": {ID: "v1"}})

	_, err := svc.CreateProduct(context.Background(), "owner", ProductInput{Name: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.CreateProduct(context.Background(), "owner", ProductInput{Name: "Eggs", Price: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.GetProductByID(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

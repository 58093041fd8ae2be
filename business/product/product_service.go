package product

import (
	"context"
	"fmt"
	"strings"

	"groceryMarket/domain"
	"groceryMarket/pkg/logger"

	"github.com/google/uuid"
)

// ProductRepository contract interface
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id string) (domain.Product, error)
	FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id, vendorID string) error
}

// VendorLookup resolves the store a vendor user owns.
type VendorLookup interface {
	FindByUserID(ctx context.Context, userID string) (domain.Vendor, error)
}

type productService struct {
	productRepo ProductRepository
	vendors     VendorLookup
}

func NewProductService(productRepo ProductRepository, vendors VendorLookup) *productService {
	return &productService{
		productRepo: productRepo,
		vendors:     vendors,
	}
}

type ProductInput struct {
	CategoryID    *string
	Name          string
	Description   string
	Price         float64
	Unit          string
	StockQuantity int
	IsOrganic     bool
	IsFeatured    bool
	ImageURL      string
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: product name is required", domain.ErrInvalidInput)
	}
	if in.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", domain.ErrInvalidInput)
	}
	if in.StockQuantity < 0 {
		return fmt.Errorf("%w: stock cannot be negative", domain.ErrInvalidInput)
	}
	return nil
}

func (s *productService) GetAllProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		logger.Error("Failed to find all products", err)
		return nil, err
	}

	return products, nil
}

func (s *productService) GetProductByID(ctx context.Context, id string) (domain.Product, error) {
	if id == "" {
		return domain.Product{}, fmt.Errorf("%w: product id is required", domain.ErrInvalidInput)
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to find product by id", err)
		return domain.Product{}, err
	}

	return product, nil
}

func (s *productService) CreateProduct(ctx context.Context, vendorUserID string, in ProductInput) (domain.Product, error) {
	if err := in.validate(); err != nil {
		logger.Error("Invalid product data", err)
		return domain.Product{}, err
	}

	vendor, err := s.vendors.FindByUserID(ctx, vendorUserID)
	if err != nil {
		logger.Error("Failed to resolve vendor for product", err)
		return domain.Product{}, err
	}

	product := domain.Product{ID: uuid.NewString(), VendorID: vendor.ID}
	apply(&product, in)

	if err := s.productRepo.Create(ctx, &product); err != nil {
		logger.Error("Failed to create product", err)
		return domain.Product{}, err
	}

	return product, nil
}

// UpdateProduct rewrites a product owned by the caller's store. Products of
// other stores report not found.
func (s *productService) UpdateProduct(ctx context.Context, vendorUserID, id string, in ProductInput) (domain.Product, error) {
	if err := in.validate(); err != nil {
		logger.Error("Invalid product data", err)
		return domain.Product{}, err
	}

	vendor, err := s.vendors.FindByUserID(ctx, vendorUserID)
	if err != nil {
		logger.Error("Failed to resolve vendor for product", err)
		return domain.Product{}, err
	}

	product := domain.Product{ID: id, VendorID: vendor.ID}
	apply(&product, in)

	if err := s.productRepo.Update(ctx, &product); err != nil {
		logger.Error("Failed to update product", err)
		return domain.Product{}, err
	}

	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, vendorUserID, id string) error {
	vendor, err := s.vendors.FindByUserID(ctx, vendorUserID)
	if err != nil {
		logger.Error("Failed to resolve vendor for product", err)
		return err
	}

	if err := s.productRepo.Delete(ctx, id, vendor.ID); err != nil {
		logger.Error("Failed to delete product", err)
		return err
	}

	return nil
}

func apply(p *domain.Product, in ProductInput) {
	p.CategoryID = in.CategoryID
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Price = in.Price
	p.Unit = in.Unit
	p.StockQuantity = in.StockQuantity
	p.IsOrganic = in.IsOrganic
	p.IsFeatured = in.IsFeatured
	p.ImageURL = in.ImageURL
}

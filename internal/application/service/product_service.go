package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/terracottic/storefront-api/internal/domain/entity"
	"github.com/terracottic/storefront-api/internal/domain/repository"
	"github.com/terracottic/storefront-api/pkg/apperror"
	"github.com/terracottic/storefront-api/pkg/pagination"
	"github.com/terracottic/storefront-api/pkg/utils"
)

// ProductService handles catalog operations
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Name            string
	Description     *string
	Category        string
	Price           float64 // decimal, converted to cents
	DiscountPercent int
	Stock           int
	PackagingPrice  *float64
	MaxPerOrder     int
	ImageURL        *string
}

// CreateProduct creates a new catalog item
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	if input.Price < 0 {
		return nil, apperror.NewBadRequestError("Price cannot be negative")
	}
	if input.DiscountPercent < 0 || input.DiscountPercent > 100 {
		return nil, apperror.NewBadRequestError("Discount percent must be between 0 and 100")
	}

	slug := utils.Slugify(input.Name)
	if existing, err := s.productRepo.GetBySlug(ctx, slug); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperror.NewConflictError("A product with this name already exists")
	}

	product := &entity.Product{
		Name:            strings.TrimSpace(input.Name),
		Slug:            slug,
		SKU:             utils.GenerateSKU(),
		Description:     input.Description,
		Category:        input.Category,
		DiscountPercent: input.DiscountPercent,
		Stock:           input.Stock,
		MaxPerOrder:     input.MaxPerOrder,
		ImageURL:        input.ImageURL,
	}
	product.SetPriceFromDecimal(input.Price)
	if input.PackagingPrice != nil {
		pkg := int64(*input.PackagingPrice * 100)
		product.PackagingPrice = &pkg
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProductInput represents the update product input; nil fields are
// left unchanged
type UpdateProductInput struct {
	Name            *string
	Description     *string
	Category        *string
	Price           *float64
	DiscountPercent *int
	Stock           *int
	PackagingPrice  *float64
	MaxPerOrder     *int
	ImageURL        *string
}

// UpdateProduct updates an existing catalog item
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
		product.Slug = utils.Slugify(product.Name)
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, apperror.NewBadRequestError("Price cannot be negative")
		}
		product.SetPriceFromDecimal(*input.Price)
	}
	if input.DiscountPercent != nil {
		if *input.DiscountPercent < 0 || *input.DiscountPercent > 100 {
			return nil, apperror.NewBadRequestError("Discount percent must be between 0 and 100")
		}
		product.DiscountPercent = *input.DiscountPercent
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.PackagingPrice != nil {
		pkg := int64(*input.PackagingPrice * 100)
		product.PackagingPrice = &pkg
	}
	if input.MaxPerOrder != nil {
		product.MaxPerOrder = *input.MaxPerOrder
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// GetProductBySlug retrieves a product by its slug
func (s *ProductService) GetProductBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts retrieves catalog items with pagination and filters
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(products, pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)), nil
}

// DeleteProduct removes a catalog item
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}
	return s.productRepo.Delete(ctx, id)
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/ManuJB023/inventory-dashboard/internal/dto"
	"github.com/ManuJB023/inventory-dashboard/internal/model"
	"github.com/ManuJB023/inventory-dashboard/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Number of recent movements embedded in a single-product response.
const recentMovementsLimit = 10

// ProductService defines the business logic contract for products. Note that
// the live quantity is out of its reach: creation may seed it, but every
// mutation afterwards goes through MovementService.
type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo       repository.ProductRepository
	movements  repository.StockMovementRepository
	categories repository.CategoryRepository
	suppliers  repository.SupplierRepository
}

func NewProductService(
	repo repository.ProductRepository,
	movements repository.StockMovementRepository,
	categories repository.CategoryRepository,
	suppliers repository.SupplierRepository,
) ProductService {
	return &productService{repo: repo, movements: movements, categories: categories, suppliers: suppliers}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if existing, err := s.repo.FindBySKU(ctx, req.SKU); err == nil && existing != nil {
		return nil, ErrSKUConflict
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, ErrCategoryNotFound
	}
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		return nil, ErrCategoryNotFound
	}

	var supplierID *uuid.UUID
	if req.SupplierID != nil {
		sid, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, ErrSupplierNotFound
		}
		if _, err := s.suppliers.FindByID(ctx, sid); err != nil {
			return nil, ErrSupplierNotFound
		}
		supplierID = &sid
	}

	unit := req.Unit
	if unit == "" {
		unit = "pcs"
	}

	p := &model.Product{
		SKU:           req.SKU,
		Barcode:       req.Barcode,
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Cost:          req.Cost,
		Quantity:      req.Quantity,
		MinStockLevel: req.MinStockLevel,
		MaxStockLevel: req.MaxStockLevel,
		Unit:          unit,
		CategoryID:    categoryID,
		SupplierID:    supplierID,
		IsActive:      true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p, nil), nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	// Latest movements ride along on the detail view.
	filter := dto.MovementFilter{ProductID: id.String(), Page: 1, Limit: recentMovementsLimit}
	movements, _, err := s.movements.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return productToResponse(p, movements), nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, *productToResponse(&products[i], nil))
	}
	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &dto.ProductListResponse{
		Data:       items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Barcode != nil {
		p.Barcode = req.Barcode
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Cost != nil {
		p.Cost = req.Cost
	}
	if req.MinStockLevel != nil {
		p.MinStockLevel = *req.MinStockLevel
	}
	if req.MaxStockLevel != nil {
		p.MaxStockLevel = req.MaxStockLevel
	}
	if req.Unit != nil {
		p.Unit = *req.Unit
	}
	if req.CategoryID != nil {
		cid, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, ErrCategoryNotFound
		}
		if _, err := s.categories.FindByID(ctx, cid); err != nil {
			return nil, ErrCategoryNotFound
		}
		p.CategoryID = cid
	}
	if req.SupplierID != nil {
		sid, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, ErrSupplierNotFound
		}
		if _, err := s.suppliers.FindByID(ctx, sid); err != nil {
			return nil, ErrSupplierNotFound
		}
		p.SupplierID = &sid
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p, nil), nil
}

// Delete removes the product together with its movement log (cascade).
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return nil
}

func productToResponse(p *model.Product, movements []model.StockMovement) *dto.ProductResponse {
	var supplierID *string
	if p.SupplierID != nil {
		sid := p.SupplierID.String()
		supplierID = &sid
	}
	resp := &dto.ProductResponse{
		ID:            p.ID.String(),
		SKU:           p.SKU,
		Barcode:       p.Barcode,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Cost:          p.Cost,
		Quantity:      p.Quantity,
		MinStockLevel: p.MinStockLevel,
		MaxStockLevel: p.MaxStockLevel,
		Unit:          p.Unit,
		CategoryID:    p.CategoryID.String(),
		SupplierID:    supplierID,
		IsActive:      p.IsActive,
		LowStock:      p.IsLowStock(),
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
	for i := range movements {
		resp.Movements = append(resp.Movements, movementToResponse(&movements[i]))
	}
	return resp
}

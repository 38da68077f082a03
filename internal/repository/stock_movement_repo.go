package repository

import (
	"context"

	"github.com/ManuJB023/inventory-dashboard/internal/dto"
	"github.com/ManuJB023/inventory-dashboard/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockMovementRepository is the append-only movement log contract. There is
// deliberately no Update or Delete: committed movements are immutable, and
// the log only shrinks via the product-delete cascade.
type StockMovementRepository interface {
	CreateTx(tx *gorm.DB, m *model.StockMovement) error
	List(ctx context.Context, filter dto.MovementFilter) ([]model.StockMovement, int64, error)
	ListByProductAsc(ctx context.Context, productID uuid.UUID) ([]model.StockMovement, error)
	ListRecent(ctx context.Context, limit int) ([]model.StockMovement, error)
	FindByIdempotencyKey(ctx context.Context, productID uuid.UUID, key string) (*model.StockMovement, error)
}

type stockMovementRepo struct{ db *gorm.DB }

func NewStockMovementRepository(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db: db}
}

func (r *stockMovementRepo) CreateTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Create(m).Error
}

func (r *stockMovementRepo) List(ctx context.Context, filter dto.MovementFilter) ([]model.StockMovement, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.StockMovement{}).Preload("Product")
	if filter.ProductID != "" {
		q = q.Where("product_id = ?", filter.ProductID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	if filter.Order == "asc" {
		order = "created_at ASC"
	}
	offset := (filter.Page - 1) * filter.Limit

	var movements []model.StockMovement
	err := q.Order(order).Offset(offset).Limit(filter.Limit).Find(&movements).Error
	return movements, total, err
}

// ListByProductAsc returns the full chain for one product in commit order,
// oldest first — the shape audit replay needs.
func (r *stockMovementRepo) ListByProductAsc(ctx context.Context, productID uuid.UUID) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&movements).Error
	return movements, err
}

func (r *stockMovementRepo) ListRecent(ctx context.Context, limit int) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.WithContext(ctx).Preload("Product").
		Order("created_at DESC").Limit(limit).Find(&movements).Error
	return movements, err
}

// FindByIdempotencyKey resolves a duplicate submission. Keys are scoped per
// product: the same key against another product is a distinct movement.
func (r *stockMovementRepo) FindByIdempotencyKey(ctx context.Context, productID uuid.UUID, key string) (*model.StockMovement, error) {
	var m model.StockMovement
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND idempotency_key = ?", productID, key).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

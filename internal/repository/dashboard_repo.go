package repository

import (
	"context"

	"github.com/ManuJB023/inventory-dashboard/internal/dto"
	"github.com/ManuJB023/inventory-dashboard/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DashboardRepository serves the read-only aggregation queries behind the
// dashboard. It never writes anything.
type DashboardRepository interface {
	CountProducts(ctx context.Context) (int64, error)
	TotalInventoryValue(ctx context.Context) (decimal.Decimal, error)
	CountLowStock(ctx context.Context) (int64, error)
	TopCategories(ctx context.Context, limit int) ([]dto.CategoryStat, error)
}

type dashboardRepository struct{ db *gorm.DB }

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("is_active = true").Count(&count).Error
	return count, err
}

// TotalInventoryValue sums price * quantity over active products.
func (r *dashboardRepository) TotalInventoryValue(ctx context.Context) (decimal.Decimal, error) {
	var value decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("is_active = true").
		Select("SUM(price * quantity)").Scan(&value).Error
	if err != nil || !value.Valid {
		return decimal.Zero, err
	}
	return value.Decimal, nil
}

func (r *dashboardRepository) CountLowStock(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("is_active = true AND quantity <= min_stock_level").Count(&count).Error
	return count, err
}

func (r *dashboardRepository) TopCategories(ctx context.Context, limit int) ([]dto.CategoryStat, error) {
	var stats []dto.CategoryStat
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Select("categories.name AS category, COUNT(products.id) AS count, "+
			"COALESCE(SUM(products.quantity), 0) AS total_quantity, "+
			"COALESCE(AVG(products.price), 0) AS avg_price").
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("products.is_active = true").
		Group("categories.name").
		Order("count DESC").
		Limit(limit).
		Scan(&stats).Error
	return stats, err
}

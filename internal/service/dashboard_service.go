package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ManuJB023/inventory-dashboard/internal/dto"
	"github.com/ManuJB023/inventory-dashboard/internal/repository"
	"github.com/ManuJB023/inventory-dashboard/internal/worker"

	"github.com/redis/go-redis/v9"
)

const dashboardCacheTTL = 60 * time.Second

const recentDashboardMovements = 10

// DashboardService aggregates read-only statistics for the dashboard.
// Results are cached in redis; the worker invalidates the cache when
// movements push products into low-stock territory.
type DashboardService interface {
	Stats(ctx context.Context) (*dto.DashboardStatsResponse, error)
}

type dashboardService struct {
	repo      repository.DashboardRepository
	movements repository.StockMovementRepository
	rdb       *redis.Client
}

func NewDashboardService(
	repo repository.DashboardRepository,
	movements repository.StockMovementRepository,
	rdb *redis.Client,
) DashboardService {
	return &dashboardService{repo: repo, movements: movements, rdb: rdb}
}

func (s *dashboardService) Stats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	// 1. Try cache
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, worker.DashboardCacheKey).Bytes(); err == nil {
			var resp dto.DashboardStatsResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				return &resp, nil
			}
		}
	}

	// 2. Cache miss — aggregate from the ledger and the log
	totalProducts, err := s.repo.CountProducts(ctx)
	if err != nil {
		return nil, err
	}
	totalValue, err := s.repo.TotalInventoryValue(ctx)
	if err != nil {
		return nil, err
	}
	lowStockCount, err := s.repo.CountLowStock(ctx)
	if err != nil {
		return nil, err
	}
	topCategories, err := s.repo.TopCategories(ctx, 5)
	if err != nil {
		return nil, err
	}
	recent, err := s.movements.ListRecent(ctx, recentDashboardMovements)
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardStatsResponse{
		TotalProducts: totalProducts,
		TotalValue:    totalValue,
		LowStockCount: lowStockCount,
		TopCategories: topCategories,
	}
	for i := range recent {
		resp.RecentMovements = append(resp.RecentMovements, movementToResponse(&recent[i]))
	}

	// 3. Populate cache — best effort, ignore errors
	if s.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = s.rdb.Set(ctx, worker.DashboardCacheKey, b, dashboardCacheTTL).Err()
		}
	}
	return resp, nil
}

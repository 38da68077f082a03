package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const QueueLowStock = "jobs:lowstock"

// DashboardCacheKey is the redis key holding the cached dashboard stats.
// Workers invalidate it after processing a movement-driven alert so the next
// dashboard read recomputes against committed state.
const DashboardCacheKey = "dashboard:stats"

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// LowStockAlert is emitted after a committed movement leaves a product at or
// below its minimum stock level.
type LowStockAlert struct {
	ProductID     string `json:"product_id"`
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	Quantity      int    `json:"quantity"`
	MinStockLevel int    `json:"min_stock_level"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueLowStockAlert pushes a low-stock alert job to Redis. Best effort —
// the movement is already committed, so callers ignore the error.
func (d *Dispatcher) EnqueueLowStockAlert(ctx context.Context, alert LowStockAlert) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	job := Job{Type: "lowstock", Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, QueueLowStock, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming the alert queue.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueLowStock).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal job")
		return
	}

	var alert LowStockAlert
	if err := json.Unmarshal(job.Payload, &alert); err != nil {
		log.Error().Err(err).Str("type", job.Type).Msg("failed to unmarshal alert payload")
		return
	}

	log.Warn().
		Str("product_id", alert.ProductID).
		Str("sku", alert.SKU).
		Str("name", alert.Name).
		Int("quantity", alert.Quantity).
		Int("min_stock_level", alert.MinStockLevel).
		Msg("low stock alert")

	// Dashboard stats include the low-stock count; drop the cache so the
	// next read reflects this movement.
	if err := rdb.Del(ctx, DashboardCacheKey).Err(); err != nil {
		log.Error().Err(err).Msg("failed to invalidate dashboard cache")
	}
}

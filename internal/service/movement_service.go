package service

import (
	"context"
	"errors"
	"time"

	"github.com/ManuJB023/inventory-dashboard/internal/dto"
	"github.com/ManuJB023/inventory-dashboard/internal/model"
	"github.com/ManuJB023/inventory-dashboard/internal/repository"
	"github.com/ManuJB023/inventory-dashboard/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MovementService is the inventory transaction engine: it applies stock
// movements to products, keeping the append-only movement log and the live
// quantity consistent under concurrent writers.
type MovementService interface {
	Apply(ctx context.Context, req dto.ApplyMovementRequest) (*dto.ApplyMovementResponse, error)
	List(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error)
}

type movementService struct {
	products     repository.ProductRepository
	movements    repository.StockMovementRepository
	locks        *productLocks
	dispatcher   *worker.Dispatcher
	defaultActor string
	lockTimeout  time.Duration
}

func NewMovementService(
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
	dispatcher *worker.Dispatcher,
	defaultActor string,
	lockTimeout time.Duration,
) MovementService {
	return &movementService{
		products:     products,
		movements:    movements,
		locks:        newProductLocks(),
		dispatcher:   dispatcher,
		defaultActor: defaultActor,
		lockTimeout:  lockTimeout,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Apply ─────────────────────────────────────────────────────────────────────
// Applies one movement as a single atomic unit:
//   1. Validate type and quantity (no lock needed for caller errors)
//   2. Deduplicate by idempotency key when the client supplied one
//   3. Acquire the per-product lock with a bounded wait
//   4. BEGIN TX: row-locked read of current quantity, compute and validate
//      the new quantity, append the movement, update the product
//   5. COMMIT — on any failure the whole unit rolls back and neither the
//      log nor the quantity changes

func (s *movementService) Apply(ctx context.Context, req dto.ApplyMovementRequest) (*dto.ApplyMovementResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, ErrProductNotFound
	}

	switch req.Type {
	case model.MovementIn, model.MovementOut:
		if req.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	case model.MovementAdjustment:
		if req.Quantity < 0 {
			return nil, ErrInvalidQuantity
		}
	default:
		return nil, ErrInvalidType
	}

	// Duplicate submission of the same logical movement (client retry after
	// a timed-out but committed request) returns the committed result. Keys
	// are scoped per product, so reuse against another product applies
	// normally. A lookup failure other than not-found must not be mistaken
	// for "no duplicate": that would re-apply the movement on retry.
	if req.IdempotencyKey != nil && *req.IdempotencyKey != "" {
		existing, err := s.movements.FindByIdempotencyKey(ctx, productID, *req.IdempotencyKey)
		switch {
		case err == nil:
			return &dto.ApplyMovementResponse{
				Movement:         movementToResponse(existing),
				PreviousQuantity: existing.PreviousQuantity,
				NewQuantity:      existing.NewQuantity,
			}, nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, &PersistenceError{Err: err}
		}
	}

	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()
	if err := s.locks.Acquire(lockCtx, productID); err != nil {
		return nil, err
	}
	defer s.locks.Release(productID)

	performedBy := req.PerformedBy
	if performedBy == "" {
		performedBy = s.defaultActor
	}

	var movement model.StockMovement
	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		product, err := s.products.FindByIDForUpdateTx(tx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		previous := product.Quantity
		var newQuantity int
		switch req.Type {
		case model.MovementIn:
			newQuantity = previous + req.Quantity
		case model.MovementOut:
			newQuantity = previous - req.Quantity
			if newQuantity < 0 {
				return &InsufficientStockError{Available: previous, Requested: req.Quantity}
			}
		case model.MovementAdjustment:
			newQuantity = req.Quantity
		}
		if newQuantity < 0 {
			return ErrInvalidQuantity
		}

		// For adjustments the stored quantity is the magnitude of the
		// change, so direction stays recoverable from previous/new.
		storedQuantity := req.Quantity
		if req.Type == model.MovementAdjustment {
			storedQuantity = newQuantity - previous
			if storedQuantity < 0 {
				storedQuantity = -storedQuantity
			}
		}

		movement = model.StockMovement{
			ProductID:        productID,
			Type:             req.Type,
			Quantity:         storedQuantity,
			PreviousQuantity: previous,
			NewQuantity:      newQuantity,
			Reason:           req.Reason,
			Reference:        req.Reference,
			Notes:            req.Notes,
			PerformedBy:      performedBy,
			IdempotencyKey:   req.IdempotencyKey,
		}
		if req.Type == model.MovementIn && req.UnitCost != nil {
			total := req.UnitCost.Mul(decimal.NewFromInt(int64(req.Quantity)))
			movement.UnitCost = req.UnitCost
			movement.TotalCost = &total
		}

		if err := s.movements.CreateTx(tx, &movement); err != nil {
			return err
		}
		return s.products.UpdateQuantityTx(tx, productID, newQuantity)
	})
	if txErr != nil {
		// Two same-key requests racing past the dedup read: the loser hits
		// the unique index, but the movement it wanted is committed. Return
		// it instead of surfacing the violation.
		if req.IdempotencyKey != nil && *req.IdempotencyKey != "" && errors.Is(txErr, gorm.ErrDuplicatedKey) {
			if existing, err := s.movements.FindByIdempotencyKey(ctx, productID, *req.IdempotencyKey); err == nil {
				return &dto.ApplyMovementResponse{
					Movement:         movementToResponse(existing),
					PreviousQuantity: existing.PreviousQuantity,
					NewQuantity:      existing.NewQuantity,
				}, nil
			}
		}
		return nil, classifyTxError(txErr)
	}

	// Low-stock signaling is a consumer concern; the engine only enqueues a
	// best-effort alert job after the commit succeeded.
	if s.dispatcher != nil {
		if product, err := s.products.FindByID(ctx, productID); err == nil && product.IsLowStock() {
			_ = s.dispatcher.EnqueueLowStockAlert(ctx, worker.LowStockAlert{
				ProductID:     product.ID.String(),
				SKU:           product.SKU,
				Name:          product.Name,
				Quantity:      product.Quantity,
				MinStockLevel: product.MinStockLevel,
			})
		}
	}

	return &dto.ApplyMovementResponse{
		Movement:         movementToResponse(&movement),
		PreviousQuantity: movement.PreviousQuantity,
		NewQuantity:      movement.NewQuantity,
	}, nil
}

// classifyTxError passes the engine's own errors through and wraps anything
// else — constraint violations, connection loss, commit failure — as a
// PersistenceError. The transaction has rolled back either way.
func classifyTxError(err error) error {
	var insufficient *InsufficientStockError
	if errors.Is(err, ErrProductNotFound) || errors.Is(err, ErrInvalidQuantity) || errors.As(err, &insufficient) {
		return err
	}
	return &PersistenceError{Err: err}
}

func (s *movementService) List(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error) {
	movements, total, err := s.movements.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(movements))
	for i := range movements {
		items = append(items, movementToResponse(&movements[i]))
	}
	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &dto.MovementListResponse{
		Data:       items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func movementToResponse(m *model.StockMovement) dto.MovementResponse {
	resp := dto.MovementResponse{
		ID:               m.ID.String(),
		ProductID:        m.ProductID.String(),
		Type:             m.Type,
		Quantity:         m.Quantity,
		PreviousQuantity: m.PreviousQuantity,
		NewQuantity:      m.NewQuantity,
		Reason:           m.Reason,
		Reference:        m.Reference,
		Notes:            m.Notes,
		UnitCost:         m.UnitCost,
		TotalCost:        m.TotalCost,
		PerformedBy:      m.PerformedBy,
		CreatedAt:        m.CreatedAt.Format(time.RFC3339),
	}
	if m.Product != nil {
		resp.ProductName = m.Product.Name
		resp.ProductSKU = m.Product.SKU
	}
	return resp
}

package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ManuJB023/inventory-dashboard/internal/dto"
	"github.com/ManuJB023/inventory-dashboard/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory ProductRepository stub ─────────────────────────────────────────
// DB() returns nil so runTx runs the closure directly without a transaction.

type stubProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) FindBySKU(_ context.Context, sku string) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []model.Product
	for _, p := range r.products {
		result = append(result, *p)
	}
	return result, int64(len(result)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubProductRepo) UpdateQuantityTx(_ *gorm.DB, id uuid.UUID, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Quantity = quantity
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

// ── In-memory StockMovementRepository stub ───────────────────────────────────

type stubMovementRepo struct {
	mu        sync.Mutex
	movements []model.StockMovement
	failNext  error // injected fault for atomicity tests
	failFind  error // injected fault for dedup lookups
}

func newStubMovementRepo() *stubMovementRepo { return &stubMovementRepo{} }

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) List(_ context.Context, filter dto.MovementFilter) ([]model.StockMovement, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []model.StockMovement
	for _, m := range r.movements {
		if filter.ProductID != "" && m.ProductID.String() != filter.ProductID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		result = append(result, m)
	}
	return result, int64(len(result)), nil
}

func (r *stubMovementRepo) ListByProductAsc(_ context.Context, productID uuid.UUID) ([]model.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []model.StockMovement
	for _, m := range r.movements {
		if m.ProductID == productID {
			result = append(result, m)
		}
	}
	return result, nil
}

func (r *stubMovementRepo) ListRecent(_ context.Context, limit int) ([]model.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.movements)
	if limit > n {
		limit = n
	}
	result := make([]model.StockMovement, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		result = append(result, r.movements[i])
	}
	return result, nil
}

func (r *stubMovementRepo) FindByIdempotencyKey(_ context.Context, productID uuid.UUID, key string) (*model.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFind != nil {
		err := r.failFind
		r.failFind = nil
		return nil, err
	}
	for i := range r.movements {
		if r.movements[i].ProductID == productID &&
			r.movements[i].IdempotencyKey != nil && *r.movements[i].IdempotencyKey == key {
			cp := r.movements[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Fixtures ─────────────────────────────────────────────────────────────────

func newTestEngine(t *testing.T) (MovementService, *stubProductRepo, *stubMovementRepo) {
	t.Helper()
	products := newStubProductRepo()
	movements := newStubMovementRepo()
	svc := NewMovementService(products, movements, nil, "system", 2*time.Second)
	return svc, products, movements
}

func seedProduct(t *testing.T, repo *stubProductRepo, quantity int) *model.Product {
	t.Helper()
	p := &model.Product{
		ID:            uuid.New(),
		SKU:           "WID-001",
		Name:          "Widget",
		Price:         decimal.NewFromFloat(9.99),
		Quantity:      quantity,
		MinStockLevel: 5,
		Unit:          "pcs",
		CategoryID:    uuid.New(),
		IsActive:      true,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func applyReq(p *model.Product, typ string, qty int) dto.ApplyMovementRequest {
	return dto.ApplyMovementRequest{ProductID: p.ID.String(), Type: typ, Quantity: qty}
}

// ── Apply: happy paths ───────────────────────────────────────────────────────

func TestApplyInIncreasesQuantity(t *testing.T) {
	svc, products, _ := newTestEngine(t)
	p := seedProduct(t, products, 100)

	resp, err := svc.Apply(context.Background(), applyReq(p, model.MovementIn, 50))
	require.NoError(t, err)

	assert.Equal(t, 100, resp.PreviousQuantity)
	assert.Equal(t, 150, resp.NewQuantity)
	assert.Equal(t, 50, resp.Movement.Quantity)

	updated, err := products.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 150, updated.Quantity)
}

func TestApplyOutDecreasesQuantity(t *testing.T) {
	svc, products, _ := newTestEngine(t)
	p := seedProduct(t, products, 200)

	resp, err := svc.Apply(context.Background(), applyReq(p, model.MovementOut, 80))
	require.NoError(t, err)

	assert.Equal(t, 200, resp.PreviousQuantity)
	assert.Equal(t, 120, resp.NewQuantity)
}

func TestApplyOutDrainsToZero(t *testing.T) {
	svc, products, _ := newTestEngine(t)
	p := seedProduct(t, products, 80)

	resp, err := svc.Apply(context.Background(), applyReq(p, model.MovementOut, 80))
	require.NoError(t, err)
	assert.Equal(t, 0, resp.NewQuantity)
}

func TestApplyAdjustmentStoresDeltaMagnitude(t *testing.T) {
	svc, products, movements := newTestEngine(t)
	p := seedProduct(t, products, 150)

	resp, err := svc.Apply(context.Background(), applyReq(p, model.MovementAdjustment, 75))
	require.NoError(t, err)

	assert.Equal(t, 150, resp.PreviousQuantity)
	assert.Equal(t, 75, resp.NewQuantity)
	// a downward adjustment of 150 → 75 records |75-150| = 75
	assert.Equal(t, 75, resp.Movement.Quantity)

	chain, err := movements.ListByProductAsc(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, chain, 1)
	assert.Equal(t, model.MovementAdjustment, chain[0].Type)
}

func TestApplyAdjustmentToZero(t *testing.T) {
	svc, products, _ := newTestEngine(t)
	p := seedProduct(t, products, 40)

	resp, err := svc.Apply(context.Background(), applyReq(p, model.MovementAdjustment, 0))
	require.NoError(t, err)
	assert.Equal(t, 0, resp.NewQuantity)
	assert.Equal(t, 40, resp.Movement.Quantity)
}

func TestApplyAdjustmentNoChange(t *testing.T) {
	svc, products, movements := newTestEngine(t)
	p := seedProduct(t, products, 60)

	resp, err := svc.Apply(context.Background(), applyReq(p, model.MovementAdjustment, 60))
	require.NoError(t, err)
	assert.Equal(t, 60, resp.NewQuantity)
	assert.Equal(t, 0, resp.Movement.Quantity)

	// the no-op adjustment is still logged
	chain, _ := movements.ListByProductAsc(context.Background(), p.ID)
	assert.Len(t, chain, 1)
}

func TestApplyInRecordsCosts(t *testing.T) {
	svc, products, _ := newTestEngine(t)
	p := seedProduct(t, products, 0)

	unitCost := decimal.NewFromFloat(2.50)
	req := applyReq(p, model.MovementIn, 10)
	req.UnitCost = &unitCost

	resp, err := svc.Apply(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.Movement.TotalCost)
	assert.True(t, resp.Movement.TotalCost.Equal(decimal.NewFromFloat(25.00)))
}

// ── Apply: rejections ────────────────────────────────────────────────────────

func TestApplyOutInsufficientStock(t *testing.T) {
	svc, products, movements := newTestEngine(t)
	p := seedProduct(t, products, 150)

	_, err := svc.Apply(context.Background(), applyReq(p, model.MovementOut, 200))

	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 150, insufficient.Available)
	assert.Equal(t, 200, insufficient.Requested)

	// rejection must leave no trace in ledger or log
	updated, _ := products.FindByID(context.Background(), p.ID)
	assert.Equal(t, 150, updated.Quantity)
	chain, _ := movements.ListByProductAsc(context.Background(), p.ID)
	assert.Empty(t, chain)
}

func TestApplyRejectsNonPositiveDeltas(t *testing.T) {
	svc, products, _ := newTestEngine(t)
	p := seedProduct(t, products, 10)

	for _, tc := range []struct {
		typ string
		qty int
	}{
		{model.MovementIn, 0},
		{model.MovementIn, -3},
		{model.MovementOut, 0},
		{model.MovementOut, -1},
		{model.MovementAdjustment, -5},
	} {
		_, err := svc.Apply(context.Background(), applyReq(p, tc.typ, tc.qty))
		assert.ErrorIs(t, err, ErrInvalidQuantity, "type=%s qty=%d", tc.typ, tc.qty)
	}
}

func TestApplyRejectsUnknownType(t *testing.T) {
	svc, products, _ := newTestEngine(t)
	p := seedProduct(t, products, 10)

	_, err := svc.Apply(context.Background(), applyReq(p, "TRANSFER", 5))
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestApplyUnknownProduct(t *testing.T) {
	svc, _, _ := newTestEngine(t)

	_, err := svc.Apply(context.Background(), dto.ApplyMovementRequest{
		ProductID: uuid.NewString(), Type: model.MovementIn, Quantity: 5,
	})
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = svc.Apply(context.Background(), dto.ApplyMovementRequest{
		ProductID: "not-a-uuid", Type: model.MovementIn, Quantity: 5,
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

// ── Atomicity ────────────────────────────────────────────────────────────────

func TestApplyLogFailureLeavesQuantityUntouched(t *testing.T) {
	svc, products, movements := newTestEngine(t)
	p := seedProduct(t, products, 100)

	movements.failNext = errors.New("connection reset")
	_, err := svc.Apply(context.Background(), applyReq(p, model.MovementIn, 10))

	var persistence *PersistenceError
	require.ErrorAs(t, err, &persistence)

	updated, _ := products.FindByID(context.Background(), p.ID)
	assert.Equal(t, 100, updated.Quantity)
	chain, _ := movements.ListByProductAsc(context.Background(), p.ID)
	assert.Empty(t, chain)
}

// ── Audit replay ─────────────────────────────────────────────────────────────

func TestMovementChainReplaysToCurrentQuantity(t *testing.T) {
	svc, products, movements := newTestEngine(t)
	p := seedProduct(t, products, 0)
	ctx := context.Background()

	steps := []struct {
		typ string
		qty int
	}{
		{model.MovementIn, 100},
		{model.MovementOut, 30},
		{model.MovementAdjustment, 120},
		{model.MovementOut, 20},
		{model.MovementIn, 7},
	}
	for _, s := range steps {
		_, err := svc.Apply(ctx, applyReq(p, s.typ, s.qty))
		require.NoError(t, err)
	}

	chain, err := movements.ListByProductAsc(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, chain, len(steps))

	// each entry links exactly to its predecessor
	replayed := 0
	for _, m := range chain {
		assert.Equal(t, replayed, m.PreviousQuantity)
		replayed = m.NewQuantity
	}

	final, _ := products.FindByID(ctx, p.ID)
	assert.Equal(t, 177, final.Quantity)
	assert.Equal(t, final.Quantity, replayed)
}

// ── Concurrency ──────────────────────────────────────────────────────────────

func TestConcurrentInsApplyFully(t *testing.T) {
	svc, products, movements := newTestEngine(t)
	p := seedProduct(t, products, 0)
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Apply(ctx, applyReq(p, model.MovementIn, 5))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	final, _ := products.FindByID(ctx, p.ID)
	assert.Equal(t, workers*5, final.Quantity)

	chain, _ := movements.ListByProductAsc(ctx, p.ID)
	require.Len(t, chain, workers)
	seen := make(map[int]bool)
	for _, m := range chain {
		assert.Equal(t, m.PreviousQuantity+5, m.NewQuantity)
		assert.False(t, seen[m.PreviousQuantity], "duplicate previous_quantity %d", m.PreviousQuantity)
		seen[m.PreviousQuantity] = true
	}
}

func TestConcurrentOutsNeverOversell(t *testing.T) {
	svc, products, _ := newTestEngine(t)
	p := seedProduct(t, products, 50)
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	var okCount, rejectCount int64
	var mu sync.Mutex
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Apply(ctx, applyReq(p, model.MovementOut, 5))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				okCount++
				return
			}
			var insufficient *InsufficientStockError
			if assert.ErrorAs(t, err, &insufficient) {
				rejectCount++
			}
		}()
	}
	wg.Wait()

	// 50 units cover exactly 10 OUTs of 5; the rest must reject
	assert.EqualValues(t, 10, okCount)
	assert.EqualValues(t, 10, rejectCount)
	final, _ := products.FindByID(ctx, p.ID)
	assert.Equal(t, 0, final.Quantity)
}

// ── Idempotency ──────────────────────────────────────────────────────────────

func TestApplyDeduplicatesByIdempotencyKey(t *testing.T) {
	svc, products, movements := newTestEngine(t)
	p := seedProduct(t, products, 100)
	ctx := context.Background()

	key := "po-4711-receipt"
	req := applyReq(p, model.MovementIn, 25)
	req.IdempotencyKey = &key

	first, err := svc.Apply(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 125, first.NewQuantity)

	// client retry with the same key returns the committed result
	second, err := svc.Apply(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first.NewQuantity, second.NewQuantity)
	assert.Equal(t, first.Movement.ID, second.Movement.ID)

	final, _ := products.FindByID(ctx, p.ID)
	assert.Equal(t, 125, final.Quantity)
	chain, _ := movements.ListByProductAsc(ctx, p.ID)
	assert.Len(t, chain, 1)
}

func TestApplyIdempotencyKeyScopedPerProduct(t *testing.T) {
	svc, products, movements := newTestEngine(t)
	ctx := context.Background()

	a := seedProduct(t, products, 0)
	b := &model.Product{
		ID: uuid.New(), SKU: "WID-002", Name: "Widget B",
		Price: decimal.NewFromFloat(4.99), Quantity: 3,
		MinStockLevel: 1, Unit: "pcs", CategoryID: a.CategoryID, IsActive: true,
	}
	require.NoError(t, products.Create(ctx, b))

	key := "po-9000-receipt"
	reqA := applyReq(a, model.MovementIn, 5)
	reqA.IdempotencyKey = &key
	_, err := svc.Apply(ctx, reqA)
	require.NoError(t, err)

	// the same key against another product is a distinct movement, not a
	// replay of product A's
	reqB := applyReq(b, model.MovementOut, 2)
	reqB.IdempotencyKey = &key
	resp, err := svc.Apply(ctx, reqB)
	require.NoError(t, err)
	assert.Equal(t, b.ID.String(), resp.Movement.ProductID)
	assert.Equal(t, 1, resp.NewQuantity)

	updatedB, _ := products.FindByID(ctx, b.ID)
	assert.Equal(t, 1, updatedB.Quantity)
	chainB, _ := movements.ListByProductAsc(ctx, b.ID)
	assert.Len(t, chainB, 1)
}

func TestApplyDedupLookupFailure(t *testing.T) {
	svc, products, movements := newTestEngine(t)
	p := seedProduct(t, products, 10)

	// a transient lookup failure must not pass for "no duplicate"
	movements.failFind = errors.New("connection refused")
	key := "po-9001-receipt"
	req := applyReq(p, model.MovementIn, 5)
	req.IdempotencyKey = &key

	_, err := svc.Apply(context.Background(), req)
	var persistence *PersistenceError
	require.ErrorAs(t, err, &persistence)

	updated, _ := products.FindByID(context.Background(), p.ID)
	assert.Equal(t, 10, updated.Quantity)
}

func TestApplySameKeyRaceReturnsCommitted(t *testing.T) {
	svc, products, movements := newTestEngine(t)
	p := seedProduct(t, products, 100)
	ctx := context.Background()

	key := "po-9002-receipt"
	req := applyReq(p, model.MovementIn, 25)
	req.IdempotencyKey = &key

	first, err := svc.Apply(ctx, req)
	require.NoError(t, err)

	// loser of a same-key write race: the dedup read misses (the winner had
	// not committed yet) but the insert hits the unique index; the recovery
	// read returns the committed movement instead of a 500
	movements.failFind = gorm.ErrRecordNotFound
	movements.failNext = gorm.ErrDuplicatedKey

	second, err := svc.Apply(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first.Movement.ID, second.Movement.ID)
	assert.Equal(t, first.NewQuantity, second.NewQuantity)

	final, _ := products.FindByID(ctx, p.ID)
	assert.Equal(t, 125, final.Quantity)
}

// ── Actor attribution ────────────────────────────────────────────────────────

func TestApplyDefaultsPerformedBy(t *testing.T) {
	svc, products, _ := newTestEngine(t)
	p := seedProduct(t, products, 10)

	resp, err := svc.Apply(context.Background(), applyReq(p, model.MovementIn, 1))
	require.NoError(t, err)
	assert.Equal(t, "system", resp.Movement.PerformedBy)

	req := applyReq(p, model.MovementOut, 1)
	req.PerformedBy = "maria"
	resp, err = svc.Apply(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "maria", resp.Movement.PerformedBy)
}

// ── Lock timeout ─────────────────────────────────────────────────────────────

func TestApplyLockTimeout(t *testing.T) {
	products := newStubProductRepo()
	movements := newStubMovementRepo()
	svc := NewMovementService(products, movements, nil, "system", 50*time.Millisecond).(*movementService)
	p := seedProduct(t, products, 10)

	// hold the lock so Apply cannot acquire it
	require.NoError(t, svc.locks.Acquire(context.Background(), p.ID))
	defer svc.locks.Release(p.ID)

	_, err := svc.Apply(context.Background(), applyReq(p, model.MovementIn, 1))
	assert.ErrorIs(t, err, ErrLockTimeout)
}

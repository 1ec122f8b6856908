package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/application/inventory"
	"github.com/haccp/backend/internal/domain/haccp"
	"github.com/haccp/backend/internal/domain/material"
	"github.com/haccp/backend/internal/domain/product"
	"github.com/haccp/backend/internal/domain/production"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/haccp/backend/internal/domain/supplier"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(AllModels()...))
	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type catalogFixture struct {
	supplier *supplier.Supplier
	material *material.RawMaterial
	product  *product.FinishedProduct
}

func seedCatalog(t *testing.T, db *gorm.DB) catalogFixture {
	ctx := context.Background()
	s, err := supplier.NewSupplier("SUP-01", "Mill Co", supplier.ContactInfo{Email: "mill@example.com"})
	require.NoError(t, err)
	require.NoError(t, NewGormSupplierRepository(db).Save(ctx, s))

	m, err := material.NewRawMaterial("FLOUR", "Wheat flour", material.CategoryIngredient, "kg", s.ID)
	require.NoError(t, err)
	require.NoError(t, NewGormRawMaterialRepository(db).Save(ctx, m))

	p, err := product.NewFinishedProduct("BREAD", "White bread", product.ProductSpec{NetWeight: dec("0.5")})
	require.NoError(t, err)
	require.NoError(t, NewGormProductRepository(db).Save(ctx, p))

	return catalogFixture{supplier: s, material: m, product: p}
}

func newLot(t *testing.T, f catalogFixture, number string, qty, price string, received time.Time) *material.MaterialLot {
	lot, err := material.NewMaterialLot(f.material, material.LotReceipt{
		SupplierID:       f.supplier.ID,
		LotNumber:        number,
		QuantityReceived: dec(qty),
		UnitPrice:        dec(price),
		ReceivedDate:     received,
	})
	require.NoError(t, err)
	return lot
}

func TestCatalogRepositories(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	f := seedCatalog(t, db)

	t.Run("finds supplier and reports missing ones as not found", func(t *testing.T) {
		repo := NewGormSupplierRepository(db)
		found, err := repo.FindByID(ctx, f.supplier.ID)
		require.NoError(t, err)
		assert.Equal(t, "Mill Co", found.Name)

		_, err = repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("supplier save updates an existing row", func(t *testing.T) {
		repo := NewGormSupplierRepository(db)
		f.supplier.Name = "Mill Company"
		require.NoError(t, repo.Save(ctx, f.supplier))

		found, err := repo.FindByID(ctx, f.supplier.ID)
		require.NoError(t, err)
		assert.Equal(t, "Mill Company", found.Name)

		n, err := repo.Count(ctx, shared.Filter{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("material search and code uniqueness", func(t *testing.T) {
		repo := NewGormRawMaterialRepository(db)
		exists, err := repo.ExistsByCode(ctx, "FLOUR")
		require.NoError(t, err)
		assert.True(t, exists)

		list, err := repo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 10, Search: "wheat"})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, f.material.ID, list[0].ID)

		list, err = repo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 10, Filters: map[string]interface{}{"category": "packaging"}})
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("bom lines and active bom lookup", func(t *testing.T) {
		repo := NewGormBOMRepository(db)
		item, err := product.NewBOMItem(f.product.ID, f.material.ID, dec("0.3"), "kg", "")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, item))

		exists, err := repo.ExistsActive(ctx, f.product.ID, f.material.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		other := uuid.New()
		withBOM, err := repo.ProductsWithActiveBOM(ctx, []uuid.UUID{f.product.ID, other})
		require.NoError(t, err)
		assert.True(t, withBOM[f.product.ID])
		assert.False(t, withBOM[other])

		item.IsActive = false
		require.NoError(t, repo.Update(ctx, item))

		active, err := repo.FindActiveByProduct(ctx, f.product.ID)
		require.NoError(t, err)
		assert.Empty(t, active)

		all, err := repo.FindByProduct(ctx, f.product.ID)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.True(t, all[0].QuantityPerUnit.Equal(dec("0.3")))
	})

	t.Run("updating a missing bom line is not found", func(t *testing.T) {
		item, err := product.NewBOMItem(f.product.ID, f.material.ID, dec("1"), "kg", "")
		require.NoError(t, err)
		err = NewGormBOMRepository(db).Update(ctx, item)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestMaterialLotRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate lot number within a material is a conflict", func(t *testing.T) {
		db := setupTestDB(t)
		f := seedCatalog(t, db)
		repo := NewGormMaterialLotRepository(db)

		require.NoError(t, repo.Save(ctx, newLot(t, f, "L-1", "10", "2.50", testNow)))
		err := repo.Save(ctx, newLot(t, f, "L-1", "5", "2.50", testNow))
		assert.ErrorIs(t, err, shared.ErrConflict)

		exists, err := repo.ExistsByLotNumber(ctx, f.material.ID, "L-1")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("save with lock rejects a stale version", func(t *testing.T) {
		db := setupTestDB(t)
		f := seedCatalog(t, db)
		repo := NewGormMaterialLotRepository(db)
		lot := newLot(t, f, "L-2", "10", "2.00", testNow)
		require.NoError(t, repo.Save(ctx, lot))

		first, err := repo.FindByID(ctx, lot.ID)
		require.NoError(t, err)
		second, err := repo.FindByID(ctx, lot.ID)
		require.NoError(t, err)

		require.NoError(t, first.Consume(dec("4")))
		require.NoError(t, repo.SaveWithLock(ctx, first))

		require.NoError(t, second.Consume(dec("1")))
		err = repo.SaveWithLock(ctx, second)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeOptimisticLock, domainErr.Code)

		stored, err := repo.FindByID(ctx, lot.ID)
		require.NoError(t, err)
		assert.True(t, stored.QuantityCurrent.Equal(dec("6")))
		assert.Equal(t, material.LotStatusInUse, stored.Status)
		assert.Equal(t, 2, stored.Version)
	})

	t.Run("in stock queries skip empty and terminal lots", func(t *testing.T) {
		db := setupTestDB(t)
		f := seedCatalog(t, db)
		repo := NewGormMaterialLotRepository(db)

		open := newLot(t, f, "L-OPEN", "10", "2.00", testNow.AddDate(0, 0, -2))
		empty := newLot(t, f, "L-EMPTY", "3", "2.00", testNow.AddDate(0, 0, -3))
		rejected := newLot(t, f, "L-REJ", "8", "2.00", testNow.AddDate(0, 0, -40))
		for _, l := range []*material.MaterialLot{open, empty, rejected} {
			require.NoError(t, repo.Save(ctx, l))
		}
		require.NoError(t, empty.Consume(dec("3")))
		require.NoError(t, repo.SaveWithLock(ctx, empty))
		require.NoError(t, rejected.Retire(material.LotStatusRejected, "mould"))
		require.NoError(t, repo.SaveWithLock(ctx, rejected))

		inStock, err := repo.FindInStock(ctx)
		require.NoError(t, err)
		require.Len(t, inStock, 1)
		assert.Equal(t, open.ID, inStock[0].ID)

		locked, err := repo.FindByMaterialForUpdate(ctx, f.material.ID)
		require.NoError(t, err)
		require.Len(t, locked, 1)

		all, err := repo.FindByMaterial(ctx, f.material.ID)
		require.NoError(t, err)
		assert.Len(t, all, 3)

		recent, err := repo.FindReceivedSince(ctx, testNow.AddDate(0, 0, -30))
		require.NoError(t, err)
		assert.Len(t, recent, 2)
	})

	t.Run("list filters by status and paginates", func(t *testing.T) {
		db := setupTestDB(t)
		f := seedCatalog(t, db)
		repo := NewGormMaterialLotRepository(db)
		for i, n := range []string{"A-1", "A-2", "A-3"} {
			require.NoError(t, repo.Save(ctx, newLot(t, f, n, "5", "1.00", testNow.AddDate(0, 0, -i))))
		}

		filter := shared.Filter{Page: 1, PageSize: 2, OrderBy: "lot_number", OrderDir: "asc",
			Filters: map[string]interface{}{"status": string(material.LotStatusReceived)}}
		page, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "A-1", page[0].LotNumber)

		total, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
	})

	t.Run("delete removes the row once", func(t *testing.T) {
		db := setupTestDB(t)
		f := seedCatalog(t, db)
		repo := NewGormMaterialLotRepository(db)
		lot := newLot(t, f, "L-DEL", "1", "1.00", testNow)
		require.NoError(t, repo.Save(ctx, lot))

		require.NoError(t, repo.Delete(ctx, lot.ID))
		assert.ErrorIs(t, repo.Delete(ctx, lot.ID), shared.ErrNotFound)
	})
}

func TestLotConsumptionRepository(t *testing.T) {
	db := setupTestDB(t)
	f := seedCatalog(t, db)
	ctx := context.Background()

	lot := newLot(t, f, "L-C", "10", "2.00", testNow)
	require.NoError(t, NewGormMaterialLotRepository(db).Save(ctx, lot))
	require.NoError(t, lot.Consume(dec("2")))

	orderID := uuid.New()
	repo := NewGormLotConsumptionRepository(db)
	require.NoError(t, repo.Save(ctx, material.NewLotConsumption(lot, dec("2"), &orderID, "PRD:PO-1")))

	byLot, err := repo.FindByLot(ctx, lot.ID)
	require.NoError(t, err)
	require.Len(t, byLot, 1)
	assert.Equal(t, "PRD:PO-1", byLot[0].Reference)

	byOrder, err := repo.FindByProductionOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Len(t, byOrder, 1)
}

func TestProductionOrderRepository(t *testing.T) {
	db := setupTestDB(t)
	f := seedCatalog(t, db)
	ctx := context.Background()
	repo := NewGormProductionOrderRepository(db)

	newOrder := func(number string, start time.Time) *production.ProductionOrder {
		o, err := production.NewProductionOrder(production.OrderPlan{
			OrderNumber:      number,
			ProductID:        f.product.ID,
			PlannedQuantity:  dec("100"),
			PlannedStartDate: start,
			PlannedEndDate:   start.Add(4 * time.Hour),
		}, testNow)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, o))
		return o
	}

	morning := newOrder("PO-001", testNow.Add(24*time.Hour))
	cancelled := newOrder("PO-002", testNow.Add(25*time.Hour))
	require.NoError(t, cancelled.Cancel("no flour"))
	require.NoError(t, repo.SaveWithLock(ctx, cancelled))
	newOrder("PO-003", testNow.Add(48*time.Hour))

	t.Run("counts only active orders intersecting the window", func(t *testing.T) {
		n, err := repo.CountOverlapping(ctx, testNow.Add(26*time.Hour), testNow.Add(30*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = repo.CountOverlapping(ctx, testNow.Add(28*time.Hour), testNow.Add(30*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(0), n, "an order ending exactly at the window start does not overlap")
	})

	t.Run("duplicate order number is a conflict", func(t *testing.T) {
		o, err := production.NewProductionOrder(production.OrderPlan{
			OrderNumber:      "PO-001",
			ProductID:        f.product.ID,
			PlannedQuantity:  dec("10"),
			PlannedStartDate: testNow.Add(72 * time.Hour),
			PlannedEndDate:   testNow.Add(73 * time.Hour),
		}, testNow)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, o), shared.ErrConflict)
	})

	t.Run("stale order update fails", func(t *testing.T) {
		stale, err := repo.FindByID(ctx, morning.ID)
		require.NoError(t, err)
		require.NoError(t, morning.Start(nil))
		require.NoError(t, repo.SaveWithLock(ctx, morning))

		require.NoError(t, stale.Cancel("late"))
		var domainErr *shared.DomainError
		require.ErrorAs(t, repo.SaveWithLock(ctx, stale), &domainErr)
		assert.Equal(t, shared.CodeOptimisticLock, domainErr.Code)
	})

	t.Run("filters by status", func(t *testing.T) {
		list, err := repo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 10,
			Filters: map[string]interface{}{"status": string(production.OrderStatusCancelled)}})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "PO-002", list[0].OrderNumber)
	})
}

func TestCCPLogRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	lo, hi := dec("70"), dec("90")
	ccp, err := haccp.NewCCP(haccp.CCPDefinition{
		Code:   "CCP-1",
		Name:   "Baking core temperature",
		Type:   haccp.CCPTypeTemperature,
		Limits: haccp.CriticalLimits{Min: &lo, Max: &hi},
	})
	require.NoError(t, err)
	require.NoError(t, NewGormCCPRepository(db).Save(ctx, ccp))

	orderID := uuid.New()
	repo := NewGormCCPLogRepository(db)
	record := func(value string, at time.Time) *haccp.CCPLog {
		l, err := haccp.NewCCPLog(ccp, haccp.Measurement{
			ProductionOrderID: &orderID,
			MeasuredValue:     dec(value),
			Unit:              "C",
			MeasuredAt:        at,
		}, testNow)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, l))
		return l
	}

	ok := record("75", testNow.Add(-2*time.Hour))
	low := record("60", testNow.Add(-time.Hour))
	fixed := record("95", testNow.Add(-30*time.Minute))
	require.NoError(t, fixed.RecordCorrectiveAction("extended bake", nil))
	require.NoError(t, repo.SaveWithLock(ctx, fixed))

	t.Run("duplicate window is inclusive", func(t *testing.T) {
		near, err := repo.ExistsNear(ctx, ccp.ID, ok.MeasuredAt.Add(time.Minute))
		require.NoError(t, err)
		assert.True(t, near)

		near, err = repo.ExistsNear(ctx, ccp.ID, ok.MeasuredAt.Add(-5*time.Minute))
		require.NoError(t, err)
		assert.False(t, near)
	})

	t.Run("open deviations include unverified corrective actions", func(t *testing.T) {
		open, err := repo.FindOpenDeviationsByOrder(ctx, orderID)
		require.NoError(t, err)
		assert.Len(t, open, 2)

		require.NoError(t, fixed.Verify(nil))
		require.NoError(t, repo.SaveWithLock(ctx, fixed))

		open, err = repo.FindOpenDeviationsByOrder(ctx, orderID)
		require.NoError(t, err)
		require.Len(t, open, 1)
		assert.Equal(t, low.ID, open[0].ID)
	})

	t.Run("status and time queries return newest first", func(t *testing.T) {
		logs, err := repo.FindMeasuredSince(ctx, testNow.Add(-90*time.Minute))
		require.NoError(t, err)
		require.Len(t, logs, 2)
		assert.Equal(t, fixed.ID, logs[0].ID)

		logs, err = repo.FindByStatus(ctx, haccp.LogStatusWithinLimits)
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, ok.ID, logs[0].ID)
	})
}

func TestGormTransactionScope(t *testing.T) {
	db := setupTestDB(t)
	f := seedCatalog(t, db)
	ctx := context.Background()
	lot := newLot(t, f, "L-TX", "10", "1.00", testNow)
	require.NoError(t, NewGormMaterialLotRepository(db).Save(ctx, lot))

	scope := NewGormTransactionScope(db)

	t.Run("rolls back every write on error", func(t *testing.T) {
		err := scope.Execute(ctx, func(repos inventory.TransactionalRepositories) error {
			locked, err := repos.LotRepo().FindByIDForUpdate(ctx, lot.ID)
			if err != nil {
				return err
			}
			if err := locked.Consume(dec("4")); err != nil {
				return err
			}
			if err := repos.LotRepo().SaveWithLock(ctx, locked); err != nil {
				return err
			}
			return assert.AnError
		})
		assert.ErrorIs(t, err, assert.AnError)

		stored, err := NewGormMaterialLotRepository(db).FindByID(ctx, lot.ID)
		require.NoError(t, err)
		assert.True(t, stored.QuantityCurrent.Equal(dec("10")))
	})

	t.Run("commits lot and consumption together", func(t *testing.T) {
		err := scope.Execute(ctx, func(repos inventory.TransactionalRepositories) error {
			locked, err := repos.LotRepo().FindByIDForUpdate(ctx, lot.ID)
			if err != nil {
				return err
			}
			if err := locked.Consume(dec("4")); err != nil {
				return err
			}
			if err := repos.LotRepo().SaveWithLock(ctx, locked); err != nil {
				return err
			}
			return repos.ConsumptionRepo().Save(ctx, material.NewLotConsumption(locked, dec("4"), nil, "manual"))
		})
		require.NoError(t, err)

		records, err := NewGormLotConsumptionRepository(db).FindByLot(ctx, lot.ID)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})
}

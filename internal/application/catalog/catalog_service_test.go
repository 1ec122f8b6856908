package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/material"
	"github.com/haccp/backend/internal/domain/product"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/haccp/backend/internal/domain/supplier"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalogFixture struct {
	suppliers *fakeSupplierRepo
	materials *fakeMaterialRepo
	products  *fakeProductRepo
	boms      *fakeBOMRepo
	publisher *recordingPublisher

	supplierSvc *SupplierService
	materialSvc *MaterialService
	productSvc  *ProductService
	bomSvc      *BOMService
}

func newCatalogFixture() *catalogFixture {
	f := &catalogFixture{
		suppliers: newFakeSupplierRepo(),
		materials: newFakeMaterialRepo(),
		products:  newFakeProductRepo(),
		boms:      newFakeBOMRepo(),
		publisher: &recordingPublisher{},
	}
	f.supplierSvc = NewSupplierService(f.suppliers, nil)
	f.materialSvc = NewMaterialService(f.materials, f.suppliers, nil)
	f.productSvc = NewProductService(f.products, f.boms, nil)
	f.productSvc.SetEventPublisher(f.publisher)
	f.bomSvc = NewBOMService(f.boms, f.products, f.materials, nil)
	f.bomSvc.SetEventPublisher(f.publisher)
	return f
}

func (f *catalogFixture) supplier(t *testing.T, code string) uuid.UUID {
	t.Helper()
	resp, err := f.supplierSvc.Create(context.Background(), CreateSupplierRequest{Code: code, Name: "Mill " + code})
	require.NoError(t, err)
	return resp.ID
}

func (f *catalogFixture) material(t *testing.T, code string, supplierID uuid.UUID) uuid.UUID {
	t.Helper()
	resp, err := f.materialSvc.Create(context.Background(), CreateMaterialRequest{
		Code:       code,
		Name:       "Material " + code,
		Category:   string(material.CategoryIngredient),
		SupplierID: supplierID,
	})
	require.NoError(t, err)
	return resp.ID
}

func (f *catalogFixture) product(t *testing.T, code string) uuid.UUID {
	t.Helper()
	resp, err := f.productSvc.Create(context.Background(), CreateProductRequest{Code: code, Name: "Product " + code})
	require.NoError(t, err)
	return resp.ID
}

func TestSupplierService_CreateAndChangeStatus(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture()

	resp, err := f.supplierSvc.Create(ctx, CreateSupplierRequest{
		Code:          "sup-01",
		Name:          "Northern Mill",
		Email:         "orders@mill.example",
		Certification: "HACCP-2025",
	})
	require.NoError(t, err)
	assert.Equal(t, "SUP-01", resp.Code)
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, "HACCP-2025", resp.Certification)

	_, err = f.supplierSvc.Create(ctx, CreateSupplierRequest{Code: "SUP-01", Name: "Copy"})
	assert.True(t, errors.Is(err, shared.ErrConflict))

	_, err = f.supplierSvc.Create(ctx, CreateSupplierRequest{Code: "SUP-02", Name: "Bad", Email: "not-an-email"})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	suspended, err := f.supplierSvc.ChangeStatus(ctx, resp.ID, "suspended")
	require.NoError(t, err)
	assert.Equal(t, "suspended", suspended.Status)

	_, err = f.supplierSvc.ChangeStatus(ctx, resp.ID, "suspended")
	assert.True(t, errors.Is(err, shared.ErrInvalidState))

	list, total, err := f.supplierSvc.List(ctx, SupplierListFilter{Status: "suspended"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, resp.ID, list[0].ID)

	_, _, err = f.supplierSvc.List(ctx, SupplierListFilter{Status: "retired"})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
}

func TestMaterialService_Create(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture()
	supplierID := f.supplier(t, "SUP-01")

	shelfLife := 90
	minTemp := decimal.NewFromInt(2)
	maxTemp := decimal.NewFromInt(8)
	resp, err := f.materialSvc.Create(ctx, CreateMaterialRequest{
		Code:           "rm-flour",
		Name:           "Wheat flour",
		Category:       "ingredient",
		StorageTempMin: &minTemp,
		StorageTempMax: &maxTemp,
		ShelfLifeDays:  &shelfLife,
		Allergens:      "gluten",
		SupplierID:     supplierID,
	})
	require.NoError(t, err)
	assert.Equal(t, "RM-FLOUR", resp.Code)
	assert.Equal(t, "kg", resp.Unit)
	assert.Equal(t, 90, *resp.ShelfLifeDays)
	assert.True(t, resp.IsActive)

	t.Run("duplicate code", func(t *testing.T) {
		_, err := f.materialSvc.Create(ctx, CreateMaterialRequest{
			Code: "RM-FLOUR", Name: "Again", Category: "ingredient", SupplierID: supplierID,
		})
		assert.True(t, errors.Is(err, shared.ErrConflict))
	})

	t.Run("unknown supplier", func(t *testing.T) {
		_, err := f.materialSvc.Create(ctx, CreateMaterialRequest{
			Code: "RM-SALT", Name: "Salt", Category: "ingredient", SupplierID: uuid.New(),
		})
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("bad category", func(t *testing.T) {
		_, err := f.materialSvc.Create(ctx, CreateMaterialRequest{
			Code: "RM-X", Name: "X", Category: "spice", SupplierID: supplierID,
		})
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})

	t.Run("inverted temperature band", func(t *testing.T) {
		_, err := f.materialSvc.Create(ctx, CreateMaterialRequest{
			Code: "RM-Y", Name: "Y", Category: "ingredient", SupplierID: supplierID,
			StorageTempMin: &maxTemp, StorageTempMax: &minTemp,
		})
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})
}

func TestMaterialService_ListAndDeactivate(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture()
	supplierID := f.supplier(t, "SUP-01")
	flour := f.material(t, "RM-FLOUR", supplierID)
	f.material(t, "RM-SALT", supplierID)

	deactivated, err := f.materialSvc.Deactivate(ctx, flour)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	_, err = f.materialSvc.Deactivate(ctx, flour)
	assert.True(t, errors.Is(err, shared.ErrInvalidState))

	active := true
	list, total, err := f.materialSvc.List(ctx, MaterialListFilter{IsActive: &active})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "RM-SALT", list[0].Code)
}

func TestProductService_HasBOMFlag(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture()
	supplierID := f.supplier(t, "SUP-01")
	flour := f.material(t, "RM-FLOUR", supplierID)
	withBOM := f.product(t, "FP-DUMPLING")
	f.product(t, "FP-BUN")

	_, err := f.bomSvc.AddItem(ctx, AddBOMItemRequest{
		ProductID:       withBOM,
		MaterialID:      flour,
		QuantityPerUnit: decimal.RequireFromString("0.25"),
	})
	require.NoError(t, err)

	got, err := f.productSvc.GetByID(ctx, withBOM)
	require.NoError(t, err)
	assert.True(t, got.HasBOM)
	assert.Equal(t, "1.0", got.Version)

	list, total, err := f.productSvc.List(ctx, ProductListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 2)
	assert.Equal(t, "FP-BUN", list[0].Code)
	assert.False(t, list[0].HasBOM)
	assert.Equal(t, "FP-DUMPLING", list[1].Code)
	assert.True(t, list[1].HasBOM)

	_, err = f.productSvc.Create(ctx, CreateProductRequest{Code: "fp-bun", Name: "Bun"})
	assert.True(t, errors.Is(err, shared.ErrConflict))
}

func TestProductService_DeactivatePublishesEvent(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture()
	bun := f.product(t, "FP-BUN")

	resp, err := f.productSvc.Deactivate(ctx, bun)
	require.NoError(t, err)
	assert.False(t, resp.IsActive)

	assert.Equal(t, []string{product.EventTypeProductDeactivated}, f.publisher.types())
	event, ok := f.publisher.events[0].(*product.ProductDeactivatedEvent)
	require.True(t, ok)
	assert.Equal(t, bun, event.ProductID)
	assert.Equal(t, "FP-BUN", event.Code)

	_, err = f.productSvc.Deactivate(ctx, bun)
	assert.True(t, errors.Is(err, shared.ErrInvalidState))
	assert.Len(t, f.publisher.events, 1)
}

func TestBOMService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture()
	supplierID := f.supplier(t, "SUP-01")
	flour := f.material(t, "RM-FLOUR", supplierID)
	productID := f.product(t, "FP-DUMPLING")

	added, err := f.bomSvc.AddItem(ctx, AddBOMItemRequest{
		ProductID:       productID,
		MaterialID:      flour,
		QuantityPerUnit: decimal.RequireFromString("0.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, "kg", added.Unit)
	assert.Equal(t, "RM-FLOUR", added.MaterialCode)

	_, err = f.bomSvc.AddItem(ctx, AddBOMItemRequest{
		ProductID:       productID,
		MaterialID:      flour,
		QuantityPerUnit: decimal.NewFromInt(1),
	})
	assert.True(t, errors.Is(err, shared.ErrConflict))

	qty := decimal.RequireFromString("0.6")
	updated, err := f.bomSvc.UpdateItem(ctx, added.ID, UpdateBOMItemRequest{QuantityPerUnit: &qty})
	require.NoError(t, err)
	assert.True(t, qty.Equal(updated.QuantityPerUnit))

	zero := decimal.Zero
	_, err = f.bomSvc.UpdateItem(ctx, added.ID, UpdateBOMItemRequest{QuantityPerUnit: &zero})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	require.NoError(t, f.bomSvc.RemoveItem(ctx, added.ID))
	err = f.bomSvc.RemoveItem(ctx, added.ID)
	assert.True(t, errors.Is(err, shared.ErrInvalidState))

	_, err = f.bomSvc.UpdateItem(ctx, added.ID, UpdateBOMItemRequest{QuantityPerUnit: &qty})
	assert.True(t, errors.Is(err, shared.ErrInvalidState))

	active, err := f.bomSvc.ListByProduct(ctx, productID, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := f.bomSvc.ListByProduct(ctx, productID, true)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].IsActive)

	readded, err := f.bomSvc.AddItem(ctx, AddBOMItemRequest{
		ProductID:       productID,
		MaterialID:      flour,
		QuantityPerUnit: decimal.NewFromInt(1),
		Unit:            "g",
	})
	require.NoError(t, err)
	assert.Equal(t, "g", readded.Unit)

	assert.Equal(t, []string{
		product.EventTypeBOMItemAdded,
		product.EventTypeBOMItemUpdated,
		product.EventTypeBOMItemRemoved,
		product.EventTypeBOMItemAdded,
	}, f.publisher.types())

	event, ok := f.publisher.events[0].(*product.BOMChangedEvent)
	require.True(t, ok)
	assert.Equal(t, flour, event.GetMaterialID())
	assert.Equal(t, productID, event.ProductID)
}

func TestBOMService_AddItemRejectsUnknownReferences(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture()
	supplierID := f.supplier(t, "SUP-01")
	flour := f.material(t, "RM-FLOUR", supplierID)
	productID := f.product(t, "FP-DUMPLING")

	_, err := f.bomSvc.AddItem(ctx, AddBOMItemRequest{ProductID: uuid.New(), MaterialID: flour, QuantityPerUnit: decimal.NewFromInt(1)})
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	_, err = f.bomSvc.AddItem(ctx, AddBOMItemRequest{ProductID: productID, MaterialID: uuid.New(), QuantityPerUnit: decimal.NewFromInt(1)})
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	_, err = f.bomSvc.AddItem(ctx, AddBOMItemRequest{ProductID: productID, MaterialID: flour, QuantityPerUnit: decimal.NewFromInt(-1)})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	assert.Empty(t, f.publisher.types())
}

var (
	_ supplier.SupplierRepository    = (*fakeSupplierRepo)(nil)
	_ material.RawMaterialRepository = (*fakeMaterialRepo)(nil)
	_ product.ProductRepository      = (*fakeProductRepo)(nil)
	_ product.BOMRepository          = (*fakeBOMRepo)(nil)
)

package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/eggpro-erp/internal/application/dto"
	"github.com/jhoicas/eggpro-erp/internal/application/fakes"
	"github.com/jhoicas/eggpro-erp/internal/application/inventory"
	"github.com/jhoicas/eggpro-erp/internal/domain"
	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
	"github.com/jhoicas/eggpro-erp/internal/infrastructure/querycache"
	"github.com/jhoicas/eggpro-erp/pkg/logger"
)

const (
	eggsID  = "0b6a2f0e-7d4c-4c59-9a0e-6f4f3f1d8a01"
	flourID = "0b6a2f0e-7d4c-4c59-9a0e-6f4f3f1d8a02"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seed() *fakes.Products {
	return fakes.NewProducts(
		entity.Product{ID: eggsID, Name: "Eggs tray 30", SKU: "EGG-30", Stock: 12, MinStock: 5, Price: d("150"), TaxRate: d("15")},
		entity.Product{ID: flourID, Name: "Flour 1kg", SKU: "FLR-1", Stock: 2, MinStock: 5, Price: d("42.50")},
	)
}

func setup() (*inventory.ProductUseCase, *inventory.StockUseCase, *fakes.Products, *fakes.Stock) {
	products := seed()
	stock := &fakes.Stock{Products: products}
	cache := querycache.New()
	log := logger.Nop()
	return inventory.NewProductUseCase(products, cache, time.Minute, log),
		inventory.NewStockUseCase(stock, cache, time.Minute, log),
		products, stock
}

func TestList_CalculaValorYAlertas(t *testing.T) {
	products, _, _, _ := setup()

	out, err := products.List(context.Background(), "", 0, 0, false)
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	// 12 × 150 + 2 × 42.50
	assert.True(t, d("1885").Equal(out.TotalStockValue), out.TotalStockValue.String())
	assert.Equal(t, 1, out.LowStockCount)
	assert.Equal(t, 100, out.Page.Limit)
}

func TestCreate_SkuDuplicado(t *testing.T) {
	products, _, _, _ := setup()
	_, err := products.Create(context.Background(), dto.CreateProductRequest{Name: "Otro", SKU: "EGG-30"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreate_ValidaImpuesto(t *testing.T) {
	products, _, repo, _ := setup()
	rate := d("120")
	_, err := products.Create(context.Background(), dto.CreateProductRequest{Name: "Sal", SKU: "SAL-1", TaxRate: &rate})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, repo.Count("Create"))
}

func TestUpdate_IgnoraStock(t *testing.T) {
	products, _, repo, _ := setup()
	stock := 999
	name := "Eggs tray 30 (XL)"
	out, err := products.Update(context.Background(), eggsID, dto.UpdateProductRequest{Name: &name, Stock: &stock})
	require.NoError(t, err)
	assert.Equal(t, name, out.Name)
	assert.Equal(t, 12, out.Stock)
	assert.Equal(t, 12, repo.Rows[eggsID].Stock)
}

func TestDelete_OptimistaRevierteSiFalla(t *testing.T) {
	products, _, repo, _ := setup()
	ctx := context.Background()
	_, err := products.List(ctx, "", 0, 0, false)
	require.NoError(t, err)

	repo.Err = fakes.Errors{"Delete": domain.ErrReferenced}
	err = products.Delete(ctx, eggsID)
	assert.ErrorIs(t, err, domain.ErrReferenced)

	out, err := products.List(ctx, "", 0, 0, false)
	require.NoError(t, err)
	assert.Len(t, out.Items, 2, "el listado cacheado se restaura")
	assert.Equal(t, 1, repo.Count("Search"))

	repo.Err = nil
	require.NoError(t, products.Delete(ctx, eggsID))
	out, err = products.List(ctx, "", 0, 0, false)
	require.NoError(t, err)
	assert.Len(t, out.Items, 1)
}

func TestMove_ActualizaStockYListados(t *testing.T) {
	products, stock, repo, moves := setup()
	ctx := context.Background()
	_, err := products.List(ctx, "", 0, 0, false)
	require.NoError(t, err)

	res, err := stock.Move(ctx, dto.MoveStockRequest{ProductID: eggsID, Delta: -4})
	require.NoError(t, err)
	assert.Equal(t, 8, res.NewStock)
	require.Len(t, moves.Movements, 1)
	assert.Equal(t, entity.MovementReasonAdjustment, moves.Movements[0].Reason)

	out, err := products.List(ctx, "", 0, 0, false)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.Count("Search"), "los listados se invalidan tras el movimiento")
	for _, p := range out.Items {
		if p.ID == eggsID {
			assert.Equal(t, 8, p.Stock)
		}
	}
}

func TestMove_Validaciones(t *testing.T) {
	_, stock, _, moves := setup()
	ctx := context.Background()

	_, err := stock.Move(ctx, dto.MoveStockRequest{ProductID: eggsID, Delta: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = stock.Move(ctx, dto.MoveStockRequest{ProductID: flourID, Delta: -3})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, moves.Movements)
}

func TestAdjust_TipoYMotivo(t *testing.T) {
	_, stock, repo, _ := setup()
	ctx := context.Background()

	res, err := stock.Adjust(ctx, flourID, dto.AdjustStockRequest{Type: dto.AdjustTypeAdd, Amount: 10, Reason: "compra"})
	require.NoError(t, err)
	assert.Equal(t, 12, res.NewStock)

	res, err = stock.Adjust(ctx, flourID, dto.AdjustStockRequest{Type: dto.AdjustTypeRemove, Amount: 2, Reason: "merma"})
	require.NoError(t, err)
	assert.Equal(t, 10, res.NewStock)
	assert.Equal(t, 10, repo.Rows[flourID].Stock)

	_, err = stock.Adjust(ctx, flourID, dto.AdjustStockRequest{Type: dto.AdjustTypeAdd, Amount: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = stock.Adjust(ctx, flourID, dto.AdjustStockRequest{Type: "swap", Amount: 1, Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSet_Y_Movimientos(t *testing.T) {
	_, stock, repo, _ := setup()
	ctx := context.Background()

	require.NoError(t, stock.Set(ctx, eggsID, dto.SetStockRequest{NewQty: 30}))
	assert.Equal(t, 30, repo.Rows[eggsID].Stock)
	assert.ErrorIs(t, stock.Set(ctx, eggsID, dto.SetStockRequest{NewQty: -1}), domain.ErrInvalidInput)

	list, err := stock.Movements(ctx, eggsID, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 18, list[0].Delta)
	assert.Equal(t, entity.MovementReasonSet, list[0].Reason)
}

func TestPosSnapshot_ExcluyeSinStock(t *testing.T) {
	products, _, repo, _ := setup()
	repo.Rows[flourID].Stock = 0

	snap, err := products.PosSnapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snap, 1)
	assert.Equal(t, eggsID, snap[0].ID)

	repo.Err = fakes.Errors{"ListForPOS": errors.New("timeout")}
	_, err = products.PosSnapshot(context.Background())
	assert.NoError(t, err, "la foto cacheada sigue vigente")
}

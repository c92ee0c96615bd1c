package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/eggpro-erp/internal/application/dto"
	"github.com/jhoicas/eggpro-erp/internal/application/querykeys"
	"github.com/jhoicas/eggpro-erp/internal/domain"
	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
	"github.com/jhoicas/eggpro-erp/internal/domain/repository"
	"github.com/jhoicas/eggpro-erp/internal/infrastructure/querycache"
	"github.com/jhoicas/eggpro-erp/pkg/logger"
)

// StockUseCase movimientos de stock: delta, fijación y ajuste manual. Cada escritura es
// atómica en el backend (actualiza products.stock y registra stock_movements).
type StockUseCase struct {
	repo  repository.StockRepository
	cache *querycache.Cache
	stale time.Duration
	log   *logger.Logger
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(repo repository.StockRepository, cache *querycache.Cache, stale time.Duration, log *logger.Logger) *StockUseCase {
	return &StockUseCase{repo: repo, cache: cache, stale: stale, log: log.Component("stock")}
}

// Move aplica delta (≠ 0) al producto vía inventory_move. Los listados de productos cacheados se
// parchean con el stock devuelto y luego se invalidan junto con el resto de vistas de stock.
func (uc *StockUseCase) Move(ctx context.Context, in dto.MoveStockRequest) (*dto.MoveStockResponse, error) {
	if !dto.ValidID(in.ProductID) || in.Delta == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.RefID != "" && !dto.ValidID(in.RefID) {
		return nil, domain.ErrInvalidInput
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = entity.MovementReasonAdjustment
	}
	newStock, err := uc.repo.Move(ctx, repository.StockMove{
		ProductID: in.ProductID,
		Delta:     in.Delta,
		Reason:    reason,
		RefType:   in.RefType,
		RefID:     in.RefID,
	})
	if err != nil {
		return nil, err
	}
	uc.patchStock(in.ProductID, newStock)
	uc.cache.Invalidate(querykeys.StockMutation()...)
	uc.log.Info().Str("product_id", in.ProductID).Int("delta", in.Delta).Int("new_stock", newStock).
		Str("reason", reason).Msg("movimiento de stock")
	return &dto.MoveStockResponse{ProductID: in.ProductID, NewStock: newStock}, nil
}

// Set fija el stock a newQty (≥ 0) vía inventory_set.
func (uc *StockUseCase) Set(ctx context.Context, productID string, in dto.SetStockRequest) error {
	if !dto.ValidID(productID) || in.NewQty < 0 {
		return domain.ErrInvalidInput
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = entity.MovementReasonSet
	}
	if err := uc.repo.Set(ctx, productID, in.NewQty, reason); err != nil {
		return err
	}
	uc.cache.Invalidate(querykeys.StockMutation()...)
	uc.log.Info().Str("product_id", productID).Int("new_qty", in.NewQty).Msg("stock fijado")
	return nil
}

// Adjust diálogo de control de stock: add suma amount, remove lo resta; reason obligatorio.
func (uc *StockUseCase) Adjust(ctx context.Context, productID string, in dto.AdjustStockRequest) (*dto.MoveStockResponse, error) {
	if in.Amount <= 0 || strings.TrimSpace(in.Reason) == "" {
		return nil, domain.ErrInvalidInput
	}
	var delta int
	switch in.Type {
	case dto.AdjustTypeAdd:
		delta = in.Amount
	case dto.AdjustTypeRemove:
		delta = -in.Amount
	default:
		return nil, fmt.Errorf("%w: tipo de ajuste %q", domain.ErrInvalidInput, in.Type)
	}
	return uc.Move(ctx, dto.MoveStockRequest{ProductID: productID, Delta: delta, Reason: in.Reason})
}

// Movements historial más reciente primero; productID vacío lista todos los productos.
func (uc *StockUseCase) Movements(ctx context.Context, productID string, limit, offset int) ([]dto.StockMovementResponse, error) {
	if productID != "" && !dto.ValidID(productID) {
		return nil, domain.ErrInvalidInput
	}
	page := dto.Page(limit, offset, defaultLimit, maxLimit)
	key := querykeys.With(querykeys.StockMovements, productID, page.Limit, page.Offset)
	list, err := querycache.Get(ctx, uc.cache, key, uc.stale, func(ctx context.Context) ([]entity.StockMovement, error) {
		return uc.repo.ListMovements(ctx, productID, page.Limit, page.Offset)
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.StockMovementResponse{
			ID: m.ID, ProductID: m.ProductID, Delta: m.Delta, Reason: m.Reason,
			RefType: m.RefType, RefID: m.RefID, CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}

// patchStock reemplaza el stock del producto en los listados cacheados sin mutar los originales.
func (uc *StockUseCase) patchStock(productID string, newStock int) {
	uc.cache.Patch(isProductList, func(_ querycache.Key, v any) any {
		list, ok := v.([]entity.Product)
		if !ok {
			return v
		}
		out := make([]entity.Product, len(list))
		copy(out, list)
		for i := range out {
			if out[i].ID == productID {
				out[i].Stock = newStock
			}
		}
		return out
	})
}

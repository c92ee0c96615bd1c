package analytics

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/eggpro-erp/internal/application/dto"
)

// Dashboard obtiene las cuatro analíticas del panel en paralelo. Cada una ya aplica su respaldo,
// por lo que sólo falla si tampoco se pudieron leer las tablas.
func (uc *AnalyticsUseCase) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	var out dto.DashboardResponse
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := uc.Customers(ctx)
		if err == nil {
			out.Customers = *a
		}
		return err
	})
	g.Go(func() error {
		a, err := uc.Inventory(ctx)
		if err == nil {
			out.Inventory = *a
		}
		return err
	})
	g.Go(func() error {
		a, err := uc.Sales(ctx, DefaultSalesDays)
		if err == nil {
			out.Sales = *a
		}
		return err
	})
	g.Go(func() error {
		a, err := uc.Financial(ctx)
		if err == nil {
			out.Financial = *a
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

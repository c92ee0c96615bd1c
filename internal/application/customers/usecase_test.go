package customers_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/eggpro-erp/internal/application/customers"
	"github.com/jhoicas/eggpro-erp/internal/application/dto"
	"github.com/jhoicas/eggpro-erp/internal/application/fakes"
	"github.com/jhoicas/eggpro-erp/internal/domain"
	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
	"github.com/jhoicas/eggpro-erp/internal/infrastructure/querycache"
	"github.com/jhoicas/eggpro-erp/pkg/logger"
)

func newUseCase() (*customers.CustomerUseCase, *fakes.Customers) {
	repo := fakes.NewCustomers()
	return customers.NewCustomerUseCase(repo, querycache.New(), time.Minute, logger.Nop()), repo
}

func strp(s string) *string { return &s }

func TestCreate_AplicaValoresPorDefecto(t *testing.T) {
	uc, repo := newUseCase()

	out, err := uc.Create(context.Background(), dto.CreateCustomerRequest{Name: "  Granja Sol  ", Email: "ventas@granjasol.com"})
	require.NoError(t, err)
	assert.Equal(t, "Granja Sol", out.Name)
	assert.Equal(t, entity.CustomerTypeRetail, out.Type)
	assert.Equal(t, entity.CustomerStatusActive, out.Status)
	assert.NotEmpty(t, out.ID)
	assert.Len(t, repo.Rows, 1)
}

func TestCreate_ValidaEntrada(t *testing.T) {
	cases := map[string]dto.CreateCustomerRequest{
		"sin nombre":      {Name: "   "},
		"email inválido":  {Name: "Ana", Email: "ana@"},
		"email sin tld":   {Name: "Ana", Email: "ana@localhost"},
		"tipo inválido":   {Name: "Ana", Type: "Vip"},
		"estado inválido": {Name: "Ana", Status: "Deleted"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			uc, repo := newUseCase()
			_, err := uc.Create(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Zero(t, repo.Count("Create"))
		})
	}
}

func TestList_UsaCacheEInvalidaTrasAlta(t *testing.T) {
	uc, repo := newUseCase()
	ctx := context.Background()

	_, err := uc.List(ctx, "", 0, 0)
	require.NoError(t, err)
	_, err = uc.List(ctx, "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.Count("Search"), "segunda lectura sale del cache")

	_, err = uc.Create(ctx, dto.CreateCustomerRequest{Name: "Panadería Luna"})
	require.NoError(t, err)

	list, err := uc.List(ctx, "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.Count("Search"))
	require.Len(t, list.Items, 1)
	assert.Equal(t, 50, list.Page.Limit)
}

func TestUpdate_ClienteInexistenteDevuelveNil(t *testing.T) {
	uc, _ := newUseCase()
	out, err := uc.Update(context.Background(), "6f1c1f7e-3f0a-4d6b-9a43-0d7e2a1b9c10", dto.UpdateCustomerRequest{Name: strp("X")})
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestUpdate_AplicaSoloCamposPresentes(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()
	created, err := uc.Create(ctx, dto.CreateCustomerRequest{Name: "Hotel Central", Phone: "555-0101", Type: entity.CustomerTypeRestaurant})
	require.NoError(t, err)

	out, err := uc.Update(ctx, created.ID, dto.UpdateCustomerRequest{Status: strp(entity.CustomerStatusInactive)})
	require.NoError(t, err)
	assert.Equal(t, "Hotel Central", out.Name)
	assert.Equal(t, "555-0101", out.Phone)
	assert.Equal(t, entity.CustomerTypeRestaurant, out.Type)
	assert.Equal(t, entity.CustomerStatusInactive, out.Status)

	_, err = uc.Update(ctx, created.ID, dto.UpdateCustomerRequest{Name: strp("  ")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDelete_ReferenciadoPropagaError(t *testing.T) {
	uc, repo := newUseCase()
	ctx := context.Background()
	created, err := uc.Create(ctx, dto.CreateCustomerRequest{Name: "Súper Norte"})
	require.NoError(t, err)

	repo.Err = fakes.Errors{"Delete": domain.ErrReferenced}
	assert.ErrorIs(t, uc.Delete(ctx, created.ID), domain.ErrReferenced)

	repo.Err = nil
	require.NoError(t, uc.Delete(ctx, created.ID))
	assert.Empty(t, repo.Rows)

	assert.ErrorIs(t, uc.Delete(ctx, "no-es-uuid"), domain.ErrInvalidInput)
}

func TestPosCustomers_OrdenadosPorNombre(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()
	for _, n := range []string{"Zeta", "Alfa", "Mesa"} {
		_, err := uc.Create(ctx, dto.CreateCustomerRequest{Name: n})
		require.NoError(t, err)
	}
	list, err := uc.PosCustomers(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"Alfa", "Mesa", "Zeta"}, []string{list[0].Name, list[1].Name, list[2].Name})
}

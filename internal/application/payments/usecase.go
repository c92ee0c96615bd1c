package payments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/eggpro-erp/internal/application/dto"
	"github.com/jhoicas/eggpro-erp/internal/application/querykeys"
	"github.com/jhoicas/eggpro-erp/internal/domain"
	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
	"github.com/jhoicas/eggpro-erp/internal/domain/repository"
	"github.com/jhoicas/eggpro-erp/internal/infrastructure/querycache"
	"github.com/jhoicas/eggpro-erp/pkg/logger"
)

// tolerance margen de redondeo aceptado sobre el saldo pendiente.
var tolerance = decimal.RequireFromString("0.01")

// PaymentUseCase abonos contra ventas y consulta de saldos.
type PaymentUseCase struct {
	repo  repository.PaymentRepository
	cache *querycache.Cache
	stale time.Duration
	now   func() time.Time
	log   *logger.Logger
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(repo repository.PaymentRepository, cache *querycache.Cache, stale time.Duration, log *logger.Logger) *PaymentUseCase {
	return &PaymentUseCase{repo: repo, cache: cache, stale: stale, now: time.Now, log: log.Component("payments")}
}

// AddPayment registra un abono. El monto debe ser positivo y no superar el saldo pendiente
// (más un centavo de tolerancia) según get_sale_payment_summary.
func (uc *PaymentUseCase) AddPayment(ctx context.Context, saleID string, in dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	if !dto.ValidID(saleID) {
		return nil, domain.ErrInvalidInput
	}
	customerID := strings.TrimSpace(in.CustomerID)
	if customerID != "" && !dto.ValidID(customerID) {
		return nil, domain.ErrInvalidInput
	}
	if !in.AmountPaid.IsPositive() {
		return nil, fmt.Errorf("%w: el monto debe ser mayor a cero", domain.ErrInvalidInput)
	}
	if !entity.IsValidPaymentMethod(in.PaymentMethod) {
		return nil, fmt.Errorf("%w: método de pago %q", domain.ErrInvalidInput, in.PaymentMethod)
	}

	summary, err := uc.repo.SaleSummary(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, domain.ErrNotFound
	}
	if in.AmountPaid.GreaterThan(summary.BalanceDue.Add(tolerance)) {
		return nil, fmt.Errorf("%w: saldo %s", domain.ErrPaymentExceedsBalance, summary.BalanceDue.StringFixed(2))
	}

	p := &entity.Payment{
		SaleID:        saleID,
		CustomerID:    customerID,
		AmountPaid:    in.AmountPaid,
		PaymentMethod: in.PaymentMethod,
		PaymentDate:   uc.now(),
		Notes:         strings.TrimSpace(in.Notes),
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.cache.Invalidate(querykeys.PaymentMutation(saleID, customerID)...)
	uc.log.Info().Str("payment_id", p.ID).Str("sale_id", saleID).Str("amount", p.AmountPaid.StringFixed(2)).
		Str("method", p.PaymentMethod).Msg("pago registrado")
	out := toPaymentResponse(p)
	return &out, nil
}

// SalePayments pagos de la venta, más recientes primero.
func (uc *PaymentUseCase) SalePayments(ctx context.Context, saleID string) ([]dto.PaymentResponse, error) {
	if !dto.ValidID(saleID) {
		return nil, domain.ErrInvalidInput
	}
	list, err := querycache.Get(ctx, uc.cache, querykeys.With(querykeys.SalePayments, saleID), uc.stale,
		func(ctx context.Context) ([]entity.Payment, error) {
			return uc.repo.ListBySale(ctx, saleID)
		})
	if err != nil {
		return nil, err
	}
	out := make([]dto.PaymentResponse, 0, len(list))
	for i := range list {
		out = append(out, toPaymentResponse(&list[i]))
	}
	return out, nil
}

// SaleSummary total, pagado y saldo de la venta; ErrNotFound si no hay resumen.
func (uc *PaymentUseCase) SaleSummary(ctx context.Context, saleID string) (*entity.SalePaymentSummary, error) {
	if !dto.ValidID(saleID) {
		return nil, domain.ErrInvalidInput
	}
	s, err := querycache.Get(ctx, uc.cache, querykeys.With(querykeys.SalePaymentSummary, saleID), uc.stale,
		func(ctx context.Context) (*entity.SalePaymentSummary, error) {
			return uc.repo.SaleSummary(ctx, saleID)
		})
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// CustomerBalance saldo consolidado del cliente; ErrNotFound si no hay datos.
func (uc *PaymentUseCase) CustomerBalance(ctx context.Context, customerID string) (*dto.CustomerBalanceResponse, error) {
	if !dto.ValidID(customerID) {
		return nil, domain.ErrInvalidInput
	}
	b, err := querycache.Get(ctx, uc.cache, querykeys.With(querykeys.CustomerBalance, customerID), uc.stale,
		func(ctx context.Context) (*entity.CustomerBalance, error) {
			return uc.repo.CustomerBalance(ctx, customerID)
		})
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	out := toBalanceResponse(b)
	return &out, nil
}

// OutstandingBalances saldos de todos los clientes con deuda.
func (uc *PaymentUseCase) OutstandingBalances(ctx context.Context) ([]dto.CustomerBalanceResponse, error) {
	list, err := querycache.Get(ctx, uc.cache, querykeys.OutstandingBalances, uc.stale,
		func(ctx context.Context) ([]entity.CustomerBalance, error) {
			return uc.repo.OutstandingBalances(ctx)
		})
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerBalanceResponse, 0, len(list))
	for i := range list {
		out = append(out, toBalanceResponse(&list[i]))
	}
	return out, nil
}

func toPaymentResponse(p *entity.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID: p.ID, SaleID: p.SaleID, CustomerID: p.CustomerID, AmountPaid: p.AmountPaid,
		PaymentMethod: p.PaymentMethod, PaymentDate: p.PaymentDate, Notes: p.Notes, CreatedAt: p.CreatedAt,
	}
}

func toBalanceResponse(b *entity.CustomerBalance) dto.CustomerBalanceResponse {
	pending := b.PendingSales
	if pending == nil {
		pending = []entity.SalePaymentSummary{}
	}
	return dto.CustomerBalanceResponse{
		CustomerID: b.CustomerID, CustomerName: b.CustomerName, TotalOutstanding: b.TotalOutstanding,
		OverdueAmount: b.OverdueAmount, TotalSales: b.TotalSales, PendingSales: pending,
	}
}

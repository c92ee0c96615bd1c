package customers

import (
	"context"
	"net/mail"
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

const (
	defaultLimit   = 50
	maxLimit       = 500
	posPickerLimit = 200
)

// CustomerUseCase casos de uso de clientes: listado, alta, edición, baja y selector del POS.
type CustomerUseCase struct {
	repo  repository.CustomerRepository
	cache *querycache.Cache
	stale time.Duration
	log   *logger.Logger
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository, cache *querycache.Cache, stale time.Duration, log *logger.Logger) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, cache: cache, stale: stale, log: log.Component("customers")}
}

// List busca clientes (customers_search). search vacío lista todos.
func (uc *CustomerUseCase) List(ctx context.Context, search string, limit, offset int) (*dto.CustomerListResponse, error) {
	page := dto.Page(limit, offset, defaultLimit, maxLimit)
	search = strings.TrimSpace(search)
	key := querykeys.With(querykeys.Customers, search, page.Limit, page.Offset)
	list, err := querycache.Get(ctx, uc.cache, key, uc.stale, func(ctx context.Context) ([]entity.Customer, error) {
		return uc.repo.Search(ctx, search, page.Limit, page.Offset)
	})
	if err != nil {
		return nil, err
	}
	out := &dto.CustomerListResponse{Items: make([]dto.CustomerResponse, 0, len(list)), Page: page}
	for i := range list {
		out.Items = append(out.Items, toCustomerResponse(&list[i]))
	}
	return out, nil
}

// GetByID devuelve el cliente o nil si no existe.
func (uc *CustomerUseCase) GetByID(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	if !dto.ValidID(id) {
		return nil, domain.ErrInvalidInput
	}
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil || c == nil {
		return nil, err
	}
	out := toCustomerResponse(c)
	return &out, nil
}

// Create valida y da de alta un cliente con tipo Retail y estado Active por defecto.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	c := &entity.Customer{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Phone:   strings.TrimSpace(in.Phone),
		Type:    in.Type,
		Address: in.Address,
		City:    in.City,
		State:   in.State,
		ZipCode: in.ZipCode,
		Notes:   in.Notes,
		Status:  in.Status,
	}
	if c.Type == "" {
		c.Type = entity.CustomerTypeRetail
	}
	if c.Status == "" {
		c.Status = entity.CustomerStatusActive
	}
	if err := validate(c.Name, c.Email, c.Type, c.Status); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	uc.cache.Invalidate(querykeys.CustomerMutation()...)
	uc.log.Info().Str("customer_id", c.ID).Msg("cliente creado")
	out := toCustomerResponse(c)
	return &out, nil
}

// Update aplica los campos presentes. Devuelve nil si el cliente no existe.
func (uc *CustomerUseCase) Update(ctx context.Context, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	if !dto.ValidID(id) {
		return nil, domain.ErrInvalidInput
	}
	patch := entity.CustomerPatch{
		Name: trimmed(in.Name), Email: trimmed(in.Email), Phone: trimmed(in.Phone), Type: in.Type,
		Address: in.Address, City: in.City, State: in.State, ZipCode: in.ZipCode, Notes: in.Notes, Status: in.Status,
	}
	if patch.Name != nil && *patch.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if patch.Email != nil && *patch.Email != "" && !validEmail(*patch.Email) {
		return nil, domain.ErrInvalidInput
	}
	if patch.Type != nil && !entity.IsValidCustomerType(*patch.Type) {
		return nil, domain.ErrInvalidInput
	}
	if patch.Status != nil && !entity.IsValidCustomerStatus(*patch.Status) {
		return nil, domain.ErrInvalidInput
	}
	c, err := uc.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	uc.cache.Invalidate(querykeys.CustomerMutation()...)
	out := toCustomerResponse(c)
	return &out, nil
}

// Delete elimina un cliente. Con ventas o pagos asociados devuelve ErrReferenced.
func (uc *CustomerUseCase) Delete(ctx context.Context, id string) error {
	if !dto.ValidID(id) {
		return domain.ErrInvalidInput
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.cache.Invalidate(querykeys.CustomerMutation()...)
	uc.log.Info().Str("customer_id", id).Msg("cliente eliminado")
	return nil
}

// PosCustomers id y nombre para el selector del POS, ordenados por nombre.
func (uc *CustomerUseCase) PosCustomers(ctx context.Context, search string) ([]dto.PosCustomerResponse, error) {
	search = strings.TrimSpace(search)
	key := querykeys.With(querykeys.PosCustomers, search)
	list, err := querycache.Get(ctx, uc.cache, key, uc.stale, func(ctx context.Context) ([]entity.PosCustomer, error) {
		return uc.repo.ListForPOS(ctx, search, posPickerLimit)
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.PosCustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.PosCustomerResponse{ID: c.ID, Name: c.Name})
	}
	return out, nil
}

func validate(name, email, typ, status string) error {
	if name == "" {
		return domain.ErrInvalidInput
	}
	if email != "" && !validEmail(email) {
		return domain.ErrInvalidInput
	}
	if !entity.IsValidCustomerType(typ) || !entity.IsValidCustomerStatus(status) {
		return domain.ErrInvalidInput
	}
	return nil
}

// validEmail acepta sólo direcciones simples (sin nombre visible).
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s && strings.Contains(s[strings.LastIndex(s, "@"):], ".")
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func toCustomerResponse(c *entity.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		Type:        c.Type,
		Address:     c.Address,
		City:        c.City,
		State:       c.State,
		ZipCode:     c.ZipCode,
		Notes:       c.Notes,
		Status:      c.Status,
		TotalOrders: c.TotalOrders,
		TotalSpent:  c.TotalSpent,
		CreatedAt:   c.CreatedAt,
	}
}

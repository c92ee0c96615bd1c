package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de cliente.
const (
	CustomerTypeRetail     = "Retail"
	CustomerTypeWholesale  = "Wholesale"
	CustomerTypeRestaurant = "Restaurant"
	CustomerTypeGrocery    = "Grocery"
)

// Estados de cliente.
const (
	CustomerStatusActive   = "Active"
	CustomerStatusInactive = "Inactive"
)

// IsValidCustomerType indica si t es uno de los tipos admitidos.
func IsValidCustomerType(t string) bool {
	switch t {
	case CustomerTypeRetail, CustomerTypeWholesale, CustomerTypeRestaurant, CustomerTypeGrocery:
		return true
	}
	return false
}

// IsValidCustomerStatus indica si s es Active o Inactive.
func IsValidCustomerStatus(s string) bool {
	return s == CustomerStatusActive || s == CustomerStatusInactive
}

// Customer cliente del comercio. Los campos opcionales vacíos se guardan como NULL.
// TotalOrders y TotalSpent sólo vienen rellenos desde la búsqueda (customers_search).
type Customer struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	Type        string
	Address     string
	City        string
	State       string
	ZipCode     string
	Notes       string
	Status      string
	TotalOrders int
	TotalSpent  decimal.Decimal
	CreatedAt   time.Time
}

// CustomerPatch actualización parcial; los campos nil no se tocan.
type CustomerPatch struct {
	Name    *string
	Email   *string
	Phone   *string
	Type    *string
	Address *string
	City    *string
	State   *string
	ZipCode *string
	Notes   *string
	Status  *string
}

// PosCustomer versión reducida para el selector del punto de venta.
type PosCustomer struct {
	ID   string
	Name string
}

package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
)

// StockStatus semáforo de existencias.
type StockStatus string

const (
	StockCritical StockStatus = "critical"
	StockLow      StockStatus = "low"
	StockGood     StockStatus = "good"
)

// Status clasifica el stock frente al mínimo:
// critical si stock <= max(0, floor(min*0.5)), low si stock <= min, good en otro caso.
func Status(stock, minStock int) StockStatus {
	half := floorHalf(minStock)
	if half < 0 {
		half = 0
	}
	if stock <= half {
		return StockCritical
	}
	if stock <= minStock {
		return StockLow
	}
	return StockGood
}

// floorHalf floor(n*0.5) también para negativos (la división entera de Go trunca hacia cero).
func floorHalf(n int) int {
	if n >= 0 || n%2 == 0 {
		return n / 2
	}
	return n/2 - 1
}

// TotalStockValue Σ stock × precio.
func TotalStockValue(products []entity.Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
	}
	return total
}

// LowStockCount productos cuyo estado no es good.
func LowStockCount(products []entity.Product) int {
	n := 0
	for _, p := range products {
		if Status(p.Stock, p.MinStock) != StockGood {
			n++
		}
	}
	return n
}

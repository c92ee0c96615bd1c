package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/eggpro-erp/internal/domain/entity"
	"github.com/jhoicas/eggpro-erp/internal/domain/inventory"
)

func TestStatus_Umbrales(t *testing.T) {
	cases := []struct {
		name     string
		stock    int
		minStock int
		want     inventory.StockStatus
	}{
		{"sin stock y sin mínimo", 0, 0, inventory.StockCritical},
		{"uno sobre mínimo cero", 1, 0, inventory.StockGood},
		{"mitad exacta", 5, 10, inventory.StockCritical},
		{"sobre la mitad", 6, 10, inventory.StockLow},
		{"igual al mínimo", 10, 10, inventory.StockLow},
		{"sobre el mínimo", 11, 10, inventory.StockGood},
		{"mínimo impar redondea hacia abajo", 3, 7, inventory.StockCritical},
		{"mínimo impar, floor+1", 4, 7, inventory.StockLow},
		{"mínimo uno", 0, 1, inventory.StockCritical},
		{"mínimo uno con una unidad", 1, 1, inventory.StockLow},
		{"stock negativo", -2, 10, inventory.StockCritical},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, inventory.Status(tc.stock, tc.minStock))
		})
	}
}

func TestTotalStockValue_Y_LowStockCount(t *testing.T) {
	products := []entity.Product{
		{Stock: 10, MinStock: 5, Price: decimal.RequireFromString("2.50")},
		{Stock: 2, MinStock: 5, Price: decimal.RequireFromString("10")},
		{Stock: 5, MinStock: 5, Price: decimal.RequireFromString("1.10")},
	}

	assert.True(t, decimal.RequireFromString("50.50").Equal(inventory.TotalStockValue(products)))
	assert.Equal(t, 2, inventory.LowStockCount(products))
	assert.True(t, inventory.TotalStockValue(nil).IsZero())
}

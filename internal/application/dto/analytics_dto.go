package dto

import "github.com/jhoicas/eggpro-erp/internal/domain/entity"

// DashboardResponse las cuatro analíticas del panel principal.
type DashboardResponse struct {
	Customers entity.CustomerAnalytics  `json:"customers"`
	Inventory entity.InventoryAnalytics `json:"inventory"`
	Sales     entity.SalesAnalytics     `json:"sales"`
	Financial entity.FinancialAnalytics `json:"financial"`
}

package querykeys

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/eggpro-erp/internal/infrastructure/querycache"
)

func TestWith_NoModificaLaRaiz(t *testing.T) {
	k := With(Products, "eggs", 100)
	assert.Equal(t, querycache.Key{"products", "eggs", "100"}, k)
	assert.Equal(t, querycache.Key{"products"}, Products)
	assert.True(t, k.HasPrefix(Products))
}

func TestCheckoutMutation_Mostrador(t *testing.T) {
	keys := CheckoutMutation("s1", "")
	for _, k := range keys {
		assert.False(t, k.HasPrefix(CustomerBalance), "mostrador no invalida saldos: %v", k)
	}
	assert.Contains(t, keys, querycache.Key{"sale_payment_summary", "s1"})
	assert.Contains(t, keys, Customers)
	assert.Contains(t, keys, CustomerSegments)

	withCustomer := CheckoutMutation("s1", "c1")
	assert.Contains(t, withCustomer, querycache.Key{"customer_balance", "c1"})
	assert.Len(t, withCustomer, len(keys)+1)
}

func TestPaymentMutation(t *testing.T) {
	keys := PaymentMutation("s1", "c1")
	assert.Contains(t, keys, querycache.Key{"sale_payments", "s1"})
	assert.Contains(t, keys, FinancialAnalytics)
	assert.Contains(t, keys, querycache.Key{"customer_balance", "c1"})
}

func TestCheckoutMutation_InvalidaTotalesDeClientes(t *testing.T) {
	c := querycache.New()
	c.Set(With(Customers, "", 50, 0), "lista")
	c.Set(CustomerSegments, "segmentos")
	c.Set(With(TopProducts, 5), "top")
	c.Set(With(PosCustomers, ""), "selector")

	c.Invalidate(CheckoutMutation("sale-1", "cust-1")...)

	stale := map[string]bool{}
	for _, e := range c.Entries(nil) {
		stale[e.Key[0]] = e.Stale
	}
	assert.True(t, stale["customers"])
	assert.True(t, stale["customer_segments"])
	assert.True(t, stale["top_products"])
	assert.False(t, stale["pos_customers"], "el selector sólo lista nombres")
}

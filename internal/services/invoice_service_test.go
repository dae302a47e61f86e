package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRound2(t *testing.T) {
	require.Equal(t, 10.0, round2(10))
	require.Equal(t, 10.01, round2(10.006))
	require.Equal(t, 10.0, round2(10.004))
	// ровно половина цента (0.125 точен в двоичной записи) — от нуля
	require.Equal(t, 0.13, round2(0.125))
	require.Equal(t, -0.13, round2(-0.125))
	// классика плавающей точки: 0.1+0.2
	require.Equal(t, 0.3, round2(0.1+0.2))
}

func TestInvoiceTotalsWithDefaultTax(t *testing.T) {
	items := []InvoiceItemRequest{
		{Qty: 2, Description: "Cambio de aceite", UnitPrice: 35.50},
		{Qty: 1, Description: "Filtro", UnitPrice: 12.99},
	}

	var subtotal float64
	for _, it := range items {
		subtotal += round2(it.Qty * it.UnitPrice)
	}
	subtotal = round2(subtotal)
	tax := round2(subtotal * defaultInvoiceTaxRate)
	total := round2(subtotal + tax)

	require.Equal(t, 83.99, subtotal)
	require.Equal(t, 5.88, tax) // 7%
	require.Equal(t, 89.87, total)
}

package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comercioapp/ledger_backend/internal/core/domain"
	"github.com/comercioapp/ledger_backend/internal/utils/ledger"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func item(price, qty, discount string) domain.TransactionItem {
	return domain.TransactionItem{
		UnitPrice: dec(price),
		Quantity:  dec(qty),
		Discount:  dec(discount),
	}
}

func TestBalanceContribution(t *testing.T) {
	items := []domain.TransactionItem{
		item("10.00", "3", "0.00"), // 30.00
		item("5.50", "2", "1.00"),  // 10.00
	}

	tests := []struct {
		name  string
		txn   domain.Transaction
		items []domain.TransactionItem
		want  string
	}{
		{
			name:  "sale invoice is total minus item sum",
			txn:   domain.Transaction{Type: domain.SaleInvoice, Total: dec("45.00")},
			items: items,
			want:  "5.00",
		},
		{
			name:  "purchase invoice is item sum minus total",
			txn:   domain.Transaction{Type: domain.PurchaseInvoice, Total: dec("45.00")},
			items: items,
			want:  "-5.00",
		},
		{
			name: "collection adds the full total",
			txn:  domain.Transaction{Type: domain.Collection, Total: dec("120.50")},
			want: "120.50",
		},
		{
			name: "payment subtracts the full total",
			txn:  domain.Transaction{Type: domain.Payment, Total: dec("120.50")},
			want: "-120.50",
		},
		{
			name: "wage contributes nothing",
			txn:  domain.Transaction{Type: domain.Wage, Total: dec("999.99")},
			want: "0",
		},
		{
			name: "misc invoice contributes nothing",
			txn:  domain.Transaction{Type: domain.MiscInvoice, Total: dec("999.99")},
			want: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ledger.BalanceContribution(tt.txn, tt.items)
			assert.True(t, got.Equal(dec(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestBalanceContribution_NegativeLineTotalsFlowThrough(t *testing.T) {
	// Negative line totals are allowed and affect the aggregate as-is.
	items := []domain.TransactionItem{item("10.00", "1", "15.00")} // -5.00
	txn := domain.Transaction{Type: domain.SaleInvoice, Total: dec("0.00")}
	got := ledger.BalanceContribution(txn, items)
	assert.True(t, got.Equal(dec("5.00")), "got %s", got)
}

func TestAccountBalance_OrderIndependent(t *testing.T) {
	txns := []domain.Transaction{
		{Type: domain.Collection, Total: dec("100.00")},
		{Type: domain.Payment, Total: dec("40.00")},
		{Type: domain.SaleInvoice, Total: dec("50.00"), Items: []domain.TransactionItem{item("20.00", "2", "0.00")}},
	}
	want := dec("70.00") // 100 - 40 + (50 - 40)

	got := ledger.AccountBalance(txns)
	assert.True(t, got.Equal(want), "got %s", got)

	reversed := []domain.Transaction{txns[2], txns[0], txns[1]}
	assert.True(t, ledger.AccountBalance(reversed).Equal(want))
}

func TestProductQuantity_StockFormula(t *testing.T) {
	entries := []ledger.StockEntry{
		{Type: domain.PurchaseInvoice, Quantity: dec("5")},
		{Type: domain.SaleInvoice, Quantity: dec("3")},
	}
	assert.Equal(t, int64(12), ledger.ProductQuantity(10, entries))
}

func TestProductQuantity_IgnoresNonStockTypes(t *testing.T) {
	entries := []ledger.StockEntry{
		{Type: domain.PurchaseInvoice, Quantity: dec("4")},
		{Type: domain.Collection, Quantity: dec("100")},
		{Type: domain.Service, Quantity: dec("7")},
	}
	assert.Equal(t, int64(14), ledger.ProductQuantity(10, entries))
}

func TestProductQuantity_TruncatesFractionalUnits(t *testing.T) {
	entries := []ledger.StockEntry{
		{Type: domain.PurchaseInvoice, Quantity: dec("2.75")},
	}
	// 2.75 truncates toward zero, intentionally.
	assert.Equal(t, int64(12), ledger.ProductQuantity(10, entries))
}

func TestIsCovered_ExactBoundary(t *testing.T) {
	total := dec("100.00")
	assert.True(t, ledger.IsCovered(total, dec("100.00")))
	assert.True(t, ledger.IsCovered(total, dec("100.01")))
	assert.False(t, ledger.IsCovered(total, dec("99.99")))
}

func TestGlobalDiff(t *testing.T) {
	assert.True(t, ledger.GlobalDiff(dec("100.00"), dec("40.00")).Equal(dec("60.00")))
	assert.True(t, ledger.GlobalDiff(dec("100.00"), dec("125.00")).Equal(dec("-25.00")))
}

func TestFromLegacyFloat(t *testing.T) {
	d, exact := ledger.FromLegacyFloat(12.5)
	require.True(t, exact)
	assert.True(t, d.Equal(dec("12.50")))

	d, exact = ledger.FromLegacyFloat(0.125)
	assert.False(t, exact)
	assert.True(t, d.Equal(dec("0.13")))
}

package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/comercioapp/ledger_backend/internal/core/domain"
)

func TestTransactionTypeIsValid(t *testing.T) {
	for _, tt := range domain.ValidTransactionTypes {
		assert.True(t, tt.IsValid(), "expected %s to be valid", tt)
	}

	assert.False(t, domain.TransactionType("").IsValid())
	assert.False(t, domain.TransactionType("REFUND").IsValid())
	assert.False(t, domain.TransactionType("sale_invoice").IsValid())
}

func TestTransactionTypeIsInvoice(t *testing.T) {
	tests := []struct {
		txnType domain.TransactionType
		want    bool
	}{
		{domain.PurchaseInvoice, true},
		{domain.SaleInvoice, true},
		{domain.Collection, false},
		{domain.Payment, false},
		{domain.Wage, false},
		{domain.MiscInvoice, false},
		{domain.Service, false},
	}

	for _, tc := range tests {
		t.Run(string(tc.txnType), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.txnType.IsInvoice())
		})
	}
}

func TestTransactionTypeSettlementType(t *testing.T) {
	tests := []struct {
		name    string
		txnType domain.TransactionType
		want    domain.TransactionType
		ok      bool
	}{
		{"purchase settled by payments", domain.PurchaseInvoice, domain.Payment, true},
		{"sale settled by collections", domain.SaleInvoice, domain.Collection, true},
		{"misc invoice has no settlement", domain.MiscInvoice, "", false},
		{"payment is not settleable", domain.Payment, "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.txnType.SettlementType()
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTransactionTypeSettledInvoiceType(t *testing.T) {
	tests := []struct {
		name    string
		txnType domain.TransactionType
		want    domain.TransactionType
		ok      bool
	}{
		{"payment settles purchases", domain.Payment, domain.PurchaseInvoice, true},
		{"collection settles sales", domain.Collection, domain.SaleInvoice, true},
		{"wage settles nothing", domain.Wage, "", false},
		{"sale invoice settles nothing", domain.SaleInvoice, "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.txnType.SettledInvoiceType()
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSettlementStatusIsSettled(t *testing.T) {
	assert.False(t, domain.SettlementPending.IsSettled())
	assert.True(t, domain.SettlementPaid.IsSettled())
	assert.True(t, domain.SettlementCollected.IsSettled())
	assert.False(t, domain.SettlementStatus("").IsSettled())
}

func TestSettledStatusFor(t *testing.T) {
	assert.Equal(t, domain.SettlementPaid, domain.SettledStatusFor(domain.PurchaseInvoice))
	assert.Equal(t, domain.SettlementCollected, domain.SettledStatusFor(domain.SaleInvoice))
}

func TestTransactionItemLineTotal(t *testing.T) {
	tests := []struct {
		name      string
		unitPrice string
		quantity  string
		discount  string
		want      string
	}{
		{"whole units no discount", "5.00", "3", "0", "15.00"},
		{"fractional quantity", "2.50", "1.5", "0", "3.75"},
		{"discount applied after multiply", "10.00", "2", "3.50", "16.50"},
		{"discount can push negative", "1.00", "1", "2.00", "-1.00"},
		{"zero quantity", "9.99", "0", "0", "0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			item := domain.TransactionItem{
				UnitPrice: decimal.RequireFromString(tc.unitPrice),
				Quantity:  decimal.RequireFromString(tc.quantity),
				Discount:  decimal.RequireFromString(tc.discount),
			}
			want := decimal.RequireFromString(tc.want)
			assert.True(t, item.LineTotal().Equal(want), "got %s, want %s", item.LineTotal(), want)
		})
	}
}

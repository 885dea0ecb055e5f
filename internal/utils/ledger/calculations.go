package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/comercioapp/ledger_backend/internal/core/domain"
)

// MoneyScale is the number of fractional digits carried by every monetary
// amount. All totals and prices are fixed-point decimals at this scale;
// floating point never enters monetary math.
const MoneyScale = 2

// RoundMoney normalises an amount to the money scale (half-up).
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// FromLegacyFloat converts a legacy floating-point amount to fixed point at
// the money scale. The second result reports whether the conversion was
// exact; callers must log lossy conversions instead of truncating silently.
func FromLegacyFloat(f float64) (decimal.Decimal, bool) {
	d := decimal.NewFromFloat(f)
	rounded := d.Round(MoneyScale)
	return rounded, rounded.Equal(d)
}

// ItemsTotal sums the line totals of a transaction's items.
func ItemsTotal(items []domain.TransactionItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

// BalanceContribution computes one transaction's contribution to its
// account's balance:
//
//	sale invoice:     +total − Σ(line totals)
//	purchase invoice: −total + Σ(line totals)
//	collection:       +total
//	payment:          −total
//	everything else:   0
func BalanceContribution(txn domain.Transaction, items []domain.TransactionItem) decimal.Decimal {
	switch txn.Type {
	case domain.SaleInvoice:
		return txn.Total.Sub(ItemsTotal(items))
	case domain.PurchaseInvoice:
		return ItemsTotal(items).Sub(txn.Total)
	case domain.Collection:
		return txn.Total
	case domain.Payment:
		return txn.Total.Neg()
	}
	return decimal.Zero
}

// AccountBalance derives an account's balance from the full set of its
// transactions. The result is independent of the order in which the
// transactions were created or modified.
func AccountBalance(txns []domain.Transaction) decimal.Decimal {
	balance := decimal.Zero
	for _, txn := range txns {
		balance = balance.Add(BalanceContribution(txn, txn.Items))
	}
	return RoundMoney(balance)
}

// StockEntry is one transaction item's effect on a product, paired with the
// type of its parent transaction.
type StockEntry struct {
	Type     domain.TransactionType
	Quantity decimal.Decimal
}

// ProductQuantity derives a product's stock level: the immutable baseline
// plus purchased units minus sold units. Item quantities are decimals but
// stock is counted in whole units, so the sum is truncated toward zero.
// The truncation is intentional.
func ProductQuantity(initialQuantity int64, entries []StockEntry) int64 {
	sum := decimal.Zero
	for _, e := range entries {
		switch e.Type {
		case domain.PurchaseInvoice:
			sum = sum.Add(e.Quantity)
		case domain.SaleInvoice:
			sum = sum.Sub(e.Quantity)
		}
	}
	return initialQuantity + sum.IntPart()
}

// IsCovered reports whether the settled sum covers the invoice total.
// The comparison is exact fixed-point >=, no epsilon.
func IsCovered(invoiceTotal, settledSum decimal.Decimal) bool {
	return settledSum.GreaterThanOrEqual(invoiceTotal)
}

// GlobalDiff computes the balance diff a non-invoice transaction writes
// into the global running balance: initial balance minus the total.
func GlobalDiff(initialBalance, total decimal.Decimal) decimal.Decimal {
	return RoundMoney(initialBalance.Sub(total))
}

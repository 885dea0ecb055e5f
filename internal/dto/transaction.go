package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/comercioapp/ledger_backend/internal/core/domain"
)

// CreateTransactionItemInline is one item line supplied inline when the
// transaction itself is created.
type CreateTransactionItemInline struct {
	ProductID   *string         `json:"productID"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    decimal.Decimal `json:"quantity" binding:"nonzero_decimal"`
	Discount    decimal.Decimal `json:"discount"`
}

// CartItem references a product by ID; name and unit price are snapshotted
// from the product at creation time.
type CartItem struct {
	ProductID string          `json:"productID" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"nonzero_decimal"`
}

// CreateTransactionRequest defines the data needed to record a transaction.
// Invoice types must carry a voucher number. Items and Cart are only valid
// for invoice types; Cart lines are resolved against the product catalogue.
type CreateTransactionRequest struct {
	Type          domain.TransactionType        `json:"type" binding:"required,oneof=PURCHASE_INVOICE SALE_INVOICE COLLECTION PAYMENT WAGE RENT TAX BONUS SALARY MISC_INVOICE SERVICE"`
	Date          time.Time                     `json:"date" binding:"required"`
	AccountID     string                        `json:"accountID" binding:"required"`
	Total         decimal.Decimal               `json:"total"`
	DiscountTotal *decimal.Decimal              `json:"discountTotal"`
	VoucherNumber *int64                        `json:"voucherNumber"`
	Memo          string                        `json:"memo"`
	Items         []CreateTransactionItemInline `json:"items" binding:"omitempty,dive"`
	Cart          []CartItem                    `json:"cart" binding:"omitempty,dive"`
}

// UpdateTransactionRequest defines the source fields that may change on an
// existing transaction. Derived fields (settlement status, balance diff)
// cannot be set.
type UpdateTransactionRequest struct {
	Type          *domain.TransactionType `json:"type" binding:"omitempty,oneof=PURCHASE_INVOICE SALE_INVOICE COLLECTION PAYMENT WAGE RENT TAX BONUS SALARY MISC_INVOICE SERVICE"`
	Date          *time.Time              `json:"date"`
	AccountID     *string                 `json:"accountID"`
	Total         *decimal.Decimal        `json:"total"`
	DiscountTotal *decimal.Decimal        `json:"discountTotal"`
	VoucherNumber *int64                  `json:"voucherNumber"`
	Memo          *string                 `json:"memo"`
}

// CreateTransactionItemRequest adds one item to an existing transaction.
type CreateTransactionItemRequest struct {
	TransactionID string          `json:"transactionID" binding:"required"`
	ProductID     *string         `json:"productID"`
	ProductName   string          `json:"productName"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Quantity      decimal.Decimal `json:"quantity" binding:"nonzero_decimal"`
	Discount      decimal.Decimal `json:"discount"`
}

// UpdateTransactionItemRequest updates one item of a transaction.
type UpdateTransactionItemRequest struct {
	ProductID   *string          `json:"productID"`
	ProductName *string          `json:"productName"`
	UnitPrice   *decimal.Decimal `json:"unitPrice"`
	Quantity    *decimal.Decimal `json:"quantity"`
	Discount    *decimal.Decimal `json:"discount"`
}

// TransactionItemResponse defines the data returned for one item.
type TransactionItemResponse struct {
	ItemID        string          `json:"itemID"`
	TransactionID string          `json:"transactionID"`
	ProductID     *string         `json:"productID"`
	ProductName   string          `json:"productName"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Quantity      decimal.Decimal `json:"quantity"`
	Discount      decimal.Decimal `json:"discount"`
	LineTotal     decimal.Decimal `json:"lineTotal"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID    string                    `json:"transactionID"`
	Type             domain.TransactionType    `json:"type"`
	Date             time.Time                 `json:"date"`
	AccountID        string                    `json:"accountID"`
	Total            decimal.Decimal           `json:"total"`
	DiscountTotal    *decimal.Decimal          `json:"discountTotal"`
	VoucherNumber    *int64                    `json:"voucherNumber"`
	SettlementStatus domain.SettlementStatus   `json:"settlementStatus,omitempty"`
	BalanceDiff      decimal.Decimal           `json:"balanceDiff"`
	Memo             string                    `json:"memo"`
	Items            []TransactionItemResponse `json:"items,omitempty"`
	CreatedAt        time.Time                 `json:"createdAt"`
	UpdatedAt        time.Time                 `json:"updatedAt"`
}

// ToTransactionItemResponse converts a domain item to its response.
func ToTransactionItemResponse(item domain.TransactionItem) TransactionItemResponse {
	return TransactionItemResponse{
		ItemID:        item.ItemID,
		TransactionID: item.TransactionID,
		ProductID:     item.ProductID,
		ProductName:   item.ProductName,
		UnitPrice:     item.UnitPrice,
		Quantity:      item.Quantity,
		Discount:      item.Discount,
		LineTotal:     item.LineTotal(),
	}
}

// ToTransactionResponse converts a domain.Transaction to its response.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		TransactionID:    txn.TransactionID,
		Type:             txn.Type,
		Date:             txn.Date,
		AccountID:        txn.AccountID,
		Total:            txn.Total,
		DiscountTotal:    txn.DiscountTotal,
		VoucherNumber:    txn.VoucherNumber,
		SettlementStatus: txn.SettlementStatus,
		BalanceDiff:      txn.BalanceDiff,
		Memo:             txn.Memo,
		CreatedAt:        txn.CreatedAt,
		UpdatedAt:        txn.LastUpdatedAt,
	}
	if txn.Items != nil {
		resp.Items = make([]TransactionItemResponse, len(txn.Items))
		for i, item := range txn.Items {
			resp.Items[i] = ToTransactionItemResponse(item)
		}
	}
	return resp
}

// ToTransactionResponses converts a slice of transactions.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse is a page of transactions plus the continuation
// token for the next page, if any.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

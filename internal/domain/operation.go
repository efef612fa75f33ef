package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationType is the kind of money movement an operation records.
type OperationType string

const (
	OperationTypeFee            OperationType = "FEE"
	OperationTypeTopUp          OperationType = "TOP_UP"
	OperationTypePurchase       OperationType = "PURCHASE"
	OperationTypeCashback       OperationType = "CASHBACK"
	OperationTypeTransfer       OperationType = "TRANSFER"
	OperationTypeBillPayment    OperationType = "BILL_PAYMENT"
	OperationTypeCashWithdrawal OperationType = "CASH_WITHDRAWAL"
)

// Values implements schema.Enum.
func (OperationType) Values() []string {
	return []string{
		string(OperationTypeFee),
		string(OperationTypeTopUp),
		string(OperationTypePurchase),
		string(OperationTypeCashback),
		string(OperationTypeTransfer),
		string(OperationTypeBillPayment),
		string(OperationTypeCashWithdrawal),
	}
}

// OperationStatus is the processing state of an operation.
type OperationStatus string

const (
	OperationStatusFailed      OperationStatus = "FAILED"
	OperationStatusCompleted   OperationStatus = "COMPLETED"
	OperationStatusInProgress  OperationStatus = "IN_PROGRESS"
	OperationStatusUnspecified OperationStatus = "UNSPECIFIED"
)

// Values implements schema.Enum.
func (OperationStatus) Values() []string {
	return []string{
		string(OperationStatusFailed),
		string(OperationStatusCompleted),
		string(OperationStatusInProgress),
		string(OperationStatusUnspecified),
	}
}

// Operation is one operation as reported by the gateway.
// Account and card are opaque references; the gateway owns their validity.
type Operation struct {
	ID        string          `json:"id" fake:"uuid"`
	Type      OperationType   `json:"type" validate:"enum" fake:"enum"`
	Status    OperationStatus `json:"status" validate:"enum" fake:"enum"`
	Amount    decimal.Decimal `json:"amount" fake:"amount"`
	CardID    string          `json:"cardId" fake:"uuid"`
	Category  string          `json:"category" fake:"category"` // may be empty for non-purchases
	CreatedAt time.Time       `json:"createdAt" fake:"timestamp"`
	AccountID string          `json:"accountId" fake:"uuid"`
}

// OperationReceipt shares the document shape: a link plus the rendered body.
type OperationReceipt Document

// OperationsSummary aggregates an account's operations.
type OperationsSummary struct {
	SpentAmount    decimal.Decimal `json:"spentAmount" validate:"gte=0" fake:"amount"`
	ReceivedAmount decimal.Decimal `json:"receivedAmount" validate:"gte=0" fake:"amount"`
	CashbackAmount decimal.Decimal `json:"cashbackAmount" validate:"gte=0" fake:"amount"`
}

// GetOperationsQuery selects the operations (or summary) of one account.
// It travels as query parameters.
type GetOperationsQuery struct {
	AccountID string `json:"accountId" validate:"required" fake:"uuid"`
}

// MakeOperationRequest carries the fields common to every make-*-operation call.
type MakeOperationRequest struct {
	Status    OperationStatus `json:"status" validate:"enum" fake:"enum"`
	Amount    decimal.Decimal `json:"amount" validate:"required,gt=0" fake:"amount"`
	CardID    string          `json:"cardId" validate:"required" fake:"uuid"`
	AccountID string          `json:"accountId" validate:"required" fake:"uuid"`
}

// MakePurchaseOperationRequest extends MakeOperationRequest with a category.
type MakePurchaseOperationRequest struct {
	MakeOperationRequest
	Category string `json:"category" validate:"required" fake:"category"`
}

// OperationResponse wraps a single operation: {"operation": {...}}.
type OperationResponse struct {
	Operation Operation `json:"operation"`
}

// Every make-*-operation endpoint answers with the operation envelope.
type (
	GetOperationResponse                = OperationResponse
	MakeFeeOperationResponse            = OperationResponse
	MakeTopUpOperationResponse          = OperationResponse
	MakeCashbackOperationResponse       = OperationResponse
	MakeTransferOperationResponse       = OperationResponse
	MakePurchaseOperationResponse       = OperationResponse
	MakeBillPaymentOperationResponse    = OperationResponse
	MakeCashWithdrawalOperationResponse = OperationResponse
)

// GetOperationsResponse wraps an account's operations.
type GetOperationsResponse struct {
	Operations []Operation `json:"operations" validate:"dive"`
}

// GetOperationReceiptResponse wraps a receipt.
type GetOperationReceiptResponse struct {
	Receipt OperationReceipt `json:"receipt"`
}

// GetOperationsSummaryResponse wraps a summary.
type GetOperationsSummaryResponse struct {
	Summary OperationsSummary `json:"summary"`
}

// Package operations is the client for /api/v1/operations.
package operations

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/finops-gateway/internal/domain"
	"github.com/dvloznov/finops-gateway/internal/gateway"
	"github.com/dvloznov/finops-gateway/internal/httpclient"
)

// BasePath is the service prefix on the gateway.
const BasePath = "/api/v1/operations"

// Endpoint suffixes, one per make-*-operation call.
const (
	FeePath            = "/make-fee-operation"
	TopUpPath          = "/make-top-up-operation"
	CashbackPath       = "/make-cashback-operation"
	TransferPath       = "/make-transfer-operation"
	PurchasePath       = "/make-purchase-operation"
	BillPaymentPath    = "/make-bill-payment-operation"
	CashWithdrawalPath = "/make-cash-withdrawal-operation"
	ReceiptPath        = "/operation-receipt"
	SummaryPath        = "/operations-summary"
)

// Client talks to the operations service.
type Client struct {
	*httpclient.Client
}

// New wraps a transport client.
func New(c *httpclient.Client) *Client {
	return &Client{Client: c}
}

// OperationParams are the caller-supplied inputs of a make-*-operation call.
// An empty Status is sent as COMPLETED.
type OperationParams struct {
	CardID    string
	AccountID string
	Amount    decimal.Decimal
	Status    domain.OperationStatus
}

func (p OperationParams) request() domain.MakeOperationRequest {
	status := p.Status
	if status == "" {
		status = domain.OperationStatusCompleted
	}
	return domain.MakeOperationRequest{
		Status:    status,
		Amount:    p.Amount,
		CardID:    p.CardID,
		AccountID: p.AccountID,
	}
}

// GetOperationAPI fetches one operation by id.
func (c *Client) GetOperationAPI(ctx context.Context, operationID string) (*http.Response, error) {
	return c.Get(ctx, gateway.Path(BasePath, operationID), nil)
}

// GetOperationReceiptAPI fetches the receipt of one operation.
func (c *Client) GetOperationReceiptAPI(ctx context.Context, operationID string) (*http.Response, error) {
	return c.Get(ctx, gateway.Path(BasePath+ReceiptPath, operationID), nil)
}

// GetOperationsAPI lists the operations of an account.
func (c *Client) GetOperationsAPI(ctx context.Context, query domain.GetOperationsQuery) (*http.Response, error) {
	return gateway.GetQuery(ctx, c.Client, BasePath, query)
}

// GetOperationsSummaryAPI fetches the spent/received/cashback totals of an account.
func (c *Client) GetOperationsSummaryAPI(ctx context.Context, query domain.GetOperationsQuery) (*http.Response, error) {
	return gateway.GetQuery(ctx, c.Client, BasePath+SummaryPath, query)
}

func (c *Client) MakeFeeOperationAPI(ctx context.Context, req domain.MakeOperationRequest) (*http.Response, error) {
	return gateway.PostMessage(ctx, c.Client, BasePath+FeePath, req)
}

func (c *Client) MakeTopUpOperationAPI(ctx context.Context, req domain.MakeOperationRequest) (*http.Response, error) {
	return gateway.PostMessage(ctx, c.Client, BasePath+TopUpPath, req)
}

func (c *Client) MakeCashbackOperationAPI(ctx context.Context, req domain.MakeOperationRequest) (*http.Response, error) {
	return gateway.PostMessage(ctx, c.Client, BasePath+CashbackPath, req)
}

func (c *Client) MakeTransferOperationAPI(ctx context.Context, req domain.MakeOperationRequest) (*http.Response, error) {
	return gateway.PostMessage(ctx, c.Client, BasePath+TransferPath, req)
}

func (c *Client) MakePurchaseOperationAPI(ctx context.Context, req domain.MakePurchaseOperationRequest) (*http.Response, error) {
	return gateway.PostMessage(ctx, c.Client, BasePath+PurchasePath, req)
}

func (c *Client) MakeBillPaymentOperationAPI(ctx context.Context, req domain.MakeOperationRequest) (*http.Response, error) {
	return gateway.PostMessage(ctx, c.Client, BasePath+BillPaymentPath, req)
}

func (c *Client) MakeCashWithdrawalOperationAPI(ctx context.Context, req domain.MakeOperationRequest) (*http.Response, error) {
	return gateway.PostMessage(ctx, c.Client, BasePath+CashWithdrawalPath, req)
}

// GetOperation returns one operation.
func (c *Client) GetOperation(ctx context.Context, operationID string) (domain.GetOperationResponse, error) {
	return gateway.Call[domain.GetOperationResponse]("GetOperation", func() (*http.Response, error) {
		return c.GetOperationAPI(ctx, operationID)
	})
}

// GetOperationReceipt returns the receipt document of one operation.
func (c *Client) GetOperationReceipt(ctx context.Context, operationID string) (domain.GetOperationReceiptResponse, error) {
	return gateway.Call[domain.GetOperationReceiptResponse]("GetOperationReceipt", func() (*http.Response, error) {
		return c.GetOperationReceiptAPI(ctx, operationID)
	})
}

// GetOperations lists the operations of an account.
func (c *Client) GetOperations(ctx context.Context, accountID string) (domain.GetOperationsResponse, error) {
	return gateway.Call[domain.GetOperationsResponse]("GetOperations", func() (*http.Response, error) {
		return c.GetOperationsAPI(ctx, domain.GetOperationsQuery{AccountID: accountID})
	})
}

// GetOperationsSummary returns the totals of an account.
func (c *Client) GetOperationsSummary(ctx context.Context, accountID string) (domain.GetOperationsSummaryResponse, error) {
	return gateway.Call[domain.GetOperationsSummaryResponse]("GetOperationsSummary", func() (*http.Response, error) {
		return c.GetOperationsSummaryAPI(ctx, domain.GetOperationsQuery{AccountID: accountID})
	})
}

func (c *Client) MakeFeeOperation(ctx context.Context, p OperationParams) (domain.MakeFeeOperationResponse, error) {
	return gateway.Call[domain.MakeFeeOperationResponse]("MakeFeeOperation", func() (*http.Response, error) {
		return c.MakeFeeOperationAPI(ctx, p.request())
	})
}

func (c *Client) MakeTopUpOperation(ctx context.Context, p OperationParams) (domain.MakeTopUpOperationResponse, error) {
	return gateway.Call[domain.MakeTopUpOperationResponse]("MakeTopUpOperation", func() (*http.Response, error) {
		return c.MakeTopUpOperationAPI(ctx, p.request())
	})
}

func (c *Client) MakeCashbackOperation(ctx context.Context, p OperationParams) (domain.MakeCashbackOperationResponse, error) {
	return gateway.Call[domain.MakeCashbackOperationResponse]("MakeCashbackOperation", func() (*http.Response, error) {
		return c.MakeCashbackOperationAPI(ctx, p.request())
	})
}

func (c *Client) MakeTransferOperation(ctx context.Context, p OperationParams) (domain.MakeTransferOperationResponse, error) {
	return gateway.Call[domain.MakeTransferOperationResponse]("MakeTransferOperation", func() (*http.Response, error) {
		return c.MakeTransferOperationAPI(ctx, p.request())
	})
}

// MakePurchaseOperation records a purchase in the given category.
func (c *Client) MakePurchaseOperation(ctx context.Context, p OperationParams, category string) (domain.MakePurchaseOperationResponse, error) {
	return gateway.Call[domain.MakePurchaseOperationResponse]("MakePurchaseOperation", func() (*http.Response, error) {
		return c.MakePurchaseOperationAPI(ctx, domain.MakePurchaseOperationRequest{
			MakeOperationRequest: p.request(),
			Category:             category,
		})
	})
}

func (c *Client) MakeBillPaymentOperation(ctx context.Context, p OperationParams) (domain.MakeBillPaymentOperationResponse, error) {
	return gateway.Call[domain.MakeBillPaymentOperationResponse]("MakeBillPaymentOperation", func() (*http.Response, error) {
		return c.MakeBillPaymentOperationAPI(ctx, p.request())
	})
}

func (c *Client) MakeCashWithdrawalOperation(ctx context.Context, p OperationParams) (domain.MakeCashWithdrawalOperationResponse, error) {
	return gateway.Call[domain.MakeCashWithdrawalOperationResponse]("MakeCashWithdrawalOperation", func() (*http.Response, error) {
		return c.MakeCashWithdrawalOperationAPI(ctx, p.request())
	})
}

// Package documents is the client for /api/v1/documents.
package documents

import (
	"context"
	"net/http"

	"github.com/dvloznov/finops-gateway/internal/domain"
	"github.com/dvloznov/finops-gateway/internal/gateway"
	"github.com/dvloznov/finops-gateway/internal/httpclient"
)

const (
	BasePath     = "/api/v1/documents"
	TariffPath   = "/tariff-document"
	ContractPath = "/contract-document"
)

// Client talks to the documents service.
type Client struct {
	*httpclient.Client
}

func New(c *httpclient.Client) *Client {
	return &Client{Client: c}
}

func (c *Client) GetTariffDocumentAPI(ctx context.Context, accountID string) (*http.Response, error) {
	return c.Get(ctx, gateway.Path(BasePath+TariffPath, accountID), nil)
}

func (c *Client) GetContractDocumentAPI(ctx context.Context, accountID string) (*http.Response, error) {
	return c.Get(ctx, gateway.Path(BasePath+ContractPath, accountID), nil)
}

// GetTariffDocument returns the tariff that applies to an account.
func (c *Client) GetTariffDocument(ctx context.Context, accountID string) (domain.GetTariffDocumentResponse, error) {
	return gateway.Call[domain.GetTariffDocumentResponse]("GetTariffDocument", func() (*http.Response, error) {
		return c.GetTariffDocumentAPI(ctx, accountID)
	})
}

// GetContractDocument returns the signed contract of an account.
func (c *Client) GetContractDocument(ctx context.Context, accountID string) (domain.GetContractDocumentResponse, error) {
	return gateway.Call[domain.GetContractDocumentResponse]("GetContractDocument", func() (*http.Response, error) {
		return c.GetContractDocumentAPI(ctx, accountID)
	})
}

// Package cards is the client for /api/v1/cards.
package cards

import (
	"context"
	"net/http"

	"github.com/dvloznov/finops-gateway/internal/domain"
	"github.com/dvloznov/finops-gateway/internal/gateway"
	"github.com/dvloznov/finops-gateway/internal/httpclient"
)

const (
	BasePath          = "/api/v1/cards"
	IssueVirtualPath  = "/issue-virtual-card"
	IssuePhysicalPath = "/issue-physical-card"
)

// Client talks to the cards service.
type Client struct {
	*httpclient.Client
}

func New(c *httpclient.Client) *Client {
	return &Client{Client: c}
}

func (c *Client) IssueVirtualCardAPI(ctx context.Context, req domain.IssueCardRequest) (*http.Response, error) {
	return gateway.PostMessage(ctx, c.Client, BasePath+IssueVirtualPath, req)
}

func (c *Client) IssuePhysicalCardAPI(ctx context.Context, req domain.IssueCardRequest) (*http.Response, error) {
	return gateway.PostMessage(ctx, c.Client, BasePath+IssuePhysicalPath, req)
}

// IssueVirtualCard issues a virtual card for the user on the account.
func (c *Client) IssueVirtualCard(ctx context.Context, userID, accountID string) (domain.IssueVirtualCardResponse, error) {
	return gateway.Call[domain.IssueVirtualCardResponse]("IssueVirtualCard", func() (*http.Response, error) {
		return c.IssueVirtualCardAPI(ctx, domain.IssueCardRequest{UserID: userID, AccountID: accountID})
	})
}

// IssuePhysicalCard issues a plastic card for the user on the account.
func (c *Client) IssuePhysicalCard(ctx context.Context, userID, accountID string) (domain.IssuePhysicalCardResponse, error) {
	return gateway.Call[domain.IssuePhysicalCardResponse]("IssuePhysicalCard", func() (*http.Response, error) {
		return c.IssuePhysicalCardAPI(ctx, domain.IssueCardRequest{UserID: userID, AccountID: accountID})
	})
}

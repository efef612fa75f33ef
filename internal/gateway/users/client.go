// Package users is the client for /api/v1/users.
package users

import (
	"context"
	"net/http"

	"github.com/dvloznov/finops-gateway/internal/domain"
	"github.com/dvloznov/finops-gateway/internal/gateway"
	"github.com/dvloznov/finops-gateway/internal/httpclient"
)

const BasePath = "/api/v1/users"

// Client talks to the users service.
type Client struct {
	*httpclient.Client
}

func New(c *httpclient.Client) *Client {
	return &Client{Client: c}
}

func (c *Client) CreateUserAPI(ctx context.Context, req domain.CreateUserRequest) (*http.Response, error) {
	return gateway.PostMessage(ctx, c.Client, BasePath, req)
}

func (c *Client) GetUserAPI(ctx context.Context, userID string) (*http.Response, error) {
	return c.Get(ctx, gateway.Path(BasePath, userID), nil)
}

// CreateUser registers a user and returns it with its assigned id.
func (c *Client) CreateUser(ctx context.Context, req domain.CreateUserRequest) (domain.CreateUserResponse, error) {
	return gateway.Call[domain.CreateUserResponse]("CreateUser", func() (*http.Response, error) {
		return c.CreateUserAPI(ctx, req)
	})
}

func (c *Client) GetUser(ctx context.Context, userID string) (domain.GetUserResponse, error) {
	return gateway.Call[domain.GetUserResponse]("GetUser", func() (*http.Response, error) {
		return c.GetUserAPI(ctx, userID)
	})
}

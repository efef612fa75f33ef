// Package gateway holds the request plumbing shared by the per-service
// clients in its subpackages.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dvloznov/finops-gateway/internal/httpclient"
	"github.com/dvloznov/finops-gateway/internal/schema"
)

// PostMessage renders msg with its shape and posts it to path.
func PostMessage(ctx context.Context, c *httpclient.Client, path string, msg any) (*http.Response, error) {
	body, err := schema.Render(msg)
	if err != nil {
		return nil, err
	}
	return c.Post(ctx, path, body)
}

// GetQuery renders q as query parameters and issues a GET to path.
func GetQuery(ctx context.Context, c *httpclient.Client, path string, q any) (*http.Response, error) {
	query, err := schema.Query(q)
	if err != nil {
		return nil, err
	}
	return c.Get(ctx, path, query)
}

// Decode reads resp and parses the body into T. Non-2xx statuses come back
// as *httpclient.StatusError, shape failures as *schema.ValidationError.
func Decode[T any](resp *http.Response) (T, error) {
	body, err := httpclient.ReadBody(resp)
	if err != nil {
		var zero T
		return zero, err
	}
	return schema.Parse[T](body)
}

// Path appends escaped identifier segments to a base path.
func Path(base string, segments ...string) string {
	p := base
	for _, s := range segments {
		p += "/" + url.PathEscape(s)
	}
	return p
}

// Call sends one request and decodes its response, prefixing any error
// with name.
func Call[T any](name string, send func() (*http.Response, error)) (T, error) {
	resp, err := send()
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s: %w", name, err)
	}
	out, err := Decode[T](resp)
	if err != nil {
		return out, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

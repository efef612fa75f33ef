package httpclient_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/finops-gateway/internal/httpclient"
	"github.com/dvloznov/finops-gateway/internal/logger"
)

type captured struct {
	method string
	uri    string
	header http.Header
	body   []byte
}

func newServer(t *testing.T, status int, reply string) (*httptest.Server, *captured) {
	t.Helper()
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.uri = r.URL.RequestURI()
		got.header = r.Header.Clone()
		got.body, _ = io.ReadAll(r.Body)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func newClient(t *testing.T, baseURL string, buf *bytes.Buffer) *httpclient.Client {
	t.Helper()
	c, err := httpclient.New(httpclient.Config{
		BaseURL: baseURL,
		Timeout: 2 * time.Second,
		Headers: map[string]string{"Authorization": "Bearer token"},
	}, logger.NewWithWriter(buf))
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestClient_Get(t *testing.T) {
	srv, got := newServer(t, http.StatusOK, `{"ok":true}`)
	buf := &bytes.Buffer{}
	c := newClient(t, srv.URL+"/", buf)

	resp, err := c.Get(context.Background(), "/api/v1/operations", url.Values{"accountId": {"123"}})
	require.NoError(t, err)

	body, err := httpclient.ReadBody(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))

	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "/api/v1/operations?accountId=123", got.uri)
	assert.Equal(t, "Bearer token", got.header.Get("Authorization"))
	assert.Equal(t, "application/json", got.header.Get("Accept"))
	assert.Empty(t, got.header.Get("Content-Type"))

	_, err = uuid.Parse(got.header.Get(httpclient.RequestIDHeader))
	assert.NoError(t, err, "request id must be a uuid")

	assert.Contains(t, buf.String(), `"status":200`)
	assert.Contains(t, buf.String(), `"method":"GET"`)
}

func TestClient_Post(t *testing.T) {
	srv, got := newServer(t, http.StatusCreated, `{}`)
	c := newClient(t, srv.URL, &bytes.Buffer{})

	resp, err := c.Post(context.Background(), "api/v1/users", []byte(`{"email":"a@b.test"}`))
	require.NoError(t, err)
	_, err = httpclient.ReadBody(resp)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/api/v1/users", got.uri)
	assert.Equal(t, "application/json", got.header.Get("Content-Type"))
	assert.Equal(t, `{"email":"a@b.test"}`, string(got.body))
}

func TestClient_BasePathIsKept(t *testing.T) {
	srv, got := newServer(t, http.StatusOK, `{}`)
	c := newClient(t, srv.URL+"/gateway", &bytes.Buffer{})

	resp, err := c.Get(context.Background(), "/api/v1/users/u-1", nil)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "/gateway/api/v1/users/u-1", got.uri)
}

func TestReadBody_StatusError(t *testing.T) {
	srv, _ := newServer(t, http.StatusUnprocessableEntity, `{"error":"bad amount"}`)
	c := newClient(t, srv.URL, &bytes.Buffer{})

	resp, err := c.Post(context.Background(), "/api/v1/operations/make-fee-operation", []byte(`{}`))
	require.NoError(t, err)

	_, err = httpclient.ReadBody(resp)
	var statusErr *httpclient.StatusError
	require.True(t, errors.As(err, &statusErr), "want *StatusError, got %v", err)
	assert.Equal(t, http.StatusUnprocessableEntity, statusErr.StatusCode)
	assert.Equal(t, http.MethodPost, statusErr.Method)
	assert.Contains(t, statusErr.URL, "/make-fee-operation")
	assert.Contains(t, string(statusErr.Body), "bad amount")
	assert.Contains(t, err.Error(), "422")
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	buf := &bytes.Buffer{}
	c := newClient(t, base, buf)

	_, err := c.Get(context.Background(), "/api/v1/users/u-1", nil)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "HTTP request failed")
}

func TestClient_ContextCanceled(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{}`)
	c := newClient(t, srv.URL, &bytes.Buffer{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Get(ctx, "/", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	for _, base := range []string{"", "ftp://gateway", "://nope"} {
		_, err := httpclient.New(httpclient.Config{BaseURL: base}, logger.NewWithWriter(io.Discard))
		assert.Error(t, err, "base %q", base)
	}
}

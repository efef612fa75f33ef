package documents_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/finops-gateway/internal/gateway/documents"
	"github.com/dvloznov/finops-gateway/internal/gatewaystub"
	"github.com/dvloznov/finops-gateway/internal/httpclient"
	"github.com/dvloznov/finops-gateway/internal/logger"
	"github.com/dvloznov/finops-gateway/internal/schema"
)

func newClient(t *testing.T, handler http.Handler) *documents.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := httpclient.New(httpclient.Config{BaseURL: srv.URL}, logger.NewWithWriter(io.Discard))
	require.NoError(t, err)
	return documents.New(c)
}

func TestGetDocuments(t *testing.T) {
	c := newClient(t, gatewaystub.NewRouter(gatewaystub.Config{Seed: 3}, gatewaystub.NewStore(), logger.NewWithWriter(io.Discard)))
	ctx := context.Background()

	tariff, err := c.GetTariffDocument(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, "https://storage.finops.test/accounts/A1/tariff.pdf", tariff.Tariff.URL)
	assert.NotEmpty(t, tariff.Tariff.Document)

	contract, err := c.GetContractDocument(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, "https://storage.finops.test/accounts/A1/contract.pdf", contract.Contract.URL)
}

func TestGetTariffDocument_BadURL(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/documents/tariff-document/A1", r.URL.Path)
		_, _ = io.WriteString(w, `{"tariff": {"url": "not-a-url", "document": "body"}}`)
	}))

	_, err := c.GetTariffDocument(context.Background(), "A1")

	var validationErr *schema.ValidationError
	require.ErrorAs(t, err, &validationErr)
	v, ok := validationErr.Field("tariff.url")
	require.True(t, ok)
	assert.Equal(t, schema.ReasonURL, v.Reason)
}

func TestGetContractDocumentAPI_EscapesAccount(t *testing.T) {
	var rawPath string
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawPath = r.URL.EscapedPath()
	}))

	resp, err := c.GetContractDocumentAPI(context.Background(), "a/b")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "/api/v1/documents/contract-document/a%2Fb", rawPath)
}

package schema_test

import (
	"errors"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/finops-gateway/internal/domain"
	"github.com/dvloznov/finops-gateway/internal/schema"
)

func TestRender_UsesWireNames(t *testing.T) {
	req := domain.MakeOperationRequest{
		Status:    domain.OperationStatusCompleted,
		Amount:    decimal.RequireFromString("55.77"),
		CardID:    "c-1",
		AccountID: "123",
	}

	data, err := schema.Render(req)
	require.NoError(t, err)

	assert.JSONEq(t, `{"status":"COMPLETED","amount":55.77,"cardId":"c-1","accountId":"123"}`, string(data))
	assert.Contains(t, string(data), `"accountId":"123"`)
	assert.NotContains(t, string(data), "account_id")
	assert.NotContains(t, string(data), "card_id")
}

func TestRender_PurchaseCarriesBaseFields(t *testing.T) {
	req := domain.MakePurchaseOperationRequest{
		MakeOperationRequest: domain.MakeOperationRequest{
			Status:    domain.OperationStatusInProgress,
			Amount:    decimal.NewFromInt(10),
			CardID:    "C1",
			AccountID: "A1",
		},
		Category: "toys",
	}

	data, err := schema.Render(&req)
	require.NoError(t, err)

	assert.Equal(t, `{"status":"IN_PROGRESS","amount":10,"cardId":"C1","accountId":"A1","category":"toys"}`, string(data))
}

func TestRender_SummaryAmountsAreNumbers(t *testing.T) {
	resp := domain.GetOperationsSummaryResponse{Summary: domain.OperationsSummary{
		SpentAmount:    decimal.RequireFromString("10.5"),
		ReceivedAmount: decimal.Zero,
		CashbackAmount: decimal.RequireFromString("0.25"),
	}}

	data, err := schema.Render(resp)
	require.NoError(t, err)

	assert.Equal(t, `{"summary":{"spentAmount":10.5,"receivedAmount":0,"cashbackAmount":0.25}}`, string(data))
}

func TestRender_MissingRequiredField(t *testing.T) {
	req := domain.MakeOperationRequest{
		Status:    domain.OperationStatusCompleted,
		AccountID: "A1",
	}

	_, err := schema.Render(req)
	require.Error(t, err)

	var renderErr *schema.RenderError
	require.True(t, errors.As(err, &renderErr), "want *RenderError, got %T", err)
	assert.Equal(t, "MakeOperationRequest", renderErr.Shape)

	amount, ok := renderErr.Field("amount")
	require.True(t, ok, "violations: %v", renderErr.Violations)
	assert.Equal(t, schema.ReasonRequired, amount.Reason)

	cardID, ok := renderErr.Field("cardId")
	require.True(t, ok)
	assert.Equal(t, schema.ReasonRequired, cardID.Reason)
}

func TestRender_InvalidEnum(t *testing.T) {
	req := domain.MakeOperationRequest{
		Status:    "NOPE",
		Amount:    decimal.NewFromInt(1),
		CardID:    "C1",
		AccountID: "A1",
	}

	_, err := schema.Render(req)

	var renderErr *schema.RenderError
	require.ErrorAs(t, err, &renderErr)
	status, ok := renderErr.Field("status")
	require.True(t, ok)
	assert.Equal(t, schema.ReasonEnum, status.Reason)
}

func TestRender_NonStruct(t *testing.T) {
	_, err := schema.Render("not a message")
	require.Error(t, err)

	var renderErr *schema.RenderError
	assert.False(t, errors.As(err, &renderErr))
}

func TestRenderMap(t *testing.T) {
	m, err := schema.RenderMap(domain.IssueCardRequest{UserID: "u-1", AccountID: "a-1"})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"userId": "u-1", "accountId": "a-1"}, m)
}

func TestQuery(t *testing.T) {
	q, err := schema.Query(domain.GetOperationsQuery{AccountID: "123"})
	require.NoError(t, err)
	assert.Equal(t, url.Values{"accountId": {"123"}}, q)

	_, err = schema.Query(domain.GetOperationsQuery{})
	var renderErr *schema.RenderError
	require.ErrorAs(t, err, &renderErr)
	_, ok := renderErr.Field("accountId")
	assert.True(t, ok)
}

func TestQuery_RejectsNestedShapes(t *testing.T) {
	_, err := schema.Query(domain.GetTariffDocumentResponse{Tariff: domain.Document{
		URL:      "https://example.com/tariff",
		Document: "body",
	}})
	assert.Error(t, err)
}

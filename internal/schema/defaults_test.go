package schema_test

import (
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/finops-gateway/internal/domain"
	"github.com/dvloznov/finops-gateway/internal/schema"
	"github.com/dvloznov/finops-gateway/internal/schema/fakers"
)

// roundTrip builds n default values of T and checks parse(render(m)) == m.
func roundTrip[T any](t *testing.T, f *fakers.Faker, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		m, err := schema.WithDefaults[T](f, nil)
		require.NoError(t, err)

		data, err := schema.Render(m)
		require.NoError(t, err)

		got, err := schema.Parse[T](data)
		require.NoError(t, err, "payload: %s", data)

		if diff := cmp.Diff(m, got, cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s\npayload: %s", diff, data)
		}
	}
}

func TestRoundTrip_AllMessages(t *testing.T) {
	f := fakers.New(2024)

	t.Run("Operation", func(t *testing.T) { roundTrip[domain.Operation](t, f, 200) })
	t.Run("OperationResponse", func(t *testing.T) { roundTrip[domain.OperationResponse](t, f, 200) })
	t.Run("GetOperationsResponse", func(t *testing.T) { roundTrip[domain.GetOperationsResponse](t, f, 200) })
	t.Run("GetOperationReceiptResponse", func(t *testing.T) { roundTrip[domain.GetOperationReceiptResponse](t, f, 200) })
	t.Run("GetOperationsSummaryResponse", func(t *testing.T) { roundTrip[domain.GetOperationsSummaryResponse](t, f, 200) })
	t.Run("GetOperationsQuery", func(t *testing.T) { roundTrip[domain.GetOperationsQuery](t, f, 200) })
	t.Run("MakeOperationRequest", func(t *testing.T) { roundTrip[domain.MakeOperationRequest](t, f, 200) })
	t.Run("MakePurchaseOperationRequest", func(t *testing.T) { roundTrip[domain.MakePurchaseOperationRequest](t, f, 200) })
	t.Run("GetTariffDocumentResponse", func(t *testing.T) { roundTrip[domain.GetTariffDocumentResponse](t, f, 200) })
	t.Run("GetContractDocumentResponse", func(t *testing.T) { roundTrip[domain.GetContractDocumentResponse](t, f, 200) })
	t.Run("IssueCardRequest", func(t *testing.T) { roundTrip[domain.IssueCardRequest](t, f, 200) })
	t.Run("IssueCardResponse", func(t *testing.T) { roundTrip[domain.IssueCardResponse](t, f, 200) })
	t.Run("CreateUserRequest", func(t *testing.T) { roundTrip[domain.CreateUserRequest](t, f, 200) })
	t.Run("UserResponse", func(t *testing.T) { roundTrip[domain.UserResponse](t, f, 200) })
}

func TestWithDefaults_AlwaysValid(t *testing.T) {
	f := fakers.New(1)
	roundTrip[domain.MakePurchaseOperationRequest](t, f, 1000)
	roundTrip[domain.MakeOperationRequest](t, f, 1000)
}

func TestWithDefaults_PurchaseExtension(t *testing.T) {
	f := fakers.New(99)

	req, err := schema.WithDefaults[domain.MakePurchaseOperationRequest](f, map[string]any{
		"accountId": "A1",
		"cardId":    "C1",
	})
	require.NoError(t, err)

	assert.Equal(t, "A1", req.AccountID)
	assert.Equal(t, "C1", req.CardID)
	assert.Contains(t, domain.OperationStatus("").Values(), string(req.Status))
	assert.True(t, req.Amount.IsPositive())
	assert.Contains(t, fakers.Categories, req.Category)

	m, err := schema.RenderMap(req)
	require.NoError(t, err)
	keys := make([]string, 0, len(m))
	for k, v := range m {
		keys = append(keys, k)
		assert.NotEmpty(t, v, "field %s", k)
	}
	sort.Strings(keys)
	assert.Equal(t, []string{"accountId", "amount", "cardId", "category", "status"}, keys)
}

func TestWithDefaults_ConstructionAliases(t *testing.T) {
	f := fakers.New(5)

	req, err := schema.WithDefaults[domain.MakeOperationRequest](f, map[string]any{
		"account_id": "A1",
		"CardID":     "C1",
		"amount":     55.77,
		"status":     "FAILED",
	})
	require.NoError(t, err)

	assert.Equal(t, "A1", req.AccountID)
	assert.Equal(t, "C1", req.CardID)
	assert.True(t, req.Amount.Equal(decimal.RequireFromString("55.77")))
	assert.Equal(t, domain.OperationStatusFailed, req.Status)

	data, err := schema.Render(req)
	require.NoError(t, err)
	assert.Equal(t, `{"status":"FAILED","amount":55.77,"cardId":"C1","accountId":"A1"}`, string(data))
}

func TestWithDefaults_NestedOverrides(t *testing.T) {
	f := fakers.New(6)

	resp, err := schema.WithDefaults[domain.OperationResponse](f, map[string]any{
		"operation": map[string]any{"type": "TOP_UP", "accountId": "A1"},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.OperationTypeTopUp, resp.Operation.Type)
	assert.Equal(t, "A1", resp.Operation.AccountID)
	assert.NotEmpty(t, resp.Operation.ID)
	assert.False(t, resp.Operation.CreatedAt.IsZero())
}

func TestWithDefaults_Errors(t *testing.T) {
	f := fakers.New(7)

	tests := []struct {
		name      string
		overrides map[string]any
		invalid   bool
	}{
		{name: "unknown field", overrides: map[string]any{"iban": "x"}},
		{name: "alias set twice", overrides: map[string]any{"accountId": "A1", "account_id": "A2"}},
		{name: "wrong type", overrides: map[string]any{"cardId": 42}},
		{name: "bad decimal", overrides: map[string]any{"amount": "lots"}},
		{name: "enum outside domain", overrides: map[string]any{"status": "NOPE"}, invalid: true},
		{name: "non-positive amount", overrides: map[string]any{"amount": 0}, invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.WithDefaults[domain.MakeOperationRequest](f, tt.overrides)
			require.Error(t, err)

			var validationErr *schema.ValidationError
			assert.Equal(t, tt.invalid, errors.As(err, &validationErr))
		})
	}
}

func TestWithDefaults_DeterministicUnderSeed(t *testing.T) {
	a, err := schema.WithDefaults[domain.GetOperationsResponse](fakers.New(123), nil)
	require.NoError(t, err)
	b, err := schema.WithDefaults[domain.GetOperationsResponse](fakers.New(123), nil)
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(a, b))
}

func TestMapper_ConcurrentUse(t *testing.T) {
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(seed uint64) {
			defer wg.Done()
			f := fakers.New(seed)
			for i := 0; i < 50; i++ {
				m, err := schema.WithDefaults[domain.GetOperationsResponse](f, nil)
				if err != nil {
					t.Errorf("WithDefaults: %v", err)
					return
				}
				data, err := schema.Render(m)
				if err != nil {
					t.Errorf("Render: %v", err)
					return
				}
				if _, err := schema.Parse[domain.GetOperationsResponse](data); err != nil {
					t.Errorf("Parse: %v", err)
					return
				}
			}
		}(uint64(g))
	}
	wg.Wait()
}

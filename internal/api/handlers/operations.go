package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dvloznov/finops-gateway/internal/domain"
)

// OperationsHandler serves /api/v1/operations.
type OperationsHandler struct {
	records  Records
	fixtures *Fixtures
	log      zerolog.Logger
	now      func() time.Time
}

// NewOperationsHandler creates a new operations handler.
func NewOperationsHandler(records Records, fixtures *Fixtures, log zerolog.Logger) *OperationsHandler {
	return &OperationsHandler{
		records:  records,
		fixtures: fixtures,
		log:      log,
		now:      time.Now,
	}
}

// GetOperation handles GET /{operationID}. Unknown ids get a generated operation.
func (h *OperationsHandler) GetOperation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "operationID")

	op, err := h.records.GetOperation(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		op, err = Fixture[domain.Operation](h.fixtures, map[string]any{"id": id})
		if err == nil {
			err = h.records.SaveOperation(r.Context(), op)
		}
	}
	if err != nil {
		fail(w, h.log, err, "Failed to load operation")
		return
	}
	respond(w, h.log, domain.GetOperationResponse{Operation: op})
}

// ListOperations handles GET /?accountId=.
func (h *OperationsHandler) ListOperations(w http.ResponseWriter, r *http.Request) {
	q, ok := decodeQuery[domain.GetOperationsQuery](w, r)
	if !ok {
		return
	}

	ops, err := h.accountOperations(r, q.AccountID)
	if err != nil {
		fail(w, h.log, err, "Failed to list operations")
		return
	}
	respond(w, h.log, domain.GetOperationsResponse{Operations: ops})
}

// GetSummary handles GET /operations-summary?accountId=.
func (h *OperationsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	q, ok := decodeQuery[domain.GetOperationsQuery](w, r)
	if !ok {
		return
	}

	ops, err := h.accountOperations(r, q.AccountID)
	if err != nil {
		fail(w, h.log, err, "Failed to summarize operations")
		return
	}
	respond(w, h.log, domain.GetOperationsSummaryResponse{Summary: domain.Summarize(ops)})
}

// GetReceipt handles GET /operation-receipt/{operationID}.
func (h *OperationsHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "operationID")

	receipt, err := Fixture[domain.OperationReceipt](h.fixtures, map[string]any{
		"url": "https://storage.finops.test/receipts/" + url.PathEscape(id),
	})
	if err != nil {
		fail(w, h.log, err, "Failed to build receipt")
		return
	}
	respond(w, h.log, domain.GetOperationReceiptResponse{Receipt: receipt})
}

// Make returns the handler for one make-*-operation endpoint.
func (h *OperationsHandler) Make(opType domain.OperationType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeBody[domain.MakeOperationRequest](w, r)
		if !ok {
			return
		}
		h.create(w, r, opType, req, "")
	}
}

// MakePurchase handles POST /make-purchase-operation.
func (h *OperationsHandler) MakePurchase(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeBody[domain.MakePurchaseOperationRequest](w, r)
	if !ok {
		return
	}
	h.create(w, r, domain.OperationTypePurchase, req.MakeOperationRequest, req.Category)
}

func (h *OperationsHandler) create(w http.ResponseWriter, r *http.Request, opType domain.OperationType, req domain.MakeOperationRequest, category string) {
	op := domain.Operation{
		ID:        uuid.NewString(),
		Type:      opType,
		Status:    req.Status,
		Amount:    req.Amount,
		CardID:    req.CardID,
		Category:  category,
		CreatedAt: h.now().UTC().Truncate(time.Second),
		AccountID: req.AccountID,
	}
	if err := h.records.SaveOperation(r.Context(), op); err != nil {
		fail(w, h.log, err, "Failed to save operation")
		return
	}

	h.log.Info().
		Str("operation_id", op.ID).
		Str("type", string(op.Type)).
		Str("account_id", op.AccountID).
		Str("amount", op.Amount.String()).
		Msg("Operation created")

	respond(w, h.log, domain.OperationResponse{Operation: op})
}

// accountOperations returns the stored operations of an account, seeding a
// few generated ones the first time an account is seen.
func (h *OperationsHandler) accountOperations(r *http.Request, accountID string) ([]domain.Operation, error) {
	ops, err := h.records.ListOperations(r.Context(), accountID)
	if err != nil || len(ops) > 0 {
		return ops, err
	}

	n := h.fixtures.Count(1, 3)
	for i := 0; i < n; i++ {
		op, err := Fixture[domain.Operation](h.fixtures, map[string]any{"accountId": accountID})
		if err != nil {
			return nil, err
		}
		if err := h.records.SaveOperation(r.Context(), op); err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

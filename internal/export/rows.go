package export

import (
	"fmt"
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/finops-gateway/internal/domain"
	"github.com/dvloznov/finops-gateway/internal/schema"
)

// amountScale is the NUMERIC scale BigQuery keeps.
const amountScale = 9

// OperationRow is one row of the operations table.
type OperationRow struct {
	OperationID   string              `bigquery:"operation_id"`
	AccountID     string              `bigquery:"account_id"`
	CardID        string              `bigquery:"card_id"`
	Type          string              `bigquery:"type"`
	Status        string              `bigquery:"status"`
	Amount        *big.Rat            `bigquery:"amount"`
	Category      bigquery.NullString `bigquery:"category"`
	OperationDate civil.Date          `bigquery:"operation_date"`
	CreatedTS     time.Time           `bigquery:"created_ts"`
	ExportedTS    time.Time           `bigquery:"exported_ts"`
	Payload       bigquery.NullString `bigquery:"payload"`
}

// FromOperation converts an operation into its table row. The rendered
// operation is kept in Payload so a row always round-trips.
func FromOperation(op domain.Operation, exportedAt time.Time) (*OperationRow, error) {
	if op.ID == "" {
		return nil, fmt.Errorf("FromOperation: operation has no id")
	}

	payload, err := schema.Render(op)
	if err != nil {
		return nil, fmt.Errorf("FromOperation: %s: %w", op.ID, err)
	}

	created := op.CreatedAt.UTC()
	return &OperationRow{
		OperationID:   op.ID,
		AccountID:     op.AccountID,
		CardID:        op.CardID,
		Type:          string(op.Type),
		Status:        string(op.Status),
		Amount:        op.Amount.Rat(),
		Category:      bigquery.NullString{StringVal: op.Category, Valid: op.Category != ""},
		OperationDate: civil.DateOf(created),
		CreatedTS:     created,
		ExportedTS:    exportedAt.UTC(),
		Payload:       bigquery.NullString{StringVal: string(payload), Valid: true},
	}, nil
}

// Operation converts a row back. The payload wins when present.
func (r *OperationRow) Operation() (domain.Operation, error) {
	if r.Payload.Valid {
		op, err := schema.Parse[domain.Operation]([]byte(r.Payload.StringVal))
		if err != nil {
			return domain.Operation{}, fmt.Errorf("Operation: %s payload: %w", r.OperationID, err)
		}
		return op, nil
	}

	amount := decimal.Zero
	if r.Amount != nil {
		amount = decimal.NewFromBigRat(r.Amount, amountScale)
	}
	return domain.Operation{
		ID:        r.OperationID,
		Type:      domain.OperationType(r.Type),
		Status:    domain.OperationStatus(r.Status),
		Amount:    amount,
		CardID:    r.CardID,
		Category:  r.Category.StringVal,
		CreatedAt: r.CreatedTS,
		AccountID: r.AccountID,
	}, nil
}

// Schema is the table schema inferred from OperationRow.
func Schema() (bigquery.Schema, error) {
	s, err := bigquery.InferSchema(OperationRow{})
	if err != nil {
		return nil, fmt.Errorf("Schema: %w", err)
	}
	return s, nil
}

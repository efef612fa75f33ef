// Package export writes gateway operations to BigQuery for reporting.
package export

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/rs/zerolog"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/dvloznov/finops-gateway/internal/domain"
)

const (
	// OperationsTable is the destination table name.
	OperationsTable = "operations"

	// batchSize caps rows per streaming insert.
	batchSize = 500
)

// Inserter is the streaming-insert side of a table. *bigquery.Inserter
// satisfies it.
type Inserter interface {
	Put(ctx context.Context, src any) error
}

// Exporter streams operation rows into one dataset.
type Exporter struct {
	client   *bigquery.Client
	project  string
	dataset  string
	inserter Inserter
	log      zerolog.Logger
	now      func() time.Time
}

// New opens a BigQuery client for project and targets dataset.operations.
func New(ctx context.Context, project, dataset string, log zerolog.Logger, opts ...option.ClientOption) (*Exporter, error) {
	client, err := bigquery.NewClient(ctx, project, opts...)
	if err != nil {
		return nil, fmt.Errorf("New: bigquery client: %w", err)
	}
	e := NewWithInserter(client.DatasetInProject(project, dataset).Table(OperationsTable).Inserter(), log)
	e.client = client
	e.project = project
	e.dataset = dataset
	return e, nil
}

// NewWithInserter builds an exporter that only streams rows through ins.
func NewWithInserter(ins Inserter, log zerolog.Logger) *Exporter {
	return &Exporter{inserter: ins, log: log, now: time.Now}
}

// Export converts and inserts ops, returning how many rows were written.
// Rows go out in batches; an error stops at the failing batch.
func (e *Exporter) Export(ctx context.Context, ops []domain.Operation) (int, error) {
	exportedAt := e.now()
	rows := make([]*OperationRow, 0, len(ops))
	for _, op := range ops {
		row, err := FromOperation(op, exportedAt)
		if err != nil {
			return 0, fmt.Errorf("Export: %w", err)
		}
		rows = append(rows, row)
	}

	written := 0
	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		if err := e.inserter.Put(ctx, rows[start:end]); err != nil {
			return written, fmt.Errorf("Export: insert rows %d-%d: %w", start, end, err)
		}
		written = end
		e.log.Debug().Int("rows", end-start).Msg("batch inserted")
	}

	e.log.Info().Int("rows", written).Msg("operations exported")
	return written, nil
}

// EnsureTable creates the operations table, partitioned by operation date,
// unless it already exists.
func (e *Exporter) EnsureTable(ctx context.Context) error {
	if e.client == nil {
		return fmt.Errorf("EnsureTable: exporter has no client")
	}
	schema, err := Schema()
	if err != nil {
		return fmt.Errorf("EnsureTable: %w", err)
	}

	table := e.client.DatasetInProject(e.project, e.dataset).Table(OperationsTable)
	err = table.Create(ctx, &bigquery.TableMetadata{
		Schema: schema,
		TimePartitioning: &bigquery.TimePartitioning{
			Type:  bigquery.DayPartitioningType,
			Field: "operation_date",
		},
		Clustering: &bigquery.Clustering{Fields: []string{"account_id"}},
	})
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusConflict {
		return nil
	}
	if err != nil {
		return fmt.Errorf("EnsureTable: %w", err)
	}
	e.log.Info().Str("table", e.dataset+"."+OperationsTable).Msg("table created")
	return nil
}

// QueryAccount reads back an account's exported rows, latest export of
// each operation only, oldest first.
func (e *Exporter) QueryAccount(ctx context.Context, accountID string) ([]*OperationRow, error) {
	if e.client == nil {
		return nil, fmt.Errorf("QueryAccount: exporter has no client")
	}

	q := e.client.Query(fmt.Sprintf(`
		SELECT * EXCEPT(rn) FROM (
			SELECT *, ROW_NUMBER() OVER (PARTITION BY operation_id ORDER BY exported_ts DESC) AS rn
			FROM `+"`%s.%s.%s`"+`
			WHERE account_id = @account_id
		)
		WHERE rn = 1
		ORDER BY created_ts, operation_id
	`, e.project, e.dataset, OperationsTable))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "account_id", Value: accountID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("QueryAccount: query read: %w", err)
	}

	var rows []*OperationRow
	for {
		var r OperationRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("QueryAccount: iter next: %w", err)
		}
		rows = append(rows, &r)
	}
	return rows, nil
}

// Close releases the client.
func (e *Exporter) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

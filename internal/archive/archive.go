// Package archive keeps copies of account documents (tariffs, contracts,
// receipts) in a Cloud Storage bucket.
package archive

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/dvloznov/finops-gateway/internal/domain"
	"github.com/dvloznov/finops-gateway/internal/schema"
)

// Object is one stored blob.
type Object struct {
	Name        string
	ContentType string
	Metadata    map[string]string
	Data        []byte
}

// Store is the blob layer the archive writes through.
type Store interface {
	Put(ctx context.Context, obj Object) error
	Get(ctx context.Context, name string) (Object, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Bucket() string
}

// Archiver files documents under documents/<account>/<kind>/<timestamp>.json.
type Archiver struct {
	store Store
	now   func() time.Time
}

// New creates an archiver over store.
func New(store Store) *Archiver {
	return &Archiver{store: store, now: time.Now}
}

// Put renders doc and stores it, returning its gs:// URI.
func (a *Archiver) Put(ctx context.Context, accountID, kind string, doc domain.Document) (string, error) {
	if accountID == "" || kind == "" {
		return "", fmt.Errorf("Put: account id and kind are required")
	}

	data, err := schema.Render(doc)
	if err != nil {
		return "", fmt.Errorf("Put: %w", err)
	}

	name := ObjectName(accountID, kind, a.now())
	err = a.store.Put(ctx, Object{
		Name:        name,
		ContentType: "application/json",
		Metadata: map[string]string{
			"account_id": accountID,
			"kind":       kind,
			"source_url": doc.URL,
		},
		Data: data,
	})
	if err != nil {
		return "", fmt.Errorf("Put: store %s: %w", name, err)
	}
	return URI(a.store.Bucket(), name), nil
}

// Get loads an archived document by gs:// URI.
func (a *Archiver) Get(ctx context.Context, uri string) (domain.Document, error) {
	bucket, name, err := SplitURI(uri)
	if err != nil {
		return domain.Document{}, fmt.Errorf("Get: %w", err)
	}
	if bucket != a.store.Bucket() {
		return domain.Document{}, fmt.Errorf("Get: %s is not in bucket %s", uri, a.store.Bucket())
	}

	obj, err := a.store.Get(ctx, name)
	if err != nil {
		return domain.Document{}, fmt.Errorf("Get: %w", err)
	}
	doc, err := schema.Parse[domain.Document](obj.Data)
	if err != nil {
		return domain.Document{}, fmt.Errorf("Get: %s: %w", uri, err)
	}
	return doc, nil
}

// List returns the URIs archived for an account, oldest first. An empty
// kind lists every kind.
func (a *Archiver) List(ctx context.Context, accountID, kind string) ([]string, error) {
	prefix := "documents/" + accountID + "/"
	if kind != "" {
		prefix += kind + "/"
	}

	names, err := a.store.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	uris := make([]string, 0, len(names))
	for _, name := range names {
		uris = append(uris, URI(a.store.Bucket(), name))
	}
	return uris, nil
}

// ObjectName is the object path for one archived document.
func ObjectName(accountID, kind string, at time.Time) string {
	return path.Join("documents", accountID, kind, at.UTC().Format("20060102T150405.000000000Z")+".json")
}

// URI formats a gs:// URI.
func URI(bucket, name string) string {
	return "gs://" + bucket + "/" + name
}

// SplitURI parses gs://bucket/object.
func SplitURI(uri string) (bucket, name string, err error) {
	trimmed, ok := strings.CutPrefix(uri, "gs://")
	if !ok {
		return "", "", fmt.Errorf("invalid GCS URI: %s", uri)
	}
	bucket, name, ok = strings.Cut(trimmed, "/")
	if !ok || bucket == "" || name == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", uri)
	}
	return bucket, name, nil
}

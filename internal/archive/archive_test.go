package archive

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/finops-gateway/internal/domain"
)

type memStore struct {
	mu      sync.Mutex
	bucket  string
	objects map[string]Object
	putErr  error
}

func newMemStore(bucket string) *memStore {
	return &memStore{bucket: bucket, objects: map[string]Object{}}
}

func (m *memStore) Bucket() string { return m.bucket }

func (m *memStore) Put(_ context.Context, obj Object) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.objects[obj.Name] = obj
	return nil
}

func (m *memStore) Get(_ context.Context, name string) (Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[name]
	if !ok {
		return Object{}, ErrNotFound
	}
	return obj, nil
}

func (m *memStore) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var names []string
	for name := range m.objects {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func newTestArchiver(store Store) *Archiver {
	a := New(store)
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	a.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return a
}

func TestArchiver_PutGet(t *testing.T) {
	store := newMemStore("docs")
	a := newTestArchiver(store)
	ctx := context.Background()

	doc := domain.Document{URL: "https://storage.finops.test/accounts/acc-1/tariff.pdf", Document: "tariff body"}
	uri, err := a.Put(ctx, "acc-1", "tariff", doc)
	require.NoError(t, err)
	assert.Equal(t, "gs://docs/documents/acc-1/tariff/20240501T120001.000000000Z.json", uri)

	_, name, err := SplitURI(uri)
	require.NoError(t, err)
	obj := store.objects[name]
	assert.Equal(t, "application/json", obj.ContentType)
	assert.Equal(t, "acc-1", obj.Metadata["account_id"])
	assert.Equal(t, doc.URL, obj.Metadata["source_url"])

	got, err := a.Get(ctx, uri)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestArchiver_PutRejectsInvalidDocument(t *testing.T) {
	store := newMemStore("docs")
	a := newTestArchiver(store)

	_, err := a.Put(context.Background(), "acc-1", "tariff", domain.Document{URL: "not a url"})
	require.Error(t, err)
	assert.Empty(t, store.objects)

	_, err = a.Put(context.Background(), "", "tariff", domain.Document{URL: "https://x.test/a"})
	assert.Error(t, err)
}

func TestArchiver_PutStoreError(t *testing.T) {
	store := newMemStore("docs")
	store.putErr = errors.New("bucket gone")
	a := newTestArchiver(store)

	_, err := a.Put(context.Background(), "acc-1", "contract", domain.Document{URL: "https://x.test/c"})
	assert.ErrorIs(t, err, store.putErr)
}

func TestArchiver_GetErrors(t *testing.T) {
	store := newMemStore("docs")
	a := newTestArchiver(store)
	ctx := context.Background()

	_, err := a.Get(ctx, "https://docs/x.json")
	assert.Error(t, err)

	_, err = a.Get(ctx, "gs://other/documents/x.json")
	assert.Error(t, err)

	_, err = a.Get(ctx, "gs://docs/documents/missing.json")
	assert.ErrorIs(t, err, ErrNotFound)

	store.objects["documents/bad.json"] = Object{Name: "documents/bad.json", Data: []byte(`{"url": 5}`)}
	_, err = a.Get(ctx, "gs://docs/documents/bad.json")
	assert.Error(t, err)
}

func TestArchiver_List(t *testing.T) {
	store := newMemStore("docs")
	a := newTestArchiver(store)
	ctx := context.Background()
	doc := domain.Document{URL: "https://x.test/d"}

	for _, kind := range []string{"tariff", "contract", "tariff"} {
		_, err := a.Put(ctx, "acc-1", kind, doc)
		require.NoError(t, err)
	}
	_, err := a.Put(ctx, "acc-2", "tariff", doc)
	require.NoError(t, err)

	all, err := a.List(ctx, "acc-1", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	tariffs, err := a.List(ctx, "acc-1", "tariff")
	require.NoError(t, err)
	require.Len(t, tariffs, 2)
	assert.True(t, tariffs[0] < tariffs[1])
	for _, uri := range tariffs {
		assert.True(t, strings.HasPrefix(uri, "gs://docs/documents/acc-1/tariff/"))
	}
}

func TestSplitURI(t *testing.T) {
	tests := []struct {
		uri        string
		bucket     string
		name       string
		shouldFail bool
	}{
		{uri: "gs://bucket/a/b.json", bucket: "bucket", name: "a/b.json"},
		{uri: "gs://bucket/", shouldFail: true},
		{uri: "gs://bucket", shouldFail: true},
		{uri: "s3://bucket/a", shouldFail: true},
		{uri: "gs:///a", shouldFail: true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, name, err := SplitURI(tt.uri)
			if tt.shouldFail {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.name, name)
		})
	}
}

package gatewaystub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/finops-gateway/internal/api/handlers"
	"github.com/dvloznov/finops-gateway/internal/domain"
)

func TestStore_Users(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.GetUser(ctx, "u-1")
	assert.ErrorIs(t, err, handlers.ErrNotFound)

	require.NoError(t, s.SaveUser(ctx, domain.User{ID: "u-1", Email: "a@b.test"}))
	user, err := s.GetUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.test", user.Email)

	assert.Error(t, s.SaveUser(ctx, domain.User{}))
}

func TestStore_OperationsByAccount(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.SaveOperation(ctx, domain.Operation{ID: "1", AccountID: "A"}))
	require.NoError(t, s.SaveOperation(ctx, domain.Operation{ID: "2", AccountID: "B"}))
	require.NoError(t, s.SaveOperation(ctx, domain.Operation{ID: "3", AccountID: "A"}))

	ops, err := s.ListOperations(ctx, "A")
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, "1", ops[0].ID)
	assert.Equal(t, "3", ops[1].ID)

	// Moving an operation to another account reindexes it.
	require.NoError(t, s.SaveOperation(ctx, domain.Operation{ID: "1", AccountID: "B"}))
	ops, _ = s.ListOperations(ctx, "A")
	require.Len(t, ops, 1)
	assert.Equal(t, "3", ops[0].ID)
	ops, _ = s.ListOperations(ctx, "B")
	assert.Len(t, ops, 2)

	ops, err = s.ListOperations(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, ops)

	_, err = s.GetOperation(ctx, "missing")
	assert.ErrorIs(t, err, handlers.ErrNotFound)
	assert.Error(t, s.SaveOperation(ctx, domain.Operation{}))
}

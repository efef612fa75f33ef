package gatewaystub

import (
	"context"
	"fmt"
	"sync"

	"github.com/dvloznov/finops-gateway/internal/api/handlers"
	"github.com/dvloznov/finops-gateway/internal/domain"
)

// Store keeps users and operations in memory. It is safe for concurrent
// use; data is lost when the process exits.
type Store struct {
	mu         sync.RWMutex
	users      map[string]domain.User
	operations map[string]domain.Operation
	byAccount  map[string][]string // account id -> operation ids in insertion order
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:      make(map[string]domain.User),
		operations: make(map[string]domain.Operation),
		byAccount:  make(map[string][]string),
	}
}

// SaveUser implements handlers.Records.
func (s *Store) SaveUser(ctx context.Context, user domain.User) error {
	if user.ID == "" {
		return fmt.Errorf("SaveUser: user ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	return nil
}

// GetUser implements handlers.Records.
func (s *Store) GetUser(ctx context.Context, userID string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return domain.User{}, fmt.Errorf("user %s: %w", userID, handlers.ErrNotFound)
	}
	return user, nil
}

// SaveOperation implements handlers.Records. Saving an existing id replaces it.
func (s *Store) SaveOperation(ctx context.Context, op domain.Operation) error {
	if op.ID == "" {
		return fmt.Errorf("SaveOperation: operation ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, exists := s.operations[op.ID]; exists {
		s.unindex(prev)
	}
	s.operations[op.ID] = op
	s.byAccount[op.AccountID] = append(s.byAccount[op.AccountID], op.ID)
	return nil
}

func (s *Store) unindex(op domain.Operation) {
	ids := s.byAccount[op.AccountID]
	for i, id := range ids {
		if id == op.ID {
			s.byAccount[op.AccountID] = append(ids[:i:i], ids[i+1:]...)
			return
		}
	}
}

// GetOperation implements handlers.Records.
func (s *Store) GetOperation(ctx context.Context, operationID string) (domain.Operation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	op, ok := s.operations[operationID]
	if !ok {
		return domain.Operation{}, fmt.Errorf("operation %s: %w", operationID, handlers.ErrNotFound)
	}
	return op, nil
}

// ListOperations implements handlers.Records.
func (s *Store) ListOperations(ctx context.Context, accountID string) ([]domain.Operation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byAccount[accountID]
	result := make([]domain.Operation, 0, len(ids))
	for _, id := range ids {
		result = append(result, s.operations[id])
	}
	return result, nil
}

// Ensure Store implements the Records interface.
var _ handlers.Records = (*Store)(nil)

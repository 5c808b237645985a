// Package adapters composes storage implementations with orchestration
// services into the single Store surface the HTTP layer consumes.
package adapters

import (
	"context"

	"fintrack/internal/core"
	"fintrack/internal/services"
	"fintrack/internal/store"
)

// EventedStore routes transaction writes through the TransactionService so
// each durable write publishes an event; reads and user operations go
// straight to the underlying store.
type EventedStore struct {
	store.Store
	txService *services.TransactionService
}

func NewEventedStore(st store.Store, txService *services.TransactionService) *EventedStore {
	return &EventedStore{Store: st, txService: txService}
}

func (s *EventedStore) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	return s.txService.Create(ctx, t)
}

func (s *EventedStore) UpdateTransaction(ctx context.Context, id string, patch store.TransactionPatch) (core.Transaction, error) {
	return s.txService.Update(ctx, id, patch)
}

func (s *EventedStore) DeleteTransaction(ctx context.Context, id string) error {
	return s.txService.Delete(ctx, id)
}

package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/store"
)

// TransactionService wraps transaction writes and publishes an event after
// each successful one. Event publishing never fails the request; the write
// is already durable.
type TransactionService struct {
	store  store.Store
	events *amqp.Client
}

func NewTransactionService(st store.Store, events *amqp.Client) *TransactionService {
	return &TransactionService{store: st, events: events}
}

func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	created, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	s.publish(ctx, created.ID, created.UserID, amqp.ActionCreate)
	return created, nil
}

func (s *TransactionService) Update(ctx context.Context, id string, patch store.TransactionPatch) (core.Transaction, error) {
	updated, err := s.store.UpdateTransaction(ctx, id, patch)
	if err != nil {
		return core.Transaction{}, err
	}
	s.publish(ctx, updated.ID, updated.UserID, amqp.ActionUpdate)
	return updated, nil
}

func (s *TransactionService) Delete(ctx context.Context, id string) error {
	// Load first so the event can carry the owning user.
	t, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, id, t.UserID, amqp.ActionDelete)
	return nil
}

func (s *TransactionService) publish(ctx context.Context, id, userID, action string) {
	if s.events == nil {
		slog.DebugContext(ctx, "Event publishing disabled, skipping", "action", action)
		return
	}
	if err := s.events.PublishTransactionEvent(ctx, id, userID, action); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"transaction_id", id,
			"user_id", userID,
			"action", action,
			"error", err)
	}
}

// Close releases the event publisher connection, if any.
func (s *TransactionService) Close() error {
	if s.events != nil {
		return s.events.Close()
	}
	return nil
}

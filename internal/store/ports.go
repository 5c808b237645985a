// Package store defines the persistence ports for users and transactions.
package store

import (
	"context"
	"errors"

	"fintrack/internal/core"
)

// ErrNotFound is returned by all implementations when a record id does not
// exist. Deletion of a missing id reports it rather than claiming success.
var ErrNotFound = errors.New("record not found")

// UserPatch carries a partial user update. Nil fields retain stored values.
type UserPatch struct {
	Name  *string
	Email *string
}

// TransactionPatch carries a partial transaction update. Nil fields retain
// stored values.
type TransactionPatch struct {
	Type        *core.TransactionType
	Amount      *core.Money
	Description *string
	Category    *string
	Date        *core.Date
}

type (
	UserStore interface {
		ListUsers(ctx context.Context) ([]core.User, error)
		GetUser(ctx context.Context, id string) (core.User, error)
		// CreateUser assigns the id and returns the stored record.
		CreateUser(ctx context.Context, u core.User) (core.User, error)
		// UpdateUser merges the patch and returns the post-update record.
		UpdateUser(ctx context.Context, id string, patch UserPatch) (core.User, error)
		// DeleteUser removes the user and cascades to their transactions.
		DeleteUser(ctx context.Context, id string) error
	}

	TransactionStore interface {
		ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error)
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
		CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		UpdateTransaction(ctx context.Context, id string, patch TransactionPatch) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, id string) error
	}

	// Store is the combined persistence surface the API is served from.
	Store interface {
		UserStore
		TransactionStore
	}
)

// Apply merges the patch into a user record.
func (p UserPatch) Apply(u core.User) core.User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	return u
}

// Apply merges the patch into a transaction record.
func (p TransactionPatch) Apply(t core.Transaction) core.Transaction {
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	return t
}

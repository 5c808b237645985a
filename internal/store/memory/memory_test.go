package memory

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

func TestUserCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	created, err := s.CreateUser(ctx, core.User{Name: "John", Email: "john@example.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected assigned id")
	}

	got, err := s.GetUser(ctx, created.ID)
	if err != nil || got.Name != "John" {
		t.Fatalf("get: %v %+v", err, got)
	}

	name := "Johnny"
	updated, err := s.UpdateUser(ctx, created.ID, store.UserPatch{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Johnny" || updated.Email != "john@example.com" {
		t.Fatalf("partial update broke record: %+v", updated)
	}

	if err := s.DeleteUser(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteUser(ctx, created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	ctx := context.Background()
	s := New()

	u, _ := s.CreateUser(ctx, core.User{Name: "A", Email: "a@example.com"})
	other, _ := s.CreateUser(ctx, core.User{Name: "B", Email: "b@example.com"})
	_, err := s.CreateTransaction(ctx, core.Transaction{
		UserID: u.ID, Type: core.Expense, Amount: core.Money{Cents: 100},
		Description: "x", Date: core.NewDate(2025, 1, 1),
	})
	if err != nil {
		t.Fatalf("create tx: %v", err)
	}
	keep, _ := s.CreateTransaction(ctx, core.Transaction{
		UserID: other.ID, Type: core.Income, Amount: core.Money{Cents: 200},
		Description: "y", Date: core.NewDate(2025, 1, 2),
	})

	if err := s.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	orphans, _ := s.ListTransactions(ctx, u.ID)
	if len(orphans) != 0 {
		t.Fatalf("expected cascade delete, found %d transactions", len(orphans))
	}
	if _, err := s.GetTransaction(ctx, keep.ID); err != nil {
		t.Fatalf("other user's transaction lost: %v", err)
	}
}

func TestTransactionPartialUpdate(t *testing.T) {
	ctx := context.Background()
	s := New()

	u, _ := s.CreateUser(ctx, core.User{Name: "A", Email: "a@example.com"})
	created, err := s.CreateTransaction(ctx, core.Transaction{
		UserID: u.ID, Type: core.Expense, Amount: core.Money{Cents: 4000},
		Description: "groceries", Category: "Food", Date: core.NewDate(2025, 3, 4),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	amount := core.Money{Cents: 4200}
	updated, err := s.UpdateTransaction(ctx, created.ID, store.TransactionPatch{Amount: &amount})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Amount.Cents != 4200 {
		t.Fatalf("amount = %d", updated.Amount.Cents)
	}
	if updated.Description != "groceries" || updated.Category != "Food" || updated.Date.String() != "2025-03-04" {
		t.Fatalf("unspecified fields changed: %+v", updated)
	}
}

func TestDeleteTransactionRemovesFromListing(t *testing.T) {
	ctx := context.Background()
	s := New()

	u, _ := s.CreateUser(ctx, core.User{Name: "A", Email: "a@example.com"})
	t1, _ := s.CreateTransaction(ctx, core.Transaction{
		UserID: u.ID, Type: core.Expense, Amount: core.Money{Cents: 100},
		Description: "x", Date: core.NewDate(2025, 1, 1),
	})
	_, _ = s.CreateTransaction(ctx, core.Transaction{
		UserID: u.ID, Type: core.Expense, Amount: core.Money{Cents: 200},
		Description: "y", Date: core.NewDate(2025, 1, 2),
	})

	if err := s.DeleteTransaction(ctx, t1.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	txs, _ := s.ListTransactions(ctx, u.ID)
	if len(txs) != 1 || txs[0].Description != "y" {
		t.Fatalf("unexpected listing after delete: %+v", txs)
	}
	if err := s.DeleteTransaction(ctx, t1.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListTransactionsSortedByDate(t *testing.T) {
	ctx := context.Background()
	s := New()
	u, _ := s.CreateUser(ctx, core.User{Name: "A", Email: "a@example.com"})
	_, _ = s.CreateTransaction(ctx, core.Transaction{
		UserID: u.ID, Type: core.Expense, Amount: core.Money{Cents: 100},
		Description: "later", Date: core.NewDate(2025, 5, 1),
	})
	_, _ = s.CreateTransaction(ctx, core.Transaction{
		UserID: u.ID, Type: core.Expense, Amount: core.Money{Cents: 100},
		Description: "earlier", Date: core.NewDate(2025, 1, 1),
	})
	txs, _ := s.ListTransactions(ctx, u.ID)
	if len(txs) != 2 || txs[0].Description != "earlier" {
		t.Fatalf("expected date order, got %+v", txs)
	}
}

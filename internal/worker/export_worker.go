// Package worker maintains per-user CSV ledgers of transactions, kept in
// sync by consuming transaction events.
package worker

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/store"
)

var csvHeader = []string{"id", "type", "amount", "description", "category", "date"}

// ExportWorker rewrites a user's ledger file whenever one of their
// transactions changes. Ledgers live under exportDir, one file per user.
type ExportWorker struct {
	store     store.Store
	exportDir string
	logger    *slog.Logger
}

func NewExportWorker(st store.Store, exportDir string) (*ExportWorker, error) {
	if err := os.MkdirAll(exportDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory %s: %w", exportDir, err)
	}
	return &ExportWorker{
		store:     st,
		exportDir: exportDir,
		logger:    slog.Default().With(applog.FieldComponent, applog.ComponentWorker),
	}, nil
}

// Run exports every user once to catch up on events missed while the
// worker was down, then consumes events until ctx is cancelled.
func (w *ExportWorker) Run(ctx context.Context, events *amqp.Client) error {
	if err := w.ExportAll(ctx); err != nil {
		return fmt.Errorf("startup export failed: %w", err)
	}

	w.logger.Info("Export worker started, waiting for transaction events")
	return events.ConsumeTransactionEvents(ctx, func(msg *amqp.TransactionEventMessage) error {
		return w.HandleEvent(ctx, msg)
	})
}

// ExportAll rewrites the ledger of every known user.
func (w *ExportWorker) ExportAll(ctx context.Context) error {
	users, err := w.store.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}
	for _, u := range users {
		if err := w.ExportUser(ctx, u.ID); err != nil {
			return err
		}
	}
	w.logger.Info("Exported ledgers", "users", len(users))
	return nil
}

// HandleEvent re-exports the ledger of the user named by the event. The
// event only says that something changed; the export always reflects the
// store's current state, so create, update and delete are handled alike.
func (w *ExportWorker) HandleEvent(ctx context.Context, msg *amqp.TransactionEventMessage) error {
	w.logger.Info("Processing transaction event",
		applog.FieldTransactionID, msg.ID,
		applog.FieldUserID, msg.UserID,
		applog.FieldAction, msg.Action)

	if err := w.ExportUser(ctx, msg.UserID); err != nil {
		return fmt.Errorf("failed to export ledger for user %s: %w", msg.UserID, err)
	}
	return nil
}

// ExportUser writes the user's transactions to their ledger file. A user
// deleted since the event was published gets their ledger removed instead.
func (w *ExportWorker) ExportUser(ctx context.Context, userID string) error {
	path := w.ledgerPath(userID)

	if _, err := w.store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
				return fmt.Errorf("failed to remove ledger %s: %w", path, rmErr)
			}
			return nil
		}
		return fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	txs, err := w.store.ListTransactions(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list transactions for %s: %w", userID, err)
	}

	return w.writeLedger(path, txs)
}

// writeLedger writes to a temp file and renames so readers never see a
// partially written ledger.
func (w *ExportWorker) writeLedger(path string, txs []core.Transaction) error {
	tmp, err := os.CreateTemp(w.exportDir, "ledger-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	cw := csv.NewWriter(tmp)
	if err := cw.Write(csvHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, t := range txs {
		row := []string{
			t.ID,
			string(t.Type),
			core.FormatCents(t.Amount.Cents),
			t.Description,
			t.Category,
			t.Date.String(),
		}
		if err := cw.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace ledger %s: %w", path, err)
	}
	return nil
}

func (w *ExportWorker) ledgerPath(userID string) string {
	return filepath.Join(w.exportDir, "user-"+sanitize(userID)+".csv")
}

// sanitize keeps ids safe to embed in a filename.
func sanitize(id string) string {
	out := make([]rune, 0, len(id))
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "unknown"
	}
	return string(out)
}

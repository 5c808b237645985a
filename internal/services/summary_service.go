package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

const (
	DefaultFanoutLimit    = 8
	DefaultPerUserTimeout = 5 * time.Second
)

// SummaryService produces the users-with-summary composite read. The
// per-user transaction fetches run as a bounded scatter/gather; a failed or
// timed-out fetch degrades that user to zero totals instead of failing the
// whole listing.
type SummaryService struct {
	users          store.UserStore
	txs            store.TransactionStore
	fanoutLimit    int
	perUserTimeout time.Duration
}

func NewSummaryService(users store.UserStore, txs store.TransactionStore, fanoutLimit int, perUserTimeout time.Duration) *SummaryService {
	if fanoutLimit < 1 {
		fanoutLimit = DefaultFanoutLimit
	}
	if perUserTimeout <= 0 {
		perUserTimeout = DefaultPerUserTimeout
	}
	return &SummaryService{
		users:          users,
		txs:            txs,
		fanoutLimit:    fanoutLimit,
		perUserTimeout: perUserTimeout,
	}
}

// ListUsersWithSummary returns all users joined with summaries derived from
// their transactions, recomputed on every call.
func (s *SummaryService) ListUsersWithSummary(ctx context.Context) ([]core.UserWithSummary, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]core.UserWithSummary, len(users))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanoutLimit)
	for i, u := range users {
		g.Go(func() error {
			out[i] = s.summarizeUser(gctx, u)
			return nil
		})
	}
	// Goroutines degrade instead of returning errors, so Wait cannot fail.
	_ = g.Wait()

	return out, nil
}

// GetUserWithSummary returns one user joined with their summary.
func (s *SummaryService) GetUserWithSummary(ctx context.Context, id string) (core.UserWithSummary, error) {
	u, err := s.users.GetUser(ctx, id)
	if err != nil {
		return core.UserWithSummary{}, err
	}
	return s.summarizeUser(ctx, u), nil
}

func (s *SummaryService) summarizeUser(ctx context.Context, u core.User) core.UserWithSummary {
	cctx, cancel := context.WithTimeout(ctx, s.perUserTimeout)
	defer cancel()

	txs, err := s.txs.ListTransactions(cctx, u.ID)
	if err != nil {
		slog.WarnContext(ctx, "Transaction fetch failed, degrading to zero totals",
			"user_id", u.ID,
			"error", err)
		return core.UserWithSummary{User: u, Summary: core.ZeroSummary()}
	}
	return core.UserWithSummary{
		User:         u,
		Summary:      core.Summarize(txs),
		Transactions: txs,
	}
}

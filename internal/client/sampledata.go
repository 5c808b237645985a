package client

import "fintrack/internal/core"

// Bundled sample dataset served when reads degrade. Kept small but shaped
// like real data so dashboards stay usable offline.

const (
	sampleJohnID = "sample-user-1"
	sampleJaneID = "sample-user-2"
)

func sampleUsers() []core.User {
	return []core.User{
		{ID: sampleJohnID, Name: "John Doe", Email: "john@example.com"},
		{ID: sampleJaneID, Name: "Jane Smith", Email: "jane@example.com"},
	}
}

func sampleTransactions() []core.Transaction {
	return []core.Transaction{
		{ID: "sample-tx-1", UserID: sampleJohnID, Type: core.Income, Amount: core.Money{Cents: 300000}, Description: "Salary", Category: "Income", Date: core.NewDate(2024, 1, 1)},
		{ID: "sample-tx-2", UserID: sampleJohnID, Type: core.Income, Amount: core.Money{Cents: 200000}, Description: "Freelance work", Category: "Income", Date: core.NewDate(2024, 1, 15)},
		{ID: "sample-tx-3", UserID: sampleJohnID, Type: core.Expense, Amount: core.Money{Cents: 150000}, Description: "Rent", Category: "Housing", Date: core.NewDate(2024, 1, 2)},
		{ID: "sample-tx-4", UserID: sampleJohnID, Type: core.Expense, Amount: core.Money{Cents: 80000}, Description: "Groceries", Category: "Food & Dining", Date: core.NewDate(2024, 1, 5)},
		{ID: "sample-tx-5", UserID: sampleJohnID, Type: core.Expense, Amount: core.Money{Cents: 90000}, Description: "Utilities", Category: "Utilities", Date: core.NewDate(2024, 1, 10)},
		{ID: "sample-tx-6", UserID: sampleJaneID, Type: core.Income, Amount: core.Money{Cents: 450000}, Description: "Salary", Category: "Income", Date: core.NewDate(2024, 1, 1)},
		{ID: "sample-tx-7", UserID: sampleJaneID, Type: core.Expense, Amount: core.Money{Cents: 120000}, Description: "Rent", Category: "Housing", Date: core.NewDate(2024, 1, 3)},
		{ID: "sample-tx-8", UserID: sampleJaneID, Type: core.Expense, Amount: core.Money{Cents: 60000}, Description: "Groceries", Category: "Food & Dining", Date: core.NewDate(2024, 1, 7)},
		{ID: "sample-tx-9", UserID: sampleJaneID, Type: core.Expense, Amount: core.Money{Cents: 100000}, Description: "Car payment", Category: "Transportation", Date: core.NewDate(2024, 1, 8)},
	}
}

// SampleTransactions returns the bundled transactions for one user.
func SampleTransactions(userID string) []core.Transaction {
	var out []core.Transaction
	for _, t := range sampleTransactions() {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out
}

// SampleUsersWithSummary returns the bundled users with summaries computed
// the same way the API computes them.
func SampleUsersWithSummary() []core.UserWithSummary {
	users := sampleUsers()
	out := make([]core.UserWithSummary, 0, len(users))
	for _, u := range users {
		txs := SampleTransactions(u.ID)
		out = append(out, core.UserWithSummary{
			User:         u,
			Summary:      core.Summarize(txs),
			Transactions: txs,
		})
	}
	return out
}

package core

import "strings"

// Summary holds derived totals for one user's transactions.
// It is computed on demand and never persisted.
type Summary struct {
	TotalIncome    Money            `json:"total_income"`
	TotalExpense   Money            `json:"total_expense"`
	CategoryTotals map[string]Money `json:"category_totals"`
}

// UserWithSummary is the composite read shape joining a user with the
// summary derived from their transactions.
type UserWithSummary struct {
	User
	Summary
	Transactions []Transaction `json:"transactions,omitempty"`
}

// ZeroSummary returns an empty summary with a non-nil category map.
func ZeroSummary() Summary {
	return Summary{CategoryTotals: map[string]Money{}}
}

// Summarize folds a transaction list into income/expense totals and
// per-category expense totals. Expenses without a category land in the
// Uncategorized bucket. The fold is order-independent; empty input yields
// zero totals and an empty map.
func Summarize(txs []Transaction) Summary {
	s := ZeroSummary()
	for _, t := range txs {
		switch t.Type {
		case Income:
			s.TotalIncome.Cents += t.Amount.Cents
		case Expense:
			s.TotalExpense.Cents += t.Amount.Cents
			cat := strings.TrimSpace(t.Category)
			if cat == "" {
				cat = Uncategorized
			}
			total := s.CategoryTotals[cat]
			total.Cents += t.Amount.Cents
			s.CategoryTotals[cat] = total
		}
	}
	return s
}

// AverageExpenseByCategory computes, for a set of users, the per-category
// expense total divided by the number of users. Only expense transactions
// with a non-empty category contribute; users with no transactions still
// count toward the divisor. The divisor is treated as 1 for an empty user
// list, so the result is always well defined. Values are fractional cents.
func AverageExpenseByCategory(users []UserWithSummary) map[string]float64 {
	totals := make(map[string]int64)
	for _, u := range users {
		for _, t := range u.Transactions {
			if t.Type != Expense {
				continue
			}
			if strings.TrimSpace(t.Category) == "" {
				continue
			}
			totals[t.Category] += t.Amount.Cents
		}
	}

	divisor := len(users)
	if divisor == 0 {
		divisor = 1
	}

	out := make(map[string]float64, len(totals))
	for cat, cents := range totals {
		out[cat] = float64(cents) / float64(divisor)
	}
	return out
}

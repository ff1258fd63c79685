package calc

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/taxism/backend/internal/domain"
)

// WriteOffHint annotates every flagged expense.
const WriteOffHint = "Potential deduction – ensure substantiation."

// Expense categories that commonly hide an overlooked deduction. Matching
// is case-insensitive on the whole category string.
var writeOffCategories = map[string]struct{}{
	"home office":  {},
	"r&d":          {},
	"depreciation": {},
	"mileage":      {},
}

// ReviewWriteOffs sums the batch and flags every expense whose category
// matches the fixed deduction set, preserving input order. The total
// covers all expenses, flagged or not.
func ReviewWriteOffs(expenses []domain.Expense) domain.WriteOffReview {
	total := decimal.Zero
	flags := make([]domain.ExpenseFlag, 0)

	for _, expense := range expenses {
		total = total.Add(expense.Amount)
		if _, ok := writeOffCategories[strings.ToLower(expense.Category)]; ok {
			flags = append(flags, domain.ExpenseFlag{
				Category: expense.Category,
				Hint:     WriteOffHint,
			})
		}
	}

	return domain.WriteOffReview{
		TotalReviewed: total.RoundBank(2),
		Flags:         flags,
	}
}

package domain

import "github.com/shopspring/decimal"

// Expense is a single reported expense line. Expenses are transient
// review input and are never persisted.
type Expense struct {
	Category string
	Amount   decimal.Decimal
}

// ExpenseFlag marks an expense category that commonly hides an overlooked
// write-off.
type ExpenseFlag struct {
	Category string
	Hint     string
}

// WriteOffReview summarises a write-off scan over a batch of expenses.
type WriteOffReview struct {
	TotalReviewed decimal.Decimal
	Flags         []ExpenseFlag
}

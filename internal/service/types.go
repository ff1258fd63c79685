package service

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProfileInput carries the raw fields for creating a user profile.
type ProfileInput struct {
	FullName       string
	Email          string
	Country        string
	FilingStatus   string
	EmploymentType string
	Entities       []string
	RiskTolerance  string
}

// DepreciationInput carries the fields for a schedule calculation.
type DepreciationInput struct {
	AssetName       string
	CostBasis       decimal.Decimal
	PlacedInService time.Time
	LifeYears       int
}

// ScheduleEntryInput is a single supplied schedule year.
type ScheduleEntryInput struct {
	Year   int
	Amount decimal.Decimal
}

// DepreciationRecordInput carries a full schedule supplied for
// persistence.
type DepreciationRecordInput struct {
	AssetName       string
	CostBasis       decimal.Decimal
	PlacedInService time.Time
	Method          string
	LifeYears       int
	Schedule        []ScheduleEntryInput
}

// PositionInput is one portfolio holding supplied to a harvest scan.
type PositionInput struct {
	Symbol       string
	CostBasis    decimal.Decimal
	CurrentPrice decimal.Decimal
	Quantity     decimal.Decimal
}

// HarvestInput carries the fields for a harvest scan. A nil Threshold
// selects the default.
type HarvestInput struct {
	PortfolioName string
	Positions     []PositionInput
	Threshold     *decimal.Decimal
}

// CandidateInput is one supplied harvest candidate for persistence.
type CandidateInput struct {
	Symbol     string
	Unrealized decimal.Decimal
	Note       string
}

// HarvestPlanInput carries a full plan supplied for persistence.
type HarvestPlanInput struct {
	PortfolioName     string
	Threshold         decimal.Decimal
	PositionsReviewed int
	Candidates        []CandidateInput
}

// MemoInput carries the fields for memo generation.
type MemoInput struct {
	Title           string
	PositionSummary string
}

// MemoRecordInput carries a full memo supplied for persistence.
type MemoRecordInput struct {
	Title           string
	PositionSummary string
	Citations       []string
	MemoText        string
}

// ExpenseInput is one reported expense line for a write-off review.
type ExpenseInput struct {
	Category string
	Amount   decimal.Decimal
}

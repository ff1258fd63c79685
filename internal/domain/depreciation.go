package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MethodStraightLine is the only depreciation method supported so far.
const MethodStraightLine = "SL"

// Recovery periods outside 1..40 years are rejected.
const (
	MinLifeYears = 1
	MaxLifeYears = 40
)

// ScheduleEntry is a single year of a depreciation schedule.
type ScheduleEntry struct {
	Year   int
	Amount decimal.Decimal
}

// DepreciationRecord is a calculated depreciation schedule persisted for
// future reference.
type DepreciationRecord struct {
	AssetName       string
	CostBasis       decimal.Decimal
	PlacedInService time.Time
	Method          string
	LifeYears       int
	Schedule        []ScheduleEntry
}

// ValidateCostBasis rejects negative cost bases.
func ValidateCostBasis(costBasis decimal.Decimal) error {
	if costBasis.IsNegative() {
		return invalidField("cost_basis", "must be greater than or equal to 0")
	}
	return nil
}

// ValidateLifeYears enforces the supported recovery period range.
func ValidateLifeYears(lifeYears int) error {
	if lifeYears < MinLifeYears || lifeYears > MaxLifeYears {
		return invalidField("life_years", "must be between 1 and 40")
	}
	return nil
}

// Validate checks the record's construction invariants: method, field
// ranges, one schedule entry per recovery year with years 1..L in order,
// and a schedule total that reconciles with the cost basis up to the
// accepted per-year rounding drift.
func (r DepreciationRecord) Validate() error {
	if err := requireNonEmpty("asset_name", r.AssetName); err != nil {
		return err
	}
	if r.Method != MethodStraightLine {
		return invalidField("method", "must be SL")
	}
	if err := ValidateCostBasis(r.CostBasis); err != nil {
		return err
	}
	if err := ValidateLifeYears(r.LifeYears); err != nil {
		return err
	}
	if r.PlacedInService.IsZero() {
		return invalidField("placed_in_service", "must be a calendar date")
	}
	if len(r.Schedule) != r.LifeYears {
		return invalidField("schedule", "must contain one entry per recovery year")
	}

	total := decimal.Zero
	for i, entry := range r.Schedule {
		if entry.Year != i+1 {
			return invalidField("schedule", "entry years must run 1..life_years in order")
		}
		if entry.Amount.IsNegative() {
			return invalidField("schedule", "entry amounts must not be negative")
		}
		total = total.Add(entry.Amount)
	}

	// Each year's amount is rounded to cents, so the total may drift from
	// the cost basis by at most half a cent per year.
	tolerance := decimal.New(1, -2).Mul(decimal.NewFromInt(int64(r.LifeYears)))
	if total.Sub(r.CostBasis).Abs().GreaterThan(tolerance) {
		return invalidField("schedule", "total must reconcile with cost_basis")
	}
	return nil
}

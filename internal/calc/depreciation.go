// Package calc holds the pure calculators behind the planning API. Every
// function here maps a validated input record to an output record with no
// side effects; all monetary amounts are rounded to cents using banker's
// rounding (half to even).
package calc

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/taxism/backend/internal/domain"
)

// StraightLine builds a straight-line depreciation schedule: the cost
// basis spread evenly over the recovery period, one entry per year. Each
// year's amount is round(cost_basis / life_years, 2); the rounded total
// may therefore drift from the cost basis by fractions of a cent per
// year, which is accepted rather than smeared into the final year.
// Inputs are assumed validated (life_years in 1..40, cost_basis >= 0).
func StraightLine(assetName string, costBasis decimal.Decimal, placedInService time.Time, lifeYears int) domain.DepreciationRecord {
	annual := costBasis.Div(decimal.NewFromInt(int64(lifeYears))).RoundBank(2)

	schedule := make([]domain.ScheduleEntry, 0, lifeYears)
	for year := 1; year <= lifeYears; year++ {
		schedule = append(schedule, domain.ScheduleEntry{
			Year:   year,
			Amount: annual,
		})
	}

	return domain.DepreciationRecord{
		AssetName:       assetName,
		CostBasis:       costBasis,
		PlacedInService: placedInService,
		Method:          domain.MethodStraightLine,
		LifeYears:       lifeYears,
		Schedule:        schedule,
	}
}

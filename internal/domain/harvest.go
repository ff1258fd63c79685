package domain

import "github.com/shopspring/decimal"

// DefaultHarvestThreshold is the minimum absolute per-position loss that
// makes a position worth harvesting, in currency units.
var DefaultHarvestThreshold = decimal.NewFromInt(500)

// Position is one portfolio holding supplied to the harvest scanner.
// Missing numeric fields are treated as zero.
type Position struct {
	Symbol       string
	CostBasis    decimal.Decimal
	CurrentPrice decimal.Decimal
	Quantity     decimal.Decimal
}

// HarvestCandidate is a position whose unrealized loss exceeded the scan
// threshold, annotated with a wash-sale advisory.
type HarvestCandidate struct {
	Symbol     string
	Unrealized decimal.Decimal
	Note       string
}

// HarvestPlan is a tax-loss harvesting scan snapshot.
type HarvestPlan struct {
	PortfolioName     string
	Threshold         decimal.Decimal
	PositionsReviewed int
	Candidates        []HarvestCandidate
}

// ValidateThreshold rejects negative harvest thresholds.
func ValidateThreshold(threshold decimal.Decimal) error {
	if threshold.IsNegative() {
		return invalidField("threshold", "must be greater than or equal to 0")
	}
	return nil
}

// Validate checks the plan's construction invariants.
func (p HarvestPlan) Validate() error {
	if err := requireNonEmpty("portfolio_name", p.PortfolioName); err != nil {
		return err
	}
	if err := ValidateThreshold(p.Threshold); err != nil {
		return err
	}
	if p.PositionsReviewed < 0 {
		return invalidField("positions_reviewed", "must be greater than or equal to 0")
	}
	if p.PositionsReviewed < len(p.Candidates) {
		return invalidField("positions_reviewed", "must cover every candidate")
	}
	return nil
}

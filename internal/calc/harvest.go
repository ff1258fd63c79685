package calc

import (
	"github.com/shopspring/decimal"

	"github.com/taxism/backend/internal/domain"
)

// WashSaleNote annotates every harvest candidate. Harvesting a loss and
// re-entering a substantially identical position inside the wash-sale
// window disallows the loss claim.
const WashSaleNote = "Loss exceeds threshold. Confirm wash sale windows before execution."

// ScanHarvest reviews each position for an unrealized loss whose
// magnitude exceeds the threshold. A position qualifies iff
// round((current_price - cost_basis) * quantity, 2) < -abs(threshold).
// Candidates keep the input order; zero-valued fields on a position are
// simply zeros in the arithmetic.
func ScanHarvest(portfolioName string, positions []domain.Position, threshold decimal.Decimal) domain.HarvestPlan {
	cutoff := threshold.Abs().Neg()

	candidates := make([]domain.HarvestCandidate, 0)
	for _, pos := range positions {
		unrealized := pos.CurrentPrice.Sub(pos.CostBasis).Mul(pos.Quantity).RoundBank(2)
		if unrealized.LessThan(cutoff) {
			candidates = append(candidates, domain.HarvestCandidate{
				Symbol:     pos.Symbol,
				Unrealized: unrealized,
				Note:       WashSaleNote,
			})
		}
	}

	return domain.HarvestPlan{
		PortfolioName:     portfolioName,
		Threshold:         threshold,
		PositionsReviewed: len(positions),
		Candidates:        candidates,
	}
}

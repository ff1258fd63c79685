package calc

import (
	"fmt"

	"github.com/taxism/backend/internal/domain"
)

const memoTemplate = "Position: %s\n\n" +
	"Summary: %s\n\n" +
	"Rationale: This position is taken based on commonly accepted interpretations " +
	"of applicable tax rules and administrative guidance. The taxpayer has a good-" +
	"faith basis and has maintained contemporaneous records.\n\n" +
	"Citations: [Add statute/reg cite placeholders here].\n\n" +
	"Disclosure: Where required, the position will be properly disclosed to the tax authority."

// GenerateMemo renders a defense memo from the title and position
// summary. The template is fixed, so identical inputs always produce
// byte-identical memo text. Citations start empty; they are filled in by
// hand after review.
func GenerateMemo(title, positionSummary string) domain.Memo {
	return domain.Memo{
		Title:           title,
		PositionSummary: positionSummary,
		Citations:       []string{},
		MemoText:        fmt.Sprintf(memoTemplate, title, positionSummary),
	}
}

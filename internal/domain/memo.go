package domain

// Memo is a defense memo stored for an optimization position: a written,
// citable justification kept for audit support.
type Memo struct {
	Title           string
	PositionSummary string
	Citations       []string
	MemoText        string
}

// Validate checks the memo's construction invariants.
func (m Memo) Validate() error {
	if err := requireNonEmpty("title", m.Title); err != nil {
		return err
	}
	if err := requireNonEmpty("position_summary", m.PositionSummary); err != nil {
		return err
	}
	return requireNonEmpty("memo_text", m.MemoText)
}

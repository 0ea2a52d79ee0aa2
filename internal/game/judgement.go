package game

import "image/color"

// ComboEffect is what a judgement does to the running combo.
type ComboEffect uint8

const (
	ComboIncrement ComboEffect = iota
	ComboReset
	ComboIgnore
)

// Judgement is a named outcome tier. Values are comparable and used as
// identity, so every mode declares its set once as package variables.
type Judgement struct {
	ID    string
	Name  string
	Score int
	Combo ComboEffect
	// Minor judgements come from ticks and spinner progress; they never
	// resolve a note on their own.
	Minor bool
	Color color.RGBA
}

func (j Judgement) String() string {
	return j.Name
}

func (j Judgement) IsZero() bool {
	return j.ID == ""
}

// BreaksCombo reports whether the judgement resets combo.
func (j Judgement) BreaksCombo() bool {
	return j.Combo == ComboReset
}

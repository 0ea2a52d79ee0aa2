package score

type MultiplierKind uint8

const (
	MultiplierNone MultiplierKind = iota
	MultiplierFlat
	MultiplierLinear
)

// ComboMultiplier maps the current combo to a score multiplier.
type ComboMultiplier struct {
	Kind MultiplierKind
	// Factor is the flat multiplier.
	Factor float64
	// Step is added per combo for the linear policy, which wraps every
	// Period combo after clamping to Cap (0 disables the cap).
	Step   float64
	Period int
	Cap    int
}

func (p ComboMultiplier) At(combo int) float64 {
	switch p.Kind {
	case MultiplierFlat:
		if p.Factor <= 0 {
			return 1
		}
		return p.Factor
	case MultiplierLinear:
		c := combo
		if p.Cap > 0 && c > p.Cap {
			c = p.Cap
		}
		if p.Period > 0 {
			c %= p.Period
		}
		return 1 + p.Step*float64(c)
	}
	return 1
}

// Points is the score delta for a base value at the given combo.
func (p ComboMultiplier) Points(base, combo int) int64 {
	return int64(float64(base) * p.At(combo))
}

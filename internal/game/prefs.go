package game

// ChartPrefs are the per chart and mode settings remembered between plays.
type ChartPrefs struct {
	Offset      float64 // ms
	ScrollSpeed float64
}

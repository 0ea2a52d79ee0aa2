package game

// TimingPoint is one tempo or inherited velocity segment of a chart.
type TimingPoint struct {
	Time       float64 `json:"time"`
	BeatLength float64 `json:"beat_length"` // ms per beat, uninherited only
	Meter      int     `json:"meter,omitempty"`
	// SV is the slider/scroll velocity multiplier of an inherited point.
	SV        float64 `json:"sv,omitempty"`
	Inherited bool    `json:"inherited,omitempty"`
	Kiai      bool    `json:"kiai,omitempty"`
	Volume    int     `json:"volume,omitempty"`
}

// BPM is zero for inherited points.
func (tp TimingPoint) BPM() float64 {
	if tp.Inherited || tp.BeatLength <= 0 {
		return 0
	}
	return 60000 / tp.BeatLength
}

// Package timing resolves a time cursor to the active timing segment of a
// chart and reports beat pulses and kiai transitions as the cursor moves.
package timing

import (
	"math"
	"sort"

	"git.lost.host/meutraa/tempo/internal/game"
)

const defaultBeatLength = 500 // 120 BPM

// Point is the resolved state at a time: the governing uninherited point
// merged with any inherited velocity override.
type Point struct {
	Time       float64
	BeatLength float64
	Meter      int
	SV         float64
	Kiai       bool
	Volume     int

	section float64 // start of the governing uninherited section
}

func (p Point) BPM() float64 {
	return 60000 / p.BeatLength
}

type EventKind uint8

const (
	Beat EventKind = iota
	KiaiStart
	KiaiEnd
)

type Event struct {
	Kind EventKind
	Time float64
	// Beat is the beat number within the current uninherited section.
	Beat int
}

type Index struct {
	points   []Point
	cursor   int
	lastBeat int
	kiai     bool
	started  bool
}

// New builds an index from chart timing points. Charts without an
// uninherited point get a 120 BPM default so lookups never fail.
func New(tps []game.TimingPoint) *Index {
	sorted := make([]game.TimingPoint, len(tps))
	copy(sorted, tps)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })

	parent := Point{BeatLength: defaultBeatLength, Meter: 4, SV: 1, Volume: 100}
	points := make([]Point, 0, len(sorted))
	for _, tp := range sorted {
		p := parent
		p.Time = tp.Time
		p.Kiai = tp.Kiai
		if tp.Volume > 0 {
			p.Volume = tp.Volume
		}
		if tp.Inherited {
			p.SV = 1
			if tp.SV > 0 {
				p.SV = tp.SV
			}
		} else {
			if tp.BeatLength > 0 {
				p.BeatLength = tp.BeatLength
			}
			if tp.Meter > 0 {
				p.Meter = tp.Meter
			}
			p.SV = 1
			p.section = tp.Time
			parent = p
		}
		points = append(points, p)
	}
	if len(points) == 0 {
		points = append(points, parent)
	}
	return &Index{points: points, lastBeat: math.MinInt}
}

// At returns the timing state governing t. Times before the first point
// resolve to the first point.
func (x *Index) At(t float64) Point {
	i := sort.Search(len(x.points), func(i int) bool { return x.points[i].Time > t }) - 1
	if i < 0 {
		i = 0
	}
	return x.points[i]
}

// Current returns the point at the cursor.
func (x *Index) Current() Point {
	return x.points[x.cursor]
}

// Kiai reports whether the cursor is inside a kiai section.
func (x *Index) Kiai() bool {
	return x.kiai
}

// Update moves the cursor to t and returns the beat and kiai events crossed
// since the previous call. Moving backwards re-seeks without emitting.
func (x *Index) Update(t float64) []Event {
	var events []Event
	if x.cursor > 0 && t < x.points[x.cursor].Time {
		x.seek(t)
		return nil
	}
	for x.cursor+1 < len(x.points) && x.points[x.cursor+1].Time <= t {
		x.cursor++
	}
	p := x.points[x.cursor]

	if x.started && p.Kiai != x.kiai {
		kind := KiaiEnd
		if p.Kiai {
			kind = KiaiStart
		}
		events = append(events, Event{Kind: kind, Time: t})
	}
	x.kiai = p.Kiai

	beat := int(math.Floor((t - x.sectionStart()) / p.BeatLength))
	if x.started && beat != x.lastBeat && t >= x.sectionStart() {
		events = append(events, Event{Kind: Beat, Time: t, Beat: beat})
	}
	x.lastBeat = beat
	x.started = true
	return events
}

// Reset rewinds the cursor to t without emitting events.
func (x *Index) Reset(t float64) {
	x.seek(t)
}

func (x *Index) seek(t float64) {
	i := sort.Search(len(x.points), func(i int) bool { return x.points[i].Time > t }) - 1
	if i < 0 {
		i = 0
	}
	x.cursor = i
	p := x.points[i]
	x.kiai = p.Kiai
	x.lastBeat = int(math.Floor((t - x.sectionStart()) / p.BeatLength))
	x.started = true
}

func (x *Index) sectionStart() float64 {
	return x.points[x.cursor].section
}

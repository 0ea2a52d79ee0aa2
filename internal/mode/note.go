package mode

import "git.lost.host/meutraa/tempo/internal/game"

// Note is the runtime view of a chart note shared by every mode.
type Note interface {
	Def() *game.NoteDef
	Time() float64
	EndTime() float64
	// WasHit is true once the note is resolved, hit or missed.
	WasHit() bool
	IsHit() bool
	IsMissed() bool
	Reset()
}

// NoteState carries the resolution state every note kind shares. The
// resolve methods refuse to run twice, so a note judges exactly once.
type NoteState struct {
	hit, missed bool
	hitTime     float64
	// skipped notes were passed over by a seek and carry no judgement.
	skipped bool
}

func (s *NoteState) WasHit() bool   { return s.hit || s.missed || s.skipped }
func (s *NoteState) IsHit() bool    { return s.hit }
func (s *NoteState) IsMissed() bool { return s.missed }
func (s *NoteState) Skipped() bool  { return s.skipped }

// HitTime is only meaningful when IsHit.
func (s *NoteState) HitTime() float64 { return s.hitTime }

// ResolveHit marks the note hit at t. It returns false when the note was
// already resolved.
func (s *NoteState) ResolveHit(t float64) bool {
	if s.WasHit() {
		return false
	}
	s.hit = true
	s.hitTime = t
	return true
}

// ResolveMiss marks the note missed. It returns false when the note was
// already resolved.
func (s *NoteState) ResolveMiss() bool {
	if s.WasHit() {
		return false
	}
	s.missed = true
	return true
}

// Skip resolves the note silently.
func (s *NoteState) Skip() {
	s.skipped = true
}

func (s *NoteState) ResetState() {
	*s = NoteState{}
}

// EndJudgement judges a hold, slider or spinner from its tick progress and
// whether it was held at its end. Without ticks only the hold state counts.
func EndJudgement(ticksHit, ticks int, held bool, best, second, miss game.Judgement) game.Judgement {
	if ticks == 0 {
		if held {
			return best
		}
		return miss
	}
	switch {
	case ticksHit >= ticks && held:
		return best
	case ticksHit == 0 && !held:
		return miss
	}
	return second
}

package sampler

// SustainPedalLogic tracks which keys are physically down, which notes are
// being held past key-up by the sustain pedal, and the pedal's own
// position. It is the sole source of truth the dispatcher consults for
// mono-mode "held key" and pedal-sustain decisions (spec.md §4.3, §6).
//
// Adapted from the teacher's keyStateTracker (control.go), which tracked
// key-down/last-velocity for the hammer exciter; here it additionally
// tracks which notes the pedal is holding past release.
type SustainPedalLogic struct {
	keyDown    [NumNotes]bool
	sustaining [NumNotes]bool
	pedalDown_ bool
}

// NewSustainPedalLogic returns pedal logic with everything up.
func NewSustainPedalLogic() *SustainPedalLogic {
	return &SustainPedalLogic{}
}

// PedalDown marks the pedal as physically depressed.
func (p *SustainPedalLogic) PedalDown() {
	p.pedalDown_ = true
}

// PedalUp marks the pedal as physically released and clears every note's
// sustaining flag. Callers must read SustainedNotes before calling this if
// they need to act on the set being cleared (spec.md §4.3's sustainPedal
// releases each note, then marks the pedal up).
func (p *SustainPedalLogic) PedalUp() {
	p.pedalDown_ = false
	for i := range p.sustaining {
		p.sustaining[i] = false
	}
}

// KeyDownAction records that note is physically held.
func (p *SustainPedalLogic) KeyDownAction(note int) {
	if note < 0 || note >= NumNotes {
		return
	}
	p.keyDown[note] = true
}

// KeyUpAction records that note's key was released and reports whether the
// pedal is keeping it sounding. When the pedal is down, the note transitions
// to "sustaining" and the caller must not stop it.
func (p *SustainPedalLogic) KeyUpAction(note int) (stillSustained bool) {
	if note < 0 || note >= NumNotes {
		return false
	}
	p.keyDown[note] = false
	if p.pedalDown_ {
		p.sustaining[note] = true
		return true
	}
	return false
}

// IsAnyKeyDown reports whether any key is currently physically held.
func (p *SustainPedalLogic) IsAnyKeyDown() bool {
	for _, d := range p.keyDown {
		if d {
			return true
		}
	}
	return false
}

// IsNoteSustaining reports whether note is being held by the pedal.
func (p *SustainPedalLogic) IsNoteSustaining(note int) bool {
	if note < 0 || note >= NumNotes {
		return false
	}
	return p.sustaining[note]
}

// FirstKeyDown returns the lowest-numbered physically-held key, or a
// negative value if none is down.
func (p *SustainPedalLogic) FirstKeyDown() int {
	for n := 0; n < NumNotes; n++ {
		if p.keyDown[n] {
			return n
		}
	}
	return -1
}

// SustainedNotes returns every note currently held by the pedal. Allocates;
// control-context only, never called from the render path.
func (p *SustainPedalLogic) SustainedNotes() []int {
	notes := make([]int, 0, NumNotes)
	for n, s := range p.sustaining {
		if s {
			notes = append(notes, n)
		}
	}
	return notes
}

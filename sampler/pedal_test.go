package sampler

import "testing"

func TestSustainPedalKeyUpWithoutPedal(t *testing.T) {
	p := NewSustainPedalLogic()
	p.KeyDownAction(60)
	if stillSustained := p.KeyUpAction(60); stillSustained {
		t.Error("key-up without pedal down should not sustain")
	}
	if p.IsNoteSustaining(60) {
		t.Error("note should not be sustaining")
	}
}

func TestSustainPedalHoldsNoteUntilPedalUp(t *testing.T) {
	p := NewSustainPedalLogic()
	p.KeyDownAction(60)
	p.PedalDown()

	if stillSustained := p.KeyUpAction(60); !stillSustained {
		t.Error("key-up with pedal down should sustain")
	}
	if !p.IsNoteSustaining(60) {
		t.Error("note should be sustaining while pedal is down")
	}

	notes := p.SustainedNotes()
	if len(notes) != 1 || notes[0] != 60 {
		t.Errorf("expected [60], got %v", notes)
	}

	p.PedalUp()
	if p.IsNoteSustaining(60) {
		t.Error("note should stop sustaining after pedal up")
	}
}

func TestSustainPedalFirstKeyDown(t *testing.T) {
	p := NewSustainPedalLogic()
	if p.FirstKeyDown() >= 0 {
		t.Error("expected no key down initially")
	}

	p.KeyDownAction(64)
	p.KeyDownAction(60)
	if got := p.FirstKeyDown(); got != 60 {
		t.Errorf("expected lowest held key 60, got %d", got)
	}

	p.KeyUpAction(60)
	if got := p.FirstKeyDown(); got != 64 {
		t.Errorf("expected remaining held key 64, got %d", got)
	}
}

func TestSustainPedalIsAnyKeyDown(t *testing.T) {
	p := NewSustainPedalLogic()
	if p.IsAnyKeyDown() {
		t.Error("expected no key down initially")
	}
	p.KeyDownAction(60)
	if !p.IsAnyKeyDown() {
		t.Error("expected a key down")
	}
	p.KeyUpAction(60)
	if p.IsAnyKeyDown() {
		t.Error("expected no key down after release")
	}
}

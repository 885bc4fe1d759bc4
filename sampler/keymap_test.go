package sampler

import "testing"

func TestKeyMapBuildSimpleNearestPitch(t *testing.T) {
	tuning := NewTuningTable()
	low := newSineBuffer(220, 0.1, 44100, 57, false)  // A3
	high := newSineBuffer(880, 0.1, 44100, 81, false) // A5

	km := NewKeyMap()
	km.BuildSimple(tuning, []*SampleBuffer{low, high})

	if !km.IsValid() {
		t.Fatal("expected keymap to be valid after BuildSimple")
	}

	if got := km.Lookup(57, 100); got != low {
		t.Errorf("note 57: expected low buffer, got %v", got)
	}
	if got := km.Lookup(81, 100); got != high {
		t.Errorf("note 81: expected high buffer, got %v", got)
	}

	// A note midway between the two roots (in semitones) must still resolve
	// to one of the loaded buffers.
	mid := (57 + 81) / 2
	if got := km.Lookup(mid, 100); got == nil {
		t.Errorf("note %d: expected a nearest-pitch match, got nil", mid)
	}
}

func TestKeyMapBuildRangeExplicit(t *testing.T) {
	tuning := NewTuningTable()
	b := &SampleBuffer{
		MinNote: 48, MaxNote: 72,
		MinVel: -1, MaxVel: -1,
		RootNote: 60,
		EndPoint: 100,
		Channels: 1,
		Data:     [][]float32{make([]float32, 100)},
	}

	km := NewKeyMap()
	km.BuildRange(tuning, []*SampleBuffer{b})

	if km.Lookup(60, 100) != b {
		t.Error("note within range should resolve to the buffer")
	}
	if km.Lookup(20, 100) != nil {
		t.Error("note outside range should not resolve")
	}
	if km.Lookup(100, 100) != nil {
		t.Error("note outside range should not resolve")
	}
}

func TestKeyMapVelocityLayering(t *testing.T) {
	tuning := NewTuningTable()
	soft := &SampleBuffer{
		MinNote: 60, MaxNote: 60, MinVel: 0, MaxVel: 63,
		RootNote: 60, EndPoint: 10, Channels: 1, Data: [][]float32{make([]float32, 10)},
	}
	loud := &SampleBuffer{
		MinNote: 60, MaxNote: 60, MinVel: 64, MaxVel: 127,
		RootNote: 60, EndPoint: 10, Channels: 1, Data: [][]float32{make([]float32, 10)},
	}

	km := NewKeyMap()
	km.BuildRange(tuning, []*SampleBuffer{soft, loud})

	if got := km.Lookup(60, 10); got != soft {
		t.Errorf("low velocity should match soft layer, got %v", got)
	}
	if got := km.Lookup(60, 120); got != loud {
		t.Errorf("high velocity should match loud layer, got %v", got)
	}
}

func TestKeyMapEmptyLookup(t *testing.T) {
	km := NewKeyMap()
	if got := km.Lookup(60, 100); got != nil {
		t.Errorf("lookup on unbuilt keymap should return nil, got %v", got)
	}
	if got := km.Lookup(-1, 100); got != nil {
		t.Errorf("lookup with out-of-range note should return nil, got %v", got)
	}
}

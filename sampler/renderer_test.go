package sampler

import "testing"

func TestRenderProducesAudioInBothChannels(t *testing.T) {
	buf := newSineBuffer(440, 1.0, 44100, 69, false)
	s := newTestSampler(44100, buf)
	s.PlayNote(69, 100)

	left := make([]float32, ChunkSize)
	right := make([]float32, ChunkSize)

	sawLeft, sawRight := false, false
	for block := 0; block < 20; block++ {
		s.Render(ChunkSize, left, right)
		for i := range left {
			if left[i] != 0 {
				sawLeft = true
			}
			if right[i] != 0 {
				sawRight = true
			}
		}
	}
	if !sawLeft || !sawRight {
		t.Errorf("expected non-zero output in both channels, left=%v right=%v", sawLeft, sawRight)
	}
}

func TestRenderSilentWhenNothingPlaying(t *testing.T) {
	buf := newSineBuffer(440, 1.0, 44100, 69, false)
	s := newTestSampler(44100, buf)

	left := make([]float32, ChunkSize)
	right := make([]float32, ChunkSize)
	s.Render(ChunkSize, left, right)

	for i := range left {
		if left[i] != 0 || right[i] != 0 {
			t.Fatalf("expected silence with no voices active, got left[%d]=%f right[%d]=%f", i, left[i], i, right[i])
		}
	}
}

func TestStopAllVoicesSilencesEverything(t *testing.T) {
	buf := newSineBuffer(440, 1.0, 44100, 69, false)
	s := newTestSampler(44100, buf)
	s.PlayNote(60, 100)
	s.PlayNote(64, 100)

	if got := s.ActiveVoiceCount(); got != 2 {
		t.Fatalf("expected 2 active voices, got %d", got)
	}

	stopRender := startRenderThread(s)
	s.StopAllVoices()
	stopRender()
	if got := s.ActiveVoiceCount(); got != 0 {
		t.Errorf("expected 0 active voices after StopAllVoices, got %d", got)
	}

	left := make([]float32, ChunkSize)
	right := make([]float32, ChunkSize)
	s.Render(ChunkSize, left, right)
	for i := range left {
		if left[i] != 0 || right[i] != 0 {
			t.Fatal("expected silence immediately after StopAllVoices")
		}
	}

	s.RestartVoices()
	s.PlayNote(60, 100)
	if got := s.ActiveVoiceCount(); got != 1 {
		t.Errorf("expected voices playable again after RestartVoices, got %d", got)
	}
}

func TestPlayNoteIsNoOpWhileBarrierEngaged(t *testing.T) {
	buf := newSineBuffer(440, 1.0, 44100, 69, false)
	s := newTestSampler(44100, buf)

	s.barrier.Engage()
	s.PlayNote(60, 100)
	if got := s.ActiveVoiceCount(); got != 0 {
		t.Errorf("expected PlayNote to be a no-op while the stop-all barrier is engaged, got %d active", got)
	}

	s.barrier.Release()
	s.PlayNote(60, 100)
	if got := s.ActiveVoiceCount(); got != 1 {
		t.Errorf("expected PlayNote to work again once the barrier is released, got %d active", got)
	}
}

func TestRenderDoesNotAllocate(t *testing.T) {
	buf := newSineBuffer(440, 1.0, 44100, 69, false)
	s := newTestSampler(44100, buf)
	s.PlayNote(69, 100)

	left := make([]float32, ChunkSize)
	right := make([]float32, ChunkSize)

	allocs := testing.AllocsPerRun(100, func() {
		s.Render(ChunkSize, left, right)
	})
	if allocs > 0 {
		t.Errorf("expected zero allocations per Render call, got %.1f", allocs)
	}
}

package sampler

// Render produces sampleCount frames of stereo output into left/right,
// mixing every sounding voice (spec.md §4.4). Called from the audio thread
// only; it never allocates, locks, or blocks.
func (s *Sampler) Render(sampleCount int, left, right []float32) {
	for i := 0; i < sampleCount; i++ {
		left[i] = 0
		right[i] = 0
	}

	lfoSample := s.lfo.GetSample()
	pitchDev := s.params.PitchOffset + s.params.VibratoDepth*lfoSample

	if s.barrier.IsEngaged() {
		for i := range s.voices {
			s.voices[i].Stop()
		}
		return
	}

	cutoffMul := s.params.effectiveCutoffMultiple()
	glideRate := s.params.effectiveGlideRate()

	// In mono+legato mode a voice running out of sample data must not be
	// auto-stopped: the voice stays under the dispatcher's control so the
	// next legato transition has something to glide from (spec.md §4.4).
	allowSampleRunout := !(s.params.IsMonophonic && s.params.IsLegato)

	for i := range s.voices {
		v := &s.voices[i]
		if v.IsIdle() {
			continue
		}

		done := v.PrepToGetSamples(
			s.params.MasterVolume,
			pitchDev,
			cutoffMul,
			s.params.KeyTracking,
			s.params.CutoffEnvelopeStrength,
			s.params.FilterEnvelopeVelocityScaling,
			s.params.LinearResonance,
			glideRate,
		)
		if done {
			v.Stop()
			continue
		}

		ranOut := v.GetSamples(sampleCount, left, right, s.params.IsFilterEnabled)
		if ranOut && allowSampleRunout {
			v.Stop()
		}
	}
}

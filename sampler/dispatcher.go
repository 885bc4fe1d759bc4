package sampler

// heldKeyVelocity is used when mono mode re-sounds a key that is still
// physically held after the most recently played note stops (spec.md §4.3)
// — the original velocity of that key-down is not retained anywhere, so a
// fixed, moderate value is used for the re-trigger.
const heldKeyVelocity = 100

// PlayNote implements the note-on half of spec.md §4.3's dispatch policy.
func (s *Sampler) PlayNote(note, velocity int) {
	if note < 0 || note >= NumNotes {
		return
	}
	anotherKeyWasDown := s.pedal.IsAnyKeyDown()
	s.pedal.KeyDownAction(note)
	s.play(note, velocity, anotherKeyWasDown)
}

// StopNote implements the note-off half of spec.md §4.3. immediate bypasses
// the release stage and the sustain pedal entirely.
func (s *Sampler) StopNote(note int, immediate bool) {
	if note < 0 || note >= NumNotes {
		return
	}
	if immediate {
		s.stop(note, true)
		return
	}
	if !s.pedal.KeyUpAction(note) {
		s.stop(note, false)
	}
}

// SustainPedal implements spec.md §4.3's pedal transition: on press, notes
// released while it is down are simply held (see StopNote's KeyUpAction
// check). On
// release, every note the pedal was holding is stopped and only then is the
// pedal itself marked up, so a PlayNote racing the release cannot observe a
// half-cleared sustain set.
func (s *Sampler) SustainPedal(down bool) {
	if down {
		s.pedal.PedalDown()
		return
	}
	sustained := s.pedal.SustainedNotes()
	for _, nn := range sustained {
		s.stop(nn, false)
	}
	s.pedal.PedalUp()
}

func (s *Sampler) play(note, velocity int, anotherKeyWasDown bool) {
	if s.barrier.IsEngaged() {
		return
	}
	if !s.keymap.IsValid() || len(s.buffers) == 0 {
		return
	}
	freq := s.tuning.Frequency(note)
	vel01 := clamp01(float32(velocity) / 127.0)

	if s.params.IsMonophonic {
		v := &s.voices[0]
		if s.params.IsLegato && anotherKeyWasDown && !v.IsIdle() {
			v.RestartNewNoteLegato(note, freq)
			s.lastPlayedNote = note
			return
		}
		buf := s.keymap.Lookup(note, velocity)
		if buf == nil {
			return
		}
		if !v.IsIdle() {
			v.RestartNewNote(note, freq, vel01, buf)
		} else {
			v.Start(note, freq, vel01, buf)
		}
		s.lastPlayedNote = note
		return
	}

	buf := s.keymap.Lookup(note, velocity)
	if buf == nil {
		return
	}
	for i := range s.voices {
		if s.voices[i].NoteNumber() == note {
			s.voices[i].RestartSameNote(vel01, buf)
			s.lastPlayedNote = note
			return
		}
	}
	for i := range s.voices {
		if s.voices[i].IsIdle() {
			s.voices[i].Start(note, freq, vel01, buf)
			s.lastPlayedNote = note
			return
		}
	}
	// All 64 slots busy: the note is dropped silently (spec.md §7).
}

func (s *Sampler) stop(note int, immediate bool) {
	if s.params.IsMonophonic {
		s.stopMono(note, immediate)
		return
	}
	for i := range s.voices {
		v := &s.voices[i]
		if v.NoteNumber() != note {
			continue
		}
		if immediate {
			v.Stop()
		} else {
			v.Release(s.params.LoopThruRelease)
		}
	}
}

func (s *Sampler) stopMono(note int, immediate bool) {
	v := &s.voices[0]
	if v.NoteNumber() != note {
		return
	}
	if immediate {
		v.Stop()
		return
	}

	other := s.pedal.FirstKeyDown()
	if other < 0 {
		v.Release(s.params.LoopThruRelease)
		return
	}
	freq := s.tuning.Frequency(other)

	if s.params.IsLegato {
		v.RestartNewNoteLegato(other, freq)
		s.lastPlayedNote = other
		return
	}

	buf := s.keymap.Lookup(other, heldKeyVelocity)
	if buf == nil {
		v.Release(s.params.LoopThruRelease)
		return
	}
	vel01 := clamp01(float32(heldKeyVelocity) / 127.0)
	v.RestartNewNote(other, freq, vel01, buf)
	s.lastPlayedNote = other
}

// Package sampler implements a polyphonic, velocity/key-range-mapped
// sample-playback engine: 64 fixed voice slots, mono/legato/poly note
// dispatch, sustain pedal, shared vibrato LFO, and a block-based renderer.
package sampler

import "fmt"

// ChunkSize is the fixed block size, in sample frames, at which envelopes
// advance and Render is invoked (spec.md §3, §4.6 — "CHUNKSIZE").
const ChunkSize = 64

// NumVoices is the fixed polyphony of the engine.
const NumVoices = 64

// Sampler is the engine's public surface: the single type a host embeds to
// load samples, build a keymap, dispatch notes, and render audio.
type Sampler struct {
	sampleRate   int
	rateInBlocks float32

	voices [NumVoices]Voice

	keymap  *KeyMap
	tuning  *TuningTable
	pedal   *SustainPedalLogic
	lfo     *LFO
	barrier *StopAllBarrier
	params  *Params

	ampParams    *AdsrParameters
	filterParams *AdsrParameters

	buffers []*SampleBuffer

	lastPlayedNote int
}

// NewSampler constructs a Sampler for the given engine sample rate. All
// sample data loaded afterward is resampled to this rate (spec.md §3).
func NewSampler(sampleRate int) *Sampler {
	s := &Sampler{
		keymap:         NewKeyMap(),
		tuning:         NewTuningTable(),
		pedal:          NewSustainPedalLogic(),
		barrier:        NewStopAllBarrier(),
		params:         NewParams(),
		ampParams:      NewAdsrParameters(),
		filterParams:   NewAdsrParameters(),
		lastPlayedNote: -1,
	}
	s.Init(sampleRate)
	return s
}

// Init (re)configures the engine for a sample rate. Must be called before
// any note is played, and must not be called while voices are sounding
// (spec.md §5) — callers should StopAllVoices first if reconfiguring live.
func (s *Sampler) Init(sampleRate int) {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	s.sampleRate = sampleRate
	s.rateInBlocks = float32(sampleRate) / float32(ChunkSize)

	s.ampParams.UpdateSampleRate(s.rateInBlocks)
	s.filterParams.UpdateSampleRate(s.rateInBlocks)
	s.lfo = NewLFO(s.rateInBlocks, 5.0)

	for i := range s.voices {
		if s.voices[i].ampEnv == nil {
			s.voices[i] = *NewVoice(s.ampParams, s.filterParams)
		}
		s.voices[i].Init(sampleRate, s.rateInBlocks)
	}
}

// Deinit silences every voice (via StopAllVoices, so it waits for Render to
// observe the stop-all barrier) and drops all loaded sample data and keymap
// state. The barrier stays engaged until RestartVoices; tuning overrides,
// Params and the ADSR settings are kept.
func (s *Sampler) Deinit() {
	s.StopAllVoices()
	s.buffers = nil
	s.keymap = NewKeyMap()
	s.lastPlayedNote = -1
}

// LoadSampleData decodes desc into an immutable SampleBuffer (resampling to
// the engine's rate if needed) and adds it to the pool available for the
// next BuildSimpleKeyMap/BuildKeyMap call. Safe to call only while no voice
// references the previous keymap generation (spec.md §5) — call
// StopAllVoices first if loading while notes may be sounding.
func (s *Sampler) LoadSampleData(desc SampleDescriptor) error {
	b, err := NewSampleBuffer(desc, s.sampleRate)
	if err != nil {
		return fmt.Errorf("sampler: load sample data: %w", err)
	}
	s.buffers = append(s.buffers, b)
	return nil
}

// BuildSimpleKeyMap assigns every loaded buffer by nearest-pitch (spec.md
// §4.1's simple construction mode).
func (s *Sampler) BuildSimpleKeyMap() {
	s.keymap.BuildSimple(s.tuning, s.buffers)
}

// BuildKeyMap assigns every loaded buffer by its explicit key range
// (spec.md §4.1's range construction mode).
func (s *Sampler) BuildKeyMap() {
	s.keymap.BuildRange(s.tuning, s.buffers)
}

// SetNoteFrequency overrides a single MIDI note's tuned frequency.
func (s *Sampler) SetNoteFrequency(note int, freq float32) {
	s.tuning.SetFrequency(note, freq)
}

// StopAllVoices engages the stop-all barrier and busy-waits until the audio
// thread has observed it and silenced every voice (spec.md §4.5). Call only
// from the control thread; never from inside Render.
func (s *Sampler) StopAllVoices() {
	s.barrier.Engage()
	for {
		allIdle := true
		for i := range s.voices {
			if !s.voices[i].IsIdle() {
				allIdle = false
				break
			}
		}
		if allIdle {
			return
		}
	}
}

// RestartVoices releases the stop-all barrier, allowing notes to sound again.
func (s *Sampler) RestartVoices() {
	s.barrier.Release()
}

// SetAmpEnvelope replaces the amplitude ADSR scalars and refreshes every
// voice's cached coefficients (spec.md §4.6).
func (s *Sampler) SetAmpEnvelope(attack, decay, sustain, release float32) {
	s.ampParams.Attack = attack
	s.ampParams.Decay = decay
	s.ampParams.Sustain = sustain
	s.ampParams.Release = release
	for i := range s.voices {
		s.voices[i].UpdateAmpAdsrParameters()
	}
}

// SetFilterEnvelope replaces the filter ADSR scalars and refreshes every
// voice's cached coefficients (spec.md §4.6).
func (s *Sampler) SetFilterEnvelope(attack, decay, sustain, release float32) {
	s.filterParams.Attack = attack
	s.filterParams.Decay = decay
	s.filterParams.Sustain = sustain
	s.filterParams.Release = release
	for i := range s.voices {
		s.voices[i].UpdateFilterAdsrParameters()
	}
}

// AmpEnvelope returns the current amplitude ADSR scalars.
func (s *Sampler) AmpEnvelope() AdsrParameters {
	return *s.ampParams
}

// FilterEnvelope returns the current filter ADSR scalars.
func (s *Sampler) FilterEnvelope() AdsrParameters {
	return *s.filterParams
}

// Params returns the engine's live, mutable global control block. Callers
// may write fields directly; each is read fresh once per Render block.
func (s *Sampler) Params() *Params {
	return s.params
}

// LastPlayedNote returns the most recently started or re-triggered note
// number, or -1 if none has played yet (SPEC_FULL.md §C).
func (s *Sampler) LastPlayedNote() int {
	return s.lastPlayedNote
}

// ActiveVoiceCount returns how many of the 64 voice slots are currently
// sounding (SPEC_FULL.md §C).
func (s *Sampler) ActiveVoiceCount() int {
	count := 0
	for i := range s.voices {
		if !s.voices[i].IsIdle() {
			count++
		}
	}
	return count
}

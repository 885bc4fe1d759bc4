package sampler

import (
	"math"

	"github.com/cwbudde/samplecore/dsp"
)

// idleNote is the sentinel stored in Voice.noteNumber when a slot is not
// sounding (spec.md §3 — "negative = idle").
const idleNote = -1

// Voice is one slot of polyphony. Lifecycle: idle -> sounding (start) ->
// releasing (release) -> idle (envelope reaches zero and the renderer
// observes it). The audio thread owns the slot while sounding; the control
// thread starts a voice only after observing noteNumber < 0 (spec.md §5,
// §9 — "the slot's noteNumber is the synchronization word").
//
// The DSP internals here (interpolated playback, filter, envelope stepping)
// are a concrete stand-in for what spec.md §1/§6 treats as an external
// collaborator; they are adapted from the teacher's dsp.Biquad /
// dsp.LagrangeInterpolator rather than the physical-modeling string code
// they used to drive.
type Voice struct {
	noteNumber int
	buffer     *SampleBuffer
	velocity01 float32

	sampleRate   int
	rateInBlocks float32

	targetFrequency  float32 // tuning-table frequency for the held note
	currentFrequency float32 // glide-smoothed frequency actually in use
	glideActive      bool

	position      float64
	playbackRatio float32

	ampEnv    *envelope
	filterEnv *envelope
	filter    *dsp.Biquad
	interp    *dsp.LagrangeInterpolator

	released           bool
	loopThroughRelease bool

	gain float32 // per-block amplitude, set in prepToGetSamples
}

// NewVoice returns an idle voice.
func NewVoice(ampParams, filterParams *AdsrParameters) *Voice {
	v := &Voice{
		noteNumber: idleNote,
		ampEnv:     newEnvelope(ampParams),
		filterEnv:  newEnvelope(filterParams),
		filter:     dsp.NewLowpass(20000, 48000, 0.707),
		interp:     dsp.NewLagrangeInterpolator(3),
	}
	return v
}

// Init (re)configures the voice for a sample rate; called once at engine
// init time, before any note is played (spec.md §6).
func (v *Voice) Init(sampleRate int, rateInBlocks float32) {
	v.sampleRate = sampleRate
	v.rateInBlocks = rateInBlocks
	v.filter.Reset()
}

// NoteNumber is the readable slot field spec.md §6 requires; negative means idle.
func (v *Voice) NoteNumber() int {
	return v.noteNumber
}

// IsIdle reports whether the slot is free for (re)allocation.
func (v *Voice) IsIdle() bool {
	return v.noteNumber < 0
}

// Start begins sounding a freshly allocated voice.
func (v *Voice) Start(noteNumber int, noteFrequency float32, velocity01 float32, buffer *SampleBuffer) {
	v.noteNumber = noteNumber
	v.buffer = buffer
	v.velocity01 = velocity01
	v.targetFrequency = noteFrequency
	v.currentFrequency = noteFrequency
	v.glideActive = false
	v.position = float64(buffer.StartPoint)
	v.released = false
	v.filter.Reset()
	v.ampEnv.trigger()
	v.filterEnv.trigger()
}

// RestartNewNote re-triggers envelopes on an already-sounding slot for a new
// note (mono, non-legato transition, or a held-key re-trigger from stop()).
func (v *Voice) RestartNewNote(noteNumber int, noteFrequency float32, velocity01 float32, buffer *SampleBuffer) {
	v.Start(noteNumber, noteFrequency, velocity01, buffer)
}

// RestartNewNoteLegato transitions to a new note without retriggering the
// envelope; pitch glides smoothly toward the new target over the next
// several blocks via the voice's glide coefficient (spec.md §4.3, Glossary).
// With an effective glide rate of zero the pitch jumps to the new target on
// the next block.
func (v *Voice) RestartNewNoteLegato(noteNumber int, noteFrequency float32) {
	v.noteNumber = noteNumber
	v.targetFrequency = noteFrequency
	v.glideActive = true
	v.released = false
}

// RestartSameNote retriggers the envelope in place (polyphonic same-note
// re-strike) with a possibly different velocity and sample buffer (a new
// velocity layer).
func (v *Voice) RestartSameNote(velocity01 float32, buffer *SampleBuffer) {
	v.velocity01 = velocity01
	v.buffer = buffer
	v.position = float64(buffer.StartPoint)
	v.released = false
	v.ampEnv.retrigger()
	v.filterEnv.retrigger()
}

// Stop kills the voice immediately, bypassing the release stage.
func (v *Voice) Stop() {
	v.noteNumber = idleNote
	v.buffer = nil
	v.ampEnv.stopImmediate()
	v.filterEnv.stopImmediate()
	v.glideActive = false
	v.released = false
}

// Release transitions the voice into its release stage. loopThruRelease
// controls whether sample playback keeps looping under the release tail
// (true) or is allowed to run through to its natural end (false).
func (v *Voice) Release(loopThruRelease bool) {
	v.released = true
	v.loopThroughRelease = loopThruRelease
	v.ampEnv.release()
	v.filterEnv.release()
}

func glideCoefficient(glideRateSecondsPerOctave, rateInBlocks float32) float32 {
	if glideRateSecondsPerOctave <= 0 || rateInBlocks <= 0 {
		return 0
	}
	blocks := glideRateSecondsPerOctave * rateInBlocks
	if blocks < 1 {
		blocks = 1
	}
	return pow2Approx(-1.0 / blocks)
}

// PrepToGetSamples advances the amplitude and filter envelopes by one block,
// resolves the glide/vibrato-adjusted playback ratio, and refreshes the
// voice filter's coefficients. Returns true if the amplitude envelope has
// reached idle, signaling the renderer to stop this voice immediately
// (spec.md §4.4).
func (v *Voice) PrepToGetSamples(
	masterVolume float32,
	pitchDevCents float32,
	cutoffMul float32,
	keyTracking float32,
	cutoffEnvelopeStrength float32,
	filterEnvelopeVelocityScaling float32,
	linearResonance float32,
	glideRate float32,
) bool {
	ampLevel := v.ampEnv.advance()
	filterLevel := v.filterEnv.advance()

	if v.glideActive {
		coeff := glideCoefficient(glideRate, v.rateInBlocks)
		if coeff == 0 {
			v.currentFrequency = v.targetFrequency
			v.glideActive = false
		} else {
			logCur := math.Log2(float64(v.currentFrequency))
			logTarget := math.Log2(float64(v.targetFrequency))
			logCur = logTarget + (logCur-logTarget)*float64(coeff)
			v.currentFrequency = float32(math.Pow(2, logCur))
			if absf(v.currentFrequency-v.targetFrequency) < 0.01 {
				v.currentFrequency = v.targetFrequency
				v.glideActive = false
			}
		}
	} else {
		v.currentFrequency = v.targetFrequency
	}

	vibratoRatio := centsToRatio(pitchDevCents)
	actualFrequency := v.currentFrequency * vibratoRatio
	v.playbackRatio = actualFrequency / pitchReference(v.buffer)

	if cutoffMul < 0 {
		v.gain = ampLevel * v.velocity01 * masterVolume
		return ampLevel == 0 && v.ampEnv.isIdle()
	}

	keyTrackFactor := 1 + keyTracking*(float32(v.noteNumber-60)/12.0)
	velScale := 1 + filterEnvelopeVelocityScaling*(v.velocity01-0.5)*2
	envContribution := 1 + cutoffEnvelopeStrength*filterLevel
	cutoffHz := actualFrequency * cutoffMul * keyTrackFactor * envContribution * velScale
	nyquist := float32(v.sampleRate) * 0.5
	cutoffHz = clampf(cutoffHz, 20, nyquist*0.99)
	q := clampf(0.5+linearResonance*4.0, 0.1, 20)
	v.filter.SetLowpass(cutoffHz, float32(v.sampleRate), q)

	v.gain = ampLevel * v.velocity01 * masterVolume
	return ampLevel == 0 && v.ampEnv.isIdle()
}

func pitchReference(b *SampleBuffer) float32 {
	if b.RootFrequency > 0 {
		return b.RootFrequency
	}
	return NoteHz(b.RootNote)
}

// GetSamples mixes this voice's output into leftOut/rightOut for
// sampleCount frames, advancing the playback position. Returns true if the
// sample buffer ran out of data this block (spec.md §4.4).
func (v *Voice) GetSamples(sampleCount int, leftOut, rightOut []float32, filterEnabled bool) bool {
	buf := v.buffer
	if buf == nil {
		return true
	}
	left := buf.Data[0]
	right := left
	if buf.Channels > 1 {
		right = buf.Data[1]
	}

	ranOut := false
	for i := 0; i < sampleCount; i++ {
		l := v.readInterpolated(left, v.position)
		r := l
		if buf.Channels > 1 {
			r = v.readInterpolated(right, v.position)
		}

		if filterEnabled {
			l = v.filter.Process(l)
			r = v.filter.Process(r)
		}

		leftOut[i] += l * v.gain
		rightOut[i] += r * v.gain

		v.position += float64(v.playbackRatio)

		looping := buf.IsLooping && (!v.released || v.loopThroughRelease)
		if looping && buf.LoopEnd > buf.LoopStart {
			if v.position >= float64(buf.LoopEnd) {
				v.position -= float64(buf.LoopEnd - buf.LoopStart)
			}
		} else if v.position >= float64(buf.EndPoint) {
			ranOut = true
			break
		}
	}
	return ranOut
}

func (v *Voice) readInterpolated(ch []float32, pos float64) float32 {
	idx := int(pos)
	frac := float32(pos - float64(idx))
	get := func(i int) float32 {
		if i < 0 {
			i = 0
		}
		if i >= len(ch) {
			i = len(ch) - 1
		}
		return ch[i]
	}
	samples := [4]float32{get(idx - 1), get(idx), get(idx + 1), get(idx + 2)}
	return v.interp.Interpolate(samples[:], frac)
}

// UpdateAmpAdsrParameters refreshes this voice's cached amplitude envelope
// coefficients after the shared AdsrParameters changed (spec.md §4.6).
func (v *Voice) UpdateAmpAdsrParameters() {
	v.ampEnv.refresh()
}

// UpdateFilterAdsrParameters refreshes this voice's cached filter envelope
// coefficients after the shared AdsrParameters changed (spec.md §4.6).
func (v *Voice) UpdateFilterAdsrParameters() {
	v.filterEnv.refresh()
}

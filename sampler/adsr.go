package sampler

// AdsrParameters holds the four ADSR scalars shared by every voice's amp or
// filter envelope. Voices hold a read-only reference and only re-derive
// their cached coefficients when explicitly refreshed (spec.md §4.6, §9 —
// "raw pointers into per-voice envelope parameter singletons" become a
// shared value the engine owns and voices borrow).
type AdsrParameters struct {
	Attack  float32 // seconds
	Decay   float32 // seconds
	Sustain float32 // level, 0..1
	Release float32 // seconds

	rateInBlocks float32 // envelope steps per second (audioSampleRate / CHUNKSIZE)
}

// NewAdsrParameters returns a short, audible default envelope.
func NewAdsrParameters() *AdsrParameters {
	return &AdsrParameters{
		Attack:  0.005,
		Decay:   0.1,
		Sustain: 0.8,
		Release: 0.2,
	}
}

// UpdateSampleRate sets the rate (in blocks/second) at which envelopes
// attached to this parameter set are stepped.
func (p *AdsrParameters) UpdateSampleRate(rateInBlocks float32) {
	if rateInBlocks <= 0 {
		rateInBlocks = 1
	}
	p.rateInBlocks = rateInBlocks
}

type envelopeStage int

const (
	stageIdle envelopeStage = iota
	stageAttack
	stageDecay
	stageSustain
	stageRelease
)

// envelope is one voice's instance of an AdsrParameters curve. Block-rate
// stepping: advance() is called once per render block (spec.md §4.6), and
// the returned level is held constant across the block's samples by the
// caller (prepToGetSamples / getSamples split in voice.go).
type envelope struct {
	params *AdsrParameters
	stage  envelopeStage
	level  float32

	attackStep   float32
	decayCoeff   float32
	releaseCoeff float32
}

func newEnvelope(params *AdsrParameters) *envelope {
	e := &envelope{params: params}
	e.refresh()
	return e
}

// refresh recomputes cached per-block coefficients from the shared
// AdsrParameters. Called on every ADSR setter (spec.md §4.6) for all 64
// voices, and once at trigger time.
func (e *envelope) refresh() {
	rate := e.params.rateInBlocks
	if rate <= 0 {
		rate = 1
	}
	attackBlocks := maxf(e.params.Attack*rate, 1)
	e.attackStep = 1.0 / attackBlocks

	decayBlocks := maxf(e.params.Decay*rate, 1)
	e.decayCoeff = pow2Approx(-1.0 / decayBlocks)

	releaseBlocks := maxf(e.params.Release*rate, 1)
	e.releaseCoeff = pow2Approx(-1.0 / releaseBlocks)
}

func (e *envelope) trigger() {
	e.refresh()
	e.stage = stageAttack
	e.level = 0
}

// retrigger restarts the envelope from its current level rather than from
// zero, used by RestartSameNote so a re-struck note doesn't click.
func (e *envelope) retrigger() {
	e.stage = stageAttack
}

func (e *envelope) release() {
	if e.stage == stageIdle {
		return
	}
	e.stage = stageRelease
}

func (e *envelope) stopImmediate() {
	e.stage = stageIdle
	e.level = 0
}

func (e *envelope) isIdle() bool {
	return e.stage == stageIdle
}

// advance steps the envelope by one block and returns the held level for
// that block.
func (e *envelope) advance() float32 {
	switch e.stage {
	case stageIdle:
		e.level = 0
	case stageAttack:
		e.level += e.attackStep
		if e.level >= 1.0 {
			e.level = 1.0
			e.stage = stageDecay
		}
	case stageDecay:
		e.level = e.params.Sustain + (e.level-e.params.Sustain)*e.decayCoeff
		if absf(e.level-e.params.Sustain) < 1e-4 {
			e.level = e.params.Sustain
			e.stage = stageSustain
		}
	case stageSustain:
		e.level = e.params.Sustain
	case stageRelease:
		e.level *= e.releaseCoeff
		if e.level < 1e-4 {
			e.level = 0
			e.stage = stageIdle
		}
	}
	return e.level
}

package sampler

import "math"

// lfoTableSize is the resolution of the shared vibrato wavetable.
const lfoTableSize = 4096

var sineTable [lfoTableSize]float32

func init() {
	for i := range sineTable {
		sineTable[i] = float32(math.Sin(2 * math.Pi * float64(i) / float64(lfoTableSize)))
	}
}

// LFO is the single low-frequency oscillator shared by every voice for
// vibrato (spec.md §4.4 — "one LFO tick per block, shared by all voices").
// It advances once per render block, never per sample.
type LFO struct {
	phase          float32
	phaseIncrement float32
}

// NewLFO creates an LFO ticking rateInBlocks times per second at frequencyHz.
func NewLFO(rateInBlocks, frequencyHz float32) *LFO {
	l := &LFO{}
	l.Init(rateInBlocks, frequencyHz)
	return l
}

// Init (re)configures the LFO's tick rate and oscillation frequency.
func (l *LFO) Init(rateInBlocks, frequencyHz float32) {
	if rateInBlocks <= 0 {
		rateInBlocks = 1
	}
	l.phaseIncrement = frequencyHz / rateInBlocks
}

// GetSample advances the LFO by exactly one tick (one render block) and
// returns the new sinusoid value in [-1, 1].
func (l *LFO) GetSample() float32 {
	l.phase += l.phaseIncrement
	for l.phase >= 1.0 {
		l.phase -= 1.0
	}
	for l.phase < 0 {
		l.phase += 1.0
	}
	idx := int(l.phase * lfoTableSize)
	if idx >= lfoTableSize {
		idx = lfoTableSize - 1
	}
	return sineTable[idx]
}

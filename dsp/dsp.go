// Package dsp provides small, allocation-free signal-processing building
// blocks shared by the sampler's voice and filter code.
package dsp

import "math"

// Biquad implements a second-order IIR filter (no heap allocations in Process).
type Biquad struct {
	// Coefficients
	b0, b1, b2 float32
	a1, a2     float32

	// State (previous samples)
	x1, x2 float32 // input history
	y1, y2 float32 // output history
}

// NewBiquad creates a new biquad filter with the given coefficients.
func NewBiquad(b0, b1, b2, a1, a2 float32) *Biquad {
	return &Biquad{
		b0: b0,
		b1: b1,
		b2: b2,
		a1: a1,
		a2: a2,
	}
}

// Process processes one sample through the biquad filter.
func (b *Biquad) Process(input float32) float32 {
	// Direct Form I implementation
	output := b.b0*input + b.b1*b.x1 + b.b2*b.x2 - b.a1*b.y1 - b.a2*b.y2

	// Update state
	b.x2 = b.x1
	b.x1 = input
	b.y2 = b.y1
	b.y1 = output

	return FlushDenormals(output)
}

// Reset clears the filter state.
func (b *Biquad) Reset() {
	b.x1, b.x2 = 0, 0
	b.y1, b.y2 = 0, 0
}

// SetLowpass reconfigures the filter in place as a lowpass with the given
// cutoff (Hz), sample rate (Hz) and resonance q. Reused every block by the
// voice filter envelope, so it must not allocate.
func (b *Biquad) SetLowpass(cutoff, sampleRate, q float32) {
	if cutoff < 10 {
		cutoff = 10
	}
	nyquist := sampleRate * 0.5
	if cutoff > nyquist*0.99 {
		cutoff = nyquist * 0.99
	}
	if q < 0.1 {
		q = 0.1
	}

	w0 := 2.0 * math.Pi * float64(cutoff) / float64(sampleRate)
	alpha := math.Sin(w0) / (2.0 * float64(q))
	cosw0 := math.Cos(w0)

	b0 := (1.0 - cosw0) / 2.0
	b1 := 1.0 - cosw0
	b2 := (1.0 - cosw0) / 2.0
	a0 := 1.0 + alpha
	a1 := -2.0 * cosw0
	a2 := 1.0 - alpha

	b.b0 = float32(b0 / a0)
	b.b1 = float32(b1 / a0)
	b.b2 = float32(b2 / a0)
	b.a1 = float32(a1 / a0)
	b.a2 = float32(a2 / a0)
}

// NewLowpass creates a simple lowpass biquad filter.
func NewLowpass(cutoff, sampleRate, q float32) *Biquad {
	b := NewBiquad(0, 0, 0, 0, 0)
	b.SetLowpass(cutoff, sampleRate, q)
	return b
}

// LagrangeInterpolator provides higher-order fractional-position interpolation
// for reading a PCM buffer at a non-integer frame index.
type LagrangeInterpolator struct {
	order int
}

// NewLagrangeInterpolator creates a new Lagrange interpolator.
// order: 1 = linear, 3 = cubic.
func NewLagrangeInterpolator(order int) *LagrangeInterpolator {
	return &LagrangeInterpolator{order: order}
}

// Interpolate performs Lagrange interpolation.
// samples: 2 (linear) or 4 (cubic) points bracketing the interpolation point.
// frac: fractional position (0.0 to 1.0) between samples[0] (or samples[1]
// for cubic) and the next sample.
func (l *LagrangeInterpolator) Interpolate(samples []float32, frac float32) float32 {
	if l.order == 3 && len(samples) >= 4 {
		// Cubic (3rd order) Lagrange interpolation.
		// Requires 4 points: samples[0..3]. Interpolating between samples[1] and samples[2].
		d := frac
		c0 := samples[1]
		c1 := samples[2] - samples[0]/3.0 - samples[1]/2.0 - samples[3]/6.0
		c2 := samples[0]/2.0 - samples[1] + samples[2]/2.0
		c3 := samples[1]/2.0 - samples[2]/2.0 + (samples[3]-samples[0])/6.0

		return c0 + d*(c1+d*(c2+d*c3))
	}

	// Linear interpolation fallback.
	return samples[0] + frac*(samples[1]-samples[0])
}

// FlushDenormals converts denormal numbers to zero to avoid performance issues
// on the audio thread.
func FlushDenormals(x float32) float32 {
	const epsilon = 1e-30
	if x > -epsilon && x < epsilon {
		return 0.0
	}
	return x
}

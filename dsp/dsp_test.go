package dsp

import (
	"math"
	"testing"
)

func TestBiquadLowpassAttenuatesHighFrequency(t *testing.T) {
	b := NewLowpass(200, 44100, 0.707)
	// Settle the filter, then compare input vs output RMS for a tone well
	// above the cutoff.
	var outRMS, inRMS float64
	for i := 0; i < 4410; i++ {
		in := float32(math.Sin(2 * math.Pi * 5000 * float64(i) / 44100))
		out := b.Process(in)
		inRMS += float64(in) * float64(in)
		outRMS += float64(out) * float64(out)
	}
	if outRMS >= inRMS {
		t.Errorf("expected lowpass to attenuate a 5kHz tone: in=%f out=%f", inRMS, outRMS)
	}
}

func TestLagrangeInterpolatorLinearMatchesEndpoints(t *testing.T) {
	interp := NewLagrangeInterpolator(1)
	samples := []float32{1, 3}
	if got := interp.Interpolate(samples, 0); got != 1 {
		t.Errorf("frac=0 should return samples[0], got %f", got)
	}
	if got := interp.Interpolate(samples, 1); got != 3 {
		t.Errorf("frac=1 should return samples[1], got %f", got)
	}
	if got := interp.Interpolate(samples, 0.5); got != 2 {
		t.Errorf("frac=0.5 should return the midpoint, got %f", got)
	}
}

func TestLagrangeInterpolatorCubicMatchesEndpoints(t *testing.T) {
	interp := NewLagrangeInterpolator(3)
	samples := []float32{0, 1, 3, 4}
	if got := interp.Interpolate(samples, 0); got != 1 {
		t.Errorf("frac=0 should return samples[1], got %f", got)
	}
	if got := interp.Interpolate(samples, 1); got != 3 {
		t.Errorf("frac=1 should return samples[2], got %f", got)
	}
}

func TestFlushDenormalsZeroesTinyValues(t *testing.T) {
	if got := FlushDenormals(1e-35); got != 0 {
		t.Errorf("expected denormal flushed to 0, got %v", got)
	}
	if got := FlushDenormals(0.5); got != 0.5 {
		t.Errorf("expected normal value untouched, got %v", got)
	}
}

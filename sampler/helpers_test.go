package sampler

import (
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"
)

// newSineBuffer builds a SampleBuffer directly from a synthesized sine wave,
// bypassing NewSampleBuffer's decode/resample path so tests can construct
// exact, known-frequency fixtures.
func newSineBuffer(freqHz float32, seconds float32, sampleRate int, rootNote int, loop bool) *SampleBuffer {
	n := int(seconds * float32(sampleRate))
	data := make([]float32, n)
	for i := 0; i < n; i++ {
		data[i] = float32(math.Sin(2 * math.Pi * float64(freqHz) * float64(i) / float64(sampleRate)))
	}
	b := &SampleBuffer{
		MinNote: 0, MaxNote: NumNotes - 1,
		MinVel: -1, MaxVel: -1,
		RootNote: rootNote,
		StartPoint: 0,
		EndPoint:   n,
		IsLooping:  loop,
		Channels:   1,
		Data:       [][]float32{data},
	}
	if loop {
		b.LoopStart = n / 4
		b.LoopEnd = n - n/4
	}
	return b
}

func newTestSampler(sampleRate int, buffers ...*SampleBuffer) *Sampler {
	s := NewSampler(sampleRate)
	s.buffers = append(s.buffers, buffers...)
	s.BuildSimpleKeyMap()
	return s
}

// startRenderThread calls s.Render in a loop on its own goroutine, standing
// in for the host's audio thread so that StopAllVoices (which waits for
// Render to observe the stop-all barrier) can return. The returned stop
// function ends the loop and waits for the goroutine to exit.
func startRenderThread(s *Sampler) (stop func()) {
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		left := make([]float32, ChunkSize)
		right := make([]float32, ChunkSize)
		for {
			select {
			case <-done:
				return
			default:
				s.Render(ChunkSize, left, right)
			}
		}
	}()
	return func() {
		close(done)
		<-finished
	}
}

func dftBinMagnitude(samples []float32, bin int) float64 {
	n := len(samples)
	var re, im float64
	for i := 0; i < n; i++ {
		phase := -2.0 * math.Pi * float64(bin*i) / float64(n)
		x := float64(samples[i])
		re += x * math.Cos(phase)
		im += x * math.Sin(phase)
	}
	return math.Hypot(re, im)
}

func windowRMS(samples []float32) float64 {
	var sum float64
	for _, s := range samples {
		v := float64(s)
		sum += v * v
	}
	if len(samples) == 0 {
		return 0
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// estimateFrequencyByAutocorrelation finds the dominant periodicity in
// samples via autocorrelation, computed as a real convolution of the
// signal with its own time-reverse (algofft.ConvolveReal).
func estimateFrequencyByAutocorrelation(samples []float32, sampleRate int) (float64, error) {
	n := len(samples)
	if n < 4 {
		return 0, fmt.Errorf("not enough samples")
	}
	reversed := make([]float32, n)
	for i, v := range samples {
		reversed[n-1-i] = v
	}
	dst := make([]float32, 2*n-1)
	if err := algofft.ConvolveReal(dst, samples, reversed); err != nil {
		return 0, err
	}

	center := n - 1
	minLag := sampleRate / 2000
	if minLag < 1 {
		minLag = 1
	}
	maxLag := sampleRate / 20
	if center+maxLag >= len(dst) {
		maxLag = len(dst) - center - 1
	}

	bestLag := minLag
	bestVal := float32(-1)
	for lag := minLag; lag <= maxLag; lag++ {
		v := dst[center+lag]
		if v > bestVal {
			bestVal = v
			bestLag = lag
		}
	}
	if bestLag == 0 {
		return 0, fmt.Errorf("no periodicity found")
	}
	return float64(sampleRate) / float64(bestLag), nil
}

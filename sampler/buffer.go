package sampler

import (
	"fmt"

	dspresample "github.com/cwbudde/algo-dsp/dsp/resample"
)

// SampleDescriptor is what loadSampleData consumes: a raw PCM payload plus
// the mapping metadata that will key it into the KeyMap. Descriptors carry
// no file path or decoder state — that lives in the loader package, outside
// the core (spec.md §1 excludes audio file decoding from the core).
type SampleDescriptor struct {
	SourceSampleRate int
	ChannelCount     int // 1 or 2
	Interleaved      bool
	FrameCount       int
	PCM              []float32

	MinNote, MaxNote int // inclusive key range
	MinVel, MaxVel   int // inclusive velocity range; negative on either bound means unconstrained

	RootNote      int
	RootFrequency float32

	StartPoint, EndPoint         int
	LoopStartPoint, LoopEndPoint float32 // <=1.0 = fraction of EndPoint, >1.0 = absolute frame index
	IsLooping                    bool
}

// SampleBuffer is an opaque PCM asset plus its mapping metadata. Once
// published into a KeyMap it is immutable for the lifetime of that keymap
// generation (spec.md §3) — nothing after construction mutates it.
type SampleBuffer struct {
	MinNote, MaxNote int
	MinVel, MaxVel   int

	RootNote      int
	RootFrequency float32

	StartPoint, EndPoint int
	LoopStart, LoopEnd   int
	IsLooping            bool

	Channels int
	// Data holds one slice per channel, each of length EndPoint (or more);
	// deinterleaved so voice playback never strides.
	Data [][]float32
}

// NewSampleBuffer builds an immutable SampleBuffer from a descriptor,
// deinterleaving and resampling the PCM payload to engineSampleRate if the
// descriptor's source rate differs.
func NewSampleBuffer(desc SampleDescriptor, engineSampleRate int) (*SampleBuffer, error) {
	if desc.ChannelCount != 1 && desc.ChannelCount != 2 {
		return nil, fmt.Errorf("sampler: unsupported channel count %d", desc.ChannelCount)
	}
	if desc.FrameCount <= 0 {
		return nil, fmt.Errorf("sampler: empty sample descriptor")
	}

	channels := deinterleave(desc.PCM, desc.ChannelCount, desc.FrameCount, desc.Interleaved)

	if desc.SourceSampleRate > 0 && engineSampleRate > 0 && desc.SourceSampleRate != engineSampleRate {
		resampled, err := resampleChannels(channels, desc.SourceSampleRate, engineSampleRate)
		if err != nil {
			return nil, fmt.Errorf("sampler: resampling sample data: %w", err)
		}
		channels = resampled
	}

	endPoint := desc.EndPoint
	if endPoint <= 0 || endPoint > len(channels[0]) {
		endPoint = len(channels[0])
	}

	b := &SampleBuffer{
		MinNote:       desc.MinNote,
		MaxNote:       desc.MaxNote,
		MinVel:        desc.MinVel,
		MaxVel:        desc.MaxVel,
		RootNote:      desc.RootNote,
		RootFrequency: desc.RootFrequency,
		StartPoint:    desc.StartPoint,
		EndPoint:      endPoint,
		IsLooping:     desc.IsLooping,
		Channels:      desc.ChannelCount,
		Data:          channels,
	}
	b.LoopStart, b.LoopEnd = resolveLoopPoints(desc.LoopStartPoint, desc.LoopEndPoint, endPoint)
	return b, nil
}

// resolveLoopPoints applies spec.md §3's rule: a loop point value <=1.0 is a
// fraction of endPoint, a value >1.0 is an absolute frame index.
func resolveLoopPoints(loopStart, loopEnd float32, endPoint int) (start int, end int) {
	resolve := func(v float32) int {
		if v <= 1.0 {
			return int(v * float32(endPoint))
		}
		return int(v)
	}
	return resolve(loopStart), resolve(loopEnd)
}

// VelocityMatches reports whether v falls within this buffer's velocity
// range, honoring the negative-sentinel "unconstrained" rule (spec.md §3).
func (b *SampleBuffer) VelocityMatches(v int) bool {
	if b.MinVel < 0 || b.MaxVel < 0 {
		return true
	}
	return v >= b.MinVel && v <= b.MaxVel
}

func deinterleave(pcm []float32, channelCount, frameCount int, interleaved bool) [][]float32 {
	out := make([][]float32, channelCount)
	for c := range out {
		out[c] = make([]float32, frameCount)
	}
	if !interleaved || channelCount == 1 {
		for c := 0; c < channelCount; c++ {
			start := c * frameCount
			n := frameCount
			if start+n > len(pcm) {
				n = len(pcm) - start
			}
			if n > 0 {
				copy(out[c], pcm[start:start+n])
			}
		}
		return out
	}
	for i := 0; i < frameCount; i++ {
		for c := 0; c < channelCount; c++ {
			idx := i*channelCount + c
			if idx < len(pcm) {
				out[c][i] = pcm[idx]
			}
		}
	}
	return out
}

func resampleChannels(channels [][]float32, srcRate, dstRate int) ([][]float32, error) {
	out := make([][]float32, len(channels))
	for c, ch := range channels {
		r, err := dspresample.NewForRates(
			float64(srcRate),
			float64(dstRate),
			dspresample.WithQuality(dspresample.QualityBest),
		)
		if err != nil {
			return nil, err
		}
		in64 := make([]float64, len(ch))
		for i, v := range ch {
			in64[i] = float64(v)
		}
		out64 := r.Process(in64)
		res := make([]float32, len(out64))
		for i, v := range out64 {
			res[i] = float32(v)
		}
		out[c] = res
	}
	return out, nil
}

// Package loader turns WAV files on disk into sampler.SampleDescriptor
// values. It is the only place in this module that decodes audio files —
// the sampler core never touches the filesystem or a decoder (spec.md §1).
package loader

import (
	"fmt"
	"os"

	"github.com/cwbudde/wav"

	"github.com/cwbudde/samplecore/sampler"
)

// SampleMeta is the mapping metadata a caller supplies alongside a WAV
// file; everything else in the resulting SampleDescriptor is read from the
// file itself.
type SampleMeta struct {
	MinNote, MaxNote int
	MinVel, MaxVel   int
	RootNote         int
	RootFrequency    float32

	StartPoint                   int
	LoopStartPoint, LoopEndPoint float32
	IsLooping                    bool
}

// FromWAV decodes a WAV file into a sampler.SampleDescriptor, deferring
// resampling and deinterleaving to sampler.NewSampleBuffer (SPEC_FULL.md §C).
func FromWAV(path string, meta SampleMeta) (sampler.SampleDescriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return sampler.SampleDescriptor{}, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return sampler.SampleDescriptor{}, fmt.Errorf("loader: invalid wav file: %s", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return sampler.SampleDescriptor{}, fmt.Errorf("loader: decoding %s: %w", path, err)
	}
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return sampler.SampleDescriptor{}, fmt.Errorf("loader: invalid wav buffer: %s", path)
	}

	channels := buf.Format.NumChannels
	frames := len(buf.Data) / channels

	pcm := make([]float32, len(buf.Data))
	copy(pcm, buf.Data)

	desc := sampler.SampleDescriptor{
		SourceSampleRate: buf.Format.SampleRate,
		ChannelCount:     channels,
		Interleaved:      true,
		FrameCount:       frames,
		PCM:              pcm,

		MinNote: meta.MinNote,
		MaxNote: meta.MaxNote,
		MinVel:  meta.MinVel,
		MaxVel:  meta.MaxVel,

		RootNote:      meta.RootNote,
		RootFrequency: meta.RootFrequency,

		StartPoint:     meta.StartPoint,
		LoopStartPoint: meta.LoopStartPoint,
		LoopEndPoint:   meta.LoopEndPoint,
		IsLooping:      meta.IsLooping,
	}
	return desc, nil
}

// Command sampler-render loads an optional preset and one WAV sample, plays
// a single note, and writes the rendered audio to a WAV file. It mirrors
// the render-to-file shape of this codebase's other cmd/ tools.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/wav"
	"github.com/go-audio/audio"

	"github.com/cwbudde/samplecore/loader"
	"github.com/cwbudde/samplecore/preset"
	"github.com/cwbudde/samplecore/sampler"
)

func main() {
	note := flag.Int("note", 69, "MIDI note number (69 = A4 = 440 Hz)")
	velocity := flag.Int("velocity", 100, "MIDI velocity (0-127)")
	duration := flag.Float64("duration", 2.0, "Duration in seconds")
	releaseAfter := flag.Float64("release-after", 1.0, "Send note-off after this many seconds")
	sampleRate := flag.Int("sample-rate", 44100, "Render sample rate in Hz")
	samplePath := flag.String("sample", "", "WAV file to load as the instrument's only sample (required)")
	rootNote := flag.Int("root-note", 60, "MIDI note the sample's natural pitch corresponds to")
	presetPath := flag.String("preset", "", "Optional preset JSON file path")
	output := flag.String("output", "output.wav", "Output WAV file path")
	flag.Parse()

	if *samplePath == "" {
		fmt.Fprintln(os.Stderr, "Error: -sample is required")
		os.Exit(1)
	}

	s := sampler.NewSampler(*sampleRate)

	desc, err := loader.FromWAV(*samplePath, loader.SampleMeta{
		MinNote: 0, MaxNote: sampler.NumNotes - 1,
		MinVel: -1, MaxVel: -1,
		RootNote: *rootNote,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading sample %q: %v\n", *samplePath, err)
		os.Exit(1)
	}
	if err := s.LoadSampleData(desc); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	s.BuildSimpleKeyMap()

	if *presetPath != "" {
		if err := preset.LoadJSON(*presetPath, s); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading preset %q: %v\n", *presetPath, err)
			os.Exit(1)
		}
	}

	fmt.Printf("Rendering note %d, velocity %d, for %.2f seconds at %d Hz (sample: %s)...\n",
		*note, *velocity, *duration, *sampleRate, *samplePath)

	s.PlayNote(*note, *velocity)

	totalFrames := int(float64(*sampleRate) * (*duration))
	releaseAtFrame := int(float64(*sampleRate) * (*releaseAfter))

	left := make([]float32, sampler.ChunkSize)
	right := make([]float32, sampler.ChunkSize)
	interleaved := make([]float32, 0, totalFrames*2)

	released := false
	for framesRendered := 0; framesRendered < totalFrames; framesRendered += sampler.ChunkSize {
		if !released && framesRendered >= releaseAtFrame {
			s.StopNote(*note, false)
			released = true
		}

		s.Render(sampler.ChunkSize, left, right)

		n := sampler.ChunkSize
		if framesRendered+n > totalFrames {
			n = totalFrames - framesRendered
		}
		for i := 0; i < n; i++ {
			interleaved = append(interleaved, left[i], right[i])
		}
	}

	file, err := os.Create(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	encoder := wav.NewEncoder(file, *sampleRate, 16, 2, 1)
	defer encoder.Close()

	buf := &audio.Float32Buffer{
		Format: &audio.Format{
			SampleRate:  *sampleRate,
			NumChannels: 2,
		},
		Data:           interleaved,
		SourceBitDepth: 16,
	}
	if err := encoder.Write(buf); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing WAV file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully wrote %s (%d frames)\n", *output, totalFrames)
}

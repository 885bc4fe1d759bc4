// Package preset loads sampler configuration from JSON files onto a
// sampler.Params, mirroring the partial-override "pointer field means set"
// convention used throughout this codebase's config layer.
package preset

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/cwbudde/samplecore/sampler"
)

// File is the JSON schema for a sampler preset.
type File struct {
	MasterVolume *float32 `json:"master_volume"`
	PitchOffset  *float32 `json:"pitch_offset_cents"`
	VibratoDepth *float32 `json:"vibrato_depth_cents"`

	IsMonophonic   *bool    `json:"monophonic"`
	IsLegato       *bool    `json:"legato"`
	GlideRate      *float32 `json:"glide_rate"`
	PortamentoRate *float32 `json:"portamento_rate"`

	IsFilterEnabled               *bool    `json:"filter_enabled"`
	CutoffMultiple                *float32 `json:"cutoff_multiple"`
	KeyTracking                   *float32 `json:"key_tracking"`
	CutoffEnvelopeStrength        *float32 `json:"cutoff_envelope_strength"`
	FilterEnvelopeVelocityScaling *float32 `json:"filter_envelope_velocity_scaling"`
	LinearResonance               *float32 `json:"linear_resonance"`

	LoopThruRelease *bool `json:"loop_thru_release"`

	AmpEnvelope    *EnvelopeSetting `json:"amp_envelope"`
	FilterEnvelope *EnvelopeSetting `json:"filter_envelope"`

	TuningOverrides map[string]float32 `json:"tuning_overrides"`
}

// EnvelopeSetting is a partial ADSR override.
type EnvelopeSetting struct {
	Attack  *float32 `json:"attack"`
	Decay   *float32 `json:"decay"`
	Sustain *float32 `json:"sustain"`
	Release *float32 `json:"release"`
}

// LoadJSON reads a preset file and applies it onto s.
func LoadJSON(path string, s *sampler.Sampler) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	return ApplyFile(s, &f)
}

// ApplyFile applies a parsed preset file onto a live Sampler.
func ApplyFile(s *sampler.Sampler, f *File) error {
	if s == nil {
		return fmt.Errorf("preset: nil sampler")
	}
	if f == nil {
		return nil
	}

	p := s.Params()
	if f.MasterVolume != nil {
		if *f.MasterVolume < 0 {
			return fmt.Errorf("preset: master_volume must be >= 0")
		}
		p.MasterVolume = *f.MasterVolume
	}
	if f.PitchOffset != nil {
		p.PitchOffset = *f.PitchOffset
	}
	if f.VibratoDepth != nil {
		p.VibratoDepth = *f.VibratoDepth
	}
	if f.IsMonophonic != nil {
		p.IsMonophonic = *f.IsMonophonic
	}
	if f.IsLegato != nil {
		p.IsLegato = *f.IsLegato
	}
	if f.GlideRate != nil {
		if *f.GlideRate < 0 {
			return fmt.Errorf("preset: glide_rate must be >= 0")
		}
		p.GlideRate = *f.GlideRate
	}
	if f.PortamentoRate != nil {
		if *f.PortamentoRate < 0 {
			return fmt.Errorf("preset: portamento_rate must be >= 0")
		}
		p.PortamentoRate = *f.PortamentoRate
	}
	if f.IsFilterEnabled != nil {
		p.IsFilterEnabled = *f.IsFilterEnabled
	}
	if f.CutoffMultiple != nil {
		if *f.CutoffMultiple <= 0 {
			return fmt.Errorf("preset: cutoff_multiple must be > 0")
		}
		p.CutoffMultiple = *f.CutoffMultiple
	}
	if f.KeyTracking != nil {
		p.KeyTracking = *f.KeyTracking
	}
	if f.CutoffEnvelopeStrength != nil {
		p.CutoffEnvelopeStrength = *f.CutoffEnvelopeStrength
	}
	if f.FilterEnvelopeVelocityScaling != nil {
		p.FilterEnvelopeVelocityScaling = *f.FilterEnvelopeVelocityScaling
	}
	if f.LinearResonance != nil {
		if *f.LinearResonance < 0 {
			return fmt.Errorf("preset: linear_resonance must be >= 0")
		}
		p.LinearResonance = *f.LinearResonance
	}
	if f.LoopThruRelease != nil {
		p.LoopThruRelease = *f.LoopThruRelease
	}

	if f.AmpEnvelope != nil {
		e := s.AmpEnvelope()
		applyEnvelope(&e, f.AmpEnvelope)
		s.SetAmpEnvelope(e.Attack, e.Decay, e.Sustain, e.Release)
	}
	if f.FilterEnvelope != nil {
		e := s.FilterEnvelope()
		applyEnvelope(&e, f.FilterEnvelope)
		s.SetFilterEnvelope(e.Attack, e.Decay, e.Sustain, e.Release)
	}

	return applyTuningOverrides(s, f.TuningOverrides)
}

func applyEnvelope(dst *sampler.AdsrParameters, e *EnvelopeSetting) {
	if e.Attack != nil {
		dst.Attack = *e.Attack
	}
	if e.Decay != nil {
		dst.Decay = *e.Decay
	}
	if e.Sustain != nil {
		dst.Sustain = *e.Sustain
	}
	if e.Release != nil {
		dst.Release = *e.Release
	}
}

func applyTuningOverrides(s *sampler.Sampler, overrides map[string]float32) error {
	if len(overrides) == 0 {
		return nil
	}
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		note, err := strconv.Atoi(k)
		if err != nil || note < 0 || note >= sampler.NumNotes {
			return fmt.Errorf("preset: invalid tuning_overrides key %q (expected 0..127)", k)
		}
		freq := overrides[k]
		if freq <= 0 {
			return fmt.Errorf("preset: tuning_overrides[%d] must be > 0", note)
		}
		s.SetNoteFrequency(note, freq)
	}
	return nil
}

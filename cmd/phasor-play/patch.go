package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/phasoraudio/phasor"
)

// patchSpec is the on-disk patch format of the command line tools. It is
// deliberately a host-side concern: the engine itself has no persistence.
type patchSpec struct {
	Root     nodeSpec     `yaml:"root"`
	Samples  []sampleSpec `yaml:"samples,omitempty"`
	Play     playSpec     `yaml:"play,omitempty"`
	Duration float64      `yaml:"duration"`
	Release  float64      `yaml:"release,omitempty"`
}

type playSpec struct {
	Frequency float64 `yaml:"frequency,omitempty"`
	Volume    float64 `yaml:"volume,omitempty"`
}

// nodeSpec is one node of the synthesis tree: exactly one of the fields
// should be set.
type nodeSpec struct {
	Sum      []nodeSpec    `yaml:"sum,omitempty"`
	Modulate []nodeSpec    `yaml:"modulate,omitempty"`
	Operator *operatorSpec `yaml:"operator,omitempty"`
}

type operatorSpec struct {
	Waveform  waveformSpec  `yaml:"waveform"`
	Envelope  envelopeSpec  `yaml:"envelope"`
	Modifiers *modifierSpec `yaml:"modifiers,omitempty"`
}

type waveformSpec struct {
	Kind   string        `yaml:"kind"`
	Duty   float64       `yaml:"duty,omitempty"`
	Offset float64       `yaml:"offset,omitempty"`
	Sample uint64        `yaml:"sample,omitempty"`
	Active float64       `yaml:"active,omitempty"`
	Base   *waveformSpec `yaml:"base,omitempty"`
}

type envelopeSpec struct {
	Attack  float64 `yaml:"attack,omitempty"`
	Halving float64 `yaml:"halving,omitempty"` // half-life in seconds; 0 means no decay
	Release float64 `yaml:"release,omitempty"`
}

type modifierSpec struct {
	Frequency float64 `yaml:"frequency,omitempty"`
	Volume    float64 `yaml:"volume,omitempty"`
	Phase     float64 `yaml:"phase,omitempty"`
}

type sampleSpec struct {
	ID               uint64  `yaml:"id"`
	File             string  `yaml:"file"`
	Format           string  `yaml:"format"`
	SampleRate       float64 `yaml:"samplerate"`
	SamplesPerPeriod float64 `yaml:"samplesperperiod"`
	LoopPoint        float64 `yaml:"looppoint,omitempty"`
	LoopDuration     float64 `yaml:"loopduration,omitempty"`
}

// build constructs the synth tree and sample bank of the patch. Sample file
// paths are resolved relative to dir.
func (p *patchSpec) build(dir string) (phasor.Synth, *phasor.SampleBank, error) {
	bank := phasor.NewSampleBank()
	for _, s := range p.Samples {
		format, err := parseFormat(s.Format)
		if err != nil {
			return nil, nil, err
		}
		file := s.File
		if !filepath.IsAbs(file) {
			file = filepath.Join(dir, file)
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, nil, fmt.Errorf("could not read sample file %v: %v", file, err)
		}
		decoded, err := format.Decode(data)
		if err != nil {
			return nil, nil, fmt.Errorf("could not decode sample %v: %v", s.ID, err)
		}
		bank.Add(phasor.SampleID(s.ID), phasor.NewSample(decoded, s.SampleRate, s.SamplesPerPeriod, s.LoopPoint, s.LoopDuration))
	}
	synth, err := buildNode(&p.Root)
	if err != nil {
		return nil, nil, err
	}
	return synth, bank, nil
}

func buildNode(n *nodeSpec) (phasor.Synth, error) {
	set := 0
	if len(n.Sum) > 0 {
		set++
	}
	if len(n.Modulate) > 0 {
		set++
	}
	if n.Operator != nil {
		set++
	}
	if set != 1 {
		return nil, fmt.Errorf("a node needs exactly one of sum, modulate or operator")
	}
	if n.Operator != nil {
		return buildOperator(n.Operator)
	}
	kind := phasor.Sum
	children := n.Sum
	if len(n.Modulate) > 0 {
		kind = phasor.Modulate
		children = n.Modulate
	}
	built := make([]phasor.Synth, len(children))
	for i := range children {
		var err error
		if built[i], err = buildNode(&children[i]); err != nil {
			return nil, err
		}
	}
	return phasor.NewCombinator(built, kind)
}

func buildOperator(spec *operatorSpec) (*phasor.Operator, error) {
	waveform, err := buildWaveform(&spec.Waveform)
	if err != nil {
		return nil, err
	}
	halving := spec.Envelope.Halving
	if halving == 0 {
		halving = math.Inf(1)
	}
	envelope := phasor.Envelope{
		AttackTime:  phasor.TimeFromSeconds(spec.Envelope.Attack),
		HalvingRate: halving,
		ReleaseTime: phasor.TimeFromSeconds(spec.Envelope.Release),
	}
	modifiers := phasor.DefaultModifiers()
	if m := spec.Modifiers; m != nil {
		if m.Frequency != 0 {
			modifiers.FrequencyMultiplier = m.Frequency
		}
		if m.Volume != 0 {
			modifiers.VolumeMultiplier = m.Volume
		}
		modifiers.ConstantPhaseOffset = m.Phase
	}
	return phasor.NewOperator(waveform, envelope, modifiers)
}

func buildWaveform(spec *waveformSpec) (phasor.Waveform, error) {
	switch spec.Kind {
	case "sine":
		return phasor.SineWave(), nil
	case "pulse":
		return phasor.PulseWave(spec.Duty), nil
	case "triangle":
		return phasor.TriangleWave(), nil
	case "sawtooth":
		return phasor.SawtoothWave(), nil
	case "invertedsawtooth":
		return phasor.InvertedSawtoothWave(), nil
	case "constant":
		return phasor.ConstantWave(spec.Offset), nil
	case "pcm":
		return phasor.PCMWave(phasor.SampleID(spec.Sample)), nil
	case "thin", "cut", "absolute":
		if spec.Base == nil {
			return phasor.Waveform{}, fmt.Errorf("%v waveform needs a base waveform", spec.Kind)
		}
		base, err := buildWaveform(spec.Base)
		if err != nil {
			return phasor.Waveform{}, err
		}
		switch spec.Kind {
		case "thin":
			return phasor.ThinWave(base, spec.Active), nil
		case "cut":
			return phasor.CutWave(base, spec.Active), nil
		default:
			return phasor.AbsoluteWave(base), nil
		}
	}
	return phasor.Waveform{}, fmt.Errorf("unknown waveform kind %q", spec.Kind)
}

func parseFormat(name string) (phasor.SampleFormat, error) {
	switch name {
	case "u8":
		return phasor.FormatU8, nil
	case "i16", "":
		return phasor.FormatI16, nil
	case "i32":
		return phasor.FormatI32, nil
	case "f32":
		return phasor.FormatF32, nil
	case "f64":
		return phasor.FormatF64, nil
	}
	return 0, fmt.Errorf("unknown sample format %q", name)
}

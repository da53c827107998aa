package phasor

import "fmt"

// SampleID keys a PCM sample in a bank.
type SampleID uint64

// SampleSettings describe how a PCM sample plays back. Loop metadata is in
// the period domain: positions before LoopPoint play linearly, positions at
// or past it wrap into [LoopPoint, LoopPoint+LoopDuration).
type SampleSettings struct {
	// SamplesPerPeriod scales period positions into sample indices; it must
	// be positive.
	SamplesPerPeriod float64
	LoopPoint        Time
	LoopDuration     Time
}

// Sample is one decoded PCM entry: normalized float64 amplitudes plus its
// playback settings.
type Sample struct {
	SamplesPerPeriod float64
	LoopPoint        Time
	LoopDuration     Time
	Data             []float64
}

// NewSample builds a sample from already-normalized data, converting
// second-domain loop metadata into the period domain. samplesPerSecond is
// the rate the data was recorded at; samplesPerPeriod controls pitch by
// defining how many data points one waveform period covers.
func NewSample(data []float64, samplesPerSecond, samplesPerPeriod, loopPointSecs, loopDurationSecs float64) *Sample {
	periodsPerSecond := samplesPerSecond / samplesPerPeriod
	return &Sample{
		SamplesPerPeriod: samplesPerPeriod,
		LoopPoint:        TimeFromSeconds(loopPointSecs * periodsPerSecond),
		LoopDuration:     TimeFromSeconds(loopDurationSecs * periodsPerSecond),
		Data:             data,
	}
}

// at reads the sample at an unwrapped period position. The phase offset
// shifts the position in whole periods; a negative offset that reaches
// before the start of the sample is silence. Positions outside the data are
// silence as well, never an error, because this runs on the hot sampling
// path.
func (s *Sample) at(period Time, phaseOffset float64) float64 {
	if phaseOffset < 0 {
		back := TimeFromSeconds(-phaseOffset)
		if period.Less(back) {
			return 0
		}
		period = period.Sub(back)
	} else {
		period = period.Add(TimeFromSeconds(phaseOffset))
	}
	if !period.Less(s.LoopPoint) {
		period = period.Sub(s.LoopPoint).Mod(s.LoopDuration).Add(s.LoopPoint)
	}
	index := period.Mul(s.SamplesPerPeriod).Seconds
	if index >= uint64(len(s.Data)) {
		return 0
	}
	return s.Data[index]
}

func (s *Sample) clone() *Sample {
	c := *s
	c.Data = make([]float64, len(s.Data))
	copy(c.Data, s.Data)
	return &c
}

// SampleBank is a read-mostly store of decoded PCM samples shared by any
// number of synth trees. Populate it fully before sampling against it;
// AddPCM and concurrent sampling on the same bank must not overlap.
type SampleBank struct {
	samples map[SampleID]*Sample
}

func NewSampleBank() *SampleBank {
	return &SampleBank{samples: make(map[SampleID]*Sample)}
}

// AddPCM decodes raw bytes according to format and stores them under id,
// replacing any prior entry with the same id.
func (b *SampleBank) AddPCM(data []byte, format SampleFormat, id SampleID, settings SampleSettings) error {
	if settings.SamplesPerPeriod <= 0 {
		return fmt.Errorf("add pcm: %w: samples per period %v must be positive", ErrInvalidInput, settings.SamplesPerPeriod)
	}
	decoded, err := format.Decode(data)
	if err != nil {
		return fmt.Errorf("add pcm: %w", err)
	}
	b.samples[id] = &Sample{
		SamplesPerPeriod: settings.SamplesPerPeriod,
		LoopPoint:        settings.LoopPoint,
		LoopDuration:     settings.LoopDuration,
		Data:             decoded,
	}
	return nil
}

// Add stores an already-decoded sample under id, replacing any prior entry.
func (b *SampleBank) Add(id SampleID, sample *Sample) {
	b.samples[id] = sample
}

// Clone returns a deep copy; mutating either bank afterwards never affects
// the other.
func (b *SampleBank) Clone() *SampleBank {
	c := NewSampleBank()
	for id, s := range b.samples {
		c.samples[id] = s.clone()
	}
	return c
}

// Len returns the number of samples in the bank.
func (b *SampleBank) Len() int {
	if b == nil {
		return 0
	}
	return len(b.samples)
}

// lookup is nil-safe: sampling against a nil bank silences PCM waveforms.
func (b *SampleBank) lookup(id SampleID) *Sample {
	if b == nil {
		return nil
	}
	return b.samples[id]
}

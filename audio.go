package phasor

type AudioSink interface {
	WriteAudio(buffer []float64) error
	Close() error
}

type AudioContext interface {
	Output() AudioSink
	Close() error
}

// SynthReader streams a synth as an endless little-endian F32 byte stream,
// advancing its own clock by one interval per sample. It is the glue
// between the time-driven engine and reader-based audio outputs.
type SynthReader struct {
	synth    Synth
	bank     *SampleBank
	now      Time
	interval Time
	phase    float64
}

func NewSynthReader(synth Synth, bank *SampleBank, start, interval Time, phaseOffset float64) *SynthReader {
	return &SynthReader{synth: synth, bank: bank, now: start, interval: interval, phase: phaseOffset}
}

// Now returns the time of the next sample the reader will produce.
func (r *SynthReader) Now() Time { return r.now }

func (r *SynthReader) Read(p []byte) (int, error) {
	n := len(p) / 4
	if n == 0 {
		return 0, nil
	}
	if err := Fill(r.synth, r.bank, r.now, r.interval, p, n, FormatF32, r.phase); err != nil {
		return 0, err
	}
	for i := 0; i < n; i++ {
		r.now = r.now.Add(r.interval)
	}
	return n * 4, nil
}

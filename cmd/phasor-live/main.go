// Command phasor-live plays a two-operator voice from a MIDI keyboard. It
// keeps a small pool of voices mixed through a summing combinator and
// assigns incoming notes round-robin, stealing the oldest voice when all of
// them are busy.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"
	"sync"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/phasoraudio/phasor"
	"github.com/phasoraudio/phasor/oto"
	"github.com/phasoraudio/phasor/version"
)

const (
	numVoices = 8
	chunkSize = 512
)

func main() {
	list := flag.Bool("list", false, "List the available MIDI input ports and exit.")
	port := flag.String("port", "", "MIDI input port to listen on; the first available port when empty.")
	wave := flag.String("wave", "sine", "Carrier waveform: sine, pulse, triangle, sawtooth or invertedsawtooth.")
	attack := flag.Float64("attack", 0.01, "Attack time in seconds.")
	halving := flag.Float64("halving", 0, "Decay half-life in seconds; 0 means no decay.")
	release := flag.Float64("release", 0.2, "Release time in seconds.")
	ratio := flag.Float64("ratio", 0, "Modulator frequency as a multiple of the carrier frequency; 0 disables modulation.")
	depth := flag.Float64("depth", 0.5, "Modulator volume.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	driver, err := rtmididrv.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not open MIDI driver: %v\n", err)
		os.Exit(1)
	}
	defer driver.Close()
	if *list {
		ins, err := driver.Ins()
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not list MIDI inputs: %v\n", err)
			os.Exit(1)
		}
		for _, in := range ins {
			fmt.Println(in)
		}
		return
	}
	prototype, err := buildVoice(*wave, *attack, *halving, *release, *ratio, *depth)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not build voice: %v\n", err)
		os.Exit(1)
	}
	pool, err := newVoicePool(prototype)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not build voice pool: %v\n", err)
		os.Exit(1)
	}
	in, err := findInPort(driver, *port)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not find MIDI input: %v\n", err)
		os.Exit(1)
	}
	if err := in.Open(); err != nil {
		fmt.Fprintf(os.Stderr, "could not open MIDI input %v: %v\n", in, err)
		os.Exit(1)
	}
	defer in.Close()
	stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		var channel, key, velocity uint8
		switch {
		case msg.GetNoteOn(&channel, &key, &velocity):
			pool.noteOn(key, velocity)
		case msg.GetNoteOff(&channel, &key, &velocity):
			pool.noteOff(key)
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not listen to MIDI input: %v\n", err)
		os.Exit(1)
	}
	defer stop()
	audioContext, err := oto.NewContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not acquire oto AudioContext: %v\n", err)
		os.Exit(1)
	}
	defer audioContext.Close()
	sink := audioContext.Output()
	defer sink.Close()
	fmt.Printf("listening on %v, ctrl-c to quit\n", in)
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	for {
		select {
		case <-interrupt:
			return
		default:
		}
		if err := sink.WriteAudio(pool.render(chunkSize)); err != nil {
			fmt.Fprintf(os.Stderr, "could not write audio: %v\n", err)
			return
		}
	}
}

func findInPort(driver *rtmididrv.Driver, name string) (drivers.In, error) {
	ins, err := driver.Ins()
	if err != nil {
		return nil, err
	}
	if len(ins) == 0 {
		return nil, fmt.Errorf("no MIDI input ports available")
	}
	if name == "" {
		return ins[0], nil
	}
	for _, in := range ins {
		if strings.HasPrefix(in.String(), name) {
			return in, nil
		}
	}
	return nil, fmt.Errorf("no MIDI input port starting with %q", name)
}

// buildVoice constructs the voice prototype: a carrier operator, optionally
// phase-modulated by a sine modulator running at ratio times its frequency.
func buildVoice(wave string, attack, halving, release, ratio, depth float64) (phasor.Synth, error) {
	var waveform phasor.Waveform
	switch wave {
	case "sine":
		waveform = phasor.SineWave()
	case "pulse":
		waveform = phasor.PulseWave(0.5)
	case "triangle":
		waveform = phasor.TriangleWave()
	case "sawtooth":
		waveform = phasor.SawtoothWave()
	case "invertedsawtooth":
		waveform = phasor.InvertedSawtoothWave()
	default:
		return nil, fmt.Errorf("unknown waveform %q", wave)
	}
	if halving == 0 {
		halving = math.Inf(1)
	}
	envelope := phasor.Envelope{
		AttackTime:  phasor.TimeFromSeconds(attack),
		HalvingRate: halving,
		ReleaseTime: phasor.TimeFromSeconds(release),
	}
	carrier, err := phasor.NewOperator(waveform, envelope, phasor.DefaultModifiers())
	if err != nil {
		return nil, err
	}
	if ratio == 0 {
		return carrier, nil
	}
	modifiers := phasor.DefaultModifiers()
	modifiers.FrequencyMultiplier = ratio
	modifiers.VolumeMultiplier = depth
	modulator, err := phasor.NewOperator(phasor.SineWave(), envelope, modifiers)
	if err != nil {
		return nil, err
	}
	return phasor.NewModulator(modulator, carrier)
}

// voicePool mixes a fixed number of clones of the voice prototype. The mix
// combinator is only used for sampling; notes trigger the clones directly
// so one note never restarts another.
type voicePool struct {
	mu       sync.Mutex
	voices   []phasor.Synth
	notes    []uint8
	active   []bool
	next     int
	mix      phasor.Synth
	now      phasor.Time
	interval phasor.Time
	buffer   []float64
}

func newVoicePool(prototype phasor.Synth) (*voicePool, error) {
	voices := make([]phasor.Synth, numVoices)
	for i := range voices {
		voices[i] = prototype.Clone()
	}
	mix, err := phasor.NewCombinator(voices, phasor.Sum)
	if err != nil {
		return nil, err
	}
	return &voicePool{
		voices:   voices,
		notes:    make([]uint8, numVoices),
		active:   make([]bool, numVoices),
		mix:      mix,
		interval: phasor.PeriodOf(phasor.SampleRate),
		buffer:   make([]float64, chunkSize),
	}, nil
}

func (p *voicePool) noteOn(key, velocity uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.next
	p.next = (p.next + 1) % numVoices
	p.notes[i] = key
	p.active[i] = true
	p.voices[i].Play(noteToFrequency(key), float64(velocity)/127/numVoices)
}

func (p *voicePool) noteOff(key uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.voices {
		if p.active[i] && p.notes[i] == key {
			p.voices[i].Release()
			p.active[i] = false
		}
	}
}

func (p *voicePool) render(n int) []float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if cap(p.buffer) < n {
		p.buffer = make([]float64, n)
	}
	buffer := p.buffer[:n]
	for i := range buffer {
		buffer[i] = p.mix.Sample(nil, p.now, 0)
		p.now = p.now.Add(p.interval)
	}
	return buffer
}

func noteToFrequency(key uint8) float64 {
	return 440 * math.Pow(2, (float64(key)-69)/12)
}

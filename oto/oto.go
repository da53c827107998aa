// Package oto adapts the ebitengine/oto/v3 audio backend to the phasor
// audio interfaces: mono 44100 Hz float32 output, either pushed through an
// AudioSink or streamed straight from an io.Reader.
package oto

import (
	"fmt"
	"io"

	"github.com/ebitengine/oto/v3"
	"github.com/phasoraudio/phasor"
)

type Context struct {
	ctx *oto.Context
}

// NewContext initializes the audio device and blocks until it is ready to
// accept samples.
func NewContext() (*Context, error) {
	op := &oto.NewContextOptions{
		SampleRate:   phasor.SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &Context{ctx: ctx}, nil
}

// Close is a no-op; oto contexts cannot be closed, but the AudioContext
// interface promises one.
func (c *Context) Close() error { return nil }

// Play starts playing samples from r, typically a phasor.SynthReader. The
// returned player keeps reading until closed.
func (c *Context) Play(r io.Reader) *Player {
	p := c.ctx.NewPlayer(r)
	p.Play()
	return &Player{player: p}
}

// Output returns a push-style sink. Audio written to it is encoded to
// float32 and piped to a player; WriteAudio blocks when the device buffer
// is full, which paces the producer to real time.
func (c *Context) Output() phasor.AudioSink {
	pr, pw := io.Pipe()
	player := c.ctx.NewPlayer(pr)
	player.Play()
	return &output{pw: pw, player: player}
}

type output struct {
	pw        *io.PipeWriter
	player    *oto.Player
	tmpBuffer []byte
}

func (o *output) WriteAudio(buffer []float64) error {
	width := phasor.FormatF32.Width()
	if cap(o.tmpBuffer) < len(buffer)*width {
		o.tmpBuffer = make([]byte, len(buffer)*width)
	}
	o.tmpBuffer = o.tmpBuffer[:len(buffer)*width]
	if err := phasor.FormatF32.Encode(buffer, o.tmpBuffer); err != nil {
		return fmt.Errorf("cannot encode buffer: %w", err)
	}
	if _, err := o.pw.Write(o.tmpBuffer); err != nil {
		return fmt.Errorf("cannot write to player: %w", err)
	}
	return nil
}

func (o *output) Close() error {
	if err := o.pw.Close(); err != nil {
		return fmt.Errorf("cannot close pipe: %w", err)
	}
	if err := o.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}

type Player struct {
	player *oto.Player
}

// IsPlaying reports whether the underlying player is still consuming
// samples.
func (p *Player) IsPlaying() bool { return p.player.IsPlaying() }

func (p *Player) Close() error {
	if err := p.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}

package phasor

import "fmt"

// CombinatorKind selects the composition algorithm of a Combinator.
type CombinatorKind int

const (
	// Sum adds the children's outputs, unclamped; clipping policy belongs
	// to the host or the format encoding stage.
	Sum CombinatorKind = iota
	// Modulate chains the children as a phase-modulation cascade: each
	// child's output becomes the next child's phase offset, and the last
	// child's output is the combinator's output.
	Modulate
)

func (k CombinatorKind) String() string {
	switch k {
	case Sum:
		return "sum"
	case Modulate:
		return "modulate"
	}
	return fmt.Sprintf("combinator(%d)", int(k))
}

// Combinator composes two or more child synthesisers. It takes exclusive
// ownership of its children at construction: a child handed to a combinator
// belongs to exactly one tree and must not be reused in another one.
// Triggering a combinator recurses to every descendant in order, so a whole
// multi-operator voice starts and stops coherently with one call.
type Combinator struct {
	kind     CombinatorKind
	children []Synth
}

// NewCombinator builds a combinator over the children. Fewer than two
// children, a nil child or an unknown kind are invalid input.
func NewCombinator(children []Synth, kind CombinatorKind) (*Combinator, error) {
	if kind != Sum && kind != Modulate {
		return nil, fmt.Errorf("combinator: %w: unknown kind %d", ErrInvalidInput, int(kind))
	}
	if len(children) < 2 {
		return nil, fmt.Errorf("combinator: %w: got %d children, need at least 2", ErrInvalidInput, len(children))
	}
	owned := make([]Synth, len(children))
	for i, c := range children {
		if c == nil {
			return nil, fmt.Errorf("combinator: %w: child %d is nil", ErrInvalidInput, i)
		}
		owned[i] = c
	}
	return &Combinator{kind: kind, children: owned}, nil
}

// NewModulator phase-modulates carrier with modulator, equivalent to a
// two-child Modulate combinator.
func NewModulator(modulator, carrier Synth) (*Combinator, error) {
	return NewCombinator([]Synth{modulator, carrier}, Modulate)
}

// NewSummation sums both signals, equivalent to a two-child Sum combinator.
func NewSummation(a, b Synth) (*Combinator, error) {
	return NewCombinator([]Synth{a, b}, Sum)
}

func (c *Combinator) Kind() CombinatorKind { return c.kind }

func (c *Combinator) Sample(bank *SampleBank, t Time, phaseOffset float64) float64 {
	switch c.kind {
	case Modulate:
		carry := phaseOffset
		for _, child := range c.children {
			carry = child.Sample(bank, t, carry)
		}
		return carry
	default:
		var total float64
		for _, child := range c.children {
			total += child.Sample(bank, t, phaseOffset)
		}
		return total
	}
}

func (c *Combinator) Play(frequency, volume float64) {
	for _, child := range c.children {
		child.Play(frequency, volume)
	}
}

func (c *Combinator) Release() {
	for _, child := range c.children {
		child.Release()
	}
}

func (c *Combinator) Cut() {
	for _, child := range c.children {
		child.Cut()
	}
}

func (c *Combinator) Clone() Synth {
	children := make([]Synth, len(c.children))
	for i, child := range c.children {
		children[i] = child.Clone()
	}
	return &Combinator{kind: c.kind, children: children}
}

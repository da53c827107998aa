package phasor_test

import (
	"math"
	"testing"

	"github.com/phasoraudio/phasor"
)

func fmPair(t *testing.T) (modulator, carrier *phasor.Operator) {
	t.Helper()
	modifiers := phasor.DefaultModifiers()
	modifiers.FrequencyMultiplier = 2
	modulator = mustOperator(t, phasor.SineWave(), flat, modifiers)
	carrier = mustOperator(t, phasor.SineWave(), flat, phasor.DefaultModifiers())
	return modulator, carrier
}

func TestChainProgramMatchesModulator(t *testing.T) {
	mod1, car1 := fmPair(t)
	tree, err := phasor.NewModulator(mod1, car1)
	if err != nil {
		t.Fatalf("NewModulator failed: %v", err)
	}
	mod2, car2 := fmPair(t)
	// ChainProgram's operator order is carrier first, modulators after.
	program := phasor.ChainProgram([]*phasor.Operator{car2, mod2})
	tree.Play(440, 1)
	program.Play(440, 1)
	interval := phasor.PeriodOf(44100)
	now := phasor.Time{}
	for i := 0; i < 64; i++ {
		a := tree.Sample(nil, now, 0)
		b := program.Sample(nil, now, 0)
		if math.Abs(a-b) > tolerance {
			t.Fatalf("sample %d: tree %v, program %v", i, a, b)
		}
		now = now.Add(interval)
	}
}

func TestSumProgramMatchesSummation(t *testing.T) {
	tree, err := phasor.NewSummation(constOperator(t, 0.25), constOperator(t, 0.5))
	if err != nil {
		t.Fatalf("NewSummation failed: %v", err)
	}
	program := phasor.SumProgram([]*phasor.Operator{constOperator(t, 0.25), constOperator(t, 0.5)})
	tree.Play(440, 1)
	program.Play(440, 1)
	a := tree.Sample(nil, at(0), 0)
	b := program.Sample(nil, at(0), 0)
	if math.Abs(a-b) > tolerance {
		t.Errorf("tree %v, program %v", a, b)
	}
}

func TestEmptySumProgramPassesInputThrough(t *testing.T) {
	program := phasor.SumProgram(nil)
	if got := program.Sample(nil, at(0), 0.375); got != 0.375 {
		t.Errorf("empty program output %v, expected the input phase offset", got)
	}
}

func TestProgramBadOperatorIndex(t *testing.T) {
	op := constOperator(t, 1)
	op.Play(440, 1)
	program := &phasor.Program{
		Operators:    []*phasor.Operator{op},
		Instructions: []phasor.Instruction{{Kind: phasor.InstrConstant}, {Kind: phasor.InstrSample, Index: 5}},
	}
	if got := program.Sample(nil, at(0), 0); got != 0 {
		t.Errorf("out-of-range operator index output %v, expected 0", got)
	}
}

func TestProgramEmptyStackReadsZero(t *testing.T) {
	program := &phasor.Program{
		Instructions: []phasor.Instruction{{Kind: phasor.InstrAdd}},
	}
	if got := program.Sample(nil, at(0), 0); got != 0 {
		t.Errorf("add on an empty stack output %v, expected 0", got)
	}
}

func TestProgramDupe(t *testing.T) {
	program := &phasor.Program{
		Instructions: []phasor.Instruction{
			{Kind: phasor.InstrConstant, Value: 0.25},
			{Kind: phasor.InstrDupe},
			{Kind: phasor.InstrAdd},
		},
	}
	if got := program.Sample(nil, at(0), 0); math.Abs(got-0.5) > tolerance {
		t.Errorf("dupe and add output %v, expected 0.5", got)
	}
}

func TestProgramCloneIndependence(t *testing.T) {
	program := phasor.SumProgram([]*phasor.Operator{constOperator(t, 0.5), constOperator(t, 0.25)})
	clone := program.Clone()
	program.Play(440, 1)
	if got := clone.Sample(nil, at(0), 0); got != 0 {
		t.Errorf("clone should not hear the original's trigger, got %v", got)
	}
	clone.Play(440, 1)
	program.Cut()
	if got := clone.Sample(nil, at(0), 0); math.Abs(got-0.75) > tolerance {
		t.Errorf("clone output %v after the original was cut, expected 0.75", got)
	}
}

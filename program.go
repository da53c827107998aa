package phasor

// InstructionKind enumerates the stack operations a Program executes.
type InstructionKind int

const (
	// InstrConstant pushes Instruction.Value.
	InstrConstant InstructionKind = iota
	// InstrInput pushes the external phase offset the program was sampled
	// with.
	InstrInput
	// InstrSample pops a phase offset, samples the operator at
	// Instruction.Index with it, and pushes the result. An out-of-range
	// index pushes 0 and stops the program.
	InstrSample
	// InstrAdd pops two values and pushes their sum.
	InstrAdd
	// InstrDupe duplicates the top of the stack.
	InstrDupe
)

type Instruction struct {
	Kind  InstructionKind
	Value float64
	Index int
}

// Program combines operators with a small stack machine instead of a fixed
// combinator tree. Both the operator table and the instruction list may be
// edited freely between sampling calls without rebuilding anything, which
// is what the tree combinators cannot offer. Popping an empty stack reads
// 0, so malformed programs degrade to silence rather than failing.
type Program struct {
	Operators    []*Operator
	Instructions []Instruction

	stack []float64 // reused between calls to keep the hot path allocation-free
}

// ChainProgram builds a phase-modulation cascade over the operators, with
// the last operator's output feeding the phase of the one before it and so
// on down to the first, whose output is the program's output.
func ChainProgram(operators []*Operator) *Program {
	instructions := []Instruction{{Kind: InstrInput}}
	for i := len(operators) - 1; i >= 0; i-- {
		instructions = append(instructions, Instruction{Kind: InstrSample, Index: i})
	}
	return &Program{Operators: operators, Instructions: instructions}
}

// SumProgram builds a summation over the operators, each sampled with a
// zero phase offset. With no operators at all it passes the input phase
// offset through.
func SumProgram(operators []*Operator) *Program {
	var instructions []Instruction
	if len(operators) == 0 {
		instructions = []Instruction{{Kind: InstrInput}}
	}
	for i := range operators {
		instructions = append(instructions,
			Instruction{Kind: InstrConstant},
			Instruction{Kind: InstrSample, Index: i},
			Instruction{Kind: InstrAdd},
		)
	}
	return &Program{Operators: operators, Instructions: instructions}
}

func (p *Program) Sample(bank *SampleBank, t Time, phaseOffset float64) float64 {
	stack := p.stack[:0]
	pop := func() float64 {
		if len(stack) == 0 {
			return 0
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v
	}
loop:
	for _, instr := range p.Instructions {
		switch instr.Kind {
		case InstrConstant:
			stack = append(stack, instr.Value)
		case InstrInput:
			stack = append(stack, phaseOffset)
		case InstrSample:
			phase := pop()
			if instr.Index < 0 || instr.Index >= len(p.Operators) {
				stack = append(stack, 0)
				break loop
			}
			stack = append(stack, p.Operators[instr.Index].Sample(bank, t, phase))
		case InstrAdd:
			stack = append(stack, pop()+pop())
		case InstrDupe:
			if len(stack) > 0 {
				stack = append(stack, stack[len(stack)-1])
			} else {
				stack = append(stack, 0)
			}
		}
	}
	var result float64
	if len(stack) > 0 {
		result = stack[len(stack)-1]
	}
	p.stack = stack[:0]
	return result
}

func (p *Program) Play(frequency, volume float64) {
	for _, op := range p.Operators {
		op.Play(frequency, volume)
	}
}

func (p *Program) Release() {
	for _, op := range p.Operators {
		op.Release()
	}
}

func (p *Program) Cut() {
	for _, op := range p.Operators {
		op.Cut()
	}
}

func (p *Program) Clone() Synth {
	operators := make([]*Operator, len(p.Operators))
	for i, op := range p.Operators {
		operators[i] = op.Clone().(*Operator)
	}
	instructions := make([]Instruction, len(p.Instructions))
	copy(instructions, p.Instructions)
	return &Program{Operators: operators, Instructions: instructions}
}

package engine

import (
	"fmt"

	"github.com/cwbudde/algo-synth/synth/block"
)

// Register is an ordered collection of generators sharing one prediction
// head. Registration order defines the channel layout of the flat
// parameter block that [Register.SplitParams] demultiplexes.
//
// A register is populated once before rendering and is read-only
// afterwards.
type Register struct {
	gens []Generator
}

// NewRegister creates an empty register.
func NewRegister() *Register {
	return &Register{}
}

// Register appends a generator. Duplicates are not detected; registering
// the same generator twice makes it consume two parameter ranges.
func (r *Register) Register(g Generator) {
	r.gens = append(r.gens, g)
}

// Len returns the number of registered generators.
func (r *Register) Len() int { return len(r.gens) }

// At returns the generator at index i in registration order.
func (r *Register) At(i int) Generator { return r.gens[i] }

// TotalParams returns the channel width of the flat parameter block the
// register expects.
func (r *Register) TotalParams() int {
	total := 0
	for _, g := range r.gens {
		total += g.TotalParams()
	}
	return total
}

// SplitParams slices a flat (batch, TotalParams, steps) block into the
// per-slot blocks of each registered generator, in registration order.
// The running channel offset advances by each generator's TotalParams, and
// each generator's range is further split into its declared slots.
//
// The result is indexed [generator][slot] and is ready to pass to the
// matching generator's Render.
func (r *Register) SplitParams(flat *block.Block) ([][]*block.Block, error) {
	if flat == nil {
		return nil, fmt.Errorf("%w: nil parameter block", ErrInvalidShape)
	}
	if flat.Channels() != r.TotalParams() {
		return nil, fmt.Errorf("%w: flat parameter block has %d channels, register expects %d",
			ErrInvalidShape, flat.Channels(), r.TotalParams())
	}

	out := make([][]*block.Block, len(r.gens))
	offset := 0
	for gi, g := range r.gens {
		decl := g.CallParams()
		slots := make([]*block.Block, len(decl))
		cur := offset
		for si, slot := range decl {
			sub, err := flat.SliceChannels(cur, cur+slot.Width)
			if err != nil {
				return nil, err
			}
			slots[si] = sub
			cur += slot.Width
		}
		out[gi] = slots
		offset += g.TotalParams()
	}
	return out, nil
}

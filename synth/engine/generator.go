package engine

import (
	"fmt"

	"github.com/cwbudde/algo-synth/synth/block"
)

// Slot declares one named control-parameter input of a generator and the
// number of channels it occupies.
type Slot struct {
	Name  string
	Width int
}

// Mode selects the render behavior that depends on the training context.
// It is passed explicitly per call; generators hold no global train/eval
// state.
type Mode int

const (
	// ModeEval renders deterministically.
	ModeEval Mode = iota
	// ModeTrain enables per-call randomization where a generator defines
	// any, e.g. the random noise-band rotation.
	ModeTrain
)

// Generator is the contract shared by all synthesis generators.
//
// CallParams is stable for the generator's lifetime; its order defines the
// slot order Render expects and the concatenation order a [Register] uses.
// Render consumes control-rate slot blocks of shape (batch, width, steps)
// and returns an audio-rate block of shape (batch, 1, steps*factor).
// Generators keep continuity state (read offsets, phases) between calls and
// are not safe for concurrent use.
type Generator interface {
	CallParams() []Slot
	TotalParams() int
	Render(mode Mode, slots ...*block.Block) (*block.Block, error)
}

func totalParams(slots []Slot) int {
	total := 0
	for _, s := range slots {
		total += s.Width
	}
	return total
}

// validateSlots checks the given blocks against the declared slots and
// returns the common batch size and step count. Mismatches fail instead of
// broadcasting.
func validateSlots(decl []Slot, slots []*block.Block) (batch, steps int, err error) {
	if len(slots) != len(decl) {
		return 0, 0, fmt.Errorf("%w: got %d slots, want %d", ErrInvalidShape, len(slots), len(decl))
	}
	for i, s := range slots {
		if s == nil {
			return 0, 0, fmt.Errorf("%w: slot %q is nil", ErrInvalidShape, decl[i].Name)
		}
		if s.Channels() != decl[i].Width {
			return 0, 0, fmt.Errorf("%w: slot %q has %d channels, want %d",
				ErrInvalidShape, decl[i].Name, s.Channels(), decl[i].Width)
		}
		if i == 0 {
			batch = s.Batch()
			steps = s.Steps()
			if batch <= 0 || steps <= 0 {
				return 0, 0, fmt.Errorf("%w: slot %q is empty (batch %d, steps %d)",
					ErrInvalidShape, decl[i].Name, batch, steps)
			}
			continue
		}
		if s.Batch() != batch || s.Steps() != steps {
			return 0, 0, fmt.Errorf("%w: slot %q is (%d, %d, %d), want batch %d and steps %d",
				ErrInvalidShape, decl[i].Name, s.Batch(), s.Channels(), s.Steps(), batch, steps)
		}
	}
	return batch, steps, nil
}

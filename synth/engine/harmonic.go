package engine

import (
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-synth/synth/block"
)

// Harmonic synthesizes a sum of harmonics of one predicted fundamental.
//
// It derives the oscillator frequencies as integer multiples of the
// fundamental and delegates to the shared sine rendering, inheriting its
// phase-continuity and streaming contract unchanged.
type Harmonic struct {
	r sineRenderer
}

// NewHarmonic creates a harmonic generator with nHarmonics partials.
func NewHarmonic(nHarmonics int, sampleRate float64, resamplingFactor int, streaming bool) (*Harmonic, error) {
	r, err := newSineRenderer(nHarmonics, sampleRate, resamplingFactor, streaming)
	if err != nil {
		return nil, err
	}
	return &Harmonic{r: r}, nil
}

// CallParams declares a one-channel fundamental slot and one amplitude
// channel per harmonic.
func (h *Harmonic) CallParams() []Slot {
	return []Slot{
		{Name: "fundamental", Width: 1},
		{Name: "amplitudes", Width: h.r.nOsc},
	}
}

// TotalParams returns the number of control channels consumed per step.
func (h *Harmonic) TotalParams() int {
	return totalParams(h.CallParams())
}

// Render synthesizes (batch, 1, steps*factor) audio from a fundamental
// slot of shape (batch, 1, steps) and an amplitudes slot of shape
// (batch, nHarmonics, steps).
func (h *Harmonic) Render(_ Mode, slots ...*block.Block) (*block.Block, error) {
	if _, _, err := validateSlots(h.CallParams(), slots); err != nil {
		return nil, err
	}
	return h.r.render(h.deriveFrequencies(slots[0]), slots[1])
}

// deriveFrequencies expands the fundamental to (batch, nHarmonics, steps)
// with frequencies[h] = fundamental * (h+1).
func (h *Harmonic) deriveFrequencies(fundamental *block.Block) *block.Block {
	freqs := block.New(fundamental.Batch(), h.r.nOsc, fundamental.Steps())
	for bi := 0; bi < fundamental.Batch(); bi++ {
		base := fundamental.Row(bi, 0)
		for osc := 0; osc < h.r.nOsc; osc++ {
			vecmath.ScaleBlock(freqs.Row(bi, osc), base, float64(osc+1))
		}
	}
	return freqs
}

// Phases returns a copy of the carried (batch, nHarmonics) phase state, or
// nil before the first streaming render.
func (h *Harmonic) Phases() [][]float64 { return h.r.phaseState() }

// SetPhases seeds the carried phase state, e.g. when restoring a stream.
func (h *Harmonic) SetPhases(phases [][]float64) error { return h.r.setPhaseState(phases) }

// Reset drops the carried phase state.
func (h *Harmonic) Reset() { h.r.reset() }

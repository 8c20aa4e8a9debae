package engine

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-synth/synth/block"
	"github.com/cwbudde/algo-synth/synth/control"
)

const twoPi = 2 * math.Pi

// sineRenderer holds the oscillator-bank rendering shared by [Sine] and
// [Harmonic]: upsample frequency and amplitude trajectories, accumulate
// phase per oscillator, and sum amp*sin(phase) into one channel.
type sineRenderer struct {
	nOsc      int
	fs        float64
	factor    int
	streaming bool

	// Carried phase per (batch, oscillator), allocated lazily in
	// streaming mode and reallocated whenever the batch size changes.
	phases     []float64
	phaseBatch int

	scratch []float64
}

func newSineRenderer(nOsc int, sampleRate float64, resamplingFactor int, streaming bool) (sineRenderer, error) {
	if nOsc <= 0 {
		return sineRenderer{}, fmt.Errorf("%w: oscillator count must be > 0: %d", ErrUnsupportedConfig, nOsc)
	}
	if sampleRate <= 0 {
		return sineRenderer{}, fmt.Errorf("%w: sample rate must be > 0: %f", ErrUnsupportedConfig, sampleRate)
	}
	if resamplingFactor < 1 {
		return sineRenderer{}, fmt.Errorf("%w: resampling factor must be >= 1: %d", ErrUnsupportedConfig, resamplingFactor)
	}
	return sineRenderer{
		nOsc:      nOsc,
		fs:        sampleRate,
		factor:    resamplingFactor,
		streaming: streaming,
	}, nil
}

// render assumes frequencies and amplitudes are already validated to shape
// (batch, nOsc, steps).
func (r *sineRenderer) render(frequencies, amplitudes *block.Block) (*block.Block, error) {
	freqs, err := control.Upsample(frequencies, r.factor)
	if err != nil {
		return nil, err
	}
	amps, err := control.Upsample(amplitudes, r.factor)
	if err != nil {
		return nil, err
	}

	batch := freqs.Batch()
	outLen := freqs.Steps()

	if r.streaming && (r.phases == nil || r.phaseBatch != batch) {
		r.phases = make([]float64, batch*r.nOsc)
		r.phaseBatch = batch
	}
	if cap(r.scratch) < outLen {
		r.scratch = make([]float64, outLen)
	}
	scratch := r.scratch[:outLen]

	omegaScale := twoPi / r.fs
	out := block.New(batch, 1, outLen)
	for bi := 0; bi < batch; bi++ {
		dst := out.Row(bi, 0)
		for osc := 0; osc < r.nOsc; osc++ {
			phase := 0.0
			if r.streaming {
				phase = r.phases[bi*r.nOsc+osc]
			}
			for j, f := range freqs.Row(bi, osc) {
				phase += f * omegaScale
				if phase >= twoPi {
					phase = math.Mod(phase, twoPi)
				}
				scratch[j] = math.Sin(phase)
			}
			if r.streaming {
				r.phases[bi*r.nOsc+osc] = math.Mod(phase, twoPi)
			}
			vecmath.MulBlockInPlace(scratch, amps.Row(bi, osc))
			vecmath.AddBlockInPlace(dst, scratch)
		}
	}
	return out, nil
}

func (r *sineRenderer) phaseState() [][]float64 {
	if r.phases == nil {
		return nil
	}
	out := make([][]float64, r.phaseBatch)
	for bi := range out {
		out[bi] = make([]float64, r.nOsc)
		copy(out[bi], r.phases[bi*r.nOsc:(bi+1)*r.nOsc])
	}
	return out
}

func (r *sineRenderer) setPhaseState(phases [][]float64) error {
	if len(phases) == 0 {
		return fmt.Errorf("%w: empty phase state", ErrStateMismatch)
	}
	flat := make([]float64, len(phases)*r.nOsc)
	for bi, row := range phases {
		if len(row) != r.nOsc {
			return fmt.Errorf("%w: phase row %d has %d oscillators, want %d",
				ErrStateMismatch, bi, len(row), r.nOsc)
		}
		copy(flat[bi*r.nOsc:], row)
	}
	r.phases = flat
	r.phaseBatch = len(phases)
	return nil
}

func (r *sineRenderer) reset() {
	r.phases = nil
	r.phaseBatch = 0
}

// Sine synthesizes a sum of sinusoidal oscillators from predicted
// per-oscillator frequency and amplitude trajectories.
//
// In streaming mode the final phase of each oscillator carries into the
// next call, so chunk-by-chunk rendering stays phase-continuous across
// chunk boundaries.
type Sine struct {
	r sineRenderer
}

// NewSine creates a sine generator with nSines oscillators.
func NewSine(nSines int, sampleRate float64, resamplingFactor int, streaming bool) (*Sine, error) {
	r, err := newSineRenderer(nSines, sampleRate, resamplingFactor, streaming)
	if err != nil {
		return nil, err
	}
	return &Sine{r: r}, nil
}

// CallParams declares the frequencies and amplitudes slots, one channel per
// oscillator each.
func (s *Sine) CallParams() []Slot {
	return []Slot{
		{Name: "frequencies", Width: s.r.nOsc},
		{Name: "amplitudes", Width: s.r.nOsc},
	}
}

// TotalParams returns the number of control channels consumed per step.
func (s *Sine) TotalParams() int {
	return totalParams(s.CallParams())
}

// Render synthesizes (batch, 1, steps*factor) audio from frequencies and
// amplitudes slots of shape (batch, nSines, steps). The mode argument is
// accepted for interface uniformity; sine rendering has no train-only
// behavior.
func (s *Sine) Render(_ Mode, slots ...*block.Block) (*block.Block, error) {
	if _, _, err := validateSlots(s.CallParams(), slots); err != nil {
		return nil, err
	}
	return s.r.render(slots[0], slots[1])
}

// Phases returns a copy of the carried (batch, nSines) phase state, or nil
// before the first streaming render.
func (s *Sine) Phases() [][]float64 { return s.r.phaseState() }

// SetPhases seeds the carried phase state, e.g. when restoring a stream.
func (s *Sine) SetPhases(phases [][]float64) error { return s.r.setPhaseState(phases) }

// Reset drops the carried phase state.
func (s *Sine) Reset() { s.r.reset() }

package engine

import (
	"fmt"
	"math/rand"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-synth/synth/block"
	"github.com/cwbudde/algo-synth/synth/control"
)

// NoiseBand synthesizes a signal by weighting fixed band-limited noise rows
// with predicted per-band amplitudes.
//
// The bank is shared and read-only; the generator keeps a read offset into
// it so that consecutive renders resume exactly where the previous one
// stopped. Concatenating chunk outputs in eval mode is indistinguishable
// from reading one infinitely looped bank.
type NoiseBand struct {
	bands      *block.Block // 1 x nBands x bandLen, shared, never written
	nBands     int
	bandLen    int
	factor     int
	readOffset int
	rng        *rand.Rand

	tiled   []float64
	product []float64
}

// NoiseBandOption configures a NoiseBand generator.
type NoiseBandOption func(*NoiseBand)

// WithTrainSeed seeds the random rotation applied in [ModeTrain].
// Defaults to 1.
func WithTrainSeed(seed int64) NoiseBandOption {
	return func(n *NoiseBand) {
		n.rng = rand.New(rand.NewSource(seed))
	}
}

// NewNoiseBand creates a noise-band generator over the given bank.
// The bank block must have shape (1, nBands, bandLen); it is borrowed, not
// copied.
func NewNoiseBand(bands *block.Block, resamplingFactor int, opts ...NoiseBandOption) (*NoiseBand, error) {
	if bands == nil {
		return nil, fmt.Errorf("%w: nil noise bank", ErrUnsupportedConfig)
	}
	if bands.Batch() != 1 || bands.Channels() <= 0 || bands.Steps() <= 0 {
		return nil, fmt.Errorf("%w: noise bank must be (1, n, length), got (%d, %d, %d)",
			ErrUnsupportedConfig, bands.Batch(), bands.Channels(), bands.Steps())
	}
	if resamplingFactor < 1 {
		return nil, fmt.Errorf("%w: resampling factor must be >= 1: %d", ErrUnsupportedConfig, resamplingFactor)
	}

	n := &NoiseBand{
		bands:   bands,
		nBands:  bands.Channels(),
		bandLen: bands.Steps(),
		factor:  resamplingFactor,
		rng:     rand.New(rand.NewSource(1)),
	}
	for _, o := range opts {
		if o != nil {
			o(n)
		}
	}
	return n, nil
}

// CallParams declares the single amplitudes slot, one channel per band.
func (n *NoiseBand) CallParams() []Slot {
	return []Slot{{Name: "amplitudes", Width: n.nBands}}
}

// TotalParams returns the number of control channels consumed per step.
func (n *NoiseBand) TotalParams() int {
	return totalParams(n.CallParams())
}

// Render synthesizes (batch, 1, steps*factor) audio from an amplitudes slot
// of shape (batch, nBands, steps).
//
// In [ModeTrain] the bank is additionally rotated by a per-call random
// amount so a predictor cannot fit one fixed noise realization; the random
// rotation never advances the read offset and is bypassed in [ModeEval].
func (n *NoiseBand) Render(mode Mode, slots ...*block.Block) (*block.Block, error) {
	batch, _, err := validateSlots(n.CallParams(), slots)
	if err != nil {
		return nil, err
	}

	amps, err := control.Upsample(slots[0], n.factor)
	if err != nil {
		return nil, err
	}
	outLen := amps.Steps()

	start := n.readOffset
	if mode == ModeTrain {
		start = (start + n.rng.Intn(n.bandLen)) % n.bandLen
	}

	if cap(n.tiled) < outLen {
		n.tiled = make([]float64, outLen)
		n.product = make([]float64, outLen)
	}
	tiled := n.tiled[:outLen]
	product := n.product[:outLen]

	out := block.New(batch, 1, outLen)
	for band := 0; band < n.nBands; band++ {
		tileFrom(tiled, n.bands.Row(0, band), start)
		for bi := 0; bi < batch; bi++ {
			vecmath.MulBlock(product, amps.Row(bi, band), tiled)
			vecmath.AddBlockInPlace(out.Row(bi, 0), product)
		}
	}

	n.readOffset = (n.readOffset + outLen) % n.bandLen
	return out, nil
}

// ReadOffset returns the current read position into the bank.
func (n *NoiseBand) ReadOffset() int { return n.readOffset }

// SetReadOffset seeds the read position, e.g. when restoring a stream.
func (n *NoiseBand) SetReadOffset(offset int) error {
	if offset < 0 || offset >= n.bandLen {
		return fmt.Errorf("%w: read offset %d outside [0, %d)", ErrStateMismatch, offset, n.bandLen)
	}
	n.readOffset = offset
	return nil
}

// Reset rewinds the read position to the start of the bank.
func (n *NoiseBand) Reset() {
	n.readOffset = 0
}

// tileFrom fills dst by reading row circularly starting at offset.
func tileFrom(dst, row []float64, offset int) {
	pos := offset
	filled := 0
	for filled < len(dst) {
		c := copy(dst[filled:], row[pos:])
		filled += c
		pos += c
		if pos >= len(row) {
			pos = 0
		}
	}
}

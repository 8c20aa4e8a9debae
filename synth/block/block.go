package block

import (
	"errors"
	"fmt"
)

// ErrInvalidShape indicates that slice lengths or block shapes disagree.
var ErrInvalidShape = errors.New("block: invalid shape")

// Block is a batched multi-channel signal buffer with the layout
// (batch, channel, step). Rows are contiguous along the time axis, so
// per-channel data can be handed directly to vector kernels.
type Block struct {
	data     []float64
	batch    int
	channels int
	steps    int
}

// New returns a zero-filled block of the given shape.
// Negative dimensions are clamped to zero.
func New(batch, channels, steps int) *Block {
	if batch < 0 {
		batch = 0
	}
	if channels < 0 {
		channels = 0
	}
	if steps < 0 {
		steps = 0
	}
	return &Block{
		data:     make([]float64, batch*channels*steps),
		batch:    batch,
		channels: channels,
		steps:    steps,
	}
}

// FromSlice wraps an existing slice without copying.
// The slice length must equal batch*channels*steps.
// Mutations to the slice are visible through the Block and vice versa.
func FromSlice(batch, channels, steps int, data []float64) (*Block, error) {
	if batch < 0 || channels < 0 || steps < 0 {
		return nil, fmt.Errorf("%w: negative dimension (%d, %d, %d)", ErrInvalidShape, batch, channels, steps)
	}
	if len(data) != batch*channels*steps {
		return nil, fmt.Errorf("%w: slice length %d does not match (%d, %d, %d)",
			ErrInvalidShape, len(data), batch, channels, steps)
	}
	return &Block{data: data, batch: batch, channels: channels, steps: steps}, nil
}

// Batch returns the batch dimension.
func (b *Block) Batch() int { return b.batch }

// Channels returns the channel dimension.
func (b *Block) Channels() int { return b.channels }

// Steps returns the time dimension.
func (b *Block) Steps() int { return b.steps }

// Len returns the total number of scalar values.
func (b *Block) Len() int { return len(b.data) }

// Data returns the underlying slice in (batch, channel, step) order.
func (b *Block) Data() []float64 { return b.data }

// Row returns the contiguous time row for one batch element and channel.
func (b *Block) Row(batch, channel int) []float64 {
	start := (batch*b.channels + channel) * b.steps
	return b.data[start : start+b.steps]
}

// At returns the value at (batch, channel, step).
func (b *Block) At(batch, channel, step int) float64 {
	return b.data[(batch*b.channels+channel)*b.steps+step]
}

// Set writes the value at (batch, channel, step).
func (b *Block) Set(batch, channel, step int, v float64) {
	b.data[(batch*b.channels+channel)*b.steps+step] = v
}

// Fill sets every value to v.
func (b *Block) Fill(v float64) {
	for i := range b.data {
		b.data[i] = v
	}
}

// Clone returns a deep copy.
func (b *Block) Clone() *Block {
	out := New(b.batch, b.channels, b.steps)
	copy(out.data, b.data)
	return out
}

// SameShape reports whether both blocks have identical dimensions.
func (b *Block) SameShape(o *Block) bool {
	return o != nil && b.batch == o.batch && b.channels == o.channels && b.steps == o.steps
}

// SliceChannels copies channels [lo, hi) into a new block.
func (b *Block) SliceChannels(lo, hi int) (*Block, error) {
	if lo < 0 || hi > b.channels || lo > hi {
		return nil, fmt.Errorf("%w: channel range [%d, %d) outside 0..%d", ErrInvalidShape, lo, hi, b.channels)
	}
	out := New(b.batch, hi-lo, b.steps)
	for bi := 0; bi < b.batch; bi++ {
		for ci := lo; ci < hi; ci++ {
			copy(out.Row(bi, ci-lo), b.Row(bi, ci))
		}
	}
	return out, nil
}

// SliceSteps copies time steps [lo, hi) into a new block.
func (b *Block) SliceSteps(lo, hi int) (*Block, error) {
	if lo < 0 || hi > b.steps || lo > hi {
		return nil, fmt.Errorf("%w: step range [%d, %d) outside 0..%d", ErrInvalidShape, lo, hi, b.steps)
	}
	out := New(b.batch, b.channels, hi-lo)
	for bi := 0; bi < b.batch; bi++ {
		for ci := 0; ci < b.channels; ci++ {
			copy(out.Row(bi, ci), b.Row(bi, ci)[lo:hi])
		}
	}
	return out, nil
}

// AppendSteps concatenates two blocks along the time axis.
// Batch and channel dimensions must match.
func AppendSteps(a, b *Block) (*Block, error) {
	if a.batch != b.batch || a.channels != b.channels {
		return nil, fmt.Errorf("%w: cannot append (%d, %d, %d) to (%d, %d, %d)",
			ErrInvalidShape, b.batch, b.channels, b.steps, a.batch, a.channels, a.steps)
	}
	out := New(a.batch, a.channels, a.steps+b.steps)
	for bi := 0; bi < a.batch; bi++ {
		for ci := 0; ci < a.channels; ci++ {
			row := out.Row(bi, ci)
			copy(row, a.Row(bi, ci))
			copy(row[a.steps:], b.Row(bi, ci))
		}
	}
	return out, nil
}

// ConcatChannels concatenates blocks along the channel axis.
// Batch and step dimensions must match across all inputs.
func ConcatChannels(blocks ...*Block) (*Block, error) {
	if len(blocks) == 0 {
		return nil, fmt.Errorf("%w: no blocks to concatenate", ErrInvalidShape)
	}
	first := blocks[0]
	channels := 0
	for _, blk := range blocks {
		if blk.batch != first.batch || blk.steps != first.steps {
			return nil, fmt.Errorf("%w: cannot concatenate (%d, %d, %d) with (%d, %d, %d)",
				ErrInvalidShape, blk.batch, blk.channels, blk.steps, first.batch, first.channels, first.steps)
		}
		channels += blk.channels
	}
	out := New(first.batch, channels, first.steps)
	for bi := 0; bi < first.batch; bi++ {
		offset := 0
		for _, blk := range blocks {
			for ci := 0; ci < blk.channels; ci++ {
				copy(out.Row(bi, offset+ci), blk.Row(bi, ci))
			}
			offset += blk.channels
		}
	}
	return out, nil
}

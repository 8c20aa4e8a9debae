package control

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-synth/synth/block"
)

// ErrUnsupportedConfig indicates an invalid resampling configuration.
var ErrUnsupportedConfig = errors.New("control: unsupported configuration")

// Upsample raises a control-rate block to audio rate by linear
// interpolation with a positive integer factor. The output has
// steps*factor time steps; output index j interpolates the control points
// at j/factor and j/factor+1, with the final control point held over the
// last factor-1 samples. Factor 1 returns a copy.
func Upsample(src *block.Block, factor int) (*block.Block, error) {
	if factor < 1 {
		return nil, fmt.Errorf("%w: resampling factor must be >= 1: %d", ErrUnsupportedConfig, factor)
	}
	dst := block.New(src.Batch(), src.Channels(), src.Steps()*factor)
	upsampleRows(dst, src, factor)
	return dst, nil
}

// UpsampleInto is the allocation-free variant of [Upsample]. The
// destination must already have steps*factor time steps and matching batch
// and channel dimensions.
func UpsampleInto(dst, src *block.Block, factor int) error {
	if factor < 1 {
		return fmt.Errorf("%w: resampling factor must be >= 1: %d", ErrUnsupportedConfig, factor)
	}
	if dst.Batch() != src.Batch() || dst.Channels() != src.Channels() || dst.Steps() != src.Steps()*factor {
		return fmt.Errorf("%w: destination (%d, %d, %d) does not match source (%d, %d, %d) at factor %d",
			block.ErrInvalidShape,
			dst.Batch(), dst.Channels(), dst.Steps(),
			src.Batch(), src.Channels(), src.Steps(), factor)
	}
	upsampleRows(dst, src, factor)
	return nil
}

func upsampleRows(dst, src *block.Block, factor int) {
	for bi := 0; bi < src.Batch(); bi++ {
		for ci := 0; ci < src.Channels(); ci++ {
			upsampleRow(dst.Row(bi, ci), src.Row(bi, ci), factor)
		}
	}
}

// upsampleRow interpolates one row. Two-point linear interpolation per
// segment, as in interp.Linear2.
func upsampleRow(dst, src []float64, factor int) {
	if len(src) == 0 {
		return
	}
	inv := 1.0 / float64(factor)
	for i := 0; i < len(src)-1; i++ {
		v0 := src[i]
		slope := (src[i+1] - v0) * inv
		base := i * factor
		for k := 0; k < factor; k++ {
			dst[base+k] = v0 + slope*float64(k)
		}
	}
	// Hold the last control point; there is no successor to interpolate toward.
	last := src[len(src)-1]
	for k := (len(src) - 1) * factor; k < len(dst); k++ {
		dst[k] = last
	}
}

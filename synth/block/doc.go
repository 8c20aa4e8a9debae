// Package block provides batched multi-channel buffers for control and
// audio signals.
//
// A [Block] stores float64 values in (batch, channel, step) order with each
// channel row contiguous in memory. Synthesis code operates on rows via
// [Block.Row] and hands them to vector kernels without reshaping.
package block

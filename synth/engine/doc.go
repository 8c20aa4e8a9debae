// Package engine provides control-driven synthesis generators and the
// parameter register that routes one flat prediction to them.
//
// Three generators implement the [Generator] contract: [NoiseBand] weights
// a fixed bank of loopable band-limited noise with predicted amplitudes,
// [Sine] sums an oscillator bank driven by predicted frequency and
// amplitude trajectories, and [Harmonic] derives its oscillator
// frequencies from one predicted fundamental before reusing the sine
// rendering.
//
// All generators accept control-rate slots, upsample them to audio rate by
// an integer resampling factor, and return a single-channel audio block.
// They behave identically in offline use (one call covering the whole
// signal) and in streaming use (many consecutive chunk calls): noise-band
// read offsets and oscillator phases carry across calls so chunk outputs
// concatenate without discontinuities. Render calls on one generator are
// strictly sequential; distinct generators own disjoint state.
package engine

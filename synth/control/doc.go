// Package control converts control-rate parameter trajectories to audio
// rate.
//
// Predictors emit parameters at a lower rate than the audio output; the
// resampling factor is the integer ratio between the two. Upsampling is
// plain linear interpolation between successive control points, which keeps
// chunk-by-chunk rendering continuous for trajectories that are constant
// across chunk boundaries.
package control

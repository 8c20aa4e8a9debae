package engine

import "errors"

var (
	// ErrInvalidShape indicates a slot block whose channel width, batch
	// size, or step count disagrees with what a generator declared, or a
	// flat parameter block whose width disagrees with a register.
	ErrInvalidShape = errors.New("engine: invalid shape")

	// ErrUnsupportedConfig indicates an invalid construction-time
	// configuration such as a non-positive resampling factor or a zero
	// band, oscillator, or harmonic count.
	ErrUnsupportedConfig = errors.New("engine: unsupported configuration")

	// ErrStateMismatch indicates continuity state that is inconsistent
	// with the generator, e.g. seeding phases with the wrong oscillator
	// count. Normal operation never produces it; it guards the state
	// setters used by tests and checkpoint restore.
	ErrStateMismatch = errors.New("engine: state mismatch")
)

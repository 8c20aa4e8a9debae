// Package filterbank constructs fixed banks of loopable band-limited noise.
//
// A bank covers a frequency range with logarithmically spaced bands. Each
// band row is synthesized by masking the spectrum of a seeded white-noise
// buffer to the band's bins and transforming back, which makes every row
// exactly periodic in its own length. The engine reads rows circularly and
// weights them with predicted amplitudes; see the engine package.
package filterbank

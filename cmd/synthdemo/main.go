// Command synthdemo renders a harmonic-plus-noise example signal through
// the synthesis engine and writes it to a WAV file.
//
// The control trajectories are synthetic (a fixed fundamental, decaying
// harmonic amplitudes, and a soft noise floor), but the rendering path is
// the real one: the flat parameter block is demultiplexed by a register
// and rendered chunk by chunk in streaming mode, exercising the read-offset
// and phase continuity contracts.
//
// Usage:
//
//	synthdemo [flags]
//
// Examples:
//
//	synthdemo -o demo.wav
//	synthdemo -f0 110 -harmonics 24 -duration 2 -o bass.wav
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-synth/synth/block"
	"github.com/cwbudde/algo-synth/synth/engine"
	"github.com/cwbudde/algo-synth/synth/filterbank"
)

func main() {
	var (
		rate      = flag.Int("rate", 48000, "output sample rate in Hz")
		duration  = flag.Float64("duration", 1.0, "output duration in seconds")
		f0        = flag.Float64("f0", 220, "fundamental frequency in Hz")
		harmonics = flag.Int("harmonics", 16, "number of harmonics")
		bands     = flag.Int("bands", 32, "number of noise bands")
		bankLen   = flag.Int("banklen", 8192, "noise band length in samples")
		factor    = flag.Int("factor", 32, "control-to-audio resampling factor")
		chunks    = flag.Int("chunks", 8, "number of streaming render chunks")
		seed      = flag.Int64("seed", 1, "noise bank seed")
		out       = flag.String("o", "synthdemo.wav", "output WAV path")
	)
	flag.Parse()

	if err := run(*rate, *duration, *f0, *harmonics, *bands, *bankLen, *factor, *chunks, *seed, *out); err != nil {
		fmt.Fprintln(os.Stderr, "synthdemo:", err)
		os.Exit(1)
	}
}

func run(rate int, duration, f0 float64, harmonics, bands, bankLen, factor, chunks int, seed int64, out string) error {
	if duration <= 0 {
		return fmt.Errorf("duration must be > 0: %f", duration)
	}
	if chunks < 1 {
		chunks = 1
	}

	bank, err := filterbank.New(bands, bankLen, float64(rate), filterbank.WithSeed(seed))
	if err != nil {
		return err
	}

	noise, err := engine.NewNoiseBand(bank.Bands(), factor)
	if err != nil {
		return err
	}
	harmonic, err := engine.NewHarmonic(harmonics, float64(rate), factor, true)
	if err != nil {
		return err
	}

	reg := engine.NewRegister()
	reg.Register(harmonic)
	reg.Register(noise)

	steps := int(duration*float64(rate)) / factor
	if steps < chunks {
		steps = chunks
	}
	flat := controlTrajectories(reg.TotalParams(), steps, f0, harmonics, bands)

	samples := make([]float64, 0, steps*factor)
	chunkSteps := steps / chunks
	for c := 0; c < chunks; c++ {
		lo := c * chunkSteps
		hi := lo + chunkSteps
		if c == chunks-1 {
			hi = steps
		}
		part, err := flat.SliceSteps(lo, hi)
		if err != nil {
			return err
		}
		split, err := reg.SplitParams(part)
		if err != nil {
			return err
		}

		var mix []float64
		for gi := 0; gi < reg.Len(); gi++ {
			rendered, err := reg.At(gi).Render(engine.ModeEval, split[gi]...)
			if err != nil {
				return err
			}
			row := rendered.Row(0, 0)
			if mix == nil {
				mix = make([]float64, len(row))
			}
			for i, v := range row {
				mix[i] += v
			}
		}
		samples = append(samples, mix...)
	}

	if err := writeWAV(out, rate, samples); err != nil {
		return err
	}
	fmt.Printf("wrote %s: %d samples at %d Hz (%d bands, %d harmonics)\n",
		out, len(samples), rate, bands, harmonics)
	return nil
}

// controlTrajectories fills a flat parameter block in registration order:
// fundamental, harmonic amplitudes, noise-band amplitudes.
func controlTrajectories(totalParams, steps int, f0 float64, harmonics, bands int) *block.Block {
	flat := block.New(1, totalParams, steps)

	fund := flat.Row(0, 0)
	for j := range fund {
		fund[j] = f0
	}

	for h := 0; h < harmonics; h++ {
		row := flat.Row(0, 1+h)
		level := 0.5 / float64(h+1) / float64(harmonics)
		for j := range row {
			// Gentle fade-out so chunk boundaries carry changing amplitudes.
			env := 1 - 0.5*float64(j)/float64(steps)
			row[j] = level * env
		}
	}

	noiseLevel := 0.05 / math.Sqrt(float64(bands))
	for b := 0; b < bands; b++ {
		row := flat.Row(0, 1+harmonics+b)
		for j := range row {
			row[j] = noiseLevel
		}
	}
	return flat
}

func writeWAV(path string, rate int, samples []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	data := make([]int, len(samples))
	for i, v := range samples {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		data[i] = int(v * math.MaxInt16)
	}

	enc := wav.NewEncoder(f, rate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	return enc.Close()
}

package filterbank

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-synth/synth/block"
)

// ErrUnsupportedConfig indicates an invalid filter bank configuration.
var ErrUnsupportedConfig = errors.New("filterbank: unsupported configuration")

const (
	defaultLowerFreq = 20.0
	defaultUpperFreq = 20000.0
	defaultSeed      = 1
)

// BandEdge holds the frequency limits of one noise band in Hz.
type BandEdge struct {
	Low  float64
	High float64
}

// Bank holds a fixed set of loopable band-limited noise rows.
//
// Each row is the inverse FFT of one band of a common white-noise spectrum,
// so the rows are periodic by construction: reading them circularly never
// introduces a seam. The rows are built once and must not be mutated.
type Bank struct {
	bands      *block.Block // 1 x n x length
	edges      []BandEdge
	sampleRate float64
}

type config struct {
	seed      int64
	lowerHz   float64
	upperHz   float64
	amplitude float64
}

func defaultConfig() config {
	return config{
		seed:      defaultSeed,
		lowerHz:   defaultLowerFreq,
		upperHz:   defaultUpperFreq,
		amplitude: 1.0,
	}
}

// Option configures a Bank.
type Option func(*config)

// WithSeed sets the deterministic seed for the underlying noise.
func WithSeed(seed int64) Option {
	return func(cfg *config) {
		cfg.seed = seed
	}
}

// WithFrequencyRange sets the lower and upper frequency limits covered by
// the bank. Band edges are spaced logarithmically over this range.
func WithFrequencyRange(lower, upper float64) Option {
	return func(cfg *config) {
		if lower > 0 && upper > lower {
			cfg.lowerHz = lower
			cfg.upperHz = upper
		}
	}
}

// WithAmplitude sets the per-row RMS amplitude. Defaults to 1.
func WithAmplitude(a float64) Option {
	return func(cfg *config) {
		if a > 0 {
			cfg.amplitude = a
		}
	}
}

// New builds a bank of n band-limited noise rows of the given length in
// samples at the given sample rate.
func New(n, length int, sampleRate float64, opts ...Option) (*Bank, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: band count must be > 0: %d", ErrUnsupportedConfig, n)
	}
	if length <= 1 {
		return nil, fmt.Errorf("%w: band length must be > 1: %d", ErrUnsupportedConfig, length)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be > 0: %f", ErrUnsupportedConfig, sampleRate)
	}

	cfg := defaultConfig()
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}

	nyquist := sampleRate / 2
	if cfg.upperHz > nyquist {
		cfg.upperHz = nyquist
	}
	if cfg.lowerHz >= cfg.upperHz {
		return nil, fmt.Errorf("%w: frequency range [%f, %f] is empty below nyquist %f",
			ErrUnsupportedConfig, cfg.lowerHz, cfg.upperHz, nyquist)
	}

	plan, err := algofft.NewPlan64(length)
	if err != nil {
		return nil, fmt.Errorf("filterbank: failed to create FFT plan: %w", err)
	}

	// One shared white-noise spectrum; each band keeps its own bin range.
	rng := rand.New(rand.NewSource(cfg.seed))
	noise := make([]complex128, length)
	for i := range noise {
		noise[i] = complex(rng.Float64()*2-1, 0)
	}
	spectrum := make([]complex128, length)
	if err := plan.Forward(spectrum, noise); err != nil {
		return nil, fmt.Errorf("filterbank: forward FFT failed: %w", err)
	}

	edges := logEdges(n, cfg.lowerHz, cfg.upperHz)
	bands := block.New(1, n, length)
	masked := make([]complex128, length)
	row := make([]complex128, length)
	binWidth := sampleRate / float64(length)
	half := length / 2

	for bandIdx := 0; bandIdx < n; bandIdx++ {
		edge := edges[bandIdx]
		for i := range masked {
			masked[i] = 0
		}

		matched := false
		for i := 1; i <= half; i++ {
			f := float64(i) * binWidth
			if f < edge.Low || f >= edge.High {
				continue
			}
			copyBin(masked, spectrum, i, length)
			matched = true
		}
		if !matched {
			// Narrow band between two bins: keep the bin nearest to the
			// geometric band center so no band renders as silence.
			center := math.Sqrt(edge.Low * edge.High)
			i := int(math.Round(center / binWidth))
			if i < 1 {
				i = 1
			}
			if i > half {
				i = half
			}
			copyBin(masked, spectrum, i, length)
		}

		if err := plan.Inverse(row, masked); err != nil {
			return nil, fmt.Errorf("filterbank: inverse FFT failed: %w", err)
		}

		dst := bands.Row(0, bandIdx)
		for i := range dst {
			dst[i] = real(row[i])
		}
		normalizeRMS(dst, cfg.amplitude)
	}

	return &Bank{bands: bands, edges: edges, sampleRate: sampleRate}, nil
}

// Bands returns the noise rows as a (1, n, length) block.
// The block is shared; callers must treat it as read-only.
func (b *Bank) Bands() *block.Block { return b.bands }

// NumBands returns the number of noise rows.
func (b *Bank) NumBands() int { return b.bands.Channels() }

// Length returns the row length in samples.
func (b *Bank) Length() int { return b.bands.Steps() }

// SampleRate returns the sample rate the bank was designed for.
func (b *Bank) SampleRate() float64 { return b.sampleRate }

// BandEdge returns the frequency limits of band i.
func (b *Bank) BandEdge(i int) BandEdge { return b.edges[i] }

// logEdges splits [lower, upper] into n logarithmically spaced bands.
func logEdges(n int, lower, upper float64) []BandEdge {
	edges := make([]BandEdge, n)
	ratio := math.Pow(upper/lower, 1/float64(n))
	low := lower
	for i := 0; i < n; i++ {
		high := low * ratio
		edges[i] = BandEdge{Low: low, High: high}
		low = high
	}
	// Counteract accumulated rounding so the top band reaches upper exactly.
	edges[n-1].High = upper
	return edges
}

// copyBin copies bin i and its conjugate mirror so the masked spectrum
// stays conjugate-symmetric and the inverse transform stays real.
func copyBin(dst, src []complex128, i, length int) {
	dst[i] = src[i]
	mirror := length - i
	if mirror < length && mirror != i {
		dst[mirror] = src[mirror]
	}
}

func normalizeRMS(row []float64, target float64) {
	sum := 0.0
	for _, v := range row {
		sum += v * v
	}
	rms := math.Sqrt(sum / float64(len(row)))
	if rms == 0 {
		return
	}
	scale := target / rms
	for i := range row {
		row[i] *= scale
	}
}

package engine

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-synth/synth/block"
)

func twoGeneratorRegister(t *testing.T) (*Register, *NoiseBand, *Harmonic) {
	t.Helper()
	noise, err := NewNoiseBand(testBank(t, 4, 16), 2)
	if err != nil {
		t.Fatal(err)
	}
	harmonic, err := NewHarmonic(3, 48000, 2, false)
	if err != nil {
		t.Fatal(err)
	}
	reg := NewRegister()
	reg.Register(noise)
	reg.Register(harmonic)
	return reg, noise, harmonic
}

func TestRegisterTotalParamsAndOrder(t *testing.T) {
	reg, noise, harmonic := twoGeneratorRegister(t)
	if reg.Len() != 2 {
		t.Fatalf("Len got %d want 2", reg.Len())
	}
	if reg.At(0) != Generator(noise) || reg.At(1) != Generator(harmonic) {
		t.Fatal("registration order not preserved")
	}
	// 4 noise amplitudes + 1 fundamental + 3 harmonic amplitudes.
	if got := reg.TotalParams(); got != 8 {
		t.Fatalf("TotalParams got %d want 8", got)
	}
}

// Each generator must be sliced from its own running offset, not from
// channel 0. Channel c of the flat block carries the constant value c, so
// any offset mistake shows up as wrong values.
func TestRegisterSplitAdvancesOffset(t *testing.T) {
	reg, _, _ := twoGeneratorRegister(t)

	flat := block.New(2, 8, 5)
	for bi := 0; bi < 2; bi++ {
		for ci := 0; ci < 8; ci++ {
			row := flat.Row(bi, ci)
			for j := range row {
				row[j] = float64(ci)
			}
		}
	}

	split, err := reg.SplitParams(flat)
	if err != nil {
		t.Fatalf("SplitParams: %v", err)
	}
	if len(split) != 2 {
		t.Fatalf("generator count got %d want 2", len(split))
	}

	// Generator 0: one slot of width 4 covering channels 0..3.
	if len(split[0]) != 1 {
		t.Fatalf("noise slot count got %d want 1", len(split[0]))
	}
	ampsSlot := split[0][0]
	if ampsSlot.Channels() != 4 {
		t.Fatalf("noise amplitudes width got %d want 4", ampsSlot.Channels())
	}
	for ci := 0; ci < 4; ci++ {
		if got := ampsSlot.At(1, ci, 0); got != float64(ci) {
			t.Fatalf("noise amplitudes channel %d got %v want %v", ci, got, float64(ci))
		}
	}

	// Generator 1: fundamental at channel 4, amplitudes at channels 5..7.
	if len(split[1]) != 2 {
		t.Fatalf("harmonic slot count got %d want 2", len(split[1]))
	}
	if got := split[1][0].At(0, 0, 2); got != 4 {
		t.Fatalf("fundamental channel got %v want 4", got)
	}
	for ci := 0; ci < 3; ci++ {
		if got := split[1][1].At(0, ci, 4); got != float64(5+ci) {
			t.Fatalf("harmonic amplitudes channel %d got %v want %v", ci, got, float64(5+ci))
		}
	}
}

// Concatenating per-slot blocks and splitting them back must recover the
// originals, per generator and per slot.
func TestRegisterSplitRoundTrip(t *testing.T) {
	reg, _, _ := twoGeneratorRegister(t)

	noiseAmps := block.New(1, 4, 3)
	fundamental := block.New(1, 1, 3)
	harmonicAmps := block.New(1, 3, 3)
	fill := 0.0
	for _, b := range []*block.Block{noiseAmps, fundamental, harmonicAmps} {
		for i := range b.Data() {
			b.Data()[i] = fill
			fill += 0.5
		}
	}

	flat, err := block.ConcatChannels(noiseAmps, fundamental, harmonicAmps)
	if err != nil {
		t.Fatal(err)
	}
	split, err := reg.SplitParams(flat)
	if err != nil {
		t.Fatal(err)
	}

	want := [][]*block.Block{{noiseAmps}, {fundamental, harmonicAmps}}
	for gi := range want {
		for si := range want[gi] {
			got, expect := split[gi][si], want[gi][si]
			if !got.SameShape(expect) {
				t.Fatalf("generator %d slot %d: shape differs", gi, si)
			}
			for i, v := range got.Data() {
				if v != expect.Data()[i] {
					t.Fatalf("generator %d slot %d differs at %d: %v vs %v", gi, si, i, v, expect.Data()[i])
				}
			}
		}
	}
}

func TestRegisterSplitRejectsWrongWidth(t *testing.T) {
	reg, _, _ := twoGeneratorRegister(t)

	flat := block.New(1, 7, 4)
	if _, err := reg.SplitParams(flat); !errors.Is(err, ErrInvalidShape) {
		t.Fatalf("narrow block: got %v want ErrInvalidShape", err)
	}
	if _, err := reg.SplitParams(nil); !errors.Is(err, ErrInvalidShape) {
		t.Fatalf("nil block: got %v want ErrInvalidShape", err)
	}
}

// Split slots must render directly through the matching generators.
func TestRegisterSplitFeedsRender(t *testing.T) {
	reg, _, _ := twoGeneratorRegister(t)

	flat := block.New(1, 8, 4)
	flat.Fill(0.1)
	flat.Row(0, 4)[0] = 220 // plausible fundamental
	split, err := reg.SplitParams(flat)
	if err != nil {
		t.Fatal(err)
	}

	for gi := 0; gi < reg.Len(); gi++ {
		out, err := reg.At(gi).Render(ModeEval, split[gi]...)
		if err != nil {
			t.Fatalf("generator %d render: %v", gi, err)
		}
		if out.Batch() != 1 || out.Channels() != 1 || out.Steps() != 8 {
			t.Fatalf("generator %d output shape got (%d, %d, %d)", gi, out.Batch(), out.Channels(), out.Steps())
		}
	}
}

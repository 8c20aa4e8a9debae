package block

import (
	"errors"
	"testing"
)

func TestFromSliceRejectsMismatchedLength(t *testing.T) {
	_, err := FromSlice(2, 3, 4, make([]float64, 23))
	if !errors.Is(err, ErrInvalidShape) {
		t.Fatalf("got %v want ErrInvalidShape", err)
	}
}

func TestRowAtSet(t *testing.T) {
	b := New(2, 3, 4)
	b.Set(1, 2, 3, 7.5)
	if got := b.At(1, 2, 3); got != 7.5 {
		t.Fatalf("At got %v want 7.5", got)
	}

	row := b.Row(1, 2)
	if len(row) != 4 {
		t.Fatalf("row length got %d want 4", len(row))
	}
	if row[3] != 7.5 {
		t.Fatalf("row[3] got %v want 7.5", row[3])
	}

	// Rows alias the backing data.
	row[0] = -1
	if got := b.At(1, 2, 0); got != -1 {
		t.Fatalf("aliased write got %v want -1", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	a := New(1, 2, 2)
	a.Fill(3)
	c := a.Clone()
	c.Set(0, 0, 0, 9)
	if a.At(0, 0, 0) != 3 {
		t.Fatalf("clone mutated original: %v", a.At(0, 0, 0))
	}
	if !a.SameShape(c) {
		t.Fatal("clone shape differs")
	}
}

func TestSliceChannels(t *testing.T) {
	b := New(2, 4, 3)
	for bi := 0; bi < 2; bi++ {
		for ci := 0; ci < 4; ci++ {
			for s := 0; s < 3; s++ {
				b.Set(bi, ci, s, float64(100*bi+10*ci+s))
			}
		}
	}

	sub, err := b.SliceChannels(1, 3)
	if err != nil {
		t.Fatalf("SliceChannels: %v", err)
	}
	if sub.Batch() != 2 || sub.Channels() != 2 || sub.Steps() != 3 {
		t.Fatalf("shape got (%d, %d, %d)", sub.Batch(), sub.Channels(), sub.Steps())
	}
	if got := sub.At(1, 0, 2); got != 112 {
		t.Fatalf("sub value got %v want 112", got)
	}

	if _, err := b.SliceChannels(2, 5); !errors.Is(err, ErrInvalidShape) {
		t.Fatalf("out-of-range slice got %v want ErrInvalidShape", err)
	}
}

func TestSliceStepsAndAppendStepsRoundTrip(t *testing.T) {
	b := New(1, 2, 6)
	for ci := 0; ci < 2; ci++ {
		for s := 0; s < 6; s++ {
			b.Set(0, ci, s, float64(10*ci+s))
		}
	}

	left, err := b.SliceSteps(0, 2)
	if err != nil {
		t.Fatalf("SliceSteps left: %v", err)
	}
	right, err := b.SliceSteps(2, 6)
	if err != nil {
		t.Fatalf("SliceSteps right: %v", err)
	}

	joined, err := AppendSteps(left, right)
	if err != nil {
		t.Fatalf("AppendSteps: %v", err)
	}
	if !joined.SameShape(b) {
		t.Fatal("joined shape differs from original")
	}
	for i, v := range joined.Data() {
		if v != b.Data()[i] {
			t.Fatalf("joined[%d] got %v want %v", i, v, b.Data()[i])
		}
	}
}

func TestConcatChannels(t *testing.T) {
	a := New(1, 1, 2)
	a.Fill(1)
	b := New(1, 2, 2)
	b.Fill(2)

	cat, err := ConcatChannels(a, b)
	if err != nil {
		t.Fatalf("ConcatChannels: %v", err)
	}
	if cat.Channels() != 3 {
		t.Fatalf("channels got %d want 3", cat.Channels())
	}
	if cat.At(0, 0, 0) != 1 || cat.At(0, 1, 0) != 2 || cat.At(0, 2, 1) != 2 {
		t.Fatal("concatenated values out of order")
	}

	c := New(2, 1, 2)
	if _, err := ConcatChannels(a, c); !errors.Is(err, ErrInvalidShape) {
		t.Fatalf("batch mismatch got %v want ErrInvalidShape", err)
	}
}

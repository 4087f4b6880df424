package series

import (
	"reflect"
	"testing"
)

func TestRing_PushBelowCapacity(t *testing.T) {
	t.Parallel()

	r := NewRing(4)
	r.Push(1)
	r.Push(2)

	if got := r.Values(); !reflect.DeepEqual(got, []float64{1, 2}) {
		t.Fatalf("values = %v, want [1 2]", got)
	}
	if r.Last() != 2 {
		t.Fatalf("last = %v, want 2", r.Last())
	}
}

func TestRing_WrapsOldestFirst(t *testing.T) {
	t.Parallel()

	r := NewRing(3)
	for i := 1; i <= 5; i++ {
		r.Push(float64(i))
	}

	if got := r.Values(); !reflect.DeepEqual(got, []float64{3, 4, 5}) {
		t.Fatalf("values = %v, want [3 4 5]", got)
	}
	if r.Len() != 3 {
		t.Fatalf("len = %d, want 3", r.Len())
	}
	if r.Last() != 5 {
		t.Fatalf("last = %v, want 5", r.Last())
	}
}

func TestRing_EmptyAndReset(t *testing.T) {
	t.Parallel()

	r := NewRing(0)
	if r.Cap() != 1 {
		t.Fatalf("cap = %d, want 1 for non-positive capacity", r.Cap())
	}
	if r.Values() != nil || r.Last() != 0 {
		t.Fatal("empty ring should return nil values and zero last")
	}

	r.Push(7)
	r.Reset()
	if r.Len() != 0 || r.Values() != nil {
		t.Fatalf("reset ring len = %d, want 0", r.Len())
	}
}

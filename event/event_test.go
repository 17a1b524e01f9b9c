package event

import (
	"reflect"
	"testing"
)

func TestSet_SetTestClear(t *testing.T) {
	var s Set
	if s.Test(5) {
		t.Fatal("Test(5) = true on empty set")
	}
	s.Set(5)
	if !s.Test(5) {
		t.Fatal("Test(5) = false after Set(5)")
	}
	s.Clear(5)
	if s.Test(5) {
		t.Fatal("Test(5) = true after Clear(5)")
	}
}

func TestSet_UnionIntersectDifference(t *testing.T) {
	var a, b Set
	a.Set(1)
	a.Set(2)
	b.Set(2)
	b.Set(3)

	u := a.Union(b)
	for _, e := range []Event{1, 2, 3} {
		if !u.Test(e) {
			t.Errorf("Union missing event %d", e)
		}
	}

	i := a.Intersect(b)
	if !i.Equal(func() Set { var s Set; s.Set(2); return s }()) {
		t.Errorf("Intersect = %v, want {2}", i.Events())
	}

	d := a.Difference(b)
	if !d.Equal(func() Set { var s Set; s.Set(1); return s }()) {
		t.Errorf("Difference = %v, want {1}", d.Events())
	}

	sd := a.SymmetricDifference(b)
	got := sd.Events()
	want := []Event{1, 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SymmetricDifference = %v, want %v", got, want)
	}
}

func TestSet_Popcount(t *testing.T) {
	var s Set
	if s.Popcount() != 0 {
		t.Fatalf("Popcount() = %d, want 0", s.Popcount())
	}
	for _, e := range []Event{0, 63, 64, 200, 255} {
		s.Set(e)
	}
	if s.Popcount() != 5 {
		t.Fatalf("Popcount() = %d, want 5", s.Popcount())
	}
}

func TestSet_ForEachOrder(t *testing.T) {
	var s Set
	for _, e := range []Event{200, 3, 64, 0, 129} {
		s.Set(e)
	}
	var got []Event
	s.ForEach(func(e Event) { got = append(got, e) })
	want := []Event{0, 3, 64, 129, 200}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ForEach order = %v, want %v", got, want)
	}
}

func TestFull(t *testing.T) {
	s := Full(10)
	if s.Popcount() != 10 {
		t.Fatalf("Popcount() = %d, want 10", s.Popcount())
	}
	for e := Event(0); e < 10; e++ {
		if !s.Test(e) {
			t.Errorf("Full(10) missing event %d", e)
		}
	}
	if s.Test(10) {
		t.Error("Full(10) contains event 10")
	}
}

func TestSet_IsEmptyAndEqual(t *testing.T) {
	var a, b Set
	if !a.IsEmpty() {
		t.Fatal("zero value should be empty")
	}
	a.Set(42)
	if a.IsEmpty() {
		t.Fatal("Set(42) should not be empty")
	}
	b.Set(42)
	if !a.Equal(b) {
		t.Fatal("a and b should be equal")
	}
}

func TestFull_PanicsOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range alphabet size")
		}
	}()
	Full(MaxEvents + 1)
}

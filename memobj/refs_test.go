package memobj

import (
	"testing"

	"github.com/partite-ai/refgo/ref"
)

// TestRefLifecycle walks one object through two owners: the count is 1 on
// creation, 2 after the clone, 1 after the first Close and 0 after the
// last, at which point the object is gone.
func TestRefLifecycle(t *testing.T) {
	s := New()
	h := s.NewString("shared")

	first := ref.Adopt(h)
	if got := h.RefCount(); got != 1 {
		t.Errorf("RefCount() after adopt = %d, want 1", got)
	}

	second := first.Clone()
	if got := h.RefCount(); got != 2 {
		t.Errorf("RefCount() after clone = %d, want 2", got)
	}

	first.Close()
	if got := h.RefCount(); got != 1 {
		t.Errorf("RefCount() after first Close = %d, want 1", got)
	}
	if got := StringValue(second.Get()); got != "shared" {
		t.Errorf("StringValue() = %q, want %q", got, "shared")
	}

	second.Close()
	if got := s.Stats().Live; got != 0 {
		t.Errorf("Live = %d, want 0", got)
	}
}

func TestClassRefShorthand(t *testing.T) {
	s := New()

	var r StringRef
	r.Reset(s.NewString("x"))
	if !r.Valid() {
		t.Fatal("Valid() = false after Reset, want true")
	}

	obj := ref.Retain(r.Get().Object())
	if got := obj.Get().TypeID(); got != TypeString {
		t.Errorf("TypeID() = %v, want %v", got, TypeString)
	}

	obj.Close()
	r.Close()
	if got := s.Stats().Live; got != 0 {
		t.Errorf("Live = %d, want 0", got)
	}
}

// TestScopedMemberAccess promotes a get-rule container member to an owned
// handle for the duration of a callback.
func TestScopedMemberAccess(t *testing.T) {
	s := New()
	m := s.NewNumber(5)
	arr := ref.Adopt(s.NewArray(m.Object()))
	m.Release()

	var got float64
	ref.WithRetained(ArrayAt(arr.Get(), 0), func(h ObjectHandle) {
		n, ok := As[Number](h)
		if !ok {
			t.Fatal("member is not a number")
		}
		got = NumberValue(n)
	})
	if got != 5 {
		t.Errorf("member value = %v, want 5", got)
	}

	arr.Close()
	if live := s.Stats().Live; live != 0 {
		t.Errorf("Live = %d, want 0", live)
	}
}

func TestRefEquality(t *testing.T) {
	s := New()
	a := ref.Adopt(s.NewString("v"))
	b := ref.Adopt(s.NewString("v"))
	c := ref.Adopt(s.NewString("w"))

	if !a.Equal(&b) {
		t.Error("Equal() = false for equal strings, want true")
	}
	if a.Equal(&c) {
		t.Error("Equal() = true for different strings, want false")
	}

	var empty StringRef
	if a.Equal(&empty) {
		t.Error("Equal() = true against an empty ref, want false")
	}

	a.Close()
	b.Close()
	c.Close()
}

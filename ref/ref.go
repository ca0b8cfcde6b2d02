// Package ref provides scope-bound ownership of handles issued by
// reference-counted object systems.
//
// A Ref holds at most one handle and owns exactly one claim on it: one
// matching Release call over the handle's lifetime within this Ref. Shared
// ownership is expressed by multiple Refs each retaining and releasing
// independently, never by a count kept in the wrapper. Refs must be disposed
// with Close; a runtime cleanup releases claims whose Ref was collected
// without Close, but that is a backstop for bugs, not a substitute for it.
package ref

import "runtime"

// Handle is the constraint satisfied by handle types of a reference-counted
// object system. The zero value of T is the null handle; all other values
// designate a live object in that system.
type Handle[T any] interface {
	comparable

	// Retain increments the reference count and returns a handle usable
	// identically to the receiver.
	Retain() T

	// Release decrements the reference count, deallocating the referenced
	// object when it reaches zero.
	Release()

	// Equal reports whether two handles refer to equal objects.
	Equal(T) bool
}

// Ref owns at most one claim on a handle of type T. The zero value is an
// empty Ref and all methods are safe to call on it.
//
// Assigning a Ref to another variable aliases the same claim rather than
// creating a new one; clearing operations through either alias are observed
// by both. Use Clone for an independent claim.
type Ref[T Handle[T]] struct {
	d *refData[T]
}

type refData[T Handle[T]] struct {
	claim *claim[T]
}

// claim is the storage a Ref's cleanup watches. It must not reference the
// refData it belongs to.
type claim[T Handle[T]] struct {
	h T
}

// Adopt returns a Ref owning the claim the caller already holds on h. No
// acquire call is made. Adopting the zero handle returns an empty Ref.
func Adopt[T Handle[T]](h T) Ref[T] {
	if h == zero[T]() {
		return Ref[T]{}
	}
	var r Ref[T]
	r.ensure().h = h
	return r
}

// Retain returns a Ref owning a new, independent claim on h: if h is
// non-null, one acquire call is issued and its result is stored.
func Retain[T Handle[T]](h T) Ref[T] {
	if h == zero[T]() {
		return Ref[T]{}
	}
	return Adopt(h.Retain())
}

// Move transfers src's claim to the returned Ref and leaves src empty. No
// acquire or release calls are made.
func Move[T Handle[T]](src *Ref[T]) Ref[T] {
	if src == nil {
		return Ref[T]{}
	}
	return Adopt(src.Take())
}

func (r *Ref[T]) ensure() *claim[T] {
	if r.d == nil {
		c := &claim[T]{}
		r.d = &refData[T]{claim: c}
		runtime.AddCleanup(r.d, releaseLeaked[T], c)
	}
	return r.d.claim
}

// Close releases the held handle, if any, and leaves the Ref empty. Closing
// an empty Ref is a no-op, so Close is idempotent.
func (r *Ref[T]) Close() {
	if r.d == nil {
		return
	}
	r.Reset(zero[T]())
}

// Reset releases the currently held handle, if any, and stores h as-is. The
// Ref takes over the caller's existing claim on h; no acquire call is made.
// Passing a handle the caller does not separately own leads to a later
// double release.
func (r *Ref[T]) Reset(h T) {
	c := r.ensure()
	old := c.h
	c.h = h
	if old != zero[T]() {
		old.Release()
	}
}

// Put releases the currently held handle, if any, stores the null handle and
// returns the address of the internal storage slot, so a producer can
// deposit an owned handle directly into the Ref. The Ref assumes
// responsibility for releasing whatever is deposited. The returned pointer
// must not outlive the Ref.
func (r *Ref[T]) Put() *T {
	c := r.ensure()
	old := c.h
	c.h = zero[T]()
	if old != zero[T]() {
		old.Release()
	}
	return &c.h
}

// Take relinquishes ownership of the held handle and returns it, leaving the
// Ref empty. No release call is made; the caller assumes responsibility for
// exactly one future release. Take is the inverse of Adopt.
func (r *Ref[T]) Take() T {
	if r.d == nil {
		return zero[T]()
	}
	h := r.d.claim.h
	r.d.claim.h = zero[T]()
	return h
}

// Swap exchanges the handles held by r and other. Ownership is relocated
// between the two Refs, so no acquire or release calls are made.
func (r *Ref[T]) Swap(other *Ref[T]) {
	if other == nil || (r.d == nil && other.d == nil) {
		return
	}
	a := r.ensure()
	b := other.ensure()
	a.h, b.h = b.h, a.h
}

// Get returns the held handle without transferring ownership. The handle is
// only valid while the Ref still owns it.
func (r *Ref[T]) Get() T {
	if r.d == nil {
		return zero[T]()
	}
	return r.d.claim.h
}

// Valid reports whether the Ref holds a non-null handle.
func (r *Ref[T]) Valid() bool {
	return r.Get() != zero[T]()
}

// Clone returns a Ref owning a new, independent claim on the same handle:
// one acquire call is issued. Cloning an empty Ref returns an empty Ref.
func (r *Ref[T]) Clone() Ref[T] {
	return Retain(r.Get())
}

// CopyFrom replaces r's claim with a new, independent claim on other's
// handle, releasing the previous one. The new claim is acquired before the
// old handle is released, so copying a Ref from itself, or from an alias of
// itself, is safe.
func (r *Ref[T]) CopyFrom(other *Ref[T]) {
	if r == other || (other != nil && r.d != nil && r.d == other.d) {
		return
	}
	var h T
	if other != nil {
		if oh := other.Get(); oh != zero[T]() {
			h = oh.Retain()
		}
	}
	r.Reset(h)
}

// MoveFrom transfers other's claim to r, releasing r's previous handle and
// leaving other empty. Moving a Ref from itself, or from an alias of itself,
// is a no-op.
func (r *Ref[T]) MoveFrom(other *Ref[T]) {
	if r == other || (other != nil && r.d != nil && r.d == other.d) {
		return
	}
	var h T
	if other != nil {
		h = other.Take()
	}
	r.Reset(h)
}

// Equal reports whether the two Refs hold equal handles. Two empty Refs are
// equal; an empty and a non-empty Ref never are. Non-null handles are
// compared with the object system's equality primitive, not by identity.
func (r *Ref[T]) Equal(other *Ref[T]) bool {
	var oh T
	if other != nil {
		oh = other.Get()
	}
	return r.EqualHandle(oh)
}

// EqualHandle is Equal against a raw handle, which may be the zero handle.
func (r *Ref[T]) EqualHandle(h T) bool {
	rh := r.Get()
	if rh == zero[T]() {
		return h == zero[T]()
	}
	if h == zero[T]() {
		return false
	}
	return rh.Equal(h)
}

func zero[T any]() T {
	var zero T
	return zero
}

package memobj

// Handle designates an object of class C held by a System. The zero value
// is the null handle, which designates nothing. Handle satisfies the ref
// package's Handle constraint.
type Handle[C Class] struct {
	sys *System
	id  uint32
}

func (h Handle[C]) system() *System {
	if h.sys == nil {
		panic("memobj: use of null handle")
	}
	return h.sys
}

// Retain increments the object's reference count and returns the handle.
// The caller takes on responsibility for one matching Release.
func (h Handle[C]) Retain() Handle[C] {
	h.system().retain(h.id)
	return h
}

// Release decrements the object's reference count. At zero the object is
// deallocated and the claims it held on container members are dropped.
func (h Handle[C]) Release() {
	h.system().release(h.id)
}

// Equal reports whether the two handles designate equal objects. Scalars
// compare by value, containers member-wise by the same relation. Erased
// handles of different runtime classes are never equal.
func (h Handle[C]) Equal(o Handle[C]) bool {
	s := h.system()
	if o.system() != s {
		panic("memobj: handle belongs to a different system")
	}
	return s.equal(h.id, o.id)
}

// TypeID returns the runtime class of the designated object, or TypeInvalid
// for the null handle.
func (h Handle[C]) TypeID() TypeID {
	if h.sys == nil {
		return TypeInvalid
	}
	return h.sys.typeOf(h.id)
}

// RefCount returns the object's current reference count, or zero for the
// null handle. It is meant for tests and diagnostics.
func (h Handle[C]) RefCount() int {
	if h.sys == nil {
		return 0
	}
	return h.sys.refCount(h.id)
}

// Object erases the handle's class.
func (h Handle[C]) Object() Handle[Object] {
	return Handle[Object]{sys: h.sys, id: h.id}
}

// As converts an erased handle back to class C, reporting false when the
// designated object is not of that class. The null handle is not of any
// class.
func As[C Class](h Handle[Object]) (Handle[C], bool) {
	if h.sys == nil {
		return Handle[C]{}, false
	}
	if id := classIDOf[C](); id != TypeInvalid && h.sys.typeOf(h.id) != id {
		return Handle[C]{}, false
	}
	return Handle[C]{sys: h.sys, id: h.id}, true
}

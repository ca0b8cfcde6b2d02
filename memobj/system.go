// Package memobj implements an in-memory reference-counted object system.
//
// A System stores objects of a small set of classes in a slot table. Every
// constructor returns a handle with a reference count of one owned by the
// caller; containers retain their members for as long as they live and
// release them on deallocation. Handles satisfy the ref package's Handle
// constraint, so ownership is usually managed through ref.Ref rather than
// by calling Retain and Release directly.
package memobj

import (
	"sync"

	"github.com/go-logr/logr"
	"go.uber.org/atomic"
)

const maxObjects = 1 << 28

// System is a reference-counted object store. All methods are safe for
// concurrent use.
type System struct {
	mu    sync.Mutex
	slots []slot
	free  []uint32
	live  [numTypes]int64

	log logr.Logger

	allocs   atomic.Int64
	frees    atomic.Int64
	retains  atomic.Int64
	releases atomic.Int64
}

// Option configures a System.
type Option func(*System)

// WithLogger sets the logger for object lifecycle events. The default
// discards.
func WithLogger(log logr.Logger) Option {
	return func(s *System) {
		s.log = log
	}
}

// New returns an empty System.
func New(opts ...Option) *System {
	s := &System{
		log: logr.Discard(),
		// Slot 0 is reserved so a handle id of zero is never valid.
		slots: make([]slot, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// slot holds one object. A slot with class TypeInvalid is free.
type slot struct {
	class TypeID
	refs  int32
	value any
}

// dictEntry pairs member ids inside a dict slot.
type dictEntry struct {
	key, val uint32
}

// The unexported methods below require s.mu to be held unless noted.

func (s *System) slotOf(id uint32) *slot {
	if id == 0 || id >= uint32(len(s.slots)) {
		panic("memobj: invalid handle")
	}
	sl := &s.slots[id]
	if sl.class == TypeInvalid {
		panic("memobj: use of freed object")
	}
	return sl
}

// checkedSlot is slotOf plus a class check, which catches handles whose
// slot was freed and reused for an object of another class.
func (s *System) checkedSlot(id uint32, class TypeID) *slot {
	sl := s.slotOf(id)
	if sl.class != class {
		panic("memobj: use of freed object")
	}
	return sl
}

func (s *System) alloc(class TypeID, value any) uint32 {
	var id uint32
	if n := len(s.free); n > 0 {
		id = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		if len(s.slots) >= maxObjects {
			panic("memobj: object table full")
		}
		id = uint32(len(s.slots))
		s.slots = append(s.slots, slot{})
	}
	s.slots[id] = slot{class: class, refs: 1, value: value}
	s.allocs.Inc()
	s.live[class]++
	s.log.V(1).Info("object allocated", "class", class, "id", id)
	return id
}

func (s *System) retainLocked(id uint32) {
	s.slotOf(id).refs++
	s.retains.Inc()
}

func (s *System) releaseLocked(id uint32) {
	sl := s.slotOf(id)
	s.releases.Inc()
	sl.refs--
	if sl.refs > 0 {
		return
	}
	s.freeObject(id, sl)
}

// freeObject returns id's slot to the free list and drops the claims the
// object held on its members. The member graph is acyclic by construction,
// so the recursion terminates.
func (s *System) freeObject(id uint32, sl *slot) {
	class, value := sl.class, sl.value
	*sl = slot{}
	s.free = append(s.free, id)
	s.frees.Inc()
	s.live[class]--
	s.log.V(1).Info("object freed", "class", class, "id", id)
	switch class {
	case TypeArray, TypeSet:
		for _, m := range value.([]uint32) {
			s.releaseLocked(m)
		}
	case TypeDict:
		for _, e := range value.([]dictEntry) {
			s.releaseLocked(e.key)
			s.releaseLocked(e.val)
		}
	}
}

// checkHandle validates that m is a non-null handle of this system. It does
// not require s.mu.
func (s *System) checkHandle(m Handle[Object]) {
	if m.sys == nil {
		panic("memobj: use of null handle")
	}
	if m.sys != s {
		panic("memobj: handle belongs to a different system")
	}
}

// checkMember is checkHandle plus a liveness check.
func (s *System) checkMember(m Handle[Object]) {
	s.checkHandle(m)
	s.slotOf(m.id)
}

// The wrappers below take the lock themselves and back the Handle methods.

func (s *System) retain(id uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retainLocked(id)
}

func (s *System) release(id uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseLocked(id)
}

func (s *System) equal(a, b uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.equalLocked(a, b)
}

func (s *System) typeOf(id uint32) TypeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slotOf(id).class
}

func (s *System) refCount(id uint32) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int(s.slotOf(id).refs)
}

// Stats is a snapshot of a System's lifecycle counters.
type Stats struct {
	Live        int64
	Allocs      int64
	Frees       int64
	Retains     int64
	Releases    int64
	LiveByClass map[TypeID]int64
}

// Stats returns a consistent snapshot of the system's counters.
func (s *System) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Stats{
		Allocs:      s.allocs.Load(),
		Frees:       s.frees.Load(),
		Retains:     s.retains.Load(),
		Releases:    s.releases.Load(),
		LiveByClass: make(map[TypeID]int64, numTypes-1),
	}
	for c := TypeNull; c < numTypes; c++ {
		st.LiveByClass[c] = s.live[c]
		st.Live += s.live[c]
	}
	return st
}

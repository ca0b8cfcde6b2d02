package memobj

import (
	"bytes"
	"time"
)

func newHandle[C Class](s *System, value any) Handle[C] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Handle[C]{sys: s, id: s.alloc(classIDOf[C](), value)}
}

// NewNull creates a null-class object. All null objects are equal to each
// other.
func (s *System) NewNull() Handle[Null] {
	return newHandle[Null](s, nil)
}

// NewBool creates a boolean object. As with every constructor, the caller
// owns the returned handle and must release it.
func (s *System) NewBool(v bool) Handle[Bool] {
	return newHandle[Bool](s, v)
}

// NewNumber creates a number object.
func (s *System) NewNumber(v float64) Handle[Number] {
	return newHandle[Number](s, v)
}

// NewString creates a string object.
func (s *System) NewString(v string) Handle[String] {
	return newHandle[String](s, v)
}

// NewData creates a byte buffer object holding a copy of b.
func (s *System) NewData(b []byte) Handle[Data] {
	return newHandle[Data](s, bytes.Clone(b))
}

// NewDate creates a date object.
func (s *System) NewDate(t time.Time) Handle[Date] {
	return newHandle[Date](s, t)
}

// NewUUID creates a UUID object.
func (s *System) NewUUID(u [16]byte) Handle[UUID] {
	return newHandle[UUID](s, u)
}

// NewArray creates an array holding members in order. The array retains
// every member and releases them when it is deallocated.
func (s *System) NewArray(members ...Handle[Object]) Handle[Array] {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range members {
		s.checkMember(m)
	}
	ids := make([]uint32, len(members))
	for i, m := range members {
		ids[i] = m.id
	}
	for _, id := range ids {
		s.retainLocked(id)
	}
	return Handle[Array]{sys: s, id: s.alloc(TypeArray, ids)}
}

// NewSet creates a set of the given members, treating members that compare
// equal as one. Only the members kept are retained.
func (s *System) NewSet(members ...Handle[Object]) Handle[Set] {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range members {
		s.checkMember(m)
	}
	var ids []uint32
	for _, m := range members {
		dup := false
		for _, id := range ids {
			if s.equalLocked(id, m.id) {
				dup = true
				break
			}
		}
		if !dup {
			ids = append(ids, m.id)
		}
	}
	for _, id := range ids {
		s.retainLocked(id)
	}
	return Handle[Set]{sys: s, id: s.alloc(TypeSet, ids)}
}

// Entry is a key-value pair for NewDict.
type Entry struct {
	Key, Value Handle[Object]
}

// NewDict creates a dictionary from entries. Keys must be distinct under
// object equality; a duplicate key panics. Keys and values are retained.
func (s *System) NewDict(entries ...Entry) Handle[Dict] {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.checkMember(e.Key)
		s.checkMember(e.Value)
	}
	es := make([]dictEntry, len(entries))
	for i, e := range entries {
		for j := range i {
			if s.equalLocked(es[j].key, e.Key.id) {
				panic("memobj: duplicate dict key")
			}
		}
		es[i] = dictEntry{key: e.Key.id, val: e.Value.id}
	}
	for _, e := range es {
		s.retainLocked(e.key)
		s.retainLocked(e.val)
	}
	return Handle[Dict]{sys: s, id: s.alloc(TypeDict, es)}
}

func value[V any, C Class](h Handle[C]) V {
	s := h.system()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkedSlot(h.id, classIDOf[C]()).value.(V)
}

// BoolValue returns the value of a boolean object.
func BoolValue(h Handle[Bool]) bool {
	return value[bool](h)
}

// NumberValue returns the value of a number object.
func NumberValue(h Handle[Number]) float64 {
	return value[float64](h)
}

// StringValue returns the value of a string object.
func StringValue(h Handle[String]) string {
	return value[string](h)
}

// DataValue returns a copy of a byte buffer object's contents.
func DataValue(h Handle[Data]) []byte {
	return bytes.Clone(value[[]byte](h))
}

// DateValue returns the value of a date object.
func DateValue(h Handle[Date]) time.Time {
	return value[time.Time](h)
}

// UUIDValue returns the value of a UUID object.
func UUIDValue(h Handle[UUID]) [16]byte {
	return value[[16]byte](h)
}

// ArrayLen returns the number of members of an array.
func ArrayLen(h Handle[Array]) int {
	return len(value[[]uint32](h))
}

// ArrayAt returns the member at index i without transferring ownership. The
// returned handle is valid only while the array keeps the member alive;
// retain it, or wrap it with ref.Retain, to use it beyond that.
func ArrayAt(h Handle[Array], i int) Handle[Object] {
	s := h.system()
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.checkedSlot(h.id, TypeArray).value.([]uint32)
	if i < 0 || i >= len(ids) {
		panic("memobj: array index out of range")
	}
	return Handle[Object]{sys: s, id: ids[i]}
}

// SetLen returns the number of members of a set.
func SetLen(h Handle[Set]) int {
	return len(value[[]uint32](h))
}

// SetContains reports whether the set has a member equal to m.
func SetContains(h Handle[Set], m Handle[Object]) bool {
	s := h.system()
	s.checkHandle(m)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.checkedSlot(h.id, TypeSet).value.([]uint32) {
		if s.equalLocked(id, m.id) {
			return true
		}
	}
	return false
}

// DictLen returns the number of entries of a dictionary.
func DictLen(h Handle[Dict]) int {
	return len(value[[]dictEntry](h))
}

// DictGet returns the value stored under a key equal to key, without
// transferring ownership, and reports whether the key was present.
func DictGet(h Handle[Dict], key Handle[Object]) (Handle[Object], bool) {
	s := h.system()
	s.checkHandle(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.checkedSlot(h.id, TypeDict).value.([]dictEntry) {
		if s.equalLocked(e.key, key.id) {
			return Handle[Object]{sys: s, id: e.val}, true
		}
	}
	return Handle[Object]{}, false
}

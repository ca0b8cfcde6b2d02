package memobj

import (
	"bytes"
	"time"
)

func (s *System) equalLocked(a, b uint32) bool {
	if a == b {
		return true
	}
	sa, sb := s.slotOf(a), s.slotOf(b)
	if sa.class != sb.class {
		return false
	}
	switch sa.class {
	case TypeNull:
		return true
	case TypeBool:
		return sa.value.(bool) == sb.value.(bool)
	case TypeNumber:
		return sa.value.(float64) == sb.value.(float64)
	case TypeString:
		return sa.value.(string) == sb.value.(string)
	case TypeData:
		return bytes.Equal(sa.value.([]byte), sb.value.([]byte))
	case TypeDate:
		return sa.value.(time.Time).Equal(sb.value.(time.Time))
	case TypeUUID:
		return sa.value.([16]byte) == sb.value.([16]byte)
	case TypeArray:
		return s.arraysEqualLocked(sa.value.([]uint32), sb.value.([]uint32))
	case TypeSet:
		return s.setsEqualLocked(sa.value.([]uint32), sb.value.([]uint32))
	case TypeDict:
		return s.dictsEqualLocked(sa.value.([]dictEntry), sb.value.([]dictEntry))
	}
	return false
}

func (s *System) arraysEqualLocked(x, y []uint32) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if !s.equalLocked(x[i], y[i]) {
			return false
		}
	}
	return true
}

// setsEqualLocked relies on set members being distinct, which the
// constructor guarantees, so equal size plus one-directional inclusion
// implies equality.
func (s *System) setsEqualLocked(x, y []uint32) bool {
	if len(x) != len(y) {
		return false
	}
	for _, xm := range x {
		found := false
		for _, ym := range y {
			if s.equalLocked(xm, ym) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (s *System) dictsEqualLocked(x, y []dictEntry) bool {
	if len(x) != len(y) {
		return false
	}
	for _, xe := range x {
		found := false
		for _, ye := range y {
			if s.equalLocked(xe.key, ye.key) {
				found = s.equalLocked(xe.val, ye.val)
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

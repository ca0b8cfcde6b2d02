package ref

import (
	"github.com/go-logr/logr"
	"go.uber.org/atomic"
)

var (
	leaks   atomic.Uint64
	leakLog = logr.Discard()
)

// SetLogger installs the logger used to report leaked Refs. The default
// discards. SetLogger is not safe to call concurrently with live Refs; set
// it during program initialization.
func SetLogger(log logr.Logger) {
	leakLog = log
}

// Leaks returns the number of claims released by the runtime cleanup because
// their Ref became unreachable without Close. A nonzero value indicates an
// ownership bug in the program.
func Leaks() uint64 {
	return leaks.Load()
}

// releaseLeaked runs once the Ref holding c is unreachable, so nothing else
// can touch the claim by then. The counter is bumped before the release so
// that anything observing the release sees it.
func releaseLeaked[T Handle[T]](c *claim[T]) {
	h := c.h
	if h == zero[T]() {
		return
	}
	c.h = zero[T]()
	leaks.Inc()
	leakLog.Info("ref was never closed, releasing leaked handle", "handle", h)
	h.Release()
}

// Package wasmobj adapts a WebAssembly guest module's reference-counting
// exports to the ref package's Handle constraint, so objects managed inside
// the guest can be owned by ref.Ref values on the host.
//
// The guest convention is three exports: retain with signature
// (i64) -> i64, release with (i64) -> (), and equals with (i64, i64) -> i32.
// Handles are opaque guest words; zero is the null handle and is never
// passed to the guest.
package wasmobj

import (
	"context"
	"fmt"
	"strings"

	"github.com/tetratelabs/wazero/api"
)

const (
	defaultRetainExport  = "retain"
	defaultReleaseExport = "release"
	defaultEqualsExport  = "equals"
)

// System calls into one guest module's reference-counting exports.
type System struct {
	ctx     context.Context
	mod     api.Module
	retain  api.Function
	release api.Function
	equals  api.Function
}

type config struct {
	retainExport  string
	releaseExport string
	equalsExport  string
}

// Option overrides the export names a System binds to.
type Option func(*config)

// WithRetainExport names the guest's retain export.
func WithRetainExport(name string) Option {
	return func(c *config) { c.retainExport = name }
}

// WithReleaseExport names the guest's release export.
func WithReleaseExport(name string) Option {
	return func(c *config) { c.releaseExport = name }
}

// WithEqualsExport names the guest's equals export.
func WithEqualsExport(name string) Option {
	return func(c *config) { c.equalsExport = name }
}

// New binds to mod's reference-counting exports, validating their
// signatures. ctx is used for every guest call the System makes.
func New(ctx context.Context, mod api.Module, opts ...Option) (*System, error) {
	cfg := config{
		retainExport:  defaultRetainExport,
		releaseExport: defaultReleaseExport,
		equalsExport:  defaultEqualsExport,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	retain, err := bindExport(mod, cfg.retainExport,
		[]api.ValueType{api.ValueTypeI64}, []api.ValueType{api.ValueTypeI64})
	if err != nil {
		return nil, err
	}
	release, err := bindExport(mod, cfg.releaseExport,
		[]api.ValueType{api.ValueTypeI64}, nil)
	if err != nil {
		return nil, err
	}
	equals, err := bindExport(mod, cfg.equalsExport,
		[]api.ValueType{api.ValueTypeI64, api.ValueTypeI64}, []api.ValueType{api.ValueTypeI32})
	if err != nil {
		return nil, err
	}
	return &System{
		ctx:     ctx,
		mod:     mod,
		retain:  retain,
		release: release,
		equals:  equals,
	}, nil
}

func bindExport(mod api.Module, name string, params, results []api.ValueType) (api.Function, error) {
	fn := mod.ExportedFunction(name)
	if fn == nil {
		return nil, fmt.Errorf("module %q has no export %q", mod.Name(), name)
	}
	def := fn.Definition()
	if !typesEqual(def.ParamTypes(), params) || !typesEqual(def.ResultTypes(), results) {
		return nil, fmt.Errorf("export %q has signature %s, want %s", name,
			signature(def.ParamTypes(), def.ResultTypes()), signature(params, results))
	}
	return fn, nil
}

func typesEqual(got, want []api.ValueType) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func signature(params, results []api.ValueType) string {
	names := func(types []api.ValueType) string {
		var b strings.Builder
		for i, t := range types {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(api.ValueTypeName(t))
		}
		return b.String()
	}
	return fmt.Sprintf("(%s) -> (%s)", names(params), names(results))
}

// Module returns the guest module the System is bound to.
func (s *System) Module() api.Module {
	return s.mod
}

// Handle wraps a raw guest handle word the caller holds a claim on. Zero
// wraps to the null handle.
func (s *System) Handle(raw uint64) Handle {
	if raw == 0 {
		return Handle{}
	}
	return Handle{sys: s, raw: raw}
}

// Handle designates an object inside a guest module. The zero value is the
// null handle. Handle satisfies the ref package's Handle constraint; a
// trapped or failed guest call panics, as there is no way to uphold
// counting invariants past one.
type Handle struct {
	sys *System
	raw uint64
}

// Raw returns the guest handle word, zero for the null handle.
func (h Handle) Raw() uint64 {
	return h.raw
}

func (h Handle) system() *System {
	if h.sys == nil {
		panic("wasmobj: use of null handle")
	}
	return h.sys
}

// Retain calls the guest's retain export and returns the handle it yields.
func (h Handle) Retain() Handle {
	s := h.system()
	results, err := s.retain.Call(s.ctx, h.raw)
	if err != nil {
		panic(fmt.Errorf("wasmobj: guest retain failed: %w", err))
	}
	return s.Handle(results[0])
}

// Release calls the guest's release export.
func (h Handle) Release() {
	s := h.system()
	if _, err := s.release.Call(s.ctx, h.raw); err != nil {
		panic(fmt.Errorf("wasmobj: guest release failed: %w", err))
	}
}

// Equal calls the guest's equals export. Handles bound to different guest
// modules cannot be compared and panic.
func (h Handle) Equal(o Handle) bool {
	s := h.system()
	if o.system() != s {
		panic("wasmobj: handles from different modules")
	}
	results, err := s.equals.Call(s.ctx, h.raw, o.raw)
	if err != nil {
		panic(fmt.Errorf("wasmobj: guest equals failed: %w", err))
	}
	return api.DecodeU32(results[0]) != 0
}

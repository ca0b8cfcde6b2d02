package ref

// With adopts the caller's claim on h for the duration of fn and releases it
// afterwards, even if fn panics.
func With[T Handle[T]](h T, fn func(T)) {
	r := Adopt(h)
	defer r.Close()
	fn(h)
}

// WithRetained acquires a new claim on h for the duration of fn and releases
// it afterwards, even if fn panics. The caller's own claim, if any, is
// untouched. fn receives the retained handle.
func WithRetained[T Handle[T]](h T, fn func(T)) {
	r := Retain(h)
	defer r.Close()
	fn(r.Get())
}

package value

import "github.com/wrenfold/resonance/parameter"

// CachedValue holds a Value[T] plus the last T it successfully resolved
// to. Update re-evaluates the Value against the given Parameters registry,
// and overwrites the cached result unless the Value is bound to a
// parameter that no longer exists -- so a removed parameter freezes the
// setting at its last known value instead of snapping to a zero.
type CachedValue[T any] struct {
	v      Value[T]
	cached T
}

// NewCachedValue creates a CachedValue, immediately resolving v against
// params if it is bound (falling back to the zero value of T if the
// parameter does not exist yet).
func NewCachedValue[T any](v Value[T], params *parameter.Parameters) *CachedValue[T] {
	c := &CachedValue[T]{v: v}
	c.Update(params)
	return c
}

// Set replaces the underlying Value and re-resolves it immediately.
func (c *CachedValue[T]) Set(v Value[T], params *parameter.Parameters) {
	c.v = v
	c.Update(params)
}

// Update re-evaluates the cached value against params.
func (c *CachedValue[T]) Update(params *parameter.Parameters) {
	if resolved, ok := c.v.resolve(params); ok {
		c.cached = resolved
	}
}

// Value returns the last successfully resolved value.
func (c *CachedValue[T]) Value() T {
	return c.cached
}

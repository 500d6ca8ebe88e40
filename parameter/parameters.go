package parameter

import (
	"time"

	"github.com/wrenfold/resonance/arena"
	"github.com/wrenfold/resonance/clock"
)

// Parameters is the renderer-side registry of every live Parameter. It is
// what CachedValue.Update consults to resolve a Value bound to a
// parameter id.
type Parameters struct {
	arena *arena.Arena[*Parameter]
}

// NewRegistry creates a Parameters registry with room for capacity
// parameters.
func NewRegistry(capacity int) *Parameters {
	return &Parameters{arena: arena.New[*Parameter](capacity)}
}

// Controller returns the arena controller for reserving Ids on the control
// side.
func (p *Parameters) Controller() arena.Controller[*Parameter] {
	return p.arena.Controller()
}

// Insert stores param at a previously reserved key.
func (p *Parameters) Insert(key arena.Key, param *Parameter) {
	p.arena.InsertWithKey(key, param)
}

// Get returns the parameter at id, if it is still live.
func (p *Parameters) Get(id Id) (*Parameter, bool) {
	return p.arena.Get(arena.Key(id))
}

// Remove evicts the parameter at id.
func (p *Parameters) Remove(id Id) (*Parameter, bool) {
	return p.arena.Remove(arena.Key(id))
}

// Value looks up id's current value, returning ok=false if the parameter
// no longer exists -- the caller (CachedValue) falls back to its last
// sampled value in that case.
func (p *Parameters) Value(id Id) (float64, bool) {
	param, ok := p.arena.Get(arena.Key(id))
	if !ok {
		return 0, false
	}
	return param.Value(), true
}

// OnStartProcessing drains every parameter's command queue once per block.
func (p *Parameters) OnStartProcessing() {
	p.arena.ForEach(func(_ arena.Key, param **Parameter) {
		(*param).OnStartProcessing()
	})
}

// Update advances every parameter's tween by dt.
func (p *Parameters) Update(dt time.Duration, clocks *clock.Clocks) {
	p.arena.ForEach(func(_ arena.Key, param **Parameter) {
		(*param).Update(dt, clocks)
	})
}

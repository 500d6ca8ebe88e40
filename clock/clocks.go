package clock

import (
	"time"

	"github.com/wrenfold/resonance/arena"
)

// Clocks is the renderer-side registry of all live Clock resources. It is
// also consulted by tweens and parameters to resolve clock-gated start
// times and read tick counts.
type Clocks struct {
	arena *arena.Arena[*Clock]
}

// NewRegistry creates a Clocks registry with room for capacity clocks.
func NewRegistry(capacity int) *Clocks {
	return &Clocks{arena: arena.New[*Clock](capacity)}
}

// Controller returns the arena controller used to reserve Ids from the
// control side.
func (c *Clocks) Controller() arena.Controller[*Clock] {
	return c.arena.Controller()
}

// Insert stores clk at key, previously reserved via Controller.
func (c *Clocks) Insert(key arena.Key, clk *Clock) {
	c.arena.InsertWithKey(key, clk)
}

// Get returns the clock at id, if it is still live.
func (c *Clocks) Get(id Id) (*Clock, bool) {
	return c.arena.Get(arena.Key(id))
}

// Remove evicts the clock at id.
func (c *Clocks) Remove(id Id) (*Clock, bool) {
	return c.arena.Remove(arena.Key(id))
}

// OnStartProcessing drains every clock's command queue once per block.
func (c *Clocks) OnStartProcessing() {
	c.arena.ForEach(func(_ arena.Key, clk **Clock) {
		(*clk).OnStartProcessing()
	})
}

// Update advances every clock by dt. Clocks must be updated before tweens
// and parameters read their tick counts for this sample, since a
// clock-gated start time is only satisfied once the tick has actually
// occurred.
func (c *Clocks) Update(dt time.Duration) {
	c.arena.ForEach(func(_ arena.Key, clk **Clock) {
		(*clk).Update(dt)
	})
}

// HasTicked reports whether the clock identified by t.Clock exists and has
// reached at least t.Ticks ticks. A removed or never-existing clock causes
// this to return false forever, matching the "silent no-op on removed
// clock" rule.
func (c *Clocks) HasTicked(t Time) bool {
	clk, ok := c.arena.Get(arena.Key(t.Clock))
	if !ok {
		return false
	}
	return clk.Ticks() >= t.Ticks
}

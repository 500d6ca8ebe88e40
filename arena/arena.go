// Package arena implements the fixed-capacity, generational slot allocator
// used everywhere a renderer-side resource (sound, sub-track, clock,
// parameter) needs a key that stays valid across removal and reuse without
// the renderer ever allocating.
package arena

import (
	"fmt"
	"sync"
)

// Key identifies a slot in an Arena. It stays valid until the slot holding
// it is removed; after removal the index may be reused but the generation
// will have advanced, so a stale Key never accidentally resolves to the new
// occupant.
type Key struct {
	index      uint32
	generation uint32
}

func (k Key) String() string {
	return fmt.Sprintf("Key(%d:%d)", k.index, k.generation)
}

// ErrArenaFull is returned when Insert is attempted against an Arena that
// has no free slots. Callers hit this at construction time only — it is a
// programmer-visible capacity error, not a transient condition.
var ErrArenaFull = fmt.Errorf("arena: at capacity")

type slot[T any] struct {
	generation uint32
	occupied   bool
	value      T
}

// Arena is a fixed-capacity collection of T, indexed by Key. It never grows
// past the capacity given to New, which makes every operation safe to call
// from the renderer: no allocation happens after construction.
//
// Reserve (called from any control-side goroutine) and Remove/DrainFilter
// (called from the renderer) both mutate the free list and bump slot
// generations, so that bookkeeping is the one piece of an Arena guarded by
// a mutex; the renderer's own per-block Get/ForEach/InsertWithKey/Update
// traffic never touches the free list and stays lock-free.
type Arena[T any] struct {
	slots     []slot[T]
	freeList  []uint32
	freeMu    sync.Mutex
	liveCount int
}

// New creates an Arena with room for capacity values.
func New[T any](capacity int) *Arena[T] {
	a := &Arena[T]{
		slots:    make([]slot[T], capacity),
		freeList: make([]uint32, 0, capacity),
	}
	for i := capacity - 1; i >= 0; i-- {
		a.freeList = append(a.freeList, uint32(i))
	}
	return a
}

// Capacity returns the maximum number of live values the arena can hold.
func (a *Arena[T]) Capacity() int {
	return len(a.slots)
}

// Len returns the number of currently occupied slots.
func (a *Arena[T]) Len() int {
	return a.liveCount
}

// Controller reserves keys on the control side without requiring mutable
// access to the arena's values. It shares the arena's free list and
// generation counter, mirroring the split between control-side handle
// construction and renderer-side storage.
type Controller[T any] struct {
	a *Arena[T]
}

// Controller returns a Controller bound to this arena.
func (a *Arena[T]) Controller() Controller[T] {
	return Controller[T]{a: a}
}

// Reserve allocates a Key without storing a value yet. The caller must
// eventually either Insert a value at this key (via InsertWithKey) or let it
// lapse; a reserved-but-never-inserted key behaves as absent to Get.
func (c Controller[T]) Reserve() (Key, error) {
	return c.a.reserve()
}

func (a *Arena[T]) reserve() (Key, error) {
	a.freeMu.Lock()
	defer a.freeMu.Unlock()
	if len(a.freeList) == 0 {
		return Key{}, ErrArenaFull
	}
	idx := a.freeList[len(a.freeList)-1]
	a.freeList = a.freeList[:len(a.freeList)-1]
	gen := a.slots[idx].generation
	return Key{index: idx, generation: gen}, nil
}

// Insert stores value in the next free slot and returns its Key.
func (a *Arena[T]) Insert(value T) (Key, error) {
	key, err := a.reserve()
	if err != nil {
		return Key{}, err
	}
	a.commit(key, value)
	return key, nil
}

// InsertWithKey stores value at a Key previously obtained from Reserve. It
// panics if key was not reserved from this arena and is not currently free
// with a matching generation — that would indicate a programmer error in
// key bookkeeping, not a runtime condition.
func (a *Arena[T]) InsertWithKey(key Key, value T) {
	if int(key.index) >= len(a.slots) || a.slots[key.index].generation != key.generation || a.slots[key.index].occupied {
		panic(fmt.Sprintf("arena: InsertWithKey called with invalid key %s", key))
	}
	a.commit(key, value)
}

func (a *Arena[T]) commit(key Key, value T) {
	a.slots[key.index].occupied = true
	a.slots[key.index].value = value
	a.liveCount++
}

// Get returns the value at key and true, or the zero value and false if key
// is stale or was never occupied.
func (a *Arena[T]) Get(key Key) (T, bool) {
	var zero T
	if int(key.index) >= len(a.slots) {
		return zero, false
	}
	s := &a.slots[key.index]
	if !s.occupied || s.generation != key.generation {
		return zero, false
	}
	return s.value, true
}

// GetPtr returns a pointer to the value at key for in-place mutation, or nil
// if key is stale. The pointer is only valid until the next Remove.
func (a *Arena[T]) GetPtr(key Key) *T {
	if int(key.index) >= len(a.slots) {
		return nil
	}
	s := &a.slots[key.index]
	if !s.occupied || s.generation != key.generation {
		return nil
	}
	return &s.value
}

// Remove evicts the value at key, advancing its generation so any
// previously issued Key for that slot becomes permanently stale. Returns
// the removed value and true, or the zero value and false if key was
// already stale.
func (a *Arena[T]) Remove(key Key) (T, bool) {
	var zero T
	if int(key.index) >= len(a.slots) {
		return zero, false
	}
	s := &a.slots[key.index]
	if !s.occupied || s.generation != key.generation {
		return zero, false
	}
	value := s.value
	s.value = zero
	s.occupied = false
	a.liveCount--

	a.freeMu.Lock()
	s.generation++
	a.freeList = append(a.freeList, key.index)
	a.freeMu.Unlock()
	return value, true
}

// Keys returns every currently occupied key, in slot order. It allocates,
// so it must only be called from the control side.
func (a *Arena[T]) Keys() []Key {
	keys := make([]Key, 0, a.liveCount)
	for i := range a.slots {
		if a.slots[i].occupied {
			keys = append(keys, Key{index: uint32(i), generation: a.slots[i].generation})
		}
	}
	return keys
}

// DrainFilter removes every occupied value for which keep returns false.
// keep is called once per occupied slot, in order, and is itself the
// removal side effect's hook -- a caller that needs to observe what's
// being evicted does so inside keep before returning false. It is the
// mechanism the renderer uses to batch-evict resources that have signaled
// they are finished (see the Shared "marked for removal" flag used by
// tracks and sounds).
func (a *Arena[T]) DrainFilter(keep func(Key, *T) bool) {
	for i := range a.slots {
		s := &a.slots[i]
		if !s.occupied {
			continue
		}
		key := Key{index: uint32(i), generation: s.generation}
		if !keep(key, &s.value) {
			var zero T
			s.value = zero
			s.occupied = false
			a.liveCount--

			a.freeMu.Lock()
			s.generation++
			a.freeList = append(a.freeList, key.index)
			a.freeMu.Unlock()
		}
	}
}

// ForEach calls fn for every occupied value, in slot order. Safe for the
// renderer's per-block iteration since it performs no allocation.
func (a *Arena[T]) ForEach(fn func(Key, *T)) {
	for i := range a.slots {
		if a.slots[i].occupied {
			fn(Key{index: uint32(i), generation: a.slots[i].generation}, &a.slots[i].value)
		}
	}
}

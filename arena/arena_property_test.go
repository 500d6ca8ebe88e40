package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// Test_arenaStaysConsistentUnderRandomInsertRemove runs a sequence of
// randomly-interleaved Insert/Remove operations against a small fixed-
// capacity arena and checks that the two invariants the rest of the
// renderer leans on always hold: a key returned by Insert resolves until
// its own Remove, and once removed it never resolves again even after its
// slot is reused by a later Insert.
func Test_arenaStaysConsistentUnderRandomInsertRemove(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		const capacity = 4
		a := New[int](capacity)

		var live []Key
		var dead []Key
		nextValue := 0

		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			doInsert := rapid.Bool().Draw(t, "doInsert")
			if doInsert || len(live) == 0 {
				key, err := a.Insert(nextValue)
				if err != nil {
					assert.ErrorIs(t, err, ErrArenaFull)
					assert.Equal(t, capacity, a.Len(), "Insert can only fail once every slot is occupied")
					continue
				}
				nextValue++
				live = append(live, key)
				continue
			}

			idx := rapid.IntRange(0, len(live)-1).Draw(t, "removeIdx")
			key := live[idx]
			live = append(live[:idx], live[idx+1:]...)

			_, ok := a.Remove(key)
			assert.True(t, ok, "a live key must still be removable")
			dead = append(dead, key)
		}

		for _, key := range live {
			_, ok := a.Get(key)
			assert.True(t, ok, "a never-removed key must still resolve")
		}
		for _, key := range dead {
			_, ok := a.Get(key)
			assert.False(t, ok, "a removed key must never resolve again, even if its slot was reused")
		}
		assert.Equal(t, len(live), a.Len())
	})
}

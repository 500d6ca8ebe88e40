package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertGetRemove(t *testing.T) {
	a := New[string](4)

	k1, err := a.Insert("one")
	require.NoError(t, err)
	k2, err := a.Insert("two")
	require.NoError(t, err)

	v, ok := a.Get(k1)
	require.True(t, ok)
	assert.Equal(t, "one", v)

	_, ok = a.Remove(k1)
	require.True(t, ok)

	_, ok = a.Get(k1)
	assert.False(t, ok, "removed key must not resolve")

	v, ok = a.Get(k2)
	require.True(t, ok)
	assert.Equal(t, "two", v)
}

func TestStaleKeyAfterReuse(t *testing.T) {
	a := New[int](1)

	k1, err := a.Insert(1)
	require.NoError(t, err)
	_, ok := a.Remove(k1)
	require.True(t, ok)

	k2, err := a.Insert(2)
	require.NoError(t, err)
	assert.Equal(t, k1.index, k2.index, "freed slot should be reused")
	assert.NotEqual(t, k1.generation, k2.generation, "generation must advance on reuse")

	_, ok = a.Get(k1)
	assert.False(t, ok, "stale key must never resolve to the new occupant")

	v, ok := a.Get(k2)
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestArenaFull(t *testing.T) {
	a := New[int](2)
	_, err := a.Insert(1)
	require.NoError(t, err)
	_, err = a.Insert(2)
	require.NoError(t, err)

	_, err = a.Insert(3)
	assert.ErrorIs(t, err, ErrArenaFull)
}

func TestReserveThenInsertWithKey(t *testing.T) {
	a := New[int](2)
	ctrl := a.Controller()

	key, err := ctrl.Reserve()
	require.NoError(t, err)

	_, ok := a.Get(key)
	assert.False(t, ok, "a reserved-but-uninserted key must behave as absent")

	a.InsertWithKey(key, 42)
	v, ok := a.Get(key)
	require.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestDrainFilter(t *testing.T) {
	a := New[int](4)
	var keys []Key
	for i := 0; i < 4; i++ {
		k, err := a.Insert(i)
		require.NoError(t, err)
		keys = append(keys, k)
	}

	a.DrainFilter(func(_ Key, v *int) bool {
		return *v%2 == 0
	})

	assert.Equal(t, 2, a.Len())
	for i, k := range keys {
		_, ok := a.Get(k)
		assert.Equal(t, i%2 == 0, ok)
	}
}

func TestForEachVisitsEveryOccupiedSlot(t *testing.T) {
	a := New[int](4)
	for i := 0; i < 3; i++ {
		_, err := a.Insert(i * 10)
		require.NoError(t, err)
	}

	seen := 0
	a.ForEach(func(_ Key, v *int) {
		seen++
	})
	assert.Equal(t, 3, seen)
}

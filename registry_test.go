package magmavk

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryInsertStartsHidden(t *testing.T) {
	r := NewInstanceRegistry[int]()
	h := r.Insert(42)

	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 0, r.VisibleCount())
	visible, err := r.IsVisible(h)
	require.NoError(t, err)
	assert.False(t, visible)

	got, ok := r.Get(h)
	require.True(t, ok)
	assert.Equal(t, 42, *got)
}

func TestRegistryInsertVisibly(t *testing.T) {
	r := NewInstanceRegistry[int]()
	h := r.InsertVisibly(7)

	assert.Equal(t, 1, r.VisibleCount())
	visible, err := r.IsVisible(h)
	require.NoError(t, err)
	assert.True(t, visible)
	assert.Equal(t, []int{7}, r.Visible())
}

func TestRegistryHandlesNeverReused(t *testing.T) {
	r := NewInstanceRegistry[int]()
	h1 := r.Insert(1)
	h2 := r.Insert(2)
	assert.Greater(t, h2, h1)

	_, err := r.Remove(h1)
	require.NoError(t, err)
	h3 := r.Insert(3)
	assert.Greater(t, h3, h2)

	_, ok := r.Get(h1)
	assert.False(t, ok)
}

func TestRegistryVisibilityToggle(t *testing.T) {
	r := NewInstanceRegistry[string]()
	a := r.InsertVisibly("a")
	b := r.InsertVisibly("b")
	c := r.InsertVisibly("c")

	require.NoError(t, r.MakeInvisible(a))
	assert.Equal(t, 2, r.VisibleCount())
	visible, _ := r.IsVisible(a)
	assert.False(t, visible)
	assert.ElementsMatch(t, []string{"b", "c"}, r.Visible())

	// Toggling again is a no-op.
	require.NoError(t, r.MakeInvisible(a))
	assert.Equal(t, 2, r.VisibleCount())

	require.NoError(t, r.MakeVisible(a))
	assert.Equal(t, 3, r.VisibleCount())
	require.NoError(t, r.MakeVisible(a))
	assert.Equal(t, 3, r.VisibleCount())

	for _, h := range []Handle{a, b, c} {
		visible, err := r.IsVisible(h)
		require.NoError(t, err)
		assert.True(t, visible)
	}
}

func TestRegistryUpdate(t *testing.T) {
	r := NewInstanceRegistry[int]()
	h := r.InsertVisibly(1)
	require.NoError(t, r.Update(h, 9))

	got, ok := r.Get(h)
	require.True(t, ok)
	assert.Equal(t, 9, *got)

	assert.ErrorIs(t, r.Update(Handle(999), 0), ErrInvalidHandle)
}

func TestRegistryRemoveVisible(t *testing.T) {
	r := NewInstanceRegistry[string]()
	a := r.InsertVisibly("a")
	b := r.InsertVisibly("b")
	r.Insert("hidden")

	got, err := r.Remove(a)
	require.NoError(t, err)
	assert.Equal(t, "a", got)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, 1, r.VisibleCount())
	assert.Equal(t, []string{"b"}, r.Visible())

	visible, err := r.IsVisible(b)
	require.NoError(t, err)
	assert.True(t, visible)

	_, err = r.Remove(a)
	assert.ErrorIs(t, err, ErrInvalidHandle)
}

func TestRegistryRemoveHidden(t *testing.T) {
	r := NewInstanceRegistry[string]()
	r.InsertVisibly("a")
	h1 := r.Insert("h1")
	h2 := r.Insert("h2")
	h3 := r.Insert("h3")

	// Remove from the middle of the hidden suffix.
	got, err := r.Remove(h2)
	require.NoError(t, err)
	assert.Equal(t, "h2", got)
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, 1, r.VisibleCount())

	for _, h := range []Handle{h1, h3} {
		visible, err := r.IsVisible(h)
		require.NoError(t, err)
		assert.False(t, visible)
	}
}

func TestRegistrySwapByHandle(t *testing.T) {
	r := NewInstanceRegistry[string]()
	a := r.InsertVisibly("a")
	b := r.InsertVisibly("b")

	require.NoError(t, r.SwapByHandle(a, b))
	assert.Equal(t, []string{"b", "a"}, r.Visible())

	// Handles still resolve to their own records.
	got, ok := r.Get(a)
	require.True(t, ok)
	assert.Equal(t, "a", *got)
	got, ok = r.Get(b)
	require.True(t, ok)
	assert.Equal(t, "b", *got)

	// Self swap succeeds but changes nothing; unknown handles fail.
	require.NoError(t, r.SwapByHandle(a, a))
	assert.ErrorIs(t, r.SwapByHandle(a, Handle(999)), ErrInvalidHandle)
	assert.ErrorIs(t, r.SwapByHandle(Handle(999), Handle(999)), ErrInvalidHandle)
}

func TestRegistryUnknownHandleErrors(t *testing.T) {
	r := NewInstanceRegistry[int]()
	bogus := Handle(5)

	_, ok := r.Get(bogus)
	assert.False(t, ok)
	_, err := r.IsVisible(bogus)
	assert.ErrorIs(t, err, ErrInvalidHandle)
	assert.ErrorIs(t, r.MakeVisible(bogus), ErrInvalidHandle)
	assert.ErrorIs(t, r.MakeInvisible(bogus), ErrInvalidHandle)
	_, err = r.Remove(bogus)
	assert.ErrorIs(t, err, ErrInvalidHandle)
}

// TestRegistryPartitionHolds drives the registry with random operations and
// checks after each one that the visible prefix exactly matches the set of
// records reported visible.
func TestRegistryPartitionHolds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	r := NewInstanceRegistry[int]()
	live := make(map[Handle]int)

	for step := 0; step < 2000; step++ {
		switch op := rng.Intn(5); {
		case op == 0 || len(live) == 0:
			value := rng.Int()
			var h Handle
			if rng.Intn(2) == 0 {
				h = r.Insert(value)
			} else {
				h = r.InsertVisibly(value)
			}
			live[h] = value
		case op == 1:
			h := anyHandle(rng, live)
			require.NoError(t, r.MakeVisible(h))
		case op == 2:
			h := anyHandle(rng, live)
			require.NoError(t, r.MakeInvisible(h))
		case op == 3:
			h := anyHandle(rng, live)
			got, err := r.Remove(h)
			require.NoError(t, err)
			assert.Equal(t, live[h], got)
			delete(live, h)
		default:
			h := anyHandle(rng, live)
			value := rng.Int()
			require.NoError(t, r.Update(h, value))
			live[h] = value
		}

		require.Equal(t, len(live), r.Len())
		visibleValues := make(map[int]int)
		for _, v := range r.Visible() {
			visibleValues[v]++
		}
		wantVisible := 0
		for h, v := range live {
			visible, err := r.IsVisible(h)
			require.NoError(t, err)
			if visible {
				wantVisible++
				require.Greater(t, visibleValues[v], 0,
					"visible handle's record missing from visible prefix")
				visibleValues[v]--
			}
			got, ok := r.Get(h)
			require.True(t, ok)
			require.Equal(t, v, *got)
		}
		require.Equal(t, wantVisible, r.VisibleCount())
	}
}

func anyHandle(rng *rand.Rand, live map[Handle]int) Handle {
	n := rng.Intn(len(live))
	for h := range live {
		if n == 0 {
			return h
		}
		n--
	}
	panic("unreachable")
}

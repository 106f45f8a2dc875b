package magmavk

// Handle is a stable external identifier for one instance held by an
// InstanceRegistry. Handles are issued in increasing order and are never
// reused within the lifetime of a registry; a removed handle stays invalid.
type Handle int

// InstanceRegistry keeps densely packed per-instance records partitioned by
// visibility: indices [0, firstInvisible) are visible, the rest are hidden.
// Only the partition point is guaranteed; ordering inside either half may
// change on any mutation. Not safe for concurrent use.
type InstanceRegistry[I any] struct {
	instances      []I
	handles        []Handle
	handleToIndex  map[Handle]int
	firstInvisible int
	nextHandle     Handle
}

func NewInstanceRegistry[I any]() *InstanceRegistry[I] {
	return &InstanceRegistry[I]{
		handleToIndex: make(map[Handle]int),
	}
}

// Len reports the total number of registered instances, hidden included.
func (r *InstanceRegistry[I]) Len() int {
	return len(r.instances)
}

// VisibleCount reports the length of the visible prefix.
func (r *InstanceRegistry[I]) VisibleCount() int {
	return r.firstInvisible
}

// Visible returns the visible prefix of the instance records. The slice
// aliases registry storage and is invalidated by the next mutation.
func (r *InstanceRegistry[I]) Visible() []I {
	return r.instances[:r.firstInvisible]
}

// Insert registers a new record and returns its handle. The record is
// appended behind the partition point, i.e. it starts out hidden.
func (r *InstanceRegistry[I]) Insert(element I) Handle {
	handle := r.nextHandle
	r.nextHandle++

	index := len(r.instances)
	r.instances = append(r.instances, element)
	r.handles = append(r.handles, handle)
	r.handleToIndex[handle] = index

	return handle
}

// InsertVisibly registers a new record and immediately makes it visible.
func (r *InstanceRegistry[I]) InsertVisibly(element I) Handle {
	handle := r.Insert(element)
	r.MakeVisible(handle)
	return handle
}

// Get returns a pointer to the record for handle, or false if the handle is
// not registered. The pointer is invalidated by the next mutation.
func (r *InstanceRegistry[I]) Get(handle Handle) (*I, bool) {
	index, ok := r.handleToIndex[handle]
	if !ok {
		return nil, false
	}
	return &r.instances[index], true
}

// Update replaces the record stored for handle.
func (r *InstanceRegistry[I]) Update(handle Handle, element I) error {
	index, ok := r.handleToIndex[handle]
	if !ok {
		return ErrInvalidHandle
	}
	r.instances[index] = element
	return nil
}

// IsVisible reports whether the record for handle is inside the visible
// prefix.
func (r *InstanceRegistry[I]) IsVisible(handle Handle) (bool, error) {
	index, ok := r.handleToIndex[handle]
	if !ok {
		return false, ErrInvalidHandle
	}
	return index < r.firstInvisible, nil
}

// MakeVisible moves the record for handle into the visible prefix. Already
// visible records are left alone.
func (r *InstanceRegistry[I]) MakeVisible(handle Handle) error {
	index, ok := r.handleToIndex[handle]
	if !ok {
		return ErrInvalidHandle
	}
	if index < r.firstInvisible {
		return nil
	}
	// The first hidden record sits exactly at the partition point, so one
	// swap extends the prefix.
	r.swapByIndex(index, r.firstInvisible)
	r.firstInvisible++
	return nil
}

// MakeInvisible moves the record for handle into the hidden suffix. Already
// hidden records are left alone.
func (r *InstanceRegistry[I]) MakeInvisible(handle Handle) error {
	index, ok := r.handleToIndex[handle]
	if !ok {
		return ErrInvalidHandle
	}
	if index >= r.firstInvisible {
		return nil
	}
	r.swapByIndex(index, r.firstInvisible-1)
	r.firstInvisible--
	return nil
}

// Remove unregisters handle and returns the record that was stored for it.
// Removal is O(1): the record is first swapped out of the visible prefix if
// needed, then swapped to the end and popped.
func (r *InstanceRegistry[I]) Remove(handle Handle) (I, error) {
	index, ok := r.handleToIndex[handle]
	if !ok {
		var zero I
		return zero, ErrInvalidHandle
	}
	if index < r.firstInvisible {
		r.swapByIndex(index, r.firstInvisible-1)
		r.firstInvisible--
		index = r.firstInvisible
	}
	r.swapByIndex(index, len(r.instances)-1)

	last := len(r.instances) - 1
	element := r.instances[last]
	r.instances = r.instances[:last]
	r.handles = r.handles[:last]
	delete(r.handleToIndex, handle)

	return element, nil
}

// SwapByHandle exchanges the storage positions of two records. Positions are
// not observable through the public interface beyond the visibility
// partition, so this only matters for callers poking at upload order.
func (r *InstanceRegistry[I]) SwapByHandle(handle1, handle2 Handle) error {
	if handle1 == handle2 {
		if _, ok := r.handleToIndex[handle1]; !ok {
			return ErrInvalidHandle
		}
		return nil
	}
	index1, ok1 := r.handleToIndex[handle1]
	index2, ok2 := r.handleToIndex[handle2]
	if !ok1 || !ok2 {
		return ErrInvalidHandle
	}

	r.handles[index1], r.handles[index2] = r.handles[index2], r.handles[index1]
	r.instances[index1], r.instances[index2] = r.instances[index2], r.instances[index1]
	r.handleToIndex[handle1] = index2
	r.handleToIndex[handle2] = index1

	return nil
}

// swapByIndex is the low-level primitive behind the visibility operations.
// It keeps the handle map in sync for the two affected handles.
func (r *InstanceRegistry[I]) swapByIndex(index1, index2 int) {
	if index1 == index2 {
		return
	}
	handle1 := r.handles[index1]
	handle2 := r.handles[index2]

	r.handles[index1], r.handles[index2] = r.handles[index2], r.handles[index1]
	r.instances[index1], r.instances[index2] = r.instances[index2], r.instances[index1]
	r.handleToIndex[handle1] = index2
	r.handleToIndex[handle2] = index1
}

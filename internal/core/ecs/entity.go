package ecs

// EntityID packs a 32-bit slot index in the low bits and a 32-bit generation
// in the high bits. The generation bumps when a slot is recycled, so an id
// held across a purge stops resolving instead of aliasing a new entity.
type EntityID uint64

func makeID(index, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }
func (id EntityID) IsZero() bool       { return id == 0 }

// idAllocator hands out entity ids, recycling purged slots through a free
// list. Slot 0 is burned at construction so that EntityID(0) is never a
// live entity and can serve as the "no entity" sentinel.
type idAllocator struct {
	generations []uint32
	free        []uint32
	next        uint32
}

func newIDAllocator() *idAllocator {
	a := &idAllocator{
		generations: make([]uint32, 0, 256),
		free:        make([]uint32, 0, 64),
	}
	a.allocate() // reserve slot 0
	return a
}

func (a *idAllocator) allocate() EntityID {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		return makeID(idx, a.generations[idx])
	}
	idx := a.next
	a.next++
	if int(idx) >= len(a.generations) {
		a.generations = append(a.generations, 0)
	}
	return makeID(idx, a.generations[idx])
}

func (a *idAllocator) alive(id EntityID) bool {
	idx := id.Index()
	if idx == 0 || idx >= a.next {
		return false
	}
	return a.generations[idx] == id.Generation()
}

func (a *idAllocator) release(id EntityID) {
	idx := id.Index()
	if idx == 0 || idx >= a.next {
		return
	}
	if a.generations[idx] != id.Generation() {
		return // stale reference, already released
	}
	a.generations[idx]++
	a.free = append(a.free, idx)
}

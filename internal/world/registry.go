package world

import (
	"fmt"
	"iter"
	"maps"
	"slices"
)

// Registry stores placed objects keyed by instance id.
// Ids are allocated monotonically and never handed out twice, even after removal.
type Registry struct {
	objects map[InstanceID]Object
	next    InstanceID
}

// NewRegistry creates an empty registry whose first id is 0.
func NewRegistry() *Registry {
	return &Registry{objects: make(map[InstanceID]Object)}
}

// Push stores an object and returns its newly assigned id.
func (r *Registry) Push(o Object) InstanceID {
	id := r.next
	r.objects[id] = clone(o)
	r.next++
	return id
}

// Remove deletes an object. Its id stays retired.
func (r *Registry) Remove(id InstanceID) (Object, error) {
	o, ok := r.objects[id]
	if !ok {
		return nil, fmt.Errorf("remove instance %d: %w", id, ErrUnknownInstance)
	}
	delete(r.objects, id)
	return o, nil
}

// Get returns the object with the given id.
func (r *Registry) Get(id InstanceID) (Object, bool) {
	o, ok := r.objects[id]
	return o, ok
}

// Len returns the number of live objects.
func (r *Registry) Len() int {
	return len(r.objects)
}

// NextID returns the id the next Push will assign.
func (r *Registry) NextID() InstanceID {
	return r.next
}

// IDs returns all live ids in ascending order.
func (r *Registry) IDs() []InstanceID {
	return slices.Sorted(maps.Keys(r.objects))
}

// All iterates live objects in ascending id order.
func (r *Registry) All() iter.Seq2[InstanceID, Object] {
	return func(yield func(InstanceID, Object) bool) {
		for _, id := range r.IDs() {
			if !yield(id, r.objects[id]) {
				return
			}
		}
	}
}

// At returns the ids of every object whose footprint covers pos, ascending.
// This is a linear scan over the registry.
func (r *Registry) At(pos HexCoord, src FootprintSource) []InstanceID {
	var ids []InstanceID
	for id, o := range r.objects {
		if slices.Contains(o.Cells(src), pos) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

package executor

import (
	"fmt"
	"sort"
)

// Registry maps executor IDs to their handles. It is populated once at
// construction and immutable thereafter, so reads need no locking.
type Registry struct {
	executors map[ID]Executor
}

// NewRegistry builds a registry from the given bindings.
func NewRegistry(bindings map[ID]Executor) (*Registry, error) {
	if len(bindings) == 0 {
		return nil, fmt.Errorf("at least one executor binding is required")
	}

	executors := make(map[ID]Executor, len(bindings))
	for id, exec := range bindings {
		if id == "" {
			return nil, fmt.Errorf("executor ID cannot be empty")
		}
		if exec == nil {
			return nil, fmt.Errorf("executor %s: handle cannot be nil", id)
		}
		executors[id] = exec
	}

	return &Registry{executors: executors}, nil
}

// Get retrieves an executor handle by ID.
func (r *Registry) Get(id ID) (Executor, bool) {
	exec, ok := r.executors[id]
	return exec, ok
}

// Known reports whether an ID is registered.
func (r *Registry) Known(id ID) bool {
	_, ok := r.executors[id]
	return ok
}

// IDs returns all registered IDs in stable order.
func (r *Registry) IDs() []ID {
	ids := make([]ID, 0, len(r.executors))
	for id := range r.executors {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Count returns the number of registered executors.
func (r *Registry) Count() int {
	return len(r.executors)
}

package shading

import (
	"fmt"
	"slices"
)

// registry is the implementation of the Registry interface.
type registry struct {
	shadings    []Shading
	kindOptions map[Kind][]ShadingBuilderOption
}

// Registry holds one Shading descriptor per Kind, ordered by kind.
type Registry interface {
	// Shading returns the descriptor of kind.
	//
	// Parameters:
	//   - kind: the shading kind
	//
	// Returns:
	//   - Shading: the descriptor
	//   - bool: false if kind is not a declared kind
	Shading(kind Kind) (Shading, bool)

	// Len returns the number of descriptors.
	Len() int

	// All returns every descriptor in registry order.
	All() []Shading
}

var _ Registry = &registry{}

// NewRegistry builds a descriptor for every declared Kind. Each descriptor's Index equals
// its kind's position in the registry.
//
// Parameters:
//   - options: optional RegistryBuilderOption values
//
// Returns:
//   - Registry: the populated registry
//   - error: an error if any descriptor fails to build
func NewRegistry(options ...RegistryBuilderOption) (Registry, error) {
	r := &registry{
		kindOptions: make(map[Kind][]ShadingBuilderOption),
	}
	for _, opt := range options {
		opt(r)
	}

	for _, kind := range Kinds() {
		s, err := r.build(kind)
		if err != nil {
			return nil, fmt.Errorf("shading: failed to build %s descriptor: %w", kind, err)
		}
		r.shadings = append(r.shadings, s)
	}
	return r, nil
}

// build must handle every Kind; adding a kind without a case fails every NewRegistry call.
func (r *registry) build(kind Kind) (Shading, error) {
	opts := append(slices.Clone(r.kindOptions[kind]), WithIndex(int(kind)))
	switch kind {
	case KindPureColor:
		return NewPureColor(opts...)
	default:
		return nil, fmt.Errorf("no descriptor constructor for %s", kind)
	}
}

func (r *registry) Shading(kind Kind) (Shading, bool) {
	if !kind.Valid() || int(kind) >= len(r.shadings) {
		return nil, false
	}
	return r.shadings[kind], true
}

func (r *registry) Len() int {
	return len(r.shadings)
}

func (r *registry) All() []Shading {
	out := make([]Shading, len(r.shadings))
	copy(out, r.shadings)
	return out
}

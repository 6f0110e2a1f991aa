package shading

import (
	"maps"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl"
)

// resolveAttributes looks up every named attribute slot of p.
func resolveAttributes(ctx gl.ProgramContext, p gl.Program, kind Kind, names ...string) (map[string]int, error) {
	slots := make(map[string]int, len(names))
	for _, name := range names {
		slot, ok := ctx.AttribLocation(p, name)
		if !ok {
			return nil, &MissingLocationError{Shading: kind, Kind: LocationAttribute, Name: name}
		}
		slots[name] = slot
	}
	return slots, nil
}

// resolveUniforms looks up every named uniform location of p.
func resolveUniforms(ctx gl.ProgramContext, p gl.Program, kind Kind, names ...string) (map[string]gl.UniformLocation, error) {
	locs := make(map[string]gl.UniformLocation, len(names))
	for _, name := range names {
		loc, ok := ctx.UniformLocation(p, name)
		if !ok {
			return nil, &MissingLocationError{Shading: kind, Kind: LocationUniform, Name: name}
		}
		locs[name] = loc
	}
	return locs, nil
}

// attributeTable is the read-only attribute slot table shared by program implementations.
type attributeTable map[string]int

func (t attributeTable) AttributeLocations() map[string]int {
	return maps.Clone(map[string]int(t))
}

func (t attributeTable) AttributeLocation(name string) (int, bool) {
	slot, ok := t[name]
	if !ok {
		return -1, false
	}
	return slot, true
}

package shading

import "embed"

//go:embed assets/*.vert assets/*.frag
var assets embed.FS

// source reads an embedded shader asset. The asset set is fixed at build time, so a
// missing name is a programming error.
func source(name string) string {
	data, err := assets.ReadFile("assets/" + name)
	if err != nil {
		panic("shading: missing embedded asset " + name)
	}
	return string(data)
}

package shading

// ShadingBuilderOption is a function that configures a shading descriptor during construction.
type ShadingBuilderOption func(*pureColorShading)

// WithIndex sets the registry index of the descriptor.
//
// Parameters:
//   - index: the position of the descriptor in its registry
//
// Returns:
//   - ShadingBuilderOption: a function that applies the index option
func WithIndex(index int) ShadingBuilderOption {
	return func(s *pureColorShading) {
		s.index = index
	}
}

// WithVertexSource replaces the embedded vertex shader source. The source may use @oxy:
// annotations and must not carry a version or precision line.
//
// Parameters:
//   - src: the raw GLSL vertex source
//
// Returns:
//   - ShadingBuilderOption: a function that applies the source option
func WithVertexSource(src string) ShadingBuilderOption {
	return func(s *pureColorShading) {
		s.rawVertex = src
	}
}

// WithFragmentSource replaces the embedded fragment shader source.
//
// Parameters:
//   - src: the raw GLSL fragment source
//
// Returns:
//   - ShadingBuilderOption: a function that applies the source option
func WithFragmentSource(src string) ShadingBuilderOption {
	return func(s *pureColorShading) {
		s.rawFrag = src
	}
}

// WithColor sets the RGBA color written to every fragment. The color is compiled into the
// fragment source; it is not a uniform.
//
// Parameters:
//   - color: RGBA components in [0, 1]
//
// Returns:
//   - ShadingBuilderOption: a function that applies the color option
func WithColor(color [4]float32) ShadingBuilderOption {
	return func(s *pureColorShading) {
		c := color
		s.color = &c
	}
}

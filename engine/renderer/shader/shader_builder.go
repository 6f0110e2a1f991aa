package shader

// ShaderBuilderOption is a functional option for configuring a Shader during NewShader.
type ShaderBuilderOption func(*shader)

// WithDefine overrides the default value of a //@oxy:define annotation.
//
// Parameters:
//   - name: the macro name as written in the annotation
//   - value: the GLSL expression to substitute
//
// Returns:
//   - ShaderBuilderOption: a function that applies the override to a shader
func WithDefine(name, value string) ShaderBuilderOption {
	return func(s *shader) {
		s.defines[name] = value
	}
}

package shader

import (
	"fmt"
	"slices"
)

// Stage identifies which programmable pipeline stage a shader source targets.
type Stage int

const (
	// StageVertex is the vertex shader stage, run once per vertex.
	StageVertex Stage = iota

	// StageFragment is the fragment shader stage, run once per covered pixel.
	StageFragment
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// shader is the implementation of the Shader interface.
// It holds the processed GLSL source along with what was declared and annotated in it.
type shader struct {
	key          string
	stage        Stage
	source       string
	declarations []Declaration
	annotations  []Annotation
	defines      map[string]string
}

// Shader defines the interface for a loaded and pre-processed GLSL shader. It exposes the
// shader's key, stage and processed source together with the top-level attribute, uniform
// and varying declarations found in that source.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Stage retrieves the pipeline stage this shader targets.
	//
	// Returns:
	//   - Stage: StageVertex or StageFragment
	Stage() Stage

	// Source retrieves the processed GLSL source, with every @oxy: annotation expanded.
	// The source carries no version or precision preamble.
	//
	// Returns:
	//   - string: the GLSL source code of the shader
	Source() string

	// Declarations returns the top-level attribute, uniform and varying declarations of the
	// processed source, in source order.
	//
	// Returns:
	//   - []Declaration: a copy of the scanned declarations
	Declarations() []Declaration

	// Declares reports whether the processed source declares name with the given qualifier.
	//
	// Parameters:
	//   - qualifier: the storage qualifier to match
	//   - name: the variable name
	//
	// Returns:
	//   - bool: true if a matching declaration exists
	Declares(qualifier Qualifier, name string) bool

	// Annotations returns the @oxy: annotations consumed while processing the raw source.
	//
	// Returns:
	//   - []Annotation: the consumed annotations, in source order
	Annotations() []Annotation
}

var _ Shader = &shader{}

// NewShader creates a new Shader from raw GLSL source. The source is run through the
// pre-processor, then scanned for declarations.
//
// Parameters:
//   - key: a unique identifier for the shader, used in error messages and lookups
//   - stage: the pipeline stage the source targets
//   - raw: the raw GLSL source, possibly containing @oxy: annotations
//   - options: optional ShaderBuilderOption values
//
// Returns:
//   - Shader: the processed shader
//   - error: an error if the source is empty or an annotation is malformed
func NewShader(key string, stage Stage, raw string, options ...ShaderBuilderOption) (Shader, error) {
	if raw == "" {
		return nil, fmt.Errorf("shader: %s has no source", key)
	}
	s := &shader{
		key:     key,
		stage:   stage,
		defines: make(map[string]string),
	}
	for _, opt := range options {
		opt(s)
	}

	pp := NewPreProcessor(s.defines)
	source, err := pp.Process(raw)
	if err != nil {
		return nil, fmt.Errorf("shader: failed to pre-process %s shader %q: %w", stage, key, err)
	}
	s.source = source
	s.annotations = slices.Clone(pp.Annotations())
	s.declarations = ScanDeclarations(source)
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Stage() Stage {
	return s.stage
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) Declarations() []Declaration {
	return slices.Clone(s.declarations)
}

func (s *shader) Declares(qualifier Qualifier, name string) bool {
	return slices.ContainsFunc(s.declarations, func(d Declaration) bool {
		return d.Qualifier == qualifier && d.Name == name
	})
}

func (s *shader) Annotations() []Annotation {
	return slices.Clone(s.annotations)
}

// pre_processor.go implements the Oxy GLSL shader pre-processor. It scans shader
// source code for @oxy: annotations and replaces them with the engine's standard
// declaration blocks or #define lines, collecting the annotations it consumed.
package shader

import (
	"fmt"
	"strings"
)

// Standard declaration blocks injected by //@oxy:include. The names are the contract
// between shader sources and the shading programs that look them up.
const (
	transformBlock = "uniform mat4 projection_matrix;\n" +
		"uniform mat4 world_matrix;\n" +
		"uniform mat4 camera_inverse_matrix;"

	positionBlock = "attribute vec3 position;"
)

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// blockRegistry maps include block keys to the GLSL text they expand to.
	blockRegistry map[AnnotationArg]string

	// defines holds overrides for //@oxy:define values, keyed by macro name.
	defines map[string]string

	// annotations accumulates the annotations consumed during a Process call.
	// Reset at the start of each Process invocation.
	annotations []Annotation
}

// PreProcessor processes raw GLSL source containing @oxy: annotations, replacing them
// with generated GLSL while recording what it replaced.
type PreProcessor interface {
	// Process takes raw GLSL source and replaces every @oxy: annotation line with its
	// expansion. Include annotations become the registered block text; define
	// annotations become a #define line carrying either the override or the default value.
	//
	// Parameters:
	//   - source: the raw GLSL shader source
	//
	// Returns:
	//   - string: the processed source with annotations replaced
	//   - error: an error if any annotation is malformed
	Process(source string) (string, error)

	// Annotations returns the annotations consumed by the most recent Process call, in
	// source order. Returns nil if Process has not been called.
	//
	// Returns:
	//   - []Annotation: the consumed annotations
	Annotations() []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a new PreProcessor with the standard blocks registered.
//
// Parameters:
//   - defines: overrides for //@oxy:define values keyed by macro name (nil safe)
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor(defines map[string]string) PreProcessor {
	p := &preProcessor{
		blockRegistry: map[AnnotationArg]string{
			AnnotationArgTransform: transformBlock,
			AnnotationArgPosition:  positionBlock,
		},
		defines: make(map[string]string, len(defines)),
	}
	for k, v := range defines {
		p.defines[k] = v
	}
	return p
}

func (p *preProcessor) Process(source string) (string, error) {
	p.annotations = p.annotations[:0]

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case AnnotationTypeInclude:
			block, ok := p.blockRegistry[a.Args[0]]
			if !ok {
				return "", fmt.Errorf("line %d: unknown @oxy:include argument %q", i+1, a.Args[0])
			}
			out = append(out, block)
		case AnnotationTypeDefine:
			name := string(a.Args[0])
			value := string(a.Args[1])
			if override, ok := p.defines[name]; ok {
				value = override
			}
			out = append(out, fmt.Sprintf("#define %s %s", name, value))
		default:
			return "", fmt.Errorf("line %d: unknown annotation type %q", i+1, a.Type)
		}
		p.annotations = append(p.annotations, *a)
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Annotations() []Annotation {
	return p.annotations
}

// annotations.go defines the annotation types, argument constants, and parser for the
// Oxy GLSL shader pre-processor. Annotations are single-line GLSL comments prefixed
// with @oxy: that inject the engine's standard declaration blocks or emit overridable
// #define lines. The parsed results are stored as Annotation values and consumed by
// the PreProcessor.
package shader

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// annotationPrefix is the marker that identifies an Oxy annotation within a GLSL comment line.
// Every annotation must appear on a line beginning with "//" followed by this prefix.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a GLSL comment line.
type AnnotationType string

const (
	// AnnotationTypeInclude injects the GLSL source of a registered declaration block at
	// the annotation site.
	//
	// Syntax: //@oxy:include <block>
	//
	// Example: //@oxy:include transform
	AnnotationTypeInclude AnnotationType = "include"

	// AnnotationTypeDefine emits a #define line. The value written in the source is the
	// default; a value supplied through WithDefine replaces it.
	//
	// Syntax: //@oxy:define <NAME> <value...>
	//
	// Example: //@oxy:define PURE_COLOR vec4(1.0, 1.0, 1.0, 1.0)
	AnnotationTypeDefine AnnotationType = "define"
)

// Annotation represents a single parsed @oxy: annotation from a GLSL shader source line.
type Annotation struct {
	// Type identifies which annotation was parsed.
	Type AnnotationType

	// Args holds the annotation's arguments. The contents depend on Type:
	//   - include: [0] = block key (e.g. "transform")
	//   - define:  [0] = macro name, [1] = default value (may contain spaces)
	Args []AnnotationArg

	// Line is the 1-based line number in the original source where this annotation
	// was found. Used for error reporting.
	Line int
}

// AnnotationArg is a typed string used as an argument in annotations.
type AnnotationArg string

const (
	// AnnotationArgTransform identifies the block declaring the projection, world and
	// camera-inverse matrix uniforms.
	AnnotationArgTransform AnnotationArg = "transform"

	// AnnotationArgPosition identifies the block declaring the vec3 position attribute.
	AnnotationArgPosition AnnotationArg = "position"
)

// validBlocks lists the block keys accepted by the include annotation.
var validBlocks = []AnnotationArg{
	AnnotationArgTransform,
	AnnotationArgPosition,
}

var macroNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// parseAnnotation parses a single line of GLSL source as an @oxy annotation.
//
// Parameters:
//   - line: the raw source line
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	comment, ok := strings.CutPrefix(trimmed, "//")
	if !ok {
		return nil, nil
	}
	after, ok := strings.CutPrefix(strings.TrimSpace(comment), annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}

	switch args[0] {
	case string(AnnotationTypeInclude):
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy include annotation requires exactly one argument", lineNum)
		}
		if !slices.Contains(validBlocks, AnnotationArg(args[1])) {
			return nil, fmt.Errorf("line %d: unknown block %q in @oxy include annotation", lineNum, args[1])
		}
		return &Annotation{
			Type: AnnotationTypeInclude,
			Args: []AnnotationArg{AnnotationArg(args[1])},
			Line: lineNum,
		}, nil
	case string(AnnotationTypeDefine):
		if len(args) < 3 {
			return nil, fmt.Errorf("line %d: @oxy define annotation requires a name and a default value", lineNum)
		}
		if !macroNamePattern.MatchString(args[1]) {
			return nil, fmt.Errorf("line %d: invalid macro name %q in @oxy define annotation", lineNum, args[1])
		}
		return &Annotation{
			Type: AnnotationTypeDefine,
			Args: []AnnotationArg{AnnotationArg(args[1]), AnnotationArg(strings.Join(args[2:], " "))},
			Line: lineNum,
		}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown @oxy annotation type %q", lineNum, args[0])
	}
}

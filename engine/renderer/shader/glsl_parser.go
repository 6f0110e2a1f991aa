// glsl_parser.go implements a light scanner over GLSL ES 1.00 / GLSL 1.20 source: it lists
// the top-level attribute, uniform and varying declarations and performs the structural
// checks the test context uses to reject malformed sources.
package shader

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Qualifier is the storage qualifier of a top-level GLSL declaration.
type Qualifier string

const (
	// QualifierAttribute marks a per-vertex input of a vertex shader.
	QualifierAttribute Qualifier = "attribute"

	// QualifierUniform marks a value that is constant across one draw call.
	QualifierUniform Qualifier = "uniform"

	// QualifierVarying marks a value interpolated from the vertex to the fragment stage.
	QualifierVarying Qualifier = "varying"
)

var qualifiers = []Qualifier{QualifierAttribute, QualifierUniform, QualifierVarying}

var precisions = []string{"lowp", "mediump", "highp"}

var (
	declaratorPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)(?:\[(\d+)\])?$`)
	mainPattern       = regexp.MustCompile(`\bvoid\s+main\s*\(\s*(void)?\s*\)`)
)

// Declaration is one variable declared at the top level of a shader with a storage qualifier.
type Declaration struct {
	// Qualifier is the storage qualifier (attribute, uniform or varying).
	Qualifier Qualifier

	// Type is the GLSL type name, e.g. "vec3" or "mat4".
	Type string

	// Name is the declared identifier.
	Name string

	// ArrayLen is the declared array length, or 0 for a non-array variable.
	ArrayLen int

	// Line is the 1-based source line the declaration statement starts on.
	Line int
}

// SyntaxError is a structural error found by CheckSyntax. It formats like a driver info log
// line so that it reads the same as a real compiler diagnostic.
type SyntaxError struct {
	// Line is the 1-based source line of the error.
	Line int

	// Message describes the error.
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("ERROR: 0:%d: %s", e.Line, e.Message)
}

// Referenced reports whether a declared name is used anywhere in source besides its own
// declaration. GL drivers assign locations only to such active names. Comments are ignored;
// preprocessor lines are not, since a macro body may read a uniform.
//
// Parameters:
//   - source: GLSL source text the name was declared in
//   - name: the declared identifier
//
// Returns:
//   - bool: true if name occurs more than once outside comments
func Referenced(source, name string) bool {
	clean, _ := stripComments(source)
	pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
	return len(pattern.FindAllStringIndex(clean, 2)) > 1
}

// ScanDeclarations lists the top-level attribute, uniform and varying declarations of a
// GLSL source. Comments and preprocessor lines are ignored, declarations inside function
// bodies are skipped and comma separated declarator lists yield one Declaration each.
//
// Parameters:
//   - source: GLSL source text
//
// Returns:
//   - []Declaration: the declarations in source order
func ScanDeclarations(source string) []Declaration {
	clean, _ := stripComments(source)
	clean = blankDirectives(clean)

	var decls []Declaration
	var stmt strings.Builder
	depth, line, stmtLine := 0, 1, 1

	for i := 0; i < len(clean); i++ {
		c := clean[i]
		switch c {
		case '\n':
			line++
			if depth == 0 && stmt.Len() > 0 {
				stmt.WriteByte(' ')
			}
		case '{':
			depth++
			stmt.Reset()
		case '}':
			if depth > 0 {
				depth--
			}
			stmt.Reset()
		case ';':
			if depth == 0 {
				decls = append(decls, parseDeclaration(stmt.String(), stmtLine)...)
			}
			stmt.Reset()
		default:
			if depth != 0 {
				continue
			}
			if stmt.Len() == 0 {
				if isSpace(c) {
					continue
				}
				stmtLine = line
			}
			stmt.WriteByte(c)
		}
	}
	return decls
}

// parseDeclaration parses a single top-level statement, without its trailing semicolon.
// Statements that are not qualified declarations yield nil.
func parseDeclaration(stmt string, line int) []Declaration {
	fields := strings.Fields(stmt)
	if len(fields) > 0 && fields[0] == "invariant" {
		fields = fields[1:]
	}
	if len(fields) < 3 || !slices.Contains(qualifiers, Qualifier(fields[0])) {
		return nil
	}
	qualifier := Qualifier(fields[0])
	fields = fields[1:]
	if slices.Contains(precisions, fields[0]) {
		fields = fields[1:]
	}
	if len(fields) < 2 {
		return nil
	}
	typ := fields[0]

	var decls []Declaration
	for _, declarator := range strings.Split(strings.Join(fields[1:], ""), ",") {
		m := declaratorPattern.FindStringSubmatch(declarator)
		if m == nil {
			continue
		}
		d := Declaration{Qualifier: qualifier, Type: typ, Name: m[1], Line: line}
		if m[2] != "" {
			d.ArrayLen, _ = strconv.Atoi(m[2])
		}
		decls = append(decls, d)
	}
	return decls
}

// CheckSyntax performs structural validation of a GLSL source: comments must be closed,
// brackets must balance, statements must be terminated and a main function must exist.
// It is not a full GLSL compiler.
//
// Parameters:
//   - source: GLSL source text
//
// Returns:
//   - error: a *SyntaxError describing the first problem found, or nil
func CheckSyntax(source string) error {
	clean, openComment := stripComments(source)
	if openComment > 0 {
		return &SyntaxError{Line: openComment, Message: "'/*' : unterminated comment"}
	}
	clean = blankDirectives(clean)

	type opening struct {
		c    byte
		line int
	}
	var stack []opening
	pending := false
	line, pendingLine := 1, 1

	for i := 0; i < len(clean); i++ {
		c := clean[i]
		switch c {
		case '\n':
			line++
		case '(', '[', '{':
			stack = append(stack, opening{c: c, line: line})
			if c == '{' {
				pending = false
			}
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1].c != matching(c) {
				return &SyntaxError{Line: line, Message: fmt.Sprintf("'%c' : syntax error, unexpected '%c'", c, c)}
			}
			stack = stack[:len(stack)-1]
			if c == '}' {
				if pending {
					return &SyntaxError{Line: line, Message: "'}' : syntax error, unexpected '}', expecting ';'"}
				}
			} else {
				pending = true
				pendingLine = line
			}
		case ';':
			pending = false
		default:
			if !isSpace(c) {
				pending = true
				pendingLine = line
			}
		}
	}

	if len(stack) > 0 {
		open := stack[len(stack)-1]
		return &SyntaxError{Line: line, Message: fmt.Sprintf("'' : syntax error, unexpected end of file, unclosed '%c' from line %d", open.c, open.line)}
	}
	if pending {
		return &SyntaxError{Line: pendingLine, Message: "'' : syntax error, unexpected end of file, expecting ';'"}
	}
	if !mainPattern.MatchString(clean) {
		return &SyntaxError{Line: line, Message: "'main' : function not defined"}
	}
	return nil
}

func matching(c byte) byte {
	switch c {
	case ')':
		return '('
	case ']':
		return '['
	default:
		return '{'
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == '\v'
}

// stripComments replaces line and block comments with spaces, keeping newlines so line
// numbers are preserved. The returned int is the line an unterminated block comment starts
// on, or 0.
func stripComments(source string) (string, int) {
	out := []byte(source)
	line := 1
	for i := 0; i < len(out); i++ {
		switch {
		case out[i] == '\n':
			line++
		case out[i] == '/' && i+1 < len(out) && out[i+1] == '/':
			for i < len(out) && out[i] != '\n' {
				out[i] = ' '
				i++
			}
			if i < len(out) {
				line++
			}
		case out[i] == '/' && i+1 < len(out) && out[i+1] == '*':
			start := line
			out[i], out[i+1] = ' ', ' '
			i += 2
			for ; i < len(out); i++ {
				if out[i] == '*' && i+1 < len(out) && out[i+1] == '/' {
					out[i], out[i+1] = ' ', ' '
					i++
					break
				}
				if out[i] == '\n' {
					line++
					continue
				}
				out[i] = ' '
			}
			if i >= len(out) {
				return string(out), start
			}
		}
	}
	return string(out), 0
}

// blankDirectives empties preprocessor lines so #define bodies are not scanned as statements.
func blankDirectives(source string) string {
	lines := strings.Split(source, "\n")
	for i, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), "#") {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}

package shader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vertexSource = `//@oxy:include position
//@oxy:include transform

void main() {
    gl_Position = projection_matrix * camera_inverse_matrix * world_matrix * vec4(position, 1.0);
}
`

func TestNewShaderExpandsIncludes(t *testing.T) {
	s, err := NewShader("pure_color.vert", StageVertex, vertexSource)
	require.NoError(t, err)

	assert.Equal(t, "pure_color.vert", s.Key())
	assert.Equal(t, StageVertex, s.Stage())
	assert.NotContains(t, s.Source(), "@oxy:")
	assert.Contains(t, s.Source(), "attribute vec3 position;")
	assert.Contains(t, s.Source(), "uniform mat4 camera_inverse_matrix;")

	assert.True(t, s.Declares(QualifierAttribute, "position"))
	assert.True(t, s.Declares(QualifierUniform, "projection_matrix"))
	assert.True(t, s.Declares(QualifierUniform, "world_matrix"))
	assert.True(t, s.Declares(QualifierUniform, "camera_inverse_matrix"))
	assert.False(t, s.Declares(QualifierAttribute, "projection_matrix"))

	require.Len(t, s.Annotations(), 2)
	assert.Equal(t, AnnotationArgPosition, s.Annotations()[0].Args[0])
	assert.Equal(t, 2, s.Annotations()[1].Line)
	assert.NoError(t, CheckSyntax(s.Source()))
}

func TestNewShaderDefines(t *testing.T) {
	src := "//@oxy:define PURE_COLOR vec4(1.0, 1.0, 1.0, 1.0)\nvoid main() { gl_FragColor = PURE_COLOR; }\n"

	s, err := NewShader("frag", StageFragment, src)
	require.NoError(t, err)
	assert.Contains(t, s.Source(), "#define PURE_COLOR vec4(1.0, 1.0, 1.0, 1.0)")

	s, err = NewShader("frag", StageFragment, src, WithDefine("PURE_COLOR", "vec4(1.0, 0.0, 0.0, 1.0)"))
	require.NoError(t, err)
	assert.Contains(t, s.Source(), "#define PURE_COLOR vec4(1.0, 0.0, 0.0, 1.0)")
	assert.Empty(t, s.Declarations())
}

func TestNewShaderErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "empty source", raw: "", want: "has no source"},
		{name: "empty annotation", raw: "void main() {}\n//@oxy:", want: "line 2: empty @oxy annotation"},
		{name: "unknown block", raw: "//@oxy:include lights", want: `line 1: unknown block "lights"`},
		{name: "include arity", raw: "//@oxy:include transform position", want: "line 1: @oxy include annotation requires exactly one argument"},
		{name: "define arity", raw: "//@oxy:define COLOR", want: "line 1: @oxy define annotation requires a name"},
		{name: "define name", raw: "//@oxy:define 1COLOR vec4(1.0)", want: `invalid macro name "1COLOR"`},
		{name: "unknown type", raw: "\n\n//@oxy:binding 0", want: `line 3: unknown @oxy annotation type "binding"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewShader("bad", StageVertex, tt.raw)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPlainCommentsAreNotAnnotations(t *testing.T) {
	s, err := NewShader("plain", StageFragment, "// just a comment\n//oxy: not an annotation\nvoid main() {}\n")
	require.NoError(t, err)
	assert.Empty(t, s.Annotations())
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "vertex", StageVertex.String())
	assert.Equal(t, "fragment", StageFragment.String())
	assert.Equal(t, "Stage(7)", Stage(7).String())
}

func TestScanDeclarations(t *testing.T) {
	src := `precision mediump float;
#define SCALE 2.0
attribute vec3 position; // trailing comment
uniform highp mat4 a, b[4];
/* uniform mat4 hidden;
   still hidden */
varying
    vec2 uv;
uniform vec4 tint [2];

vec4 shade(vec4 c) {
    vec4 local;
    return c;
}

void main() {
    uniform_like = 1.0;
}
`
	decls := ScanDeclarations(src)
	require.Len(t, decls, 5)

	assert.Equal(t, Declaration{Qualifier: QualifierAttribute, Type: "vec3", Name: "position", Line: 3}, decls[0])
	assert.Equal(t, Declaration{Qualifier: QualifierUniform, Type: "mat4", Name: "a", Line: 4}, decls[1])
	assert.Equal(t, Declaration{Qualifier: QualifierUniform, Type: "mat4", Name: "b", ArrayLen: 4, Line: 4}, decls[2])
	assert.Equal(t, Declaration{Qualifier: QualifierVarying, Type: "vec2", Name: "uv", Line: 7}, decls[3])
	assert.Equal(t, Declaration{Qualifier: QualifierUniform, Type: "vec4", Name: "tint", ArrayLen: 2, Line: 9}, decls[4])
}

func TestCheckSyntax(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "valid", src: "uniform mat4 m;\nvoid main() {\n  if (true) { gl_Position = m[0]; }\n}\n"},
		{name: "valid with void params", src: "void main(void) { }"},
		{name: "missing brace", src: "void main() {\n  gl_Position = vec4(1.0);\n", want: "ERROR: 0:3: '' : syntax error, unexpected end of file, unclosed '{' from line 1"},
		{name: "stray paren", src: "void main() {\n  gl_Position = vec4(1.0));\n}", want: "ERROR: 0:2: ')' : syntax error"},
		{name: "missing semicolon", src: "void main() {\n  gl_Position = vec4(1.0)\n}", want: "ERROR: 0:3: '}' : syntax error, unexpected '}', expecting ';'"},
		{name: "unterminated statement", src: "void main() {}\nuniform mat4 m", want: "ERROR: 0:2: '' : syntax error, unexpected end of file, expecting ';'"},
		{name: "no main", src: "uniform mat4 m;\nvoid other() {}\n", want: "ERROR: 0:3: 'main' : function not defined"},
		{name: "open comment", src: "void main() {}\n/* never closed", want: "ERROR: 0:2: '/*' : unterminated comment"},
		{name: "comment hides main", src: "// void main() {}\n", want: "ERROR: 0:2: 'main' : function not defined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSyntax(tt.src)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.True(t, strings.HasPrefix(err.Error(), tt.want), "got %q", err.Error())
		})
	}
}

func TestReferenced(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		ident string
		want  bool
	}{
		{name: "used in main", src: "uniform mat4 m;\nvoid main() { gl_Position = m[0]; }\n", ident: "m", want: true},
		{name: "declared only", src: "uniform mat4 m;\nvoid main() { }\n", ident: "m"},
		{name: "only in a comment", src: "uniform mat4 m;\n// m\n/* m */\nvoid main() { }\n", ident: "m"},
		{name: "prefix of another name", src: "uniform mat4 m;\nuniform mat4 m2;\nvoid main() { gl_Position = m2[0]; }\n", ident: "m"},
		{name: "read by a macro", src: "uniform vec4 tint;\n#define COLOR tint\nvoid main() { gl_FragColor = COLOR; }\n", ident: "tint", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Referenced(tt.src, tt.ident))
		})
	}
}

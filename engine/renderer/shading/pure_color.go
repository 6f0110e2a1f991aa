package shading

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
)

// pureColorDefine is the macro the pure color fragment source reads its color from.
const pureColorDefine = "PURE_COLOR"

// pureColorShading is the implementation of the Shading interface for KindPureColor.
type pureColorShading struct {
	index     int
	rawVertex string
	rawFrag   string
	color     *[4]float32

	vertex   shader.Shader
	fragment shader.Shader
}

var _ Shading = &pureColorShading{}

// NewPureColor creates the pure color shading descriptor. Without options it uses the
// embedded sources, index 0 and a white color.
//
// Parameters:
//   - options: optional ShadingBuilderOption values
//
// Returns:
//   - Shading: the descriptor
//   - error: an error if a source fails pre-processing
func NewPureColor(options ...ShadingBuilderOption) (Shading, error) {
	s := &pureColorShading{
		index:     int(KindPureColor),
		rawVertex: source("pure_color.vert"),
		rawFrag:   source("pure_color.frag"),
	}
	for _, opt := range options {
		opt(s)
	}

	var err error
	s.vertex, err = shader.NewShader(KindPureColor.String()+".vert", shader.StageVertex, s.rawVertex)
	if err != nil {
		return nil, err
	}
	var fragOpts []shader.ShaderBuilderOption
	if s.color != nil {
		fragOpts = append(fragOpts, shader.WithDefine(pureColorDefine, glslVec4(*s.color)))
	}
	s.fragment, err = shader.NewShader(KindPureColor.String()+".frag", shader.StageFragment, s.rawFrag, fragOpts...)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *pureColorShading) Index() int {
	return s.index
}

func (s *pureColorShading) Kind() Kind {
	return KindPureColor
}

func (s *pureColorShading) VertexSource() string {
	return s.vertex.Source()
}

func (s *pureColorShading) FragmentSource() string {
	return s.fragment.Source()
}

func (s *pureColorShading) Compile(ctx gl.ProgramContext) (Program, error) {
	handle, err := ctx.LinkProgram(s.VertexSource(), s.FragmentSource())
	if err != nil {
		return nil, fmt.Errorf("shading: failed to build %s program: %w", KindPureColor, err)
	}

	attributes, err := resolveAttributes(ctx, handle, KindPureColor, AttributePosition)
	if err != nil {
		ctx.DeleteProgram(handle)
		return nil, err
	}
	uniforms, err := resolveUniforms(ctx, handle, KindPureColor,
		UniformProjectionMatrix, UniformWorldMatrix, UniformCameraInverseMatrix)
	if err != nil {
		ctx.DeleteProgram(handle)
		return nil, err
	}

	return &pureColorProgram{
		attributeTable:      attributes,
		ctx:                 ctx,
		handle:              handle,
		projectionMatrix:    uniforms[UniformProjectionMatrix],
		worldMatrix:         uniforms[UniformWorldMatrix],
		cameraInverseMatrix: uniforms[UniformCameraInverseMatrix],
	}, nil
}

// pureColorProgram is the implementation of the Program interface for KindPureColor.
type pureColorProgram struct {
	attributeTable

	ctx                 gl.ProgramContext
	handle              gl.Program
	projectionMatrix    gl.UniformLocation
	worldMatrix         gl.UniformLocation
	cameraInverseMatrix gl.UniformLocation
}

var _ Program = &pureColorProgram{}

func (p *pureColorProgram) Handle() gl.Program {
	return p.handle
}

func (p *pureColorProgram) Kind() Kind {
	return KindPureColor
}

func (p *pureColorProgram) UploadUniforms(state RenderState) {
	world := state.ModelTransform()
	p.ctx.UniformMatrix4fv(p.worldMatrix, &world)

	inverse := state.CameraInverse()
	p.ctx.UniformMatrix4fv(p.cameraInverseMatrix, &inverse)

	projection := state.CameraProjection()
	p.ctx.UniformMatrix4fv(p.projectionMatrix, &projection)
}

// glslVec4 formats an RGBA color as a GLSL vec4 constructor with float literals.
func glslVec4(c [4]float32) string {
	parts := make([]string, len(c))
	for i, v := range c {
		f := strconv.FormatFloat(float64(v), 'f', -1, 32)
		if !strings.Contains(f, ".") {
			f += ".0"
		}
		parts[i] = f
	}
	return "vec4(" + strings.Join(parts, ", ") + ")"
}

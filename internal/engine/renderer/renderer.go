// Package renderer draws viewer meshes with OpenGL 4.1 core.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/mesh"
	"github.com/Faultbox/meshview/internal/engine/shader"
	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/internal/viewer"
)

// Attribute slots shared by the shaders and the buffer layout.
const (
	attribPosition = 0
	attribNormal   = 1
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	Background [3]float32
}

// Renderer implements viewer.Backend on the current OpenGL context.
type Renderer struct {
	config Config

	program     uint32
	locCombined int32
	locModel    int32
	locLight    int32

	live int // uploaded meshes not yet released
}

var _ viewer.Backend = (*Renderer)(nil)

// New creates a new renderer.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	bg := cfg.Background
	gl.ClearColor(bg[0], bg[1], bg[2], 1.0)

	if err := r.createProgram(); err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))
	return r, nil
}

func (r *Renderer) createProgram() error {
	program, err := shader.CompileProgram(meshVertexShader, meshFragmentShader,
		shader.Attribute{Location: attribPosition, Name: "position"},
		shader.Attribute{Location: attribNormal, Name: "normal"},
	)
	if err != nil {
		return err
	}

	uniforms := []struct {
		name string
		dst  *int32
	}{
		{"uCombined", &r.locCombined},
		{"uModel", &r.locModel},
		{"uLight", &r.locLight},
	}
	for _, u := range uniforms {
		loc, err := shader.Uniform(program, u.name)
		if err != nil {
			gl.DeleteProgram(program)
			return err
		}
		*u.dst = loc
	}

	r.program = program
	logger.Debug("shader program created", zap.Uint32("program", program))
	return nil
}

// Upload writes m into a new vertex array. On failure every object created
// here is deleted again and the error is returned.
func (r *Renderer) Upload(m *mesh.Mesh) (viewer.GPUMesh, error) {
	if len(m.Vertices) == 0 || len(m.Indices) == 0 {
		return viewer.GPUMesh{}, mesh.ErrEmptyMesh
	}

	// Clear stale errors so the check below only reports this upload.
	for gl.GetError() != gl.NO_ERROR {
	}

	var g viewer.GPUMesh
	gl.GenVertexArrays(1, &g.VAO)
	gl.BindVertexArray(g.VAO)

	gl.GenBuffers(1, &g.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*mesh.VertexSize, unsafe.Pointer(&m.Vertices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &g.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(attribPosition)
	gl.VertexAttribPointerWithOffset(attribPosition, 3, gl.FLOAT, false, int32(mesh.VertexSize), 0)
	gl.EnableVertexAttribArray(attribNormal)
	gl.VertexAttribPointerWithOffset(attribNormal, 3, gl.FLOAT, false, int32(mesh.VertexSize), uintptr(mesh.NormalOffset))

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		r.deleteObjects(g)
		return viewer.GPUMesh{}, fmt.Errorf("GL error 0x%x during upload", code)
	}

	g.VertexCount = int32(len(m.Vertices))
	g.IndexCount = int32(len(m.Indices))
	r.live++

	logger.Debug("mesh uploaded",
		zap.Uint32("vao", g.VAO),
		zap.Int32("vertices", g.VertexCount),
		zap.Int32("indices", g.IndexCount),
	)
	return g, nil
}

// Release deletes the buffers of a mesh returned by Upload.
func (r *Renderer) Release(g viewer.GPUMesh) {
	r.deleteObjects(g)
	if r.live > 0 {
		r.live--
	}
	logger.Debug("mesh released", zap.Uint32("vao", g.VAO))
}

func (r *Renderer) deleteObjects(g viewer.GPUMesh) {
	if g.EBO != 0 {
		gl.DeleteBuffers(1, &g.EBO)
	}
	if g.VBO != 0 {
		gl.DeleteBuffers(1, &g.VBO)
	}
	if g.VAO != 0 {
		gl.DeleteVertexArrays(1, &g.VAO)
	}
}

// Draw issues one indexed draw of req.Mesh with req.Frame's transforms.
func (r *Renderer) Draw(req viewer.DrawRequest) {
	f := req.Frame
	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.locCombined, 1, false, f.Combined.Ptr())
	gl.UniformMatrix4fv(r.locModel, 1, false, f.Model.Ptr())
	gl.Uniform3f(r.locLight, f.LightDir.X, f.LightDir.Y, f.LightDir.Z)

	gl.BindVertexArray(req.Mesh.VAO)
	gl.DrawElements(gl.TRIANGLES, req.Mesh.IndexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// Close cleans up renderer resources. Meshes must be released first.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	if r.live > 0 {
		logger.Warn("renderer closed with live meshes", zap.Int("count", r.live))
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
}

// Resize handles window resize. Sizes are in drawable pixels.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// ReadPixels returns the current framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	if w <= 0 || h <= 0 {
		return nil, 0, 0
	}
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, w, h
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

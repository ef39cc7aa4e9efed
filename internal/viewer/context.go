package viewer

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/engine/mesh"
	"github.com/Faultbox/meshview/internal/logger"
	"github.com/Faultbox/meshview/pkg/formats"
)

// ErrNoMesh is returned by Render before any mesh has been uploaded.
var ErrNoMesh = errors.New("no mesh loaded")

// GPUMesh is an opaque set of device buffer handles for one uploaded mesh.
type GPUMesh struct {
	VAO         uint32
	VBO         uint32
	EBO         uint32
	VertexCount int32
	IndexCount  int32
}

// DrawRequest is everything the rendering collaborator needs for one draw.
type DrawRequest struct {
	Frame Frame
	Mesh  GPUMesh
}

// Backend is the rendering collaborator.
type Backend interface {
	// Upload writes m into new device buffers. Existing buffers are untouched.
	Upload(m *mesh.Mesh) (GPUMesh, error)
	// Release frees buffers returned by Upload.
	Release(GPUMesh)
	// Draw issues one indexed draw.
	Draw(DrawRequest)
}

// MeshInfo describes the currently displayed mesh.
type MeshInfo struct {
	Source    string
	Vertices  int
	Triangles int
	Bounds    mesh.Bounds
}

// Options configures a Context.
type Options struct {
	Frame   FrameSettings
	Initial State
}

// DefaultOptions returns the stock lens, light and starting pose.
func DefaultOptions() Options {
	return Options{
		Frame:   DefaultFrameSettings(),
		Initial: DefaultState(),
	}
}

// Context is the viewer's application state: interaction, viewport and the
// current mesh. It must only be used from the render thread.
type Context struct {
	backend  Backend
	opts     Options
	input    *Interaction
	viewport Viewport
	queue    []Event

	mesh    GPUMesh
	hasMesh bool
	info    MeshInfo
}

// NewContext creates a Context drawing through backend.
func NewContext(backend Backend, opts Options) *Context {
	return &Context{
		backend: backend,
		opts:    opts,
		input:   NewInteraction(opts.Initial),
		queue:   make([]Event, 0, 16),
	}
}

// State returns the current interaction state.
func (c *Context) State() State {
	return c.input.State
}

// Drag returns the current drag gesture.
func (c *Context) Drag() Drag {
	return c.input.Drag
}

// Viewport returns the last viewport set by Resize.
func (c *Context) Viewport() Viewport {
	return c.viewport
}

// Mesh returns the current buffer handles, if any.
func (c *Context) Mesh() (GPUMesh, bool) {
	return c.mesh, c.hasMesh
}

// Info describes the current mesh.
func (c *Context) Info() MeshInfo {
	return c.info
}

// Resize records the render target size.
func (c *Context) Resize(width, height int) {
	c.viewport = Viewport{Width: width, Height: height}
}

// Push queues an event for the next Dispatch.
func (c *Context) Push(ev Event) {
	c.queue = append(c.queue, ev)
}

// Dispatch applies queued events in arrival order and returns how many
// changed the state.
func (c *Context) Dispatch() int {
	handled := 0
	for _, ev := range c.queue {
		if c.input.Handle(ev) {
			handled++
		}
	}
	c.queue = c.queue[:0]
	return handled
}

// Reset restores the starting pose.
func (c *Context) Reset() {
	c.input.Reset(c.opts.Initial)
}

// LoadDefault displays the built-in cube.
func (c *Context) LoadDefault() error {
	return c.Replace("default cube", mesh.DefaultCube())
}

// Reload parses OBJ text and displays it. On any failure the current mesh
// stays on screen and the error is returned.
func (c *Context) Reload(source string, data []byte) error {
	obj, err := formats.ParseOBJ(data)
	if err != nil {
		return c.rejected(source, fmt.Errorf("parsing %s: %w", source, err))
	}
	m, err := mesh.Assemble(obj)
	if err != nil {
		return c.rejected(source, fmt.Errorf("assembling %s: %w", source, err))
	}
	return c.Replace(source, m)
}

// ReloadFile reads path and calls Reload.
func (c *Context) ReloadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return c.rejected(path, fmt.Errorf("reading %s: %w", path, err))
	}
	return c.Reload(path, data)
}

// Replace uploads m and swaps it in. The previous buffers are released only
// after the new ones are fully written, so a failed upload leaves the
// previous mesh drawable.
func (c *Context) Replace(source string, m *mesh.Mesh) error {
	if m == nil {
		return c.rejected(source, mesh.ErrNoGeometry)
	}
	if err := m.Validate(); err != nil {
		return c.rejected(source, fmt.Errorf("validating %s: %w", source, err))
	}

	next, err := c.backend.Upload(m)
	if err != nil {
		return c.rejected(source, fmt.Errorf("uploading %s: %w", source, err))
	}

	prev, hadPrev := c.mesh, c.hasMesh
	c.mesh, c.hasMesh = next, true
	c.info = MeshInfo{
		Source:    source,
		Vertices:  len(m.Vertices),
		Triangles: m.TriangleCount(),
		Bounds:    m.Bounds,
	}
	if hadPrev {
		c.backend.Release(prev)
	}

	size := m.Bounds.Size()
	logger.Info("mesh loaded",
		zap.String("source", source),
		zap.Int("vertices", c.info.Vertices),
		zap.Int("triangles", c.info.Triangles),
		zap.Float32s("size", size[:]),
	)
	return nil
}

func (c *Context) rejected(source string, err error) error {
	logger.Warn("mesh load rejected, keeping current mesh",
		zap.String("source", source),
		zap.String("current", c.info.Source),
		zap.Error(err),
	)
	return err
}

// Frame composes the transforms for the current state and viewport.
func (c *Context) Frame() (Frame, error) {
	return c.opts.Frame.Compose(c.viewport, c.input.State)
}

// Render draws the current mesh. Errors leave the loop free to continue.
func (c *Context) Render() error {
	if !c.hasMesh {
		return ErrNoMesh
	}
	frame, err := c.Frame()
	if err != nil {
		return err
	}
	c.backend.Draw(DrawRequest{Frame: frame, Mesh: c.mesh})
	return nil
}

// Close releases the current mesh.
func (c *Context) Close() {
	if c.hasMesh {
		c.backend.Release(c.mesh)
		c.mesh, c.hasMesh = GPUMesh{}, false
	}
}

package viewer

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/meshview/pkg/math"
)

// ErrDegenerateViewport is returned when the render target has no area.
var ErrDegenerateViewport = errors.New("degenerate viewport")

// Viewport is the render target size in pixels.
type Viewport struct {
	Width  int
	Height int
}

// Aspect returns width/height.
func (v Viewport) Aspect() float32 {
	return float32(v.Width) / float32(v.Height)
}

// Valid reports whether both dimensions are positive.
func (v Viewport) Valid() bool {
	return v.Width > 0 && v.Height > 0
}

// FrameSettings are the fixed per-frame projection and lighting inputs.
type FrameSettings struct {
	FovY     float32 // radians
	Near     float32
	Far      float32
	LightDir math.Vec3
}

// DefaultFrameSettings returns a 45 degree lens with a 0.1..100 depth range.
func DefaultFrameSettings() FrameSettings {
	return FrameSettings{
		FovY:     math32.Pi / 4,
		Near:     0.1,
		Far:      100,
		LightDir: math.Vec3{X: 0.3, Y: 0.5, Z: 0.8},
	}
}

// Frame holds the matrices and light direction for one draw.
type Frame struct {
	Model      math.Mat4
	Projection math.Mat4
	Combined   math.Mat4
	LightDir   math.Vec3
}

// ModelMatrix composes the object transform.
// Order: scale, then pitch, then yaw, then translation.
func ModelMatrix(s State) math.Mat4 {
	m := math.Identity().ScaledUniform(s.Scale)
	m = math.RotateX(s.RotationX).Mul(m)
	m = math.RotateY(s.RotationY).Mul(m)
	return m.Translated(s.TransX, s.TransY, s.TransZ)
}

// Compose builds a frame with DefaultFrameSettings.
func Compose(vp Viewport, s State) (Frame, error) {
	return DefaultFrameSettings().Compose(vp, s)
}

// Compose builds the model, projection and combined transforms for vp and s.
// It has no side effects.
func (fs FrameSettings) Compose(vp Viewport, s State) (Frame, error) {
	if !vp.Valid() {
		return Frame{}, fmt.Errorf("%w: %dx%d", ErrDegenerateViewport, vp.Width, vp.Height)
	}
	aspect := vp.Aspect()
	if err := math.ValidatePerspective(fs.FovY, aspect, fs.Near, fs.Far); err != nil {
		return Frame{}, err
	}

	model := ModelMatrix(s)
	projection := math.Perspective(fs.FovY, aspect, fs.Near, fs.Far)

	return Frame{
		Model:      model,
		Projection: projection,
		Combined:   projection.Mul(model),
		LightDir:   fs.LightDir,
	}, nil
}

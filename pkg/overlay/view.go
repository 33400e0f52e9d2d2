package overlay

import (
	"math"

	"nadecast/pkg/math3d"
)

// Points closer to the projection plane than this are rejected rather than
// blowing up the perspective divide.
const minClipW = 0.1

// View holds one frame's camera: the combined view-projection matrix, the
// camera's world position and the target surface size in pixels.
type View struct {
	viewProj math3d.Mat4
	camera   math3d.Vec3
	width    float64
	height   float64
}

// NewView builds a view from a camera position and view angles in degrees
// (pitch down-positive, yaw), matching the game's Z-up convention.
func NewView(camera math3d.Vec3, pitchDeg, yawDeg, fovDeg, width, height float64) *View {
	pitch := pitchDeg * math.Pi / 180
	yaw := yawDeg * math.Pi / 180
	forward := math3d.V3(
		math.Cos(pitch)*math.Cos(yaw),
		math.Cos(pitch)*math.Sin(yaw),
		-math.Sin(pitch),
	)

	up := math3d.UnitZ()
	if math.Abs(forward.Z) >= 0.99 {
		up = math3d.UnitX()
	}

	aspect := width / height
	if height == 0 {
		aspect = 1
	}
	proj := math3d.Perspective(fovDeg*math.Pi/180, aspect, 1, 20000)
	view := math3d.LookAt(camera, camera.Add(forward), up)

	return &View{
		viewProj: proj.Mul(view),
		camera:   camera,
		width:    width,
		height:   height,
	}
}

// NewViewFromMatrix wraps an externally computed view-projection matrix.
func NewViewFromMatrix(viewProj math3d.Mat4, camera math3d.Vec3, width, height float64) *View {
	return &View{viewProj: viewProj, camera: camera, width: width, height: height}
}

// WorldToScreen projects a world point onto the surface. ok is false when
// the point lies behind or too close to the camera plane.
func (v *View) WorldToScreen(p math3d.Vec3) (math3d.Vec2, bool) {
	clip := v.viewProj.MulVec4(math3d.V4FromV3(p, 1))
	if clip.W < minClipW {
		return math3d.Vec2{}, false
	}
	x := (clip.X/clip.W + 1) * 0.5 * v.width
	y := (1 - clip.Y/clip.W) * 0.5 * v.height
	return math3d.V2(x, y), true
}

// CameraPosition returns the camera's world position.
func (v *View) CameraPosition() math3d.Vec3 {
	return v.camera
}

// Size returns the surface size in pixels.
func (v *View) Size() (width, height float64) {
	return v.width, v.height
}

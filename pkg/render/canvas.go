package render

import (
	"image/color"
	"math"

	"nadecast/pkg/math3d"
)

// Canvas draws overlay primitives into a framebuffer with alpha blending.
// Coordinates are framebuffer pixels; callers are expected to hand in
// screen-space geometry already.
type Canvas struct {
	fb *Framebuffer
}

// NewCanvas wraps a framebuffer.
func NewCanvas(fb *Framebuffer) *Canvas {
	return &Canvas{fb: fb}
}

// blend composites a normalized color over the pixel at (x, y).
func (c *Canvas) blend(x, y int, col math3d.RGBA) {
	if col.A <= 0 {
		return
	}
	if col.A >= 1 {
		c.fb.SetPixel(x, y, toRGBA8(col))
		return
	}
	dst := c.fb.GetPixel(x, y)
	a := col.A
	c.fb.SetPixel(x, y, color.RGBA{
		R: uint8(col.R*a*255 + float64(dst.R)*(1-a)),
		G: uint8(col.G*a*255 + float64(dst.G)*(1-a)),
		B: uint8(col.B*a*255 + float64(dst.B)*(1-a)),
		A: 255,
	})
}

func toRGBA8(c math3d.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Line draws a line between two points. Thickness above 1 widens the line
// by stamping perpendicular offsets.
func (c *Canvas) Line(a, b math3d.Vec2, col math3d.RGBA, thickness float64) {
	steps := int(thickness + 0.5)
	if steps < 1 {
		steps = 1
	}
	// Offset perpendicular to the dominant direction.
	dx, dy := 0, 1
	if math.Abs(b.Y-a.Y) > math.Abs(b.X-a.X) {
		dx, dy = 1, 0
	}
	for i := range steps {
		off := i - steps/2
		c.line(
			int(a.X)+off*dx, int(a.Y)+off*dy,
			int(b.X)+off*dx, int(b.Y)+off*dy,
			col,
		)
	}
}

// line is Bresenham with blending.
func (c *Canvas) line(x0, y0, x1, y1 int, col math3d.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		c.blend(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Polyline draws connected segments through the points.
func (c *Canvas) Polyline(points []math3d.Vec2, col math3d.RGBA, thickness float64) {
	for i := 1; i < len(points); i++ {
		c.Line(points[i-1], points[i], col, thickness)
	}
}

// FillPolygon fills a polygon with even-odd scanline rules. Handles the
// convex and mildly concave shapes the overlays produce.
func (c *Canvas) FillPolygon(points []math3d.Vec2, col math3d.RGBA) {
	if len(points) < 3 {
		return
	}
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	y0 := int(math.Max(0, math.Floor(minY)))
	y1 := int(math.Min(float64(c.fb.Height-1), math.Ceil(maxY)))

	var xs []float64
	for y := y0; y <= y1; y++ {
		scanY := float64(y) + 0.5
		xs = xs[:0]
		for i := range points {
			a := points[i]
			b := points[(i+1)%len(points)]
			if (a.Y <= scanY) == (b.Y <= scanY) {
				continue
			}
			t := (scanY - a.Y) / (b.Y - a.Y)
			xs = append(xs, a.X+t*(b.X-a.X))
		}
		sortFloats(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := int(xs[i] + 0.5); x < int(xs[i+1]+0.5); x++ {
				c.blend(x, y, col)
			}
		}
	}
}

// FillTriangle rasterizes a solid triangle over its bounding box using
// barycentric coordinates.
func (c *Canvas) FillTriangle(p0, p1, p2 math3d.Vec2, col math3d.RGBA) {
	area := (p1.X-p0.X)*(p2.Y-p0.Y) - (p1.Y-p0.Y)*(p2.X-p0.X)
	if area == 0 {
		return
	}

	minX := int(math.Max(0, math.Floor(min3(p0.X, p1.X, p2.X))))
	maxX := int(math.Min(float64(c.fb.Width-1), math.Ceil(max3(p0.X, p1.X, p2.X))))
	minY := int(math.Max(0, math.Floor(min3(p0.Y, p1.Y, p2.Y))))
	maxY := int(math.Min(float64(c.fb.Height-1), math.Ceil(max3(p0.Y, p1.Y, p2.Y))))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			w0 := ((p1.X-px)*(p2.Y-py) - (p1.Y-py)*(p2.X-px)) / area
			w1 := ((p2.X-px)*(p0.Y-py) - (p2.Y-py)*(p0.X-px)) / area
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			c.blend(x, y, col)
		}
	}
}

// FillCircle fills a circle by bounding-box distance test.
func (c *Canvas) FillCircle(center math3d.Vec2, radius float64, col math3d.RGBA) {
	minX := int(math.Floor(center.X - radius))
	maxX := int(math.Ceil(center.X + radius))
	minY := int(math.Floor(center.Y - radius))
	maxY := int(math.Ceil(center.Y + radius))
	r2 := radius * radius

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			dx := float64(x) + 0.5 - center.X
			dy := float64(y) + 0.5 - center.Y
			if dx*dx+dy*dy <= r2 {
				c.blend(x, y, col)
			}
		}
	}
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}

// sortFloats is insertion sort; scanline crossings are tiny slices.
func sortFloats(s []float64) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

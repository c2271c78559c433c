// Package curve turns a motion path into a continuous position function of
// normalized progress t in [0,1].
package curve

import (
	"math"

	"github.com/richmedia/richmedia/backend-go/internal/document"
	"github.com/richmedia/richmedia/backend-go/internal/geometry"
)

const (
	// SplineTension is the cardinal-spline tension; 0.5 gives Catmull-Rom.
	SplineTension = 0.5

	// RadiusFactor sizes preset circles and arcs relative to the shorter
	// canvas side.
	RadiusFactor = 0.8

	// WavePeriods is the number of full sine periods across the canvas.
	WavePeriods = 4

	// WaveAmplitude is the wave height relative to the canvas height.
	WaveAmplitude = 0.2

	// WaveSteps is the number of segments the wave is flattened into.
	WaveSteps = 100
)

// Sample returns the pixel position along path at progress t. t is clamped to
// [0,1]. Paths with fewer than two points degrade to a fixed position: the
// single point, or the canvas center when there are none. Circular, arc and
// wave paths ignore the point coordinates otherwise.
func Sample(path document.Path, t float64, canvas geometry.Size) geometry.Point {
	t = geometry.Clamp(t, 0, 1)

	pts := toPixels(path.Points, canvas)
	switch len(pts) {
	case 0:
		return canvas.Center()
	case 1:
		return pts[0]
	}

	switch path.Type {
	case document.PathCircular:
		return circle(canvas, 2*math.Pi, t)
	case document.PathArc:
		return circle(canvas, math.Pi/2, t)
	case document.PathWave:
		return wave(canvas, t)
	case document.PathLinear:
		return polyline(pts, t)
	case document.PathBezier:
		if len(pts) == 3 && path.CurveType == document.CurveQuadratic {
			return quadratic(pts[0], pts[1], pts[2], t)
		}
		if len(pts) == 4 && path.CurveType == document.CurveCubic {
			return cubic(pts[0], pts[1], pts[2], pts[3], t)
		}
		return spline(pts, t)
	default:
		// custom and anything the validator would have rejected
		return spline(pts, t)
	}
}

// Polyline flattens path into steps+1 evenly spaced samples, for previews.
func Polyline(path document.Path, canvas geometry.Size, steps int) []geometry.Point {
	if steps < 1 {
		steps = 1
	}
	out := make([]geometry.Point, steps+1)
	for i := 0; i <= steps; i++ {
		out[i] = Sample(path, float64(i)/float64(steps), canvas)
	}
	return out
}

// toPixels clamps each point onto the normalized canvas first, so unvalidated
// paths still sample to finite pixels.
func toPixels(points []document.Point, canvas geometry.Size) []geometry.Point {
	out := make([]geometry.Point, len(points))
	for i, p := range points {
		out[i] = geometry.Point{
			X: geometry.Clamp(p.X, 0, 1) * canvas.Width,
			Y: geometry.Clamp(p.Y, 0, 1) * canvas.Height,
		}
	}
	return out
}

// circle traces sweep radians clockwise from angle 0 around the canvas center.
func circle(canvas geometry.Size, sweep, t float64) geometry.Point {
	c := canvas.Center()
	r := RadiusFactor * min(canvas.Width, canvas.Height) / 2
	angle := sweep * t
	if sweep == 2*math.Pi && t == 1 {
		// closed loop: end exactly where it started
		angle = 0
	}
	// y grows downward, so increasing angle runs clockwise on screen.
	return geometry.Point{X: c.X + r*math.Cos(angle), Y: c.Y + r*math.Sin(angle)}
}

// wave flattens a sine across the canvas width and interpolates between
// the flattened samples.
func wave(canvas geometry.Size, t float64) geometry.Point {
	pos := t * WaveSteps
	i := int(math.Floor(pos))
	if i >= WaveSteps {
		i = WaveSteps - 1
	}
	frac := pos - float64(i)
	a := waveAt(canvas, float64(i)/WaveSteps)
	b := waveAt(canvas, float64(i+1)/WaveSteps)
	return a.Lerp(b, frac)
}

func waveAt(canvas geometry.Size, u float64) geometry.Point {
	amp := WaveAmplitude * canvas.Height
	return geometry.Point{
		X: u * canvas.Width,
		Y: canvas.Height/2 - amp*math.Sin(2*math.Pi*WavePeriods*u),
	}
}

// polyline interpolates through pts by cumulative arc length.
func polyline(pts []geometry.Point, t float64) geometry.Point {
	lengths := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		lengths[i] = lengths[i-1] + pts[i-1].Distance(pts[i])
	}
	total := lengths[len(lengths)-1]
	if total == 0 {
		return pts[0]
	}

	target := t * total
	for i := 1; i < len(pts); i++ {
		if target <= lengths[i] {
			seg := lengths[i] - lengths[i-1]
			if seg == 0 {
				return pts[i]
			}
			return pts[i-1].Lerp(pts[i], (target-lengths[i-1])/seg)
		}
	}
	return pts[len(pts)-1]
}

func quadratic(p0, p1, p2 geometry.Point, t float64) geometry.Point {
	u := 1 - t
	return geometry.Point{
		X: u*u*p0.X + 2*u*t*p1.X + t*t*p2.X,
		Y: u*u*p0.Y + 2*u*t*p1.Y + t*t*p2.Y,
	}
}

func cubic(p0, p1, p2, p3 geometry.Point, t float64) geometry.Point {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	c := 3 * u * t * t
	d := t * t * t
	return geometry.Point{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

// spline is a cardinal spline through every point. Segments share t evenly
// and the end points are duplicated as phantom neighbours.
func spline(pts []geometry.Point, t float64) geometry.Point {
	segments := len(pts) - 1
	pos := t * float64(segments)
	i := int(math.Floor(pos))
	if i >= segments {
		i = segments - 1
	}
	local := pos - float64(i)

	p0 := pts[max(i-1, 0)]
	p1 := pts[i]
	p2 := pts[i+1]
	p3 := pts[min(i+2, len(pts)-1)]
	return hermite(p1, p2, tangent(p0, p2), tangent(p1, p3), local)
}

func tangent(prev, next geometry.Point) geometry.Point {
	return geometry.Point{
		X: SplineTension * (next.X - prev.X),
		Y: SplineTension * (next.Y - prev.Y),
	}
}

func hermite(p1, p2, m1, m2 geometry.Point, s float64) geometry.Point {
	s2 := s * s
	s3 := s2 * s
	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2
	return geometry.Point{
		X: h00*p1.X + h10*m1.X + h01*p2.X + h11*m2.X,
		Y: h00*p1.Y + h10*m1.Y + h01*p2.Y + h11*m2.Y,
	}
}

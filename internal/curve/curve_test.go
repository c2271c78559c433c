package curve

import (
	"math"
	"testing"

	"github.com/richmedia/richmedia/backend-go/internal/document"
	"github.com/richmedia/richmedia/backend-go/internal/geometry"
)

var canvas = geometry.Size{Width: 390, Height: 844}

func pts(xy ...float64) []document.Point {
	out := make([]document.Point, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, document.Point{X: xy[i], Y: xy[i+1]})
	}
	return out
}

func near(a, b geometry.Point, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

func TestCircularClosedLoop(t *testing.T) {
	path := document.Path{Type: document.PathCircular, Points: pts(0, 0, 1, 1)}

	start := Sample(path, 0, canvas)
	end := Sample(path, 1, canvas)
	if start != end {
		t.Fatalf("t=0 %+v and t=1 %+v differ", start, end)
	}

	r := RadiusFactor * 390 / 2
	if !near(start, geometry.Point{X: 195 + r, Y: 422}, 1e-9) {
		t.Errorf("start = %+v, want angle 0 on radius %v", start, r)
	}

	half := Sample(path, 0.5, canvas)
	c := canvas.Center()
	opposite := geometry.Point{X: 2*c.X - start.X, Y: 2*c.Y - start.Y}
	if !near(half, opposite, 1e-9) {
		t.Errorf("t=0.5 = %+v, want diametrically opposite %+v", half, opposite)
	}

	// Clockwise on a y-down canvas: a quarter turn lands below the center.
	quarter := Sample(path, 0.25, canvas)
	if !near(quarter, geometry.Point{X: 195, Y: 422 + r}, 1e-9) {
		t.Errorf("t=0.25 = %+v, want bottom of circle", quarter)
	}
}

func TestArcQuarterCircle(t *testing.T) {
	path := document.Path{Type: document.PathArc, Points: pts(0, 0, 1, 1)}
	r := RadiusFactor * 390 / 2

	end := Sample(path, 1, canvas)
	if !near(end, geometry.Point{X: 195, Y: 422 + r}, 1e-9) {
		t.Errorf("arc end = %+v", end)
	}
}

func TestLinearArcLength(t *testing.T) {
	// Three points with uneven spacing: the first leg is a third of the length.
	path := document.Path{Type: document.PathLinear, Points: pts(0, 0, 0.1, 0, 0.3, 0)}
	c := geometry.Size{Width: 300, Height: 100}

	tests := []struct {
		t    float64
		want geometry.Point
	}{
		{0, geometry.Point{X: 0}},
		{1.0 / 3.0, geometry.Point{X: 30}},
		{0.5, geometry.Point{X: 45}},
		{1, geometry.Point{X: 90}},
		{2, geometry.Point{X: 90}},
		{-1, geometry.Point{X: 0}},
	}
	for _, tt := range tests {
		if got := Sample(path, tt.t, c); !near(got, tt.want, 1e-9) {
			t.Errorf("Sample(%v) = %+v, want %+v", tt.t, got, tt.want)
		}
	}
}

func TestBezierSelection(t *testing.T) {
	quad := document.Path{Type: document.PathBezier, CurveType: document.CurveQuadratic, Points: pts(0, 0, 0.5, 1, 1, 0)}
	mid := Sample(quad, 0.5, geometry.Size{Width: 100, Height: 100})
	if !near(mid, geometry.Point{X: 50, Y: 50}, 1e-9) {
		t.Errorf("quadratic midpoint = %+v, want (50,50)", mid)
	}

	cub := document.Path{Type: document.PathBezier, CurveType: document.CurveCubic, Points: pts(0, 0, 0, 1, 1, 1, 1, 0)}
	mid = Sample(cub, 0.5, geometry.Size{Width: 100, Height: 100})
	if !near(mid, geometry.Point{X: 50, Y: 75}, 1e-9) {
		t.Errorf("cubic midpoint = %+v, want (50,75)", mid)
	}

	// Curve type and point count disagree: falls back to the spline, which
	// passes through the middle control point.
	mismatch := document.Path{Type: document.PathBezier, CurveType: document.CurveCubic, Points: pts(0, 0, 0.5, 1, 1, 0)}
	mid = Sample(mismatch, 0.5, geometry.Size{Width: 100, Height: 100})
	if !near(mid, geometry.Point{X: 50, Y: 100}, 1e-9) {
		t.Errorf("fallback midpoint = %+v, want control point (50,100)", mid)
	}
}

func TestSplineInterpolatesPoints(t *testing.T) {
	path := document.Path{Type: document.PathCustom, Points: pts(0.1, 0.1, 0.4, 0.8, 0.6, 0.2, 0.9, 0.9)}
	c := geometry.Size{Width: 100, Height: 100}
	for i, p := range path.Points {
		got := Sample(path, float64(i)/3, c)
		want := geometry.Point{X: p.X * 100, Y: p.Y * 100}
		if !near(got, want, 1e-9) {
			t.Errorf("knot %d = %+v, want %+v", i, got, want)
		}
	}
}

func TestWave(t *testing.T) {
	path := document.Path{Type: document.PathWave, Points: pts(0, 0, 1, 1)}
	start := Sample(path, 0, canvas)
	end := Sample(path, 1, canvas)
	if !near(start, geometry.Point{X: 0, Y: 422}, 1e-9) || !near(end, geometry.Point{X: 390, Y: 422}, 1e-6) {
		t.Errorf("wave endpoints = %+v, %+v", start, end)
	}

	// First crest near 1/16 of the width, one amplitude above the midline.
	// The flattened wave cuts the crest by at most a pixel or two.
	amp := WaveAmplitude * 844
	crest := Sample(path, 1.0/16, canvas)
	if !near(crest, geometry.Point{X: 390.0 / 16, Y: 422 - amp}, 2) {
		t.Errorf("crest = %+v", crest)
	}
	for i := 0; i <= 1000; i++ {
		p := Sample(path, float64(i)/1000, canvas)
		if math.Abs(p.Y-422) > amp+1e-9 {
			t.Fatalf("wave exceeds amplitude at %+v", p)
		}
	}
}

func TestContinuity(t *testing.T) {
	paths := []document.Path{
		{Type: document.PathLinear, Points: pts(0.1, 0.1, 0.9, 0.1, 0.9, 0.9, 0.1, 0.9)},
		{Type: document.PathBezier, CurveType: document.CurveQuadratic, Points: pts(0, 0, 0.5, 1, 1, 0)},
		{Type: document.PathBezier, CurveType: document.CurveCubic, Points: pts(0, 0, 0, 1, 1, 1, 1, 0)},
		{Type: document.PathBezier, Points: pts(0, 0, 0.2, 0.9, 0.5, 0.1, 0.8, 0.9, 1, 0)},
		{Type: document.PathCircular, Points: pts(0, 0, 1, 1)},
		{Type: document.PathArc, Points: pts(0, 0, 1, 1)},
		{Type: document.PathWave, Points: pts(0, 0, 1, 1)},
		{Type: document.PathCustom, Points: pts(0.5, 0.5, 0.52, 0.51, 0.9, 0.1, 0.1, 0.9, 0.5, 0.5)},
	}

	const steps = 20000
	// Largest jump allowed between neighbouring samples: a generous multiple
	// of the path's average step for a canvas of this size.
	const maxJump = 5.0
	for _, p := range paths {
		t.Run(string(p.Type), func(t *testing.T) {
			prev := Sample(p, 0, canvas)
			for i := 1; i <= steps; i++ {
				cur := Sample(p, float64(i)/steps, canvas)
				if d := prev.Distance(cur); d > maxJump {
					t.Fatalf("jump of %v px at t=%v", d, float64(i)/steps)
				}
				prev = cur
			}
		})
	}
}

func TestDegeneratePaths(t *testing.T) {
	single := document.Path{Type: document.PathLinear, Points: pts(0.25, 0.75)}
	for _, tt := range []float64{0, 0.5, 1} {
		if got := Sample(single, tt, geometry.Size{Width: 100, Height: 100}); got != (geometry.Point{X: 25, Y: 75}) {
			t.Errorf("single point at %v = %+v", tt, got)
		}
	}

	empty := document.Path{Type: document.PathCircular}
	if got := Sample(empty, 0.3, canvas); got != canvas.Center() {
		t.Errorf("empty path = %+v, want canvas center", got)
	}

	overlap := document.Path{Type: document.PathLinear, Points: pts(0.5, 0.5, 0.5, 0.5)}
	if got := Sample(overlap, 0.7, geometry.Size{Width: 10, Height: 10}); got != (geometry.Point{X: 5, Y: 5}) {
		t.Errorf("zero-length path = %+v", got)
	}

	if got := Sample(single, math.NaN(), geometry.Size{Width: 100, Height: 100}); got != (geometry.Point{X: 25, Y: 75}) {
		t.Errorf("NaN progress = %+v", got)
	}
}

func TestOutOfRangePointsClamp(t *testing.T) {
	size := geometry.Size{Width: 100, Height: 200}
	for _, typ := range []document.PathType{document.PathLinear, document.PathBezier, document.PathCustom} {
		path := document.Path{Type: typ, Points: pts(0.1, 0.1, 1e308, 0.5, math.NaN(), math.Inf(-1))}
		for i := 0; i <= 20; i++ {
			p := Sample(path, float64(i)/20, size)
			if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
				t.Fatalf("%s sample %d = %+v", typ, i, p)
			}
		}
	}

	line := document.Path{Type: document.PathLinear, Points: pts(-3, 0.5, 1e308, 0.5)}
	if got := Sample(line, 0, size); got != (geometry.Point{X: 0, Y: 100}) {
		t.Errorf("start = %+v, want left edge", got)
	}
	if got := Sample(line, 1, size); got != (geometry.Point{X: 100, Y: 100}) {
		t.Errorf("end = %+v, want right edge", got)
	}
}

func TestPolyline(t *testing.T) {
	path := document.Path{Type: document.PathLinear, Points: pts(0, 0, 1, 0)}
	line := Polyline(path, geometry.Size{Width: 100, Height: 10}, 4)
	if len(line) != 5 {
		t.Fatalf("len = %d, want 5", len(line))
	}
	for i, p := range line {
		if !near(p, geometry.Point{X: float64(i) * 25}, 1e-9) {
			t.Errorf("sample %d = %+v", i, p)
		}
	}
}

func TestDeterminism(t *testing.T) {
	path := document.Path{Type: document.PathCustom, Points: pts(0.1, 0.2, 0.3, 0.9, 0.7, 0.4)}
	for i := 0; i <= 100; i++ {
		tt := float64(i) / 100
		a := Sample(path, tt, canvas)
		b := Sample(path, tt, canvas)
		if math.Float64bits(a.X) != math.Float64bits(b.X) || math.Float64bits(a.Y) != math.Float64bits(b.Y) {
			t.Fatalf("non-deterministic sample at %v", tt)
		}
	}
}

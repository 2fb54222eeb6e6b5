package layout

import (
	"math"
	"testing"
)

func TestViewportApplyInvertRoundtrip(t *testing.T) {
	v := NewViewport()
	v.Pan(120, -45)
	v.ZoomAt(1.7, 300, 200)

	for _, p := range [][2]float64{{0, 0}, {400, 300}, {-250, 999}} {
		sx, sy := v.Apply(p[0], p[1])
		wx, wy := v.Invert(sx, sy)
		if math.Abs(wx-p[0]) > 1e-9 || math.Abs(wy-p[1]) > 1e-9 {
			t.Fatalf("roundtrip of (%v,%v) gave (%v,%v)", p[0], p[1], wx, wy)
		}
	}
}

func TestViewportZoomKeepsFocusFixed(t *testing.T) {
	v := NewViewport()
	v.Pan(50, 80)

	fx, fy := 200.0, 150.0
	wx, wy := v.Invert(fx, fy)

	for _, factor := range []float64{2, 0.5, 3, 100, 0.001} {
		v.ZoomAt(factor, fx, fy)
		sx, sy := v.Apply(wx, wy)
		if math.Abs(sx-fx) > 1e-9 || math.Abs(sy-fy) > 1e-9 {
			t.Fatalf("after zoom %v focus moved to (%v,%v), want (%v,%v)", factor, sx, sy, fx, fy)
		}
		wx, wy = v.Invert(fx, fy)
	}
}

func TestViewportZoomClamped(t *testing.T) {
	tests := []struct {
		name    string
		factors []float64
		want    float64
	}{
		{"single huge zoom in", []float64{1e6}, MaxScale},
		{"single huge zoom out", []float64{1e-6}, MinScale},
		{"repeated zoom in", []float64{2, 2, 2, 2, 2}, MaxScale},
		{"repeated zoom out", []float64{0.5, 0.5, 0.5, 0.5, 0.5}, MinScale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewViewport()
			for _, f := range tt.factors {
				v.ZoomAt(f, 100, 100)
			}
			if v.Scale != tt.want {
				t.Fatalf("scale = %v, want %v", v.Scale, tt.want)
			}
		})
	}
}

func TestViewportRejectsNonPositiveFactor(t *testing.T) {
	v := NewViewport()
	v.Pan(10, 20)
	before := *v

	v.ZoomAt(0, 50, 50)
	v.ZoomAt(-3, 50, 50)

	if *v != before {
		t.Fatalf("non-positive zoom factor changed viewport: %+v", *v)
	}
}

func TestViewportPanAccumulates(t *testing.T) {
	v := NewViewport()
	v.Pan(10, 5)
	v.Pan(-4, 15)
	if v.TranslateX != 6 || v.TranslateY != 20 {
		t.Fatalf("translate (%v,%v), want (6,20)", v.TranslateX, v.TranslateY)
	}

	sx, sy := v.Apply(100, 100)
	if sx != 106 || sy != 120 {
		t.Fatalf("Apply(100,100) = (%v,%v), want (106,120)", sx, sy)
	}
}

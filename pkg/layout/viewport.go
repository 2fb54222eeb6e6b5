package layout

// Viewport scale bounds. Zoom input is clamped here no matter how
// large the incoming delta is.
const (
	MinScale = 0.1
	MaxScale = 4.0
)

// Viewport is the affine pan/zoom transform mapping simulated world
// coordinates to screen coordinates. It is independent of the
// simulation: changing it never moves a node.
type Viewport struct {
	TranslateX float64 `json:"translate_x"`
	TranslateY float64 `json:"translate_y"`
	Scale      float64 `json:"scale"`
}

// NewViewport returns the identity transform.
func NewViewport() *Viewport {
	return &Viewport{Scale: 1}
}

// Pan shifts the viewport by a screen-space delta.
func (v *Viewport) Pan(dx, dy float64) {
	v.TranslateX += dx
	v.TranslateY += dy
}

// ZoomAt multiplies the scale by factor, keeping the screen point
// (fx, fy) fixed. The resulting scale is clamped to [MinScale,
// MaxScale]; a factor of zero or less is ignored.
func (v *Viewport) ZoomAt(factor, fx, fy float64) {
	if factor <= 0 {
		return
	}
	next := clampScale(v.Scale * factor)
	applied := next / v.Scale
	v.TranslateX = fx - (fx-v.TranslateX)*applied
	v.TranslateY = fy - (fy-v.TranslateY)*applied
	v.Scale = next
}

func clampScale(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}

// Apply maps a world coordinate to screen space.
func (v *Viewport) Apply(x, y float64) (float64, float64) {
	return x*v.Scale + v.TranslateX, y*v.Scale + v.TranslateY
}

// Invert maps a screen coordinate back to world space. Pointer events
// arrive in screen space and go through here before hit testing.
func (v *Viewport) Invert(sx, sy float64) (float64, float64) {
	return (sx - v.TranslateX) / v.Scale, (sy - v.TranslateY) / v.Scale
}

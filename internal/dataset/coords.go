package dataset

import "math"

// Rect is the on-screen box of a floor map container
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Size is a width and height in pixels
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PointToPercent converts a pointer position into percentages of rect.
// The pointer is clamped into rect first so the result is always in [0,100].
func PointToPercent(pointerX, pointerY float64, rect Rect) (float64, float64) {
	return toPercent(pointerX, rect.Left, rect.Width), toPercent(pointerY, rect.Top, rect.Height)
}

func toPercent(pointer, origin, extent float64) float64 {
	if extent <= 0 {
		return 0
	}
	offset := clamp(pointer-origin, 0, extent)
	return offset / extent * 100
}

// PercentToScrollOffset returns the scroll position that centers the point
// (x%, y%) of container inside viewport. Offsets never go below zero.
func PercentToScrollOffset(x, y float64, container, viewport Size) (float64, float64) {
	left := x/100*container.Width - viewport.Width/2
	top := y/100*container.Height - viewport.Height/2
	return math.Max(0, left), math.Max(0, top)
}

// RoundPercent rounds a percentage to two decimals as stored on placement
func RoundPercent(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

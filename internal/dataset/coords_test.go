package dataset

import "testing"

func TestPointToPercent(t *testing.T) {
	rect := Rect{Left: 100, Top: 50, Width: 400, Height: 200}

	tests := []struct {
		name         string
		px, py       float64
		wantX, wantY float64
	}{
		{"top-left corner", 100, 50, 0, 0},
		{"bottom-right corner", 500, 250, 100, 100},
		{"center", 300, 150, 50, 50},
		{"left of the container clamps x", 90, 150, 0, 50},
		{"below and right clamps both", 900, 900, 100, 100},
		{"above clamps y", 200, -20, 25, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := PointToPercent(tt.px, tt.py, rect)
			if x != tt.wantX || y != tt.wantY {
				t.Fatalf("PointToPercent(%v, %v) = (%v, %v), want (%v, %v)", tt.px, tt.py, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestPointToPercentZeroSizedRect(t *testing.T) {
	x, y := PointToPercent(10, 10, Rect{Left: 0, Top: 0})
	if x != 0 || y != 0 {
		t.Fatalf("PointToPercent() = (%v, %v), want (0, 0)", x, y)
	}
}

func TestPercentToScrollOffset(t *testing.T) {
	container := Size{Width: 2000, Height: 1000}
	viewport := Size{Width: 800, Height: 600}

	left, top := PercentToScrollOffset(50, 50, container, viewport)
	if left != 600 || top != 200 {
		t.Errorf("center offset = (%v, %v), want (600, 200)", left, top)
	}

	left, top = PercentToScrollOffset(5, 10, container, viewport)
	if left != 0 || top != 0 {
		t.Errorf("near-origin offset = (%v, %v), want (0, 0)", left, top)
	}
}

func TestRoundPercent(t *testing.T) {
	if got := RoundPercent(33.33333); got != 33.33 {
		t.Errorf("RoundPercent() = %v, want 33.33", got)
	}
	if got := RoundPercent(66.666); got != 66.67 {
		t.Errorf("RoundPercent() = %v, want 66.67", got)
	}
}

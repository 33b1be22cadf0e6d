package render

import "testing"

func TestAddSaturates(t *testing.T) {
	got := Add(RGB{200, 100, 0}, RGB{100, 100, 100}, 1.0)
	want := RGB{255, 200, 100}
	if got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestAddWeighted(t *testing.T) {
	got := Add(RGB{10, 10, 10}, RGB{100, 50, 0}, 0.5)
	want := RGB{60, 35, 10}
	if got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if Add(RGB{1, 2, 3}, RGB{255, 255, 255}, 0) != (RGB{1, 2, 3}) {
		t.Error("Expected zero alpha to leave destination untouched")
	}
}

func TestBlendEndpoints(t *testing.T) {
	dst := RGB{10, 20, 30}
	src := RGB{200, 150, 100}
	if Blend(dst, src, 0) != dst {
		t.Error("Expected alpha 0 to return destination")
	}
	if Blend(dst, src, 1) != src {
		t.Error("Expected alpha 1 to return source")
	}
	mid := Blend(dst, src, 0.5)
	if mid.R != 105 || mid.G != 85 || mid.B != 65 {
		t.Errorf("Expected {105 85 65}, got %v", mid)
	}
}

func TestScaleRounds(t *testing.T) {
	if got := Scale(RGB{3, 255, 100}, 0.5); got != (RGB{2, 128, 50}) {
		t.Errorf("Expected {2 128 50}, got %v", got)
	}
	if got := Scale(RGB{200, 200, 200}, 2); got != RGBWhite {
		t.Errorf("Expected saturation to white, got %v", got)
	}
}

func TestLerpMidpoint(t *testing.T) {
	if got := Lerp(RGBBlack, RGB{200, 100, 50}, 0.5); got != (RGB{100, 50, 25}) {
		t.Errorf("Expected {100 50 25}, got %v", got)
	}
	if got := Lerp(RGB{1, 2, 3}, RGBWhite, -1); got != (RGB{1, 2, 3}) {
		t.Errorf("Expected start color below 0, got %v", got)
	}
}

func TestLumaOrdersGrays(t *testing.T) {
	if Luma(RGBWhite) != 255 || Luma(RGBBlack) != 0 {
		t.Errorf("Expected luma range 0..255, got %d..%d", Luma(RGBBlack), Luma(RGBWhite))
	}
	if Luma(RGB{0, 255, 0}) <= Luma(RGB{255, 0, 0}) {
		t.Error("Expected green brighter than red")
	}
}

package spark

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/ember/parameter"
	"github.com/lixenwraith/ember/render"
)

// heatRamp holds the color stops converted once for interpolation
var heatRamp = func() [len(parameter.HeatStops)]colorful.Color {
	var out [len(parameter.HeatStops)]colorful.Color
	for i, s := range parameter.HeatStops {
		out[i] = colorful.Color{R: float64(s.R) / 255, G: float64(s.G) / 255, B: float64(s.B) / 255}
	}
	return out
}()

func stopRGB(s parameter.ColorStop) render.RGB {
	return render.RGB{R: s.R, G: s.G, B: s.B}
}

// HeatColor maps heat in [0, 1] through the ember ramp, deep red to pale yellow-white
// Out-of-range heat is clamped; stop heats return the stop color exactly
func HeatColor(heat float64) render.RGB {
	stops := parameter.HeatStops
	if !(heat > stops[0].Heat) {
		return stopRGB(stops[0])
	}
	last := len(stops) - 1
	if heat >= stops[last].Heat {
		return stopRGB(stops[last])
	}
	for i := 1; i <= last; i++ {
		b := stops[i]
		if heat > b.Heat {
			continue
		}
		if heat == b.Heat {
			return stopRGB(b)
		}
		a := stops[i-1]
		t := (heat - a.Heat) / (b.Heat - a.Heat)
		r, g, bl := heatRamp[i-1].BlendRgb(heatRamp[i], t).RGB255()
		return render.RGB{R: r, G: g, B: bl}
	}
	return stopRGB(stops[last])
}

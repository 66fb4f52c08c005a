package viz

import (
	"math"

	"github.com/guptarohit/asciigraph"
)

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Cyan, asciigraph.Magenta, asciigraph.Green, asciigraph.Yellow, asciigraph.Blue, asciigraph.Red,
}

// Plot draws one or more series on a shared axis. Non-finite samples become
// gaps; a series with no finite samples is dropped. It returns "" when
// nothing is drawable.
func Plot(series [][]float64, caption string, width, height int) string {
	data := make([][]float64, 0, len(series))
	colors := make([]asciigraph.AnsiColor, 0, len(series))
	for i, s := range series {
		clean, ok := finiteOnly(s)
		if !ok {
			continue
		}
		data = append(data, clean)
		colors = append(colors, seriesColors[i%len(seriesColors)])
	}
	if len(data) == 0 {
		return ""
	}

	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors...),
	)
}

func finiteOnly(s []float64) ([]float64, bool) {
	out := make([]float64, len(s))
	any := false
	for i, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[i] = math.NaN()
			continue
		}
		out[i] = v
		any = true
	}
	return out, any
}

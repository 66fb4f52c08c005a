package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/wcsim/internal/analysis"
)

var strokeColors = []string{"#00ffff", "#ff66ff", "#00ff88", "#ffcc00", "#6688ff", "#ff4444"}

type bounds struct {
	minX, maxX, minY, maxY float64
}

func newBounds() bounds {
	return bounds{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
}

func (b *bounds) add(x, y float64) {
	b.minX, b.maxX = math.Min(b.minX, x), math.Max(b.maxX, x)
	b.minY, b.maxY = math.Min(b.minY, y), math.Max(b.maxY, y)
}

func (b bounds) empty() bool { return math.IsInf(b.minX, 1) }

// pad widens the box by 10% on each side and gives flat ranges unit width.
func (b bounds) pad() bounds {
	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	return bounds{
		minX: b.minX - rangeX*0.1, maxX: b.maxX + rangeX*0.1,
		minY: b.minY - rangeY*0.1, maxY: b.maxY + rangeY*0.1,
	}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func header(sb *strings.Builder, width, height int) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))
}

// path writes one polyline. Non-finite points break the line.
func path(sb *strings.Builder, xs, ys []float64, b bounds, width, height int, color string) {
	rangeX, rangeY := b.maxX-b.minX, b.maxY-b.minY

	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="`, color))
	pen := false
	for i := range xs {
		if !finite(xs[i]) || !finite(ys[i]) {
			pen = false
			continue
		}
		x := (xs[i] - b.minX) / rangeX * float64(width)
		y := float64(height) - (ys[i]-b.minY)/rangeY*float64(height)

		if pen {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" M%.1f,%.1f", x, y))
			pen = true
		}
	}
	sb.WriteString("\"/>\n")
}

// TimeSeriesSVG draws each series against times on a shared scale. It
// returns "" when there is nothing finite to draw.
func TimeSeriesSVG(times []float64, series [][]float64, width, height int) string {
	b := newBounds()
	for _, s := range series {
		for k, v := range s {
			if k < len(times) && finite(times[k]) && finite(v) {
				b.add(times[k], v)
			}
		}
	}
	if b.empty() || width <= 0 || height <= 0 {
		return ""
	}
	b = b.pad()

	var sb strings.Builder
	header(&sb, width, height)
	for i, s := range series {
		n := min(len(s), len(times))
		path(&sb, times[:n], s[:n], b, width, height, strokeColors[i%len(strokeColors)])
	}
	sb.WriteString("</svg>\n")
	return sb.String()
}

// PhasePortraitSVG draws a phase-plane curve.
func PhasePortraitSVG(portrait *analysis.PhasePortrait2D, width, height int) string {
	if portrait == nil || width <= 0 || height <= 0 {
		return ""
	}

	xs := make([]float64, len(portrait.Points))
	ys := make([]float64, len(portrait.Points))
	b := newBounds()
	for i, p := range portrait.Points {
		xs[i], ys[i] = p.X, p.Y
		if finite(p.X) && finite(p.Y) {
			b.add(p.X, p.Y)
		}
	}
	if b.empty() {
		return ""
	}

	var sb strings.Builder
	header(&sb, width, height)
	path(&sb, xs, ys, b.pad(), width, height, strokeColors[0])
	sb.WriteString("</svg>\n")
	return sb.String()
}

package analysis

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

type Point struct{ X, Y float64 }

// PhasePortrait2D holds data for a 2D phase plane plot, typically r_E vs r_I.
type PhasePortrait2D struct {
	XIndex, YIndex int
	Points         []Point
}

// PhasePortrait reads two rows of an N×M trajectory as a phase-plane curve.
// It returns nil if either index is out of range.
func PhasePortrait(rates mat.Matrix, xIdx, yIdx int) *PhasePortrait2D {
	n, m := rates.Dims()
	if xIdx < 0 || yIdx < 0 || xIdx >= n || yIdx >= n {
		return nil
	}

	portrait := &PhasePortrait2D{
		XIndex: xIdx,
		YIndex: yIdx,
		Points: make([]Point, 0, m),
	}
	for k := 0; k < m; k++ {
		portrait.Points = append(portrait.Points, Point{X: rates.At(xIdx, k), Y: rates.At(yIdx, k)})
	}
	return portrait
}

// PhasePortraitToASCII converts phase portrait to ASCII art
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	// Bounds over finite points only; diverged samples are not drawable.
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range portrait.Points {
		if !finite(p.X) || !finite(p.Y) {
			continue
		}
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	if math.IsInf(minX, 1) {
		return ""
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range portrait.Points {
		if !finite(p.X) || !finite(p.Y) {
			continue
		}
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// Draw axes if they cross the visible area
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// PoincareSection records the state each time one population crosses a
// threshold upward.
type PoincareSection struct {
	Times  []float64
	Points []Point
}

// GeneratePoincareSection scans a recorded trajectory for positive-going
// crossings of row crossIdx through threshold, recording rows recordX and
// recordY at the crossing (linearly interpolated between samples).
func GeneratePoincareSection(
	rates mat.Matrix,
	times []float64,
	crossIdx int,
	threshold float64,
	recordX, recordY int,
) *PoincareSection {
	n, m := rates.Dims()
	if crossIdx >= n || recordX >= n || recordY >= n || m != len(times) {
		return nil
	}

	section := &PoincareSection{}
	for k := 1; k < m; k++ {
		prev, curr := rates.At(crossIdx, k-1), rates.At(crossIdx, k)
		if !(prev < threshold && curr >= threshold) {
			continue
		}
		frac := (threshold - prev) / (curr - prev)
		if math.IsNaN(frac) || math.IsInf(frac, 0) {
			frac = 0.5
		}
		lerp := func(row int) float64 {
			a := rates.At(row, k-1)
			return a + frac*(rates.At(row, k)-a)
		}
		section.Times = append(section.Times, times[k-1]+frac*(times[k]-times[k-1]))
		section.Points = append(section.Points, Point{X: lerp(recordX), Y: lerp(recordY)})
	}
	return section
}

// Period is the mean interval between crossings, 0 with fewer than two.
func (s *PoincareSection) Period() float64 {
	if s == nil || len(s.Times) < 2 {
		return 0
	}
	return (s.Times[len(s.Times)-1] - s.Times[0]) / float64(len(s.Times)-1)
}

// PoincareSectionToASCII converts section data to ASCII plot
func PoincareSectionToASCII(section *PoincareSection, width, height int) string {
	if section == nil || len(section.Points) == 0 {
		return "No crossings detected"
	}

	portrait := &PhasePortrait2D{Points: section.Points}
	return PhasePortraitToASCII(portrait, width, height)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

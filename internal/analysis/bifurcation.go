package analysis

import (
	"math"
	"strings"
)

// BifurcationPoint represents the distinct late-time values found for one
// parameter value. One value means a fixed point; many mean oscillation.
type BifurcationPoint struct {
	Param  float64
	Values []float64
}

// DistinctValues returns the values of series[from:] that differ after
// quantizing to resolution, in order of first appearance. Non-finite
// samples are kept once each kind.
func DistinctValues(series []float64, from int, resolution float64) []float64 {
	if from < 0 {
		from = 0
	}
	if resolution <= 0 {
		resolution = 1e-3
	}

	values := make([]float64, 0, 16)
	seen := make(map[int64]bool)
	var sawNaN, sawPosInf, sawNegInf bool

	for _, v := range series[min(from, len(series)):] {
		switch {
		case math.IsNaN(v):
			if !sawNaN {
				sawNaN = true
				values = append(values, v)
			}
		case math.IsInf(v, 1):
			if !sawPosInf {
				sawPosInf = true
				values = append(values, v)
			}
		case math.IsInf(v, -1):
			if !sawNegInf {
				sawNegInf = true
				values = append(values, v)
			}
		default:
			key := int64(math.Round(v / resolution))
			if !seen[key] {
				seen[key] = true
				values = append(values, v)
			}
		}
	}
	return values
}

// BifurcationToASCII converts bifurcation data to ASCII art
func BifurcationToASCII(data []BifurcationPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	// Find value range - need at least one finite value
	minVal, maxVal := math.Inf(1), math.Inf(-1)
	for _, p := range data {
		for _, v := range p.Values {
			if finite(v) {
				minVal = math.Min(minVal, v)
				maxVal = math.Max(maxVal, v)
			}
		}
	}
	if math.IsInf(minVal, 1) {
		return ""
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for i, p := range data {
		col := i * width / len(data)
		if col >= width {
			col = width - 1
		}

		for _, v := range p.Values {
			if !finite(v) {
				continue
			}
			row := height - 1 - int((v-minVal)/(maxVal-minVal)*float64(height-1))
			if row >= 0 && row < height {
				canvas[row][col] = '•'
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

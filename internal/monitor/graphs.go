package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// sparklineBlocks are block characters for 8-level vertical resolution (lowest to highest).
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// findRateRange returns 0..max for byte-rate data. Rates share a zero floor
// so an idle interface draws as a flat baseline, not mid-height.
func findRateRange(data []float64) (minVal, maxVal float64) {
	for _, v := range data {
		if v > maxVal {
			maxVal = v
		}
	}
	return 0, maxVal
}

// normalizeValue converts a value to 0-1 range given min/max bounds.
func normalizeValue(val, minVal, maxVal float64) float64 {
	if maxVal > minVal {
		return (val - minVal) / (maxVal - minVal)
	}
	return 0
}

// clampInt clamps an integer to a range [0, maxVal].
func clampInt(val, maxVal int) int {
	if val < 0 {
		return 0
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// RenderPercentSparkline renders a single-row sparkline of percentage values
// on a fixed 0-100 scale.
func RenderPercentSparkline(data []float64, width int, color lipgloss.Color) string {
	return renderSparkline(data, width, 0, 100, color)
}

// RenderRateSparkline renders a single-row sparkline of byte rates scaled to
// the largest value in data.
func RenderRateSparkline(data []float64, width int, color lipgloss.Color) string {
	minVal, maxVal := findRateRange(data)
	return renderSparkline(data, width, minVal, maxVal, color)
}

// renderSparkline draws data right-aligned in width cells. With fewer points
// than cells the left side is padded so the newest value is always at the
// right edge.
func renderSparkline(data []float64, width int, minVal, maxVal float64, color lipgloss.Color) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}

	points := data
	if len(points) > width {
		points = resampleData(points, width)
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", width-len(points)))
	for _, val := range points {
		normalized := normalizeValue(val, minVal, maxVal)
		idx := clampInt(int(normalized*float64(len(sparklineBlocks)-1)), len(sparklineBlocks)-1)
		b.WriteRune(sparklineBlocks[idx])
	}

	return lipgloss.NewStyle().Foreground(color).Render(b.String())
}

// resampleData resamples data to the target size.
// Downsampling keeps the max of each bucket so spikes stay visible;
// upsampling interpolates linearly.
func resampleData(data []float64, targetSize int) []float64 {
	if len(data) == 0 || targetSize <= 0 {
		return nil
	}

	if len(data) == targetSize {
		return data
	}

	result := make([]float64, targetSize)

	if len(data) == 1 {
		for i := range result {
			result[i] = data[0]
		}
		return result
	}

	if len(data) > targetSize {
		bucketSize := float64(len(data)) / float64(targetSize)
		for i := 0; i < targetSize; i++ {
			start := int(float64(i) * bucketSize)
			end := int(float64(i+1) * bucketSize)
			if end > len(data) {
				end = len(data)
			}
			if start >= end {
				start = end - 1
			}
			if start < 0 {
				start = 0
			}

			maxVal := data[start]
			for j := start + 1; j < end; j++ {
				if data[j] > maxVal {
					maxVal = data[j]
				}
			}
			result[i] = maxVal
		}
		return result
	}

	scale := float64(len(data)-1) / float64(targetSize-1)
	for i := 0; i < targetSize; i++ {
		pos := float64(i) * scale
		idx := int(pos)
		frac := pos - float64(idx)

		if idx >= len(data)-1 {
			result[i] = data[len(data)-1]
		} else {
			result[i] = data[idx]*(1-frac) + data[idx+1]*frac
		}
	}

	return result
}

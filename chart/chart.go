// Package chart renders recorded statistics as ASCII charts for terminal
// output.
package chart

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/tempuslab/tempus/stats"
)

const (
	chartWidth  = 80
	chartHeight = 20

	yLabelWidth = 10
)

// Generator generates ASCII charts.
type Generator struct {
	width  int
	height int
}

// NewGenerator creates a new chart generator.
func NewGenerator() *Generator {
	return &Generator{
		width:  chartWidth,
		height: chartHeight,
	}
}

// WithSize overrides the default chart dimensions. Widths that leave no
// room for the plot are ignored.
func (g *Generator) WithSize(width, height int) *Generator {
	if width > yLabelWidth {
		g.width = width
	}

	if height > 0 {
		g.height = height
	}

	return g
}

// GenerateTimeSeriesChart renders one recorded time series as a filled bar
// chart. Columns cover the full time range; each column shows the value of
// the nearest recorded point.
func (g *Generator) GenerateTimeSeriesChart(title string, points []stats.TimePoint) string {
	if len(points) == 0 {
		return "No data to display"
	}

	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("=", g.width))
	sb.WriteString("\n\n")

	minV, maxV := valueRange(points)
	span := maxV - minV
	plotWidth := g.width - yLabelWidth

	// Rows a column fills, measured from the bottom of the plot.
	rowsOf := func(v float64) int {
		if span == 0 {
			if v != 0 {
				return g.height
			}

			return 0
		}

		return int(math.Round((v - minV) / span * float64(g.height)))
	}

	for row := g.height; row >= 1; row-- {
		label := minV + span*float64(row)/float64(g.height)
		sb.WriteString(fmt.Sprintf("%8.2f |", label))

		for x := 0; x < plotWidth; x++ {
			p := points[columnPoint(x, plotWidth, len(points))]

			if rowsOf(p.Value) >= row {
				sb.WriteString("█")
			} else {
				sb.WriteString(" ")
			}
		}

		sb.WriteString("\n")
	}

	// X-axis
	sb.WriteString(strings.Repeat(" ", yLabelWidth-1))
	sb.WriteString("+")
	sb.WriteString(strings.Repeat("-", plotWidth))
	sb.WriteString("\n")

	left := fmt.Sprintf("t=%g", points[0].Time)
	right := fmt.Sprintf("t=%g", points[len(points)-1].Time)
	gap := plotWidth - len(left) - len(right)

	sb.WriteString(strings.Repeat(" ", yLabelWidth))
	sb.WriteString(left)

	if gap > 0 {
		sb.WriteString(strings.Repeat(" ", gap))
		sb.WriteString(right)
	}

	sb.WriteString("\n")

	return sb.String()
}

// GenerateHistogram renders the distribution of recorded values as a
// horizontal bar chart with the given number of bins.
func (g *Generator) GenerateHistogram(title string, values []float64, bins int) string {
	if len(values) == 0 {
		return "No data to display"
	}

	if bins <= 0 {
		bins = 10
	}

	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("=", g.width))
	sb.WriteString("\n\n")

	minV := values[0]
	maxV := values[0]

	for _, v := range values {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}

	if minV == maxV {
		bins = 1
	}

	binWidth := (maxV - minV) / float64(bins)
	counts := make([]int, bins)

	for _, v := range values {
		i := bins - 1
		if binWidth > 0 {
			i = int((v - minV) / binWidth)
			if i >= bins {
				i = bins - 1
			}
		}

		counts[i]++
	}

	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}

	barWidth := g.width - 32
	if barWidth < 10 {
		barWidth = 10
	}

	for i, c := range counts {
		lo := minV + binWidth*float64(i)
		hi := lo + binWidth
		barLen := c * barWidth / maxCount

		sb.WriteString(fmt.Sprintf("%10.3f .. %-10.3f |%s %d\n",
			lo, hi, strings.Repeat("█", barLen), c))
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Total Samples: %d\n", len(values)))

	return sb.String()
}

// GenerateSummary renders a statistics summary as a text report.
func (g *Generator) GenerateSummary(sum stats.Summary) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString("Statistics Summary\n")
	sb.WriteString(strings.Repeat("=", g.width))
	sb.WriteString("\n\n")

	if len(sum.Counters) > 0 {
		sb.WriteString("Counters:\n")

		for _, key := range sortedKeys(sum.Counters) {
			sb.WriteString(fmt.Sprintf("  - %s: %d\n", key, sum.Counters[key]))
		}

		sb.WriteString("\n")
	}

	if len(sum.Averages) > 0 {
		sb.WriteString("Values:\n")

		for _, key := range sortedKeys(sum.Averages) {
			sb.WriteString(fmt.Sprintf("  - %s: avg %.3f, median %.3f",
				key, sum.Averages[key], sum.Medians[key]))

			if sd, ok := sum.StdDevs[key]; ok {
				sb.WriteString(fmt.Sprintf(", stddev %.3f", sd))
			}

			sb.WriteString("\n")
		}

		sb.WriteString("\n")
	}

	if len(sum.Custom) > 0 {
		sb.WriteString("Custom:\n")

		for _, key := range sortedKeys(sum.Custom) {
			sb.WriteString(fmt.Sprintf("  - %s: %v\n", key, sum.Custom[key]))
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatDuration formats a wall-clock duration in a human-readable way.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}

	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}

	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}

func valueRange(points []stats.TimePoint) (minV, maxV float64) {
	minV = points[0].Value
	maxV = points[0].Value

	for _, p := range points {
		minV = math.Min(minV, p.Value)
		maxV = math.Max(maxV, p.Value)
	}

	return minV, maxV
}

// columnPoint maps a chart column to the index of the point it shows.
func columnPoint(x, plotWidth, numPoints int) int {
	if numPoints == 1 || plotWidth <= 1 {
		return 0
	}

	return int(math.Round(float64(x) / float64(plotWidth-1) * float64(numPoints-1)))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

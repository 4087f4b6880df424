package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/tinytelemetry/ftscope/internal/model"
	"github.com/tinytelemetry/ftscope/internal/series"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/wavelinechart"
	"github.com/charmbracelet/lipgloss"
)

// chartSeries is the slice of one channel handed to the renderer.
type chartSeries struct {
	channel model.Channel
	points  []series.Point
}

// collectSeries reads the visible points of every channel on chart.
func collectSeries(w *series.Window, chart series.Chart) []chartSeries {
	out := make([]chartSeries, 0, len(chart.Channels))
	for _, ch := range chart.Channels {
		out = append(out, chartSeries{channel: ch, points: w.Points(ch)})
	}
	return out
}

// xBounds maps the shared range onto chart coordinates. Before the window
// fills, the axis spans everything seen so far.
func xBounds(rng series.Range) (float64, float64) {
	if rng.Bounded {
		return float64(rng.Lo), float64(rng.Hi)
	}
	return 0, math.Max(float64(rng.Hi), 1)
}

// yBounds returns a padded value range covering all series.
func yBounds(data []chartSeries) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range data {
		for _, p := range s.points {
			lo = math.Min(lo, p.Y)
			hi = math.Max(hi, p.Y)
		}
	}
	if math.IsInf(lo, 1) {
		return -1, 1
	}
	if hi-lo < 1e-9 {
		return lo - 1, hi + 1
	}
	pad := (hi - lo) * 0.1
	return lo - pad, hi + pad
}

// renderChart draws one chart panel into a width x height cell.
func (m *DashboardModel) renderChart(chart series.Chart, width, height int) string {
	style := sectionStyle.Width(width - 2).Height(height - 2)

	data := collectSeries(m.window, chart)
	title := chartTitleStyle.Render(chart.Title)
	legend := renderLegend(data)
	header := title
	if gap := width - 4 - lipgloss.Width(title) - lipgloss.Width(legend); gap > 0 {
		header = title + strings.Repeat(" ", gap) + legend
	}

	// Border (2) + header (1).
	plotWidth := width - 4
	plotHeight := height - 3
	if plotWidth < 10 || plotHeight < 3 {
		return style.Render(header)
	}

	empty := true
	for _, s := range data {
		if len(s.points) > 0 {
			empty = false
			break
		}
	}
	if empty {
		body := renderLoadingPlaceholder(plotWidth, plotHeight, m.waitingText())
		return style.Render(lipgloss.JoinVertical(lipgloss.Left, header, body))
	}

	xMin, xMax := xBounds(m.window.Range())
	yMin, yMax := yBounds(data)

	opts := []wavelinechart.Option{
		wavelinechart.WithXRange(xMin, xMax),
		wavelinechart.WithYRange(yMin, yMax),
		wavelinechart.WithXYSteps(4, 2),
		wavelinechart.WithAxesStyles(axisStyle, labelStyle),
	}
	for _, s := range data {
		opts = append(opts, wavelinechart.WithDataSetStyles(string(s.channel), runes.ArcLineStyle, channelStyle(string(s.channel))))
	}

	lc := wavelinechart.New(plotWidth, plotHeight, opts...)
	for _, s := range data {
		for _, p := range s.points {
			lc.PlotDataSet(string(s.channel), canvas.Float64Point{X: float64(p.X), Y: p.Y})
		}
	}
	lc.DrawAll()

	return style.Render(lipgloss.JoinVertical(lipgloss.Left, header, lc.View()))
}

// renderLegend lists the channels with their colors and latest value.
func renderLegend(data []chartSeries) string {
	parts := make([]string, 0, len(data))
	for _, s := range data {
		label := string(s.channel)
		if n := len(s.points); n > 0 {
			label = fmt.Sprintf("%s %.2f", label, s.points[n-1].Y)
		}
		parts = append(parts, channelStyle(string(s.channel)).Render("━ "+label))
	}
	return strings.Join(parts, "  ")
}

// renderValues renders the latest reading the way the bench readout does.
func (m *DashboardModel) renderValues() string {
	s, ok := m.window.Last()
	if !ok {
		return helpStyle.Render("No samples yet")
	}
	return labelStyle.Render(formatValues(s))
}

func formatValues(s model.Sample) string {
	return fmt.Sprintf("Ax: %.3f mm  Ay: %.3f mm  Az: %.3f mm  Fz: %.3f N", s.Ax, s.Ay, s.Az, s.Fz)
}

package tui

import (
	"strings"
	"testing"

	"github.com/tinytelemetry/ftscope/internal/model"
	"github.com/tinytelemetry/ftscope/internal/series"
)

func TestXBounds(t *testing.T) {
	t.Parallel()

	lo, hi := xBounds(series.Range{Lo: 5, Hi: 125, Bounded: true})
	if lo != 5 || hi != 125 {
		t.Fatalf("bounded = [%v,%v], want [5,125]", lo, hi)
	}

	lo, hi = xBounds(series.Range{Lo: 0, Hi: 0})
	if lo != 0 || hi != 1 {
		t.Fatalf("empty = [%v,%v], want [0,1]", lo, hi)
	}
}

func TestYBounds(t *testing.T) {
	t.Parallel()

	lo, hi := yBounds(nil)
	if lo != -1 || hi != 1 {
		t.Fatalf("empty = [%v,%v], want [-1,1]", lo, hi)
	}

	flat := []chartSeries{{channel: model.ChannelFz, points: []series.Point{{X: 0, Y: 3}, {X: 1, Y: 3}}}}
	lo, hi = yBounds(flat)
	if lo != 2 || hi != 4 {
		t.Fatalf("flat = [%v,%v], want [2,4]", lo, hi)
	}

	spread := []chartSeries{
		{channel: model.ChannelAx, points: []series.Point{{X: 0, Y: 0}}},
		{channel: model.ChannelAy, points: []series.Point{{X: 0, Y: 10}}},
	}
	lo, hi = yBounds(spread)
	if lo != -1 || hi != 11 {
		t.Fatalf("spread = [%v,%v], want [-1,11]", lo, hi)
	}
}

func TestFormatValues(t *testing.T) {
	t.Parallel()

	got := formatValues(model.Sample{Ax: 1.5, Ay: -2, Az: 0.0004, Fz: 12.3456})
	want := "Ax: 1.500 mm  Ay: -2.000 mm  Az: 0.000 mm  Fz: 12.346 N"
	if got != want {
		t.Fatalf("formatValues = %q, want %q", got, want)
	}
}

func TestView_RendersChartsAndStatus(t *testing.T) {
	t.Parallel()

	m := connectedDashboard(&countingBackend{})
	for i := range 130 {
		m.window.Accept(model.Sample{Fz: float64(i), Ax: 1, Ay: 2, Az: 3})
	}

	for _, dir := range []StackDirection{StackDefault, StackColumnReverse, StackColumn} {
		m.stack = dir
		out := m.View()
		for _, chart := range m.charts {
			if !strings.Contains(out, chart.Title) {
				t.Fatalf("%v: view missing chart %q", dir, chart.Title)
			}
		}
		if !strings.Contains(out, "130 samples") {
			t.Fatalf("%v: status line missing sample count", dir)
		}
		if !strings.Contains(out, "Fz: 129.000 N") {
			t.Fatalf("%v: values readout missing", dir)
		}
	}
}

func TestView_ColumnReverseOrdersMixedFirst(t *testing.T) {
	t.Parallel()

	m := newTestDashboard(&countingBackend{})
	m.stack = StackColumnReverse

	mixedLine, forcesLine := -1, -1
	for i, line := range strings.Split(m.View(), "\n") {
		switch {
		case strings.Contains(line, "Positions, Forces and Torques"):
			if mixedLine < 0 {
				mixedLine = i
			}
		case strings.Contains(line, "Forces and Torques"):
			if forcesLine < 0 {
				forcesLine = i
			}
		}
	}
	if mixedLine < 0 || forcesLine < 0 {
		t.Fatalf("chart titles missing: mixed=%d forces=%d", mixedLine, forcesLine)
	}
	if mixedLine > forcesLine {
		t.Fatalf("mixed on line %d, forces on line %d; want mixed first", mixedLine, forcesLine)
	}
}

func TestView_ModalTakesScreen(t *testing.T) {
	t.Parallel()

	m := newTestDashboard(&countingBackend{})
	m.PushModal(NewAlertModal("Not connected", startDisconnectedAlert))

	out := m.View()
	if !strings.Contains(out, "Please click connect before start") {
		t.Fatal("alert text not rendered")
	}
}

func TestView_TooSmall(t *testing.T) {
	t.Parallel()

	m := newTestDashboard(&countingBackend{})
	m.width, m.height = 40, 10
	if out := m.View(); !strings.Contains(out, "Terminal too small") {
		t.Fatalf("unexpected view: %q", out)
	}
}

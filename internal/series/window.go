package series

import (
	"sync"

	"github.com/tinytelemetry/ftscope/internal/model"
)

// Chart describes one plot and the channels drawn on it.
type Chart struct {
	ID       string
	Title    string
	YLabel   string
	Channels []model.Channel
}

// DefaultCharts returns the three dashboard plots.
func DefaultCharts() []Chart {
	return []Chart{
		{
			ID:       "forces",
			Title:    "Forces and Torques",
			YLabel:   "N / Nm",
			Channels: []model.Channel{model.ChannelFz},
		},
		{
			ID:       "positions",
			Title:    "Positions",
			YLabel:   "mm",
			Channels: []model.Channel{model.ChannelAx, model.ChannelAy, model.ChannelAz},
		},
		{
			ID:       "mixed",
			Title:    "Positions, Forces and Torques",
			YLabel:   "mm / N / Nm",
			Channels: []model.Channel{model.ChannelFz, model.ChannelAx, model.ChannelAy, model.ChannelAz},
		},
	}
}

// Range is the visible x-axis span shared by every chart. When Bounded is
// false the chart shows the whole retained history and scales itself.
type Range struct {
	Lo      int64
	Hi      int64
	Bounded bool
}

// Point is one plotted reading. X is the zero-based sample index.
type Point struct {
	X int64
	Y float64
}

// Window keeps the per-channel series for all charts aligned on a shared
// sample counter and derives the visible x-range from it.
type Window struct {
	mu       sync.RWMutex
	capacity int
	counter  int64
	channels []model.Channel
	rings    map[model.Channel]*Ring
	last     model.Sample
}

// NewWindow creates a window showing capacity samples. retention bounds the
// per-channel storage and is raised to capacity when smaller.
func NewWindow(capacity, retention int, charts []Chart) *Window {
	if capacity < 1 {
		capacity = model.DefaultWindowCapacity
	}
	if retention < capacity {
		retention = capacity
	}

	w := &Window{
		capacity: capacity,
		rings:    make(map[model.Channel]*Ring),
	}
	for _, chart := range charts {
		for _, ch := range chart.Channels {
			if _, ok := w.rings[ch]; ok {
				continue
			}
			w.rings[ch] = NewRing(retention)
			w.channels = append(w.channels, ch)
		}
	}
	return w
}

// Accept appends one reading per channel, advances the counter and returns
// the resulting visible range.
func (w *Window) Accept(s model.Sample) Range {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, ch := range w.channels {
		v, _ := s.Value(ch)
		w.rings[ch].Push(v)
	}
	w.counter++
	w.last = s
	return w.rangeLocked()
}

// Range returns the visible x-axis span for the current counter.
func (w *Window) Range() Range {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.rangeLocked()
}

func (w *Window) rangeLocked() Range {
	if w.counter > int64(w.capacity) {
		return Range{Lo: w.counter - int64(w.capacity), Hi: w.counter, Bounded: true}
	}
	return Range{Lo: 0, Hi: w.counter}
}

// Counter returns the number of samples accepted so far.
func (w *Window) Counter() int64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.counter
}

// Capacity returns the number of samples kept visible.
func (w *Window) Capacity() int {
	return w.capacity
}

// Channels returns the tracked channels in first-seen order.
func (w *Window) Channels() []model.Channel {
	return append([]model.Channel(nil), w.channels...)
}

// Len returns the retained length of a channel series.
func (w *Window) Len(ch model.Channel) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if r, ok := w.rings[ch]; ok {
		return r.Len()
	}
	return 0
}

// Points returns the retained readings of ch that fall inside the visible
// range, oldest first.
func (w *Window) Points(ch model.Channel) []Point {
	w.mu.RLock()
	defer w.mu.RUnlock()

	r, ok := w.rings[ch]
	if !ok {
		return nil
	}
	values := r.Values()
	first := w.counter - int64(len(values))
	rng := w.rangeLocked()

	points := make([]Point, 0, len(values))
	for i, v := range values {
		x := first + int64(i)
		if rng.Bounded && x < rng.Lo {
			continue
		}
		points = append(points, Point{X: x, Y: v})
	}
	return points
}

// Last returns the most recently accepted sample.
func (w *Window) Last() (model.Sample, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.last, w.counter > 0
}

// Reset clears all series and the counter.
func (w *Window) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, r := range w.rings {
		r.Reset()
	}
	w.counter = 0
	w.last = model.Sample{}
}

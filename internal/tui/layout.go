package tui

// StackDirection orders the three charts on screen.
type StackDirection int

const (
	// StackDefault puts forces and positions side by side above mixed.
	StackDefault StackDirection = iota
	// StackColumnReverse stacks mixed, positions, forces top to bottom.
	StackColumnReverse
	// StackColumn stacks forces, positions, mixed top to bottom.
	StackColumn
)

// Next returns the direction after one change-view press. Once the
// default layout is left it alternates between the two column modes.
func (d StackDirection) Next() StackDirection {
	if d == StackColumnReverse {
		return StackColumn
	}
	return StackColumnReverse
}

func (d StackDirection) String() string {
	switch d {
	case StackColumnReverse:
		return "column-reverse"
	case StackColumn:
		return "column"
	default:
		return "default"
	}
}

// chartRect is the cell area assigned to one chart.
type chartRect struct {
	index         int
	x, y          int
	width, height int
}

// layoutCharts assigns a rectangle to each chart index in charts order.
// Layouts assume three charts (forces, positions, mixed); any other count
// falls back to a plain column.
func layoutCharts(dir StackDirection, n, width, height int) []chartRect {
	if n <= 0 || width <= 0 || height <= 0 {
		return nil
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}

	if n == 3 && dir == StackDefault {
		top := height / 2
		left := width / 2
		return []chartRect{
			{index: 0, x: 0, y: 0, width: left, height: top},
			{index: 1, x: left, y: 0, width: width - left, height: top},
			{index: 2, x: 0, y: top, width: width, height: height - top},
		}
	}

	if dir == StackColumnReverse {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			order[i], order[j] = order[j], order[i]
		}
	}

	rects := make([]chartRect, 0, n)
	y := 0
	for pos, idx := range order {
		h := height / n
		if pos == n-1 {
			h = height - y
		}
		rects = append(rects, chartRect{index: idx, x: 0, y: y, width: width, height: h})
		y += h
	}
	return rects
}

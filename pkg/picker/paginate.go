package picker

// Pager tracks the scrolling window of a paginated list between frames.
//
// Without loop the window scrolls just enough to keep the active row
// visible. With loop the list wraps around: the active row moves down the
// window until it reaches the middle and then stays there while the list
// scrolls under it.
type Pager struct {
	offset  int // First visible row, non-loop mode
	pointer int // Window row of the active item, loop mode
	last    int // Active row of the previous frame
	settled bool
}

// Reset forgets the scroll position.
func (p *Pager) Reset() {
	*p = Pager{}
}

// Rows returns the indices of the rows to draw, in order.
func (p *Pager) Rows(n, active, pageSize int, loop bool) []int {
	if n <= 0 {
		p.Reset()
		return nil
	}
	active = min(max(active, 0), n-1)

	if pageSize <= 0 || n <= pageSize {
		p.offset, p.pointer, p.last, p.settled = 0, min(active, pageSize/2), active, true
		return span(0, n)
	}

	if !loop {
		if active < p.offset {
			p.offset = active
		}
		if active >= p.offset+pageSize {
			p.offset = active - pageSize + 1
		}
		p.offset = min(max(p.offset, 0), n-pageSize)
		p.last, p.settled = active, true
		return span(p.offset, p.offset+pageSize)
	}

	middle := pageSize / 2
	if !p.settled {
		p.pointer = min(active, middle)
	} else {
		delta := active - p.last
		switch {
		case delta < -n/2:
			delta += n
		case delta > n/2:
			delta -= n
		}
		if delta > 0 {
			p.pointer = min(p.pointer+delta, middle)
		}
	}
	p.last, p.settled = active, true

	rows := make([]int, pageSize)
	start := active - p.pointer
	for k := range rows {
		rows[k] = ((start+k)%n + n) % n
	}
	return rows
}

// Lines renders the visible rows with render.
func (p *Pager) Lines(n, active, pageSize int, loop bool, render func(i int, active bool) string) []string {
	rows := p.Rows(n, active, pageSize, loop)
	lines := make([]string, 0, len(rows))
	for _, i := range rows {
		lines = append(lines, render(i, i == active))
	}
	return lines
}

// Paginate renders a single frame without remembering the scroll position.
func Paginate(n, active int, render func(i int, active bool) string, pageSize int, loop bool) []string {
	var p Pager
	return p.Lines(n, active, pageSize, loop, render)
}

func span(from, to int) []int {
	out := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}

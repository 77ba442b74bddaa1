package core

// Activity partitions a grid into square regions and tracks which of them
// are awake. Regions that see no activity for sleepFrames consecutive frames
// fall asleep and are left out of the scheduler's sweep until woken again.
type Activity struct {
	size        int
	cols, rows  int
	w, h        int
	sleepFrames int

	awake   []bool
	pending []bool
	idle    []int
}

// NewActivity covers a w*h grid with regions of the given size. Every region
// starts awake.
func NewActivity(w, h, regionSize, sleepFrames int) *Activity {
	if regionSize <= 0 {
		regionSize = 16
	}
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	cols := (w + regionSize - 1) / regionSize
	rows := (h + regionSize - 1) / regionSize
	n := cols * rows
	a := &Activity{
		size:        regionSize,
		cols:        cols,
		rows:        rows,
		w:           w,
		h:           h,
		sleepFrames: sleepFrames,
		awake:       make([]bool, n),
		pending:     make([]bool, n),
		idle:        make([]int, n),
	}
	a.WakeAll()
	return a
}

// RegionSize returns the side length of a region in cells.
func (a *Activity) RegionSize() int { return a.size }

// Dims returns the number of region columns and rows.
func (a *Activity) Dims() (cols, rows int) { return a.cols, a.rows }

// Count returns the total number of regions.
func (a *Activity) Count() int { return len(a.awake) }

// SleepFrames returns the quiet-frame threshold. Zero disables sleeping.
func (a *Activity) SleepFrames() int { return a.sleepFrames }

// SetSleepFrames changes the quiet-frame threshold.
func (a *Activity) SetSleepFrames(n int) { a.sleepFrames = n }

// Region returns the index of the region holding (x, y), or -1 outside the grid.
func (a *Activity) Region(x, y int) int {
	if x < 0 || y < 0 || x >= a.w || y >= a.h {
		return -1
	}
	return (y/a.size)*a.cols + x/a.size
}

// Bounds returns the cell rectangle [x0,x1) x [y0,y1) covered by region r.
func (a *Activity) Bounds(r int) (x0, y0, x1, y1 int) {
	cx, cy := r%a.cols, r/a.cols
	x0, y0 = cx*a.size, cy*a.size
	x1, y1 = min(x0+a.size, a.w), min(y0+a.size, a.h)
	return x0, y0, x1, y1
}

// IsAwake reports whether region r is awake.
func (a *Activity) IsAwake(r int) bool {
	if r < 0 || r >= len(a.awake) {
		return false
	}
	return a.awake[r]
}

// Awake reports whether the region holding (x, y) is awake.
func (a *Activity) Awake(x, y int) bool { return a.IsAwake(a.Region(x, y)) }

// AwakeCount returns the number of awake regions.
func (a *Activity) AwakeCount() int {
	n := 0
	for _, on := range a.awake {
		if on {
			n++
		}
	}
	return n
}

// Touch records activity at (x, y). Every region overlapping the cell's 3x3
// neighbourhood is woken so that cells bordering a change get visited even
// when they live in an adjacent region.
func (a *Activity) Touch(x, y int) {
	if x < 0 || y < 0 || x >= a.w || y >= a.h {
		return
	}
	cx0, cx1 := max(x-1, 0)/a.size, min(x+1, a.w-1)/a.size
	cy0, cy1 := max(y-1, 0)/a.size, min(y+1, a.h-1)/a.size
	for cy := cy0; cy <= cy1; cy++ {
		for cx := cx0; cx <= cx1; cx++ {
			a.mark(cy*a.cols + cx)
		}
	}
}

// Wake marks the region holding (x, y) and its eight neighbours active.
func (a *Activity) Wake(x, y int) {
	r := a.Region(x, y)
	if r < 0 {
		return
	}
	cx, cy := r%a.cols, r/a.cols
	for dy := -1; dy <= 1; dy++ {
		ny := cy + dy
		if ny < 0 || ny >= a.rows {
			continue
		}
		for dx := -1; dx <= 1; dx++ {
			nx := cx + dx
			if nx < 0 || nx >= a.cols {
				continue
			}
			a.mark(ny*a.cols + nx)
		}
	}
}

// WakeAll marks every region active.
func (a *Activity) WakeAll() {
	for r := range a.awake {
		a.mark(r)
	}
}

func (a *Activity) mark(r int) {
	a.awake[r] = true
	a.pending[r] = true
	a.idle[r] = 0
}

// Snapshot appends the indexes of the currently awake regions to dst.
func (a *Activity) Snapshot(dst []int) []int {
	for r, on := range a.awake {
		if on {
			dst = append(dst, r)
		}
	}
	return dst
}

// Advance closes a frame. Regions that saw activity restart their idle count;
// quiet awake regions age by one frame and fall asleep at the threshold. It
// returns how many regions fell asleep.
func (a *Activity) Advance() int {
	slept := 0
	for r := range a.awake {
		if a.pending[r] {
			a.pending[r] = false
			a.idle[r] = 0
			continue
		}
		if !a.awake[r] || a.sleepFrames <= 0 {
			continue
		}
		a.idle[r]++
		if a.idle[r] >= a.sleepFrames {
			a.awake[r] = false
			slept++
		}
	}
	return slept
}

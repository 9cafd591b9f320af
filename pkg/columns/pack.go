package columns

// epsilon absorbs floating point noise when comparing summed heights.
const epsilon = 1e-9

// Measured is an element with a fixed, already measured height.
type Measured interface {
	Height() float64
}

// Result is the outcome of packing elements into columns.
type Result[E Measured] struct {
	// Columns always has numColumns entries; some may be empty.
	Columns [][]E
	// Height is the height of the tallest column.
	Height float64
	// Leftover holds the elements that did not fit, in input order.
	Leftover []E
}

// ColumnHeight returns the stacked height of elements separated by gap.
func ColumnHeight[E Measured](col []E, gap float64) float64 {
	var h float64
	for i, e := range col {
		if i > 0 {
			h += gap
		}
		h += e.Height()
	}
	return h
}

// Pack distributes elements over numColumns columns of at most
// maxColumnHeight, preserving order and never splitting an element.
//
// Elements are first placed greedily. If some do not fit they are returned
// as Leftover and the greedy columns are kept. Otherwise every packing of
// the elements is searched and the one with the shortest tallest column
// wins, ties broken by the smallest spread between columns and then by the
// latest first empty column.
func Pack[E Measured](elements []E, numColumns int, maxColumnHeight, gap float64) Result[E] {
	if numColumns < 1 {
		return Result[E]{Leftover: elements}
	}

	greedy, placed := packGreedy(elements, numColumns, maxColumnHeight, gap)
	if placed < len(elements) {
		return Result[E]{
			Columns:  greedy,
			Height:   tallest(greedy, gap),
			Leftover: elements[placed:],
		}
	}
	if len(elements) == 0 {
		return Result[E]{Columns: greedy}
	}

	s := &search[E]{
		elements:   elements,
		numColumns: numColumns,
		maxHeight:  maxColumnHeight,
		gap:        gap,
		assign:     make([]int, len(elements)),
	}
	s.best = scoreOf(greedy, gap)
	s.bestAssign = assignmentOf(greedy)
	s.run(0, 0, make([]float64, numColumns), make([]int, numColumns))

	cols := make([][]E, numColumns)
	for i, c := range s.bestAssign {
		cols[c] = append(cols[c], elements[i])
	}
	return Result[E]{Columns: cols, Height: s.best.max}
}

// packGreedy fills each column until the next element would overflow it.
// It returns the columns and the number of elements placed.
func packGreedy[E Measured](elements []E, numColumns int, maxHeight, gap float64) ([][]E, int) {
	cols := make([][]E, numColumns)
	col, h := 0, 0.0
	i := 0
	for i < len(elements) && col < numColumns {
		add := elements[i].Height()
		if len(cols[col]) > 0 {
			add += gap
		}
		switch {
		case h+add <= maxHeight+epsilon:
			cols[col] = append(cols[col], elements[i])
			h += add
			i++
		case len(cols[col]) == 0:
			// Too tall for an empty column, so too tall for any.
			return cols, i
		default:
			col++
			h = 0
		}
	}
	return cols, i
}

func tallest[E Measured](cols [][]E, gap float64) float64 {
	var m float64
	for _, c := range cols {
		m = max(m, ColumnHeight(c, gap))
	}
	return m
}

func assignmentOf[E Measured](cols [][]E) []int {
	var a []int
	for c, col := range cols {
		for range col {
			a = append(a, c)
		}
	}
	return a
}

type score struct {
	max, spread float64
	firstEmpty  int
}

func scoreOf[E Measured](cols [][]E, gap float64) score {
	heights := make([]float64, len(cols))
	counts := make([]int, len(cols))
	for i, c := range cols {
		heights[i] = ColumnHeight(c, gap)
		counts[i] = len(c)
	}
	return scoreHeights(heights, counts)
}

func scoreHeights(heights []float64, counts []int) score {
	s := score{firstEmpty: len(heights)}
	lo := heights[0]
	for i, h := range heights {
		s.max = max(s.max, h)
		lo = min(lo, h)
		if counts[i] == 0 && i < s.firstEmpty {
			s.firstEmpty = i
		}
	}
	s.spread = s.max - lo
	return s
}

func (a score) better(b score) bool {
	if a.max < b.max-epsilon {
		return true
	}
	if a.max > b.max+epsilon {
		return false
	}
	if a.spread < b.spread-epsilon {
		return true
	}
	if a.spread > b.spread+epsilon {
		return false
	}
	return a.firstEmpty > b.firstEmpty
}

// search enumerates packings by choosing, for each element, to append it
// to the current column or to open the next one.
type search[E Measured] struct {
	elements   []E
	numColumns int
	maxHeight  float64
	gap        float64

	assign     []int
	best       score
	bestAssign []int
}

func (s *search[E]) run(idx, col int, heights []float64, counts []int) {
	if idx == len(s.elements) {
		if sc := scoreHeights(heights, counts); sc.better(s.best) {
			s.best = sc
			s.bestAssign = append(s.bestAssign[:0], s.assign...)
		}
		return
	}

	h := s.elements[idx].Height()
	try := func(c int) {
		add := h
		if counts[c] > 0 {
			add += s.gap
		}
		next := heights[c] + add
		if next > s.maxHeight+epsilon || next > s.best.max+epsilon {
			return
		}
		prev := heights[c]
		heights[c] = next
		counts[c]++
		s.assign[idx] = c
		s.run(idx+1, c, heights, counts)
		heights[c] = prev
		counts[c]--
	}

	try(col)
	if counts[col] > 0 && col+1 < s.numColumns {
		try(col + 1)
	}
}

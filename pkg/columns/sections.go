package columns

// Subsection is a run of children under an optional header.
type Subsection[E Measured] struct {
	Header   *E
	Children []E
}

// Section is a header followed by subsections.
type Section[E Measured] struct {
	Header      E
	Subsections []Subsection[E]
}

// SectionResult is the outcome of laying out sections in columns.
type SectionResult[E Measured] struct {
	Columns  [][]E
	Height   float64
	Leftover []Section[E]
}

// balanceIterations bounds the height search when balancing columns.
const balanceIterations = 40

// LayOutSectionsInColumns flows sections into numColumns columns.
//
// Each column that holds content of a section starts with a copy of the
// section header. A subsection header is repeated only at the top of a
// column that continues the subsection's children. A header is never left
// at the bottom of a column without its first child. A section without
// subsections, or a subsection with a header but no children, still places
// its headers on their own.
//
// When everything fits, the column height is reduced to the smallest
// height that still fits all content so that columns come out balanced.
// Otherwise the unplaced content is returned as Leftover, keeping only the
// headers and children that were not consumed.
func LayOutSectionsInColumns[E Measured](sections []Section[E], numColumns int, maxColumnHeight, gap float64) SectionResult[E] {
	if numColumns < 1 {
		return SectionResult[E]{Leftover: sections}
	}

	res := flowSections(sections, numColumns, maxColumnHeight, gap)
	if len(res.Leftover) > 0 || res.Height == 0 {
		return res
	}

	lo, hi := 0.0, res.Height
	for range balanceIterations {
		mid := (lo + hi) / 2
		if r := flowSections(sections, numColumns, mid, gap); len(r.Leftover) == 0 {
			hi = mid
		} else {
			lo = mid
		}
	}
	if balanced := flowSections(sections, numColumns, hi, gap); len(balanced.Leftover) == 0 {
		return balanced
	}
	return res
}

// flowSections fills columns top to bottom at a fixed height limit.
func flowSections[E Measured](sections []Section[E], numColumns int, limit, gap float64) SectionResult[E] {
	cols := make([][]E, numColumns)
	heights := make([]float64, numColumns)
	col := 0

	place := func(e E) {
		if len(cols[col]) > 0 {
			heights[col] += gap
		}
		heights[col] += e.Height()
		cols[col] = append(cols[col], e)
	}
	fits := func(h float64) bool {
		if len(cols[col]) > 0 {
			h += gap
		}
		return heights[col]+h <= limit+epsilon
	}
	result := func(leftover []Section[E]) SectionResult[E] {
		var tallest float64
		for _, h := range heights {
			tallest = max(tallest, h)
		}
		return SectionResult[E]{Columns: cols, Height: tallest, Leftover: leftover}
	}

	for si, sec := range sections {
		// Column that already shows this section's header, or -1.
		secHeaderCol := -1
		for ssi, sub := range sec.Subsections {
			if len(sub.Children) == 0 && sub.Header == nil {
				continue
			}
			subHeaderCol := -1
			// A subsection without children still places its header once.
			for ci := range max(len(sub.Children), 1) {
				var child *E
				if ci < len(sub.Children) {
					child = &sub.Children[ci]
				}
				for {
					var need float64
					n := 0
					if child != nil {
						need += (*child).Height()
						n++
					}
					if secHeaderCol != col {
						need += sec.Header.Height()
						n++
					}
					if sub.Header != nil && subHeaderCol != col {
						need += (*sub.Header).Height()
						n++
					}
					need += gap * float64(max(n-1, 0))
					if fits(need) {
						break
					}
					if len(cols[col]) == 0 || col+1 == numColumns {
						return result(leftoverFrom(sections, si, ssi, ci))
					}
					col++
				}
				if secHeaderCol != col {
					place(sec.Header)
					secHeaderCol = col
				}
				if sub.Header != nil && subHeaderCol != col {
					place(*sub.Header)
					subHeaderCol = col
				}
				if child != nil {
					place(*child)
				}
			}
		}
		if secHeaderCol >= 0 {
			continue
		}
		// Nothing under the header: it takes a slot of its own.
		for !fits(sec.Header.Height()) {
			if len(cols[col]) == 0 || col+1 == numColumns {
				return result(sections[si:])
			}
			col++
		}
		place(sec.Header)
	}
	return result(nil)
}

// leftoverFrom returns the content starting at child ci of subsection ssi
// of section si.
func leftoverFrom[E Measured](sections []Section[E], si, ssi, ci int) []Section[E] {
	cur := sections[si]
	first := Section[E]{Header: cur.Header}
	rest := cur.Subsections[ssi]
	first.Subsections = append(first.Subsections, Subsection[E]{
		Header:   rest.Header,
		Children: rest.Children[ci:],
	})
	first.Subsections = append(first.Subsections, cur.Subsections[ssi+1:]...)

	out := []Section[E]{first}
	return append(out, sections[si+1:]...)
}

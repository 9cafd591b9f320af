package columns_test

import (
	"fmt"

	"github.com/matzehuels/ballotgrid/pkg/columns"
)

type contest struct {
	id     string
	height float64
}

func (c contest) Height() float64 { return c.height }

func ExamplePack() {
	contests := []contest{{"mayor", 3}, {"council", 1}, {"clerk", 1}, {"prop-1", 1}}

	res := columns.Pack(contests, 2, 6, 0)
	for i, col := range res.Columns {
		fmt.Printf("column %d:", i)
		for _, c := range col {
			fmt.Printf(" %s", c.id)
		}
		fmt.Println()
	}
	fmt.Println("height:", res.Height)
	// Output:
	// column 0: mayor
	// column 1: council clerk prop-1
	// height: 3
}

func ExampleLayOutSectionsInColumns() {
	header := contest{"Candidate Contests", 1}
	sections := []columns.Section[contest]{{
		Header: header,
		Subsections: []columns.Subsection[contest]{{
			Children: []contest{{"mayor", 2}, {"council", 2}},
		}},
	}}

	res := columns.LayOutSectionsInColumns(sections, 2, 3, 0)
	for i, col := range res.Columns {
		fmt.Printf("column %d:", i)
		for _, c := range col {
			fmt.Printf(" [%s]", c.id)
		}
		fmt.Println()
	}
	// Output:
	// column 0: [Candidate Contests] [mayor]
	// column 1: [Candidate Contests] [council]
}

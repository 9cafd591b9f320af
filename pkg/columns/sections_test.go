package columns

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func b(name string, h float64) block { return block{name: name, h: h} }

func hdr(name string, h float64) *block {
	x := b(name, h)
	return &x
}

func leftoverNames(secs []Section[block]) []string {
	var out []string
	for _, s := range secs {
		out = append(out, s.Header.name)
		for _, sub := range s.Subsections {
			if sub.Header != nil {
				out = append(out, sub.Header.name)
			}
			for _, c := range sub.Children {
				out = append(out, c.name)
			}
		}
	}
	return out
}

func TestLayOutSectionsInColumns(t *testing.T) {
	tests := []struct {
		name       string
		sections   []Section[block]
		numColumns int
		max        float64
		want       [][]string
		wantHeight float64
		leftover   []string
	}{
		{
			name: "section header repeats, subsection header does not",
			sections: []Section[block]{{
				Header: b("H", 1),
				Subsections: []Subsection[block]{
					{Header: hdr("A", 1), Children: []block{b("a1", 2), b("a2", 2)}},
					{Header: hdr("B", 1), Children: []block{b("b1", 2), b("b2", 2)}},
				},
			}},
			numColumns: 2, max: 7,
			want:       [][]string{{"H", "A", "a1", "a2"}, {"H", "B", "b1", "b2"}},
			wantHeight: 6,
		},
		{
			name: "split subsection repeats its header",
			sections: []Section[block]{{
				Header: b("H", 1),
				Subsections: []Subsection[block]{
					{Header: hdr("A", 1), Children: []block{b("c1", 2), b("c2", 2), b("c3", 2), b("c4", 2)}},
				},
			}},
			numColumns: 2, max: 7,
			want:       [][]string{{"H", "A", "c1", "c2"}, {"H", "A", "c3", "c4"}},
			wantHeight: 6,
		},
		{
			name: "header moves with its first child",
			sections: []Section[block]{{
				Header: b("H", 1),
				Subsections: []Subsection[block]{
					{Children: []block{b("c1", 3), b("c2", 3)}},
				},
			}},
			numColumns: 2, max: 4.5,
			want:       [][]string{{"H", "c1"}, {"H", "c2"}},
			wantHeight: 4,
		},
		{
			name: "balances when everything fits",
			sections: []Section[block]{{
				Header: b("H", 1),
				Subsections: []Subsection[block]{
					{Children: []block{b("c1", 1), b("c2", 1), b("c3", 1), b("c4", 1)}},
				},
			}},
			numColumns: 2, max: 100,
			want:       [][]string{{"H", "c1", "c2"}, {"H", "c3", "c4"}},
			wantHeight: 3,
		},
		{
			name: "leftover keeps unconsumed children",
			sections: []Section[block]{
				{
					Header: b("H", 1),
					Subsections: []Subsection[block]{
						{Header: hdr("A", 1), Children: []block{b("c1", 2), b("c2", 2), b("c3", 2), b("c4", 2)}},
					},
				},
				{
					Header:      b("J", 1),
					Subsections: []Subsection[block]{{Children: []block{b("d1", 1)}}},
				},
			},
			numColumns: 1, max: 6,
			want:       [][]string{{"H", "A", "c1", "c2"}},
			wantHeight: 6,
			leftover:   []string{"H", "A", "c3", "c4", "J", "d1"},
		},
		{
			name: "leftover drops placed subsections",
			sections: []Section[block]{{
				Header: b("H", 1),
				Subsections: []Subsection[block]{
					{Children: []block{b("x", 2)}},
					{Header: hdr("B", 1), Children: []block{b("b1", 2), b("b2", 2)}},
				},
			}},
			numColumns: 1, max: 6,
			want:       [][]string{{"H", "x", "B", "b1"}},
			wantHeight: 6,
			leftover:   []string{"H", "B", "b2"},
		},
		{
			name: "child too tall for a column",
			sections: []Section[block]{{
				Header:      b("H", 1),
				Subsections: []Subsection[block]{{Children: []block{b("big", 10)}}},
			}},
			numColumns: 2, max: 5,
			want:       [][]string{{}, {}},
			leftover:   []string{"H", "big"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := LayOutSectionsInColumns(tt.sections, tt.numColumns, tt.max, 0)
			if diff := cmp.Diff(tt.want, names(res.Columns)); diff != "" {
				t.Errorf("columns mismatch (-want +got):\n%s", diff)
			}
			if res.Height != tt.wantHeight {
				t.Errorf("Height = %v, want %v", res.Height, tt.wantHeight)
			}
			if diff := cmp.Diff(tt.leftover, leftoverNames(res.Leftover)); diff != "" {
				t.Errorf("leftover mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLayOutSectionsLoneHeaders(t *testing.T) {
	tests := []struct {
		name       string
		sections   []Section[block]
		numColumns int
		max        float64
		want       [][]string
		wantHeight float64
		leftover   []string
	}{
		{
			name: "headers without content are placed",
			sections: []Section[block]{
				{Header: b("H", 1), Subsections: []Subsection[block]{{Children: []block{b("c1", 1)}}}},
				{Header: b("L", 1)},
				{Header: b("J", 1), Subsections: []Subsection[block]{{Header: hdr("B", 1)}}},
				{Header: b("K", 1), Subsections: []Subsection[block]{{Children: []block{b("k1", 1)}}}},
			},
			numColumns: 1, max: 100,
			want:       [][]string{{"H", "c1", "L", "J", "B", "K", "k1"}},
			wantHeight: 7,
		},
		{
			name: "lone section header moves to the next column",
			sections: []Section[block]{
				{Header: b("H", 1), Subsections: []Subsection[block]{{Children: []block{b("c1", 2)}}}},
				{Header: b("L", 1)},
			},
			numColumns: 2, max: 3,
			want:       [][]string{{"H", "c1"}, {"L"}},
			wantHeight: 3,
		},
		{
			name: "lone section header left over",
			sections: []Section[block]{
				{Header: b("H", 1), Subsections: []Subsection[block]{{Children: []block{b("c1", 1)}}}},
				{Header: b("L", 1)},
			},
			numColumns: 1, max: 2,
			want:       [][]string{{"H", "c1"}},
			wantHeight: 2,
			leftover:   []string{"L"},
		},
		{
			name: "lone subsection header left over",
			sections: []Section[block]{{
				Header: b("H", 1),
				Subsections: []Subsection[block]{
					{Header: hdr("A", 1), Children: []block{b("c1", 1)}},
					{Header: hdr("B", 1)},
				},
			}},
			numColumns: 1, max: 3,
			want:       [][]string{{"H", "A", "c1"}},
			wantHeight: 3,
			leftover:   []string{"H", "B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := LayOutSectionsInColumns(tt.sections, tt.numColumns, tt.max, 0)
			if diff := cmp.Diff(tt.want, names(res.Columns)); diff != "" {
				t.Errorf("columns mismatch (-want +got):\n%s", diff)
			}
			if res.Height != tt.wantHeight {
				t.Errorf("Height = %v, want %v", res.Height, tt.wantHeight)
			}
			if diff := cmp.Diff(tt.leftover, leftoverNames(res.Leftover)); diff != "" {
				t.Errorf("leftover mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLayOutSectionsGap(t *testing.T) {
	secs := []Section[block]{{
		Header:      b("H", 1),
		Subsections: []Subsection[block]{{Children: []block{b("c1", 1), b("c2", 1)}}},
	}}
	res := LayOutSectionsInColumns(secs, 1, 10, 0.5)
	if res.Height != 4 {
		t.Errorf("Height = %v, want 4", res.Height)
	}
}

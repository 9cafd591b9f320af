package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"seehuhn.de/go/geom/vec"

	"github.com/matzehuels/ballotgrid/pkg/election"
	"github.com/matzehuels/ballotgrid/pkg/errors"
	"github.com/matzehuels/ballotgrid/pkg/grid"
)

// layoutCommand creates the layout command for inspecting vote positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		fromStore bool
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "layout [election.json] [ballot-style-id]",
		Short: "Print the vote positions of a ballot style",
		Long: `Print the vote positions of a ballot style.

The election must have been built: its grid layouts are written by 'build'.
With --from-store the first argument is the hash printed by 'build --save'.

Positions are listed in timing-mark grid units together with the PDF point
coordinates of the bubble center, with the configured calibration applied.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.loadElection(cmd.Context(), args[0], fromStore)
			if err != nil {
				return err
			}
			l, ok := e.GridLayout(args[1])
			if !ok {
				return errors.New(errors.ErrCodeNotFound, "no grid layout for ballot style %q", args[1]).
					With("hint", "run 'ballotgrid build' first")
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(l)
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, StyleTitle.Render("Ballot style "+l.BallotStyleID))
			fmt.Fprintln(out, StyleDim.Render(fmt.Sprintf("  %s paper, %s, %s",
				e.Paper(), plural(l.NumSheets(), "sheet"), plural(len(l.GridPositions), "position"))))
			fmt.Fprintln(out, renderTable(
				[]string{"Sheet", "Side", "Column", "Row", "x pt", "y pt", "Contest", "Option"},
				positionRows(e, l, grid.PointGeometry(e.Paper(), cfg.Calibration))))
			return nil
		},
	}

	cmd.Flags().BoolVar(&fromStore, "from-store", false, "load the election from the store by hash")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the grid layout as JSON")

	return cmd
}

// loadElection reads an election from a file or, with fromStore, from the
// configured store.
func (c *CLI) loadElection(ctx context.Context, ref string, fromStore bool) (*election.Election, error) {
	if !fromStore {
		e, err := election.ReadFile(ref)
		if err != nil {
			return nil, fmt.Errorf("load election %s: %w", ref, err)
		}
		return e, nil
	}
	st, err := c.newStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	return st.Load(ctx, ref)
}

// positionRows formats grid positions as table rows.
func positionRows(e *election.Election, l *grid.Layout, g grid.Measurements) [][]string {
	rows := make([][]string, 0, len(l.GridPositions))
	for _, p := range l.GridPositions {
		pt := g.GridToPixel(vec.Vec2{X: p.Column, Y: p.Row})
		option := p.OptionID
		if p.Type == grid.TypeWriteIn && p.WriteInIndex != nil {
			option = fmt.Sprintf("write-in %d", *p.WriteInIndex+1)
		}
		contest := p.ContestID
		if ct, ok := e.Contest(p.ContestID); ok {
			contest = ct.ContestTitle()
		}
		rows = append(rows, []string{
			fmt.Sprint(p.SheetNumber),
			string(p.Side),
			fmt.Sprintf("%g", p.Column),
			fmt.Sprintf("%g", p.Row),
			fmt.Sprintf("%.1f", pt.X),
			fmt.Sprintf("%.1f", pt.Y),
			contest,
			option,
		})
	}
	return rows
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ballotgrid/pkg/election"
	"github.com/matzehuels/ballotgrid/pkg/marks"
)

// marksCommand creates the marks command for printing vote marks.
func (c *CLI) marksCommand() *cobra.Command {
	var (
		output    string
		votesPath string
		basePath  string
		fromStore bool
		offsetX   float64
		offsetY   float64
	)

	cmd := &cobra.Command{
		Use:   "marks [election.json] [ballot-style-id]",
		Short: "Print filled bubbles and write-in names for a list of votes",
		Long: `Print filled bubbles and write-in names for a list of votes.

The votes file maps contest ids to the chosen candidates or options:

  {"council": [{"id": "alice", "partyIds": ["dem", "wf"]}, {"isWriteIn": true, "name": "Zed"}]}

Without --base the marks are drawn on blank pages for feeding pre-printed
ballots back through the printer. With --base they are drawn on top of a
printed ballot PDF of the same style. Calibration offsets in millimeters
default to the [calibration] section of the config.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := c.loadElection(ctx, args[0], fromStore)
			if err != nil {
				return err
			}
			f, err := os.Open(votesPath)
			if err != nil {
				return fmt.Errorf("open votes: %w", err)
			}
			votes, err := election.ReadVotes(f)
			f.Close()
			if err != nil {
				return fmt.Errorf("load votes %s: %w", votesPath, err)
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			params := marks.Params{
				Election:      e,
				BallotStyleID: args[1],
				Votes:         votes,
				Calibration:   cfg.Calibration,
				Logger:        c.Logger,
			}
			if cmd.Flags().Changed("offset-x") {
				params.Calibration.OffsetMmX = offsetX
			}
			if cmd.Flags().Changed("offset-y") {
				params.Calibration.OffsetMmY = offsetY
			}
			if basePath != "" {
				if params.BasePDF, err = os.ReadFile(basePath); err != nil {
					return fmt.Errorf("read base PDF: %w", err)
				}
			}

			data, err := marks.Generate(ctx, params)
			if err != nil {
				return err
			}
			if output == "" {
				output = args[1] + "-marks.pdf"
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			printSuccess("Marks written")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output PDF (default: <ballot-style-id>-marks.pdf)")
	cmd.Flags().StringVar(&votesPath, "votes", "", "votes JSON file")
	cmd.Flags().StringVar(&basePath, "base", "", "printed ballot PDF to draw on")
	cmd.Flags().BoolVar(&fromStore, "from-store", false, "load the election from the store by hash")
	cmd.Flags().Float64Var(&offsetX, "offset-x", 0, "horizontal calibration offset in mm")
	cmd.Flags().Float64Var(&offsetY, "offset-y", 0, "vertical calibration offset in mm")
	_ = cmd.MarkFlagRequired("votes")

	return cmd
}

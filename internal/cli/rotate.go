package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ballotgrid/pkg/ballot"
	"github.com/matzehuels/ballotgrid/pkg/election"
)

// rotateCommand creates the rotate command for previewing candidate orders.
func (c *CLI) rotateCommand() *cobra.Command {
	var (
		flags  buildFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "rotate [election.json]",
		Short: "Print the ballot styles and candidate order a rotation produces",
		Long: `Print the ballot styles and candidate order a rotation produces.

Precincts that share districts and candidate order share a ballot style. Use
this command to check a rotation before running a full build.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := election.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load election %s: %w", args[0], err)
			}
			strategy, err := c.rotationStrategy(flags)
			if err != nil {
				return err
			}
			styles, err := ballot.GenerateStyles(e, strategy)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(styles)
			}
			fmt.Fprintln(out, StyleDim.Render(fmt.Sprintf("%s rotation, %s", strategy.Name(), plural(len(styles), "ballot style"))))
			for i := range styles {
				fmt.Fprintln(out)
				fmt.Fprint(out, formatStyleOrder(e, &styles[i]))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print ballot styles as JSON")
	flags.register(cmd)

	return cmd
}

// formatStyleOrder renders the precincts and candidate order of one style.
func formatStyleOrder(e *election.Election, style *election.BallotStyle) string {
	var b strings.Builder
	fmt.Fprintln(&b, StyleTitle.Render("Ballot style "+style.ID))

	precincts := make([]string, len(style.PrecinctsOrSplits))
	for i, ps := range style.PrecinctsOrSplits {
		precincts[i] = e.PrecinctName(ps)
	}
	fmt.Fprintln(&b, StyleDim.Render("  "+strings.Join(precincts, ", ")))

	var rows [][]string
	for _, contest := range e.ContestsForStyle(style) {
		cc, ok := contest.(*election.CandidateContest)
		if !ok {
			continue
		}
		for i, ref := range e.OrderedCandidates(style, cc) {
			title := ""
			if i == 0 {
				title = cc.Title
			}
			rows = append(rows, []string{title, fmt.Sprint(i + 1), candidateLabel(e, cc, ref)})
		}
	}
	if len(rows) > 0 {
		fmt.Fprintln(&b, renderTable([]string{"Contest", "#", "Candidate"}, rows))
	}
	return b.String()
}

// candidateLabel returns "Name (Party, Party)".
func candidateLabel(e *election.Election, cc *election.CandidateContest, ref election.CandidateRef) string {
	cand, ok := cc.Candidate(ref)
	if !ok {
		return ref.ID
	}
	var parties []string
	for _, id := range ref.PartyIDs {
		if p, ok := e.Party(id); ok {
			name := p.Abbrev
			if name == "" {
				name = p.Name
			}
			parties = append(parties, name)
		}
	}
	if len(parties) == 0 {
		return cand.Name
	}
	return fmt.Sprintf("%s (%s)", cand.Name, strings.Join(parties, ", "))
}

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ballotgrid/pkg/election"
	"github.com/matzehuels/ballotgrid/pkg/pipeline"
	"github.com/matzehuels/ballotgrid/pkg/rotation"
)

// buildFlags holds the command-line flags shared by build and rotate.
type buildFlags struct {
	strategy    string // overrides [rotation] strategy
	startLetter string // overrides [rotation] start_letter
}

func (f *buildFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.strategy, "strategy", "", "rotation strategy: identity, statutory, alphabetical (default from config)")
	cmd.Flags().StringVar(&f.startLetter, "start-letter", "", "first letter of the statutory rotation (default from config)")
}

// rotationStrategy returns the configured strategy with flag overrides.
func (c *CLI) rotationStrategy(f buildFlags) (rotation.Strategy, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	rc := *cfg
	if f.strategy != "" {
		rc.Rotation.Strategy = f.strategy
	}
	if f.startLetter != "" {
		rc.Rotation.StartLetter = f.startLetter
	}
	return rc.RotationStrategy()
}

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		flags   buildFlags
		output  string
		formats string
		types   string
		modes   string
		noCache bool
		save    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "build [election.json]",
		Short: "Generate ballot styles, grid layouts and printable ballots",
		Long: `Generate ballot styles, grid layouts and printable ballots.

The build command groups precincts into ballot styles, applies the candidate
rotation, lays out every ballot variant and writes:

  <output>/election.json                  the election with styles and grid layouts
  <output>/<style>/<variant>.pdf          one PDF per precinct, type and mode

Use --format none to compute grid layouts only. Results are cached locally,
so rebuilding an unchanged election is fast.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formats)
			opts.Types = parseList[election.BallotType](types)
			opts.Modes = parseList[election.BallotMode](modes)
			return c.runBuild(cmd.Context(), args[0], flags, opts, output, noCache, save)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default: <input>-ballots)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output format(s): pdf (default), json, none (comma-separated)")
	cmd.Flags().StringVar(&types, "types", "", "ballot types to print: precinct, absentee (default: all)")
	cmd.Flags().StringVar(&modes, "modes", "", "ballot modes to print: official, test, sample (default: all)")
	cmd.Flags().StringVar(&opts.Paper, "paper", "", "paper size override: letter, legal, custom-8.5x17, ...")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", pipeline.DefaultConcurrency, "ballot styles built in parallel")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached layouts")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&save, "save", false, "save the built election to the store")
	flags.register(cmd)

	return cmd
}

// runBuild loads the election, runs the pipeline, and writes its outputs.
func (c *CLI) runBuild(ctx context.Context, input string, flags buildFlags, opts pipeline.Options, output string, noCache, save bool) error {
	e, err := election.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load election %s: %w", input, err)
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.Strategy, err = c.rotationStrategy(flags); err != nil {
		return err
	}
	opts.Ballot = cfg.BallotOptions()
	if opts.Paper == "" {
		opts.Paper = cfg.Ballot.Paper
	}
	opts.OracleCapacity = cfg.Oracle.Capacity
	opts.Logger = c.Logger

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spin := newSpinner(ctx, os.Stderr, "Laying out ballots...")
	spin.Start()

	res, err := runner.Build(ctx, e, opts)
	if err != nil {
		spin.StopWithError("Build failed")
		return err
	}
	spin.Stop()
	if spin.Interrupted() {
		return ctx.Err()
	}
	prog.done(fmt.Sprintf("Built %s", plural(res.Stats.Styles, "ballot style")))

	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + "-ballots"
	}
	written, err := writeBuild(output, res)
	if err != nil {
		return err
	}

	printSuccess("Build complete")
	printFile(written[0])
	if n := len(written) - 1; n > 0 {
		printDetail("%s written to %s", plural(n, "ballot file"), output)
	}
	printStats(res.Stats.Styles, res.Stats.Variants, res.Stats.Pages,
		res.CacheInfo.LayoutHits == res.Stats.Styles && res.Stats.Styles > 0)

	if save {
		st, err := c.newStore(ctx)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
		hash, err := st.Save(ctx, res.Election)
		if err != nil {
			return fmt.Errorf("save election: %w", err)
		}
		printKeyValue("Stored", hash)
	}

	if len(res.Election.BallotStyles) > 0 {
		printNewline()
		printNextStep("Inspect a ballot style", fmt.Sprintf("%s layout %s %s", appName, written[0], res.Election.BallotStyles[0].ID))
	}
	return nil
}

// writeBuild writes the built election and artifacts under dir and returns
// the written paths, election first and artifacts sorted.
func writeBuild(dir string, res *pipeline.Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	electionPath := filepath.Join(dir, "election.json")
	if err := election.WriteFile(electionPath, res.Election); err != nil {
		return nil, fmt.Errorf("write %s: %w", electionPath, err)
	}

	names := make([]string, 0, len(res.Artifacts))
	for name := range res.Artifacts {
		names = append(names, name)
	}
	slices.Sort(names)

	written := []string{electionPath}
	for _, name := range names {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, res.Artifacts[name], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

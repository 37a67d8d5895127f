package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/techpath/pkg/pipeline"
)

// renderCommand creates the render command, the full replay-to-image pipeline.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags    pipelineFlags
		playerID int
	)

	cmd := &cobra.Command{
		Use:   "render <replay>",
		Short: "Draw a player's tech path",
		Long: `Draw a player's tech path from a replay.

Each distinct action of the build order becomes a node placed left to right by
the time it first happened; every transition between consecutive actions
becomes an arrow labelled with the time of the action it leads to.

The replay can be a parsed dump (.json, .yaml) or a raw .SC2Replay, which is
handed to the parser command from --parser or the config file.

Without --player an interactive list is shown on a terminal; otherwise the
player id is read from standard input. Output is written to
tech_path_player_<id>_left_to_right.<format> in --output-dir.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.apply(cmd, c.Config.Options())
			if err != nil {
				return err
			}
			opts.ReplayPath = args[0]
			opts.PlayerID = playerID
			return c.runRender(cmd.Context(), opts, flags.noCache, cmd.InOrStdin())
		},
	}

	cmd.Flags().IntVarP(&playerID, "player", "p", 0, "player id (see 'techpath players')")
	flags.registerLoad(cmd)
	flags.registerLayout(cmd)
	flags.registerRender(cmd)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, noCache bool, in io.Reader) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	// The replay is loaded once, even when the player list is shown first.
	rep, loadHit, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}
	if opts.PlayerID == 0 {
		if opts.PlayerID, err = selectPlayer(runner.Summaries(rep), in); err != nil {
			return err
		}
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Drawing tech path for player %d...", opts.PlayerID))
	spinner.Start()

	res, err := runner.ExecuteReplay(ctx, rep, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	res.CacheInfo.LoadHit = loadHit

	paths, err := pipeline.WriteArtifacts(opts.OutputDir, res.Player.ID, opts.Formats, res.Artifacts)
	if err != nil {
		return err
	}
	prog.done("wrote output", "files", len(paths))

	printResult(res)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// printResult prints the headline and statistics of a pipeline run.
func printResult(res *pipeline.Result) {
	who := res.Player.Name
	if who == "" {
		who = fmt.Sprintf("player %d", res.Player.ID)
	}
	printSuccess("Tech path for %s (%s)", StyleValue.Render(who), orDash(res.Player.Race))
	printStats(res.Stats.Events, res.Stats.NodeCount, res.Stats.EdgeCount, res.CacheInfo.LayoutHit)
	if res.Stats.Events == 1 {
		printWarning("build order has a single event, drawing one node")
	}
}

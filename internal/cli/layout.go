package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/techpath/pkg/pipeline"
	"github.com/matzehuels/techpath/pkg/render"
)

// layoutCommand creates the layout command for saving a computed layout.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags    pipelineFlags
		playerID int
		output   string
	)

	cmd := &cobra.Command{
		Use:   "layout <replay>",
		Short: "Compute a player's tech path layout and save it as JSON",
		Long: `Compute a player's tech path layout and save it as JSON.

The layout file holds the graph, the node positions and the spring
parameters, so it can be rendered later with 'techpath visualize' without the
replay or its parser. It is the same file 'render -f json' writes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.apply(cmd, c.Config.Options())
			if err != nil {
				return err
			}
			opts.ReplayPath = args[0]
			opts.PlayerID = playerID
			opts.Formats = []render.Format{render.FormatJSON}
			return c.runLayout(cmd.Context(), opts, output, flags.noCache)
		},
	}

	cmd.Flags().IntVarP(&playerID, "player", "p", 0, "player id (see 'techpath players')")
	_ = cmd.MarkFlagRequired("player")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: tech_path_player_<id>_left_to_right.json)")
	flags.registerLoad(cmd)
	flags.registerLayout(cmd)

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	path := output
	if path == "" {
		path = filepath.Join(opts.OutputDir, render.FileName(res.Player.ID, render.FormatJSON))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := render.WriteFile(path, res.Artifacts[render.FormatJSON]); err != nil {
		return err
	}

	printResult(res)
	printFile(path)
	printNextStep("Render it", "techpath visualize "+path)
	return nil
}

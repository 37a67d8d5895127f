package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/techpath/pkg/graph"
	"github.com/matzehuels/techpath/pkg/pipeline"
)

// visualizeCommand creates the visualize command for rendering from a layout.
func (c *CLI) visualizeCommand() *cobra.Command {
	var flags pipelineFlags

	cmd := &cobra.Command{
		Use:   "visualize <layout.json>",
		Short: "Render a saved tech path layout",
		Long: `Render a saved tech path layout.

The visualize command takes a layout file (produced by 'layout' or
'render -f json') and draws it. Positions are taken from the file, so the
result matches the original render exactly.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.apply(cmd, c.Config.Options())
			if err != nil {
				return err
			}
			return c.runVisualize(cmd.Context(), args[0], opts)
		},
	}

	flags.registerRender(cmd)

	return cmd
}

func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options) error {
	doc, err := graph.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	runner := pipeline.NewRunner(nil, c.Logger)
	defer runner.Close()
	opts.Logger = c.Logger
	if err := opts.ValidateForRender(); err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", joinFormats(opts.Formats)))
	spinner.Start()

	artifacts, err := runner.Render(ctx, doc, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return err
	}
	spinner.Stop()

	paths, err := pipeline.WriteArtifacts(opts.OutputDir, doc.Player.ID, opts.Formats, artifacts)
	if err != nil {
		return err
	}
	printSuccess("Rendered player %d from %s", doc.Player.ID, input)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

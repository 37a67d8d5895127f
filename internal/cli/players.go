package cli

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/matzehuels/techpath/pkg/pipeline"
)

// playersCommand creates the players command for listing replay participants.
func (c *CLI) playersCommand() *cobra.Command {
	var (
		flags  pipelineFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "players <replay>",
		Short: "List the players of a replay",
		Long: `List the players of a replay with their race, result and number of
build events. The ID column is what 'render --player' expects.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.apply(cmd, c.Config.Options())
			if err != nil {
				return err
			}
			opts.ReplayPath = args[0]
			return c.runPlayers(cmd.Context(), opts, flags.noCache, asJSON)
		},
	}

	flags.registerLoad(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summaries as JSON")

	return cmd
}

func (c *CLI) runPlayers(ctx context.Context, opts pipeline.Options, noCache, asJSON bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	rep, _, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}
	summaries := runner.Summaries(rep)

	if asJSON {
		data, err := json.MarshalIndent(summaries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	printPlayers(rep.Source, summaries)
	if rep.Map != "" || rep.GameLength != "" {
		printDetail("Map: %s · Length: %s", orDash(rep.Map), orDash(rep.GameLength))
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

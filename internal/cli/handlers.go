package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mddirective/internal/ui/pretty"
	"github.com/yaklabco/mddirective/pkg/config"
)

func newHandlersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "handlers",
		Short: "List the configured directive handlers",
		Long: `List the directive names bound in the resolved configuration with the
built-in handler each one uses. The name "*" is the fallback for directives
that have no handler of their own, or whose handler declined.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := commandContext(cmd)
			cfg, err := loadConfig(ctx, cmd, nil)
			if err != nil {
				return err
			}
			// Building the engine reports bindings the renderer would reject.
			if _, _, err := newEngine(cfg); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			styles, colorEnabled := stylesFor(cfg, out)
			table := pretty.NewTableFormatter(styles, colorEnabled, pretty.TerminalWidth(out))
			fmt.Fprint(out, table.FormatHandlersTable(cfg.Handlers))

			types := make([]string, 0, len(config.HandlerTypes()))
			for _, typ := range config.HandlerTypes() {
				types = append(types, string(typ))
			}
			fmt.Fprintln(out, styles.Dim.Render(" available types: "+strings.Join(types, ", ")))
			return nil
		},
	}
}

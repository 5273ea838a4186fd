package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mddirective/pkg/fsutil"
	mdgoldmark "github.com/yaklabco/mddirective/pkg/parser/goldmark"
)

const formatJSON = "json"

// tokenInfo is one event in JSON output.
type tokenInfo struct {
	Event string `json:"event"`
	Kind  string `json:"kind"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// directiveInfo is one directive in JSON output.
type directiveInfo struct {
	Kind    string      `json:"kind"`
	Name    string      `json:"name"`
	Outcome string      `json:"outcome,omitempty"`
	Handler string      `json:"handler,omitempty"`
	Events  []tokenInfo `json:"events"`
}

func newTokensCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Show the directive tokens of a Markdown file",
		Long: `Parse and render a Markdown file and print the event stream of every
directive found in it: each token is shown entering and exiting with its
line:column span, indented by nesting depth. The heading of each directive
tells which handler took it, if any.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(cmd, args[0], format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json")

	return cmd
}

func runTokens(cmd *cobra.Command, path, format string) error {
	if format != "text" && format != formatJSON {
		return fmt.Errorf("%w: invalid format %q: must be text or json", ErrUsage, format)
	}

	ctx := commandContext(cmd)
	cfg, err := loadConfig(ctx, cmd, nil)
	if err != nil {
		return err
	}
	engine, _, err := newEngine(cfg)
	if err != nil {
		return err
	}

	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return err
	}
	_, doc, err := engine.Convert(ctx, path, content)
	if err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}

	if format == formatJSON {
		return outputTokensJSON(cmd.OutOrStdout(), doc.Directives)
	}
	styles, _ := stylesFor(cfg, cmd.OutOrStdout())
	_, err = fmt.Fprint(cmd.OutOrStdout(), styles.FormatTokens(path, content, doc.Directives))
	return err
}

// outputTokensJSON writes the directives as a JSON array.
func outputTokensJSON(w io.Writer, nodes []mdgoldmark.Node) error {
	infos := make([]directiveInfo, 0, len(nodes))
	for _, node := range nodes {
		info := directiveInfo{
			Kind:   node.DirectiveKind().String(),
			Name:   node.Name(),
			Events: make([]tokenInfo, 0, len(node.Events())),
		}
		if outcome, handler, rendered := node.Outcome(); rendered {
			info.Outcome = outcome.String()
			info.Handler = handler
		}
		for _, ev := range node.Events() {
			info.Events = append(info.Events, tokenInfo{
				Event: ev.Type.String(),
				Kind:  ev.Token.Kind.String(),
				Start: ev.Token.StartOffset,
				End:   ev.Token.EndOffset,
			})
		}
		infos = append(infos, info)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding tokens: %w", err)
	}
	return nil
}

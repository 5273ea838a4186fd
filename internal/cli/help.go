package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/mddirective/internal/ui/pretty"
)

// minFlagGap is the run of spaces that separates a flag from its usage.
const minFlagGap = 2

// HelpStyles contains Lipgloss styles for command help formatting.
type HelpStyles struct {
	Command     lipgloss.Style
	Heading     lipgloss.Style
	Subcommand  lipgloss.Style
	Flag        lipgloss.Style
	Description lipgloss.Style
	Example     lipgloss.Style
	Dim         lipgloss.Style

	// Directive markers in descriptions, by marker length.
	Text      lipgloss.Style
	Leaf      lipgloss.Style
	Container lipgloss.Style
}

// NewHelpStyles creates help styles based on color mode. Directive markers
// share the palette of the token dump.
func NewHelpStyles(colorEnabled bool) *HelpStyles {
	base := pretty.NewStyles(colorEnabled)
	styles := &HelpStyles{
		Command:     base.Bold,
		Heading:     base.Bold,
		Subcommand:  base.Name,
		Flag:        base.Leaf,
		Description: lipgloss.NewStyle(),
		Example:     base.Dim,
		Dim:         base.Dim,
		Text:        base.Text,
		Leaf:        base.Leaf,
		Container:   base.Container,
	}
	if colorEnabled {
		styles.Command = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
		styles.Heading = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
		styles.Subcommand = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	}
	return styles
}

// HelpFormatter provides styled help output for Cobra commands.
type HelpFormatter struct {
	styles *HelpStyles
}

// NewHelpFormatter creates a new help formatter with the given color mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{styles: NewHelpStyles(pretty.IsColorEnabled(colorMode, writer))}
}

func (h *HelpFormatter) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"styleCommand":            h.styles.Command.Render,
		"styleHeading":            h.styles.Heading.Render,
		"styleSubcommand":         h.styles.Subcommand.Render,
		"styleDescription":        h.styles.Description.Render,
		"styleExample":            h.styles.Example.Render,
		"styleDim":                h.styles.Dim.Render,
		"styleFlagsUsage":         h.styleFlagsUsage,
		"styleDirectives":         h.styleDirectives,
		"rpad":                    rpad,
		"join":                    strings.Join,
		"trimTrailingWhitespaces": trimTrailingWhitespaces,
	}
}

const usageTemplate = `{{ styleHeading "Usage:" }}
  {{if .Runnable}}{{ styleCommand .UseLine }}{{end}}
  {{if .HasAvailableSubCommands}}{{ styleCommand .CommandPath }} [command]{{end}}

{{- if gt (len .Aliases) 0}}

{{ styleHeading "Aliases:" }}
  {{ styleDim (join .Aliases ", ") }}
{{- end}}

{{- if .HasExample}}

{{ styleHeading "Examples:" }}
{{ styleExample .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ styleHeading "Available Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ styleSubcommand (rpad .Name .NamePadding) }} {{ styleDescription .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ styleHeading "Flags:" }}
{{ styleFlagsUsage .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ styleHeading "Global Flags:" }}
{{ styleFlagsUsage .InheritedFlags }}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ styleCommand (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{if or .Runnable .HasSubCommands}}{{ styleCommand .CommandPath }}{{if .Version}} {{ styleDim .Version }}{{end}}

{{end}}{{with (or .Long .Short)}}{{ . | trimTrailingWhitespaces | styleDirectives }}

{{end}}` + usageTemplate

// styleFlagsUsage formats pflag usages with styled flag names.
func (h *HelpFormatter) styleFlagsUsage(flags interface{ FlagUsages() string }) string {
	usages := strings.TrimSuffix(flags.FlagUsages(), "\n")
	if usages == "" {
		return ""
	}

	lines := strings.Split(usages, "\n")
	for i, line := range lines {
		lines[i] = h.styleFlagLine(line)
	}
	return strings.Join(lines, "\n")
}

// styleFlagLine styles one "  -f, --flag type   usage" line.
func (h *HelpFormatter) styleFlagLine(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	if trimmed == "" {
		return line
	}
	flagPart, descPart, ok := splitFlagLine(trimmed)
	if !ok {
		return line
	}

	var styled strings.Builder
	for i, token := range strings.Fields(flagPart) {
		if i > 0 {
			styled.WriteString(" ")
		}
		if !strings.HasPrefix(token, "-") {
			// Value type such as "string" or "int".
			styled.WriteString(h.styles.Dim.Render(token))
			continue
		}
		clean := strings.TrimSuffix(token, ",")
		styled.WriteString(h.styles.Flag.Render(clean))
		if clean != token {
			styled.WriteString(",")
		}
	}

	indent := strings.Repeat(" ", len(line)-len(trimmed))
	return indent + styled.String() + "   " + h.styles.Description.Render(descPart)
}

// splitFlagLine splits at the first run of at least minFlagGap spaces.
func splitFlagLine(line string) (string, string, bool) {
	spaceStart := -1
	for idx, char := range line {
		switch {
		case char == ' ' && spaceStart < 0:
			spaceStart = idx
		case char != ' ' && spaceStart >= 0:
			if idx-spaceStart >= minFlagGap {
				return line[:spaceStart], line[idx:], true
			}
			spaceStart = -1
		}
	}
	return line, "", false
}

// styleDirectives colors the leading colon run of description lines that
// show directive syntax, such as ":::note" or "::youtube[...]".
func (h *HelpFormatter) styleDirectives(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		body := strings.TrimLeft(line, " ")
		markers := len(body) - len(strings.TrimLeft(body, ":"))
		if markers == 0 {
			continue
		}
		style := h.styles.Text
		switch {
		case markers >= 3:
			style = h.styles.Container
		case markers == 2:
			style = h.styles.Leaf
		}
		indent := line[:len(line)-len(body)]
		lines[i] = indent + style.Render(body[:markers]) + body[markers:]
	}
	return strings.Join(lines, "\n")
}

// ApplyToCommand applies styled help templates to a Cobra command and all subcommands.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	funcs := h.templateFuncs()

	cmd.SetUsageFunc(func(command *cobra.Command) error {
		tmpl, err := template.New("usage").Funcs(funcs).Parse(usageTemplate)
		if err != nil {
			return fmt.Errorf("parse usage template: %w", err)
		}
		return tmpl.Execute(command.OutOrStdout(), command)
	})

	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		tmpl, err := template.New("help").Funcs(funcs).Parse(helpTemplate)
		if err != nil {
			command.PrintErrln(err)
			return
		}
		if err := tmpl.Execute(command.OutOrStdout(), command); err != nil {
			command.PrintErrln(err)
		}
	})
}

// rpad adds padding to the right of a string.
func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

// trimTrailingWhitespaces removes trailing whitespace from lines.
func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/yaklabco/mddirective/internal/configloader"
	"github.com/yaklabco/mddirective/internal/logging"
	"github.com/yaklabco/mddirective/pkg/config"
	"github.com/yaklabco/mddirective/pkg/fsutil"
)

// errInitCancelled is returned when the user declines to overwrite.
var errInitCancelled = errors.New("initialization cancelled")

// initFlags holds the flags for the init command.
type initFlags struct {
	force        bool
	full         bool
	interactive  bool
	format       string
	outputFormat string
	output       string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new mddirective configuration file",
		Long: `Create a new .mddirective.yml configuration file in the current directory.
The file binds a few example directives to built-in handlers and documents
the output and render settings.

Examples:
  mddirective init                     Create a minimal .mddirective.yml
  mddirective init --full              Document every built-in handler type
  mddirective init --interactive       Choose the settings in a form
  mddirective init --format json       Create .mddirective.json instead
  mddirective init -o custom.yml       Write to a custom file path`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := runInit(cmd.ErrOrStderr(), flags)
			if errors.Is(err, errInitCancelled) {
				logging.NewInteractive(cmd.ErrOrStderr()).Info("initialization cancelled")
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Document every built-in handler type")
	cmd.Flags().BoolVarP(&flags.interactive, "interactive", "i", false, "Choose the settings in an interactive form")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "File format: yaml or json")
	cmd.Flags().StringVar(&flags.outputFormat, "output-format", "html", "Preselected output.format: html or markdown")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"Output file path (default: "+configloader.DefaultProjectFile+" or .mddirective.json)")

	return cmd
}

func runInit(w io.Writer, flags *initFlags) error {
	logger := logging.NewInteractive(w)

	if flags.interactive {
		if err := askInitOptions(flags); err != nil {
			return err
		}
	}

	if flags.format != string(config.TemplateYAML) && flags.format != string(config.TemplateJSON) {
		return fmt.Errorf("%w: invalid format %q: must be yaml or json", ErrUsage, flags.format)
	}
	if !config.OutputFormat(flags.outputFormat).IsValid() {
		return fmt.Errorf("%w: invalid output format %q: must be html or markdown", ErrUsage, flags.outputFormat)
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = configloader.DefaultProjectFile
		if flags.format == string(config.TemplateJSON) {
			outputPath = ".mddirective.json"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			if !flags.interactive {
				return fmt.Errorf("%w: file %q already exists; use --force to overwrite", ErrUsage, outputPath)
			}
			overwrite, err := confirmOverwrite(outputPath)
			if err != nil {
				return err
			}
			if !overwrite {
				return errInitCancelled
			}
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:         flags.full,
		Format:       config.TemplateFormat(flags.format),
		OutputFormat: config.OutputFormat(flags.outputFormat),
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := os.WriteFile(absPath, content, fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	if flags.full {
		logger.Info("full template documents every handler type")
	}
	logger.Info("bind your own directives under handlers:")
	logger.Info("run 'mddirective handlers' to check the bindings")

	return nil
}

// askInitOptions fills flags from an interactive form.
func askInitOptions(flags *initFlags) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Output format").
				Description("What rendered documents are written as").
				Options(
					huh.NewOption("HTML", string(config.FormatHTML)),
					huh.NewOption("Markdown", string(config.FormatMarkdown)),
				).
				Value(&flags.outputFormat),

			huh.NewSelect[string]().
				Title("File format").
				Options(
					huh.NewOption("YAML", string(config.TemplateYAML)),
					huh.NewOption("JSON", string(config.TemplateJSON)),
				).
				Value(&flags.format),

			huh.NewConfirm().
				Title("Document every handler type?").
				Value(&flags.full),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive form: %w", err)
	}
	return nil
}

func confirmOverwrite(path string) (bool, error) {
	var overwrite bool
	err := huh.NewConfirm().
		Title("Configuration already exists").
		Description(fmt.Sprintf("Overwrite %s?", path)).
		Value(&overwrite).
		Run()
	if err != nil {
		return false, fmt.Errorf("confirm overwrite: %w", err)
	}
	return overwrite, nil
}

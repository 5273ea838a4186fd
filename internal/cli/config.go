package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mddirective/internal/configloader"
	"github.com/yaklabco/mddirective/internal/logging"
	"github.com/yaklabco/mddirective/internal/ui/pretty"
	"github.com/yaklabco/mddirective/pkg/config"
	"github.com/yaklabco/mddirective/pkg/directive"
	"github.com/yaklabco/mddirective/pkg/handlers"
	mdgoldmark "github.com/yaklabco/mddirective/pkg/parser/goldmark"
)

// commandContext returns the command's context carrying the default logger.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logging.WithLogger(ctx, logging.Default())
}

// loadConfig resolves the configuration for a command. cliCfg holds the
// values of flags that were set explicitly and may be nil.
func loadConfig(ctx context.Context, cmd *cobra.Command, cliCfg *config.Config) (*config.Config, error) {
	logger := logging.FromContext(ctx)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}
	if cmd.Flags().Changed("color") {
		colorMode, _ := cmd.Flags().GetString("color")
		if cliCfg == nil {
			cliCfg = &config.Config{}
		}
		cliCfg.Color = config.ColorMode(colorMode)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, loadResult.LoadedFrom)
	}
	return loadResult.Config, nil
}

// newEngine builds the Markdown engine described by cfg.
func newEngine(cfg *config.Config) (*mdgoldmark.Engine, *directive.Handlers, error) {
	registry, err := handlers.FromConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	engine := mdgoldmark.New(
		mdgoldmark.WithHandlers(registry),
		mdgoldmark.WithGFM(cfg.Render.GFMEnabled()),
		mdgoldmark.WithUnsafeHTML(cfg.Render.UnsafeEnabled()),
	)
	return engine, registry, nil
}

// stylesFor returns output styles for w under the configured color mode.
func stylesFor(cfg *config.Config, w io.Writer) (*pretty.Styles, bool) {
	enabled := pretty.IsColorEnabled(string(cfg.Color), w)
	return pretty.NewStyles(enabled), enabled
}

// usageArgs marks argument validation failures as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
		return nil
	}
}

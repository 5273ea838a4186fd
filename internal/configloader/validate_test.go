package configloader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mddirective/pkg/config"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("defaults are valid", func(t *testing.T) {
		t.Parallel()
		result := Validate(config.NewConfig())
		assert.True(t, result.Valid())
		assert.False(t, result.HasWarnings())
	})

	t.Run("nil config", func(t *testing.T) {
		t.Parallel()
		assert.True(t, Validate(nil).Valid())
	})

	t.Run("collects every error", func(t *testing.T) {
		t.Parallel()
		cfg := config.NewConfig()
		cfg.Handlers["1st"] = config.HandlerConfig{Type: config.HandlerDrop}
		cfg.Handlers["note"] = config.HandlerConfig{Type: "banner"}
		cfg.Handlers["*"] = config.HandlerConfig{Type: config.HandlerElement}
		cfg.Output.Format = "pdf"
		cfg.Output.Extension = "a/b"
		cfg.Render.Jobs = -2
		cfg.Render.Exclude = []string{"ok/**", "bad/[x"}
		cfg.Color = "rainbow"

		result := Validate(cfg)
		require.False(t, result.Valid())

		fields := make([]string, 0, len(result.Errors))
		for _, e := range result.Errors {
			fields = append(fields, e.Field)
		}
		assert.Equal(t, []string{
			"handlers.1st",
			"handlers.note.type",
			"output.format",
			"output.extension",
			"render.jobs",
			"render.exclude[1]",
			"color",
		}, fields)
	})

	t.Run("warnings", func(t *testing.T) {
		t.Parallel()
		cfg := config.NewConfig()
		cfg.Handlers["v"] = config.HandlerConfig{Type: config.HandlerYouTube, Tag: "video"}
		cfg.Render.Extensions = []string{"md"}

		result := Validate(cfg)
		assert.True(t, result.Valid())
		require.Len(t, result.Warnings, 2)
		assert.Equal(t, "handlers.v.tag", result.Warnings[0].Field)
		assert.Equal(t, "render.extensions[0]", result.Warnings[1].Field)
	})
}

func TestValidateWithFile(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Color = "rainbow"

	result := ValidateWithFile(cfg, "x.yml")
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "x.yml", result.Errors[0].FilePath)
	assert.Equal(t, `x.yml: color: invalid color mode "rainbow"; must be one of: auto, always, never`,
		result.Errors[0].Error())
	assert.Equal(t, []string{"error: " + result.Errors[0].Error()}, result.AllMessages())
}

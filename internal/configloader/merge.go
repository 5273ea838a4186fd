package configloader

import (
	"maps"

	"github.com/yaklabco/mddirective/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Pointer flags: override overwrites base if override is non-nil
//   - Handlers: merged by directive name, an override entry replaces the
//     base entry of the same name
//   - Slices: override replaces base entirely if override is non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	// Output: field by field.
	if override.Output.Format != "" {
		result.Output.Format = override.Output.Format
	}
	if override.Output.Dir != "" {
		result.Output.Dir = override.Output.Dir
	}
	if override.Output.Extension != "" {
		result.Output.Extension = override.Output.Extension
	}

	// Render.
	if override.Render.Jobs != 0 {
		result.Render.Jobs = override.Render.Jobs
	}
	if override.Render.Extensions != nil {
		result.Render.Extensions = override.Render.Extensions
	}
	if override.Render.Exclude != nil {
		result.Render.Exclude = override.Render.Exclude
	}
	if override.Render.GFM != nil {
		result.Render.GFM = override.Render.GFM
	}
	if override.Render.Unsafe != nil {
		result.Render.Unsafe = override.Render.Unsafe
	}
	if override.Render.FollowSymlinks != nil {
		result.Render.FollowSymlinks = override.Render.FollowSymlinks
	}

	if override.Color != "" {
		result.Color = override.Color
	}

	// Summary is a CLI switch; only "on" is meaningful.
	if override.Summary {
		result.Summary = true
	}

	result.Handlers = mergeHandlers(base.Handlers, override.Handlers)

	return result
}

// mergeHandlers returns a new map with the entries of base and override,
// override winning per directive name.
func mergeHandlers(base, override map[string]config.HandlerConfig) map[string]config.HandlerConfig {
	if base == nil && override == nil {
		return nil
	}

	result := make(map[string]config.HandlerConfig, len(base)+len(override))
	maps.Copy(result, base)
	maps.Copy(result, override)
	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}

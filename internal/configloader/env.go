package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/mddirective/pkg/config"
)

// envVarPrefix is the prefix for all mddirective environment variables.
const envVarPrefix = "MDDIRECTIVE_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

// envMapping binds one environment variable (without prefix) to a config field.
type envMapping struct {
	suffix      string
	field       string
	typ         envFieldType
	description string
}

// envMappings lists the supported variables in the order they are applied.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = []envMapping{
	{"FORMAT", "output.format", envTypeString, "Output format: html or markdown"},
	{"OUT_DIR", "output.dir", envTypeString, "Directory receiving rendered files"},
	{"EXTENSION", "output.extension", envTypeString, "Extension of rendered files"},
	{"JOBS", "render.jobs", envTypeInt, "Number of parallel workers (0 = auto)"},
	{"EXTENSIONS", "render.extensions", envTypeSlice, "Comma-separated input file extensions"},
	{"EXCLUDE", "render.exclude", envTypeSlice, "Comma-separated exclude patterns"},
	{"GFM", "render.gfm", envTypeBool, "Enable GitHub Flavored Markdown: true or false"},
	{"UNSAFE", "render.unsafe", envTypeBool, "Pass raw HTML through: true or false"},
	{"FOLLOW_SYMLINKS", "render.follow_symlinks", envTypeBool, "Follow directory symlinks: true or false"},
	{"COLOR", "color", envTypeString, "Color mode: auto, always or never"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with MDDIRECTIVE_ (e.g., MDDIRECTIVE_FORMAT).
func LoadFromEnv(cfg *config.Config) error {
	return loadFromEnv(cfg, os.Getenv)
}

func loadFromEnv(cfg *config.Config, getenv func(string) string) error {
	if cfg == nil {
		return nil
	}

	for _, mapping := range envMappings {
		envVar := envVarPrefix + mapping.suffix
		value := getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// setStringField sets a string field on the config by field path.
func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "output.format":
		cfg.Output.Format = config.OutputFormat(value)
	case "output.dir":
		cfg.Output.Dir = value
	case "output.extension":
		cfg.Output.Extension = value
	case "color":
		cfg.Color = config.ColorMode(value)
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

// setBoolField sets a boolean field on the config by field path.
func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "render.gfm":
		cfg.Render.GFM = config.Bool(value)
	case "render.unsafe":
		cfg.Render.Unsafe = config.Bool(value)
	case "render.follow_symlinks":
		cfg.Render.FollowSymlinks = config.Bool(value)
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

// setIntField sets an integer field on the config by field path.
func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "render.jobs":
		cfg.Render.Jobs = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

// setSliceField sets a slice field on the config by field path.
func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "render.extensions":
		cfg.Render.Extensions = value
	case "render.exclude":
		cfg.Render.Exclude = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for _, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + mapping.suffix
		}
	}
	return ""
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for _, mapping := range envMappings {
		vars[envVarPrefix+mapping.suffix] = mapping.description
	}
	return vars
}

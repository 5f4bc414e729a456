package cmd

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// OutputFormat selects how command results are rendered.
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
)

// ParseOutputFormat accepts table, json or yaml (case-insensitive).
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown output format %q; valid: table, json, yaml", s)
	}
}

// Settings are the persistent options shared by every command. They come
// from flags, MONTESIM_* environment variables and the optional config file,
// in that order of precedence.
type Settings struct {
	Log      string       `mapstructure:"log"`
	Output   OutputFormat `mapstructure:"output"`
	Seed     int64        `mapstructure:"seed"`
	Defaults string       `mapstructure:"defaults"`
}

// outputFormatHook validates output formats while decoding.
func outputFormatHook() mapstructure.DecodeHookFuncType {
	target := reflect.TypeOf(FormatTable)
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String || to != target {
			return data, nil
		}
		return ParseOutputFormat(data.(string))
	}
}

// loadSettings decodes v into Settings and applies the log level.
func loadSettings(v *viper.Viper) (*Settings, error) {
	var s Settings
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			outputFormatHook(),
		)
	})
	if err := v.Unmarshal(&s, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode settings: %w", err)
	}
	level, err := logrus.ParseLevel(s.Log)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", s.Log, err)
	}
	logrus.SetLevel(level)
	return &s, nil
}

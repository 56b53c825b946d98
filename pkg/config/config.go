// Package config loads pipeline and server settings from a file.
//
// Files may be TOML, YAML, or JSON, chosen by extension. Pipeline options sit
// at the top level and server settings under a [server] table:
//
//	preset = "mobile"
//	odd = 22.5
//	formats = ["svg", "obj"]
//	background = "#101820"
//
//	[server]
//	addr = ":8080"
//	redis_url = "redis://localhost:6379/0"
//	max_limit = 50000
//
// Unknown keys are rejected so that typos do not silently fall back to
// defaults. Values from flags are merged on top with [File.Merge].
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"

	errs "github.com/matzehuels/coral/pkg/errors"
	"github.com/matzehuels/coral/pkg/pipeline"
)

// Extensions lists the supported config file extensions.
var Extensions = []string{".toml", ".yaml", ".yml", ".json"}

// File is the decoded content of a config file.
type File struct {
	pipeline.Options `yaml:",inline"`

	Server Server `json:"server" toml:"server" yaml:"server"`
}

// Server holds settings for "coral serve".
type Server struct {
	Addr        string `json:"addr,omitempty" toml:"addr" yaml:"addr,omitempty"`
	RedisURL    string `json:"redis_url,omitempty" toml:"redis_url" yaml:"redis_url,omitempty"`
	CachePrefix string `json:"cache_prefix,omitempty" toml:"cache_prefix" yaml:"cache_prefix,omitempty"`
	MaxLimit    int    `json:"max_limit,omitempty" toml:"max_limit" yaml:"max_limit,omitempty"`
}

// Load reads and decodes the config file at path.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return File{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "config file not found: %s", path)
	}
	if err != nil {
		return File{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read %s", path)
	}
	f, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return File{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	return f, nil
}

// Parse decodes data in the format named by ext (".toml", ".yaml", ".yml"
// or ".json").
func Parse(data []byte, ext string) (File, error) {
	var f File
	switch strings.ToLower(ext) {
	case ".toml":
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return File{}, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return File{}, errs.New(errs.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
		}
	case ".yaml", ".yml":
		if err := yaml.UnmarshalWithOptions(data, &f, yaml.Strict()); err != nil {
			return File{}, err
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return File{}, err
		}
	default:
		return File{}, errs.ValidateOneOf(errs.ErrCodeInvalidConfig, "config extension", ext, Extensions)
	}
	return f, nil
}

// Merge overlays the set fields of flags onto the file's pipeline options
// and returns the result. Zero values and nil pointers in flags leave the
// file's values alone.
func (f File) Merge(flags pipeline.Options) pipeline.Options {
	out := f.Options
	if flags.Limit != nil {
		out.Limit = flags.Limit
	}
	if flags.Preset != "" {
		out.Preset = flags.Preset
	}
	if flags.Start != 0 {
		out.Start = flags.Start
	}
	if flags.Spacing != 0 {
		out.Spacing = flags.Spacing
	}
	if flags.Rise != nil {
		out.Rise = flags.Rise
	}
	if flags.Odd != nil {
		out.Odd = flags.Odd
	}
	if flags.Even != nil {
		out.Even = flags.Even
	}
	if flags.OriginX != 0 {
		out.OriginX = flags.OriginX
	}
	if flags.OriginY != 0 {
		out.OriginY = flags.OriginY
	}
	if flags.OriginZ != 0 {
		out.OriginZ = flags.OriginZ
	}
	if flags.OriginAngle != 0 {
		out.OriginAngle = flags.OriginAngle
	}
	if len(flags.Formats) > 0 {
		out.Formats = flags.Formats
	}
	if flags.Projection != "" {
		out.Projection = flags.Projection
	}
	if flags.Width != 0 {
		out.Width = flags.Width
	}
	if flags.Height != 0 {
		out.Height = flags.Height
	}
	if flags.Smooth != 0 {
		out.Smooth = flags.Smooth
	}
	if flags.Seed != 0 {
		out.Seed = flags.Seed
	}
	if flags.Background != "" {
		out.Background = flags.Background
	}
	if flags.Stroke != 0 {
		out.Stroke = flags.Stroke
	}
	out.Refresh = out.Refresh || flags.Refresh
	if flags.Logger != nil {
		out.Logger = flags.Logger
	}
	return out
}

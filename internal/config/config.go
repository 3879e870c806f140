// Package config loads run defaults and edit plans from TOML.
//
//	[copy]
//	buffer_size = 1048576
//	sync = true
//	two_pass = false
//	verify = true
//
//	[values]
//	encoding = "raw"
//
//	[[edit]]
//	op = "insert"
//	anchor = "software"
//	pairs = [["statistics", "@stats.txt"], ["graphs", "@graphs.txt"]]
//
//	[[edit]]
//	op = "reorder"
//	keys = ["statistics", "graphs"]
//
// Relative @file paths are resolved against the plan file's directory.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/joshuapare/hicattr/internal/edit"
	"github.com/joshuapare/hicattr/internal/format"
)

// Config is the decoded file.
type Config struct {
	Copy   Copy   `toml:"copy"`
	Values Values `toml:"values"`
	Edits  []Edit `toml:"edit"`

	// dir is the directory of the loaded file.
	dir string
}

// Copy controls the rewrite.
type Copy struct {
	BufferSize int  `toml:"buffer_size"`
	Sync       bool `toml:"sync"`
	TwoPass    bool `toml:"two_pass"`
	Verify     bool `toml:"verify"`
}

// Values controls value-file decoding.
type Values struct {
	Encoding string `toml:"encoding"`
}

// Edit is one [[edit]] table.
type Edit struct {
	Op     string     `toml:"op"`
	Anchor string     `toml:"anchor"`
	Pairs  [][]string `toml:"pairs"`
	Keys   []string   `toml:"keys"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Copy:   Copy{BufferSize: format.DefaultCopyBufferSize},
		Values: Values{Encoding: string(edit.EncodingRaw)},
	}
}

// Load reads path over the defaults. Unknown keys are rejected so a typo does
// not silently drop an edit.
func Load(path string) (*Config, error) {
	cfg, _, err := decode(path)
	return cfg, err
}

// LoadPlan reads a file that may hold only [[edit]] tables. Run settings
// belong in the config file, so [copy] and [values] are rejected rather
// than ignored.
func LoadPlan(path string) (*Config, error) {
	cfg, md, err := decode(path)
	if err != nil {
		return nil, err
	}
	for _, table := range []string{"copy", "values"} {
		if md.IsDefined(table) {
			return nil, &format.InvalidArgumentError{
				Arg:     path,
				Message: fmt.Sprintf("[%s] is not allowed in a plan file; set it with --config or flags", table),
			}
		}
	}
	return cfg, nil
}

func decode(path string) (*Config, toml.MetaData, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, md, &format.InvalidArgumentError{Arg: path, Message: fmt.Sprintf("parse config: %v", err)}
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, md, &format.InvalidArgumentError{Arg: path, Message: "unknown keys: " + strings.Join(keys, ", ")}
	}
	if cfg.Copy.BufferSize <= 0 {
		return nil, md, &format.InvalidArgumentError{Arg: "copy.buffer_size", Message: "must be positive"}
	}
	cfg.dir = filepath.Dir(path)
	return cfg, md, nil
}

// Source returns the value resolver configured by [values].
func (c *Config) Source() (edit.Source, error) {
	enc, err := edit.ParseValueEncoding(c.Values.Encoding)
	if err != nil {
		return edit.Source{}, err
	}
	return edit.Source{Encoding: enc}, nil
}

// Plan turns the [[edit]] tables into operations, resolving values through src.
func (c *Config) Plan(src edit.Source) (edit.Plan, error) {
	plan := make(edit.Plan, 0, len(c.Edits))
	for i, e := range c.Edits {
		op, err := c.operation(e, src)
		if err != nil {
			return nil, fmt.Errorf("edit %d: %w", i+1, err)
		}
		plan = append(plan, op)
	}
	return plan, nil
}

func (c *Config) operation(e Edit, src edit.Source) (edit.Operation, error) {
	switch strings.ToLower(e.Op) {
	case "append":
		pairs, err := c.pairs(e, src)
		return &edit.Append{Pairs: pairs}, err
	case "insert":
		pairs, err := c.pairs(e, src)
		anchor := e.Anchor
		if anchor == "" {
			anchor = edit.SoftwareKey
		}
		return &edit.InsertAfterAnchor{Anchor: anchor, Pairs: pairs}, err
	case "replace":
		pairs, err := c.pairs(e, src)
		return &edit.ReplaceNamed{Pairs: pairs}, err
	case "reorder":
		return &edit.Reorder{Keys: e.Keys}, nil
	default:
		return nil, &format.InvalidArgumentError{Arg: "op", Message: fmt.Sprintf("unknown edit op %q", e.Op)}
	}
}

func (c *Config) pairs(e Edit, src edit.Source) ([]format.Attribute, error) {
	args := make([]string, 0, 2*len(e.Pairs))
	for _, p := range e.Pairs {
		if len(p) != 2 {
			return nil, &format.InvalidArgumentError{Arg: "pairs", Message: fmt.Sprintf("expected [key, value], got %d element(s)", len(p))}
		}
		args = append(args, p[0], c.relative(p[1]))
	}
	return src.ParsePairs(args)
}

// relative anchors a relative @file reference at the config directory.
func (c *Config) relative(v string) string {
	if c.dir == "" || !strings.HasPrefix(v, edit.FilePrefix) || strings.HasPrefix(v, edit.FilePrefix+edit.FilePrefix) {
		return v
	}
	p := v[len(edit.FilePrefix):]
	if p == "" || filepath.IsAbs(p) {
		return v
	}
	return edit.FilePrefix + filepath.Join(c.dir, p)
}

package sourcefile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Azhovan/fixerconf"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Options configures file source behavior.
type Options struct {
	// Format: "yaml", "json", or "toml". Auto-detected from extension if empty.
	Format string

	// Required: if true, missing files cause an error. Default: false (no rules).
	Required bool
}

// profile is the decoded file document.
type profile struct {
	Builtin *bool              `yaml:"builtin" json:"builtin" toml:"builtin"` // Default: true
	Risky   bool               `yaml:"risky" json:"risky" toml:"risky"`
	PHP     string             `yaml:"php" json:"php" toml:"php"`
	PHPUnit string             `yaml:"phpunit" json:"phpunit" toml:"phpunit"`
	Rules   *fixerconf.RuleMap `yaml:"rules" json:"rules" toml:"-"`
}

// tomlProfile mirrors profile for TOML, which has no ordered tables.
type tomlProfile struct {
	Builtin *bool          `toml:"builtin"`
	Risky   bool           `toml:"risky"`
	PHP     string         `toml:"php"`
	PHPUnit string         `toml:"phpunit"`
	Rules   map[string]any `toml:"rules"`
}

type fileSource struct {
	path string
	opts Options

	risky      bool
	provenance *fixerconf.Provenance
}

// New creates a file-based rule source. The file is read on every RuleMap call.
func New(path string, opts Options) fixerconf.RuleSource {
	return &fileSource{
		path: path,
		opts: opts,
	}
}

// RuleMap reads the profile and returns the selected built-in rules overlaid with the profile's rules.
func (f *fileSource) RuleMap() (*fixerconf.RuleMap, error) {
	p, err := f.load()
	if err != nil {
		return nil, err
	}

	builder := fixerconf.NewRuleSet()
	if p.Risky {
		builder.Risky()
	}
	if p.PHP != "" {
		m, err := fixerconf.ParseMigration(fixerconf.TrackPHP, p.PHP)
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", f.path, err)
		}
		builder.Migrate(m)
	}
	if p.PHPUnit != "" {
		m, err := fixerconf.ParseMigration(fixerconf.TrackPHPUnit, p.PHPUnit)
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", f.path, err)
		}
		builder.Migrate(m)
	}

	rules := fixerconf.NewRuleMap()
	provenance := &fixerconf.Provenance{}
	if p.Builtin == nil || *p.Builtin {
		builtin, err := builder.RuleMap()
		if err != nil {
			return nil, err
		}
		rules.Overlay(builtin)
		for _, r := range builder.Provenance().Rules {
			provenance.Record(r.Rule, r.Source)
		}
	}

	p.Rules.Range(func(name string, _ any) bool {
		provenance.Record(name, "rules")
		return true
	})
	rules.Overlay(p.Rules)

	f.risky = p.Risky
	f.provenance = provenance

	return rules, nil
}

// IsRisky reports whether the profile includes risky rules.
// It reflects the last successful RuleMap call, loading the file if there was none.
func (f *fileSource) IsRisky() bool {
	if f.provenance == nil {
		p, err := f.load()
		if err != nil {
			return false
		}
		f.risky = p.Risky
	}
	return f.risky
}

// Provenance reports which table or profile section supplied each rule.
func (f *fileSource) Provenance() *fixerconf.Provenance {
	return f.provenance
}

// Name returns a human-readable identifier for this source.
func (f *fileSource) Name() string {
	return "file:" + filepath.Base(f.path)
}

func (f *fileSource) load() (*profile, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			if f.opts.Required {
				return nil, fmt.Errorf("required profile not found: %s: %w", f.path, err)
			}
			builtin := false
			return &profile{Builtin: &builtin, Rules: fixerconf.NewRuleMap()}, nil
		}
		return nil, fmt.Errorf("read profile %s: %w", f.path, err)
	}

	format := f.opts.Format
	if format == "" {
		format = inferFormat(f.path)
	}

	p := &profile{Rules: fixerconf.NewRuleMap()}
	if len(bytes.TrimSpace(data)) == 0 && format != "" {
		return p, nil
	}

	switch format {
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(p); err != nil {
			return nil, fmt.Errorf("parse YAML file %s: %w", f.path, err)
		}
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(p); err != nil {
			return nil, fmt.Errorf("parse JSON file %s: %w", f.path, err)
		}
	case "toml":
		var raw tomlProfile
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse TOML file %s: %w", f.path, err)
		}
		p = fromTOML(raw)
	default:
		return nil, &fixerconf.InvalidInputError{
			Op:      "load_profile",
			Input:   f.path,
			Code:    fixerconf.ErrCodeUnsupportedFormat,
			Message: fmt.Sprintf("unsupported file format: %s (supported: yaml, json, toml)", format),
		}
	}

	if p.Rules == nil {
		p.Rules = fixerconf.NewRuleMap()
	}
	return p, nil
}

// fromTOML converts a TOML profile. TOML tables are unordered, so rules are sorted by name.
func fromTOML(raw tomlProfile) *profile {
	names := make([]string, 0, len(raw.Rules))
	for name := range raw.Rules {
		names = append(names, name)
	}
	sort.Strings(names)

	rules := fixerconf.NewRuleMap()
	for _, name := range names {
		rules.Set(name, raw.Rules[name])
	}

	return &profile{
		Builtin: raw.Builtin,
		Risky:   raw.Risky,
		PHP:     raw.PHP,
		PHPUnit: raw.PHPUnit,
		Rules:   rules,
	}
}

func inferFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	default:
		return ""
	}
}

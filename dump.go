package fixerconf

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// DumpOption configures dump behavior using the functional options pattern.
type DumpOption func(*dumpConfig)

type dumpFormat int

const (
	formatText dumpFormat = iota
	formatJSON
	formatYAML
)

// dumpConfig holds options for DumpRules.
type dumpConfig struct {
	withSources bool       // Include source attribution for each rule
	format      dumpFormat // Output format (default: text)
	indent      string     // Indentation for JSON output (default: "  ")
}

// WithSources includes source attribution for each rule in the output.
func WithSources() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.withSources = true
	}
}

// AsJSON outputs rules as a JSON object instead of text format.
func AsJSON() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.format = formatJSON
	}
}

// AsYAML outputs rules as a YAML mapping instead of text format.
func AsYAML() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.format = formatYAML
	}
}

// WithIndent sets the indentation for JSON output.
// Default is two spaces ("  ").
func WithIndent(indent string) DumpOption {
	return func(cfg *dumpConfig) {
		cfg.indent = indent
	}
}

// rulesDocument is the structured dump when sources are requested.
type rulesDocument struct {
	Rules      *RuleMap         `json:"rules" yaml:"rules"`
	Provenance []RuleProvenance `json:"provenance" yaml:"provenance"`
}

// DumpRules writes the flattened rules of src in rule order.
// Source attribution is available when src reports provenance (RuleSet, Config).
func DumpRules(w io.Writer, src RuleSource, opts ...DumpOption) error {
	if src == nil {
		return fmt.Errorf("rule source is nil")
	}

	config := dumpConfig{
		indent: "  ",
	}
	for _, opt := range opts {
		opt(&config)
	}

	rules, err := src.RuleMap()
	if err != nil {
		return fmt.Errorf("realize rules: %w", err)
	}

	var prov *Provenance
	if p, ok := src.(interface{ Provenance() *Provenance }); ok {
		prov = p.Provenance()
	}

	switch config.format {
	case formatJSON:
		return dumpAsJSON(w, rules, prov, config)
	case formatYAML:
		return dumpAsYAML(w, rules, prov, config)
	default:
		return dumpAsText(w, rules, prov, config)
	}
}

// dumpAsText outputs rules in text format (name: value).
func dumpAsText(w io.Writer, rules *RuleMap, prov *Provenance, config dumpConfig) error {
	var writeErr error
	rules.Range(func(name string, value any) bool {
		line := fmt.Sprintf("%s: %s", name, formatValue(value))
		if config.withSources {
			if source, ok := prov.Lookup(name); ok {
				line += fmt.Sprintf(" (source: %s)", source)
			}
		}
		line += "\n"

		if _, err := io.WriteString(w, line); err != nil {
			writeErr = fmt.Errorf("write error: %w", err)
			return false
		}
		return true
	})
	return writeErr
}

// dumpAsJSON outputs rules as an ordered JSON object.
func dumpAsJSON(w io.Writer, rules *RuleMap, prov *Provenance, config dumpConfig) error {
	var doc any = rules
	if config.withSources {
		doc = rulesDocument{Rules: rules, Provenance: provenanceRules(prov)}
	}

	var data []byte
	var err error
	if config.indent != "" {
		data, err = json.MarshalIndent(doc, "", config.indent)
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}

	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write error: %w", err)
	}

	return nil
}

// dumpAsYAML outputs rules as an ordered YAML mapping.
func dumpAsYAML(w io.Writer, rules *RuleMap, prov *Provenance, config dumpConfig) error {
	var doc any = rules
	if config.withSources {
		doc = rulesDocument{Rules: rules, Provenance: provenanceRules(prov)}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("yaml marshal error: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("write error: %w", err)
	}

	return nil
}

// formatValue formats a rule value for text output.
// Options are rendered as compact JSON with sorted keys.
func formatValue(value any) string {
	switch v := value.(type) {
	case bool:
		return fmt.Sprintf("%t", v)
	case Options, map[string]any:
		data, err := json.Marshal(plainValue(v))
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func provenanceRules(prov *Provenance) []RuleProvenance {
	if prov == nil {
		return []RuleProvenance{}
	}
	return prov.Rules
}

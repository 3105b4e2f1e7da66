package fixerconf

import (
	"github.com/rs/zerolog"
)

// DefaultName is used when a Config is created without a name.
const DefaultName = "default"

// HostConfig is the configuration read by the host tool.
type HostConfig struct {
	Name         string
	Rules        *RuleMap
	RiskyAllowed bool
	Finder       Finder
}

// Paths returns the directories the host tool scans.
func (h *HostConfig) Paths() []string {
	if h.Finder == nil {
		return []string{}
	}
	return h.Finder.Dirs()
}

// Config wraps a HostConfig and exposes the operations used to build it.
// Scan paths and rules only grow through In and AddRules; nothing is reset.
// Not safe for concurrent use.
type Config struct {
	host       *HostConfig
	provenance *Provenance
	logger     zerolog.Logger
}

// Option configures a Config using the functional options pattern.
type Option func(*Config)

// WithFinder replaces the directory finder used by In.
func WithFinder(f Finder) Option {
	return func(c *Config) {
		if f != nil {
			c.host.Finder = f
		}
	}
}

// WithLogger sets the logger. Default: a disabled logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithHost wraps an existing host configuration instead of a new one.
// Its rules, risky flag and finder are kept; missing ones are initialized.
func WithHost(h *HostConfig) Option {
	return func(c *Config) {
		if h == nil {
			return
		}
		if h.Finder == nil {
			h.Finder = c.host.Finder
		}
		if h.Rules == nil {
			h.Rules = NewRuleMap()
		}
		if h.Name == "" {
			h.Name = c.host.Name
		}
		c.host = h
	}
}

// New creates a Config with no rules, no paths, and risky rules disallowed.
func New(name string, opts ...Option) *Config {
	if name == "" {
		name = DefaultName
	}

	c := &Config{
		host: &HostConfig{
			Name:   name,
			Rules:  NewRuleMap(),
			Finder: NewDirFinder(),
		},
		provenance: newProvenance(),
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.logger = c.logger.With().Str("component", "fixerconf").Str("config", c.host.Name).Logger()
	c.host.Rules.Range(func(rule string, _ any) bool {
		c.provenance.Record(rule, "host")
		return true
	})

	return c
}

// In adds directories to scan. Order is preserved and duplicates are kept.
// Returns *InvalidInputError for the first directory that does not exist;
// in that case no directory is added.
func (c *Config) In(dirs ...string) error {
	if err := c.host.Finder.In(dirs...); err != nil {
		c.logger.Debug().Err(err).Strs("dirs", dirs).Msg("rejected scan directories")
		return err
	}

	c.logger.Debug().Strs("dirs", dirs).Msg("added scan directories")
	return nil
}

// AddRules overlays the rules of src onto the current rules. Later rules
// replace earlier ones by name, as a whole value.
// If src is RiskyAware and reports risky, risky rules are allowed on the host.
// Returns *InvalidInputError if src is nil, cannot be realized, or holds an
// invalid rule; the configuration is unchanged in that case.
func (c *Config) AddRules(src RuleSource) error {
	const op = "add_rules"

	if src == nil {
		return invalidInput(op, "", ErrCodeInvalidSource, "expected a rule source", nil)
	}

	name := sourceName(src)

	rules, err := src.RuleMap()
	if err != nil {
		return invalidInput(op, name, ErrCodeUnrealizable, "rules could not be realized", err)
	}
	if err := validateRules(op, rules); err != nil {
		return err
	}

	if ra, ok := src.(RiskyAware); ok && ra.IsRisky() {
		if !c.host.RiskyAllowed {
			c.logger.Debug().Str("source", name).Msg("risky rules allowed")
		}
		c.host.RiskyAllowed = true
	}

	c.host.Rules.Overlay(rules)
	c.recordProvenance(src, name, rules)

	c.logger.Debug().
		Str("source", name).
		Int("added", rules.Len()).
		Int("total", c.host.Rules.Len()).
		Msg("merged rules")

	return nil
}

func (c *Config) recordProvenance(src RuleSource, name string, rules *RuleMap) {
	var detail *Provenance
	if p, ok := src.(interface{ Provenance() *Provenance }); ok {
		detail = p.Provenance()
	}

	rules.Range(func(rule string, _ any) bool {
		source := name
		if table, ok := detail.Lookup(rule); ok {
			source = name + ":" + table
		}
		c.provenance.Record(rule, source)
		return true
	})
}

func sourceName(src RuleSource) string {
	if n, ok := src.(Named); ok && n.Name() != "" {
		return n.Name()
	}
	return "rules"
}

// Name returns the configuration name.
func (c *Config) Name() string {
	return c.host.Name
}

// Rules returns a copy of the current rules.
func (c *Config) Rules() *RuleMap {
	return c.host.Rules.Clone()
}

// RiskyAllowed reports whether the host tool may apply risky rules.
func (c *Config) RiskyAllowed() bool {
	return c.host.RiskyAllowed
}

// SetRiskyAllowed sets the risky flag directly.
func (c *Config) SetRiskyAllowed(allowed bool) {
	c.host.RiskyAllowed = allowed
}

// Paths returns the scan directories in the order they were added.
func (c *Config) Paths() []string {
	return c.host.Paths()
}

// Provenance returns where each current rule came from.
func (c *Config) Provenance() *Provenance {
	return c.provenance.clone()
}

// Host returns the wrapped host configuration.
func (c *Config) Host() *HostConfig {
	return c.host
}

// RuleMap implements RuleSource, so one Config can be layered onto another.
func (c *Config) RuleMap() (*RuleMap, error) {
	return c.Rules(), nil
}

// IsRisky implements RiskyAware.
func (c *Config) IsRisky() bool {
	return c.host.RiskyAllowed
}

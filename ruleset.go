package fixerconf

import (
	"errors"
	"fmt"
)

// errNilRuleSet is returned when a nil *RuleSet is realized.
var errNilRuleSet = errors.New("fixerconf: rule set is nil")

// RuleSet accumulates rule selections and flattens them into one RuleMap.
// Methods return the receiver for chaining. Not safe for concurrent use.
type RuleSet struct {
	catalog *Catalog
	risky   bool
	levels  map[Track]Migration // Highest enabled migration per track
}

// RuleSetOption configures a RuleSet using the functional options pattern.
type RuleSetOption func(*RuleSet)

// WithCatalog replaces the built-in rule tables.
func WithCatalog(c *Catalog) RuleSetOption {
	return func(rs *RuleSet) {
		if c != nil {
			rs.catalog = c
		}
	}
}

// NewRuleSet creates a RuleSet with only the base rules selected.
func NewRuleSet(opts ...RuleSetOption) *RuleSet {
	rs := &RuleSet{
		catalog: DefaultCatalog(),
		levels:  make(map[Track]Migration),
	}
	for _, opt := range opts {
		opt(rs)
	}
	return rs
}

// Risky includes the risky rules, and the risky variant of every enabled migration.
func (rs *RuleSet) Risky() *RuleSet {
	rs.risky = true
	return rs
}

// IsRisky reports whether risky rules have been included.
func (rs *RuleSet) IsRisky() bool {
	return rs != nil && rs.risky
}

// Migrate includes the rules of m and of every lower version on m's track.
// Enabling a version at or below the current level of the track is a no-op.
func (rs *RuleSet) Migrate(m Migration) *RuleSet {
	if m.IsZero() {
		return rs
	}
	if current, ok := rs.levels[m.track]; !ok || current.Less(m) {
		rs.levels[m.track] = m
	}
	return rs
}

// Includes reports whether the rules of m are selected.
func (rs *RuleSet) Includes(m Migration) bool {
	if rs == nil {
		return false
	}
	level, ok := rs.levels[m.track]
	return ok && !m.IsZero() && m.atMost(level)
}

// PHP56 includes PHP 5.6 rules.
func (rs *RuleSet) PHP56() *RuleSet { return rs.Migrate(PHP56) }

// PHP70 includes PHP 7.0 (and below) rules.
func (rs *RuleSet) PHP70() *RuleSet { return rs.Migrate(PHP70) }

// PHP71 includes PHP 7.1 (and below) rules.
func (rs *RuleSet) PHP71() *RuleSet { return rs.Migrate(PHP71) }

// PHP73 includes PHP 7.3 (and below) rules.
func (rs *RuleSet) PHP73() *RuleSet { return rs.Migrate(PHP73) }

// PHP74 includes PHP 7.4 (and below) rules.
func (rs *RuleSet) PHP74() *RuleSet { return rs.Migrate(PHP74) }

// PHP80 includes PHP 8.0 (and below) rules.
func (rs *RuleSet) PHP80() *RuleSet { return rs.Migrate(PHP80) }

// PHP81 includes PHP 8.1 (and below) rules.
func (rs *RuleSet) PHP81() *RuleSet { return rs.Migrate(PHP81) }

// PHP82 includes PHP 8.2 (and below) rules.
func (rs *RuleSet) PHP82() *RuleSet { return rs.Migrate(PHP82) }

// PHP83 includes PHP 8.3 (and below) rules.
func (rs *RuleSet) PHP83() *RuleSet { return rs.Migrate(PHP83) }

// PHPUnit56 includes PHPUnit 5.6 rules.
func (rs *RuleSet) PHPUnit56() *RuleSet { return rs.Migrate(PHPUnit56) }

// PHPUnit57 includes PHPUnit 5.7 (and below) rules.
func (rs *RuleSet) PHPUnit57() *RuleSet { return rs.Migrate(PHPUnit57) }

// PHPUnit60 includes PHPUnit 6.0 (and below) rules.
func (rs *RuleSet) PHPUnit60() *RuleSet { return rs.Migrate(PHPUnit60) }

// PHPUnit75 includes PHPUnit 7.5 (and below) rules.
func (rs *RuleSet) PHPUnit75() *RuleSet { return rs.Migrate(PHPUnit75) }

// PHPUnit84 includes PHPUnit 8.4 (and below) rules.
func (rs *RuleSet) PHPUnit84() *RuleSet { return rs.Migrate(PHPUnit84) }

// PHPUnit100 includes PHPUnit 10.0 (and below) rules.
func (rs *RuleSet) PHPUnit100() *RuleSet { return rs.Migrate(PHPUnit100) }

// Name identifies the rule set in provenance.
func (rs *RuleSet) Name() string {
	return "ruleset"
}

// RuleMap flattens the selected tables into a new RuleMap.
// It never modifies the RuleSet, so repeated calls yield equal maps.
// Returns an error for a nil RuleSet or a catalog that fails Validate.
func (rs *RuleSet) RuleMap() (*RuleMap, error) {
	if rs == nil {
		return nil, errNilRuleSet
	}
	if err := rs.catalog.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	rules := NewRuleMap()
	for _, table := range rs.layers() {
		rules.Overlay(table.Map())
	}
	return rules, nil
}

// Provenance reports which table supplied each rule of RuleMap.
func (rs *RuleSet) Provenance() *Provenance {
	prov := newProvenance()
	if rs == nil {
		return prov
	}
	for _, table := range rs.layers() {
		for _, r := range table.Rules {
			prov.Record(r.Name, table.Name)
		}
	}
	return prov
}

// layers returns the selected tables in overlay order: base, enabled steps,
// then risky and the risky variants of enabled steps.
func (rs *RuleSet) layers() []Table {
	layers := []Table{rs.catalog.Base}

	for _, step := range rs.catalog.Steps {
		if rs.Includes(step.Migration) && !step.Rules.Empty() {
			layers = append(layers, step.Rules)
		}
	}

	if !rs.risky {
		return layers
	}

	layers = append(layers, rs.catalog.Risky)
	for _, step := range rs.catalog.Steps {
		if rs.Includes(step.Migration) && !step.Risky.Empty() {
			layers = append(layers, step.Risky)
		}
	}

	return layers
}

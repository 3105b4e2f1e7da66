package fixerconf

// Options is the structured form of a rule value (option name to option value).
type Options map[string]any

// Rule is a single named directive for the host tool.
// Value is either a bool or Options.
type Rule struct {
	Name  string
	Value any
}

// RuleSource provides an ordered rule mapping.
// Lazy sources are realized when RuleMap is called.
type RuleSource interface {
	// RuleMap returns the flattened rules. The caller owns the returned map.
	RuleMap() (*RuleMap, error)
}

// RiskyAware is implemented by sources that may include risky rules.
// Config.AddRules allows risky rules on the host when IsRisky reports true.
type RiskyAware interface {
	// IsRisky reports whether risky rules have been included.
	IsRisky() bool
}

// Named is implemented by sources that identify themselves for provenance.
type Named interface {
	Name() string
}

// Enabled and Disabled are the boolean rule values.
const (
	Enabled  = true
	Disabled = false
)

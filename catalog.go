package fixerconf

import "fmt"

// Table is a static, named, ordered set of rules.
type Table struct {
	Name  string
	Rules []Rule
}

// Map returns a fresh RuleMap holding the table's rules.
func (t Table) Map() *RuleMap {
	return NewRuleMap(t.Rules...)
}

// RuleMap implements RuleSource.
func (t Table) RuleMap() (*RuleMap, error) {
	return t.Map(), nil
}

// Empty reports whether the table has no rules.
func (t Table) Empty() bool {
	return len(t.Rules) == 0
}

// Step binds the rule tables of one migration.
// A Step with an empty Risky table has no risky variant.
type Step struct {
	Migration Migration
	Rules     Table
	Risky     Table
}

// Catalog is the complete set of rule tables a RuleSet draws from.
// Steps are ordered by track, then by version.
type Catalog struct {
	Base  Table
	Risky Table
	Steps []Step
}

// Validate checks that every step names a known migration and that steps
// are unique and ascending by track, then version.
func (c *Catalog) Validate() error {
	known := make(map[Migration]bool)
	for _, m := range Migrations() {
		known[m] = true
	}

	for i, step := range c.Steps {
		if step.Migration.IsZero() {
			return fmt.Errorf("catalog step %d: migration is not set", i)
		}
		if !known[step.Migration] {
			return fmt.Errorf("catalog step %d: unknown migration %s", i, step.Migration)
		}
		if i > 0 && !c.Steps[i-1].Migration.Less(step.Migration) {
			return fmt.Errorf("catalog step %d: %s must come after %s", i, step.Migration, c.Steps[i-1].Migration)
		}
	}
	return nil
}

// riskyVariants lists the migrations that carry a risky rule table.
// Later steps have no risky migration set in the host tool's catalog.
var riskyVariants = map[Migration]string{
	PHP70: "@PHP70Migration:risky",
	PHP71: "@PHP71Migration:risky",
	PHP74: "@PHP74Migration:risky",
	PHP80: "@PHP80Migration:risky",
}

// DefaultCatalog returns the built-in rule tables.
// Each call returns a new Catalog; callers may modify it freely.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Base:  baseTable(),
		Risky: riskyTable(),
		Steps: defaultSteps(),
	}
}

func baseTable() Table {
	return Table{
		Name: "base",
		Rules: []Rule{
			{Name: "@Symfony", Value: true},
			{Name: "@PhpCsFixer", Value: true},

			// Overrides of the Symfony set
			{Name: "braces", Value: Options{"allow_single_line_closure": true}},
			{Name: "concat_space", Value: Options{"spacing": "one"}},
			{Name: "method_argument_space", Value: Options{"on_multiline": "ensure_fully_multiline"}},
			{Name: "yoda_style", Value: Options{"equal": false, "identical": false}},

			{Name: "array_syntax", Value: Options{"syntax": "short"}},
			{Name: "blank_line_before_statement", Value: false},
			{Name: "comment_to_phpdoc", Value: false},
			{Name: "declare_strict_types", Value: true},
			{Name: "heredoc_to_nowdoc", Value: true},
			{Name: "linebreak_after_opening_tag", Value: true},
			{Name: "native_function_invocation", Value: Options{"include": []any{"@compiler_optimized"}}},
			{Name: "no_useless_else", Value: true},
			{Name: "no_useless_return", Value: true},
			{Name: "multiline_whitespace_before_semicolons", Value: Options{"strategy": "new_line_for_chained_calls"}},
			{Name: "ordered_class_elements", Value: true},
			{Name: "ordered_imports", Value: Options{
				"sort_algorithm": "alpha",
				"imports_order":  []any{"const", "class", "function"},
			}},
			{Name: "php_unit_strict", Value: false},
			{Name: "phpdoc_line_span", Value: Options{
				"const":    "single",
				"method":   "single",
				"property": "single",
			}},
			{Name: "phpdoc_order", Value: true},
			{Name: "single_line_comment_style", Value: Options{"comment_types": []any{"hash"}}},
		},
	}
}

func riskyTable() Table {
	return Table{
		Name: "risky",
		Rules: []Rule{
			{Name: "@Symfony:risky", Value: true},
			{Name: "@PHPUnit84Migration:risky", Value: true},

			// Overrides of the Symfony risky set
			{Name: "is_null", Value: Options{"use_yoda_style": false}},

			{Name: "strict_comparison", Value: true},
			{Name: "strict_param", Value: true},
		},
	}
}

func defaultSteps() []Step {
	steps := []Step{
		phpStep(PHP56),
		phpStep(PHP70),
		phpStep(PHP71, Rule{Name: "list_syntax", Value: Options{"syntax": "short"}}),
		phpStep(PHP73),
		phpStep(PHP74),
		phpStep(PHP80),
		phpStep(PHP81),
		phpStep(PHP82),
		phpStep(PHP83),
		phpUnitStep(PHPUnit56),
		phpUnitStep(PHPUnit57),
		phpUnitStep(PHPUnit60),
		phpUnitStep(PHPUnit75),
		phpUnitStep(PHPUnit84),
		phpUnitStep(PHPUnit100),
	}

	for i := range steps {
		if set, ok := riskyVariants[steps[i].Migration]; ok {
			steps[i].Risky = Table{
				Name:  steps[i].Migration.String() + ":risky",
				Rules: []Rule{{Name: set, Value: true}},
			}
		}
	}

	return steps
}

// phpStep builds a language step. PHP 5.6 is the floor of the track and has no rule set.
func phpStep(m Migration, extra ...Rule) Step {
	step := Step{Migration: m, Rules: Table{Name: m.String()}}
	if m != PHP56 {
		step.Rules.Rules = append(step.Rules.Rules, Rule{Name: setName(m), Value: true})
	}
	step.Rules.Rules = append(step.Rules.Rules, extra...)
	return step
}

// phpUnitStep builds a test framework step. The host tool only ships risky
// PHPUnit migration sets, and they are applied without the risky flag.
func phpUnitStep(m Migration) Step {
	return Step{
		Migration: m,
		Rules: Table{
			Name:  m.String(),
			Rules: []Rule{{Name: setName(m) + ":risky", Value: true}},
		},
	}
}

// setName returns the host tool's rule set name for m, e.g. "@PHP74Migration".
func setName(m Migration) string {
	prefix := "@PHP"
	if m.track == TrackPHPUnit {
		prefix = "@PHPUnit"
	}
	return fmt.Sprintf("%s%d%dMigration", prefix, m.major, m.minor)
}

// Package fixerconf composes rule sets for a code style fixer and hands the result to the host tool's configuration.
//
// Quick Start:
//
//	rules := fixerconf.NewRuleSet().
//	    Risky().
//	    PHP83().
//	    PHPUnit100()
//
//	cfg := fixerconf.New("default")
//	if err := cfg.AddRules(rules); err != nil { ... }
//	if err := cfg.AddRules(fixerconf.NewRuleMap(fixerconf.Rule{Name: "@PhpCsFixer:risky", Value: true})); err != nil { ... }
//	if err := cfg.In("src"); err != nil { ... }
//
//	host := cfg.Host()
//
// Rule tables are overlaid in a fixed order (base, migrations, risky, risky migrations).
// A later table replaces the whole value of a rule defined earlier.
//
// See example_test.go for detailed usage.
package fixerconf

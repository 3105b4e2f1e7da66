// Package sourceenv loads rule overrides from environment variables.
//
// Key normalization: NO_USELESS_ELSE → no_useless_else,
// ARRAY_SYNTAX__SYNTAX → option "syntax" of rule array_syntax.
// Values are parsed as YAML, so "false" is a bool and "{syntax: short}" is an options mapping.
//
// Example:
//
//	source := sourceenv.New(sourceenv.Options{Prefix: "FIXER_RULE_"})
//	err := cfg.AddRules(source)
package sourceenv

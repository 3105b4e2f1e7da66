// Package sourcefile loads a rule profile from a YAML, JSON, or TOML file.
//
// Format is auto-detected from extension (.yaml, .json, .toml).
//
// A profile selects the built-in rules and adds its own on top:
//
//	risky: true
//	php: "8.3"
//	phpunit: "10.0"
//	rules:
//	  "@PhpCsFixer:risky": true
//	  yoda_style: false
//
// Example:
//
//	source := sourcefile.New(".fixer.yaml", sourcefile.Options{Required: true})
//	err := cfg.AddRules(source)
package sourcefile

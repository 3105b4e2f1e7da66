package sourceenv

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Azhovan/fixerconf"
	"github.com/Azhovan/fixerconf/internal/normalize"
	"gopkg.in/yaml.v3"
)

// Options configures environment variable source behavior.
type Options struct {
	// Prefix filters vars starting with prefix (stripped before normalization).
	// Empty = load all vars.
	// Prefix matching behavior is controlled by CaseSensitive.
	Prefix string

	// CaseSensitive controls prefix matching (default: false).
	// When false, prefix matching is case-insensitive (FIXER_ matches fixer_, Fixer_, etc.).
	// When true, prefix must match exactly.
	// Rule names are always normalized to lowercase after prefix stripping.
	CaseSensitive bool
}

type envSource struct {
	opts    Options
	environ func() []string
}

// New creates an environment variable rule source.
func New(opts Options) fixerconf.RuleSource {
	return &envSource{opts: opts, environ: os.Environ}
}

// RuleMap scans environment variables, filters by prefix, and builds rules ordered by name.
// Option variables (RULE__OPTION) of the same rule are combined into one options value.
func (e *envSource) RuleMap() (*fixerconf.RuleMap, error) {
	values := make(map[string]string)
	for _, env := range e.environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}

		if e.opts.Prefix != "" {
			var hasPrefix bool
			if e.opts.CaseSensitive {
				hasPrefix = strings.HasPrefix(key, e.opts.Prefix)
			} else {
				hasPrefix = strings.HasPrefix(strings.ToUpper(key), strings.ToUpper(e.opts.Prefix))
			}

			if !hasPrefix {
				continue
			}
			key = key[len(e.opts.Prefix):]
		}

		if key == "" {
			continue
		}

		values[normalize.ToLowerDotPath(key)] = value
	}

	paths := make([]string, 0, len(values))
	for path := range values {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	rules := fixerconf.NewRuleMap()
	for _, path := range paths {
		name, option := normalize.SplitPath(path)

		value, err := parseValue(values[path])
		if err != nil {
			return nil, fmt.Errorf("env rule %s: %w", path, err)
		}

		if option == "" {
			rules.Set(name, value)
			continue
		}

		// Options accumulate; a plain value set for the same rule is replaced.
		opts, _ := current(rules, name)
		opts[option] = value
		rules.Set(name, opts)
	}

	return rules, nil
}

// Name returns a human-readable identifier for this source.
func (e *envSource) Name() string {
	return "env"
}

func current(rules *fixerconf.RuleMap, name string) (fixerconf.Options, bool) {
	value, ok := rules.Get(name)
	if !ok {
		return fixerconf.Options{}, false
	}
	opts, isOpts := value.(fixerconf.Options)
	if !isOpts {
		return fixerconf.Options{}, true
	}
	return opts, true
}

// parseValue decodes an environment value as a YAML scalar or flow collection.
func parseValue(raw string) (any, error) {
	var value any
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
		return nil, err
	}
	return value, nil
}

package fixerconf

import (
	"fmt"
	"strings"
)

// validateRules checks that every rule has a name and a bool or options value.
// It stops at the first invalid rule.
func validateRules(op string, rules *RuleMap) error {
	var err error
	rules.Range(func(name string, value any) bool {
		err = validateRule(op, name, value)
		return err == nil
	})
	return err
}

// validateRule validates a single rule. Whether the host tool knows the rule is not checked.
func validateRule(op, name string, value any) error {
	if strings.TrimSpace(name) == "" {
		return invalidInput(op, name, ErrCodeInvalidRule, "rule name is empty", nil)
	}

	switch v := value.(type) {
	case bool:
		return nil
	case Options:
		return validateOptions(op, name, v)
	case map[string]any:
		return validateOptions(op, name, v)
	case nil:
		return invalidInput(op, name, ErrCodeInvalidRule, "rule value is null, expected bool or options", nil)
	default:
		return invalidInput(op, name, ErrCodeInvalidRule,
			fmt.Sprintf("rule value has type %T, expected bool or options", value), nil)
	}
}

func validateOptions(op, name string, opts map[string]any) error {
	for key := range opts {
		if strings.TrimSpace(key) == "" {
			return invalidInput(op, name, ErrCodeInvalidRule, "option name is empty", nil)
		}
	}
	return nil
}

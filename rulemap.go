package fixerconf

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// RuleMap is an ordered mapping of rule name to rule value.
// Iteration follows the order in which names first appeared.
// The zero value is an empty map ready to use.
type RuleMap struct {
	rules *orderedmap.OrderedMap[string, any]
}

// NewRuleMap creates a RuleMap holding rules in the given order.
// A repeated name replaces the earlier value but keeps its position.
func NewRuleMap(rules ...Rule) *RuleMap {
	m := &RuleMap{rules: orderedmap.New[string, any]()}
	for _, r := range rules {
		m.Set(r.Name, r.Value)
	}
	return m
}

func (m *RuleMap) init() {
	if m.rules == nil {
		m.rules = orderedmap.New[string, any]()
	}
}

// Set stores a copy of value under name.
// An existing entry is replaced as a whole; nested options are never merged.
func (m *RuleMap) Set(name string, value any) {
	m.init()
	m.rules.Set(name, cloneValue(value))
}

// Get returns the value stored under name.
func (m *RuleMap) Get(name string) (any, bool) {
	if m == nil || m.rules == nil {
		return nil, false
	}
	return m.rules.Get(name)
}

// Delete removes name and reports whether it was present.
func (m *RuleMap) Delete(name string) bool {
	if m == nil || m.rules == nil {
		return false
	}
	_, ok := m.rules.Delete(name)
	return ok
}

// Len returns the number of rules.
func (m *RuleMap) Len() int {
	if m == nil || m.rules == nil {
		return 0
	}
	return m.rules.Len()
}

// Range calls fn for each rule in order until fn returns false.
func (m *RuleMap) Range(fn func(name string, value any) bool) {
	if m == nil || m.rules == nil {
		return
	}
	for pair := m.rules.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// Keys returns rule names in order.
func (m *RuleMap) Keys() []string {
	keys := make([]string, 0, m.Len())
	m.Range(func(name string, _ any) bool {
		keys = append(keys, name)
		return true
	})
	return keys
}

// Rules returns the rules in order. Values are copies.
func (m *RuleMap) Rules() []Rule {
	rules := make([]Rule, 0, m.Len())
	m.Range(func(name string, value any) bool {
		rules = append(rules, Rule{Name: name, Value: cloneValue(value)})
		return true
	})
	return rules
}

// Overlay copies every rule of other into m, last write wins.
// Names new to m are appended; names already present keep their position.
func (m *RuleMap) Overlay(other *RuleMap) *RuleMap {
	m.init()
	other.Range(func(name string, value any) bool {
		m.Set(name, value)
		return true
	})
	return m
}

// Clone returns a deep copy of m.
func (m *RuleMap) Clone() *RuleMap {
	return NewRuleMap().Overlay(m)
}

// RuleMap implements RuleSource by returning a copy of m.
func (m *RuleMap) RuleMap() (*RuleMap, error) {
	if m == nil {
		return NewRuleMap(), nil
	}
	return m.Clone(), nil
}

// MarshalJSON encodes the rules as a JSON object in rule order.
func (m *RuleMap) MarshalJSON() ([]byte, error) {
	if m == nil || m.rules == nil {
		return []byte("{}"), nil
	}
	return m.rules.MarshalJSON()
}

// UnmarshalJSON decodes a JSON object keeping the order of its keys.
func (m *RuleMap) UnmarshalJSON(data []byte) error {
	decoded := orderedmap.New[string, any]()
	if err := decoded.UnmarshalJSON(data); err != nil {
		return err
	}

	m.rules = orderedmap.New[string, any]()
	for pair := decoded.Oldest(); pair != nil; pair = pair.Next() {
		m.Set(pair.Key, pair.Value)
	}
	return nil
}

// MarshalYAML encodes the rules as a YAML mapping in rule order.
func (m *RuleMap) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	var encodeErr error
	m.Range(func(name string, value any) bool {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(plainValue(value)); err != nil {
			encodeErr = fmt.Errorf("encode rule %s: %w", name, err)
			return false
		}
		node.Content = append(node.Content, keyNode, valueNode)
		return true
	})
	if encodeErr != nil {
		return nil, encodeErr
	}

	return node, nil
}

// UnmarshalYAML decodes a YAML mapping keeping the order of its keys.
func (m *RuleMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}

	m.rules = orderedmap.New[string, any]()

	// An empty document decodes to an empty map.
	if node.Kind == 0 || node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of rules", node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]

		var value any
		if err := valueNode.Decode(&value); err != nil {
			return fmt.Errorf("line %d: decode rule %s: %w", valueNode.Line, keyNode.Value, err)
		}
		m.Set(keyNode.Value, value)
	}

	return nil
}

// cloneValue deep copies option mappings so callers never share state with
// the built-in tables. A map[string]any at the top level becomes Options.
func cloneValue(value any) any {
	switch v := value.(type) {
	case Options:
		return Options(cloneMap(v))
	case map[string]any:
		return Options(cloneMap(v))
	default:
		return cloneNested(value)
	}
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = cloneNested(v)
	}
	return dst
}

func cloneNested(value any) any {
	switch v := value.(type) {
	case Options:
		return Options(cloneMap(v))
	case map[string]any:
		return cloneMap(v)
	case []any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = cloneNested(v[i])
		}
		return out
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	default:
		return value
	}
}

// plainValue converts Options back to map[string]any for encoders that
// switch on concrete types.
func plainValue(value any) any {
	if opts, ok := value.(Options); ok {
		return map[string]any(opts)
	}
	return value
}

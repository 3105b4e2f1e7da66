package fixerconf

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDumpRules_Text(t *testing.T) {
	rules := NewRuleMap(
		Rule{Name: "array_syntax", Value: Options{"syntax": "short"}},
		Rule{Name: "yoda_style", Value: false},
		Rule{Name: "phpdoc_line_span", Value: Options{"method": "single", "const": "single"}},
	)

	var buf bytes.Buffer
	require.NoError(t, DumpRules(&buf, rules))

	want := "array_syntax: {\"syntax\":\"short\"}\n" +
		"yoda_style: false\n" +
		"phpdoc_line_span: {\"const\":\"single\",\"method\":\"single\"}\n"
	assert.Equal(t, want, buf.String())
}

func TestDumpRules_TextWithSources(t *testing.T) {
	rs := NewRuleSet(WithCatalog(testCatalog())).PHP71()

	var buf bytes.Buffer
	require.NoError(t, DumpRules(&buf, rs, WithSources()))

	want := "array_syntax: {\"syntax\":\"short\"} (source: base)\n" +
		"yoda_style: false (source: base)\n" +
		"ordered_imports: {\"sort_algorithm\":\"alpha\"} (source: php-7.1)\n" +
		"php70_only: true (source: php-7.0)\n"
	assert.Equal(t, want, buf.String())
}

func TestDumpRules_SourcesWithoutProvenance(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DumpRules(&buf, NewRuleMap(Rule{Name: "a", Value: true}), WithSources()))
	assert.Equal(t, "a: true\n", buf.String())
}

func TestDumpRules_JSON(t *testing.T) {
	rules := NewRuleMap(
		Rule{Name: "yoda_style", Value: false},
		Rule{Name: "array_syntax", Value: Options{"syntax": "short"}},
	)

	var buf bytes.Buffer
	require.NoError(t, DumpRules(&buf, rules, AsJSON()))

	assert.JSONEq(t, `{"yoda_style": false, "array_syntax": {"syntax": "short"}}`, buf.String())
	assert.Contains(t, buf.String(), "\n  \"yoda_style\"")

	var decoded RuleMap
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []string{"yoda_style", "array_syntax"}, decoded.Keys())
}

func TestDumpRules_JSONCompactWithSources(t *testing.T) {
	rs := NewRuleSet(WithCatalog(testCatalog())).Risky()

	var buf bytes.Buffer
	require.NoError(t, DumpRules(&buf, rs, AsJSON(), WithIndent(""), WithSources()))

	var doc struct {
		Rules      *RuleMap         `json:"rules"`
		Provenance []RuleProvenance `json:"provenance"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, []string{"array_syntax", "yoda_style", "ordered_imports", "strict_comparison"}, doc.Rules.Keys())
	assert.Equal(t, RuleProvenance{Rule: "strict_comparison", Source: "risky"}, doc.Provenance[3])
	assert.NotContains(t, buf.String(), "\n  ")
}

func TestDumpRules_YAML(t *testing.T) {
	rules := NewRuleMap(
		Rule{Name: "yoda_style", Value: false},
		Rule{Name: "array_syntax", Value: Options{"syntax": "short"}},
	)

	var buf bytes.Buffer
	require.NoError(t, DumpRules(&buf, rules, AsYAML()))

	assert.Equal(t, "yoda_style: false\narray_syntax:\n  syntax: short\n", buf.String())

	var decoded RuleMap
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, rules.Rules(), decoded.Rules())
}

func TestDumpRules_YAMLWithSources(t *testing.T) {
	rs := NewRuleSet(WithCatalog(testCatalog()))

	var buf bytes.Buffer
	require.NoError(t, DumpRules(&buf, rs, AsYAML(), WithSources()))

	var doc struct {
		Rules      RuleMap `yaml:"rules"`
		Provenance []struct {
			Rule   string `yaml:"rule"`
			Source string `yaml:"source"`
		} `yaml:"provenance"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, []string{"array_syntax", "yoda_style", "ordered_imports"}, doc.Rules.Keys())
	require.Len(t, doc.Provenance, 3)
	assert.Equal(t, "base", doc.Provenance[0].Source)
}

func TestDumpRules_Errors(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, DumpRules(&buf, nil))

	err := DumpRules(&buf, &failingSource{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "realize rules")

	err = DumpRules(errWriter{}, NewRuleMap(Rule{Name: "a", Value: true}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write error")
}

// errWriter is a test helper that always fails.
type errWriter struct{}

func (errWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

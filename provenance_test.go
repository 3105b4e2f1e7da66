package fixerconf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvenance_RecordKeepsFirstPosition(t *testing.T) {
	var p Provenance
	p.Record("a", "base")
	p.Record("b", "base")
	p.Record("a", "php-7.1")

	assert.Equal(t, []RuleProvenance{
		{Rule: "a", Source: "php-7.1"},
		{Rule: "b", Source: "base"},
	}, p.Rules)

	source, ok := p.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "php-7.1", source)

	_, ok = p.Lookup("missing")
	assert.False(t, ok)
}

func TestProvenance_NilLookup(t *testing.T) {
	var p *Provenance
	_, ok := p.Lookup("a")
	assert.False(t, ok)
	assert.Empty(t, p.clone().Rules)
}

func TestProvenance_LiteralIsIndexedLazily(t *testing.T) {
	p := &Provenance{Rules: []RuleProvenance{{Rule: "a", Source: "file"}}}

	source, ok := p.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "file", source)

	p.Record("b", "env")
	assert.Len(t, p.Rules, 2)
}

func TestProvenance_CloneIsIndependent(t *testing.T) {
	p := newProvenance()
	p.Record("a", "base")

	clone := p.clone()
	clone.Record("a", "rules")

	source, _ := p.Lookup("a")
	assert.Equal(t, "base", source)
}

package fixerconf

// Provenance records where each rule's final value came from.
type Provenance struct {
	Rules []RuleProvenance `json:"rules"`

	index map[string]int
}

// RuleProvenance describes where a rule's value came from.
type RuleProvenance struct {
	Rule   string `json:"rule"`   // Rule name (e.g., "array_syntax")
	Source string `json:"source"` // Table or source name (e.g., "php-7.1", "file:.fixer.yaml")
}

func newProvenance() *Provenance {
	return &Provenance{index: make(map[string]int)}
}

// Record notes that source set rule. A rule keeps its first position.
func (p *Provenance) Record(rule, source string) {
	if p.index == nil {
		p.reindex()
	}
	if i, ok := p.index[rule]; ok {
		p.Rules[i].Source = source
		return
	}
	p.index[rule] = len(p.Rules)
	p.Rules = append(p.Rules, RuleProvenance{Rule: rule, Source: source})
}

// Lookup returns the source that last set rule.
func (p *Provenance) Lookup(rule string) (string, bool) {
	if p == nil {
		return "", false
	}
	if p.index == nil {
		p.reindex()
	}
	i, ok := p.index[rule]
	if !ok {
		return "", false
	}
	return p.Rules[i].Source, true
}

func (p *Provenance) reindex() {
	p.index = make(map[string]int, len(p.Rules))
	for i, r := range p.Rules {
		p.index[r.Rule] = i
	}
}

func (p *Provenance) clone() *Provenance {
	out := newProvenance()
	if p == nil {
		return out
	}
	for _, r := range p.Rules {
		out.Record(r.Rule, r.Source)
	}
	return out
}

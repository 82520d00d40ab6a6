package unifi

import "strings"

// PropertySet indexes key=value property lines by key. The first occurrence
// of a key wins; lines without '=' are kept for ordered scans only.
//
// A value is everything after the first '=', so "switch.port.1.name=a=b"
// yields "a=b". The UniFi web converter cut the value at the second '='
// and would have produced "a".
type PropertySet struct {
	lines  []string
	values map[string]string
}

// NewPropertySet builds the lookup table for one conversion
func NewPropertySet(lines []string) *PropertySet {
	values := make(map[string]string, len(lines))
	for _, line := range lines {
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		if _, exists := values[key]; !exists {
			values[key] = value
		}
	}
	return &PropertySet{lines: lines, values: values}
}

// Lookup returns the value for key and whether the key is present
func (p *PropertySet) Lookup(key string) (string, bool) {
	value, ok := p.values[key]
	return value, ok
}

// Value returns the value for key, or "" when absent
func (p *PropertySet) Value(key string) string {
	return p.values[key]
}

// Lines returns the property lines in source order
func (p *PropertySet) Lines() []string {
	return p.lines
}

// Len returns the number of distinct keys
func (p *PropertySet) Len() int {
	return len(p.values)
}

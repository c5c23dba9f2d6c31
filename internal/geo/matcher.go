package geo

import "github.com/cloudflare/ahocorasick"

// Matcher finds the region for a free-text location. The original scan
// checked each known place as a substring of the location, first match in
// list order winning; the automaton keeps those semantics without the
// O(locations x places) cost.
type Matcher struct {
	lookup *Lookup
	ac     *ahocorasick.Matcher
}

func NewMatcher(lookup *Lookup) *Matcher {
	return &Matcher{
		lookup: lookup,
		ac:     ahocorasick.NewStringMatcher(lookup.Places),
	}
}

// Match returns the region code for a location string. The first place in
// list order that appears as a substring wins; a place without a region
// mapping stands in for its own code. ok is false when nothing matched.
func (m *Matcher) Match(location string) (string, bool) {
	if location == "" {
		return "", false
	}

	hits := m.ac.Match([]byte(location))
	if len(hits) == 0 {
		return "", false
	}

	best := hits[0]
	for _, h := range hits[1:] {
		if h < best {
			best = h
		}
	}

	place := m.lookup.Places[best]
	if code, ok := m.lookup.PlaceToRegion[place]; ok {
		return code, true
	}
	return place, true
}

// RegionFullName resolves a region code back to its canonical name.
func (m *Matcher) RegionFullName(code string) (string, bool) {
	name, ok := m.lookup.RegionName[code]
	return name, ok
}

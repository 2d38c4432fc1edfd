package utils

import "strings"

// CodeSet tracks country codes in insertion order to avoid duplicates
type CodeSet struct {
	seen  map[string]struct{}
	order []string
}

// NewCodeSet creates a set seeded with codes, normalized to upper case
func NewCodeSet(codes ...string) *CodeSet {
	s := &CodeSet{seen: make(map[string]struct{})}
	for _, c := range codes {
		s.Add(c)
	}
	return s
}

// Add returns true if the code is new, false if duplicate or blank
func (s *CodeSet) Add(code string) bool {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return false
	}
	if _, exists := s.seen[code]; exists {
		return false
	}
	s.seen[code] = struct{}{}
	s.order = append(s.order, code)
	return true
}

// Has reports whether code was added
func (s *CodeSet) Has(code string) bool {
	_, ok := s.seen[code]
	return ok
}

// List returns the codes in insertion order
func (s *CodeSet) List() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Count returns the number of tracked codes
func (s *CodeSet) Count() int {
	return len(s.order)
}

package nameset

import (
	"strings"

	"golang.org/x/exp/slices"
)

// Set holds unique names exactly as trimmed from their source.
type Set struct {
	items map[string]struct{}
}

func New() *Set {
	return &Set{items: make(map[string]struct{})}
}

// Add trims name and stores it. It reports whether the set grew; blank names
// and names already present are ignored.
func (s *Set) Add(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	if _, exists := s.items[name]; exists {
		return false
	}
	s.items[name] = struct{}{}
	return true
}

func (s *Set) Contains(name string) bool {
	_, exists := s.items[strings.TrimSpace(name)]
	return exists
}

func (s *Set) Len() int {
	return len(s.items)
}

// Sorted returns the names in ascending byte order.
func (s *Set) Sorted() []string {
	names := make([]string, 0, len(s.items))
	for name := range s.items {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

package storage

// CategorySet is the closed set of valid storage categories ("systems").
// It is fixed at construction from configuration and never mutated at runtime,
// so it is safe for concurrent use without locking.
type CategorySet struct {
	ordered []string
	members map[string]struct{}
}

// NewCategorySet builds a registry from the configured category names,
// preserving order and dropping duplicates.
func NewCategorySet(names []string) *CategorySet {
	s := &CategorySet{members: make(map[string]struct{}, len(names))}
	for _, n := range names {
		if _, ok := s.members[n]; ok || n == "" {
			continue
		}
		s.members[n] = struct{}{}
		s.ordered = append(s.ordered, n)
	}
	return s
}

// IsValid reports whether name is a registered category.
func (s *CategorySet) IsValid(name string) bool {
	_, ok := s.members[name]
	return ok
}

// List returns the categories in configuration order. The returned slice is a
// copy; callers may not mutate the registry through it.
func (s *CategorySet) List() []string {
	out := make([]string, len(s.ordered))
	copy(out, s.ordered)
	return out
}

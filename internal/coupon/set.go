package coupon

// codeSet implements CodeSet with a map for O(1) lookups plus a slice
// preserving insertion order for deterministic bulk creation.
type codeSet struct {
	seen  map[string]struct{}
	codes []string
}

// NewCodeSet creates an empty code set with the given capacity hint.
func NewCodeSet(capacity int) *codeSet {
	return &codeSet{
		seen:  make(map[string]struct{}, capacity),
		codes: make([]string, 0, capacity),
	}
}

// Contains checks if a code exists in the set.
func (s *codeSet) Contains(code string) bool {
	_, exists := s.seen[code]
	return exists
}

// Codes returns the codes in insertion order.
func (s *codeSet) Codes() []string {
	return s.codes
}

// Size returns the number of codes in the set.
func (s *codeSet) Size() int {
	return len(s.codes)
}

// Add inserts a code, ignoring duplicates.
func (s *codeSet) Add(code string) {
	if _, exists := s.seen[code]; exists {
		return
	}
	s.seen[code] = struct{}{}
	s.codes = append(s.codes, code)
}

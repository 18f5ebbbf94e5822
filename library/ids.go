package library

import "fmt"

// sequence hands out ids of the form <prefix><4-digit counter>. Counters only
// move forward, so an id is never reused after its entity is removed.
type sequence struct {
	prefix string
	nextID int
}

func newSequence(prefix string) *sequence {
	return &sequence{prefix: prefix, nextID: 1}
}

func (s *sequence) next() string {
	id := fmt.Sprintf("%s%04d", s.prefix, s.nextID)
	s.nextID++
	return id
}

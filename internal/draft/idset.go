package draft

import (
	"sort"
	"strconv"
	"strings"
)

// IdSet is a set of integer identifiers (categories, allergens, appliances).
// The wire format is a comma-joined string such as "3,7,12".
type IdSet struct {
	ids map[int]struct{}
}

// NewIdSet builds a set from ids, dropping duplicates.
func NewIdSet(ids ...int) IdSet {
	s := IdSet{ids: make(map[int]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// FromWireFormat parses a comma-joined id list. Blank and non-numeric tokens
// are skipped; server records occasionally carry trailing commas.
func FromWireFormat(wire string) IdSet {
	s := NewIdSet()
	for _, token := range strings.Split(wire, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		id, err := strconv.Atoi(token)
		if err != nil {
			continue
		}
		s.ids[id] = struct{}{}
	}
	return s
}

// ToWireFormat joins the ids in ascending order. The empty set encodes as "".
func (s IdSet) ToWireFormat() string {
	ints := s.Ints()
	parts := make([]string, len(ints))
	for i, id := range ints {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// Ints returns the ids in ascending order.
func (s IdSet) Ints() []int {
	out := make([]int, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

func (s IdSet) Len() int {
	return len(s.ids)
}

func (s IdSet) Contains(id int) bool {
	_, ok := s.ids[id]
	return ok
}

// With returns a copy of the set including id.
func (s IdSet) With(id int) IdSet {
	out := NewIdSet(s.Ints()...)
	out.ids[id] = struct{}{}
	return out
}

// Toggle returns a copy with id added when absent and removed when present.
func (s IdSet) Toggle(id int) IdSet {
	out := NewIdSet(s.Ints()...)
	if s.Contains(id) {
		delete(out.ids, id)
	} else {
		out.ids[id] = struct{}{}
	}
	return out
}

// Equal reports whether both sets hold the same ids.
func (s IdSet) Equal(other IdSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for id := range s.ids {
		if !other.Contains(id) {
			return false
		}
	}
	return true
}

func (s IdSet) String() string {
	return "[" + s.ToWireFormat() + "]"
}

// IsZero reports whether the set is empty; form encoders use it for omitempty.
func (s IdSet) IsZero() bool {
	return s.Len() == 0
}

package sample

import "errors"

var (
	// ErrSealed is returned when a sealed store is mutated.
	ErrSealed = errors.New("sample store is sealed")
	// ErrNothingToRollback is returned by Rollback on an empty store.
	ErrNothingToRollback = errors.New("sample store is empty")
)

// Store is the ordered, append-only sample set of one zone.
type Store struct {
	zone   string
	items  []Item
	sealed bool
}

// NewStore creates an empty store for zone.
func NewStore(zone string) *Store {
	return &Store{zone: zone, items: make([]Item, 0, 64)}
}

// Zone returns the zone name the store belongs to.
func (s *Store) Zone() string { return s.zone }

// Len returns the number of items.
func (s *Store) Len() int { return len(s.items) }

// Append adds a finished item.
func (s *Store) Append(it Item) error {
	if s.sealed {
		return ErrSealed
	}
	s.items = append(s.items, it)
	return nil
}

// Add runs build and appends its item only if build succeeds, so a failed
// construction never leaves a partial record behind.
func (s *Store) Add(build func() (Item, error)) error {
	if s.sealed {
		return ErrSealed
	}
	it, err := build()
	if err != nil {
		return err
	}
	return s.Append(it)
}

// Rollback removes the most recently added item.
func (s *Store) Rollback() error {
	if s.sealed {
		return ErrSealed
	}
	if len(s.items) == 0 {
		return ErrNothingToRollback
	}
	s.items[len(s.items)-1] = Item{}
	s.items = s.items[:len(s.items)-1]
	return nil
}

// Seal commits the store to reporting. Later mutations fail.
func (s *Store) Seal() { s.sealed = true }

// Sealed reports whether Seal was called.
func (s *Store) Sealed() bool { return s.sealed }

// Items returns a copy of the items in insertion order.
func (s *Store) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Count returns how many items carry kind k.
func (s *Store) Count(k Kind) int {
	n := 0
	for _, it := range s.items {
		if it.Kind == k {
			n++
		}
	}
	return n
}

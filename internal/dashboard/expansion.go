package dashboard

import (
	"sort"
	"sync"
)

// Expansion is the set of turno cards the user has opened. It is keyed by
// turno id, so it outlives the refreshes that replace the cards.
type Expansion struct {
	mu  sync.Mutex
	ids map[uint]struct{}
}

func NewExpansion() *Expansion {
	return &Expansion{ids: make(map[uint]struct{})}
}

// Toggle flips id and returns its new state.
func (e *Expansion) Toggle(id uint) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.ids[id]; ok {
		delete(e.ids, id)
		return false
	}
	e.ids[id] = struct{}{}
	return true
}

func (e *Expansion) IsExpanded(id uint) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.ids[id]
	return ok
}

// Expanded returns the open ids in ascending order.
func (e *Expansion) Expanded() []uint {
	e.mu.Lock()
	out := make([]uint, 0, len(e.ids))
	for id := range e.ids {
		out = append(out, id)
	}
	e.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (e *Expansion) Clear() {
	e.mu.Lock()
	e.ids = make(map[uint]struct{})
	e.mu.Unlock()
}

// Package ledger tracks which catalog item ids a visitor selected. A Ledger is an
// insertion-ordered set; Cart and Wishlist wrap it with their own add semantics.
package ledger

import "sync"

// Ledger is an insertion-ordered set of item ids. The zero value is ready to use.
type Ledger struct {
	mu  sync.Mutex
	ids []int
}

// Toggle removes id when present and appends it otherwise. It reports membership after
// the call.
func (l *Ledger) Toggle(id int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.indexOf(id); i >= 0 {
		l.ids = append(l.ids[:i], l.ids[i+1:]...)
		return false
	}
	l.ids = append(l.ids, id)
	return true
}

// Contains reports membership.
func (l *Ledger) Contains(id int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.indexOf(id) >= 0
}

// Count returns the number of members.
func (l *Ledger) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ids)
}

// IDs returns a copy of the members in insertion order.
func (l *Ledger) IDs() []int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]int(nil), l.ids...)
}

func (l *Ledger) addIfAbsent(id int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.indexOf(id) >= 0 {
		return false
	}
	l.ids = append(l.ids, id)
	return true
}

func (l *Ledger) indexOf(id int) int {
	for i, v := range l.ids {
		if v == id {
			return i
		}
	}
	return -1
}

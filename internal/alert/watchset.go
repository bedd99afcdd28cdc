package alert

import (
	"sort"
	"sync"
)

// WatchSet is a mutable symbol set with a publish-on-mutate callback, the
// core-side stand-in for a UI-bound observable collection.
type WatchSet struct {
	mu       sync.Mutex
	items    map[string]struct{}
	onChange func()
}

// NewWatchSet returns an empty set.
func NewWatchSet() *WatchSet {
	return &WatchSet{items: make(map[string]struct{})}
}

// OnChange registers a callback fired after every mutation. Only one
// callback is kept; nil unregisters.
func (w *WatchSet) OnChange(fn func()) {
	w.mu.Lock()
	w.onChange = fn
	w.mu.Unlock()
}

// Add inserts symbol if absent and reports whether the set changed.
func (w *WatchSet) Add(symbol string) bool {
	w.mu.Lock()
	if _, ok := w.items[symbol]; ok {
		w.mu.Unlock()
		return false
	}
	w.items[symbol] = struct{}{}
	fn := w.onChange
	w.mu.Unlock()
	if fn != nil {
		fn()
	}
	return true
}

// Remove deletes symbol if present and reports whether the set changed.
func (w *WatchSet) Remove(symbol string) bool {
	w.mu.Lock()
	if _, ok := w.items[symbol]; !ok {
		w.mu.Unlock()
		return false
	}
	delete(w.items, symbol)
	fn := w.onChange
	w.mu.Unlock()
	if fn != nil {
		fn()
	}
	return true
}

// Clear empties the set.
func (w *WatchSet) Clear() {
	w.mu.Lock()
	changed := len(w.items) > 0
	w.items = make(map[string]struct{})
	fn := w.onChange
	w.mu.Unlock()
	if changed && fn != nil {
		fn()
	}
}

// Contains reports membership.
func (w *WatchSet) Contains(symbol string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.items[symbol]
	return ok
}

// Items returns a sorted snapshot of the set.
func (w *WatchSet) Items() []string {
	w.mu.Lock()
	out := make([]string, 0, len(w.items))
	for s := range w.items {
		out = append(out, s)
	}
	w.mu.Unlock()
	sort.Strings(out)
	return out
}

// Len reports the set size.
func (w *WatchSet) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}

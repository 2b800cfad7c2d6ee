package oledmenu

import "unicode/utf8"

// ItemMode tells whether the menu owns its item texts or borrows the caller's slice.
type ItemMode uint8

const (
	// ItemsOwned holds a private copy made by SetItems.
	ItemsOwned ItemMode = iota
	// ItemsBorrowed references the slice given to BorrowItems; the caller
	// keeps it alive and may rewrite entries in place (then MarkBodyDirty).
	ItemsBorrowed
)

func (m ItemMode) String() string {
	if m == ItemsBorrowed {
		return "borrowed"
	}
	return "owned"
}

// itemStore holds the item texts and the selection.
// Invariant: selected < len(list), or selected == 0 when the list is empty.
type itemStore struct {
	mode     ItemMode
	list     []string
	selected int
}

func (s *itemStore) replace(items []string, mode ItemMode) {
	s.mode = mode
	if mode == ItemsOwned {
		s.list = append([]string(nil), items...)
	} else {
		s.list = items
	}
	s.selected = 0
}

func (s *itemStore) clear() {
	s.list = nil
	s.selected = 0
}

func (s *itemStore) len() int {
	return len(s.list)
}

func (s *itemStore) at(i int) string {
	if i < 0 || i >= len(s.list) {
		return ""
	}
	return s.list[i]
}

// SetItems replaces the items with a private copy of items and selects the first one.
func (m *Menu) SetItems(items []string) {
	m.replaceItems(items, ItemsOwned)
}

// BorrowItems replaces the items with items itself, without copying, and
// selects the first one.
func (m *Menu) BorrowItems(items []string) {
	m.replaceItems(items, ItemsBorrowed)
}

func (m *Menu) replaceItems(items []string, mode ItemMode) {
	m.cancelAnimations()
	m.items.replace(items, mode)
	m.resetMarquees(m.clock.Millis())
	m.MarkBodyDirty()
	m.log.Debug("items replaced", "count", len(items), "mode", mode)
}

// ClearItems removes every item.
func (m *Menu) ClearItems() {
	m.cancelAnimations()
	m.items.clear()
	m.resetMarquees(m.clock.Millis())
	m.MarkBodyDirty()
}

// ItemCount returns the number of items.
func (m *Menu) ItemCount() int {
	return m.items.len()
}

// ItemMode returns how the current items are held.
func (m *Menu) ItemMode() ItemMode {
	return m.items.mode
}

// Item returns the text of item i, or "" when i is out of range.
func (m *Menu) Item(i int) string {
	return m.items.at(i)
}

// Selection returns the selected index (0 for an empty list).
func (m *Menu) Selection() int {
	return m.items.selected
}

// CurrentItem returns the selected text, or "" for an empty list.
func (m *Menu) CurrentItem() string {
	return m.items.at(m.items.selected)
}

// clipRunes returns the first n characters of s.
func clipRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

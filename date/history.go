package date

import (
	"iter"
	"sort"
)

type entry[T any] struct {
	on    Date
	value T
}

// History is a series of values indexed by day, kept in chronological order
// with at most one value per day. Its zero value is an empty series, and a nil
// *History reads as empty.
type History[T any] struct {
	entries []entry[T]
}

// search returns the position of on, or where it would be inserted.
func (h *History[T]) search(on Date) (int, bool) {
	if h == nil {
		return 0, false
	}
	i := sort.Search(len(h.entries), func(i int) bool { return !h.entries[i].on.Before(on) })
	return i, i < len(h.entries) && h.entries[i].on == on
}

func (h *History[T]) Len() int {
	if h == nil {
		return 0
	}
	return len(h.entries)
}

// Append records v on that day. A value already recorded that day is replaced.
func (h *History[T]) Append(on Date, v T) *History[T] {
	i, found := h.search(on)
	if found {
		h.entries[i].value = v
		return h
	}
	h.entries = append(h.entries, entry[T]{})
	copy(h.entries[i+1:], h.entries[i:])
	h.entries[i] = entry[T]{on, v}
	return h
}

// Get returns the value recorded on that day.
func (h *History[T]) Get(on Date) (v T, ok bool) {
	if i, found := h.search(on); found {
		return h.entries[i].value, true
	}
	return v, false
}

// ValueAsOf returns the value recorded on day, or else the closest one before
// it, with the day it was recorded on.
func (h *History[T]) ValueAsOf(day Date) (on Date, v T, ok bool) {
	i, found := h.search(day)
	if !found {
		i--
	}
	if i < 0 {
		return on, v, false
	}
	e := h.entries[i]
	return e.on, e.value, true
}

// Values iterates over the series in chronological order.
func (h *History[T]) Values() iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		if h == nil {
			return
		}
		for _, e := range h.entries {
			if !yield(e.on, e.value) {
				return
			}
		}
	}
}

package date

import "slices"

// History is a series of daily values kept sorted by day, one value per day.
type History[T float32 | float64] struct {
	days   []Date
	values []T
}

// Len returns the number of days in the history.
func (h *History[T]) Len() int { return len(h.days) }

// First returns the earliest day and its value, zero values when empty.
func (h *History[T]) First() (day Date, value T) {
	if len(h.days) == 0 {
		return Date{}, 0
	}
	return h.days[0], h.values[0]
}

// Latest returns the latest day and its value, zero values when empty.
func (h *History[T]) Latest() (day Date, value T) {
	if len(h.days) == 0 {
		return Date{}, 0
	}
	last := len(h.days) - 1
	return h.days[last], h.values[last]
}

// Append records value on day, replacing the value already recorded that day.
func (h *History[T]) Append(on Date, value T) *History[T] {
	i, found := slices.BinarySearchFunc(h.days, on, Date.Compare)
	if found {
		h.values[i] = value
		return h
	}
	h.days = slices.Insert(h.days, i, on)
	h.values = slices.Insert(h.values, i, value)
	return h
}

// Change returns the relative change, in percent, from the first to the
// latest value. ok is false with less than two days or a first value that is
// not positive.
func (h *History[T]) Change() (change float64, ok bool) {
	if h.Len() < 2 {
		return 0, false
	}
	_, first := h.First()
	_, last := h.Latest()
	if first <= 0 {
		return 0, false
	}
	return float64((last - first) / first * 100), true
}

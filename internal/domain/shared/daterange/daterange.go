package daterange

import "time"

// Day strips the time of day from t, keeping its calendar date, and returns it at UTC midnight.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateRange is a half-open span of days [Start, End).
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ForNights builds the range occupied by a stay of the given length.
func ForNights(start time.Time, nights int) DateRange {
	start = Day(start)
	return DateRange{Start: start, End: start.AddDate(0, 0, nights)}
}

// Nights returns the number of whole days covered by the range.
func (r DateRange) Nights() int {
	return int(r.End.Sub(r.Start).Hours() / 24)
}

// Extend pushes the trailing edge of the range forward by days.
func (r DateRange) Extend(days int) DateRange {
	return DateRange{Start: r.Start, End: r.End.AddDate(0, 0, days)}
}

// Tail returns the days following the range, e.g. a preparation window.
func (r DateRange) Tail(days int) DateRange {
	return DateRange{Start: r.End, End: r.End.AddDate(0, 0, days)}
}

// Overlaps uses strict bounds: a range ending on the day another starts does not overlap it.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Contains reports whether day falls inside [Start, End).
func (r DateRange) Contains(day time.Time) bool {
	return !day.Before(r.Start) && day.Before(r.End)
}

// Days enumerates nights consecutive days starting at start's calendar date.
func Days(start time.Time, nights int) []time.Time {
	if nights <= 0 {
		return []time.Time{}
	}
	first := Day(start)
	out := make([]time.Time, 0, nights)
	for i := 0; i < nights; i++ {
		out = append(out, first.AddDate(0, 0, i))
	}
	return out
}

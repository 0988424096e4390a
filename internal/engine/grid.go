package engine

import (
	"time"

	"github.com/tartampluch/go-monthcal/internal/config"
)

// DaysPerWeek is the width of every matrix row.
const DaysPerWeek = config.GridColumns

// Cell is a single day in the month matrix.
type Cell struct {
	// Date is midnight of the day in the reference date's location.
	Date time.Time

	// Key is the canonical YYYY-MM-DD identity used for event lookups.
	Key string

	// InCurrentMonth is true iff the cell belongs to the reference month.
	InCurrentMonth bool
}

// Week is one row of the matrix. It always holds exactly DaysPerWeek cells.
type Week [DaysPerWeek]Cell

// Matrix is the full grid for one month, including the boundary weeks.
type Matrix struct {
	MonthStart time.Time
	MonthEnd   time.Time
	GridStart  time.Time
	GridEnd    time.Time
	WeekStart  time.Weekday
	Weeks      []Week
}

// Cells returns every cell of the matrix in display order.
func (m Matrix) Cells() []Cell {
	out := make([]Cell, 0, len(m.Weeks)*DaysPerWeek)
	for _, w := range m.Weeks {
		out = append(out, w[:]...)
	}
	return out
}

// BuildMonthMatrix computes the week rows covering the month of ref.
// The walk runs day by day from the start of the week containing the first of the
// month to the end of the week containing the last of the month, so rows always
// tile the range exactly regardless of month length or leading/trailing days.
func BuildMonthMatrix(ref time.Time, weekStart time.Weekday) Matrix {
	monthStart := StartOfMonth(ref)
	monthEnd := EndOfMonth(ref)
	gridStart := StartOfWeek(monthStart, weekStart)
	gridEnd := EndOfWeek(monthEnd, weekStart)

	m := Matrix{
		MonthStart: monthStart,
		MonthEnd:   monthEnd,
		GridStart:  gridStart,
		GridEnd:    gridEnd,
		WeekStart:  weekStart,
	}

	day := gridStart
	for !day.After(gridEnd) {
		var w Week
		for i := 0; i < DaysPerWeek; i++ {
			w[i] = Cell{
				Date:           day,
				Key:            day.Format(config.DateKeyLayout),
				InCurrentMonth: SameMonth(day, monthStart),
			}
			// AddDate on the calendar fields keeps midnight across DST changes.
			day = day.AddDate(0, 0, 1)
		}
		m.Weeks = append(m.Weeks, w)
	}
	return m
}

// -----------------------------------------------------------------------------
// Cell Classification
// -----------------------------------------------------------------------------

// CellState is the display classification of a day cell.
type CellState int

const (
	Normal CellState = iota
	Selected
	Disabled
)

func (s CellState) String() string {
	switch s {
	case Selected:
		return "selected"
	case Disabled:
		return "disabled"
	default:
		return "normal"
	}
}

// Classify returns Disabled for out-of-month cells, Selected when the cell is the
// selected calendar day, Normal otherwise. Disabled takes precedence.
func Classify(cell Cell, selected time.Time) CellState {
	if !cell.InCurrentMonth {
		return Disabled
	}
	if SameDay(cell.Date, selected) {
		return Selected
	}
	return Normal
}

// -----------------------------------------------------------------------------
// Date Arithmetic
// -----------------------------------------------------------------------------

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfMonth returns midnight of the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth returns midnight of the last day of t's month.
func EndOfMonth(t time.Time) time.Time {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns midnight of the first day of the week containing t.
func StartOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	diff := (int(t.Weekday()) - int(weekStart) + DaysPerWeek) % DaysPerWeek
	return StartOfDay(t).AddDate(0, 0, -diff)
}

// EndOfWeek returns midnight of the last day of the week containing t.
func EndOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	return StartOfWeek(t, weekStart).AddDate(0, 0, DaysPerWeek-1)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// SameMonth reports whether a and b fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// AddMonths shifts t by n calendar months, keeping the time of day.
// The day of month is clamped to the target month's length, so
// Jan 31 + 1 month is the last day of February rather than early March.
func AddMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	day := t.Day()
	if last := EndOfMonth(first).Day(); day > last {
		day = last
	}
	return first.AddDate(0, 0, day-1)
}

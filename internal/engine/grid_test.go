package engine_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-monthcal/internal/engine"
)

var allWeekStarts = []time.Weekday{time.Sunday, time.Monday, time.Saturday}

// TestBuildMonthMatrix_Properties walks ten years of months for every supported
// week start and checks the shape and coverage rules of the grid.
func TestBuildMonthMatrix_Properties(t *testing.T) {
	start := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.Local)

	for _, ws := range allWeekStarts {
		weekEnd := (ws + 6) % 7
		for i := 0; i < 120; i++ {
			// Reference mid-month with a time component to prove it is ignored.
			ref := time.Date(start.Year(), start.Month()+time.Month(i), 17, 15, 42, 0, 0, time.Local)

			t.Run(fmt.Sprintf("%s/%s", ws, ref.Format("2006-01")), func(t *testing.T) {
				m := engine.BuildMonthMatrix(ref, ws)
				cells := m.Cells()

				require.NotEmpty(t, m.Weeks)
				assert.Equal(t, 0, len(cells)%7, "cell count must be a multiple of 7")
				assert.Equal(t, ws, cells[0].Date.Weekday(), "first cell starts the week")
				assert.Equal(t, weekEnd, cells[len(cells)-1].Date.Weekday(), "last cell ends the week")
				assert.True(t, cells[0].Date.Equal(m.GridStart))
				assert.True(t, cells[len(cells)-1].Date.Equal(m.GridEnd))

				seen := make(map[int]int)
				for _, c := range cells {
					if c.InCurrentMonth {
						assert.Equal(t, ref.Month(), c.Date.Month())
						seen[c.Date.Day()]++
					} else {
						assert.NotEqual(t, ref.Month(), c.Date.Month())
					}
					assert.Equal(t, c.Date.Format("2006-01-02"), c.Key)
				}

				daysInMonth := m.MonthEnd.Day()
				assert.Len(t, seen, daysInMonth)
				for d := 1; d <= daysInMonth; d++ {
					assert.Equal(t, 1, seen[d], "day %d must appear exactly once", d)
				}
			})
		}
	}
}

func TestBuildMonthMatrix_March2024(t *testing.T) {
	ref := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC) // Friday

	tests := []struct {
		name      string
		weekStart time.Weekday
		wantStart string
		wantEnd   string
		wantRows  int
	}{
		{"Sunday start", time.Sunday, "2024-02-25", "2024-04-06", 6},
		{"Monday start", time.Monday, "2024-02-26", "2024-03-31", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := engine.BuildMonthMatrix(ref, tt.weekStart)

			assert.Equal(t, tt.wantStart, m.Weeks[0][0].Key)
			assert.Equal(t, tt.wantEnd, m.Weeks[len(m.Weeks)-1][6].Key)
			assert.Len(t, m.Weeks, tt.wantRows)
			assert.Equal(t, "2024-03-01", m.MonthStart.Format("2006-01-02"))
			assert.Equal(t, "2024-03-31", m.MonthEnd.Format("2006-01-02"))
		})
	}
}

// TestBuildMonthMatrix_NoLeadingOrTrailingDays covers a month that is exactly
// four weeks long and aligned on the week start.
func TestBuildMonthMatrix_NoLeadingOrTrailingDays(t *testing.T) {
	ref := time.Date(2015, time.February, 10, 0, 0, 0, 0, time.UTC)
	m := engine.BuildMonthMatrix(ref, time.Sunday)

	assert.Len(t, m.Weeks, 4)
	for _, c := range m.Cells() {
		assert.True(t, c.InCurrentMonth)
	}
}

func TestBuildMonthMatrix_LeapFebruary(t *testing.T) {
	m := engine.BuildMonthMatrix(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), time.Monday)
	assert.Equal(t, 29, m.MonthEnd.Day())

	m = engine.BuildMonthMatrix(time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC), time.Monday)
	assert.Equal(t, 28, m.MonthEnd.Day())
}

// -----------------------------------------------------------------------------
// Classification
// -----------------------------------------------------------------------------

func TestClassify(t *testing.T) {
	day := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	inMonth := engine.Cell{Date: day, Key: "2024-03-15", InCurrentMonth: true}
	outMonth := engine.Cell{Date: day, Key: "2024-03-15", InCurrentMonth: false}

	tests := []struct {
		name     string
		cell     engine.Cell
		selected time.Time
		want     engine.CellState
	}{
		{"Normal", inMonth, day.AddDate(0, 0, 1), engine.Normal},
		{"Selected ignores time of day", inMonth, day.Add(18 * time.Hour), engine.Selected},
		{"Disabled", outMonth, day.AddDate(0, 0, 3), engine.Disabled},
		{"Disabled wins over selected", outMonth, day, engine.Disabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.Classify(tt.cell, tt.selected))
		})
	}
}

func TestCellState_String(t *testing.T) {
	assert.Equal(t, "normal", engine.Normal.String())
	assert.Equal(t, "selected", engine.Selected.String())
	assert.Equal(t, "disabled", engine.Disabled.String())
}

// -----------------------------------------------------------------------------
// Date Arithmetic
// -----------------------------------------------------------------------------

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		n    int
		want string
	}{
		{"Plain next", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), 1, "2024-04-15"},
		{"Plain previous", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), -1, "2024-02-15"},
		{"Clamp to leap February", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), 1, "2024-02-29"},
		{"Clamp to short February", time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC), 1, "2023-02-28"},
		{"Clamp backwards", time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), -1, "2024-02-29"},
		{"Year forward", time.Date(2024, 12, 10, 0, 0, 0, 0, time.UTC), 1, "2025-01-10"},
		{"Year backward", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), -1, "2023-12-10"},
		{"Clamp to 30 days", time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), -1, "2024-04-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.AddMonths(tt.in, tt.n).Format("2006-01-02"))
		})
	}
}

func TestAddMonths_KeepsTimeOfDay(t *testing.T) {
	in := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	out := engine.AddMonths(in, 1)
	assert.Equal(t, 9, out.Hour())
	assert.Equal(t, 30, out.Minute())
}

func TestStartAndEndOfWeek(t *testing.T) {
	wed := time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC) // Wednesday

	assert.Equal(t, "2024-03-10", engine.StartOfWeek(wed, time.Sunday).Format("2006-01-02"))
	assert.Equal(t, "2024-03-16", engine.EndOfWeek(wed, time.Sunday).Format("2006-01-02"))
	assert.Equal(t, "2024-03-11", engine.StartOfWeek(wed, time.Monday).Format("2006-01-02"))
	assert.Equal(t, "2024-03-17", engine.EndOfWeek(wed, time.Monday).Format("2006-01-02"))
	assert.Equal(t, "2024-03-09", engine.StartOfWeek(wed, time.Saturday).Format("2006-01-02"))

	// A date already on the week start maps to itself.
	sun := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.True(t, engine.StartOfWeek(sun, time.Sunday).Equal(sun))
}

func TestSameDayAndMonth(t *testing.T) {
	a := time.Date(2024, 3, 15, 0, 0, 1, 0, time.UTC)
	b := time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC)

	assert.True(t, engine.SameDay(a, b))
	assert.False(t, engine.SameDay(a, b.AddDate(0, 0, 1)))
	assert.True(t, engine.SameMonth(a, b.AddDate(0, 0, 10)))
	assert.False(t, engine.SameMonth(a, b.AddDate(1, 0, 0)))
}

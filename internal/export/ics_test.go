package export_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-monthcal/internal/config"
	"github.com/tartampluch/go-monthcal/internal/export"
	"github.com/tartampluch/go-monthcal/internal/store"
)

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

var fixedTime = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func decode(t *testing.T, data []byte) *ical.Calendar {
	t.Helper()
	cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
	require.NoError(t, err)
	return cal
}

func TestRender_AllDayEvents(t *testing.T) {
	gen := &export.Generator{Clock: MockClock{CurrentTime: fixedTime}}

	data, err := gen.Render(store.Events{
		"2024-03-16": {"Gym"},
		"2024-03-15": {"Dentist", "Lunch"},
		"2024-03-17": {},
	})
	require.NoError(t, err)

	cal := decode(t, data)
	assert.Equal(t, config.ICalProdid, cal.Props.Get(config.PropProdid).Value)
	assert.Equal(t, config.ICalCalName, cal.Props.Get(config.PropXWRCalName).Value)

	events := cal.Events()
	require.Len(t, events, 3, "one VEVENT per event, empty days contribute none")

	var summaries []string
	for _, e := range events {
		summaries = append(summaries, e.Props.Get(config.PropSummary).Value)
	}
	assert.Equal(t, []string{"Dentist", "Lunch", "Gym"}, summaries, "keys ascending, list order kept")

	first := events[0]
	start := first.Props.Get(config.PropDTStart)
	assert.Equal(t, "20240315", start.Value)
	assert.Equal(t, string(ical.ValueDate), start.Params.Get(ical.ParamValue))
	assert.Equal(t, "20240316", first.Props.Get(config.PropDTEnd).Value)
	assert.Equal(t, "20240315T100000Z", first.Props.Get(config.PropDTStamp).Value)
	assert.Equal(t, export.EventUID("2024-03-15", 0, "Dentist"), first.Props.Get(config.PropUID).Value)
}

func TestRender_EmptyReturnsStub(t *testing.T) {
	gen := &export.Generator{Clock: MockClock{CurrentTime: fixedTime}}

	for _, events := range []store.Events{nil, {}, {"2024-03-15": {}}} {
		data, err := gen.Render(events)
		require.NoError(t, err)
		assert.Equal(t, config.StubVCalendar, string(data))
		decode(t, data)
	}
}

func TestRender_SkipsMalformedKeys(t *testing.T) {
	gen := &export.Generator{Clock: MockClock{CurrentTime: fixedTime}}

	data, err := gen.Render(store.Events{
		"not-a-date": {"lost"},
		"2024-02-29": {"Leap"},
	})
	require.NoError(t, err)

	events := decode(t, data).Events()
	require.Len(t, events, 1)
	assert.Equal(t, "Leap", events[0].Props.Get(config.PropSummary).Value)
	assert.Equal(t, "20240301", events[0].Props.Get(config.PropDTEnd).Value)
}

func TestRender_Deterministic(t *testing.T) {
	gen := &export.Generator{Clock: MockClock{CurrentTime: fixedTime}}
	events := store.Events{"2024-03-15": {"a", "b"}, "2023-12-31": {"NYE"}, "2025-01-01": {"c"}}

	first, err := gen.Render(events)
	require.NoError(t, err)
	second, err := gen.Render(events.Clone())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRender_EscapesText(t *testing.T) {
	gen := &export.Generator{Clock: MockClock{CurrentTime: fixedTime}}

	data, err := gen.Render(store.Events{"2024-03-15": {"Call Bob, Alice; bring notes"}})
	require.NoError(t, err)

	assert.True(t, strings.Contains(string(data), `Call Bob\, Alice\; bring notes`))
	events := decode(t, data).Events()
	text, err := events[0].Props.Text(config.PropSummary)
	require.NoError(t, err)
	assert.Equal(t, "Call Bob, Alice; bring notes", text)
}

func TestEventUID(t *testing.T) {
	uid := export.EventUID("2024-03-15", 0, "Dentist")

	assert.Equal(t, uid, export.EventUID("2024-03-15", 0, "Dentist"), "stable across renders")
	assert.True(t, strings.HasSuffix(uid, "@"+config.ICalDomain))
	assert.Len(t, strings.TrimSuffix(uid, "@"+config.ICalDomain), config.UIDHashLength*2)

	assert.NotEqual(t, uid, export.EventUID("2024-03-15", 1, "Dentist"))
	assert.NotEqual(t, uid, export.EventUID("2024-03-16", 0, "Dentist"))
	assert.NotEqual(t, uid, export.EventUID("2024-03-15", 0, "Dentist 3pm"))
}

func TestNewGenerator_UsesRealClock(t *testing.T) {
	before := time.Now().UTC().Add(-time.Second)

	data, err := export.NewGenerator().Render(store.Events{"2024-03-15": {"x"}})
	require.NoError(t, err)

	stamp, err := decode(t, data).Events()[0].Props.DateTime(config.PropDTStamp, time.UTC)
	require.NoError(t, err)
	assert.False(t, stamp.Before(before.Truncate(time.Second)))
}

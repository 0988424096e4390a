package ui

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-monthcal/internal/config"
	"github.com/tartampluch/go-monthcal/internal/engine"
	"github.com/tartampluch/go-monthcal/internal/server"
	"github.com/tartampluch/go-monthcal/internal/store"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// MockPrompter scripts the text prompt collaborator.
type MockPrompter struct {
	mock.Mock
}

func (m *MockPrompter) Prompt(label, initial string) (string, bool) {
	args := m.Called(label, initial)
	return args.String(0), args.Bool(1)
}

// MockConfirmer scripts the confirmation collaborator.
type MockConfirmer struct {
	mock.Mock
}

func (m *MockConfirmer) Confirm(label string) bool {
	return m.Called(label).Bool(0)
}

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m *MockClock) Now() time.Time {
	return m.CurrentTime
}

// -----------------------------------------------------------------------------
// Test Setup Helper
// -----------------------------------------------------------------------------

const feedToken = "test-token"

type testEnv struct {
	app       *MonthCalApp
	blob      *store.MemoryBlob
	prompter  *MockPrompter
	confirmer *MockConfirmer
	clock     *MockClock
	cancel    context.CancelFunc
}

// setupTestApp initializes a headless Fyne app with mocked collaborators.
// March 15th 2024, English, weeks starting on Sunday.
func setupTestApp(t *testing.T, seed string) *testEnv {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	a.Preferences().SetString(config.PrefLanguage, "en")
	a.Preferences().SetString(config.PrefWeekStart, config.WeekStartSunday)

	blob := store.NewMemoryBlob()
	if seed != "" {
		blob.Put(config.EventsBlobKey, seed)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	env := &testEnv{
		blob:      blob,
		prompter:  new(MockPrompter),
		confirmer: new(MockConfirmer),
		clock:     &MockClock{CurrentTime: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)},
		cancel:    cancel,
	}
	env.app = NewMonthCalApp(a, ctx, Options{
		Store:     store.NewEventStore(blob),
		Server:    server.NewCalendarServer("0", feedToken),
		Clock:     env.clock,
		Prompter:  env.prompter,
		Confirmer: env.confirmer,
	})

	// Manually load I18n as Run() is skipped
	env.app.SetupI18n()
	return env
}

func (e *testEnv) feed(t *testing.T) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/?token="+feedToken, nil)
	w := httptest.NewRecorder()
	e.app.Server.ServeHTTP(w, req)
	body, err := io.ReadAll(w.Result().Body)
	require.NoError(t, err)
	return w.Code, string(body)
}

func (e *testEnv) cellFor(t *testing.T, key string) dayCell {
	t.Helper()
	require.NotNil(t, e.app.view)
	for _, c := range e.app.view.cells {
		if c.cell.Key == key {
			return c
		}
	}
	t.Fatalf("no cell for %s", key)
	return dayCell{}
}

// -----------------------------------------------------------------------------
// Localization Tests
// -----------------------------------------------------------------------------

func TestLocalization_Switching(t *testing.T) {
	env := setupTestApp(t, "")
	app := env.app

	assert.Equal(t, "Save", app.GetMsg(config.TKeyBtnSave))
	assert.Equal(t, "Today: 03/15/2024", app.TodayText(env.clock.Now()))

	app.Preferences.SetString(config.PrefLanguage, "fr")
	app.UpdateLocalizer()

	assert.Equal(t, "Enregistrer", app.GetMsg(config.TKeyBtnSave))
	assert.Equal(t, "Aujourd'hui : 15/03/2024", app.TodayText(env.clock.Now()))
	assert.Equal(t, "Mars 2024", engine.MonthLabel(env.clock.Now(), app.Names()))
}

func TestLocalization_ControllerLabels(t *testing.T) {
	env := setupTestApp(t, "")
	env.app.Preferences.SetString(config.PrefLanguage, "fr")
	env.app.UpdateLocalizer()

	env.app.Controller.SelectDay(env.clock.Now())
	env.prompter.On("Prompt", "Nouvel événement :", "").Return("", false).Once()

	env.app.Controller.AddEvent()
	env.prompter.AssertExpectations(t)
}

func TestLocalization_MissingKeyFallsBack(t *testing.T) {
	env := setupTestApp(t, "")

	assert.Equal(t, "unknown_key", env.app.GetMsg("unknown_key"))
	assert.Equal(t, "fallback", env.app.msgOr("unknown_key", "fallback"))
}

func TestNames(t *testing.T) {
	env := setupTestApp(t, "")

	names := env.app.Names()
	assert.Equal(t, "March", names.Months[2])
	assert.Equal(t, "Su", names.Weekdays[time.Sunday])
	assert.Equal(t, "March 2024", engine.MonthLabel(env.clock.Now(), names))
	assert.Equal(t, [7]string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}, engine.WeekdayLabels(time.Monday, names))
}

func TestWeekStart_Preference(t *testing.T) {
	env := setupTestApp(t, "")
	app := env.app

	tests := []struct {
		pref string
		want time.Weekday
	}{
		{config.WeekStartSunday, time.Sunday},
		{config.WeekStartMonday, time.Monday},
		{config.WeekStartSaturday, time.Saturday},
		{"bogus", engine.WeekStartFor(app.localeTag())},
		{config.WeekStartAuto, engine.WeekStartFor(app.localeTag())},
	}

	for _, tt := range tests {
		t.Run(tt.pref, func(t *testing.T) {
			app.Preferences.SetString(config.PrefWeekStart, tt.pref)
			assert.Equal(t, tt.want, app.WeekStart())
		})
	}
}

// -----------------------------------------------------------------------------
// Main Window Tests
// -----------------------------------------------------------------------------

func TestMainWindow_Render(t *testing.T) {
	env := setupTestApp(t, `{"2024-03-20":["Gym"]}`)
	env.app.ShowMainWindow()
	v := env.app.view
	require.NotNil(t, v)

	assert.Equal(t, "March 2024", v.monthLabel.Text)
	assert.Equal(t, "Today: 03/15/2024", v.todayLabel.Text)
	require.Len(t, v.cells, 42, "Sunday start: Feb 25 to Apr 6")
	assert.Equal(t, "2024-02-25", v.cells[0].cell.Key)
	assert.Equal(t, "2024-04-06", v.cells[41].cell.Key)

	first := v.weekdayRow.Objects[0].(*widget.Label)
	assert.Equal(t, "Su", first.Text)

	selected := env.cellFor(t, "2024-03-15")
	assert.Equal(t, engine.Selected, selected.state)
	assert.Equal(t, widget.HighImportance, selected.button.Importance)

	outside := env.cellFor(t, "2024-02-25")
	assert.Equal(t, engine.Disabled, outside.state)
	assert.Equal(t, widget.LowImportance, outside.button.Importance)

	assert.Equal(t, "20 "+config.EventIndicator, env.cellFor(t, "2024-03-20").button.Text)
	assert.Equal(t, "21", env.cellFor(t, "2024-03-21").button.Text)
}

func TestMainWindow_MondayStart(t *testing.T) {
	env := setupTestApp(t, "")
	env.app.Preferences.SetString(config.PrefWeekStart, config.WeekStartMonday)
	env.app.ShowMainWindow()
	v := env.app.view

	require.Len(t, v.cells, 35)
	assert.Equal(t, "2024-02-26", v.cells[0].cell.Key)
	assert.Equal(t, "2024-03-31", v.cells[34].cell.Key)
}

func TestMainWindow_Navigation(t *testing.T) {
	env := setupTestApp(t, "")
	env.app.ShowMainWindow()
	v := env.app.view

	test.Tap(v.nextBtn)
	assert.Equal(t, "April 2024", v.monthLabel.Text)

	test.Tap(v.prevBtn)
	test.Tap(v.prevBtn)
	assert.Equal(t, "February 2024", v.monthLabel.Text)

	// The selected day is not in February: no cell is highlighted.
	for _, c := range v.cells {
		assert.NotEqual(t, engine.Selected, c.state, c.cell.Key)
	}
}

// -----------------------------------------------------------------------------
// Events Window Tests
// -----------------------------------------------------------------------------

func TestSelectDay_OpensEventsWindow(t *testing.T) {
	env := setupTestApp(t, `{"2024-03-20":["Gym","Dinner"]}`)
	env.app.ShowMainWindow()

	test.Tap(env.cellFor(t, "2024-03-20").button)

	st := env.app.Controller.State()
	assert.True(t, st.ModalOpen)
	assert.Equal(t, "2024-03-20", st.ModalKey)

	require.NotNil(t, env.app.eventsWindow)
	require.NotNil(t, env.app.events)
	assert.Equal(t, []string{"Gym", "Dinner"}, env.app.events.items)
	assert.Equal(t, "Events on 03/20/2024", env.app.events.title.Text)
	assert.False(t, env.app.events.empty.Visible())

	// The grid follows the selection.
	assert.Equal(t, engine.Selected, env.cellFor(t, "2024-03-20").state)
}

func TestSelectDay_OutOfMonthCell(t *testing.T) {
	env := setupTestApp(t, "")
	env.app.ShowMainWindow()

	test.Tap(env.cellFor(t, "2024-04-02").button)

	st := env.app.Controller.State()
	assert.Equal(t, "2024-04-02", st.ModalKey)
	assert.Equal(t, time.March, st.CurrentMonth.Month())
	assert.True(t, env.app.events.empty.Visible())
}

func TestEventsWindow_Close(t *testing.T) {
	env := setupTestApp(t, "")
	env.app.ShowMainWindow()
	test.Tap(env.cellFor(t, "2024-03-10").button)

	test.Tap(env.app.events.closeBtn)

	st := env.app.Controller.State()
	assert.False(t, st.ModalOpen)
	assert.Equal(t, "2024-03-10", st.ModalKey)
	assert.Nil(t, env.app.eventsWindow)
}

// TestAddEvent_UpdatesGridListAndFeed drives a mutation through the controller
// and checks every consumer of the change listener.
func TestAddEvent_UpdatesGridListAndFeed(t *testing.T) {
	env := setupTestApp(t, "")
	env.app.ShowMainWindow()
	test.Tap(env.cellFor(t, "2024-03-15").button)

	env.prompter.On("Prompt", config.FallbackPromptNew, "").Return("Dentist", true).Once()
	require.True(t, env.app.Controller.AddEvent())
	env.prompter.AssertExpectations(t)

	raw, ok := env.blob.Raw(config.EventsBlobKey)
	require.True(t, ok)
	assert.Equal(t, `{"2024-03-15":["Dentist"]}`, raw)

	assert.Equal(t, []string{"Dentist"}, env.app.events.items)
	assert.Equal(t, "15 "+config.EventIndicator, env.cellFor(t, "2024-03-15").button.Text)

	code, body := env.feed(t)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "SUMMARY:Dentist")
	assert.Contains(t, body, "DTSTART;VALUE=DATE:20240315")
}

func TestDeleteEvent_Declined(t *testing.T) {
	env := setupTestApp(t, `{"2024-03-15":["Dentist"]}`)
	env.app.ShowMainWindow()
	test.Tap(env.cellFor(t, "2024-03-15").button)

	env.confirmer.On("Confirm", config.FallbackConfirmDel).Return(false).Once()
	assert.False(t, env.app.Controller.DeleteEvent(0))

	assert.Equal(t, 0, env.blob.Writes())
	assert.Equal(t, []string{"Dentist"}, env.app.events.items)
	env.confirmer.AssertExpectations(t)
}

// -----------------------------------------------------------------------------
// Feed & Rollover Tests
// -----------------------------------------------------------------------------

func TestPublishFeed(t *testing.T) {
	env := setupTestApp(t, "")

	code, _ := env.feed(t)
	assert.Equal(t, http.StatusServiceUnavailable, code, "nothing published yet")

	env.app.publishFeed(store.Events{})
	code, body := env.feed(t)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, config.StubVCalendar, body)
}

func TestPublishFeed_Disabled(t *testing.T) {
	env := setupTestApp(t, "")
	env.app.Server = nil

	assert.NotPanics(t, func() { env.app.publishFeed(store.Events{"2024-03-15": {"x"}}) })
}

func TestRollover(t *testing.T) {
	env := setupTestApp(t, "")
	env.app.ShowMainWindow()

	env.clock.CurrentTime = time.Date(2024, 3, 16, 0, 0, 1, 0, time.UTC)
	env.app.rollover()

	assert.Equal(t, "Today: 03/16/2024", env.app.view.todayLabel.Text)
	assert.Equal(t, "March 2024", env.app.view.monthLabel.Text)

	code, body := env.feed(t)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, strings.HasPrefix(body, "BEGIN:VCALENDAR"))
}

func TestStartStopRollover(t *testing.T) {
	env := setupTestApp(t, "")

	require.NoError(t, env.app.startRollover())
	require.NotNil(t, env.app.cron)
	require.Len(t, env.app.cron.Entries(), 1)

	next := env.app.cron.Entries()[0].Next
	assert.Zero(t, next.Hour())
	assert.Zero(t, next.Minute())

	// Idempotent
	require.NoError(t, env.app.startRollover())
	assert.Len(t, env.app.cron.Entries(), 1)

	env.app.stopRollover()
	assert.Nil(t, env.app.cron)
}

func TestRollover_StopsOnContextCancel(t *testing.T) {
	env := setupTestApp(t, "")
	require.NoError(t, env.app.startRollover())

	env.cancel()

	require.Eventually(t, func() bool {
		env.app.cronMu.Lock()
		defer env.app.cronMu.Unlock()
		return env.app.cron == nil
	}, time.Second, 10*time.Millisecond)
}

func TestLocalization_BeforeSetup(t *testing.T) {
	a := test.NewApp()
	t.Cleanup(a.Quit)
	app := NewMonthCalApp(a, context.Background(), Options{Store: store.NewEventStore(store.NewMemoryBlob())})

	assert.Equal(t, config.TKeyBtnAdd, app.GetMsg(config.TKeyBtnAdd))
	assert.Equal(t, config.FallbackBtnAdd, app.msgOr(config.TKeyBtnAdd, config.FallbackBtnAdd))
}

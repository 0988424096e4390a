package calendar

import (
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/tartampluch/go-monthcal/internal/config"
	"github.com/tartampluch/go-monthcal/internal/engine"
	"github.com/tartampluch/go-monthcal/internal/store"
)

// Direction is a navigation step in months.
type Direction int

const (
	Prev Direction = -1
	Next Direction = 1
)

// State is a snapshot of the controller's view state.
type State struct {
	CurrentMonth time.Time
	SelectedDate time.Time
	ModalOpen    bool
	ModalKey     string

	// Today is the clock reading behind the "Today" line.
	Today time.Time
}

// Deps lists the collaborators injected into the controller.
type Deps struct {
	Store     Store
	Prompter  TextPrompter
	Confirmer Confirmer
	Clock     engine.Clock // Defaults to engine.RealClock
	Labels    Labels       // Empty fields fall back to English texts
}

// Controller drives navigation, selection and the event dialog workflow.
//
// User actions that prompt are serialized by actionMu and may block on the
// prompter for as long as the user takes. mu only guards short reads and writes
// of state and events, so rendering never waits on an open dialog.
type Controller struct {
	actionMu sync.Mutex
	mu       sync.Mutex

	store     Store
	prompter  TextPrompter
	confirmer Confirmer
	clock     engine.Clock
	labels    Labels
	log       *slog.Logger

	state     State
	events    store.Events
	listeners []func(store.Events)
}

// New builds a controller in its initial state (today displayed and selected,
// dialog closed) and hydrates the events from the store.
func New(deps Deps) *Controller {
	if deps.Clock == nil {
		deps.Clock = engine.RealClock{}
	}
	if deps.Labels.PromptNew == "" {
		deps.Labels.PromptNew = config.FallbackPromptNew
	}
	if deps.Labels.PromptEdit == "" {
		deps.Labels.PromptEdit = config.FallbackPromptEdit
	}
	if deps.Labels.ConfirmDelete == "" {
		deps.Labels.ConfirmDelete = config.FallbackConfirmDel
	}

	now := deps.Clock.Now()
	c := &Controller{
		store:     deps.Store,
		prompter:  deps.Prompter,
		confirmer: deps.Confirmer,
		clock:     deps.Clock,
		labels:    deps.Labels,
		log:       slog.With(config.LogKeyComponent, config.CompController),
		state: State{
			CurrentMonth: now,
			SelectedDate: now,
			Today:        now,
		},
	}
	c.events = c.load()
	return c
}

func (c *Controller) load() store.Events {
	events, err := c.store.Load()
	switch {
	case err == nil:
		c.log.Info(config.MsgEventsLoaded, config.LogKeyDays, len(events), config.LogKeyCount, events.Count())
	case store.IsNotFound(err):
		c.log.Info(config.MsgEventsEmpty)
	default:
		c.log.Warn(config.ErrStorageRead, config.LogKeyError, err)
	}
	if events == nil {
		events = store.Events{}
	}
	return events
}

// SetLabels replaces the prompt texts, e.g. after a language change.
func (c *Controller) SetLabels(l Labels) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l.PromptNew != "" {
		c.labels.PromptNew = l.PromptNew
	}
	if l.PromptEdit != "" {
		c.labels.PromptEdit = l.PromptEdit
	}
	if l.ConfirmDelete != "" {
		c.labels.ConfirmDelete = l.ConfirmDelete
	}
}

// OnChange registers fn to run with a copy of the events after every committed mutation.
func (c *Controller) OnChange(fn func(store.Events)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// -----------------------------------------------------------------------------
// Read Side
// -----------------------------------------------------------------------------

// State returns the current view state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Events returns a copy of every event list.
func (c *Controller) Events() store.Events {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events.Clone()
}

// ModalEvents returns the events of the day shown in the dialog.
func (c *Controller) ModalEvents() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.events.Get(c.state.ModalKey))
}

// HasEvents reports whether the day has at least one event.
func (c *Controller) HasEvents(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events.Has(key)
}

// Matrix builds the grid of the displayed month.
func (c *Controller) Matrix(weekStart time.Weekday) engine.Matrix {
	return engine.BuildMonthMatrix(c.State().CurrentMonth, weekStart)
}

// -----------------------------------------------------------------------------
// Navigation & Selection
// -----------------------------------------------------------------------------

// Navigate moves the displayed month one step. Selection and dialog are untouched.
func (c *Controller) Navigate(dir Direction) {
	c.mu.Lock()
	c.state.CurrentMonth = engine.AddMonths(c.state.CurrentMonth, int(dir))
	month := c.state.CurrentMonth
	c.mu.Unlock()

	c.log.Debug(config.MsgNavigate, config.LogKeyMonth, month.Format("2006-01"))
}

// PrevMonth shows the previous month.
func (c *Controller) PrevMonth() { c.Navigate(Prev) }

// NextMonth shows the next month.
func (c *Controller) NextMonth() { c.Navigate(Next) }

// SelectDay selects day and opens the dialog on it. Out-of-month days are allowed.
func (c *Controller) SelectDay(day time.Time) {
	key := store.DateKey(day)

	c.mu.Lock()
	c.state.SelectedDate = day
	c.state.ModalKey = key
	c.state.ModalOpen = true
	c.mu.Unlock()

	c.log.Debug(config.MsgDaySelected, config.LogKeyDateKey, key)
}

// CloseModal hides the dialog. The selection and dialog key are kept.
func (c *Controller) CloseModal() {
	c.mu.Lock()
	c.state.ModalOpen = false
	c.mu.Unlock()

	c.log.Debug(config.MsgModalClosed)
}

// ResetToday re-reads the clock for the "Today" line. The displayed month stays.
func (c *Controller) ResetToday() time.Time {
	now := c.clock.Now()
	c.mu.Lock()
	c.state.Today = now
	c.mu.Unlock()
	return now
}

// -----------------------------------------------------------------------------
// Event Workflow
// -----------------------------------------------------------------------------

// AddEvent prompts for a new event on the dialog's day.
// It returns true when an event was added.
func (c *Controller) AddEvent() bool {
	c.actionMu.Lock()
	defer c.actionMu.Unlock()

	key, labels := c.modalContext()
	if key == "" {
		return false
	}

	text, ok := c.prompter.Prompt(labels.PromptNew, "")
	if !ok || text == "" {
		c.log.Debug(config.MsgPromptCancel, config.LogKeyDateKey, key)
		return false
	}

	return c.commit(config.MsgEventAdded, key, -1, func(m store.Events) (store.Events, error) {
		return store.Add(m, key, text), nil
	})
}

// EditEvent prompts for a replacement of event index, pre-filled with its text.
// Cancelled or blank answers change nothing.
func (c *Controller) EditEvent(index int) bool {
	c.actionMu.Lock()
	defer c.actionMu.Unlock()

	key, labels := c.modalContext()
	current, ok := c.eventAt(key, index)
	if !ok {
		c.log.Warn(config.ErrEventMutation, config.LogKeyDateKey, key, config.LogKeyIndex, index, config.LogKeyError, store.ErrIndexOutOfRange)
		return false
	}

	text, ok := c.prompter.Prompt(labels.PromptEdit, current)
	if !ok || strings.TrimSpace(text) == "" {
		c.log.Debug(config.MsgPromptCancel, config.LogKeyDateKey, key, config.LogKeyIndex, index)
		return false
	}

	return c.commit(config.MsgEventUpdated, key, index, func(m store.Events) (store.Events, error) {
		return store.Update(m, key, index, text)
	})
}

// DeleteEvent asks for confirmation, then removes event index.
func (c *Controller) DeleteEvent(index int) bool {
	c.actionMu.Lock()
	defer c.actionMu.Unlock()

	key, labels := c.modalContext()
	if _, ok := c.eventAt(key, index); !ok {
		c.log.Warn(config.ErrEventMutation, config.LogKeyDateKey, key, config.LogKeyIndex, index, config.LogKeyError, store.ErrIndexOutOfRange)
		return false
	}

	if !c.confirmer.Confirm(labels.ConfirmDelete) {
		c.log.Debug(config.MsgDeleteDeclined, config.LogKeyDateKey, key, config.LogKeyIndex, index)
		return false
	}

	return c.commit(config.MsgEventRemoved, key, index, func(m store.Events) (store.Events, error) {
		return store.Remove(m, key, index)
	})
}

func (c *Controller) modalContext() (string, Labels) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.ModalKey, c.labels
}

func (c *Controller) eventAt(key string, index int) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := c.events.Get(key)
	if index < 0 || index >= len(list) {
		return "", false
	}
	return list[index], true
}

// commit applies op to the in-memory events, then saves the result before
// returning. Callers hold actionMu, so saves happen in mutation order; mu is
// released during the write so readers never wait on storage.
// A failed save is logged only: memory stays authoritative.
func (c *Controller) commit(msg, key string, index int, op func(store.Events) (store.Events, error)) bool {
	c.mu.Lock()
	next, err := op(c.events)
	if err != nil {
		c.mu.Unlock()
		c.log.Warn(config.ErrEventMutation, config.LogKeyDateKey, key, config.LogKeyIndex, index, config.LogKeyError, err)
		return false
	}
	c.events = next
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()

	// store ops never modify their input, so next is not shared with later mutations.
	if err := c.store.Save(next); err != nil {
		c.log.Error(config.ErrStorageWrite, config.LogKeyError, err)
	}
	snapshot := next.Clone()

	c.log.Info(msg, config.LogKeyDateKey, key, config.LogKeyIndex, index)
	for _, fn := range listeners {
		fn(snapshot)
	}
	return true
}

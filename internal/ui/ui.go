package ui

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"sync"

	"fyne.io/fyne/v2"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/robfig/cron/v3"
	"github.com/tartampluch/go-monthcal/internal/calendar"
	"github.com/tartampluch/go-monthcal/internal/config"
	"github.com/tartampluch/go-monthcal/internal/engine"
	"github.com/tartampluch/go-monthcal/internal/export"
	"github.com/tartampluch/go-monthcal/internal/server"
	"github.com/tartampluch/go-monthcal/internal/store"
)

//go:embed Icon.png
var appIconData []byte

// Options carries the dependencies of the desktop application.
type Options struct {
	Store  calendar.Store
	Server *server.CalendarServer // Nil disables the iCalendar feed
	Clock  engine.Clock           // Defaults to engine.RealClock

	// Prompter and Confirmer default to Fyne dialogs.
	Prompter  calendar.TextPrompter
	Confirmer calendar.Confirmer
}

// MonthCalApp encapsulates the windows, preferences and background jobs
// around a calendar.Controller.
type MonthCalApp struct {
	App         fyne.App
	Preferences fyne.Preferences
	I18nBundle  *i18n.Bundle
	Localizer   *i18n.Localizer
	Ctx         context.Context

	Controller *calendar.Controller
	Server     *server.CalendarServer
	Generator  *export.Generator
	Clock      engine.Clock

	MainWindow     fyne.Window
	SettingsWindow fyne.Window
	eventsWindow   fyne.Window
	eventsClosed   chan struct{} // closed when eventsWindow goes away

	SupportedLanguages []string

	view   *calendarView
	events *eventsView

	cronMu sync.Mutex
	cron   *cron.Cron
}

// NewMonthCalApp constructs the application and wires dependencies.
func NewMonthCalApp(a fyne.App, ctx context.Context, opts Options) *MonthCalApp {
	a.SetIcon(fyne.NewStaticResource(config.IconFile, appIconData))

	if opts.Clock == nil {
		opts.Clock = engine.RealClock{}
	}

	app := &MonthCalApp{
		App:                a,
		Preferences:        a.Preferences(),
		Ctx:                ctx,
		Server:             opts.Server,
		Generator:          &export.Generator{Clock: opts.Clock},
		Clock:              opts.Clock,
		SupportedLanguages: config.SupportedLanguages,
	}

	deps := calendar.Deps{
		Store:     opts.Store,
		Prompter:  opts.Prompter,
		Confirmer: opts.Confirmer,
		Clock:     opts.Clock,
	}
	if deps.Prompter == nil {
		deps.Prompter = &dialogPrompter{app: app}
	}
	if deps.Confirmer == nil {
		deps.Confirmer = &dialogConfirmer{app: app}
	}

	app.Controller = calendar.New(deps)
	app.Controller.OnChange(app.onEventsChanged)
	return app
}

// Run launches the application services and the main UI loop.
func (app *MonthCalApp) Run() {
	app.SetupI18n()

	if app.Server != nil {
		app.publishFeed(app.Controller.Events())

		go func() {
			if err := app.Server.Start(app.Ctx); err != nil {
				slog.Error(config.ErrServerStartup,
					config.LogKeyError, err,
					config.LogKeyComponent, config.CompUI)

				app.App.SendNotification(fyne.NewNotification(
					config.TitleStartupError,
					fmt.Sprintf(config.MsgPortBusy, app.Server.Port)))
			}
		}()
	}

	if err := app.startRollover(); err != nil {
		slog.Error(config.ErrSchedule,
			config.LogKeyError, err,
			config.LogKeyComponent, config.CompWorker)
	}
	defer app.stopRollover()

	app.ShowMainWindow()
	app.App.Run()
}

// onEventsChanged runs after every committed mutation, on the goroutine that
// performed it.
func (app *MonthCalApp) onEventsChanged(events store.Events) {
	app.publishFeed(events)
	fyne.Do(func() {
		app.refreshCalendar()
		app.refreshEventsWindow()
	})
}

// publishFeed renders the events and hands them to the feed server.
func (app *MonthCalApp) publishFeed(events store.Events) {
	if app.Server == nil {
		return
	}
	data, err := app.Generator.Render(events)
	if err != nil {
		slog.Error(config.ErrFeedRender,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyError, err)
		return
	}
	app.Server.Update(data)
}

// -----------------------------------------------------------------------------
// Midnight Rollover
// -----------------------------------------------------------------------------

// startRollover schedules the job that keeps the "Today" line current.
func (app *MonthCalApp) startRollover() error {
	app.cronMu.Lock()
	defer app.cronMu.Unlock()

	if app.cron != nil {
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(config.MidnightSpec, app.rollover); err != nil {
		return fmt.Errorf("%s: %w", config.ErrSchedule, err)
	}
	c.Start()
	app.cron = c

	slog.Info(config.MsgWorkerStart,
		config.LogKeyComponent, config.CompWorker)

	go func() {
		<-app.Ctx.Done()
		app.stopRollover()
	}()
	return nil
}

func (app *MonthCalApp) stopRollover() {
	app.cronMu.Lock()
	c := app.cron
	app.cron = nil
	app.cronMu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	slog.Info(config.MsgWorkerStop, config.LogKeyComponent, config.CompWorker)
}

// rollover re-reads the clock so the "Today" line and the feed stamp follow the date.
func (app *MonthCalApp) rollover() {
	today := app.Controller.ResetToday()
	slog.Info(config.MsgRollover,
		config.LogKeyComponent, config.CompWorker,
		config.LogKeyDateKey, store.DateKey(today))

	app.publishFeed(app.Controller.Events())
	fyne.Do(app.refreshCalendar)
}

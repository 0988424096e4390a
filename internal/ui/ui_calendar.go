package ui

import (
	"log/slog"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-monthcal/internal/config"
	"github.com/tartampluch/go-monthcal/internal/engine"
)

// dayCell binds a grid button to the day it represents.
type dayCell struct {
	cell   engine.Cell
	state  engine.CellState
	button *widget.Button
}

// calendarView is the content of the main window: header, weekday row and day grid.
type calendarView struct {
	app *MonthCalApp

	prevBtn     *widget.Button
	nextBtn     *widget.Button
	settingsBtn *widget.Button
	monthLabel  *widget.Label
	todayLabel  *widget.Label
	weekdayRow  *fyne.Container
	grid        *fyne.Container

	cells []dayCell

	content fyne.CanvasObject
}

// ShowMainWindow creates the calendar window, or focuses it when already open.
func (app *MonthCalApp) ShowMainWindow() {
	if app.MainWindow != nil {
		app.MainWindow.RequestFocus()
		return
	}

	w := app.App.NewWindow(app.msgOr(config.TKeyWinTitle, config.AppName))
	app.MainWindow = w
	app.view = newCalendarView(app)

	w.SetContent(app.view.content)
	w.Resize(fyne.NewSize(config.MainWindowWidth, config.MainWindowHeight))
	w.SetMaster()
	w.SetOnClosed(func() {
		app.MainWindow = nil
		app.view = nil
	})
	w.Show()
}

func newCalendarView(app *MonthCalApp) *calendarView {
	v := &calendarView{app: app}

	v.prevBtn = widget.NewButton(config.NavPrev, func() {
		app.Controller.PrevMonth()
		v.refresh()
	})
	v.nextBtn = widget.NewButton(config.NavNext, func() {
		app.Controller.NextMonth()
		v.refresh()
	})
	v.settingsBtn = widget.NewButtonWithIcon("", theme.SettingsIcon(), app.ShowSettingsWindow)

	v.monthLabel = widget.NewLabel("")
	v.monthLabel.Alignment = fyne.TextAlignCenter
	v.monthLabel.TextStyle = fyne.TextStyle{Bold: true}

	v.todayLabel = widget.NewLabel("")
	v.todayLabel.Alignment = fyne.TextAlignCenter
	v.todayLabel.TextStyle = fyne.TextStyle{Italic: true}

	v.weekdayRow = container.NewGridWithColumns(config.GridColumns)
	v.grid = container.NewGridWithColumns(config.GridColumns)

	header := container.NewBorder(nil, nil,
		v.prevBtn,
		container.NewHBox(v.nextBtn, v.settingsBtn),
		v.monthLabel,
	)

	v.content = container.NewPadded(container.NewBorder(
		container.NewVBox(header, v.todayLabel, v.weekdayRow),
		nil, nil, nil,
		v.grid,
	))

	v.refresh()
	return v
}

// refresh redraws every label and cell from the controller snapshot.
func (v *calendarView) refresh() {
	app := v.app
	st := app.Controller.State()
	names := app.Names()
	weekStart := app.WeekStart()

	v.monthLabel.SetText(engine.MonthLabel(st.CurrentMonth, names))
	v.todayLabel.SetText(app.TodayText(st.Today))

	labels := engine.WeekdayLabels(weekStart, names)
	headers := make([]fyne.CanvasObject, 0, len(labels))
	for _, l := range labels {
		lbl := widget.NewLabel(l)
		lbl.Alignment = fyne.TextAlignCenter
		headers = append(headers, lbl)
	}
	v.weekdayRow.Objects = headers
	v.weekdayRow.Refresh()

	matrix := app.Controller.Matrix(weekStart)
	all := matrix.Cells()
	v.cells = make([]dayCell, 0, len(all))
	objects := make([]fyne.CanvasObject, 0, len(all))
	for _, cell := range all {
		dc := v.newDayCell(cell, engine.Classify(cell, st.SelectedDate))
		v.cells = append(v.cells, dc)
		objects = append(objects, dc.button)
	}
	v.grid.Objects = objects
	v.grid.Refresh()
}

func (v *calendarView) newDayCell(cell engine.Cell, state engine.CellState) dayCell {
	app := v.app
	text := strconv.Itoa(cell.Date.Day())
	if app.Controller.HasEvents(cell.Key) {
		text += " " + config.EventIndicator
	}

	day := cell.Date
	btn := widget.NewButton(text, func() { app.selectDay(day) })
	switch state {
	case engine.Selected:
		btn.Importance = widget.HighImportance
	case engine.Disabled:
		btn.Importance = widget.LowImportance
	default:
		btn.Importance = widget.MediumImportance
	}
	return dayCell{cell: cell, state: state, button: btn}
}

// selectDay selects a grid day and opens its events window.
func (app *MonthCalApp) selectDay(day time.Time) {
	app.Controller.SelectDay(day)
	slog.Debug(config.MsgDaySelected,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyDateKey, day.Format(config.DateKeyLayout))

	app.refreshCalendar()
	app.ShowEventsWindow()
}

// refreshCalendar redraws the main window. It must run on the UI thread.
func (app *MonthCalApp) refreshCalendar() {
	if app.view == nil {
		return
	}
	app.view.refresh()
}

// refreshTexts re-applies localized window titles after a language change.
func (app *MonthCalApp) refreshTexts() {
	if app.MainWindow != nil {
		app.MainWindow.SetTitle(app.msgOr(config.TKeyWinTitle, config.AppName))
	}
	app.refreshCalendar()
	app.refreshEventsWindow()
}

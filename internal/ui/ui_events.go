package ui

import (
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-monthcal/internal/config"
)

// eventsView lists the events of the day held by the controller's dialog state.
type eventsView struct {
	app *MonthCalApp

	title    *widget.Label
	empty    *widget.Label
	list     *widget.List
	addBtn   *widget.Button
	closeBtn *widget.Button

	items []string
}

// ShowEventsWindow displays the events of the selected day.
// A single window is reused: selecting another day retargets it.
func (app *MonthCalApp) ShowEventsWindow() {
	if app.eventsWindow != nil {
		app.refreshEventsWindow()
		app.eventsWindow.RequestFocus()
		return
	}

	w := app.App.NewWindow(app.msgOr(config.TKeyWinTitle, config.AppName))
	w.Resize(fyne.NewSize(config.EventsWindowWidth, config.EventsWindowHeight))
	app.eventsWindow = w
	app.eventsClosed = make(chan struct{})
	app.events = newEventsView(app)

	slog.Info(config.MsgWindowOpen,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyDateKey, app.Controller.State().ModalKey)

	w.SetContent(app.events.content())
	w.SetOnClosed(func() {
		// Releases any prompt still waiting on this window.
		close(app.eventsClosed)
		app.eventsWindow = nil
		app.eventsClosed = nil
		app.events = nil
		app.Controller.CloseModal()
		app.refreshCalendar()
	})
	w.Show()
}

// CloseEventsWindow closes the events window if it is open.
func (app *MonthCalApp) CloseEventsWindow() {
	if app.eventsWindow != nil {
		app.eventsWindow.Close()
	}
}

// refreshEventsWindow reloads the list. It must run on the UI thread.
func (app *MonthCalApp) refreshEventsWindow() {
	if app.events == nil {
		return
	}
	app.events.refresh()
}

func newEventsView(app *MonthCalApp) *eventsView {
	v := &eventsView{app: app}

	v.title = widget.NewLabel("")
	v.title.TextStyle = fyne.TextStyle{Bold: true}
	v.title.Alignment = fyne.TextAlignCenter

	v.empty = widget.NewLabel("")
	v.empty.Alignment = fyne.TextAlignCenter
	v.empty.TextStyle = fyne.TextStyle{Italic: true}

	v.list = widget.NewList(
		func() int {
			return len(v.items)
		},
		func() fyne.CanvasObject {
			text := widget.NewLabel("")
			text.Truncation = fyne.TextTruncateEllipsis
			edit := widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), nil)
			del := widget.NewButtonWithIcon("", theme.DeleteIcon(), nil)
			return container.NewBorder(nil, nil, nil, container.NewHBox(edit, del), text)
		},
		func(id widget.ListItemID, o fyne.CanvasObject) {
			if id >= len(v.items) {
				return
			}
			row := o.(*fyne.Container)
			row.Objects[0].(*widget.Label).SetText(v.items[id])
			buttons := row.Objects[1].(*fyne.Container)

			index := id
			// Controller actions block on dialogs, so they leave the UI thread.
			buttons.Objects[0].(*widget.Button).OnTapped = func() { go app.Controller.EditEvent(index) }
			buttons.Objects[1].(*widget.Button).OnTapped = func() { go app.Controller.DeleteEvent(index) }
		},
	)

	v.addBtn = widget.NewButtonWithIcon("", theme.ContentAddIcon(), func() { go app.Controller.AddEvent() })
	v.addBtn.Importance = widget.HighImportance
	v.closeBtn = widget.NewButtonWithIcon("", theme.CancelIcon(), app.CloseEventsWindow)

	v.refresh()
	return v
}

func (v *eventsView) content() fyne.CanvasObject {
	return container.NewPadded(container.NewBorder(
		v.title,
		container.NewGridWithColumns(config.LayoutColumnsDouble, v.closeBtn, v.addBtn),
		nil, nil,
		container.NewStack(v.list, v.empty),
	))
}

// refresh reloads the title, the button labels and the events from the controller.
func (v *eventsView) refresh() {
	app := v.app
	st := app.Controller.State()

	v.title.SetText(app.EventsTitle(st.SelectedDate))
	v.empty.SetText(app.msgOr(config.TKeyLblNoEvents, config.FallbackNoEvents))
	v.addBtn.SetText(app.msgOr(config.TKeyBtnAdd, config.FallbackBtnAdd))
	v.closeBtn.SetText(app.msgOr(config.TKeyBtnClose, config.FallbackBtnClose))

	v.items = app.Controller.ModalEvents()
	if len(v.items) == 0 {
		v.empty.Show()
	} else {
		v.empty.Hide()
	}
	v.list.Refresh()
}

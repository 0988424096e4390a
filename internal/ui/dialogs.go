package ui

import (
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-monthcal/internal/config"
)

// dialogScope returns the window prompts attach to and a channel closed with it.
// Event prompts only make sense over the events window, so there is no fallback.
// It must run on the UI thread.
func (app *MonthCalApp) dialogScope() (fyne.Window, <-chan struct{}) {
	return app.eventsWindow, app.eventsClosed
}

type promptAnswer struct {
	text string
	ok   bool
}

// dialogPrompter implements calendar.TextPrompter with a Fyne form dialog.
// Prompt blocks its caller, so it must not be called from the UI thread.
type dialogPrompter struct {
	app *MonthCalApp
}

func (p *dialogPrompter) Prompt(label, initial string) (string, bool) {
	app := p.app
	answer := make(chan promptAnswer, 1)
	var closed <-chan struct{}

	fyne.DoAndWait(func() {
		parent, done := app.dialogScope()
		if parent == nil {
			answer <- promptAnswer{}
			return
		}
		closed = done

		entry := widget.NewEntry()
		entry.SetText(initial)

		d := dialog.NewForm(
			label,
			app.msgOr(config.TKeyBtnOK, config.FallbackBtnOK),
			app.msgOr(config.TKeyBtnCancel, config.FallbackBtnCancel),
			[]*widget.FormItem{widget.NewFormItem("", entry)},
			func(ok bool) { answer <- promptAnswer{text: entry.Text, ok: ok} },
			parent,
		)
		d.Resize(fyne.NewSize(config.PromptDialogWidth, d.MinSize().Height))
		d.Show()
		parent.Canvas().Focus(entry)
	})

	select {
	case a := <-answer:
		return a.text, a.ok
	case <-closed:
		slog.Debug(config.MsgDialogAbandoned, config.LogKeyComponent, config.CompUI)
		return "", false
	case <-app.Ctx.Done():
		slog.Debug(config.MsgCtxCancel, config.LogKeyComponent, config.CompUI)
		return "", false
	}
}

// dialogConfirmer implements calendar.Confirmer with a Fyne confirmation dialog.
// Like dialogPrompter it blocks its caller.
type dialogConfirmer struct {
	app *MonthCalApp
}

func (c *dialogConfirmer) Confirm(label string) bool {
	app := c.app
	answer := make(chan bool, 1)
	var closed <-chan struct{}

	fyne.DoAndWait(func() {
		parent, done := app.dialogScope()
		if parent == nil {
			answer <- false
			return
		}
		closed = done

		d := dialog.NewConfirm(config.AppName, label, func(ok bool) { answer <- ok }, parent)
		d.SetConfirmText(app.msgOr(config.TKeyBtnYes, config.FallbackBtnYes))
		d.SetDismissText(app.msgOr(config.TKeyBtnNo, config.FallbackBtnNo))
		d.Show()
	})

	select {
	case ok := <-answer:
		return ok
	case <-closed:
		slog.Debug(config.MsgDialogAbandoned, config.LogKeyComponent, config.CompUI)
		return false
	case <-app.Ctx.Done():
		return false
	}
}

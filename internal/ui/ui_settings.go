package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-monthcal/internal/config"
	"github.com/tartampluch/go-monthcal/internal/server"
)

// settingsWidgets holds references to UI elements to simplify data retrieval during save.
type settingsWidgets struct {
	langSelect      *widget.Select
	weekStartSelect *widget.Select
	entryPort       *PortEntry
	checkFeed       *widget.Check
}

// weekStartLabels maps week start preference values to their display text.
func (app *MonthCalApp) weekStartLabels() map[string]string {
	return map[string]string{
		config.WeekStartAuto:     app.GetMsg(config.TKeyWeekStartAuto),
		config.WeekStartSunday:   app.GetMsg(config.TKeyWeekStartSun),
		config.WeekStartMonday:   app.GetMsg(config.TKeyWeekStartMon),
		config.WeekStartSaturday: app.GetMsg(config.TKeyWeekStartSat),
	}
}

// portMessage localizes a server.ParsePort error.
func (app *MonthCalApp) portMessage(err error) string {
	switch {
	case errors.Is(err, server.ErrPortRequired):
		return app.GetMsg(config.TKeyErrPortReq)
	case errors.Is(err, server.ErrPortNumber):
		return app.GetMsg(config.TKeyErrPortNum)
	default:
		return app.GetMsg(config.TKeyErrPortRange)
	}
}

// ShowSettingsWindow displays the configuration window.
func (app *MonthCalApp) ShowSettingsWindow() {
	if app.SettingsWindow != nil {
		slog.Debug(config.MsgSettingsFocus, config.LogKeyComponent, config.CompUISet)
		app.SettingsWindow.RequestFocus()
		return
	}

	slog.Info(config.MsgSettingsOpen, config.LogKeyComponent, config.CompUISet)
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinSettings))
	app.SettingsWindow = w

	sw := app.newSettingsWidgets()

	// --- General ---
	itemLang := widget.NewFormItem(app.GetMsg(config.TKeyLblLanguage), sw.langSelect)
	itemLang.HintText = app.GetMsg(config.TKeyHelpLanguage)

	itemWeek := widget.NewFormItem(app.GetMsg(config.TKeyLblWeekStart), sw.weekStartSelect)
	itemWeek.HintText = app.GetMsg(config.TKeyHelpWeekStart)

	generalForm := widget.NewForm(itemLang, itemWeek)

	// --- Feed ---
	itemPort := widget.NewFormItem(app.GetMsg(config.TKeyLblPort), sw.entryPort)
	itemPort.HintText = app.GetMsg(config.TKeyHelpPort)

	feedBox := container.NewVBox(sw.checkFeed, widget.NewForm(itemPort), app.buildFeedInfo())

	// --- Actions ---
	saveAction := func() {
		if err := sw.entryPort.Validate(); err != nil {
			dialog.ShowError(err, w)
			return
		}
		app.saveSettings(sw)
		w.Close()
	}

	btnSave := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSave), theme.DocumentSaveIcon(), saveAction)
	btnSave.Importance = widget.HighImportance
	btnCancel := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnCancel), theme.CancelIcon(), func() { w.Close() })

	// --- Footer ---
	footerLabel := widget.NewLabel(fmt.Sprintf(app.GetMsg(config.TKeyLblFooter), config.Version))
	footerLabel.Alignment = fyne.TextAlignCenter
	footerLabel.TextStyle = fyne.TextStyle{Italic: true}

	paddedContent := container.NewPadded(container.NewVBox(
		widget.NewCard("", "", generalForm),
		widget.NewCard("", "", feedBox),
		container.NewGridWithColumns(config.LayoutColumnsDouble, btnCancel, btnSave),
		footerLabel,
	))

	w.SetContent(paddedContent)
	w.Resize(fyne.NewSize(config.SettingsWindowWidth, paddedContent.MinSize().Height))
	w.SetFixedSize(true)
	w.SetOnClosed(func() { app.SettingsWindow = nil })
	w.Show()
}

// newSettingsWidgets builds the form widgets pre-filled from preferences.
func (app *MonthCalApp) newSettingsWidgets() *settingsWidgets {
	sw := &settingsWidgets{}

	sw.langSelect = widget.NewSelect(app.SupportedLanguages, nil)
	sw.langSelect.SetSelected(app.currentLanguage())

	labels := app.weekStartLabels()
	options := make([]string, 0, len(config.WeekStartOptions))
	for _, v := range config.WeekStartOptions {
		options = append(options, labels[v])
	}
	sw.weekStartSelect = widget.NewSelect(options, nil)
	sw.weekStartSelect.SetSelected(labels[app.Preferences.StringWithFallback(config.PrefWeekStart, config.DefaultWeekStart)])
	if sw.weekStartSelect.Selected == "" {
		sw.weekStartSelect.SetSelected(labels[config.WeekStartAuto])
	}

	sw.entryPort = NewPortEntry(app.portMessage)
	sw.entryPort.SetText(app.Preferences.StringWithFallback(config.PrefServerPort, config.DefaultPort))

	sw.checkFeed = widget.NewCheck(app.GetMsg(config.TKeyLblFeed), nil)
	sw.checkFeed.SetChecked(app.Preferences.BoolWithFallback(config.PrefFeedEnabled, true))

	return sw
}

// buildFeedInfo shows the subscription URL of the running feed, or a notice
// when the feed is off.
func (app *MonthCalApp) buildFeedInfo() fyne.CanvasObject {
	if app.Server == nil {
		lbl := widget.NewLabel(app.GetMsg(config.TKeyFeedDisabled))
		lbl.Wrapping = fyne.TextWrapWord
		return lbl
	}

	url := app.Server.FeedURL()
	lbl := widget.NewLabel(app.GetMsgWith(config.TKeyFeedURL, map[string]any{"URL": url}))
	lbl.Wrapping = fyne.TextWrapBreak
	lbl.Selectable = true

	copyBtn := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnCopyFeedURL), theme.ContentCopyIcon(), func() {
		app.App.Clipboard().SetContent(url)
	})
	return container.NewBorder(nil, nil, nil, copyBtn, lbl)
}

// saveSettings persists the form and applies what can change without a restart.
// Port and feed switches take effect on next launch.
func (app *MonthCalApp) saveSettings(sw *settingsWidgets) {
	slog.Info(config.MsgSettingsSaved, config.LogKeyComponent, config.CompUISet)

	if sw.langSelect.Selected != "" {
		app.Preferences.SetString(config.PrefLanguage, sw.langSelect.Selected)
	}

	// Display text back to preference value, using the labels of the
	// language the form was built with.
	for value, label := range app.weekStartLabels() {
		if label == sw.weekStartSelect.Selected {
			app.Preferences.SetString(config.PrefWeekStart, value)
			break
		}
	}

	if port := sw.entryPort.Port(); port != 0 {
		app.Preferences.SetString(config.PrefServerPort, strconv.Itoa(port))
	}
	app.Preferences.SetBool(config.PrefFeedEnabled, sw.checkFeed.Checked)

	app.UpdateLocalizer()
	app.refreshTexts()
}

package ui

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	fynelang "fyne.io/fyne/v2/lang"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-monthcal/internal/calendar"
	"github.com/tartampluch/go-monthcal/internal/config"
	"github.com/tartampluch/go-monthcal/internal/engine"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// SetupI18n initializes the translation bundle and detects available languages.
func (app *MonthCalApp) SetupI18n() {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir(config.LocalesDir)
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return
	}

	var detectedLangs []string

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, config.LocalePrefix) || !strings.HasSuffix(name, config.LocaleSuffix) {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, config.LocalePrefix), config.LocaleSuffix)
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, config.LocalesDir+"/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}

		detectedLangs = append(detectedLangs, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
			config.LogKeyFile, name,
		)
	}

	app.SupportedLanguages = detectedLangs
	app.I18nBundle = bundle
	app.UpdateLocalizer()
}

// UpdateLocalizer refreshes the translator based on the user's language preference
// and pushes the new prompt texts to the controller.
func (app *MonthCalApp) UpdateLocalizer() {
	if app.I18nBundle == nil {
		return
	}
	app.Localizer = i18n.NewLocalizer(app.I18nBundle, app.currentLanguage())
	app.Controller.SetLabels(app.controllerLabels())
}

// currentLanguage returns the preferred language, else the host language when
// a translation exists for it, else English.
func (app *MonthCalApp) currentLanguage() string {
	if code := app.Preferences.String(config.PrefLanguage); code != "" {
		return code
	}
	base, _ := systemTag().Base()
	if code := base.String(); slices.Contains(app.SupportedLanguages, code) {
		return code
	}
	return config.DefaultLanguage
}

// systemTag returns the host locale as a language tag.
func systemTag() language.Tag {
	tag, err := language.Parse(fynelang.SystemLocale().LanguageString())
	if err != nil {
		return language.English
	}
	return tag
}

// localeTag returns the tag used for locale-dependent rules such as the week start.
// The host region is kept as long as its language matches the UI language.
func (app *MonthCalApp) localeTag() language.Tag {
	sys := systemTag()
	sysBase, _ := sys.Base()
	code := app.currentLanguage()
	if sysBase.String() == code {
		return sys
	}
	return language.Make(code)
}

// WeekStart resolves the week start preference against the locale.
func (app *MonthCalApp) WeekStart() time.Weekday {
	value := app.Preferences.StringWithFallback(config.PrefWeekStart, config.DefaultWeekStart)
	ws, err := engine.ParseWeekStart(value, app.localeTag())
	if err != nil {
		slog.Warn(config.ErrUnknownWeekday,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyWeekStart, value,
			config.LogKeyError, err,
		)
	}
	return ws
}

// GetMsg is a helper to translate a key safely.
func (app *MonthCalApp) GetMsg(key string) string {
	return app.localize(key, nil)
}

// GetMsgWith translates a key that expects template data.
func (app *MonthCalApp) GetMsgWith(key string, data map[string]any) string {
	return app.localize(key, data)
}

func (app *MonthCalApp) localize(key string, data map[string]any) string {
	if app.Localizer == nil {
		slog.Debug(config.ErrLocNotInit,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
		)
		return key
	}
	msg, err := app.Localizer.Localize(&i18n.LocalizeConfig{MessageID: key, TemplateData: data})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}

// msgOr translates key, using fallback when no translation exists.
func (app *MonthCalApp) msgOr(key, fallback string) string {
	if msg := app.GetMsg(key); msg != key {
		return msg
	}
	return fallback
}

// Names builds the localized month and weekday names for the grid engine.
func (app *MonthCalApp) Names() engine.Names {
	names := engine.EnglishNames()
	for i := range names.Months {
		key := config.TKeyMonthPrefix + strconv.Itoa(i+1)
		names.Months[i] = app.msgOr(key, names.Months[i])
	}
	for i := range names.Weekdays {
		key := config.TKeyWeekdayPrefix + strconv.Itoa(i)
		names.Weekdays[i] = app.msgOr(key, names.Weekdays[i])
	}
	names.MonthYear = func(month string, year int) string {
		msg := app.GetMsgWith(config.TKeyLblMonthYear, map[string]any{"Month": month, "Year": year})
		if msg == config.TKeyLblMonthYear {
			return fmt.Sprintf(config.FallbackMonthYear, month, year)
		}
		return msg
	}
	return names
}

// FormatDate renders a day with the localized short date layout.
func (app *MonthCalApp) FormatDate(t time.Time) string {
	return t.Format(app.msgOr(config.TKeyFormatDate, config.FallbackDateFormat))
}

// TodayText renders the "Today: <date>" line.
func (app *MonthCalApp) TodayText(today time.Time) string {
	date := app.FormatDate(today)
	msg := app.GetMsgWith(config.TKeyLblToday, map[string]any{"Date": date})
	if msg == config.TKeyLblToday {
		return fmt.Sprintf(config.FallbackToday, date)
	}
	return msg
}

// EventsTitle renders the events window heading for a day.
func (app *MonthCalApp) EventsTitle(day time.Time) string {
	date := app.FormatDate(day)
	msg := app.GetMsgWith(config.TKeyLblEventsOn, map[string]any{"Date": date})
	if msg == config.TKeyLblEventsOn {
		return fmt.Sprintf(config.FallbackEventsOn, date)
	}
	return msg
}

func (app *MonthCalApp) controllerLabels() calendar.Labels {
	return calendar.Labels{
		PromptNew:     app.msgOr(config.TKeyPromptNew, config.FallbackPromptNew),
		PromptEdit:    app.msgOr(config.TKeyPromptEdit, config.FallbackPromptEdit),
		ConfirmDelete: app.msgOr(config.TKeyConfirmDelete, config.FallbackConfirmDel),
	}
}

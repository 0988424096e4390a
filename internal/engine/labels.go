package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/tartampluch/go-monthcal/internal/config"
	"golang.org/x/text/language"
)

// labelAnchor is an arbitrary fixed date used to derive weekday labels.
// Any date works: the labels come from the 7 days following its week start.
var labelAnchor = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Names holds the localized month and short weekday names used by the labels.
type Names struct {
	Months   [12]string // January first
	Weekdays [7]string  // Sunday first, indexed by time.Weekday

	// MonthYear formats the month header. Nil falls back to "Month Year".
	MonthYear func(month string, year int) string
}

// EnglishNames returns the default names: full month names and two-letter weekdays.
func EnglishNames() Names {
	var n Names
	for m := time.January; m <= time.December; m++ {
		n.Months[m-1] = m.String()
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		n.Weekdays[d] = d.String()[:2]
	}
	return n
}

// WeekdayLabels produces the 7 short weekday labels starting at weekStart.
func WeekdayLabels(weekStart time.Weekday, names Names) [7]string {
	var out [7]string
	day := StartOfWeek(labelAnchor, weekStart)
	for i := range out {
		out[i] = names.Weekdays[day.Weekday()]
		day = day.AddDate(0, 0, 1)
	}
	return out
}

// MonthLabel produces the "Month Year" header for the reference date.
func MonthLabel(ref time.Time, names Names) string {
	month := names.Months[ref.Month()-1]
	if names.MonthYear != nil {
		return names.MonthYear(month, ref.Year())
	}
	return fmt.Sprintf(config.FallbackMonthYear, month, ref.Year())
}

// -----------------------------------------------------------------------------
// Locale Week Start
// -----------------------------------------------------------------------------

// Regions whose calendars start the week on Sunday or Saturday (CLDR weekData).
// Every other region starts on Monday.
var (
	sundayFirstRegions = map[string]bool{
		"AG": true, "AS": true, "AU": true, "BD": true, "BR": true, "BS": true, "BT": true,
		"BW": true, "BZ": true, "CA": true, "CN": true, "CO": true, "DM": true, "DO": true,
		"ET": true, "GT": true, "GU": true, "HK": true, "HN": true, "ID": true, "IL": true,
		"IN": true, "JM": true, "JP": true, "KE": true, "KH": true, "KR": true, "LA": true,
		"MH": true, "MM": true, "MO": true, "MT": true, "MX": true, "MZ": true, "NI": true,
		"NP": true, "PA": true, "PE": true, "PH": true, "PK": true, "PR": true, "PT": true,
		"PY": true, "SA": true, "SG": true, "SV": true, "TH": true, "TT": true, "TW": true,
		"UM": true, "US": true, "VE": true, "VI": true, "WS": true, "YE": true, "ZA": true,
		"ZW": true,
	}
	saturdayFirstRegions = map[string]bool{
		"AE": true, "AF": true, "BH": true, "DJ": true, "DZ": true, "EG": true, "IQ": true,
		"IR": true, "JO": true, "KW": true, "LY": true, "OM": true, "QA": true, "SD": true,
		"SY": true,
	}
)

// WeekStartFor returns the first day of the week for a locale tag.
// Tags without an explicit region use the region inferred for the language
// ("en" resolves to US, "fr" to FR).
func WeekStartFor(tag language.Tag) time.Weekday {
	region, _ := tag.Region()
	code := region.String()
	switch {
	case sundayFirstRegions[code]:
		return time.Sunday
	case saturdayFirstRegions[code]:
		return time.Saturday
	default:
		return time.Monday
	}
}

// ParseWeekStart resolves a week start preference value.
// "auto" (or empty) defers to the locale tag.
func ParseWeekStart(value string, tag language.Tag) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", config.WeekStartAuto:
		return WeekStartFor(tag), nil
	case config.WeekStartSunday:
		return time.Sunday, nil
	case config.WeekStartMonday:
		return time.Monday, nil
	case config.WeekStartSaturday:
		return time.Saturday, nil
	default:
		return WeekStartFor(tag), fmt.Errorf("%s: %q", config.ErrUnknownWeekday, value)
	}
}

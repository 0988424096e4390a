// Package export renders the events mapping as an iCalendar feed.
package export

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-monthcal/internal/config"
	"github.com/tartampluch/go-monthcal/internal/engine"
	"github.com/tartampluch/go-monthcal/internal/store"
)

// Generator converts events into an iCalendar document.
type Generator struct {
	Clock engine.Clock // Interface for time mocking.
}

// NewGenerator returns a Generator reading the system clock.
func NewGenerator() *Generator {
	return &Generator{Clock: engine.RealClock{}}
}

// Render builds the feed. Every event becomes one all-day VEVENT.
// Keys are emitted in ascending order and events in list order, so the
// output is stable for a given mapping and clock reading.
func (g *Generator) Render(events store.Events) ([]byte, error) {
	log := slog.With(config.LogKeyComponent, config.CompExport)

	cal := ical.NewCalendar()

	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// RFC 7986
	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(g.now().UTC())

	keys := make([]string, 0, len(events))
	for k := range events {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		day, err := time.Parse(config.DateKeyLayout, key)
		if err != nil {
			// Keys come from storage and may have been edited by hand.
			log.Warn(config.ErrFeedRender, config.LogKeyDateKey, key, config.LogKeyError, err)
			continue
		}
		for i, text := range events[key] {
			event := newEvent(key, i, text, day)
			event.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, event.Component)
		}
	}

	if len(cal.Children) == 0 {
		log.Debug(config.MsgFeedRendered, config.LogKeyCount, 0)
		return []byte(config.StubVCalendar), nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	log.Debug(config.MsgFeedRendered,
		config.LogKeyCount, len(cal.Children),
		config.LogKeySizeBytes, buf.Len(),
	)
	return buf.Bytes(), nil
}

func (g *Generator) now() time.Time {
	if g.Clock == nil {
		return time.Now()
	}
	return g.Clock.Now()
}

// EventUID returns the deterministic identifier of event index on day key.
// Editing the text yields a new UID, which clients treat as a replacement.
func EventUID(key string, index int, text string) string {
	input := fmt.Sprintf(config.FormatHashInput, key, index, text, config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf(config.FormatUID, fmt.Sprintf("%x", hash[:config.UIDHashLength]), config.ICalDomain)
}

func newEvent(key string, index int, text string, day time.Time) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, EventUID(key, index, text))
	event.Props.SetText(config.PropSummary, text)

	dtStartProp := ical.NewProp(config.PropDTStart)
	dtStartProp.SetDate(day)
	event.Props.Set(dtStartProp)

	// DTEND is exclusive for VALUE=DATE.
	dtEndProp := ical.NewProp(config.PropDTEnd)
	dtEndProp.SetDate(day.AddDate(0, 0, 1))
	event.Props.Set(dtEndProp)

	return event
}

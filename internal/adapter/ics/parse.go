package ics

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/rs/zerolog/log"
)

// bracketProperty marks the half of a booked show in exported feeds.
const bracketProperty = "X-GIGCHECK-BRACKET"

// parsedEvent is a VEVENT before recurrence expansion.
type parsedEvent struct {
	UID      string
	Summary  string
	Location string
	Status   string
	Bracket  string

	Start  time.Time
	End    time.Time
	AllDay bool

	RRule   string
	ExDates []time.Time
	// RECURRENCE-ID of an overridden instance
	Recurrence *time.Time
}

func parseICS(body []byte, loc *time.Location) ([]parsedEvent, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse ics: %w", err)
	}

	var events []parsedEvent
	for _, ve := range cal.Events() {
		ev, err := parseVEvent(ve, loc)
		if err != nil {
			log.Warn().Err(err).Msg("skipping malformed VEVENT")
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func parseVEvent(ve *ical.VEvent, loc *time.Location) (parsedEvent, error) {
	var out parsedEvent

	uid := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uid == nil || uid.Value == "" {
		return out, errors.New("missing UID")
	}
	out.UID = uid.Value
	out.Summary = propValue(ve, ical.ComponentPropertySummary)
	out.Location = propValue(ve, ical.ComponentPropertyLocation)
	out.Status = strings.ToUpper(propValue(ve, ical.ComponentPropertyStatus))
	out.Bracket = strings.ToLower(propValue(ve, ical.ComponentProperty(bracketProperty)))
	out.RRule = propValue(ve, ical.ComponentPropertyRrule)

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return out, fmt.Errorf("event %s has no DTSTART", out.UID)
	}
	out.AllDay = isDateValue(dtStart)

	var err error
	if out.AllDay {
		out.Start, err = time.ParseInLocation("20060102", dtStart.Value, loc)
	} else {
		out.Start, err = ve.GetStartAt()
	}
	if err != nil {
		return out, fmt.Errorf("event %s: parse DTSTART: %w", out.UID, err)
	}

	out.End = endOf(ve, out, loc)

	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			if t, err := parseICSTime(part, loc); err == nil {
				out.ExDates = append(out.ExDates, t)
			}
		}
	}

	if rid := ve.GetProperty(ical.ComponentProperty("RECURRENCE-ID")); rid != nil {
		if t, err := parseICSTime(rid.Value, loc); err == nil {
			out.Recurrence = &t
		}
	}

	return out, nil
}

// endOf reads DTEND, falling back to one day for all-day entries and to
// the start for timed entries without one.
func endOf(ve *ical.VEvent, ev parsedEvent, loc *time.Location) time.Time {
	if ev.AllDay {
		if p := ve.GetProperty(ical.ComponentPropertyDtEnd); p != nil {
			if t, err := time.ParseInLocation("20060102", p.Value, loc); err == nil {
				return t
			}
		}
		return ev.Start.AddDate(0, 0, 1)
	}
	if end, err := ve.GetEndAt(); err == nil {
		return end
	}
	return ev.Start
}

func isDateValue(p *ical.IANAProperty) bool {
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

func propValue(ve *ical.VEvent, prop ical.ComponentProperty) string {
	if p := ve.GetProperty(prop); p != nil {
		return p.Value
	}
	return ""
}

// parseICSTime parses DATE, floating DATE-TIME and UTC DATE-TIME values.
func parseICSTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return time.Time{}, errors.New("empty time value")
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, loc)
	default:
		return time.ParseInLocation("20060102", v, loc)
	}
}

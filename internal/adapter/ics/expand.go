package ics

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/teambition/rrule-go"

	"github.com/theakshaypant/gigcheck/internal/core"
)

// maxOccurrences caps expansion of unbounded rules.
const maxOccurrences = 5000

// occurrence is one concrete instance of a (possibly recurring) event.
type occurrence struct {
	ev    parsedEvent
	start time.Time
	end   time.Time
}

func (o occurrence) toCore(providerID string, cal core.Calendar) core.Event {
	id := o.ev.UID
	if o.ev.RRule != "" || o.ev.Recurrence != nil {
		id = o.ev.UID + "/" + o.start.UTC().Format("20060102T150405Z")
	}

	status := core.StatusNoResponse
	switch o.ev.Status {
	case "CANCELLED":
		status = core.StatusRejected
	case "TENTATIVE":
		status = core.StatusTentative
	}

	event := core.Event{
		ID:         id,
		ProviderID: providerID,
		Calendar:   cal,
		Title:      o.ev.Summary,
		Location:   o.ev.Location,
		Status:     status,
		Start:      o.start,
		End:        o.end,
		IsAllDay:   o.ev.AllDay,
	}
	if o.ev.Bracket != "" {
		event.Metadata = map[string]string{"bracket": o.ev.Bracket}
	}
	return event
}

// expand turns base events and RECURRENCE-ID overrides into occurrences
// that overlap [from, to].
func expand(events []parsedEvent, from, to time.Time) []occurrence {
	overridden := make(map[string]map[int64]bool)
	var out []occurrence

	for _, ev := range events {
		if ev.Recurrence == nil {
			continue
		}
		if overridden[ev.UID] == nil {
			overridden[ev.UID] = make(map[int64]bool)
		}
		overridden[ev.UID][ev.Recurrence.Unix()] = true
		if overlaps(ev.Start, ev.End, from, to) {
			out = append(out, occurrence{ev: ev, start: ev.Start, end: ev.End})
		}
	}

	for _, ev := range events {
		if ev.Recurrence != nil {
			continue
		}
		if ev.RRule == "" {
			if overlaps(ev.Start, ev.End, from, to) {
				out = append(out, occurrence{ev: ev, start: ev.Start, end: ev.End})
			}
			continue
		}
		for _, occ := range expandRecurring(ev, from, to) {
			if overridden[ev.UID][occ.start.Unix()] {
				continue
			}
			out = append(out, occ)
		}
	}
	return out
}

func expandRecurring(ev parsedEvent, from, to time.Time) []occurrence {
	r, err := rrule.StrToRRule(ev.RRule)
	if err != nil {
		log.Warn().Err(err).Str("uid", ev.UID).Str("rrule", ev.RRule).Msg("cannot parse RRULE, skipping event")
		return nil
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	// Occurrences starting before from can still run into the range.
	dur := ev.End.Sub(ev.Start)
	starts := set.Between(from.Add(-dur).In(ev.Start.Location()), to.In(ev.Start.Location()), true)
	if len(starts) > maxOccurrences {
		log.Warn().Str("uid", ev.UID).Int("cap", maxOccurrences).Msg("truncated recurring event")
		starts = starts[:maxOccurrences]
	}

	out := make([]occurrence, 0, len(starts))
	for _, s := range starts {
		out = append(out, occurrence{ev: ev, start: s, end: s.Add(dur)})
	}
	return out
}

func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aEnd.Before(bStart) && !bEnd.Before(aStart)
}

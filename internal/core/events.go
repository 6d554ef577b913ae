package core

import (
	"sort"
)

// Deduplicate merges events that share a DedupeKey. The first occurrence
// stays; later copies only add their calendar and status to Calendars.
func Deduplicate(events []Event) []Event {
	seen := make(map[string]int)
	result := make([]Event, 0, len(events))

	for _, event := range events {
		if event.DedupeKey == "" {
			result = append(result, event)
			continue
		}

		resp := CalendarResponse{Calendar: event.Calendar, Status: event.Status}
		if idx, ok := seen[event.DedupeKey]; ok {
			result[idx].Calendars = append(result[idx].Calendars, resp)
			continue
		}
		event.Calendars = []CalendarResponse{resp}
		seen[event.DedupeKey] = len(result)
		result = append(result, event)
	}

	return result
}

// SortByStart orders events by start time, keeping the provider order for
// ties.
func SortByStart(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
}

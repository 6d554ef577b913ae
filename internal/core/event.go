package core

import (
	"time"
)

// EventStatus represents the user's response to an event invitation.
type EventStatus int

const (
	StatusAccepted EventStatus = iota
	// User declined
	StatusRejected
	// User marked as tentative
	StatusTentative
	// Awaiting user's response
	StatusAwaiting
	// No response needed (subscribed calendars, self-created events)
	StatusNoResponse
)

// EventType represents the kind of calendar entry.
type EventType int

const (
	TypeDefault      EventType = iota // Regular meeting/event
	TypeOutOfOffice                   // Out of office block
	TypeFocusTime                     // Focus time block
	TypeWorkLocation                  // Working location (home/office)
)

// Calendar identifies the calendar an event was read from.
type Calendar struct {
	// e.g. "primary", "user@example.com", a subscription ID or an ICS URL
	ID string
	// e.g. "Work", "Tour dates"
	Name string
}

// CalendarResponse is one calendar's copy of an event that shows up in
// several calendars.
type CalendarResponse struct {
	Calendar Calendar
	Status   EventStatus
}

// Event is the provider-neutral calendar entry every adapter converts to.
type Event struct {
	// Unique ID (provided by the source)
	ID string
	// Cross-calendar identity (iCal UID), empty if unknown
	DedupeKey string
	// The ID of the provider source (e.g., "google")
	ProviderID string
	Calendar   Calendar
	// Filled by Deduplicate when the same event lives in several calendars
	Calendars []CalendarResponse
	Type      EventType
	Title     string
	Location  string
	Status    EventStatus
	// Calendar event page URL
	URL string
	// Timing
	Start    time.Time
	End      time.Time
	IsAllDay bool
	// Provider specific extras, e.g. "bracket" for split show entries
	Metadata map[string]string
}

// Duration returns the length of the event.
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// Overlaps reports whether the event shares any instant with [start, end].
func (e Event) Overlaps(start, end time.Time) bool {
	return !e.End.Before(start) && !e.Start.After(end)
}

package core

import (
	"context"
	"time"
)

// FetchOptions configures which events to retrieve.
type FetchOptions struct {
	Start time.Time
	End   time.Time

	// Filter by calendar ID. Empty means all calendars.
	CalendarIDs []string

	// Filter by event type. Empty means every type.
	IncludeTypes []EventType

	// Filter by response status. Empty means all statuses.
	// Declined invitations rarely block an evening, so the CLI defaults to
	// everything except StatusRejected.
	IncludeStatuses []EventStatus

	// ExcludeAllDay filters out all-day events when true.
	ExcludeAllDay bool
}

// DefaultFetchOptions returns options covering [start, end] that skip
// declined invitations.
func DefaultFetchOptions(start, end time.Time) FetchOptions {
	return FetchOptions{
		Start: start,
		End:   end,
		IncludeStatuses: []EventStatus{
			StatusAccepted,
			StatusTentative,
			StatusAwaiting,
			StatusNoResponse,
		},
	}
}

// Match reports whether e passes the type, status and all-day filters.
func (o FetchOptions) Match(e Event) bool {
	if len(o.IncludeTypes) > 0 && !contains(o.IncludeTypes, e.Type) {
		return false
	}
	if len(o.IncludeStatuses) > 0 && !contains(o.IncludeStatuses, e.Status) {
		return false
	}
	if o.ExcludeAllDay && e.IsAllDay {
		return false
	}
	return true
}

func contains[T comparable](values []T, v T) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

// Provider represents a calendar source (Google, Outlook, an ICS feed).
type Provider interface {
	// ID returns the unique identifier from the config (e.g. "google")
	ID() string
	// Name returns a human-readable label (e.g. "Google Calendar")
	Name() string
	// FetchEvents retrieves events matching the given options.
	// This should block until done or context is cancelled.
	FetchEvents(ctx context.Context, opts FetchOptions) ([]Event, error)
}

// Writer is a Provider that can create events, used to book a show into
// the attendee's calendar.
type Writer interface {
	Provider
	// InsertEvent creates e in calendarID and returns the new event ID.
	InsertEvent(ctx context.Context, calendarID string, e Event) (string, error)
}

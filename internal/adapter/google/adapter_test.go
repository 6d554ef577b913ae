package google

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/api/calendar/v3"

	"github.com/theakshaypant/gigcheck/internal/core"
)

func TestParseTimes(t *testing.T) {
	tests := []struct {
		name       string
		start, end *calendar.EventDateTime
		wantStart  time.Time
		wantEnd    time.Time
		wantAllDay bool
		wantErr    bool
	}{
		{
			name:      "timed",
			start:     &calendar.EventDateTime{DateTime: "2026-11-13T18:00:00+09:00"},
			end:       &calendar.EventDateTime{DateTime: "2026-11-13T19:30:00+09:00"},
			wantStart: time.Date(2026, time.November, 13, 9, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, time.November, 13, 10, 30, 0, 0, time.UTC),
		},
		{
			name:       "all day",
			start:      &calendar.EventDateTime{Date: "2026-11-26"},
			end:        &calendar.EventDateTime{Date: "2026-11-27"},
			wantStart:  time.Date(2026, time.November, 26, 0, 0, 0, 0, time.Local),
			wantEnd:    time.Date(2026, time.November, 27, 0, 0, 0, 0, time.Local),
			wantAllDay: true,
		},
		{name: "missing end", start: &calendar.EventDateTime{DateTime: "2026-11-13T18:00:00Z"}, wantErr: true},
		{
			name:    "malformed",
			start:   &calendar.EventDateTime{DateTime: "tomorrow"},
			end:     &calendar.EventDateTime{DateTime: "2026-11-13T19:30:00Z"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, allDay, err := parseTimes(tt.start, tt.end)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseTimes() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !start.Equal(tt.wantStart) || !end.Equal(tt.wantEnd) || allDay != tt.wantAllDay {
				t.Errorf("parseTimes() = %v, %v, %v; want %v, %v, %v", start, end, allDay, tt.wantStart, tt.wantEnd, tt.wantAllDay)
			}
		})
	}
}

func TestParseEventStatus(t *testing.T) {
	self := func(status string) []*calendar.EventAttendee {
		return []*calendar.EventAttendee{
			{Email: "other@example.com", ResponseStatus: "accepted"},
			{Email: "me@example.com", Self: true, ResponseStatus: status},
		}
	}

	tests := []struct {
		name string
		item *calendar.Event
		want core.EventStatus
	}{
		{name: "accepted", item: &calendar.Event{Attendees: self("accepted")}, want: core.StatusAccepted},
		{name: "declined", item: &calendar.Event{Attendees: self("declined")}, want: core.StatusRejected},
		{name: "tentative", item: &calendar.Event{Attendees: self("tentative")}, want: core.StatusTentative},
		{name: "needs action", item: &calendar.Event{Attendees: self("needsAction")}, want: core.StatusAwaiting},
		{name: "own event", item: &calendar.Event{}, want: core.StatusNoResponse},
		{name: "cancelled", item: &calendar.Event{Status: "cancelled"}, want: core.StatusRejected},
	}

	for _, tt := range tests {
		if got := parseEventStatus(tt.item); got != tt.want {
			t.Errorf("%s: parseEventStatus() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParseEvent(t *testing.T) {
	g := NewGoogleAdapter("google", "Google Calendar", "credentials.json", "token.json")

	item := &calendar.Event{
		Id:       "evt1",
		ICalUID:  "uid1@google.com",
		Summary:  "Zepp",
		Location: "Shinjuku",
		HtmlLink: "https://calendar.google.com/event?eid=evt1",
		Start:    &calendar.EventDateTime{DateTime: "2026-11-13T18:30:00Z"},
		End:      &calendar.EventDateTime{DateTime: "2026-11-13T21:30:00Z"},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{bracketProperty: "start"},
		},
	}

	got, ok := g.parseEvent(item, "primary", "Personal")
	if !ok {
		t.Fatal("parseEvent() rejected a valid event")
	}

	want := core.Event{
		ID:         "evt1",
		DedupeKey:  "uid1@google.com",
		ProviderID: "google",
		Calendar:   core.Calendar{ID: "primary", Name: "Personal"},
		Type:       core.TypeDefault,
		Title:      "Zepp",
		Location:   "Shinjuku",
		Status:     core.StatusNoResponse,
		URL:        "https://calendar.google.com/event?eid=evt1",
		Start:      time.Date(2026, time.November, 13, 18, 30, 0, 0, time.UTC),
		End:        time.Date(2026, time.November, 13, 21, 30, 0, 0, time.UTC),
		Metadata:   map[string]string{"bracket": "start"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseEvent() mismatch (-want +got):\n%s", diff)
	}

	ooo := &calendar.Event{
		Id:        "evt2",
		EventType: "outOfOffice",
		Start:     &calendar.EventDateTime{DateTime: "2026-11-13T00:00:00Z"},
		End:       &calendar.EventDateTime{DateTime: "2026-11-14T00:00:00Z"},
	}
	if got, ok := g.parseEvent(ooo, "primary", "Personal"); !ok || got.Type != core.TypeOutOfOffice || got.Metadata != nil {
		t.Errorf("parseEvent(outOfOffice) = %+v, %v", got, ok)
	}

	if _, ok := g.parseEvent(&calendar.Event{Id: "broken"}, "primary", "Personal"); ok {
		t.Error("parseEvent() should reject an event without times")
	}
}

package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/theakshaypant/gigcheck/internal/core"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// bracketProperty is the private extended property gigcheck stamps on the
// halves of a booked show.
const bracketProperty = "gigcheck-bracket"

// Scopes requested during auth. Events scope is needed to book shows.
var Scopes = []string{
	calendar.CalendarReadonlyScope,
	calendar.CalendarEventsScope,
}

type GoogleAdapter struct {
	id        string
	name      string
	client    *http.Client
	service   *calendar.Service
	config    *oauth2.Config
	credsFile string
	tokenFile string
	calendars map[string]string
}

func NewGoogleAdapter(id, name, credsFile, tokenFile string) *GoogleAdapter {
	return &GoogleAdapter{
		id:        id,
		name:      name,
		credsFile: credsFile,
		tokenFile: tokenFile,
		calendars: make(map[string]string),
	}
}

func (g *GoogleAdapter) ID() string   { return g.id }
func (g *GoogleAdapter) Name() string { return g.name }

// Login loads credentials and token, then initializes the Calendar service.
// Run `gigcheck auth` first to generate the token file.
func (g *GoogleAdapter) Login(ctx context.Context) error {
	b, err := os.ReadFile(g.credsFile)
	if err != nil {
		return fmt.Errorf("read credentials file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, Scopes...)
	if err != nil {
		return fmt.Errorf("parse credentials: %w", err)
	}
	g.config = config

	tok, err := tokenFromFile(g.tokenFile)
	if err != nil {
		return fmt.Errorf("read token file (run 'gigcheck auth' first): %w", err)
	}

	g.client = g.config.Client(ctx, tok)
	g.service, err = calendar.NewService(ctx, option.WithHTTPClient(g.client))
	if err != nil {
		return err
	}

	if err := g.loadCalendarList(ctx); err != nil {
		return fmt.Errorf("load calendar list: %w", err)
	}

	return nil
}

func (g *GoogleAdapter) loadCalendarList(ctx context.Context) error {
	calList, err := g.service.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return err
	}

	for _, cal := range calList.Items {
		g.calendars[cal.Id] = cal.Summary
	}
	return nil
}

// Calendars returns the calendars the user can read (ID -> Name).
func (g *GoogleAdapter) Calendars() map[string]string {
	return g.calendars
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

func (g *GoogleAdapter) FetchEvents(ctx context.Context, opts core.FetchOptions) ([]core.Event, error) {
	var results []core.Event

	calendarIDs := opts.CalendarIDs
	if len(calendarIDs) == 0 {
		for calID := range g.calendars {
			calendarIDs = append(calendarIDs, calID)
		}
	}

	for _, calID := range calendarIDs {
		if _, exists := g.calendars[calID]; !exists {
			log.Warn().Str("calendar", calID).Msg("unknown calendar, skipping")
			continue
		}
		events, err := g.fetchEventsFromCalendar(ctx, calID, opts)
		if err != nil {
			// A broken shared calendar should not hide the rest.
			log.Warn().Err(err).Str("calendar", calID).Msg("fetch failed, skipping calendar")
			continue
		}
		results = append(results, events...)
	}

	results = core.Deduplicate(results)
	core.SortByStart(results)

	return results, nil
}

func (g *GoogleAdapter) fetchEventsFromCalendar(ctx context.Context, calendarID string, opts core.FetchOptions) ([]core.Event, error) {
	// Google API requires RFC3339 format
	tMin := opts.Start.Format(time.RFC3339)
	tMax := opts.End.Format(time.RFC3339)

	var results []core.Event
	calendarName := g.calendars[calendarID]

	err := g.service.Events.List(calendarID).
		ShowDeleted(false).
		SingleEvents(true).
		TimeMin(tMin).
		TimeMax(tMax).
		OrderBy("startTime").
		Pages(ctx, func(page *calendar.Events) error {
			for _, item := range page.Items {
				event, ok := g.parseEvent(item, calendarID, calendarName)
				if !ok {
					log.Warn().Str("calendar", calendarID).Str("id", item.Id).Msg("event has unparseable times, skipping")
					continue
				}
				if opts.Match(event) {
					results = append(results, event)
				}
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("api call failed for calendar %s: %w", calendarID, err)
	}

	return results, nil
}

// parseEvent converts a Google Calendar event to the unified Event type.
func (g *GoogleAdapter) parseEvent(item *calendar.Event, calendarID, calendarName string) (core.Event, bool) {
	eventType := core.TypeDefault
	switch item.EventType {
	case "outOfOffice":
		eventType = core.TypeOutOfOffice
	case "focusTime":
		eventType = core.TypeFocusTime
	case "workingLocation":
		eventType = core.TypeWorkLocation
	}

	start, end, isAllDay, err := parseTimes(item.Start, item.End)
	if err != nil {
		return core.Event{}, false
	}

	event := core.Event{
		ID:         item.Id,
		DedupeKey:  item.ICalUID,
		ProviderID: g.ID(),
		Calendar: core.Calendar{
			ID:   calendarID,
			Name: calendarName,
		},
		Type:     eventType,
		Title:    item.Summary,
		Location: item.Location,
		Status:   parseEventStatus(item),
		URL:      item.HtmlLink,
		Start:    start,
		End:      end,
		IsAllDay: isAllDay,
	}

	if item.ExtendedProperties != nil {
		if kind, ok := item.ExtendedProperties.Private[bracketProperty]; ok {
			event.Metadata = map[string]string{"bracket": kind}
		}
	}

	return event, true
}

// parseTimes reads timed (RFC3339) or all-day (YYYY-MM-DD, exclusive end)
// boundaries.
func parseTimes(startDT, endDT *calendar.EventDateTime) (start, end time.Time, allDay bool, err error) {
	if startDT == nil || endDT == nil {
		return start, end, false, fmt.Errorf("missing start or end")
	}
	if startDT.DateTime != "" {
		if start, err = time.Parse(time.RFC3339, startDT.DateTime); err != nil {
			return
		}
		end, err = time.Parse(time.RFC3339, endDT.DateTime)
		return
	}
	if start, err = time.ParseInLocation("2006-01-02", startDT.Date, time.Local); err != nil {
		return
	}
	end, err = time.ParseInLocation("2006-01-02", endDT.Date, time.Local)
	return start, end, true, err
}

// parseEventStatus determines the user's response status for an event.
func parseEventStatus(item *calendar.Event) core.EventStatus {
	for _, attendee := range item.Attendees {
		if attendee.Self {
			switch attendee.ResponseStatus {
			case "declined":
				return core.StatusRejected
			case "tentative":
				return core.StatusTentative
			case "needsAction":
				return core.StatusAwaiting
			case "accepted":
				return core.StatusAccepted
			}
		}
	}

	if item.Status == "cancelled" {
		return core.StatusRejected
	}
	// Self-created, subscribed or imported events need no response
	return core.StatusNoResponse
}

// InsertEvent books e into calendarID. A bracket kind in e.Metadata is
// stored as a private extended property so later scans pair the halves
// without relying on the title.
func (g *GoogleAdapter) InsertEvent(ctx context.Context, calendarID string, e core.Event) (string, error) {
	if calendarID == "" {
		calendarID = "primary"
	}
	item := &calendar.Event{
		Summary:  e.Title,
		Location: e.Location,
		Start:    &calendar.EventDateTime{DateTime: e.Start.Format(time.RFC3339)},
		End:      &calendar.EventDateTime{DateTime: e.End.Format(time.RFC3339)},
	}
	if kind, ok := e.Metadata["bracket"]; ok {
		item.ExtendedProperties = &calendar.EventExtendedProperties{
			Private: map[string]string{bracketProperty: kind},
		}
	}

	created, err := g.service.Events.Insert(calendarID, item).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("insert event into %s: %w", calendarID, err)
	}
	return created.Id, nil
}

package outlook

import (
	"context"
	"fmt"
	"strings"
	"time"

	abstractions "github.com/microsoft/kiota-abstractions-go"
	msgraphcore "github.com/microsoftgraph/msgraph-sdk-go-core"
	"github.com/microsoftgraph/msgraph-sdk-go/models"
	"github.com/microsoftgraph/msgraph-sdk-go/users"
	"github.com/rs/zerolog/log"

	"github.com/theakshaypant/gigcheck/internal/core"
)

var selectFields = []string{
	"id", "iCalUId", "subject", "start", "end", "location",
	"isAllDay", "showAs", "responseStatus", "webLink", "isCancelled", "categories",
}

// FetchEvents retrieves events from the user's calendars matching the given options.
func (o *OutlookAdapter) FetchEvents(ctx context.Context, opts core.FetchOptions) ([]core.Event, error) {
	var results []core.Event

	calendarIDs := opts.CalendarIDs
	if len(calendarIDs) == 0 {
		for calID := range o.calendars {
			calendarIDs = append(calendarIDs, calID)
		}
	}

	for _, calID := range calendarIDs {
		if _, exists := o.calendars[calID]; !exists {
			continue
		}
		events, err := o.fetchEventsFromCalendar(ctx, calID, opts)
		if err != nil {
			log.Warn().Err(err).Str("calendar", calID).Msg("fetch failed, skipping calendar")
			continue
		}
		results = append(results, events...)
	}

	results = core.Deduplicate(results)
	core.SortByStart(results)

	return results, nil
}

func (o *OutlookAdapter) calendarView(ctx context.Context, calendarID string, opts core.FetchOptions) (models.EventCollectionResponseable, error) {
	startStr := opts.Start.UTC().Format(time.RFC3339)
	endStr := opts.End.UTC().Format(time.RFC3339)
	orderBy := []string{"start/dateTime"}
	top := int32(100)

	headers := abstractions.NewRequestHeaders()
	headers.Add("Prefer", `outlook.timezone="UTC"`)

	if calendarID == defaultCalendarID {
		return o.client.Me().CalendarView().Get(ctx, &users.ItemCalendarViewRequestBuilderGetRequestConfiguration{
			QueryParameters: &users.ItemCalendarViewRequestBuilderGetQueryParameters{
				StartDateTime: &startStr,
				EndDateTime:   &endStr,
				Select:        selectFields,
				Orderby:       orderBy,
				Top:           &top,
			},
			Headers: headers,
		})
	}
	return o.client.Me().Calendars().ByCalendarId(calendarID).CalendarView().Get(ctx, &users.ItemCalendarsItemCalendarViewRequestBuilderGetRequestConfiguration{
		QueryParameters: &users.ItemCalendarsItemCalendarViewRequestBuilderGetQueryParameters{
			StartDateTime: &startStr,
			EndDateTime:   &endStr,
			Select:        selectFields,
			Orderby:       orderBy,
			Top:           &top,
		},
		Headers: headers,
	})
}

func (o *OutlookAdapter) fetchEventsFromCalendar(ctx context.Context, calendarID string, opts core.FetchOptions) ([]core.Event, error) {
	result, err := o.calendarView(ctx, calendarID, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch calendar view: %w", err)
	}

	calendarName := o.calendars[calendarID]
	var results []core.Event

	pageIterator, err := msgraphcore.NewPageIterator[models.Eventable](
		result,
		o.client.GetAdapter(),
		models.CreateEventCollectionResponseFromDiscriminatorValue,
	)
	if err != nil {
		return nil, fmt.Errorf("create page iterator: %w", err)
	}

	err = pageIterator.Iterate(ctx, func(item models.Eventable) bool {
		if derefBool(item.GetIsCancelled()) {
			return true
		}
		event := parseGraphEvent(o.ID(), item, calendarID, calendarName)
		if event.Start.IsZero() || event.End.IsZero() {
			log.Warn().Str("calendar", calendarID).Str("id", event.ID).Msg("event has unparseable times, skipping")
			return true
		}
		if opts.Match(event) {
			results = append(results, event)
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return results, nil
}

// parseGraphEvent converts a Graph SDK event into a core.Event.
func parseGraphEvent(providerID string, item models.Eventable, calendarID, calendarName string) core.Event {
	eventType := core.TypeDefault
	if showAs := item.GetShowAs(); showAs != nil {
		switch *showAs {
		case models.OOF_FREEBUSYSTATUS:
			eventType = core.TypeOutOfOffice
		case models.WORKINGELSEWHERE_FREEBUSYSTATUS:
			eventType = core.TypeWorkLocation
		}
	}
	for _, cat := range item.GetCategories() {
		if lower := strings.ToLower(cat); lower == "focus time" || lower == "focustime" {
			eventType = core.TypeFocusTime
		}
	}

	location := ""
	if loc := item.GetLocation(); loc != nil {
		location = derefStr(loc.GetDisplayName())
	}

	return core.Event{
		ID:         derefStr(item.GetId()),
		DedupeKey:  derefStr(item.GetICalUId()),
		ProviderID: providerID,
		Calendar: core.Calendar{
			ID:   calendarID,
			Name: calendarName,
		},
		Type:     eventType,
		Title:    derefStr(item.GetSubject()),
		Location: location,
		Status:   parseSDKEventStatus(item),
		URL:      derefStr(item.GetWebLink()),
		Start:    parseSDKDateTime(item.GetStart()),
		End:      parseSDKDateTime(item.GetEnd()),
		IsAllDay: derefBool(item.GetIsAllDay()),
	}
}

// parseSDKDateTime converts a Graph DateTimeTimeZone to time.Time. Times
// are UTC because of the Prefer: outlook.timezone="UTC" header.
func parseSDKDateTime(dt models.DateTimeTimeZoneable) time.Time {
	if dt == nil || dt.GetDateTime() == nil {
		return time.Time{}
	}
	for _, layout := range []string{"2006-01-02T15:04:05.0000000", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, *dt.GetDateTime()); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// parseSDKEventStatus maps Outlook response status to core.EventStatus.
func parseSDKEventStatus(item models.Eventable) core.EventStatus {
	rs := item.GetResponseStatus()
	if rs == nil || rs.GetResponse() == nil {
		return core.StatusNoResponse
	}
	switch *rs.GetResponse() {
	case models.ACCEPTED_RESPONSETYPE, models.ORGANIZER_RESPONSETYPE:
		return core.StatusAccepted
	case models.DECLINED_RESPONSETYPE:
		return core.StatusRejected
	case models.TENTATIVELYACCEPTED_RESPONSETYPE:
		return core.StatusTentative
	case models.NOTRESPONDED_RESPONSETYPE:
		return core.StatusAwaiting
	default:
		return core.StatusNoResponse
	}
}

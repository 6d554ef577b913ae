// Package ics reads an iCalendar feed from a file or an http(s) URL and
// expands it into concrete occurrences.
package ics

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/theakshaypant/gigcheck/internal/core"
)

const fetchTimeout = 15 * time.Second

// ICSAdapter serves events from a single iCalendar source. The feed is
// loaded once by Login and expanded on every FetchEvents call.
type ICSAdapter struct {
	id     string
	name   string
	source string
	client *http.Client
	loc    *time.Location
	events []parsedEvent
}

// NewICSAdapter creates an adapter for source, a file path or http(s) URL.
// Floating times and all-day dates are read in loc (time.Local if nil).
func NewICSAdapter(id, name, source string, loc *time.Location) *ICSAdapter {
	if loc == nil {
		loc = time.Local
	}
	return &ICSAdapter{
		id:     id,
		name:   name,
		source: source,
		client: &http.Client{Timeout: fetchTimeout},
		loc:    loc,
	}
}

func (a *ICSAdapter) ID() string   { return a.id }
func (a *ICSAdapter) Name() string { return a.name }

// Calendars returns the single feed as a calendar.
func (a *ICSAdapter) Calendars() map[string]string {
	return map[string]string{a.source: a.name}
}

// Login reads and parses the feed.
func (a *ICSAdapter) Login(ctx context.Context) error {
	body, err := a.read(ctx)
	if err != nil {
		return fmt.Errorf("read ics source: %w", err)
	}
	events, err := parseICS(body, a.loc)
	if err != nil {
		return err
	}
	a.events = events
	log.Debug().Str("source", redact(a.source)).Int("events", len(events)).Msg("ics feed loaded")
	return nil
}

// LoadBytes parses an in-memory feed instead of reading the source.
func (a *ICSAdapter) LoadBytes(body []byte) error {
	events, err := parseICS(body, a.loc)
	if err != nil {
		return err
	}
	a.events = events
	return nil
}

func (a *ICSAdapter) read(ctx context.Context) ([]byte, error) {
	if !strings.HasPrefix(a.source, "http://") && !strings.HasPrefix(a.source, "https://") {
		return os.ReadFile(a.source)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.source, nil)
	if err != nil {
		return nil, err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// FetchEvents expands the feed into occurrences overlapping the range.
func (a *ICSAdapter) FetchEvents(ctx context.Context, opts core.FetchOptions) ([]core.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cal := core.Calendar{ID: a.source, Name: a.name}
	var results []core.Event
	for _, occ := range expand(a.events, opts.Start, opts.End) {
		event := occ.toCore(a.id, cal)
		if opts.Match(event) {
			results = append(results, event)
		}
	}

	core.SortByStart(results)
	return results, nil
}

// redact drops the query string, which for calendar feeds usually holds a
// private token.
func redact(source string) string {
	if i := strings.IndexByte(source, '?'); i >= 0 {
		return source[:i] + "?..."
	}
	return source
}

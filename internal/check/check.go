// Package check wires a calendar provider to the conflict scanner.
package check

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/theakshaypant/gigcheck/internal/conflict"
	"github.com/theakshaypant/gigcheck/internal/core"
)

// ErrNoArtists is returned for a show without any performer.
var ErrNoArtists = errors.New("show has no artists")

// fetchMargin widens the provider query so entries filed under a
// neighbouring day by midnight spill are still retrieved.
const fetchMargin = 24 * time.Hour

// Report is the outcome of checking one show.
type Report struct {
	Show      conflict.Show
	Window    conflict.Window
	Conflicts []conflict.Event
	// Provider events behind the conflicts, keyed by event ID
	Details map[string]core.Event
}

// HasConflicts reports whether anything clashes with the show.
func (r Report) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// Checker fetches calendar entries around shows and scans them.
type Checker struct {
	provider core.Provider
	opts     core.FetchOptions
	loc      *time.Location
	scanner  *conflict.Scanner
	now      func() time.Time
}

// Option customises a Checker.
type Option func(*Checker)

// WithLocation sets the attendee's zone used for day buckets.
func WithLocation(loc *time.Location) Option {
	return func(c *Checker) { c.loc = loc }
}

// WithLogger routes scanner warnings to logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Checker) { c.scanner.Logger = logger }
}

// WithClock overrides time.Now, which decides which entries are in the past.
func WithClock(now func() time.Time) Option {
	return func(c *Checker) { c.now = now }
}

// NewChecker returns a Checker reading from provider. opts supplies the
// calendar, type and status filters; its range is replaced per show.
func NewChecker(provider core.Provider, opts core.FetchOptions, options ...Option) *Checker {
	c := &Checker{
		provider: provider,
		opts:     opts,
		loc:      time.Local,
		scanner:  conflict.NewScanner(zerolog.Nop()),
		now:      time.Now,
	}
	for _, o := range options {
		o(c)
	}
	c.scanner.Location = c.loc
	return c
}

// Check reports the calendar entries clashing with show.
func (c *Checker) Check(ctx context.Context, show conflict.Show) (Report, error) {
	reports, err := c.CheckAll(ctx, []conflict.Show{show})
	if err != nil {
		return Report{}, err
	}
	return reports[0], nil
}

// CheckAll checks several shows with a single provider query spanning all
// of them.
func (c *Checker) CheckAll(ctx context.Context, shows []conflict.Show) ([]Report, error) {
	if len(shows) == 0 {
		return nil, nil
	}

	windows := make([]conflict.Window, len(shows))
	span := shows[0].Window()
	for i, show := range shows {
		if len(show.Artists) == 0 {
			return nil, fmt.Errorf("%s: %w", describe(show), ErrNoArtists)
		}
		windows[i] = show.Window()
		if windows[i].Start.Before(span.Start) {
			span.Start = windows[i].Start
		}
		if windows[i].End.After(span.End) {
			span.End = windows[i].End
		}
	}

	opts := c.opts
	opts.Start = span.Start.Add(-fetchMargin)
	opts.End = span.End.Add(fetchMargin)

	events, err := c.provider.FetchEvents(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch events from %s: %w", c.provider.Name(), err)
	}

	details := make(map[string]core.Event, len(events))
	converted := make([]conflict.Event, 0, len(events))
	for _, e := range events {
		details[e.ID] = e
		converted = append(converted, conflict.FromCore(e))
	}
	buckets := conflict.BucketByDay(converted, c.loc, c.now())

	reports := make([]Report, len(shows))
	for i, show := range shows {
		reports[i] = c.report(show, windows[i], buckets, details)
	}
	return reports, nil
}

// CheckBuckets scans pre-bucketed calendar data, e.g. a JSON dump, without
// touching the provider.
func (c *Checker) CheckBuckets(show conflict.Show, buckets conflict.DayBuckets) (Report, error) {
	if len(show.Artists) == 0 {
		return Report{}, fmt.Errorf("%s: %w", describe(show), ErrNoArtists)
	}
	return c.report(show, show.Window(), buckets, nil), nil
}

func (c *Checker) report(show conflict.Show, w conflict.Window, buckets conflict.DayBuckets, details map[string]core.Event) Report {
	found := c.scanner.Scan(w, buckets)
	r := Report{
		Show:      show,
		Window:    w,
		Conflicts: found,
		Details:   make(map[string]core.Event, len(found)),
	}
	for _, e := range found {
		if d, ok := details[e.ID]; ok {
			r.Details[e.ID] = d
		}
	}
	return r
}

func describe(show conflict.Show) string {
	if show.Venue != "" {
		return show.Venue
	}
	return "show at " + show.StartTime.Format(time.RFC3339)
}

package check

import (
	"context"
	"errors"
	"fmt"

	"github.com/theakshaypant/gigcheck/internal/conflict"
	"github.com/theakshaypant/gigcheck/internal/core"
)

// ErrWriteUnsupported is returned when the provider cannot create events.
var ErrWriteUnsupported = errors.New("provider cannot create events")

// Booking holds the IDs of the two entries a show was booked as.
type Booking struct {
	OpenID  string
	StartID string
}

// Book writes show into calendarID as an OPEN/START bracket pair tagged
// with their bracket kind.
func Book(ctx context.Context, p core.Provider, calendarID string, show conflict.Show) (Booking, error) {
	w, ok := p.(core.Writer)
	if !ok {
		return Booking{}, fmt.Errorf("%s: %w", p.Name(), ErrWriteUnsupported)
	}
	if show.Venue == "" {
		return Booking{}, errors.New("show needs a venue to be booked")
	}
	if len(show.Artists) == 0 {
		return Booking{}, ErrNoArtists
	}

	open, start := conflict.BracketPair(show)

	var b Booking
	var err error
	if b.OpenID, err = w.InsertEvent(ctx, calendarID, toCore(open, show)); err != nil {
		return Booking{}, fmt.Errorf("book open half: %w", err)
	}
	if b.StartID, err = w.InsertEvent(ctx, calendarID, toCore(start, show)); err != nil {
		return b, fmt.Errorf("book start half: %w", err)
	}
	return b, nil
}

func toCore(e conflict.Event, show conflict.Show) core.Event {
	return core.Event{
		Title:    e.Name,
		Location: show.Venue,
		Start:    e.Start,
		End:      e.End,
		Metadata: map[string]string{conflict.MetadataBracket: e.Label.Kind.String()},
	}
}

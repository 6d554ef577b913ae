package conflict

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Layouts accepted for timestamps in a bucket dump. Layouts without an
// offset are read in the caller's location.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

type rawEvent struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// DecodeBuckets reads a JSON object of day key to calendar entries, the
// shape calendar data is handed to the browser in. Entries whose start or
// end cannot be parsed are logged and left out.
func DecodeBuckets(r io.Reader, loc *time.Location, logger zerolog.Logger) (DayBuckets, error) {
	if loc == nil {
		loc = time.Local
	}
	var raw map[string][]rawEvent
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode day buckets: %w", err)
	}

	buckets := make(DayBuckets, len(raw))
	for key, entries := range raw {
		if _, err := ParseDay(key); err != nil {
			logger.Warn().Err(err).Msg("skipping bucket with malformed day key")
			continue
		}
		events := make([]Event, 0, len(entries))
		for _, re := range entries {
			start, serr := ParseTimestamp(re.Start, loc)
			end, eerr := ParseTimestamp(re.End, loc)
			if serr != nil || eerr != nil {
				logger.Warn().
					Str("day", key).
					Str("id", re.ID).
					Str("start", re.Start).
					Str("end", re.End).
					Msg("calendar entry has an unparseable timestamp, ignoring it")
				continue
			}
			events = append(events, NewEvent(re.ID, re.Name, start, end))
		}
		buckets[key] = events
	}
	return buckets, nil
}

// ParseTimestamp parses s with the first matching layout.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse timestamp %q", s)
}

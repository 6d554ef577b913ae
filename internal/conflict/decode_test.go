package conflict

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

func TestDecodeBuckets(t *testing.T) {
	const input = `{
  "2026-11-06": [
    {"id": "a", "name": "OPEN Trip", "start": "2026-11-06T22:00:00Z", "end": "2026-11-06T23:59:00Z"},
    {"id": "c", "name": "Dinner", "start": "2026-11-06T19:00", "end": "2026-11-06 20:30"},
    {"id": "bad", "name": "Broken", "start": "tomorrow", "end": "2026-11-06T21:00:00Z"}
  ],
  "2026-11-07": [
    {"id": "b", "name": "START Trip", "start": "2026-11-07T09:00:00+09:00", "end": "2026-11-07T10:00:00+09:00"}
  ],
  "next friday": [
    {"id": "x", "name": "Ignored", "start": "2026-11-13T19:00:00Z", "end": "2026-11-13T20:00:00Z"}
  ]
}`
	var logs bytes.Buffer
	got, err := DecodeBuckets(strings.NewReader(input), time.UTC, zerolog.New(&logs))
	if err != nil {
		t.Fatalf("DecodeBuckets() error = %v", err)
	}

	want := DayBuckets{
		"2026-11-06": {
			NewEvent("a", "OPEN Trip", nov(6, 22, 0), nov(6, 23, 59)),
			NewEvent("c", "Dinner", nov(6, 19, 0), nov(6, 20, 30)),
		},
		"2026-11-07": {
			NewEvent("b", "START Trip", nov(7, 0, 0), nov(7, 1, 0)),
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DecodeBuckets() mismatch (-want +got):\n%s", diff)
	}
	if n := strings.Count(logs.String(), `"level":"warn"`); n != 2 {
		t.Errorf("logged %d warnings, want 2:\n%s", n, logs.String())
	}
}

func TestDecodeBucketsInvalidJSON(t *testing.T) {
	for _, input := range []string{"", "[]", `{"2026-11-06": {"id": "a"}}`, "{"} {
		if _, err := DecodeBuckets(strings.NewReader(input), time.UTC, zerolog.Nop()); err == nil {
			t.Errorf("DecodeBuckets(%q) should fail", input)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)

	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2026-11-06T18:30:00Z", want: nov(6, 18, 30)},
		{in: "2026-11-06T18:30:00.5Z", want: nov(6, 18, 30).Add(500 * time.Millisecond)},
		{in: "2026-11-07T03:30:00+09:00", want: nov(6, 18, 30)},
		{in: "2026-11-07T03:30:00", want: nov(6, 18, 30)},
		{in: "2026-11-07T03:30", want: nov(6, 18, 30)},
		{in: "2026-11-07 03:30", want: nov(6, 18, 30)},
		{in: "", wantErr: true},
		{in: "18:30", wantErr: true},
		{in: "2026-11-06", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseTimestamp(tt.in, tokyo)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTimestamp(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !got.Equal(tt.want) {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

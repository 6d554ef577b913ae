package check

import (
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/theakshaypant/gigcheck/internal/conflict"
)

type rawShow struct {
	Venue   string   `yaml:"venue"`
	Open    string   `yaml:"open"`
	Start   string   `yaml:"start"`
	Artists []string `yaml:"artists"`
}

type showFile struct {
	rawShow `yaml:",inline"`
	Shows   []rawShow `yaml:"shows"`
}

// LoadShows reads a YAML show file. It holds either one show at the top
// level or a list under "shows":
//
//	shows:
//	  - venue: Zepp Shinjuku
//	    open: 2026-10-20T17:30
//	    start: 2026-10-20T18:30
//	    artists: [Band A, Band B]
//
// Times without an offset are read in loc.
func LoadShows(r io.Reader, loc *time.Location) ([]conflict.Show, error) {
	var f showFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("show file is empty")
		}
		return nil, fmt.Errorf("decode show file: %w", err)
	}

	raws := f.Shows
	if f.Open != "" || f.Start != "" {
		raws = append([]rawShow{f.rawShow}, raws...)
	}
	if len(raws) == 0 {
		return nil, errors.New("show file has no shows")
	}

	shows := make([]conflict.Show, 0, len(raws))
	for i, raw := range raws {
		show, err := raw.parse(loc)
		if err != nil {
			return nil, fmt.Errorf("show %d: %w", i+1, err)
		}
		shows = append(shows, show)
	}
	return shows, nil
}

func (r rawShow) parse(loc *time.Location) (conflict.Show, error) {
	open, err := conflict.ParseTimestamp(r.Open, loc)
	if err != nil {
		return conflict.Show{}, fmt.Errorf("open: %w", err)
	}
	start, err := conflict.ParseTimestamp(r.Start, loc)
	if err != nil {
		return conflict.Show{}, fmt.Errorf("start: %w", err)
	}
	return conflict.Show{
		Venue:     r.Venue,
		OpenTime:  open,
		StartTime: start,
		Artists:   r.Artists,
	}, nil
}

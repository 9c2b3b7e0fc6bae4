// Package ical reads events from iCalendar (.ics) files.
package ical

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/guilherme-santos/calendarposter/internal"
)

// Source is a provider whose calendar ProviderID is the path of an .ics file.
type Source struct {
	logger *slog.Logger
}

func NewSource(logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{logger: logger.With("provider", "ical")}
}

func (s Source) Events(ctx context.Context, cal *internal.Calendar, w internal.Window) (internal.Iterator, error) {
	f, err := os.Open(cal.ProviderID)
	if err != nil {
		return nil, fmt.Errorf("ical: opening calendar: %w", err)
	}
	defer f.Close()

	events, err := s.decode(ctx, cal, f, w)
	if err != nil {
		return nil, err
	}
	return internal.NewSliceIterator(events), nil
}

func (s Source) decode(ctx context.Context, cal *internal.Calendar, r io.Reader, w internal.Window) ([]*internal.Event, error) {
	logger := s.logger.With(internal.CalendarAttr(cal))

	var events []*internal.Event
	dec := ical.NewDecoder(r)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		icalCal, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ical: decoding calendar: %w", err)
		}

		for _, ev := range icalCal.Events() {
			e, err := newEvent(ev)
			if err != nil {
				logger.Debug("skipping event", "uid", propText(ev.Props, ical.PropUID), "error", err)
				continue
			}
			if e.Status == internal.Cancelled || !w.Contains(e.StartsAt) {
				continue
			}
			events = append(events, e)
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartsAt.Before(events[j].StartsAt)
	})
	logger.Debug("events loaded", "count", len(events))
	return events, nil
}

func newEvent(ev ical.Event) (*internal.Event, error) {
	start, err := ev.DateTimeStart(time.Local)
	if err != nil {
		return nil, fmt.Errorf("reading start: %w", err)
	}
	end, err := ev.DateTimeEnd(time.Local)
	if err != nil {
		end = start
	}

	status := internal.Confirmed
	if v := propText(ev.Props, ical.PropStatus); v != "" {
		status = internal.Status(strings.ToLower(v))
	}

	return &internal.Event{
		ID:          propText(ev.Props, ical.PropUID),
		Summary:     propText(ev.Props, ical.PropSummary),
		Description: propText(ev.Props, ical.PropDescription),
		StartsAt:    start,
		EndsAt:      end,
		Status:      status,
	}, nil
}

func propText(props ical.Props, name string) string {
	v, err := props.Text(name)
	if err != nil {
		return ""
	}
	return v
}

package google

import (
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/guilherme-santos/calendarposter/internal"
)

type eventOrError struct {
	e   *internal.Event
	err error
}

type eventIterator struct {
	events  chan eventOrError
	current eventOrError
}

func newEventIterator() *eventIterator {
	return &eventIterator{
		events: make(chan eventOrError),
	}
}

func (it *eventIterator) Next() (ok bool) {
	it.current, ok = <-it.events
	if it.current.err != nil {
		return false
	}
	return ok
}

func (it *eventIterator) Event() *internal.Event {
	c := it.current
	if c.e == nil && c.err == nil {
		panic("google: Event() called before Next()")
	}
	return c.e
}

func (it *eventIterator) Err() error {
	return it.current.err
}

func newEvent(event *calendar.Event) *internal.Event {
	return &internal.Event{
		ID:          event.Id,
		Summary:     event.Summary,
		Description: event.Description,
		StartsAt:    parseEventTime(event.Start),
		EndsAt:      parseEventTime(event.End),
		Status:      internal.Status(event.Status),
	}
}

// parseEventTime reads DateTime, falling back to the Date of all-day events,
// which start at midnight in the event's time zone.
func parseEventTime(dt *calendar.EventDateTime) time.Time {
	if dt == nil {
		return time.Time{}
	}
	if dt.DateTime != "" {
		t, _ := time.Parse(time.RFC3339, dt.DateTime)
		return t
	}
	loc := time.Local
	if dt.TimeZone != "" {
		if l, err := time.LoadLocation(dt.TimeZone); err == nil {
			loc = l
		}
	}
	t, _ := time.ParseInLocation(internal.DateFormat, dt.Date, loc)
	return t
}

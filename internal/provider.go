package internal

import (
	"context"
)

type Mux interface {
	Get(platform string) (Provider, error)
}

// Provider lists the events of a calendar. Events must be returned ordered by
// their start time.
type Provider interface {
	Events(_ context.Context, _ *Calendar, _ Window) (Iterator, error)
}

type Iterator interface {
	Next() bool
	Event() *Event
	Err() error
}

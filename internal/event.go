package internal

import "time"

type Event struct {
	ID          string
	Summary     string
	Description string
	StartsAt    time.Time
	EndsAt      time.Time
	Status      Status
}

type Status string

func (s Status) String() string {
	return string(s)
}

var (
	Confirmed Status = "confirmed"
	Tentative Status = "tentative"
	Cancelled Status = "cancelled"
)

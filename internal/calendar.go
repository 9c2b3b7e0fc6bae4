package internal

import "time"

type Account struct {
	Platform string
	Name     string
	Auth     string
}

func (a Account) ID() string {
	return a.Platform + "/" + a.Name
}

type Calendar struct {
	ProviderID string
	Account    Account
}

func (c Calendar) String() string {
	return c.Account.Platform + "/" + c.ProviderID
}

// Window is the half-open [From, To) range events are queried for.
type Window struct {
	From time.Time
	To   time.Time
}

// NewWindow returns the window starting skipDays after from and ending days after it.
func NewWindow(from time.Time, skipDays, days int) Window {
	return Window{
		From: from.AddDate(0, 0, skipDays),
		To:   from.AddDate(0, 0, days),
	}
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}

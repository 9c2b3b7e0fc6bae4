package calendar_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guilherme-santos/calendarposter/calendar"
	"github.com/guilherme-santos/calendarposter/internal"
)

type nopProvider struct{}

func (nopProvider) Events(context.Context, *internal.Calendar, internal.Window) (internal.Iterator, error) {
	return internal.NewSliceIterator(nil), nil
}

func TestMux(t *testing.T) {
	mux := calendar.NewMux()
	mux.Register("ical", nopProvider{})
	mux.Register("google", nopProvider{})

	p, err := mux.Get("google")
	require.NoError(t, err)
	assert.NotNil(t, p)

	_, err = mux.Get("outlook")
	assert.EqualError(t, err, `calendar "outlook" is not implemented`)

	assert.Equal(t, []string{"google", "ical"}, mux.Providers())
}

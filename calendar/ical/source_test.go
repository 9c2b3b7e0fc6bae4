package ical

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guilherme-santos/calendarposter/internal"
)

const testICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//calendarposter//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:late\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"SUMMARY:Late raid\r\n" +
	"DTSTART:20240305T020000Z\r\n" +
	"DTEND:20240305T040000Z\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:early\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"SUMMARY:Early raid\r\n" +
	"DESCRIPTION:Leads: Alice\\nLocation: Molten Core\\n\\nBring potions\r\n" +
	"DTSTART:20240302T010000Z\r\n" +
	"DTEND:20240302T030000Z\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:cancelled\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"SUMMARY:Cancelled raid\r\n" +
	"STATUS:CANCELLED\r\n" +
	"DTSTART:20240303T010000Z\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:outside\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"SUMMARY:Next month\r\n" +
	"DTSTART:20240402T010000Z\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

var testWindow = internal.Window{
	From: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	To:   time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC),
}

func TestSource_Events(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calendar.ics")
	require.NoError(t, os.WriteFile(path, []byte(testICS), 0o600))

	src := NewSource(internal.NewLogger(io.Discard, false))
	it, err := src.Events(context.Background(), &internal.Calendar{ProviderID: path}, testWindow)
	require.NoError(t, err)

	var events []*internal.Event
	for it.Next() {
		events = append(events, it.Event())
	}
	require.NoError(t, it.Err())
	require.Len(t, events, 2)

	assert.Equal(t, "early", events[0].ID)
	assert.Equal(t, "Early raid", events[0].Summary)
	assert.Equal(t, "Leads: Alice\nLocation: Molten Core\n\nBring potions", events[0].Description)
	assert.True(t, events[0].StartsAt.Equal(time.Date(2024, 3, 2, 1, 0, 0, 0, time.UTC)))
	assert.Equal(t, "late", events[1].ID)
}

func TestSource_EventsMissingFile(t *testing.T) {
	src := NewSource(nil)
	_, err := src.Events(context.Background(), &internal.Calendar{ProviderID: filepath.Join(t.TempDir(), "nope.ics")}, testWindow)
	assert.Error(t, err)
}

func TestSource_DecodeInvalid(t *testing.T) {
	src := NewSource(nil)
	_, err := src.decode(context.Background(), &internal.Calendar{}, strings.NewReader("not a calendar"), testWindow)
	assert.Error(t, err)
}

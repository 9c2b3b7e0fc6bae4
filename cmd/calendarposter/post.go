package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/guilherme-santos/calendarposter/calendar"
	"github.com/guilherme-santos/calendarposter/calendar/google"
	"github.com/guilherme-santos/calendarposter/calendar/ical"
	"github.com/guilherme-santos/calendarposter/internal"
	"github.com/guilherme-santos/calendarposter/internal/discord"
	"github.com/guilherme-santos/calendarposter/internal/poster"
	"github.com/guilherme-santos/calendarposter/internal/review"
	"github.com/guilherme-santos/calendarposter/internal/sqlite"
)

const icalProvider = "ical"

var PostCommand = _postCommand{
	Name:        "post",
	Description: "Posts upcoming calendar events to Discord",
	now:         time.Now,
}

type _postCommand struct {
	Name        string
	Description string

	now func() time.Time
}

func (c _postCommand) name() string        { return c.Name }
func (c _postCommand) description() string { return c.Description }

func (c _postCommand) Run(ctx context.Context, e *env, args []string) error {
	var (
		calendarID string
		webhookURL string
		platform   string
		days       int
		skipDays   int
		from       internal.Date
	)

	logger := internal.NewLogger(e.stdout, e.verbose)
	mux := c.newMux(e, logger)

	fs := flag.NewFlagSet(c.Name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.Usage = func() {
		w := fs.Output()
		fmt.Fprintf(w, "Usage of %s %s:\n", os.Args[0], fs.Name())
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Options:\n")
		fs.PrintDefaults()
	}
	fs.StringVar(&calendarID, "calendar", "", "calendar id to search for events on (or .ics file with -platform ical)")
	fs.StringVar(&calendarID, "c", "", "shorthand for -calendar")
	fs.StringVar(&webhookURL, "webhook-url", "", "url of the Discord webhook to post to")
	fs.StringVar(&webhookURL, "w", "", "shorthand for -webhook-url")
	fs.IntVar(&days, "days", 7, "maximum number of days to seek for events to post")
	fs.IntVar(&days, "d", 7, "shorthand for -days")
	fs.IntVar(&skipDays, "skip-days", 0, "number of days to skip when seeking for events to post")
	fs.IntVar(&skipDays, "s", 0, "shorthand for -skip-days")
	fs.StringVar(&platform, "platform", "", "calendar platform: "+strings.Join(mux.Providers(), " or "))
	fs.Var(&from, "from", "seek events from this date instead of now (e.g. 2024-03-01)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if days < 0 {
		return errors.New("please specify a positive number of days")
	}
	if skipDays >= days {
		return errors.New("skip days must be less than seek days")
	}

	cfg := e.cfg
	if calendarID == "" {
		calendarID = cfg.Calendar
	}
	if calendarID == "" {
		return errors.New("no calendar passed")
	}
	if webhookURL == "" {
		webhookURL = cfg.WebhookURL
	}
	if webhookURL == "" {
		return errors.New("no webhook url passed")
	}
	if platform == "" {
		platform = cfg.Platform
	}

	// Remembered for the next runs.
	cfg.Calendar = calendarID
	cfg.WebhookURL = webhookURL
	cfg.Platform = platform

	cal := &internal.Calendar{
		ProviderID: calendarID,
		Account: internal.Account{
			Platform: platform,
			Name:     cfg.Account,
		},
	}
	provider, err := mux.Get(platform)
	if err != nil {
		return err
	}

	start := c.now().UTC()
	if !from.IsZero() {
		start = from.Time
	}
	window := internal.NewWindow(start, skipDays, days)

	p := poster.New(
		logger,
		review.NewPrompter(e.stdin, e.stdout),
		discord.NewWebhook(cfg.Username),
	)
	report, err := postEvents(ctx, p, provider, cal, window, webhookURL)
	if err != nil {
		return err
	}
	if report.Aborted {
		return nil
	}

	if err := cfg.Save(); err != nil {
		logger.Warn("Unable to save config", "error", err)
	}
	return nil
}

// postEvents reviews and posts the events of cal. The provider stops listing
// events as soon as the posting returns, aborted or not.
func postEvents(
	ctx context.Context,
	p *poster.Poster,
	provider internal.Provider,
	cal *internal.Calendar,
	w internal.Window,
	target string,
) (poster.Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	it, err := provider.Events(ctx, cal, w)
	if err != nil {
		return poster.Report{}, fmt.Errorf("unable to get events from %s: %v", cal, err)
	}
	return p.Post(ctx, it, w, target)
}

func (c _postCommand) newMux(e *env, logger *slog.Logger) *calendar.Mux {
	mux := calendar.NewMux()
	mux.Register(icalProvider, ical.NewSource(logger))
	mux.Register(googleProvider, googleCalendar{env: e, logger: logger})
	return mux
}

// googleCalendar loads the stored credentials of the account when the events
// are requested.
type googleCalendar struct {
	env    *env
	logger *slog.Logger
}

func (g googleCalendar) Events(ctx context.Context, cal *internal.Calendar, w internal.Window) (internal.Iterator, error) {
	db, err := sql.Open(sqlite.DriverName, g.env.dbFilename)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	storage := sqlite.NewStorage(db)

	acc, err := storage.Account(ctx, cal.Account.ID())
	if errors.Is(err, sqlite.ErrAccountNotFound) {
		return nil, errors.New("cannot read calendar as the CLI is not authenticated, please run the 'auth' command")
	}
	if err != nil {
		return nil, fmt.Errorf("reading account: %v", err)
	}
	cal.Account = *acc

	credFile, err := os.ReadFile(g.env.clientIDFile)
	if err != nil {
		return nil, fmt.Errorf("reading client id file: %v", err)
	}
	client, err := google.NewClient(credFile, g.logger)
	if err != nil {
		return nil, err
	}
	return client.Events(ctx, cal, w)
}

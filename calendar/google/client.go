package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/guilherme-santos/calendarposter/internal"
)

const (
	callbackAddr = "localhost:8080"
	callbackPath = "/calendarposter"

	// maxResults is the page size asked to the API.
	maxResults = 50
)

type Client struct {
	oauthCfg *oauth2.Config
	logger   *slog.Logger
	svcOpts  []option.ClientOption
}

func NewClient(credJSON []byte, logger *slog.Logger, opts ...option.ClientOption) (*Client, error) {
	oauthCfg, err := google.ConfigFromJSON(credJSON, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("google: parsing credentials file: %v", err)
	}
	oauthCfg.RedirectURL = "http://" + callbackAddr + callbackPath

	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		oauthCfg: oauthCfg,
		logger:   logger.With("provider", "google"),
		svcOpts:  opts,
	}, nil
}

var defaultSleep = 5 * time.Second

// Events lists the single (expanded) events starting inside w, ordered by
// start time.
func (c Client) Events(ctx context.Context, cal *internal.Calendar, w internal.Window) (internal.Iterator, error) {
	svc, err := c.calendarSvc(ctx, cal)
	if err != nil {
		return nil, err
	}
	eventsCall := svc.Events.
		List(cal.ProviderID).
		Context(ctx).
		ShowDeleted(false).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(maxResults).
		TimeMin(w.From.Format(time.RFC3339)).
		TimeMax(w.To.Format(time.RFC3339))

	it := newEventIterator()
	go c.events(ctx, cal, eventsCall, it.events)
	return it, nil
}

func (c Client) events(
	ctx context.Context,
	cal *internal.Calendar,
	call *calendar.EventsListCall,
	eventCh chan eventOrError,
) {
	logger := c.logger.With(internal.CalendarAttr(cal))
	logger.Debug("checking for events")

	defer close(eventCh)

	send := func(e eventOrError) bool {
		select {
		case eventCh <- e:
			return true
		case <-ctx.Done():
			return false
		}
	}

	var (
		nextPageToken string
		hasEvents     bool
	)

	for {
		events, err := call.PageToken(nextPageToken).Do()
		if err != nil {
			if shouldRetry(err) && sleep(ctx, defaultSleep) {
				continue
			}
			logger.Debug("unable to get list of events", "error", err)
			send(eventOrError{err: err})
			return
		}

		if !hasEvents {
			hasEvents = len(events.Items) > 0
		}

		for _, item := range events.Items {
			if !send(eventOrError{e: newEvent(item)}) {
				return
			}
		}
		nextPageToken = events.NextPageToken
		if nextPageToken == "" {
			break
		}
	}
	if !hasEvents {
		logger.Debug("no events found in the window")
	}
}

// Login runs the OAuth2 consent flow. authURL is called with the link the
// user must open; the code is received on a local callback server.
func (c Client) Login(ctx context.Context, authURL func(string)) (*oauth2.Token, error) {
	state := fmt.Sprintf("calendarposter-%d", time.Now().UTC().Nanosecond())
	authURL(c.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce))

	lis, err := net.Listen("tcp", callbackAddr)
	if err != nil {
		return nil, fmt.Errorf("google: listening for callback: %w", err)
	}
	return c.waitToken(ctx, lis, state)
}

func (c Client) waitToken(ctx context.Context, lis net.Listener, state string) (*oauth2.Token, error) {
	mux := http.NewServeMux()
	server := &http.Server{
		Handler: mux,
	}

	var (
		token   *oauth2.Token
		authErr error
	)

	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			go server.Shutdown(context.Background())
		}()

		query := req.URL.Query()
		if query.Get("state") != state {
			authErr = errors.New("oauth link is not valid")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		token, authErr = c.oauthCfg.Exchange(ctx, query.Get("code"))
		if authErr != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintln(w, "Unable to retrieve token:", authErr)
			return
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "All good, you can close this window!")
	})

	go func() {
		<-ctx.Done()
		server.Close()
	}()

	svrErr := server.Serve(lis)
	if svrErr != nil && svrErr != http.ErrServerClosed {
		return nil, svrErr
	}
	if err := ctx.Err(); err != nil && token == nil && authErr == nil {
		return nil, err
	}
	if authErr != nil {
		return nil, authErr
	}
	return token, nil
}

func (c Client) calendarSvc(ctx context.Context, cal *internal.Calendar) (*calendar.Service, error) {
	var tok *oauth2.Token
	err := json.Unmarshal([]byte(cal.Account.Auth), &tok)
	if err != nil {
		return nil, fmt.Errorf("google: decoding token of %s: %v", cal.Account.ID(), err)
	}
	opts := append([]option.ClientOption{
		option.WithHTTPClient(c.oauthCfg.Client(ctx, tok)),
	}, c.svcOpts...)
	return calendar.NewService(ctx, opts...)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func shouldRetry(err error) bool {
	return errIsReason(err, "rateLimitExceeded")
}

func errIsReason(err error, reason string) bool {
	var gErr *googleapi.Error
	if !errors.As(err, &gErr) {
		return false
	}

	for _, err := range gErr.Errors {
		switch err.Reason {
		case reason:
			return true
		}
	}
	return false
}

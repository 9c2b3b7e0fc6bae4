// Package poster drives the review of upcoming events and the delivery of the
// approved ones.
package poster

import (
	"context"
	"errors"
	"log/slog"

	"github.com/guilherme-santos/calendarposter/internal"
	"github.com/guilherme-santos/calendarposter/internal/attribute"
	"github.com/guilherme-santos/calendarposter/internal/discord"
	"github.com/guilherme-santos/calendarposter/internal/review"
)

type (
	Event  = internal.Event
	Window = internal.Window
)

type Reviewer interface {
	Review(context.Context, *Event) (review.Decision, error)
}

type Transport interface {
	Send(_ context.Context, target string, _ *discord.Message) error
}

// Report summarizes one run.
type Report struct {
	// Approved holds the approved events in review order, including the ones
	// left undelivered by an abort.
	Approved  []*Event
	Delivered int
	Failed    int
	Aborted   bool
}

type Poster struct {
	logger    *slog.Logger
	reviewer  Reviewer
	transport Transport
}

func New(logger *slog.Logger, reviewer Reviewer, transport Transport) *Poster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poster{
		logger:    logger,
		reviewer:  reviewer,
		transport: transport,
	}
}

// Post asks for a decision on every event of it, in order, then delivers the
// approved ones to target. An abort stops the review and nothing is
// delivered. A failed delivery doesn't stop the next ones.
func (p Poster) Post(ctx context.Context, it internal.Iterator, w Window, target string) (Report, error) {
	var report Report

	p.logger.Debug("Reviewing events", "from", w.From, "to", w.To)

	for it.Next() {
		event := it.Event()

		d, err := p.reviewer.Review(ctx, event)
		if err != nil {
			p.logger.Info("Aborting posting, no decision could be read", "error", err)
			report.Aborted = true
			return report, err
		}

		switch d {
		case review.Approve:
			report.Approved = append(report.Approved, event)
		case review.Reject:
			p.logger.Debug("Skipping event", "event_id", event.ID, "summary", event.Summary)
		case review.Abort:
			p.logger.Info("Aborting posting, quitting...")
			report.Aborted = true
			return report, nil
		}
	}
	if err := it.Err(); err != nil {
		p.logger.Error("Unable to get list of events", "error", err)
		return report, err
	}

	if len(report.Approved) == 0 {
		p.logger.Info("No events to publish, quitting...")
		return report, nil
	}

	p.logger.Info("Posting events", "count", len(report.Approved), "target", target)

	for _, event := range report.Approved {
		if err := p.deliver(ctx, event, target); err != nil {
			report.Failed++
			continue
		}
		report.Delivered++
	}

	if report.Failed > 0 {
		p.logger.Warn("Some events couldn't be posted", "delivered", report.Delivered, "failed", report.Failed)
	} else {
		p.logger.Info("Webhook publishes completed successfully!", "delivered", report.Delivered)
	}
	return report, nil
}

func (p Poster) deliver(ctx context.Context, event *Event, target string) error {
	logger := p.logger.With("event_id", event.ID, "summary", event.Summary)

	msg, err := discord.NewMessage(event, attribute.Parse(event.Description))
	if err != nil {
		var missingErr *discord.MissingAttributeError
		if errors.As(err, &missingErr) {
			logger.Error("Unable to build message, attribute missing", "attribute", missingErr.Key)
		} else {
			logger.Error("Unable to build message", "error", err)
		}
		return err
	}

	err = p.transport.Send(ctx, target, msg)
	if err != nil {
		logger.Error("Unable to post event", "error", err)
		return err
	}
	logger.Debug("Event posted")
	return nil
}

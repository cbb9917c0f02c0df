// Package poller runs the periodic scan cycle over all registered alerts.
package poller

import (
	"context"
	"log/slog"
	"time"

	"buyee_bot/internal/dedup"
	"buyee_bot/internal/model"
	"buyee_bot/internal/storage"
)

// Notifier is the interface for dispatching listing notifications.
// Delivery failures are logged and swallowed by the implementation; a
// failed notification is not retried.
type Notifier interface {
	SendListing(chatID int64, listing model.Listing)
}

// Scanner is the interface for scanning one marketplace source.
type Scanner interface {
	Source() model.Source
	Scan(ctx context.Context, alert model.Alert, page int) ([]model.Listing, error)
}

// Poller periodically scans every source for every registered alert and
// forwards unseen listings to the notifier.
type Poller struct {
	store    storage.Storage
	scanners []Scanner
	seen     *dedup.Cache
	notifier Notifier
	log      *slog.Logger
	interval time.Duration
}

// New creates a Poller that runs a scan cycle every interval.
func New(store storage.Storage, scanners []Scanner, seen *dedup.Cache, notifier Notifier, interval time.Duration, log *slog.Logger) *Poller {
	return &Poller{
		store:    store,
		scanners: scanners,
		seen:     seen,
		notifier: notifier,
		log:      log,
		interval: interval,
	}
}

// Run starts the poll loop, blocking until ctx is cancelled. The first
// cycle starts immediately.
func (p *Poller) Run(ctx context.Context) {
	p.runCycle(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.runCycle(ctx)
		}
	}
}

// runCycle sweeps the dedup cache once, snapshots the alert list, and
// processes every alert through every source. Alerts registered mid-cycle
// are picked up next cycle.
func (p *Poller) runCycle(ctx context.Context) {
	p.seen.Sweep(time.Now())

	alerts, err := p.store.ListAlerts(ctx)
	if err != nil {
		p.log.Error("list alerts", "error", err)
		return
	}

	p.log.Info("starting alert check cycle", "alerts", len(alerts))

	for _, alert := range alerts {
		if ctx.Err() != nil {
			return
		}
		p.processAlert(ctx, alert)
	}

	p.log.Info("completed alert check cycle", "next_check_in", p.interval)
}

// processAlert scans every source for one alert. A failure on one source
// or one listing never blocks the rest.
func (p *Poller) processAlert(ctx context.Context, alert model.Alert) {
	p.log.Debug("processing alert", "name", alert.Name, "user_id", alert.UserID, "chat_id", alert.ChatID)

	for _, sc := range p.scanners {
		listings, err := sc.Scan(ctx, alert, 1)
		if err != nil {
			p.log.Error("scan source", "source", sc.Source(), "alert", alert.Name, "error", err)
			continue
		}

		for _, listing := range listings {
			// Overlapping alerts can surface the same listing twice in
			// one cycle; the first dispatch wins.
			if p.seen.HasSeen(listing.URL) {
				continue
			}
			p.notifier.SendListing(alert.ChatID, listing)
			p.log.Info("new item found", "source", listing.Source, "url", listing.URL)
			p.seen.MarkSeen(listing.URL, time.Now())
		}
	}
}

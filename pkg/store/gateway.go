package store

import (
	"context"

	"github.com/SafeHarborHQ/SafeHarbor/pkg/domain/activity"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/domain/flagged"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/domain/reveal"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

// Gateway fronts the two backends. The remote store is preferred whenever it
// was reachable at startup; a write that fails against it is re-routed to the
// local fallback so the event is never dropped. Failover is per write, not a
// mode switch.
type Gateway struct {
	logger *logrus.Logger
	remote Store
	local  Store
}

// NewGateway builds the gateway. remote may be nil when postgres was
// unreachable at startup; everything then serves from local.
func NewGateway(remote, local Store, logger *logrus.Logger) *Gateway {
	return &Gateway{
		logger: logger,
		remote: remote,
		local:  local,
	}
}

// Active names the backend that reads are served from.
func (g *Gateway) Active() string { return g.active().Name() }

func (g *Gateway) active() Store {
	if g.remote != nil {
		return g.remote
	}
	return g.local
}

// StoreFlagged appends the event and reports which backend kept it.
func (g *Gateway) StoreFlagged(ctx context.Context, e *flagged.Event) (string, error) {
	if g.remote != nil {
		if err := g.remote.AppendFlagged(ctx, e); err == nil {
			prometheus.EventsStoredTotal.WithLabelValues("flagged_events", g.remote.Name()).Inc()
			return g.remote.Name(), nil
		} else {
			g.fellBack("flagged_events", err)
		}
	}
	if err := g.local.AppendFlagged(ctx, e); err != nil {
		return "", err
	}
	prometheus.EventsStoredTotal.WithLabelValues("flagged_events", g.local.Name()).Inc()
	return g.local.Name(), nil
}

func (g *Gateway) ListFlagged(ctx context.Context, f flagged.Filter) ([]flagged.Event, error) {
	return g.active().ListFlagged(ctx, f)
}

// StoreActivity appends one log, de-duplicating by client-supplied id.
func (g *Gateway) StoreActivity(ctx context.Context, log *activity.Log) (added bool, total int, storage string, err error) {
	if g.remote != nil {
		added, total, err = g.remote.AppendActivity(ctx, log)
		if err == nil {
			if added {
				prometheus.EventsStoredTotal.WithLabelValues("activity_logs", g.remote.Name()).Inc()
			}
			return added, total, g.remote.Name(), nil
		}
		g.fellBack("activity_logs", err)
	}
	added, total, err = g.local.AppendActivity(ctx, log)
	if err != nil {
		return false, 0, "", err
	}
	if added {
		prometheus.EventsStoredTotal.WithLabelValues("activity_logs", g.local.Name()).Inc()
	}
	return added, total, g.local.Name(), nil
}

// StoreActivityBatch syncs a batch of logs for one family.
func (g *Gateway) StoreActivityBatch(ctx context.Context, familyID string, logs []activity.Log) (added, total int, storage string, err error) {
	if g.remote != nil {
		added, total, err = g.remote.AppendActivityBatch(ctx, familyID, logs)
		if err == nil {
			for i := 0; i < added; i++ {
				prometheus.EventsStoredTotal.WithLabelValues("activity_logs", g.remote.Name()).Inc()
			}
			return added, total, g.remote.Name(), nil
		}
		g.fellBack("activity_logs", err)
	}
	added, total, err = g.local.AppendActivityBatch(ctx, familyID, logs)
	if err != nil {
		return 0, 0, "", err
	}
	for i := 0; i < added; i++ {
		prometheus.EventsStoredTotal.WithLabelValues("activity_logs", g.local.Name()).Inc()
	}
	return added, total, g.local.Name(), nil
}

func (g *Gateway) ListActivity(ctx context.Context, familyID, userEmail string, limit int) ([]activity.Log, int, error) {
	return g.active().ListActivity(ctx, familyID, userEmail, limit)
}

// StoreReveal appends a blur-reveal event.
func (g *Gateway) StoreReveal(ctx context.Context, e *reveal.Event) (string, error) {
	if g.remote != nil {
		if err := g.remote.AppendReveal(ctx, e); err == nil {
			prometheus.EventsStoredTotal.WithLabelValues("blur_reveal_events", g.remote.Name()).Inc()
			return g.remote.Name(), nil
		} else {
			g.fellBack("blur_reveal_events", err)
		}
	}
	if err := g.local.AppendReveal(ctx, e); err != nil {
		return "", err
	}
	prometheus.EventsStoredTotal.WithLabelValues("blur_reveal_events", g.local.Name()).Inc()
	return g.local.Name(), nil
}

func (g *Gateway) ListReveals(ctx context.Context, f reveal.Filter) ([]reveal.Event, error) {
	return g.active().ListReveals(ctx, f)
}

func (g *Gateway) fellBack(collection string, err error) {
	prometheus.StorageFallbacksTotal.Inc()
	g.logger.WithError(err).WithField("collection", collection).
		Warn("remote store write failed, falling back to local store")
}

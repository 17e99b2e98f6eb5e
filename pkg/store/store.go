package store

import (
	"context"

	"github.com/SafeHarborHQ/SafeHarbor/pkg/domain/activity"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/domain/flagged"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/domain/reveal"
)

// Store is one persistence backend for the three bounded event collections.
// Both backends expose the identical contract; callers cannot tell them
// apart except by Name.
type Store interface {
	Name() string

	AppendFlagged(ctx context.Context, e *flagged.Event) error
	ListFlagged(ctx context.Context, f flagged.Filter) ([]flagged.Event, error)

	AppendActivity(ctx context.Context, log *activity.Log) (added bool, total int, err error)
	AppendActivityBatch(ctx context.Context, familyID string, logs []activity.Log) (added, total int, err error)
	ListActivity(ctx context.Context, familyID, userEmail string, limit int) ([]activity.Log, int, error)

	AppendReveal(ctx context.Context, e *reveal.Event) error
	ListReveals(ctx context.Context, f reveal.Filter) ([]reveal.Event, error)
}

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/SafeHarborHQ/SafeHarbor/pkg/common"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/domain/activity"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/domain/flagged"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/domain/reveal"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	flaggedFile  = "flagged_events.json"
	activityFile = "activity_logs.json"
	revealFile   = "blur_reveals.json"
)

// LocalStore is the durable local fallback: bounded in-memory collections
// mirrored to JSON files in the data directory. Each append flushes its
// collection inside the collection's lock, so other callers never observe a
// partially-trimmed state.
type LocalStore struct {
	logger  *logrus.Logger
	dataDir string

	flagged *Collection[flagged.Event]
	reveals *Collection[reveal.Event]

	activityMu sync.Mutex
	partitions map[string]*activityPartition
}

type activityPartition struct {
	logs []activity.Log
	ids  map[string]struct{}
}

func NewLocalStore(dataDir string, logger *logrus.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &LocalStore{
		logger:     logger,
		dataDir:    dataDir,
		flagged:    NewCollection[flagged.Event](common.FlaggedEventCap),
		reveals:    NewCollection[reveal.Event](common.RevealEventCap),
		partitions: make(map[string]*activityPartition),
	}
	s.loadMirrors()
	return s, nil
}

func (s *LocalStore) Name() string { return common.StorageLocal }

func (s *LocalStore) AppendFlagged(ctx context.Context, e *flagged.Event) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.DetectedAt.IsZero() {
		e.DetectedAt = time.Now().UTC()
	}
	return s.flagged.Append(*e, func(snapshot []flagged.Event) error {
		return s.writeMirror(flaggedFile, snapshot)
	})
}

func (s *LocalStore) ListFlagged(ctx context.Context, f flagged.Filter) ([]flagged.Event, error) {
	snapshot := s.flagged.Snapshot()
	results := make([]flagged.Event, 0, len(snapshot))
	for i := range snapshot {
		if f.Matches(&snapshot[i]) {
			results = append(results, snapshot[i])
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DetectedAt.After(results[j].DetectedAt)
	})
	if f.Limit > 0 && len(results) > f.Limit {
		results = results[:f.Limit]
	}
	return results, nil
}

func (s *LocalStore) AppendActivity(ctx context.Context, log *activity.Log) (bool, int, error) {
	s.activityMu.Lock()
	defer s.activityMu.Unlock()

	added := s.appendActivityLocked(log)
	total := len(s.partition(log.FamilyID).logs)
	if !added {
		return false, total, nil
	}
	return true, total, s.flushActivityLocked()
}

func (s *LocalStore) AppendActivityBatch(ctx context.Context, familyID string, logs []activity.Log) (int, int, error) {
	s.activityMu.Lock()
	defer s.activityMu.Unlock()

	added := 0
	for i := range logs {
		logs[i].FamilyID = familyID
		if s.appendActivityLocked(&logs[i]) {
			added++
		}
	}
	total := len(s.partition(familyID).logs)
	if added == 0 {
		return 0, total, nil
	}
	return added, total, s.flushActivityLocked()
}

func (s *LocalStore) ListActivity(ctx context.Context, familyID, userEmail string, limit int) ([]activity.Log, int, error) {
	s.activityMu.Lock()
	defer s.activityMu.Unlock()

	part, ok := s.partitions[familyID]
	if !ok {
		return []activity.Log{}, 0, nil
	}

	results := make([]activity.Log, 0, len(part.logs))
	for _, l := range part.logs {
		if userEmail != "" && l.UserEmail != userEmail {
			continue
		}
		results = append(results, l)
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Timestamp.After(results[j].Timestamp)
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, len(part.logs), nil
}

func (s *LocalStore) AppendReveal(ctx context.Context, e *reveal.Event) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.RevealedAt.IsZero() {
		e.RevealedAt = time.Now().UTC()
	}
	return s.reveals.Append(*e, func(snapshot []reveal.Event) error {
		return s.writeMirror(revealFile, snapshot)
	})
}

func (s *LocalStore) ListReveals(ctx context.Context, f reveal.Filter) ([]reveal.Event, error) {
	snapshot := s.reveals.Snapshot()
	results := make([]reveal.Event, 0, len(snapshot))
	for i := range snapshot {
		if f.Matches(&snapshot[i]) {
			results = append(results, snapshot[i])
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RevealedAt.After(results[j].RevealedAt)
	})
	if f.Limit > 0 && len(results) > f.Limit {
		results = results[:f.Limit]
	}
	return results, nil
}

// appendActivityLocked applies the per-family cap and the id de-dup rule.
// Caller holds activityMu.
func (s *LocalStore) appendActivityLocked(log *activity.Log) bool {
	part := s.partition(log.FamilyID)
	if _, dup := part.ids[log.ID]; dup {
		return false
	}
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now().UTC()
	}
	part.logs = append(part.logs, *log)
	part.ids[log.ID] = struct{}{}
	for len(part.logs) > common.ActivityLogFamilyCap {
		delete(part.ids, part.logs[0].ID)
		part.logs = append([]activity.Log(nil), part.logs[1:]...)
	}
	return true
}

func (s *LocalStore) partition(familyID string) *activityPartition {
	part, ok := s.partitions[familyID]
	if !ok {
		part = &activityPartition{ids: make(map[string]struct{})}
		s.partitions[familyID] = part
	}
	return part
}

func (s *LocalStore) flushActivityLocked() error {
	byFamily := make(map[string][]activity.Log, len(s.partitions))
	for familyID, part := range s.partitions {
		byFamily[familyID] = part.logs
	}
	return s.writeMirror(activityFile, byFamily)
}

func (s *LocalStore) writeMirror(name string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	path := filepath.Join(s.dataDir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return os.Rename(tmp, path)
}

// loadMirrors restores whatever persisted state survives a restart. Missing
// or corrupt mirrors are logged and skipped; the store starts empty then.
func (s *LocalStore) loadMirrors() {
	var flaggedEvents []flagged.Event
	if s.readMirror(flaggedFile, &flaggedEvents) {
		s.flagged.Replace(flaggedEvents)
	}

	var reveals []reveal.Event
	if s.readMirror(revealFile, &reveals) {
		s.reveals.Replace(reveals)
	}

	var byFamily map[string][]activity.Log
	if s.readMirror(activityFile, &byFamily) {
		s.activityMu.Lock()
		for familyID, logs := range byFamily {
			part := s.partition(familyID)
			if len(logs) > common.ActivityLogFamilyCap {
				logs = logs[len(logs)-common.ActivityLogFamilyCap:]
			}
			part.logs = logs
			for _, l := range logs {
				part.ids[l.ID] = struct{}{}
			}
		}
		s.activityMu.Unlock()
	}
}

func (s *LocalStore) readMirror(name string, out interface{}) bool {
	path := filepath.Join(s.dataDir, name)
	raw, err := os.ReadFile(path) // #nosec G304 -- operator-configured data dir
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.WithError(err).WithField("file", name).Warn("failed to read local mirror")
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.logger.WithError(err).WithField("file", name).Warn("ignoring corrupt local mirror")
		return false
	}
	return true
}

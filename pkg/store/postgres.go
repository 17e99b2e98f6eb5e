package store

import (
	"context"
	"fmt"
	"time"

	"github.com/SafeHarborHQ/SafeHarbor/pkg/common"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/database"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/domain/activity"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/domain/flagged"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/domain/reveal"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

// PostgresStore is the remote durable backend. Capacity trimming happens
// inside the same transaction as the insert, so the caps hold even with
// concurrent writers.
type PostgresStore struct {
	db *database.DB
}

func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Name() string { return common.StoragePostgres }

func (s *PostgresStore) AppendFlagged(ctx context.Context, e *flagged.Event) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.DetectedAt.IsZero() {
		e.DetectedAt = time.Now().UTC()
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	if err := tx.Create(e).Error; err != nil {
		return fmt.Errorf("failed to store flagged event: %w", err)
	}

	keep := tx.Model(&flagged.Event{}).
		Select("id").
		Order("detected_at desc").
		Limit(common.FlaggedEventCap)
	if err := tx.Where("id NOT IN (?)", keep).Delete(&flagged.Event{}).Error; err != nil {
		return fmt.Errorf("failed to trim flagged events: %w", err)
	}

	return tx.Commit().Error
}

func (s *PostgresStore) ListFlagged(ctx context.Context, f flagged.Filter) ([]flagged.Event, error) {
	q := s.db.WithContext(ctx).Model(&flagged.Event{}).Order("detected_at desc")
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	events := []flagged.Event{}
	if err := q.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list flagged events: %w", err)
	}
	return events, nil
}

func (s *PostgresStore) AppendActivity(ctx context.Context, log *activity.Log) (bool, int, error) {
	added, total, err := s.AppendActivityBatch(ctx, log.FamilyID, []activity.Log{*log})
	return added > 0, total, err
}

func (s *PostgresStore) AppendActivityBatch(ctx context.Context, familyID string, logs []activity.Log) (int, int, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	added := 0
	for i := range logs {
		logs[i].FamilyID = familyID
		if logs[i].Timestamp.IsZero() {
			logs[i].Timestamp = now
		}
		// Replays of an already-synced id are silently skipped.
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&logs[i])
		if res.Error != nil {
			return 0, 0, fmt.Errorf("failed to store activity log: %w", res.Error)
		}
		added += int(res.RowsAffected)
	}

	keep := tx.Model(&activity.Log{}).
		Select("id").
		Where("family_id = ?", familyID).
		Order("timestamp desc").
		Limit(common.ActivityLogFamilyCap)
	if err := tx.Where("family_id = ? AND id NOT IN (?)", familyID, keep).
		Delete(&activity.Log{}).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to trim activity logs: %w", err)
	}

	var total int64
	if err := tx.Model(&activity.Log{}).Where("family_id = ?", familyID).Count(&total).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count activity logs: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return 0, 0, err
	}
	return added, int(total), nil
}

func (s *PostgresStore) ListActivity(ctx context.Context, familyID, userEmail string, limit int) ([]activity.Log, int, error) {
	q := s.db.WithContext(ctx).Model(&activity.Log{}).
		Where("family_id = ?", familyID).
		Order("timestamp desc")
	if userEmail != "" {
		q = q.Where("user_email = ?", userEmail)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	logs := []activity.Log{}
	if err := q.Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list activity logs: %w", err)
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&activity.Log{}).
		Where("family_id = ?", familyID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count activity logs: %w", err)
	}
	return logs, int(total), nil
}

func (s *PostgresStore) AppendReveal(ctx context.Context, e *reveal.Event) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.RevealedAt.IsZero() {
		e.RevealedAt = time.Now().UTC()
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	if err := tx.Create(e).Error; err != nil {
		return fmt.Errorf("failed to store reveal event: %w", err)
	}

	keep := tx.Model(&reveal.Event{}).
		Select("id").
		Order("revealed_at desc").
		Limit(common.RevealEventCap)
	if err := tx.Where("id NOT IN (?)", keep).Delete(&reveal.Event{}).Error; err != nil {
		return fmt.Errorf("failed to trim reveal events: %w", err)
	}

	return tx.Commit().Error
}

func (s *PostgresStore) ListReveals(ctx context.Context, f reveal.Filter) ([]reveal.Event, error) {
	q := s.db.WithContext(ctx).Model(&reveal.Event{}).Order("revealed_at desc")
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	events := []reveal.Event{}
	if err := q.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list reveal events: %w", err)
	}
	return events, nil
}

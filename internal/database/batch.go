package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// DefaultBatchSize is the ceiling on records fetched and deleted in one
// transactional unit.
const DefaultBatchSize = 500

// Scope narrows a query, e.g. to a single owner's records.
type Scope func(*gorm.DB) *gorm.DB

// BatchDeleter removes every record matching a scoped query in bounded,
// per-batch-atomic transactions. The operation as a whole is not atomic: a
// store failure mid-loop leaves a partially deleted set and surfaces to the
// caller. Re-running an exhausted query is a no-op, so interrupted deletions
// are safe to retry.
type BatchDeleter struct {
	db        *gorm.DB
	batchSize int
}

func NewBatchDeleter(db *gorm.DB) *BatchDeleter {
	return &BatchDeleter{db: db, batchSize: DefaultBatchSize}
}

// NewBatchDeleterWithSize overrides the batch ceiling; size must be positive.
func NewBatchDeleterWithSize(db *gorm.DB, size int) *BatchDeleter {
	if size <= 0 {
		size = DefaultBatchSize
	}
	return &BatchDeleter{db: db, batchSize: size}
}

// DeleteAll drains the query in an explicit loop, never recursion: fetch up to
// batchSize primary keys, stop on an empty page, otherwise delete that batch in
// one transaction and re-evaluate the same query. Deleted rows fall out of the
// next page naturally, so no cursor or offset is kept.
func (d *BatchDeleter) DeleteAll(ctx context.Context, model interface{}, scope Scope) (int64, error) {
	var total int64
	for {
		var ids []string
		err := d.db.WithContext(ctx).
			Model(model).
			Scopes(gormScope(scope)).
			Limit(d.batchSize).
			Pluck("id", &ids).Error
		if err != nil {
			return total, fmt.Errorf("batch delete: fetch page: %w", err)
		}
		if len(ids) == 0 {
			return total, nil
		}

		err = d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Where("id IN ?", ids).Delete(model).Error
		})
		if err != nil {
			return total, fmt.Errorf("batch delete: delete batch: %w", err)
		}
		total += int64(len(ids))
	}
}

func gormScope(scope Scope) func(*gorm.DB) *gorm.DB {
	if scope == nil {
		return func(db *gorm.DB) *gorm.DB { return db }
	}
	return scope
}

// ForOwner scopes a query to a single owner's records.
func ForOwner(ownerID string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("owner_id = ?", ownerID)
	}
}

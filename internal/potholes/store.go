package potholes

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists potholes in the shared Postgres table.
type GormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// ListAll returns the full snapshot, most-reported first so the worst spots
// surface at the top of any list view.
func (s *GormStore) ListAll(ctx context.Context) ([]Pothole, error) {
	var out []Pothole
	err := s.db.WithContext(ctx).
		Order("reports_count DESC, created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}
	return out, nil
}

// FindByDedupKey returns the defect stored under the normalized description,
// or nil when there is none. Should duplicates ever exist, the oldest row
// wins deterministically.
func (s *GormStore) FindByDedupKey(ctx context.Context, key string) (*Pothole, error) {
	var found Pothole
	err := s.db.WithContext(ctx).
		Where("dedup_key = ?", key).
		Order("created_at ASC, id ASC").
		First(&found).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &PersistenceError{Op: "find", Err: err}
	}
	return &found, nil
}

// Insert creates a new defect with a report count of 1. Two reporters racing
// to insert the same location resolve through the unique dedup_key index:
// the loser's insert turns into an increment of the winner's row, and the
// returned record reflects whichever row won.
func (s *GormStore) Insert(ctx context.Context, lat, lng float64, description, key string, position RoadPosition) (*Pothole, error) {
	record := &Pothole{
		ID:           uuid.New(),
		Lat:          lat,
		Lng:          lng,
		LocationDesc: description,
		DedupKey:     key,
		RoadPosition: position,
		ReportsCount: 1,
		CreatedAt:    time.Now().UTC(),
	}

	err := s.db.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "dedup_key"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"reports_count": gorm.Expr(`"potholes"."reports_count" + 1`),
			}),
		},
		clause.Returning{},
	).Create(record).Error
	if err != nil {
		return nil, &PersistenceError{Op: "insert", Err: err}
	}
	return record, nil
}

// IncrementCount bumps reports_count by exactly one, atomically relative to
// concurrent increments on the same row, and returns the new count.
func (s *GormStore) IncrementCount(ctx context.Context, id uuid.UUID) (int, error) {
	var updated Pothole
	res := s.db.WithContext(ctx).
		Model(&updated).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "reports_count"}}}).
		Where("id = ?", id).
		Update("reports_count", gorm.Expr("reports_count + 1"))
	if res.Error != nil {
		return 0, &PersistenceError{Op: "increment", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return 0, ErrNotFound
	}
	return updated.ReportsCount, nil
}

package repository

import (
	"context"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tms/internal/model"
)

// CounterRepository manages named counter rows used as row-lock anchors.
// Locks are held until the surrounding transaction ends, so callers must run
// inside Store.WithTransaction.
type CounterRepository interface {
	// Lock creates the named rows if missing and locks them FOR UPDATE in sorted order.
	Lock(ctx context.Context, names ...string) error
	// LockValue locks one row and returns its value.
	LockValue(ctx context.Context, name string) (int64, error)
	SetValue(ctx context.Context, name string, value int64) error
	Value(ctx context.Context, name string) (int64, error)
}

type counterRepository struct {
	db *gorm.DB
}

func (r *counterRepository) ensure(ctx context.Context, name string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.Counter{Name: name}).Error
}

func (r *counterRepository) lockOne(ctx context.Context, name string) (*model.Counter, error) {
	if err := r.ensure(ctx, name); err != nil {
		return nil, err
	}
	var c model.Counter
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("name = ?", name).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *counterRepository) Lock(ctx context.Context, names ...string) error {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	var prev string
	for i, name := range sorted {
		if i > 0 && name == prev {
			continue
		}
		prev = name
		if _, err := r.lockOne(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func (r *counterRepository) LockValue(ctx context.Context, name string) (int64, error) {
	c, err := r.lockOne(ctx, name)
	if err != nil {
		return 0, err
	}
	return c.Value, nil
}

func (r *counterRepository) SetValue(ctx context.Context, name string, value int64) error {
	return r.db.WithContext(ctx).Model(&model.Counter{}).
		Where("name = ?", name).
		Update("value", value).Error
}

// Value reads a counter without locking it. Missing rows read as 0.
func (r *counterRepository) Value(ctx context.Context, name string) (int64, error) {
	var values []int64
	err := r.db.WithContext(ctx).Model(&model.Counter{}).
		Where("name = ?", name).
		Pluck("value", &values).Error
	if err != nil || len(values) == 0 {
		return 0, err
	}
	return values[0], nil
}

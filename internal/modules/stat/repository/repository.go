package repository

import (
	"context"

	"gorm.io/gorm"
	"racego.com/raceapi/internal/entity"
)

type StatRepository interface {
	CountCompetitors(ctx context.Context, raceID uint) (int64, error)
	CountLaps(ctx context.Context, raceID uint) (int64, error)
	CountOnTrack(ctx context.Context, raceID uint) (int64, error)
	CountCategories(ctx context.Context, raceID uint) (int64, error)
}

type statRepository struct {
	db *gorm.DB
}

func NewStatRepository(db *gorm.DB) StatRepository {
	return &statRepository{db: db}
}

func (r *statRepository) count(ctx context.Context, model interface{}, raceID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(model).Where("race_id = ?", raceID).Count(&n).Error
	return n, err
}

func (r *statRepository) CountCompetitors(ctx context.Context, raceID uint) (int64, error) {
	return r.count(ctx, &entity.Competitor{}, raceID)
}

func (r *statRepository) CountLaps(ctx context.Context, raceID uint) (int64, error) {
	return r.count(ctx, &entity.Lap{}, raceID)
}

func (r *statRepository) CountOnTrack(ctx context.Context, raceID uint) (int64, error) {
	return r.count(ctx, &entity.Track{}, raceID)
}

func (r *statRepository) CountCategories(ctx context.Context, raceID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.UserClass{}).
		Where("race_id = ?", raceID).
		Distinct("class").
		Count(&n).Error
	return n, err
}

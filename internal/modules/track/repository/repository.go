package repository

import (
	"context"

	"gorm.io/gorm"
	"racego.com/raceapi/internal/entity"
	"racego.com/raceapi/pkg/apperror"
	"racego.com/raceapi/pkg/database"
)

type OnTrack struct {
	ID        uint
	FirstName string
	LastName  string
}

type TrackRepository interface {
	ListOnTrack(ctx context.Context, raceID uint) ([]OnTrack, error)
	CompetitorExists(ctx context.Context, raceID, userID uint) (bool, error)
	IsOnTrack(ctx context.Context, raceID, userID uint) (bool, error)
	Add(ctx context.Context, raceID, userID uint) error
	SubmitLap(ctx context.Context, lap *entity.Lap) error
	Cancel(ctx context.Context, raceID, userID uint) (int64, error)
}

type trackRepository struct {
	db *gorm.DB
}

func NewTrackRepository(db *gorm.DB) TrackRepository {
	return &trackRepository{db: db}
}

func (r *trackRepository) ListOnTrack(ctx context.Context, raceID uint) ([]OnTrack, error) {
	var rows []OnTrack
	err := r.db.WithContext(ctx).Raw(`
		SELECT u.id AS id, u.first_name AS first_name, u.last_name AS last_name
		FROM track AS t
		JOIN "user" AS u ON u.id = t.user_id_ref AND u.race_id = t.race_id
		WHERE t.race_id = ?
		ORDER BY t.id`, raceID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *trackRepository) CompetitorExists(ctx context.Context, raceID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Competitor{}).
		Where("race_id = ? AND id = ?", raceID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *trackRepository) IsOnTrack(ctx context.Context, raceID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Track{}).
		Where("race_id = ? AND user_id_ref = ?", raceID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *trackRepository) Add(ctx context.Context, raceID, userID uint) error {
	return r.db.WithContext(ctx).Create(&entity.Track{RaceID: raceID, UserIDRef: userID}).Error
}

// SubmitLap stores the lap and takes the competitor off the track in one
// transaction. A competitor that left the track meanwhile rolls the lap back.
func (r *trackRepository) SubmitLap(ctx context.Context, lap *entity.Lap) error {
	return database.Transaction(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Create(lap).Error; err != nil {
			return err
		}

		res := tx.Where("race_id = ? AND user_id_ref = ?", lap.RaceID, lap.UserIDRef).Delete(&entity.Track{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.Validation("user is not on track", map[string]string{
				"id": "user is not on track",
			})
		}
		return nil
	})
}

func (r *trackRepository) Cancel(ctx context.Context, raceID, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("race_id = ? AND user_id_ref = ?", raceID, userID).
		Delete(&entity.Track{})
	return res.RowsAffected, res.Error
}
